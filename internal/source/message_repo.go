package source

import (
	"context"
	"database/sql"

	"github.com/whitelistlab/wx-db-kit/internal/model"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// ListAfter returns up to limit rows with localId > after in ascending
// localId order. localId is strictly increasing within a source store and
// is the only safe resumption key.
func (r *MessageRepo) ListAfter(ctx context.Context, after int64, limit int) ([]model.SourceMessage, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT localId, TalkerId, Type, SubType, IsSender, CreateTime,
       Status, StrContent, MsgSvrID, BytesExtra, StrTalker,
       CompressContent, DisplayContent
FROM MSG
WHERE localId > ?
ORDER BY localId
LIMIT ?
`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SourceMessage, 0, limit)
	for rows.Next() {
		var m model.SourceMessage
		var isSender int
		if err := rows.Scan(&m.LocalID, &m.TalkerID, &m.Type, &m.SubType, &isSender, &m.CreateTime,
			&m.Status, &m.StrContent, &m.MsgSvrID, &m.BytesExtra, &m.StrTalker,
			&m.CompressContent, &m.DisplayContent); err != nil {
			return nil, err
		}
		m.IsSender = isSender != 0
		out = append(out, m)
	}
	return out, rows.Err()
}
