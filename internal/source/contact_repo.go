package source

import (
	"context"
	"database/sql"

	"github.com/whitelistlab/wx-db-kit/internal/model"
)

type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

// ListContacts returns every person-or-room contact row worth mirroring:
// stranger and blocked entries (Type 4, VerifyFlag != 0) and rows without a
// nickname are filtered out at the source, matching the archive layout.
func (r *ContactRepo) ListContacts(ctx context.Context) ([]model.SourceContact, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT UserName, Alias, Type, Remark, NickName, PYInitial,
       RemarkPYInitial, ContactHeadImgUrl.smallHeadImgUrl,
       ContactHeadImgUrl.bigHeadImgUrl, ExTraBuf
FROM Contact
INNER JOIN ContactHeadImgUrl ON Contact.UserName = ContactHeadImgUrl.usrName
WHERE Type != 4 AND VerifyFlag = 0 AND NickName != ''
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SourceContact
	for rows.Next() {
		var c model.SourceContact
		if err := rows.Scan(&c.UserName, &c.Alias, &c.Type, &c.Remark, &c.NickName, &c.PYInitial,
			&c.RemarkPYInitial, &c.SmallHeadImgURL, &c.BigHeadImgURL, &c.ExtraBuf); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LookupNames returns the remark and nickname for one handle. ok is false
// when no contact row exists; the caller falls back to the raw handle.
func (r *ContactRepo) LookupNames(ctx context.Context, username string) (remark, nickname string, ok bool, err error) {
	var rm, nn sql.NullString
	err = r.db.QueryRowContext(ctx, `
SELECT Remark, NickName
FROM Contact
WHERE UserName = ?
`, username).Scan(&rm, &nn)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return rm.String, nn.String, true, nil
}

// ListRooms returns every chat room row. RoomData is mirrored opaquely.
func (r *ContactRepo) ListRooms(ctx context.Context) ([]model.SourceRoom, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ChatRoomName, RoomData FROM ChatRoom`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SourceRoom
	for rows.Next() {
		var g model.SourceRoom
		if err := rows.Scan(&g.ChatRoomName, &g.RoomData); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
