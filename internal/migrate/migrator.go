// Package migrate moves archive rows into the target store in bounded,
// checkpointed batches. Messages advance a cursor; contacts and chat
// rooms are small, mutable-in-place tables and get a full differential
// upsert on every run instead.
package migrate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/whitelistlab/wx-db-kit/internal/classify"
	"github.com/whitelistlab/wx-db-kit/internal/metrics"
	"github.com/whitelistlab/wx-db-kit/internal/model"
	"github.com/whitelistlab/wx-db-kit/internal/namecache"
	"github.com/whitelistlab/wx-db-kit/internal/wire"
)

type MessageSource interface {
	ListAfter(ctx context.Context, after int64, limit int) ([]model.SourceMessage, error)
}

type ContactSource interface {
	ListContacts(ctx context.Context) ([]model.SourceContact, error)
	ListRooms(ctx context.Context) ([]model.SourceRoom, error)
	LookupNames(ctx context.Context, username string) (remark, nickname string, ok bool, err error)
}

type Target interface {
	UpsertMessages(ctx context.Context, docs []model.MessageDoc) error
	UpsertContact(ctx context.Context, doc model.ContactDoc) error
	UpsertRoom(ctx context.Context, doc model.RoomDoc) error
}

type Checkpoints interface {
	Get(ctx context.Context, collection string) (model.Checkpoint, error)
	Advance(ctx context.Context, collection string, cursor int64) error
}

type Options struct {
	BatchSize    int
	NameCacheTTL time.Duration
}

type Migrator struct {
	msgs     MessageSource
	contacts ContactSource
	target   Target
	cps      Checkpoints
	names    *namecache.Cache
	log      *zap.Logger

	batch int
}

func New(msgs MessageSource, contacts ContactSource, target Target, cps Checkpoints, log *zap.Logger, opt Options) *Migrator {
	if opt.BatchSize <= 0 {
		opt.BatchSize = 1000
	}
	return &Migrator{
		msgs:     msgs,
		contacts: contacts,
		target:   target,
		cps:      cps,
		names:    namecache.New(opt.NameCacheTTL),
		log:      log,
		batch:    opt.BatchSize,
	}
}

// MigrateMessages drains all rows past the current checkpoint. Each batch
// upsert and its checkpoint advance form one unit: a failed upsert leaves
// the checkpoint untouched so the next run re-fetches exactly that batch.
func (m *Migrator) MigrateMessages(ctx context.Context) error {
	cp, err := m.cps.Get(ctx, model.CollMessages)
	if err != nil {
		return err
	}
	cursor := cp.LastLocalID

	for {
		rows, err := m.msgs.ListAfter(ctx, cursor, m.batch)
		if err != nil {
			return fmt.Errorf("fetch messages after %d: %w", cursor, err)
		}
		if len(rows) == 0 {
			return nil
		}

		docs := make([]model.MessageDoc, 0, len(rows))
		for i := range rows {
			docs = append(docs, m.buildMessageDoc(ctx, &rows[i]))
		}

		if err := m.target.UpsertMessages(ctx, docs); err != nil {
			metrics.BatchFailures.Inc()
			return fmt.Errorf("upsert message batch after %d: %w", cursor, err)
		}
		cursor = rows[len(rows)-1].LocalID
		if err := m.cps.Advance(ctx, model.CollMessages, cursor); err != nil {
			return err
		}
		metrics.BatchesCommitted.Inc()
		metrics.CheckpointAdvances.Inc()
		metrics.MessagesMigrated.Add(float64(len(rows)))
	}
}

func (m *Migrator) buildMessageDoc(ctx context.Context, row *model.SourceMessage) model.MessageDoc {
	doc := model.MessageDoc{
		LocalID:         row.LocalID,
		TalkerID:        row.TalkerID.Int64,
		Type:            row.Type,
		SubType:         row.SubType,
		IsSender:        row.IsSender,
		CreateTime:      time.Unix(row.CreateTime, 0),
		Status:          row.Status.Int64,
		StrContent:      row.StrContent.String,
		MsgSvrID:        row.MsgSvrID.Int64,
		BytesExtra:      row.BytesExtra,
		StrTalker:       row.StrTalker,
		CompressContent: row.CompressContent,
		DisplayContent:  row.DisplayContent.String,
	}

	res := classify.Classify(row.Type, row.StrContent.String, row.BytesExtra)
	doc.Kind = res.Kind.String()
	doc.Summary = res.Summary

	if model.IsChatRoom(row.StrTalker) && !row.IsSender && len(row.BytesExtra) > 0 {
		if sender := wire.SenderID(row.BytesExtra); sender != "" {
			doc.SenderID = sender
			doc.SenderName = m.displayName(ctx, sender)
		} else {
			metrics.SenderDecodeMiss.Inc()
		}
	}
	return doc
}

// displayName resolves a member handle to remark-over-nickname, falling
// back to the handle itself. Lookup failures degrade the same way; they
// never block migration of the row.
func (m *Migrator) displayName(ctx context.Context, handle string) string {
	if name, ok := m.names.Get(handle); ok {
		return name
	}
	remark, nickname, found, err := m.contacts.LookupNames(ctx, handle)
	if err != nil {
		m.log.Warn("contact lookup failed", zap.String("handle", handle), zap.Error(err))
		return handle
	}
	name := handle
	if found {
		name = classify.ResolveDisplayName(remark, nickname, handle)
	}
	m.names.Set(handle, name)
	return name
}

// MigrateContacts upserts every person contact by username. Rows whose
// handle carries the chat room suffix are skipped here; rooms are migrated
// from their own table.
func (m *Migrator) MigrateContacts(ctx context.Context) error {
	rows, err := m.contacts.ListContacts(ctx)
	if err != nil {
		return fmt.Errorf("fetch contacts: %w", err)
	}
	now := time.Now()

	for i := range rows {
		c := &rows[i]
		if model.IsChatRoom(c.UserName) {
			continue
		}
		doc := model.ContactDoc{
			UserName:        c.UserName,
			Alias:           c.Alias.String,
			Type:            c.Type,
			Remark:          c.Remark.String,
			NickName:        c.NickName.String,
			PYInitial:       c.PYInitial.String,
			RemarkPYInitial: c.RemarkPYInitial.String,
			SmallHeadImgURL: c.SmallHeadImgURL.String,
			BigHeadImgURL:   c.BigHeadImgURL.String,
			ExtraBuf:        c.ExtraBuf,
			LastUpdateTime:  now,
		}
		if len(c.ExtraBuf) > 0 {
			doc.Attrs = wire.ParseExtraBuf(c.ExtraBuf)
		}
		if err := m.target.UpsertContact(ctx, doc); err != nil {
			return fmt.Errorf("upsert contact %s: %w", c.UserName, err)
		}
		metrics.ContactsUpserted.Inc()
	}
	return nil
}

// MigrateChatRooms upserts every chat room by chatroom_name.
func (m *Migrator) MigrateChatRooms(ctx context.Context) error {
	rows, err := m.contacts.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("fetch chatrooms: %w", err)
	}
	now := time.Now()

	for i := range rows {
		doc := model.RoomDoc{
			ChatRoomName:   rows[i].ChatRoomName,
			RoomData:       rows[i].RoomData,
			LastUpdateTime: now,
		}
		if err := m.target.UpsertRoom(ctx, doc); err != nil {
			return fmt.Errorf("upsert chatroom %s: %w", rows[i].ChatRoomName, err)
		}
		metrics.RoomsUpserted.Inc()
	}
	return nil
}
