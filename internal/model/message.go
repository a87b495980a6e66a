package model

import (
	"database/sql"
	"time"
)

// SourceMessage is the DB model for one MSG row.
// Nullable columns use sql.Null* to avoid ambiguity.
type SourceMessage struct {
	LocalID         int64
	TalkerID        sql.NullInt64
	Type            int
	SubType         int
	IsSender        bool
	CreateTime      int64
	Status          sql.NullInt64
	StrContent      sql.NullString
	MsgSvrID        sql.NullInt64
	BytesExtra      []byte
	StrTalker       string
	CompressContent []byte
	DisplayContent  sql.NullString
}

// MessageDoc is the migrated message document. Messages are immutable in
// the source store, so the document is written once and only re-written by
// an idempotent upsert on local_id.
type MessageDoc struct {
	LocalID         int64     `bson:"local_id"`
	TalkerID        int64     `bson:"talker_id"`
	Type            int       `bson:"type"`
	SubType         int       `bson:"sub_type"`
	IsSender        bool      `bson:"is_sender"`
	CreateTime      time.Time `bson:"create_time"`
	Status          int64     `bson:"status"`
	StrContent      string    `bson:"str_content"`
	MsgSvrID        int64     `bson:"msg_svr_id"`
	BytesExtra      []byte    `bson:"bytes_extra,omitempty"`
	StrTalker       string    `bson:"str_talker"`
	CompressContent []byte    `bson:"compress_content,omitempty"`
	DisplayContent  string    `bson:"display_content"`

	// SenderID is resolved on write for group messages the local user did
	// not send; empty otherwise. SenderName is the display name at
	// migration time (remark over nickname, handle as fallback).
	SenderID   string `bson:"sender_id"`
	SenderName string `bson:"sender_name,omitempty"`

	// Kind and Summary are the classified semantic category and its
	// human-readable rendering, so readers need not decode bytes_extra.
	Kind    string `bson:"kind"`
	Summary string `bson:"summary"`
}
