package model

import (
	"database/sql"
	"strings"
	"time"
)

const chatRoomSuffix = "@chatroom"

// IsChatRoom reports whether a handle belongs to a chat room rather than a
// person. The two live in the same source table but are routed to separate
// target collections.
func IsChatRoom(username string) bool {
	return strings.HasSuffix(username, chatRoomSuffix)
}

// SourceContact is the DB model for one Contact row joined with its head
// image URLs.
type SourceContact struct {
	UserName        string
	Alias           sql.NullString
	Type            int
	Remark          sql.NullString
	NickName        sql.NullString
	PYInitial       sql.NullString
	RemarkPYInitial sql.NullString
	SmallHeadImgURL sql.NullString
	BigHeadImgURL   sql.NullString
	ExtraBuf        []byte
}

// ContactDoc is the migrated contact document, upserted by username on
// every run.
type ContactDoc struct {
	UserName        string    `bson:"username"`
	Alias           string    `bson:"alias"`
	Type            int       `bson:"type"`
	Remark          string    `bson:"remark"`
	NickName        string    `bson:"nickname"`
	PYInitial       string    `bson:"py_initial"`
	RemarkPYInitial string    `bson:"remark_py_initial"`
	SmallHeadImgURL string    `bson:"small_head_img_url"`
	BigHeadImgURL   string    `bson:"big_head_img_url"`
	ExtraBuf        []byte    `bson:"extra_buf,omitempty"`
	LastUpdateTime  time.Time `bson:"last_update_time"`

	// Attrs holds the decoded attribute block (gender, signature, region,
	// company and so on); one entry per known identifier, empty when the
	// identifier is absent from the blob.
	Attrs map[string]any `bson:"attrs,omitempty"`
}

// SourceRoom is the DB model for one ChatRoom row.
type SourceRoom struct {
	ChatRoomName string
	RoomData     []byte
}

// RoomDoc is the migrated chat room document, upserted by chatroom_name on
// every run. RoomData stays opaque.
type RoomDoc struct {
	ChatRoomName   string    `bson:"chatroom_name"`
	RoomData       []byte    `bson:"room_data,omitempty"`
	LastUpdateTime time.Time `bson:"last_update_time"`
}
