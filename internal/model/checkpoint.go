package model

// Checkpoint is the per-collection sync position kept in the sync_status
// collection. LastLocalID is the only safe resumption key; timestamps are
// not unique in the source store and are never used as a cursor.
type Checkpoint struct {
	Collection   string `bson:"collection"`
	LastLocalID  int64  `bson:"last_local_id"`
	LastSyncTime int64  `bson:"last_sync_time"`
}

// Logical collection names used for checkpointing and target routing.
const (
	CollMessages  = "messages"
	CollContacts  = "contacts"
	CollChatRooms = "chatrooms"
)
