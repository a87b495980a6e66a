// Package target writes normalized documents into MongoDB. Every write is
// an idempotent upsert keyed by a stable identifier, so re-running any
// migration range is a no-op and concurrent readers never observe
// retracted data.
package target

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Options struct {
	URI         string
	Database    string
	PingTimeout time.Duration
}

type Store struct {
	client *mongo.Client

	Messages   *mongo.Collection
	Contacts   *mongo.Collection
	ChatRooms  *mongo.Collection
	SyncStatus *mongo.Collection
}

func Connect(ctx context.Context, opt Options) (*Store, error) {
	if opt.PingTimeout == 0 {
		opt.PingTimeout = 5 * time.Second
	}
	client, err := mongo.Connect(options.Client().ApplyURI(opt.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, opt.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(opt.Database)
	return &Store{
		client:     client,
		Messages:   db.Collection("messages"),
		Contacts:   db.Collection("contacts"),
		ChatRooms:  db.Collection("chatrooms"),
		SyncStatus: db.Collection("sync_status"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the query and uniqueness indexes the pipeline
// relies on. Unique keys back the idempotent upserts.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "local_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "str_talker", Value: 1}, {Key: "create_time", Value: 1}}},
		{Keys: bson.D{{Key: "msg_svr_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("messages indexes: %w", err)
	}
	_, err = s.Contacts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "last_update_time", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("contacts indexes: %w", err)
	}
	_, err = s.ChatRooms.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "chatroom_name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "last_update_time", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("chatrooms indexes: %w", err)
	}
	_, err = s.SyncStatus.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "collection", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("sync_status indexes: %w", err)
	}
	return nil
}
