package target

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/whitelistlab/wx-db-kit/internal/model"
)

// UpsertMessages writes one batch keyed by local_id. Replace-with-upsert
// keeps retries of an interrupted batch duplicate-free.
func (s *Store) UpsertMessages(ctx context.Context, docs []model.MessageDoc) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(docs))
	for i := range docs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"local_id": docs[i].LocalID}).
			SetReplacement(docs[i]).
			SetUpsert(true))
	}
	_, err := s.Messages.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	return err
}

func (s *Store) UpsertContact(ctx context.Context, doc model.ContactDoc) error {
	_, err := s.Contacts.UpdateOne(ctx,
		bson.M{"username": doc.UserName},
		bson.M{"$set": doc},
		options.UpdateOne().SetUpsert(true))
	return err
}

func (s *Store) UpsertRoom(ctx context.Context, doc model.RoomDoc) error {
	_, err := s.ChatRooms.UpdateOne(ctx,
		bson.M{"chatroom_name": doc.ChatRoomName},
		bson.M{"$set": doc},
		options.UpdateOne().SetUpsert(true))
	return err
}
