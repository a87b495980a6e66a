package target

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/whitelistlab/wx-db-kit/internal/model"
)

// Checkpoints tracks the last migrated cursor per logical collection in
// the sync_status collection. Only the migration orchestrator advances a
// checkpoint, and only after its batch is durably written.
type Checkpoints struct {
	coll *mongo.Collection
}

func NewCheckpoints(s *Store) *Checkpoints { return &Checkpoints{coll: s.SyncStatus} }

// Get returns the checkpoint for collection, persisting a zero default on
// first read so repeated reads are stable.
func (c *Checkpoints) Get(ctx context.Context, collection string) (model.Checkpoint, error) {
	var cp model.Checkpoint
	err := c.coll.FindOne(ctx, bson.M{"collection": collection}).Decode(&cp)
	if err == nil {
		return cp, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return model.Checkpoint{}, fmt.Errorf("checkpoint read %s: %w", collection, err)
	}

	cp = model.Checkpoint{Collection: collection}
	if _, err := c.coll.InsertOne(ctx, cp); err != nil {
		return model.Checkpoint{}, fmt.Errorf("checkpoint init %s: %w", collection, err)
	}
	return cp, nil
}

// Advance atomically sets both the cursor and the sync timestamp.
func (c *Checkpoints) Advance(ctx context.Context, collection string, cursor int64) error {
	_, err := c.coll.UpdateOne(ctx,
		bson.M{"collection": collection},
		bson.M{"$set": bson.M{
			"last_local_id":  cursor,
			"last_sync_time": time.Now().Unix(),
		}})
	if err != nil {
		return fmt.Errorf("checkpoint advance %s: %w", collection, err)
	}
	return nil
}
