package watermark

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type markDoc struct {
	Index      string `bson:"_id"`
	LastTaskID int64  `bson:"last_task_id"`
}

// MongoStore keeps watermarks in a MongoDB collection. Commit applies all
// buffered sets in one bulk write.
type MongoStore struct {
	coll *mongo.Collection

	mu      sync.Mutex
	pending map[string]int64
}

// NewMongoStore creates a watermark store backed by the given collection.
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{
		coll:    db.Collection(collection),
		pending: make(map[string]int64),
	}
}

func (s *MongoStore) Get(ctx context.Context, index string) (int64, error) {
	s.mu.Lock()
	if taskID, ok := s.pending[index]; ok {
		s.mu.Unlock()
		return taskID, nil
	}
	s.mu.Unlock()

	var doc markDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": index}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return doc.LastTaskID, nil
}

func (s *MongoStore) Set(index string, taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[index] = taskID
}

func (s *MongoStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	pending := s.pending
	s.pending = make(map[string]int64)
	s.mu.Unlock()

	models := make([]mongo.WriteModel, 0, len(pending))
	for index, taskID := range pending {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": index}).
			SetReplacement(markDoc{Index: index, LastTaskID: taskID}).
			SetUpsert(true))
	}

	_, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (s *MongoStore) Delete(ctx context.Context, index string) error {
	s.mu.Lock()
	delete(s.pending, index)
	s.mu.Unlock()

	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": index})
	return err
}
