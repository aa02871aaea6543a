package tasklog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const counterID = "tasklog"

// MongoLog is a change log stored in a MongoDB collection. Task ids are
// allocated from a counters collection so they stay strictly increasing
// across producers.
type MongoLog struct {
	tasks    *mongo.Collection
	counters *mongo.Collection
}

// NewMongoLog creates a task log backed by the given collections.
func NewMongoLog(db *mongo.Database, tasksCollection, countersCollection string) *MongoLog {
	return &MongoLog{
		tasks:    db.Collection(tasksCollection),
		counters: db.Collection(countersCollection),
	}
}

func (l *MongoLog) Fetch(ctx context.Context, afterID int64, limit int) ([]Task, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := l.tasks.Find(ctx, bson.M{"_id": bson.M{"$gt": afterID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []Task
	for cursor.Next(ctx) {
		var task Task
		if err := cursor.Decode(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, cursor.Err()
}

func (l *MongoLog) Append(ctx context.Context, recordID string, kind Kind) (Task, error) {
	id, err := l.nextID(ctx)
	if err != nil {
		return Task{}, err
	}

	task := Task{
		ID:        id,
		RecordID:  recordID,
		Kind:      kind,
		CreatedAt: time.Now().UnixMilli(),
	}
	if _, err := l.tasks.InsertOne(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (l *MongoLog) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := l.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
