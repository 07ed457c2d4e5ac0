package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/williamthazard/react-test/internal/quiz"
)

// MongoStore keeps the definition as one document in a collection:
// {_id, payload, updatedAt} with the definition serialized into payload.
type MongoStore struct {
	coll *mongo.Collection
}

type mongoDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Payload   string             `bson:"payload"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func NewMongoStore(ctx context.Context, uri, db, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{coll: client.Database(db).Collection(collection)}, nil
}

// Probe lists the collection with a limit of one; any document present is
// "the" document. Sorted by _id so a duplicate created by the first-save
// race resolves to the same winner every time.
func (s *MongoStore) Probe(ctx context.Context) (DocumentHandle, bool, error) {
	var doc mongoDoc
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}).SetProjection(bson.D{{Key: "_id", Value: 1}})
	err := s.coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return DocumentHandle(doc.ID.Hex()), true, nil
}

func (s *MongoStore) Get(ctx context.Context, h DocumentHandle) (*quiz.TestDefinition, error) {
	id, err := primitive.ObjectIDFromHex(string(h))
	if err != nil {
		return nil, fmt.Errorf("bad document handle %q: %w", h, err)
	}
	var doc mongoDoc
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		return nil, err
	}
	return decodePayload(doc.Payload)
}

func (s *MongoStore) Create(ctx context.Context, def *quiz.TestDefinition) (DocumentHandle, error) {
	payload, err := encodePayload(def)
	if err != nil {
		return "", err
	}
	res, err := s.coll.InsertOne(ctx, mongoDoc{Payload: payload, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return "", err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return DocumentHandle(id.Hex()), nil
}

func (s *MongoStore) Update(ctx context.Context, h DocumentHandle, def *quiz.TestDefinition) error {
	id, err := primitive.ObjectIDFromHex(string(h))
	if err != nil {
		return fmt.Errorf("bad document handle %q: %w", h, err)
	}
	payload, err := encodePayload(def)
	if err != nil {
		return err
	}
	_, err = s.coll.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "payload", Value: payload},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}})
	return err
}
