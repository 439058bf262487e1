package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

const mongoCartID = "storefront"

type cartDocument struct {
	ID        string            `bson:"_id"`
	Items     []domain.LineItem `bson:"items"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// MongoStore persists the cart as a single document, replaced wholesale
// on every save.
type MongoStore struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewMongoStore(db *mongo.Database, logger *zap.Logger) *MongoStore {
	return &MongoStore{
		collection: db.Collection("carts"),
		logger:     logger,
	}
}

// ConnectMongoDB opens a connection suitable for the cart store and
// verifies it with a ping.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (s *MongoStore) Load(ctx context.Context) ([]domain.LineItem, error) {
	filter := bson.M{"_id": mongoCartID}
	res := s.collection.FindOne(ctx, filter)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.LineItem{}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	// A document that no longer decodes is treated as absent, same as
	// the other stores.
	var doc cartDocument
	if err := res.Decode(&doc); err != nil {
		s.logger.Warn("discarding malformed cart document", zap.Error(err))
		return []domain.LineItem{}, nil
	}

	if doc.Items == nil {
		return []domain.LineItem{}, nil
	}
	return doc.Items, nil
}

func (s *MongoStore) Save(ctx context.Context, items []domain.LineItem) error {
	doc := cartDocument{
		ID:        mongoCartID,
		Items:     items,
		UpdatedAt: time.Now(),
	}

	// Replace rather than update: the immutable _id stays out of the
	// modification document.
	filter := bson.M{"_id": mongoCartID}
	opts := options.Replace().SetUpsert(true)

	if _, err := s.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
