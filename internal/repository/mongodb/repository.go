package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

const (
	expensesColl    = "expenses"
	productionsColl = "milk_productions"
	salesColl       = "milk_sales"
	customersColl   = "customers"
	entriesColl     = "ledger_entries"
	countersColl    = "counters"
	digestsColl     = "report_digests"
)

// MongoDBRepository implements the record, ledger and digest repositories.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository connects, pings and prepares indexes.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{client: client, db: client.Database(dbName)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	indexes := map[string]bson.D{
		expensesColl:    {{Key: "user_id", Value: 1}, {Key: "expense_date", Value: 1}},
		productionsColl: {{Key: "user_id", Value: 1}, {Key: "production_date", Value: 1}},
		salesColl:       {{Key: "user_id", Value: 1}, {Key: "sale_date", Value: 1}},
		customersColl:   {{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
		entriesColl:     {{Key: "customer_id", Value: 1}, {Key: "seq", Value: 1}},
	}
	for coll, keys := range indexes {
		if _, err := r.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys}); err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
	}
	return nil
}

// SaveDigest archives a scheduled digest.
func (r *MongoDBRepository) SaveDigest(ctx context.Context, d models.Digest) error {
	if _, err := r.db.Collection(digestsColl).InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to insert report digest: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) findOne(ctx context.Context, coll, id string, out any) error {
	err := r.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find %s %s: %w", coll, id, err)
	}
	return nil
}

func (r *MongoDBRepository) deleteOne(ctx context.Context, coll, id string) error {
	res, err := r.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", coll, id, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// findMany runs a filtered, sorted query and decodes every document into out.
func (r *MongoDBRepository) findMany(ctx context.Context, coll string, filter bson.M, opts *options.FindOptions, out any) error {
	cursor, err := r.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("query %s: %w", coll, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", coll, err)
	}
	return nil
}
