package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

type customerDocument struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"user_id"`
	Name          string    `bson:"name"`
	Notes         string    `bson:"notes,omitempty"`
	PaymentStatus string    `bson:"payment_status"`
	CreatedAt     time.Time `bson:"created_at"`
}

// entryDocument keeps decimals as strings so no precision is lost; the total
// is not stored because it is always derived from quantity and price.
type entryDocument struct {
	ID         string    `bson:"_id"`
	CustomerID string    `bson:"customer_id"`
	Date       time.Time `bson:"entry_date"`
	QuantityKg string    `bson:"quantity_kg"`
	PricePerKg string    `bson:"price_per_kg"`
	Notes      string    `bson:"notes,omitempty"`
	Seq        int64     `bson:"seq"`
	CreatedAt  time.Time `bson:"created_at"`
}

func toCustomerDocument(c models.Customer) customerDocument {
	return customerDocument{
		ID:            c.ID,
		UserID:        c.UserID,
		Name:          c.Name,
		Notes:         c.Notes,
		PaymentStatus: string(c.Status()),
		CreatedAt:     c.CreatedAt,
	}
}

func (d customerDocument) model() models.Customer {
	return models.Customer{
		ID:            d.ID,
		UserID:        d.UserID,
		Name:          d.Name,
		Notes:         d.Notes,
		PaymentStatus: models.PaymentStatus(d.PaymentStatus),
		CreatedAt:     d.CreatedAt,
	}
}

func toEntryDocument(e models.Entry) entryDocument {
	return entryDocument{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Date:       e.Date,
		QuantityKg: e.QuantityKg.String(),
		PricePerKg: e.PricePerKg.String(),
		Notes:      e.Notes,
		Seq:        e.Seq,
		CreatedAt:  e.CreatedAt,
	}
}

func (d entryDocument) model() (models.Entry, error) {
	qty, err := decimal.NewFromString(d.QuantityKg)
	if err != nil {
		return models.Entry{}, fmt.Errorf("entry %s quantity: %w", d.ID, err)
	}
	price, err := decimal.NewFromString(d.PricePerKg)
	if err != nil {
		return models.Entry{}, fmt.Errorf("entry %s price: %w", d.ID, err)
	}
	return models.Entry{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		Date:       d.Date,
		QuantityKg: qty,
		PricePerKg: price,
		Notes:      d.Notes,
		Seq:        d.Seq,
		CreatedAt:  d.CreatedAt,
	}, nil
}

// CreateCustomer inserts a customer.
func (r *MongoDBRepository) CreateCustomer(ctx context.Context, c models.Customer) error {
	if _, err := r.db.Collection(customersColl).InsertOne(ctx, toCustomerDocument(c)); err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// GetCustomer loads one customer.
func (r *MongoDBRepository) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	var doc customerDocument
	if err := r.findOne(ctx, customersColl, id, &doc); err != nil {
		return models.Customer{}, err
	}
	return doc.model(), nil
}

// ListCustomers returns the user's customers in creation order.
func (r *MongoDBRepository) ListCustomers(ctx context.Context, userID string) ([]models.Customer, error) {
	var docs []customerDocument
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if err := r.findMany(ctx, customersColl, bson.M{"user_id": userID}, opts, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Customer, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// SetPaymentStatus updates the customer's payment status.
func (r *MongoDBRepository) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	res, err := r.db.Collection(customersColl).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"payment_status": string(status)}})
	if err != nil {
		return fmt.Errorf("update customer %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteCustomer removes the customer and its entries.
func (r *MongoDBRepository) DeleteCustomer(ctx context.Context, id string) error {
	if err := r.deleteOne(ctx, customersColl, id); err != nil {
		return err
	}
	if _, err := r.db.Collection(entriesColl).DeleteMany(ctx, bson.M{"customer_id": id}); err != nil {
		return fmt.Errorf("delete entries of customer %s: %w", id, err)
	}
	return nil
}

// AddEntries inserts entries with sequence numbers taken from a counter so
// listing by seq returns insertion order.
func (r *MongoDBRepository) AddEntries(ctx context.Context, entries []models.Entry) ([]models.Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	last, err := r.reserveSeq(ctx, entriesColl, int64(len(entries)))
	if err != nil {
		return nil, err
	}

	out := assignSeq(entries, last)
	docs := make([]interface{}, 0, len(out))
	for _, e := range out {
		docs = append(docs, toEntryDocument(e))
	}
	if _, err := r.db.Collection(entriesColl).InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert ledger entries: %w", err)
	}
	return out, nil
}

// assignSeq numbers entries so the last one gets last, the counter value
// after the reservation.
func assignSeq(entries []models.Entry, last int64) []models.Entry {
	first := last - int64(len(entries)) + 1
	out := make([]models.Entry, 0, len(entries))
	for i, e := range entries {
		e.Seq = first + int64(i)
		out = append(out, e)
	}
	return out
}

func (r *MongoDBRepository) reserveSeq(ctx context.Context, name string, n int64) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.db.Collection(countersColl).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"value": n}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("reserve %s sequence: %w", name, err)
	}
	return counter.Value, nil
}

// ListEntries returns a customer's entries in insertion order.
func (r *MongoDBRepository) ListEntries(ctx context.Context, customerID string) ([]models.Entry, error) {
	var docs []entryDocument
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	if err := r.findMany(ctx, entriesColl, bson.M{"customer_id": customerID}, opts, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Entry, 0, len(docs))
	for _, d := range docs {
		e, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// GetEntry loads one entry.
func (r *MongoDBRepository) GetEntry(ctx context.Context, id string) (models.Entry, error) {
	var doc entryDocument
	if err := r.findOne(ctx, entriesColl, id, &doc); err != nil {
		return models.Entry{}, err
	}
	return doc.model()
}

// DeleteEntry removes one entry.
func (r *MongoDBRepository) DeleteEntry(ctx context.Context, id string) error {
	return r.deleteOne(ctx, entriesColl, id)
}
