package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

func windowFilter(userID, dateField string, from, to time.Time) bson.M {
	return bson.M{
		"user_id": userID,
		dateField: bson.M{"$gte": from, "$lte": to},
	}
}

func ascending(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: 1}, {Key: "created_at", Value: 1}})
}

func newest(field string, limit int) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}, {Key: "created_at", Value: -1}}).SetLimit(int64(limit))
}

// CreateExpenses inserts a batch of expenses.
func (r *MongoDBRepository) CreateExpenses(ctx context.Context, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(expenses))
	for _, e := range expenses {
		docs = append(docs, e)
	}
	if _, err := r.db.Collection(expensesColl).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert expenses: %w", err)
	}
	return nil
}

// ListExpenses returns the user's expenses within [from, to], oldest first.
func (r *MongoDBRepository) ListExpenses(ctx context.Context, userID string, from, to time.Time) ([]models.Expense, error) {
	out := []models.Expense{}
	err := r.findMany(ctx, expensesColl, windowFilter(userID, "expense_date", from, to), ascending("expense_date"), &out)
	return out, err
}

// RecentExpenses returns the user's newest expenses.
func (r *MongoDBRepository) RecentExpenses(ctx context.Context, userID string, limit int) ([]models.Expense, error) {
	out := []models.Expense{}
	err := r.findMany(ctx, expensesColl, bson.M{"user_id": userID}, newest("expense_date", limit), &out)
	return out, err
}

// GetExpense loads one expense.
func (r *MongoDBRepository) GetExpense(ctx context.Context, id string) (models.Expense, error) {
	var e models.Expense
	err := r.findOne(ctx, expensesColl, id, &e)
	return e, err
}

// DeleteExpense removes one expense.
func (r *MongoDBRepository) DeleteExpense(ctx context.Context, id string) error {
	return r.deleteOne(ctx, expensesColl, id)
}

// TotalExpenses sums the amount of every expense across users.
func (r *MongoDBRepository) TotalExpenses(ctx context.Context) (float64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
	}
	cursor, err := r.db.Collection(expensesColl).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate expenses: %w", err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode expense total: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// CreateProduction inserts one production record.
func (r *MongoDBRepository) CreateProduction(ctx context.Context, p models.MilkProduction) error {
	if _, err := r.db.Collection(productionsColl).InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert milk production: %w", err)
	}
	return nil
}

// ListProductions returns the user's productions within [from, to], oldest first.
func (r *MongoDBRepository) ListProductions(ctx context.Context, userID string, from, to time.Time) ([]models.MilkProduction, error) {
	out := []models.MilkProduction{}
	err := r.findMany(ctx, productionsColl, windowFilter(userID, "production_date", from, to), ascending("production_date"), &out)
	return out, err
}

// RecentProductions returns the user's newest productions.
func (r *MongoDBRepository) RecentProductions(ctx context.Context, userID string, limit int) ([]models.MilkProduction, error) {
	out := []models.MilkProduction{}
	err := r.findMany(ctx, productionsColl, bson.M{"user_id": userID}, newest("production_date", limit), &out)
	return out, err
}

// GetProduction loads one production record.
func (r *MongoDBRepository) GetProduction(ctx context.Context, id string) (models.MilkProduction, error) {
	var p models.MilkProduction
	err := r.findOne(ctx, productionsColl, id, &p)
	return p, err
}

// DeleteProduction removes one production record.
func (r *MongoDBRepository) DeleteProduction(ctx context.Context, id string) error {
	return r.deleteOne(ctx, productionsColl, id)
}

// CreateSale inserts one sale.
func (r *MongoDBRepository) CreateSale(ctx context.Context, s models.MilkSale) error {
	if _, err := r.db.Collection(salesColl).InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to insert milk sale: %w", err)
	}
	return nil
}

// UpdateSale replaces a stored sale.
func (r *MongoDBRepository) UpdateSale(ctx context.Context, s models.MilkSale) error {
	res, err := r.db.Collection(salesColl).ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return fmt.Errorf("update milk sale %s: %w", s.ID, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListSales returns the user's sales within [from, to], oldest first.
func (r *MongoDBRepository) ListSales(ctx context.Context, userID string, from, to time.Time) ([]models.MilkSale, error) {
	out := []models.MilkSale{}
	err := r.findMany(ctx, salesColl, windowFilter(userID, "sale_date", from, to), ascending("sale_date"), &out)
	return out, err
}

// RecentSales returns the user's newest sales.
func (r *MongoDBRepository) RecentSales(ctx context.Context, userID string, limit int) ([]models.MilkSale, error) {
	out := []models.MilkSale{}
	err := r.findMany(ctx, salesColl, bson.M{"user_id": userID}, newest("sale_date", limit), &out)
	return out, err
}

// GetSale loads one sale.
func (r *MongoDBRepository) GetSale(ctx context.Context, id string) (models.MilkSale, error) {
	var s models.MilkSale
	err := r.findOne(ctx, salesColl, id, &s)
	return s, err
}

// DeleteSale removes one sale.
func (r *MongoDBRepository) DeleteSale(ctx context.Context, id string) error {
	return r.deleteOne(ctx, salesColl, id)
}
