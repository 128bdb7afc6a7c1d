package mongodb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

func TestWindowFilter_IsInclusive(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	got := windowFilter("u1", "sale_date", from, to)

	assert.Equal(t, bson.M{
		"user_id":   "u1",
		"sale_date": bson.M{"$gte": from, "$lte": to},
	}, got)
}

func TestSortOptions(t *testing.T) {
	asc := ascending("expense_date")
	assert.Equal(t, bson.D{{Key: "expense_date", Value: 1}, {Key: "created_at", Value: 1}}, asc.Sort)
	assert.Nil(t, asc.Limit)

	desc := newest("production_date", 10)
	assert.Equal(t, bson.D{{Key: "production_date", Value: -1}, {Key: "created_at", Value: -1}}, desc.Sort)
	require.NotNil(t, desc.Limit)
	assert.Equal(t, int64(10), *desc.Limit)
}

func TestAssignSeq(t *testing.T) {
	entries := []models.Entry{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	// The counter stood at 4 and was advanced by three.
	got := assignSeq(entries, 7)

	require.Len(t, got, 3)
	assert.Equal(t, int64(5), got[0].Seq)
	assert.Equal(t, int64(6), got[1].Seq)
	assert.Equal(t, int64(7), got[2].Seq)
	assert.Zero(t, entries[0].Seq)

	first := assignSeq([]models.Entry{{ID: "only"}}, 1)
	assert.Equal(t, int64(1), first[0].Seq)
}

func TestEntryDocument_KeepsDecimalPrecision(t *testing.T) {
	e := models.Entry{
		ID:         "e1",
		CustomerID: "c1",
		Date:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		QuantityKg: decimal.RequireFromString("3"),
		PricePerKg: decimal.RequireFromString("1.335"),
		Seq:        9,
	}

	doc := toEntryDocument(e)
	assert.Equal(t, "1.335", doc.PricePerKg)

	back, err := doc.model()
	require.NoError(t, err)
	assert.True(t, back.PricePerKg.Equal(e.PricePerKg))
	assert.Equal(t, "4.01", back.TotalAmount().StringFixed(2))
	assert.Equal(t, int64(9), back.Seq)
}

func TestEntryDocument_BadDecimal(t *testing.T) {
	_, err := entryDocument{ID: "e1", QuantityKg: "ten", PricePerKg: "1"}.model()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry e1 quantity")
}
