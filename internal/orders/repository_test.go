package orders

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

func setupTestRepo(t *testing.T) *Repository {
	dbPath := filepath.Join(t.TempDir(), "orders.db")

	repo, err := NewRepository(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations("migrations"))
	return repo
}

func sampleRecord(email string) Record {
	return Record{
		Channel:      "email",
		Email:        email,
		ClientName:   "Lucia",
		ClientPhone:  "1155556666",
		Observations: "timbre roto",
		Total:        3301,
		Lines: []domain.OrderLine{
			{Producto: "Antifaz", SKU: "ANT-01", Precio: 1200.5, Cantidad: 2, Subtotal: "2401.00"},
			{Producto: "Bonete", SKU: "BON-02", Precio: 300, Cantidad: 3, Subtotal: "900.00"},
		},
	}
}

func TestRecord_GeneratesID(t *testing.T) {
	sut := setupTestRepo(t)

	id, err := sut.Record(context.Background(), sampleRecord("a@b.c"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestRecord_RoundTrip(t *testing.T) {
	sut := setupTestRepo(t)
	ctx := context.Background()

	id, err := sut.Record(ctx, sampleRecord("a@b.c"))
	require.NoError(t, err)

	records, err := sut.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "email", got.Channel)
	assert.Equal(t, "a@b.c", got.Email)
	assert.Equal(t, "Lucia", got.ClientName)
	assert.InDelta(t, 3301.0, got.Total, 1e-9)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "Antifaz", got.Lines[0].Producto)
	assert.Equal(t, "2401.00", got.Lines[0].Subtotal)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestListRecent_NewestFirst(t *testing.T) {
	sut := setupTestRepo(t)
	ctx := context.Background()

	first := sampleRecord("first@b.c")
	first.CreatedAt = time.Now().Add(-time.Hour)
	_, err := sut.Record(ctx, first)
	require.NoError(t, err)

	_, err = sut.Record(ctx, sampleRecord("second@b.c"))
	require.NoError(t, err)

	records, err := sut.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second@b.c", records[0].Email)
	assert.Equal(t, "first@b.c", records[1].Email)
}

func TestListRecent_RespectsLimit(t *testing.T) {
	sut := setupTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := sut.Record(ctx, sampleRecord("a@b.c"))
		require.NoError(t, err)
	}

	records, err := sut.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestListRecent_EmptyLog(t *testing.T) {
	sut := setupTestRepo(t)

	records, err := sut.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	sut := setupTestRepo(t)
	assert.NoError(t, sut.RunMigrations("migrations"))
}
