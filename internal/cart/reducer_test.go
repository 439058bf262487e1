package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

func item(id int64, qty, stock int) domain.LineItem {
	return domain.LineItem{
		ProductID: id,
		SKU:       "SKU",
		Title:     "Product",
		Price:     10,
		Quantity:  qty,
		Stock:     stock,
	}
}

func TestAdd_NewItem(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 3})

	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAdd_MergesByIdentity(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 3})
	items = Apply(items, Add{Item: item(1, 0, 5), Quantity: 4})

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity, "7 requested, clamped to stock")
}

func TestAdd_NewItemClampedToStock(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 2), Quantity: 10})

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAdd_RepeatedAddsNeverExceedStock(t *testing.T) {
	var items []domain.LineItem
	for i := 0; i < 10; i++ {
		items = Apply(items, Add{Item: item(1, 0, 7), Quantity: 2})
	}

	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestAdd_ZeroQuantityFlooredToOne(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 0})

	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAdd_OutOfStockIsNoop(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 0), Quantity: 1})
	assert.Empty(t, items)
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 1})
	items = Apply(items, Add{Item: item(2, 0, 5), Quantity: 1})
	items = Apply(items, Add{Item: item(3, 0, 5), Quantity: 1})
	// Updating the first item must not move it.
	items = Apply(items, Add{Item: item(1, 0, 5), Quantity: 1})

	require.Len(t, items, 3)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, int64(2), items[1].ProductID)
	assert.Equal(t, int64(3), items[2].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemove_DropsMatchingItem(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 1})
	items = Apply(items, Add{Item: item(2, 0, 5), Quantity: 1})

	items = Apply(items, Remove{ProductID: 1})

	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 1})
	items = Apply(items, Remove{ProductID: 99})

	require.Len(t, items, 1)
}

func TestRemoveThenAdd_BehavesAsFreshInsert(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 4})
	items = Apply(items, Remove{ProductID: 1})
	items = Apply(items, Add{Item: item(1, 0, 5), Quantity: 2})

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity, "no residual quantity carried over")
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"within range", 3, 3},
		{"above stock clamps to stock", 10, 5},
		{"zero floors to one", 0, 1},
		{"negative floors to one", -7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 2})
			items = Apply(items, SetQuantity{ProductID: 1, Quantity: tt.requested})

			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Quantity)
			assert.GreaterOrEqual(t, items[0].Quantity, 1)
			assert.LessOrEqual(t, items[0].Quantity, items[0].Stock)
		})
	}
}

func TestSetQuantity_AbsentIsNoop(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 2})
	items = Apply(items, SetQuantity{ProductID: 99, Quantity: 3})

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestClear(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 2})
	items = Apply(items, Add{Item: item(2, 0, 5), Quantity: 2})

	items = Apply(items, Clear{})

	assert.Empty(t, items)
	assert.Zero(t, domain.Cart{Items: items}.Total())
}

func TestInitialize_ReplacesWholesale(t *testing.T) {
	items := Apply(nil, Add{Item: item(1, 0, 5), Quantity: 2})

	restored := []domain.LineItem{item(7, 3, 9), item(8, 1, 4)}
	items = Apply(items, Initialize{Items: restored})

	require.Len(t, items, 2)
	assert.Equal(t, int64(7), items[0].ProductID)
	assert.Equal(t, int64(8), items[1].ProductID)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	orig := []domain.LineItem{item(1, 2, 5)}

	_ = Apply(orig, SetQuantity{ProductID: 1, Quantity: 5})
	assert.Equal(t, 2, orig[0].Quantity)

	_ = Apply(orig, Add{Item: item(1, 0, 5), Quantity: 1})
	assert.Equal(t, 2, orig[0].Quantity)
}

func TestTotal_MatchesDerivation(t *testing.T) {
	var items []domain.LineItem
	actions := []Action{
		Add{Item: domain.LineItem{ProductID: 1, Price: 2.5, Stock: 10}, Quantity: 2},
		Add{Item: domain.LineItem{ProductID: 2, Price: 100, Stock: 3}, Quantity: 5},
		SetQuantity{ProductID: 1, Quantity: 4},
		Add{Item: domain.LineItem{ProductID: 1, Price: 2.5, Stock: 10}, Quantity: 1},
		Remove{ProductID: 2},
	}

	for _, action := range actions {
		items = Apply(items, action)

		var want float64
		for _, it := range items {
			want += it.Price * float64(it.Quantity)
		}
		assert.InDelta(t, want, domain.Cart{Items: items}.Total(), 1e-9)
	}
}
