package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicine-chatbot-backend/models"
)

func TestMemoryMedicineRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMedicineRepository(
		models.Medicine{Name: "Crocin Advance"},
		models.Medicine{Name: "Crocin"},
		models.Medicine{Name: "Dolo 650"},
	)

	t.Run("find by name is a case-insensitive substring match", func(t *testing.T) {
		m, err := repo.FindByName(ctx, "CROCIN")
		require.NoError(t, err)
		assert.Equal(t, "Crocin Advance", m.Name)

		m, err = repo.FindByName(ctx, "dolo")
		require.NoError(t, err)
		assert.Equal(t, "Dolo 650", m.Name)
	})

	t.Run("find by name misses", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "aspirin")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.FindByName(ctx, "  ")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find by id", func(t *testing.T) {
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)

		m, err := repo.FindByID(ctx, all[2].ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Dolo 650", m.Name)

		_, err = repo.FindByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("upsert replaces by name and appends new", func(t *testing.T) {
		before, _ := repo.ListAll(ctx)

		n, err := repo.UpsertMany(ctx, []models.Medicine{
			{Name: "Crocin", Dosage: "1 tablet"},
			{Name: "Okacet"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		after, _ := repo.ListAll(ctx)
		require.Len(t, after, 4)
		assert.Equal(t, "1 tablet", after[1].Dosage)
		assert.Equal(t, before[1].ID, after[1].ID)
		assert.Equal(t, "Okacet", after[3].Name)
	})
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	s, err := repo.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", s.SessionID)
	assert.Empty(t, s.Cart)

	s.AddToCart(models.CartItem{Name: "Paracetamol", Quantity: 2, Price: models.MoneyFromFloat(12.5)})
	s.AwaitQuantity([]string{"Crocin"})
	require.NoError(t, repo.Save(ctx, s))

	// mutations after save are not visible to the store
	s.Cart[0].Quantity = 99

	loaded, err := repo.Load(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, loaded.Cart, 1)
	assert.Equal(t, 2, loaded.Cart[0].Quantity)
	assert.True(t, loaded.AwaitingQuantity)
	assert.Equal(t, []string{"Crocin"}, loaded.PendingMedicines)

	other, err := repo.Load(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, other.Cart)
}

func TestMemoryChatRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatRepository()
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for i, msg := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Append(ctx, &models.ChatTurn{
			SessionID:   "s1",
			UserMessage: msg,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Append(ctx, &models.ChatTurn{SessionID: "s2", UserMessage: "elsewhere"}))

	all, err := repo.History(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "one", all[0].UserMessage)
	assert.False(t, all[0].ID.IsZero())

	recent, err := repo.History(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].UserMessage)
	assert.Equal(t, "three", recent[1].UserMessage)

	none, err := repo.History(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()

	first := &models.Order{SessionID: "abc", Items: []models.CartItem{{Name: "Crocin", Quantity: 1}}}
	require.NoError(t, repo.Create(ctx, first))
	assert.False(t, first.ID.IsZero())
	require.NoError(t, repo.Create(ctx, &models.Order{SessionID: "other"}))
	second := &models.Order{SessionID: "abc"}
	require.NoError(t, repo.Create(ctx, second))

	// the caller's slice is not shared with the store
	first.Items[0].Quantity = 99

	orders, err := repo.ListBySession(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, 1, orders[1].Items[0].Quantity)

	none, err := repo.ListBySession(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
