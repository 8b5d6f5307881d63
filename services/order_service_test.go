package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicine-chatbot-backend/models"
)

func TestOrderService(t *testing.T) {
	svc, repos := newTestChatbot()
	orders := svc.Orders()
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		_, err := orders.Place(ctx, "s1")
		require.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("places the chat cart", func(t *testing.T) {
		chat(t, svc, "s1", "add to cart paracetamol")
		chat(t, svc, "s1", "2")
		chat(t, svc, "s1", "add crocin")

		order, err := orders.Place(ctx, "s1")
		require.NoError(t, err)
		assert.False(t, order.ID.IsZero())
		assert.Equal(t, "s1", order.SessionID)
		assert.Equal(t, "51.00", order.TotalAmount.StringFixed(2))
		assert.Equal(t, models.PaymentPending, order.PaymentStatus)
		assert.Equal(t, models.DeliveryProcessing, order.DeliveryStatus)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Paracetamol", order.Items[0].Name)

		session, err := repos.Sessions.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, session.Cart)
		assert.False(t, session.AwaitingQuantity)
	})

	t.Run("lists newest first", func(t *testing.T) {
		_, err := svc.Carts().Add(ctx, "s1", models.CartRequest{Name: "Cetirizine"})
		require.NoError(t, err)
		second, err := orders.Place(ctx, "s1")
		require.NoError(t, err)

		list, err := orders.List(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, "18.00", list[0].TotalAmount.StringFixed(2))
	})
}
