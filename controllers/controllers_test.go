package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicine-chatbot-backend/matcher"
	"medicine-chatbot-backend/middleware"
	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/repository"
	"medicine-chatbot-backend/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func catalog() []models.Medicine {
	return []models.Medicine{
		{Name: "Paracetamol", Use0: "fever", Dosage: "500mg", Price: models.NumericPrice(20)},
		{Name: "Crocin", Use0: "headache", Price: models.DisplayPrice("₹35")},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *repository.Repositories) {
	t.Helper()
	repos := repository.NewMemoryRepositories(catalog()...)
	vocab := matcher.NewVocabulary()
	vocab.Build(catalog())
	svc := services.NewChatbotService(repos, vocab, nil, matcher.DefaultOptions())

	chat := NewChatbotController(svc)
	cart := NewCartController(svc.Carts())
	meds := NewMedicineController(svc.Medicines())
	orders := NewOrderController(svc.Orders())

	router := gin.New()
	router.Use(middleware.SessionKey())
	router.POST("/chat", chat.HandleChat)
	router.GET("/history", chat.GetChatHistory)
	router.GET("/intents", chat.GetSupportedIntents)
	router.POST("/vocabulary/refresh", chat.RefreshVocabulary)
	router.GET("/medicines/:id", meds.GetMedicine)
	router.GET("/cart", cart.GetCart)
	router.POST("/cart/add", cart.AddToCart)
	router.PUT("/cart/update", cart.UpdateCart)
	router.DELETE("/cart/delete", cart.DeleteFromCart)
	router.DELETE("/cart/clear", cart.ClearCart)
	router.POST("/orders", orders.CreateOrder)
	router.GET("/orders", orders.GetOrders)
	return router, repos
}

func do(router *gin.Engine, method, path, session string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-Id", session)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandleChat(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("empty message", func(t *testing.T) {
		w := do(router, http.MethodPost, "/chat", "s1", gin.H{"message": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Message is required", decode(t, w)["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(router, http.MethodPost, "/chat", "s1", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", decode(t, w)["error"])
	})

	t.Run("recommendation", func(t *testing.T) {
		w := do(router, http.MethodPost, "/chat", "s1", gin.H{"message": "I have a fever"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.ChatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Medicines)
		assert.Equal(t, "Paracetamol", resp.Medicines[0].Name)
	})

	t.Run("history", func(t *testing.T) {
		w := do(router, http.MethodGet, "/history", "s1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			History []models.HistoryEntry `json:"history"`
			Count   int                   `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, 2, body.Count)
		assert.Equal(t, models.HistoryEntry{Text: "I have a fever", From: "user"}, body.History[0])
		assert.Equal(t, "bot", body.History[1].From)
	})

	t.Run("history is per session", func(t *testing.T) {
		w := do(router, http.MethodGet, "/history?limit=10", "other", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 0, decode(t, w)["count"])
	})
}

func TestSupportedIntentsAndRefresh(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/intents", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	intents, ok := decode(t, w)["intents"].([]interface{})
	require.True(t, ok)
	assert.Len(t, intents, 8)

	w = do(router, http.MethodPost, "/vocabulary/refresh", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["phrases"])
}

func TestGetMedicine(t *testing.T) {
	router, repos := newTestRouter(t)

	all, err := repos.Medicines.ListAll(context.Background())
	require.NoError(t, err)

	w := do(router, http.MethodGet, "/medicines/"+all[1].ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Crocin", decode(t, w)["name"])
	assert.Equal(t, "₹35", decode(t, w)["price"])

	w = do(router, http.MethodGet, "/medicines/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	cartOf := func(w *httptest.ResponseRecorder) models.CartSnapshot {
		var body struct {
			Cart models.CartSnapshot `json:"cart"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Cart
	}

	w := do(router, http.MethodPost, "/cart/add", "u1", gin.H{"name": "paracetamol", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "40.00", cartOf(w).Total)

	w = do(router, http.MethodPost, "/cart/add", "u1", gin.H{"quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/cart/add", "u1", gin.H{"name": "aspirin"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPost, "/cart/add", "u1", gin.H{"name": "crocin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, cartOf(w).Items, 2)

	w = do(router, http.MethodPut, "/cart/update", "u1", gin.H{"name": "Crocin", "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "145.00", cartOf(w).Total)

	w = do(router, http.MethodPut, "/cart/update", "u1", gin.H{"name": "Digene", "quantity": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodDelete, "/cart/delete?name=Crocin", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, cartOf(w).Items, 1)

	w = do(router, http.MethodGet, "/cart", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Paracetamol", cartOf(w).Items[0].Name)

	w = do(router, http.MethodDelete, "/cart/clear", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartOf(w).Items)
}

func TestOrderEndpoints(t *testing.T) {
	router, repos := newTestRouter(t)

	w := do(router, http.MethodPost, "/orders", "u2", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No medicines in order", decode(t, w)["error"])

	w = do(router, http.MethodPost, "/cart/add", "u2", gin.H{"name": "paracetamol", "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPost, "/orders", "u2", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var placed struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))
	assert.Equal(t, "60.00", placed.Order.TotalAmount.StringFixed(2))
	assert.Equal(t, models.PaymentPending, placed.Order.PaymentStatus)
	require.Len(t, placed.Order.Items, 1)
	assert.Equal(t, 3, placed.Order.Items[0].Quantity)

	session, err := repos.Sessions.Load(context.Background(), "u2")
	require.NoError(t, err)
	assert.Empty(t, session.Cart)

	w = do(router, http.MethodGet, "/orders", "u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["count"])

	w = do(router, http.MethodGet, "/orders", "someone-else", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}
