package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicine-chatbot-backend/config"
	"medicine-chatbot-backend/matcher"
	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/repository"
	"medicine-chatbot-backend/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Type: "memory"},
		Security: config.SecurityConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newTestEngine() *gin.Engine {
	catalog := []models.Medicine{
		{Name: "Paracetamol", Use0: "fever", Use1: "body ache", Price: models.NumericPrice(12.5)},
		{Name: "Crocin", Use0: "headache", Price: models.DisplayPrice("₹30")},
	}
	repos := repository.NewMemoryRepositories(catalog...)
	vocab := matcher.NewVocabulary()
	vocab.Build(catalog)
	svc := services.NewChatbotService(repos, vocab, nil, matcher.DefaultOptions())
	return NewRouter(testConfig(), svc)
}

func postChat(t *testing.T, router *gin.Engine, path, auth, message string) models.ChatResponse {
	t.Helper()
	body, _ := json.Marshal(gin.H{"message": message})
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+auth)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestChatAddToCartFlow(t *testing.T) {
	router := newTestEngine()

	resp := postChat(t, router, "/chat", "token-1", "add to cart paracetamol")
	assert.Equal(t, models.ActionAskQuantity, resp.Type)
	assert.Equal(t, []string{"Paracetamol"}, resp.Candidates)

	resp = postChat(t, router, "/api/v1/chat", "token-1", "2")
	assert.Equal(t, models.ActionAddToCart, resp.Type)
	require.NotNil(t, resp.Cart)
	require.Len(t, resp.Cart.Items, 1)
	assert.Equal(t, "Paracetamol", resp.Cart.Items[0].Name)
	assert.Equal(t, 2, resp.Cart.Items[0].Quantity)
	assert.Equal(t, "25.00", resp.Cart.Total)

	// another bearer token is another session
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer token-2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	resp = postChat(t, router, "/api/v1/chat", "token-1", "proceed to checkout")
	assert.Equal(t, models.ActionProceedToCheckout, resp.Type)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total_amount":25`)
}

func TestHealthAndNotFound(t *testing.T) {
	router := newTestEngine()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")
}

func TestCORS(t *testing.T) {
	router := newTestEngine()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCorsConfigWildcard(t *testing.T) {
	c := corsConfig([]string{"*"})
	assert.True(t, c.AllowAllOrigins)
	assert.False(t, c.AllowCredentials)
	assert.Empty(t, c.AllowOrigins)
}

func TestWebSocketChat(t *testing.T) {
	srv := httptest.NewServer(newTestEngine())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws?session_id=ws-1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(gin.H{"message": "I have a fever"}))
	var resp models.ChatResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.NotEmpty(t, resp.Medicines)
	assert.Equal(t, "Paracetamol", resp.Medicines[0].Name)

	require.NoError(t, conn.WriteJSON(gin.H{"message": ""}))
	var errResp map[string]string
	require.NoError(t, conn.ReadJSON(&errResp))
	assert.Equal(t, "Message is required", errResp["error"])
}
