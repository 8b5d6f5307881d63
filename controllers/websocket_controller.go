package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/middleware"
	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/services"
)

type WebSocketController struct {
	chatbotService *services.ChatbotService
	upgrader       websocket.Upgrader
}

// NewWebSocketController accepts connections from allowedOrigins. Requests
// without an Origin header are always accepted.
func NewWebSocketController(chatbotService *services.ChatbotService, allowedOrigins []string) *WebSocketController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &WebSocketController{
		chatbotService: chatbotService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

type wsMessage struct {
	Message string `json:"message"`
}

func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	conn, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}
	defer conn.Close()

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = middleware.GetSessionKey(c)
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Warn().Err(err).Str("session", sessionID).Msg("WebSocket read error")
			}
			break
		}

		req := models.ChatRequest{
			Message:   msg.Message,
			SessionID: sessionID,
		}

		response, err := wc.chatbotService.ProcessMessage(c.Request.Context(), req)
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			err = conn.WriteJSON(gin.H{"error": "Message is required"})
		case err != nil:
			logger.Log.Error().Err(err).Str("session", sessionID).Msg("Failed to process message")
			err = conn.WriteJSON(gin.H{"error": "Failed to process message"})
		default:
			err = conn.WriteJSON(response)
		}
		if err != nil {
			logger.Log.Warn().Err(err).Str("session", sessionID).Msg("WebSocket write error")
			break
		}
	}
}
