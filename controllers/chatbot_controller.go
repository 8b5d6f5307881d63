package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/middleware"
	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/services"
)

type ChatbotController struct {
	chatbotService *services.ChatbotService
}

func NewChatbotController(chatbotService *services.ChatbotService) *ChatbotController {
	return &ChatbotController{
		chatbotService: chatbotService,
	}
}

// HandleChat processes chat messages
func (cc *ChatbotController) HandleChat(c *gin.Context) {
	var req models.ChatRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}
	req.SessionID = middleware.GetSessionKey(c)

	response, err := cc.chatbotService.ProcessMessage(c.Request.Context(), req)
	if errors.Is(err, services.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Message is required",
		})
		return
	}
	if err != nil {
		logger.Log.Error().Err(err).Str("session", req.SessionID).Msg("Failed to process message")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process message",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetChatHistory returns the session's conversation, oldest first
func (cc *ChatbotController) GetChatHistory(c *gin.Context) {
	sessionID := middleware.GetSessionKey(c)
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	history, err := cc.chatbotService.History(c.Request.Context(), sessionID, limit)
	if err != nil {
		logger.Log.Error().Err(err).Str("session", sessionID).Msg("Failed to load chat history")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve chat history",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"count":   len(history),
	})
}

// GetSupportedIntents returns list of supported intents
func (cc *ChatbotController) GetSupportedIntents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"intents": cc.chatbotService.SupportedIntents(),
	})
}

// RefreshVocabulary rebuilds the symptom phrase cache from the catalog
func (cc *ChatbotController) RefreshVocabulary(c *gin.Context) {
	size, err := cc.chatbotService.RefreshVocabulary(c.Request.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to refresh vocabulary")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to refresh vocabulary",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vocabulary refreshed",
		"phrases": size,
	})
}
