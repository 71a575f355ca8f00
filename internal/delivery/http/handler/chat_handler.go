package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/usecase/chat"
)

type ChatHandler struct {
	chatUseCase *chat.ChatUseCase
}

func NewChatHandler(chatUseCase *chat.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// SendMessageRequest carries an outgoing chat message
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid4"`
	Text        string `json:"text" validate:"required,max=2000"`
}

// ListConversations handles GET /chat/conversations
// @Summary List conversations
// @Description Matched or messaged pairs with unread counts and last message
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Success 200 {array} chat.ConversationSummary
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat/conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := h.chatUseCase.ListConversations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list conversations",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// GetConversation handles GET /chat/with/:user_id
// @Summary Conversation history
// @Description Messages exchanged with another user, oldest first
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Other user ID"
// @Success 200 {array} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat/with/{user_id} [get]
func (h *ChatHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	otherID, ok := pathUserID(c)
	if !ok {
		return
	}

	messages, err := h.chatUseCase.GetConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to load conversation",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

// GetMessages handles GET /chat/history/:interaction_id
// @Summary Conversation history by id
// @Description Messages of a known conversation; the caller must be a participant
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Param interaction_id path string true "Conversation ID"
// @Success 200 {array} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat/history/{interaction_id} [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	interactionID, err := uuid.Parse(c.Param("interaction_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid interaction_id",
		})
		return
	}

	messages, err := h.chatUseCase.GetMessages(c.Request.Context(), userID, interactionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInteractionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "conversation not found",
			})
		case errors.Is(err, domain.ErrNotInConversation):
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error: "not a participant of this conversation",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "failed to load conversation",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

// SendMessage handles POST /chat/send
// @Summary Send a message
// @Description Append a message; first contact opens the conversation
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat/send [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "recipient and text are required",
		})
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid recipient_id",
		})
		return
	}

	msg, err := h.chatUseCase.SendMessage(c.Request.Context(), userID, recipientID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "invalid message",
			})
		case errors.Is(err, domain.ErrSelfInteraction):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "cannot message your own profile",
			})
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "recipient not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "failed to send message",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkRead handles POST /chat/read/:user_id
// @Summary Mark conversation read
// @Description Zero the caller's unread counter for the conversation
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Other user ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat/read/{user_id} [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	otherID, ok := pathUserID(c)
	if !ok {
		return
	}

	if err := h.chatUseCase.MarkRead(c.Request.Context(), userID, otherID); err != nil {
		if errors.Is(err, domain.ErrInteractionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "conversation not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to mark conversation read",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "conversation marked read",
	})
}

func pathUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid user_id",
		})
		return uuid.Nil, false
	}
	return id, true
}
