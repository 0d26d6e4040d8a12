package handler

import (
	"net/http"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/domain"
	"shelterconnect/internal/middleware"
	"shelterconnect/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages *service.MessageService
	unread   *service.UnreadService
}

func NewMessageHandler(messages *service.MessageService, unread *service.UnreadService) *MessageHandler {
	return &MessageHandler{messages: messages, unread: unread}
}

// List handles GET /messages/:requestId.
func (h *MessageHandler) List(c *gin.Context) {
	requestID, err := parseID("requestId", c.Param("requestId"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	list, err := h.messages.List(c.Request.Context(), requestID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

type sendMessageBody struct {
	RequestID uint   `json:"request_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

// Send handles POST /messages. The sender is always the authenticated user.
func (h *MessageHandler) Send(c *gin.Context) {
	var body sendMessageBody
	if !bindJSON(c, &body) {
		return
	}
	res, err := h.messages.Send(c.Request.Context(), middleware.GetUserID(c), body.RequestID, body.Text)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	resp := gin.H{"message": "Message sent", "data": res.Message}
	if len(res.Warnings) > 0 {
		resp["warnings"] = res.Warnings
	}
	c.JSON(http.StatusCreated, resp)
}

type markReadBody struct {
	RequestID uint `json:"request_id" binding:"required"`
}

// MarkRead handles POST /messages/mark-as-read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	var body markReadBody
	if !bindJSON(c, &body) {
		return
	}
	if err := h.unread.MarkRead(c.Request.Context(), middleware.GetUserID(c), body.RequestID); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}

// Unread handles GET /messages/unread.
func (h *MessageHandler) Unread(c *gin.Context) {
	page, err := queryInt(c, "page", domain.DefaultPage)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	limit, err := queryInt(c, "limit", domain.DefaultLimit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	res, err := h.unread.ListUnread(c.Request.Context(), middleware.GetUserID(c), page, limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UnreadExists handles GET /messages/unread-exists.
func (h *MessageHandler) UnreadExists(c *gin.Context) {
	ok, err := h.unread.HasUnread(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_unread": ok})
}
