package handler

import (
	"net/http"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/middleware"
	"shelterconnect/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type updateNameBody struct {
	Name string `json:"name" binding:"required"`
}

// UpdateName handles PATCH /user/update-name for the current user.
func (h *UserHandler) UpdateName(c *gin.Context) {
	var body updateNameBody
	if !bindJSON(c, &body) {
		return
	}
	u, err := h.svc.UpdateName(c.Request.Context(), middleware.GetUserID(c), body.Name)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated successfully", "user": u})
}

type pushTokenBody struct {
	Token string `json:"token"`
}

// RegisterPushToken handles POST /user/push-token. An empty token unregisters the device.
func (h *UserHandler) RegisterPushToken(c *gin.Context) {
	var body pushTokenBody
	if !bindJSON(c, &body) {
		return
	}
	if err := h.svc.SetPushToken(c.Request.Context(), middleware.GetUserID(c), body.Token); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push token updated"})
}
