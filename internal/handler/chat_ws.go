package handler

import (
	"context"
	"encoding/json"

	"shelterconnect/config"
	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/auth"
	"shelterconnect/internal/logger"
	"shelterconnect/internal/middleware"
	"shelterconnect/internal/service"
	"shelterconnect/internal/ws"

	"github.com/gin-gonic/gin"
)

// ChatSocket serves the realtime chat channel. One socket may follow several request rooms.
type ChatSocket struct {
	jwt        *config.JWTConfig
	hub        *ws.Hub
	messages   *service.MessageService
	limiter    *middleware.InMemoryRateLimiter
	sendBuffer int
}

func NewChatSocket(jwt *config.JWTConfig, hub *ws.Hub, messages *service.MessageService, limiter *middleware.InMemoryRateLimiter, sendBuffer int) *ChatSocket {
	return &ChatSocket{jwt: jwt, hub: hub, messages: messages, limiter: limiter, sendBuffer: sendBuffer}
}

// Upgrade handles GET /ws/chat?token=. The token is checked before the upgrade so a bad one
// gets a plain 401.
func (h *ChatSocket) Upgrade(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		apperrors.Respond(c, apperrors.Unauthorized("token required"))
		return
	}
	claims, err := auth.ParseAccessToken(h.jwt, token)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Invalid or expired token"))
		return
	}
	conn, err := ws.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	ctx := logger.WithUserID(context.WithoutCancel(c.Request.Context()), claims.UserID)
	client := ws.NewClient(claims.UserID, h.sendBuffer)
	logger.CtxInfo(ctx, "chat socket connected")
	ws.Serve(conn, client, func(raw []byte) {
		h.dispatch(ctx, client, raw)
	})
	logger.CtxInfo(ctx, "chat socket closed")
}

func (h *ChatSocket) dispatch(ctx context.Context, client *ws.Client, raw []byte) {
	var in ws.Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		h.reply(client, ws.ErrorEvent("Malformed frame"))
		return
	}
	switch in.Event {
	case ws.EventJoinRequest:
		var p ws.RoomPayload
		if json.Unmarshal(in.Data, &p) != nil || p.RequestID == 0 {
			h.reply(client, ws.ErrorEvent("request_id is required"))
			return
		}
		h.hub.Join(client, p.RequestID)
		h.reply(client, ws.Event{Event: ws.EventJoined, Data: p})
	case ws.EventLeaveRequest:
		var p ws.RoomPayload
		if json.Unmarshal(in.Data, &p) != nil || p.RequestID == 0 {
			h.reply(client, ws.ErrorEvent("request_id is required"))
			return
		}
		h.hub.Leave(client, p.RequestID)
	case ws.EventSendMessage:
		h.send(ctx, client, in.Data)
	default:
		h.reply(client, ws.ErrorEvent("Unknown event"))
	}
}

func (h *ChatSocket) send(ctx context.Context, client *ws.Client, data json.RawMessage) {
	var p ws.SendPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.reply(client, ws.ErrorEvent("Malformed send_message payload"))
		return
	}
	if p.SenderID != client.UserID {
		logger.CtxWarn(ctx, "rejected send with foreign sender_id", "sender_id", p.SenderID, "request_id", p.RequestID)
		h.reply(client, ws.ErrorEvent("sender_id does not match the authenticated user"))
		return
	}
	if h.limiter != nil && !h.limiter.Allow(middleware.UserKey(client.UserID)) {
		h.reply(client, ws.ErrorEvent(apperrors.RateLimited().Message))
		return
	}
	// The receive_message echo reaches this socket through the room broadcast.
	if _, err := h.messages.Send(ctx, client.UserID, p.RequestID, p.Text); err != nil {
		appErr := apperrors.As(err)
		if appErr.Kind == apperrors.KindInternal {
			logger.CtxError(ctx, "socket send failed", "request_id", p.RequestID, "error", err)
		}
		h.reply(client, ws.ErrorEvent(appErr.Message))
	}
}

func (h *ChatSocket) reply(client *ws.Client, ev ws.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	client.Enqueue(data)
}
