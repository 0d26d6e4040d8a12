package router

import (
	"shelterconnect/config"
	"shelterconnect/internal/domain"
	"shelterconnect/internal/handler"
	"shelterconnect/internal/middleware"
	"shelterconnect/internal/repository"
	"shelterconnect/internal/service"
	"shelterconnect/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	Hub         *ws.Hub
	Broadcaster ws.Broadcaster // defaults to Hub
	Push        service.Pusher // nil disables push
}

func Setup(cfg *config.Config, db *gorm.DB, deps Deps) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Hub == nil {
		deps.Hub = ws.NewHub()
	}
	if deps.Broadcaster == nil {
		deps.Broadcaster = deps.Hub
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)))
	messageLimiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.MessagesPerWindow, cfg.RateLimit.Window)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	unreadRepo := repository.NewUnreadRepository(db)

	// Services
	requestSvc := service.NewRequestService(requestRepo)
	notifySvc := service.NewNotificationService(requestRepo, unreadRepo, userRepo, deps.Push)
	messageSvc := service.NewMessageService(messageRepo, notifySvc, deps.Broadcaster)
	unreadSvc := service.NewUnreadService(unreadRepo)
	userSvc := service.NewUserService(userRepo)

	// Handlers
	requestHandler := handler.NewRequestHandler(requestSvc)
	messageHandler := handler.NewMessageHandler(messageSvc, unreadSvc)
	userHandler := handler.NewUserHandler(userSvc)
	chatSocket := handler.NewChatSocket(&cfg.JWT, deps.Hub, messageSvc, messageLimiter, cfg.Realtime.SendBufferSize)

	r.GET("/healthz", handler.Health(db))
	r.GET("/ws/chat", chatSocket.Upgrade)

	v1 := r.Group("/api/v1")
	authed := middleware.AuthRequired(&cfg.JWT)

	requests := v1.Group("/requests")
	{
		requests.GET("/item", requestHandler.Item)
		requests.GET("/locations", requestHandler.Locations)
		requests.POST("/create", authed, middleware.RequireRole(domain.RoleShelter), requestHandler.Create)
		requests.PATCH("/update", authed, requestHandler.Update)
		requests.PATCH("/archive", authed, requestHandler.Archive)
		requests.GET("/list", authed, requestHandler.List)
	}

	messages := v1.Group("/messages", authed)
	{
		messages.GET("/unread", messageHandler.Unread)
		messages.GET("/unread-exists", messageHandler.UnreadExists)
		messages.POST("/mark-as-read", messageHandler.MarkRead)
		messages.GET("/:requestId", messageHandler.List)
		messages.POST("", middleware.RateLimitByUser(messageLimiter), messageHandler.Send)
	}

	user := v1.Group("/user", authed)
	{
		user.PATCH("/update-name", userHandler.UpdateName)
		user.POST("/push-token", userHandler.RegisterPushToken)
	}

	return r
}
