package api

import (
	"context"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/antiscalping/tickets/docs"
	v1 "github.com/antiscalping/tickets/internal/api/handler/v1"
	"github.com/antiscalping/tickets/internal/api/middleware"
	"github.com/antiscalping/tickets/internal/config"
	"github.com/antiscalping/tickets/internal/pkg/clock"
	"github.com/antiscalping/tickets/internal/repository"
	"github.com/antiscalping/tickets/internal/repository/dao"
	"github.com/antiscalping/tickets/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	clk := clock.NewSystem()
	auditSvc := service.NewAuditService(repository.NewAuditLogRepository(dao.NewAuditLogDAO(db)), clk)
	fraudSvc := service.NewFraudService(repository.NewTicketRepository(dao.NewTicketDAO(db)))

	authHandler := s.initAuthHandler(db, clk)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db, clk, auditSvc)
	ticketHandler := s.initTicketHandler(db, clk, auditSvc, fraudSvc)
	poolHandler, poolSvc := s.initPoolHandler(db, clk, auditSvc)
	go sweepLapsedNominations(poolSvc)
	transferHandler := s.initTransferHandler(db, clk, auditSvc, fraudSvc)
	trustedHandler := s.initTrustedCircleHandler(db, clk, auditSvc)
	auditHandler := v1.NewAuditHandler(auditSvc)

	s.MountHandlers(authHandler, userHandler, eventHandler, ticketHandler, poolHandler, transferHandler, trustedHandler, auditHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB, clk clock.Clock) *v1.AuthHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewAuthService(userRepo, clk)

	return v1.NewAuthHandler(s.Config.API, svc)
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewUserService(userRepo)

	return v1.NewUserHandler(svc)
}

func (s *Server) initEventHandler(db *gorm.DB, clk clock.Clock, audit service.AuditRecorder) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewEventService(eventRepo, audit, clk)

	return v1.NewEventHandler(svc)
}

func (s *Server) initTicketHandler(db *gorm.DB, clk clock.Clock, audit service.AuditRecorder, fraud *service.FraudService) *v1.TicketHandler {
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	paymentSvc := service.NewPaymentService(repository.NewPaymentRepository(dao.NewPaymentDAO(db)), clk)
	svc := service.NewTicketService(ticketRepo, eventRepo, fraud, paymentSvc, audit, clk)

	return v1.NewTicketHandler(svc)
}

func (s *Server) initPoolHandler(db *gorm.DB, clk clock.Clock, audit service.AuditRecorder) (*v1.PoolHandler, *service.PoolService) {
	poolRepo := repository.NewPoolTicketRepository(dao.NewPoolTicketDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	transferRepo := repository.NewTicketTransferRepository(dao.NewTicketTransferDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewPoolService(poolRepo, ticketRepo, transferRepo, userRepo, audit, clk)

	return v1.NewPoolHandler(svc), svc
}

// sweepLapsedNominations periodically flips nominations whose claim window
// has passed, keeping pool listings accurate. Claim correctness never
// depends on the sweep; expired nominations are also rejected at claim time.
func sweepLapsedNominations(svc *service.PoolService) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := svc.ExpireLapsedNominations(context.Background()); err != nil {
			zap.L().Warn("failed to expire lapsed nominations", zap.Error(err))
		}
	}
}

func (s *Server) initTransferHandler(db *gorm.DB, clk clock.Clock, audit service.AuditRecorder, fraud *service.FraudService) *v1.TransferHandler {
	transferRepo := repository.NewTicketTransferRepository(dao.NewTicketTransferDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	trustedRepo := repository.NewTrustedCircleRepository(dao.NewTrustedCircleDAO(db))
	svc := service.NewTransferService(transferRepo, ticketRepo, eventRepo, userRepo, trustedRepo, fraud, audit, clk)

	return v1.NewTransferHandler(svc)
}

func (s *Server) initTrustedCircleHandler(db *gorm.DB, clk clock.Clock, audit service.AuditRecorder) *v1.TrustedCircleHandler {
	trustedRepo := repository.NewTrustedCircleRepository(dao.NewTrustedCircleDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewTrustedCircleService(trustedRepo, userRepo, audit, clk)

	return v1.NewTrustedCircleHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	ticketHandler *v1.TicketHandler,
	poolHandler *v1.PoolHandler,
	transferHandler *v1.TransferHandler,
	trustedHandler *v1.TrustedCircleHandler,
	auditHandler *v1.AuditHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.PUT("/events/:eventID/status", eventHandler.HandleUpdateEventStatus)

		authed.POST("/tickets/purchase", ticketHandler.HandlePurchase)
		authed.GET("/tickets", ticketHandler.HandleGetMyTickets)
		authed.GET("/tickets/:ticketID", ticketHandler.HandleGetTicket)
		authed.GET("/tickets/number/:ticketNumber", ticketHandler.HandleGetTicketByNumber)
		authed.POST("/tickets/:ticketID/validate", ticketHandler.HandleValidate)
		authed.POST("/tickets/:ticketID/cancel", ticketHandler.HandleCancel)

		authed.POST("/pool", poolHandler.HandleAddToPool)
		authed.GET("/pool/events/:eventID", poolHandler.HandleGetEventPool)
		authed.POST("/pool/:poolTicketID/nominate", poolHandler.HandleNominate)
		authed.POST("/pool/:poolTicketID/claim", poolHandler.HandleClaim)

		authed.POST("/transfers", transferHandler.HandleInitiate)
		authed.GET("/transfers/:transferID", transferHandler.HandleGetTransfer)
		authed.POST("/transfers/:transferID/approve", transferHandler.HandleApprove)
		authed.POST("/transfers/:transferID/complete", transferHandler.HandleComplete)
		authed.POST("/transfers/:transferID/reject", transferHandler.HandleReject)

		authed.POST("/trusted-circle", trustedHandler.HandleAddTrustedUser)
		authed.GET("/trusted-circle", trustedHandler.HandleGetTrustedUsers)
		authed.DELETE("/trusted-circle/:trustedUserID", trustedHandler.HandleRemoveTrustedUser)

		authed.GET("/audit/me", auditHandler.HandleGetMyLogs)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Ticket Platform API"
	docs.SwaggerInfo.Description = "Anti-scalping event ticket platform with controlled transfers and ticket pooling."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
