package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/campusdrop/config"
	"example.com/campusdrop/internal/auth"
	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/service"
)

// Server is the HTTP server for the API
type Server struct {
	cfg        config.Config
	router     *gin.Engine
	httpServer *http.Server
	tokens     *auth.TokenManager

	authService    service.AuthService
	studentService service.StudentService
	partnerService service.PartnerService
	parcelService  service.ParcelService
	adminService   service.AdminService
}

// NewServer creates a new API server
func NewServer(
	cfg config.Config,
	tokens *auth.TokenManager,
	authService service.AuthService,
	studentService service.StudentService,
	partnerService service.PartnerService,
	parcelService service.ParcelService,
	adminService service.AdminService,
) *Server {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		cfg:            cfg,
		router:         gin.New(),
		tokens:         tokens,
		authService:    authService,
		studentService: studentService,
		partnerService: partnerService,
		parcelService:  parcelService,
		adminService:   adminService,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware adds middleware to the router
func (s *Server) setupMiddleware() {
	s.router.Use(RequestIDMiddleware())

	if s.cfg.Server.CorsEnabled {
		s.router.Use(CORSMiddleware())
	}

	s.router.Use(gin.Recovery())
	s.router.Use(LoggingMiddleware())
}

// setupRoutes defines the API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	authn := AuthMiddleware(s.tokens)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", s.register)
		authRoutes.POST("/login", s.login)
		authRoutes.GET("/me", authn, s.me)
	}

	studentRoutes := api.Group("/students", authn, RequireRole(model.RoleStudent))
	{
		studentRoutes.GET("/profile", s.getStudentProfile)
		studentRoutes.PATCH("/profile", s.updateStudentProfile)
		studentRoutes.POST("/addresses", s.addAddress)
		studentRoutes.PATCH("/addresses/:id", s.updateAddress)
		studentRoutes.DELETE("/addresses/:id", s.deleteAddress)
	}

	partnerRoutes := api.Group("/delivery-partners", authn, RequireRole(model.RoleDeliveryPartner))
	{
		partnerRoutes.GET("/profile", s.getPartnerProfile)
		partnerRoutes.POST("/profile", s.createPartnerProfile)
		partnerRoutes.PATCH("/profile", s.updatePartnerProfile)
		partnerRoutes.PATCH("/availability", s.updateAvailability)
		partnerRoutes.PATCH("/location", s.updateLocation)
		partnerRoutes.GET("/parcels", s.listAssignedParcels)
		partnerRoutes.GET("/statistics", s.partnerStatistics)
	}

	parcelRoutes := api.Group("/parcels", authn)
	{
		parcelRoutes.GET("/student", RequireRole(model.RoleStudent), s.listStudentParcels)
		parcelRoutes.POST("", RequireRole(model.RoleStudent), s.createParcel)
		parcelRoutes.GET("/available", RequireRole(model.RoleDeliveryPartner), s.listAvailableParcels)
		parcelRoutes.PATCH("/:id/accept", RequireRole(model.RoleDeliveryPartner), s.acceptParcel)
		parcelRoutes.POST("/:id/delivery-otp", RequireRole(model.RoleDeliveryPartner), s.generateDeliveryOTP)
		parcelRoutes.PATCH("/:id/verify-otp", RequireRole(model.RoleDeliveryPartner), s.verifyDeliveryOTP)
		parcelRoutes.PATCH("/:id/status", RequireRole(model.RoleDeliveryPartner), s.updateParcelStatus)
		parcelRoutes.PATCH("/:id/payment", RequireRole(model.RoleDeliveryPartner), s.updateParcelPayment)
		parcelRoutes.PATCH("/:id/cancel", RequireRole(model.RoleStudent, model.RoleDeliveryPartner), s.cancelParcel)
		parcelRoutes.GET("/:id", s.getParcel)
	}

	adminRoutes := api.Group("/admin", authn, RequireRole(model.RoleAdmin))
	{
		adminRoutes.GET("/delivery-partners", s.listPartners)
		adminRoutes.GET("/delivery-partners/:id", s.getPartner)
		adminRoutes.GET("/delivery-partners/:id/statistics", s.partnerReport)
		adminRoutes.PATCH("/delivery-partners/:id/approve", s.approvePartner)
		adminRoutes.PATCH("/delivery-partners/:id/reject", s.rejectPartner)
		adminRoutes.PATCH("/delivery-partners/:id/allow-reapply", s.allowReapply)
		adminRoutes.GET("/statistics", s.adminStatistics)
		adminRoutes.GET("/parcels", s.listAllParcels)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Address,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.Timeout,
		WriteTimeout: s.cfg.Server.Timeout,
	}

	log.Info().Str("address", s.cfg.Server.Address).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
