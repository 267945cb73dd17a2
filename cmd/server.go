package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"example.com/campusdrop/internal/api"
	"example.com/campusdrop/internal/auth"
	"example.com/campusdrop/internal/cache"
	"example.com/campusdrop/internal/mailer"
	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/repository"
	"example.com/campusdrop/internal/service"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Run:   runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) {
	log.Info().Msg("Starting server")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.Source), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto migrate tables
	err = db.AutoMigrate(
		&model.User{},
		&model.Student{},
		&model.Address{},
		&model.DeliveryPartner{},
		&model.Parcel{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	parcelRepo := repository.NewParcelRepository(db)

	// Seed the admin account if it does not exist yet
	if err := seedAdmin(userRepo); err != nil {
		log.Error().Err(err).Msg("Failed to seed admin account")
	}

	// Initialize token manager
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	// Initialize cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
		redisCache = cache.Disabled()
	}

	// Initialize mailer
	mail := mailer.NewSMTPMailer(cfg.SMTP)

	// Initialize services
	authService := service.NewAuthService(userRepo, studentRepo, partnerRepo, tokens)
	studentService := service.NewStudentService(studentRepo)
	partnerService := service.NewPartnerService(partnerRepo, parcelRepo, redisCache)
	parcelService := service.NewParcelService(parcelRepo, studentRepo, partnerRepo, mail, redisCache, cfg.OTP.Validity)
	adminService := service.NewAdminService(partnerRepo, parcelRepo, redisCache)

	// Initialize server
	server := api.NewServer(cfg, tokens, authService, studentService, partnerService, parcelService, adminService)

	// Start HTTP server
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func seedAdmin(users repository.UserRepository) error {
	if cfg.Auth.AdminPassword == "" {
		log.Warn().Msg("No admin password configured, skipping admin seed")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := users.GetByEmail(ctx, cfg.Auth.AdminEmail); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        cfg.Auth.AdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	log.Info().Str("email", cfg.Auth.AdminEmail).Msg("Admin account created")
	return nil
}
