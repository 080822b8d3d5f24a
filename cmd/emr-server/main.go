package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicore/emr/internal/config"
	"github.com/clinicore/emr/internal/domain/chart"
	"github.com/clinicore/emr/internal/domain/clinical"
	"github.com/clinicore/emr/internal/domain/immunization"
	"github.com/clinicore/emr/internal/domain/medication"
	"github.com/clinicore/emr/internal/domain/notes"
	"github.com/clinicore/emr/internal/domain/patient"
	"github.com/clinicore/emr/internal/domain/radiology"
	"github.com/clinicore/emr/internal/domain/scheduling"
	"github.com/clinicore/emr/internal/domain/voice"
	"github.com/clinicore/emr/internal/platform/auth"
	"github.com/clinicore/emr/internal/platform/db"
	"github.com/clinicore/emr/internal/platform/imaging"
	"github.com/clinicore/emr/internal/platform/middleware"
	"github.com/clinicore/emr/internal/platform/narrative"
	"github.com/clinicore/emr/internal/platform/speech"
	"github.com/clinicore/emr/internal/platform/websocket"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emr-server",
		Short: "Clinicore EMR API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the EMR API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BodyLimit("1M", "50M", "/api/patients", "/api/v1/patients", "/api/voice"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth
	authSvc := auth.NewService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret,
		time.Duration(cfg.SessionTTLHours)*time.Hour)
	authHandler := auth.NewHandler(authSvc)

	// Repositories
	patientRepo := patient.NewRepoPG(pool)
	medicationRepo := medication.NewRepoPG(pool)
	conditionRepo := clinical.NewConditionRepoPG(pool)
	diagnosisRepo := clinical.NewDiagnosisRepoPG(pool)
	allergyRepo := clinical.NewAllergyRepoPG(pool)
	noteRepo := notes.NewRepoPG(pool)
	immunizationRepo := immunization.NewRepoPG(pool)
	appointmentRepo := scheduling.NewRepoPG(pool)

	// Services
	patientSvc := patient.NewService(patientRepo)
	medicationSvc := medication.NewService(medicationRepo)
	clinicalSvc := clinical.NewService(conditionRepo, diagnosisRepo, allergyRepo)
	noteSvc := notes.NewService(noteRepo)
	immunizationSvc := immunization.NewService(immunizationRepo)
	appointmentSvc := scheduling.NewService(appointmentRepo)
	chartSvc := chart.NewService(patientRepo, medicationRepo, conditionRepo,
		diagnosisRepo, allergyRepo, noteRepo, immunizationRepo, appointmentRepo)

	// WebSocket hub
	hub := websocket.NewHub()
	wsHandler := websocket.NewWebSocketHandler(hub)

	// Imaging pipeline
	classifier := imaging.NewHTTPClassifier(cfg.XRayServiceURL)
	generator := narrative.NewChatClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
	recordWriter := radiology.NewRecordWriter(noteRepo, conditionRepo, pool)
	radiologySvc := radiology.NewService(classifier, generator, recordWriter, patientRepo,
		logger.With().Str("component", "radiology").Logger())

	// Voice dictation
	transcriber := speech.NewHTTPTranscriber(cfg.WhisperServiceURL)
	voiceSvc := voice.NewService(noteSvc, transcriber, hub,
		logger.With().Str("component", "voice").Logger())

	// Route groups. The flat /api group keeps compatibility with the
	// pre-v1 upload, voice and polling paths.
	apiV1 := e.Group("/api/v1")
	apiCompat := e.Group("/api")

	authHandler.RegisterRoutes(apiV1)

	protectV1 := apiV1
	protectCompat := apiCompat
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		protectV1.Use(auth.RequireAuth(authSvc))
		protectCompat.Use(auth.RequireAuth(authSvc))
	}

	patient.NewHandler(patientSvc).RegisterRoutes(protectV1)
	medication.NewHandler(medicationSvc).RegisterRoutes(protectV1)
	clinical.NewHandler(clinicalSvc).RegisterRoutes(protectV1)
	immunization.NewHandler(immunizationSvc).RegisterRoutes(protectV1)
	scheduling.NewHandler(appointmentSvc).RegisterRoutes(protectV1)
	chart.NewHandler(chartSvc).RegisterRoutes(protectV1)

	noteHandler := notes.NewHandler(noteSvc)
	noteHandler.RegisterRoutes(protectV1)
	noteHandler.RegisterPollingRoutes(protectCompat)

	radiologyHandler := radiology.NewHandler(radiologySvc)
	radiologyHandler.RegisterRoutes(protectV1)
	radiologyHandler.RegisterRoutes(protectCompat)

	voice.NewHandler(voiceSvc).RegisterRoutes(protectCompat)

	wsHandler.RegisterRoutes(e.Group(""))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
