package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medchart/medchart/internal/config"
	"github.com/medchart/medchart/internal/domain/administration"
	"github.com/medchart/medchart/internal/domain/audit"
	"github.com/medchart/medchart/internal/domain/lab"
	"github.com/medchart/medchart/internal/domain/medicine"
	"github.com/medchart/medchart/internal/domain/patient"
	"github.com/medchart/medchart/internal/domain/prescription"
	"github.com/medchart/medchart/internal/platform/auth"
	"github.com/medchart/medchart/internal/platform/db"
	"github.com/medchart/medchart/internal/platform/middleware"
	"github.com/medchart/medchart/internal/platform/sandbox"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medchart-server",
		Short: "Patient charting and medication administration server",
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
		Short: "Start the charting API server",
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

			_, pool, err := loadWithPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(context.Background())
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

			_, pool, err := loadWithPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(context.Background())
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

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Storage != config.StoragePostgres {
				return fmt.Errorf("seed only makes sense with STORAGE=postgres; the memory backend seeds itself on serve")
			}

			pool, err := db.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := newLogger(cfg)
			st := postgresStores(pool)
			seeder := sandbox.NewSeeder(st.patients, st.medicines, st.prescriptions, logger)
			return seeder.Seed(context.Background())
		},
	}
}

func loadWithPool() (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// stores bundles one repository per entity, backed by either postgres or
// process memory.
type stores struct {
	patients        patient.Repository
	medicines       medicine.Repository
	prescriptions   prescription.Repository
	administrations administration.Repository
	labs            lab.Repository
	audits          audit.Repository
}

func memoryStores() *stores {
	return &stores{
		patients:        patient.NewRepoMem(),
		medicines:       medicine.NewRepoMem(),
		prescriptions:   prescription.NewRepoMem(),
		administrations: administration.NewRepoMem(),
		labs:            lab.NewRepoMem(),
		audits:          audit.NewRepoMem(),
	}
}

func postgresStores(pool *pgxpool.Pool) *stores {
	return &stores{
		patients:        patient.NewRepoPG(pool),
		medicines:       medicine.NewRepoPG(pool),
		prescriptions:   prescription.NewRepoPG(pool),
		administrations: administration.NewRepoPG(pool),
		labs:            lab.NewRepoPG(pool),
		audits:          audit.NewRepoPG(pool),
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	var st *stores
	var pool *pgxpool.Pool
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")
		st = postgresStores(pool)
	default:
		logger.Warn().Msg("using in-memory storage; state is lost on restart")
		st = memoryStores()
	}

	// Services
	recorder := audit.NewRecorder(st.audits, logger)
	medicines := medicine.NewService(st.medicines)
	// Cascade order: labs, then administrations, then prescriptions.
	patients := patient.NewService(st.patients, recorder,
		st.labs, st.administrations, st.prescriptions)
	if pool != nil {
		p := pool
		patients.UseTx(func(ctx context.Context, fn func(context.Context) error) error {
			return db.WithTx(ctx, p, fn)
		})
	}
	prescriptions := prescription.NewService(st.prescriptions, patients, medicines, recorder)
	administrations := administration.NewService(st.administrations, medicines, prescriptions, recorder)
	labs := lab.NewService(st.labs, patients, nil)

	if cfg.Storage == config.StorageMemory && cfg.SeedDemo {
		seeder := sandbox.NewSeeder(st.patients, st.medicines, st.prescriptions, logger)
		if err := seeder.Seed(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	authorizer := auth.NewAuthorizer(cfg.ChargePIN, cfg.LabPIN, cfg.TokenSecret,
		time.Duration(cfg.TokenTTLMin)*time.Minute)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(auth.Middleware(authorizer))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"storage": cfg.Storage,
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	apiV1 := e.Group("/api/v1")
	auth.NewHandler(authorizer).RegisterRoutes(apiV1)
	patient.NewHandler(patients).RegisterRoutes(apiV1)
	medicine.NewHandler(medicines).RegisterRoutes(apiV1)
	prescription.NewHandler(prescriptions).RegisterRoutes(apiV1)
	administration.NewHandler(administrations).RegisterRoutes(apiV1)
	lab.NewHandler(labs).RegisterRoutes(apiV1)
	audit.NewHandler(recorder).RegisterRoutes(apiV1)

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
