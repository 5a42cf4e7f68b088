// Movie API - movie catalog and user accounts over REST
//
// This is the main entry point for the Movie API service. It serves:
//   - A read-only movie catalog (movies, genres, directors)
//   - User registration, login and profile management
//   - Per-user favorite movie lists
//
// Accounts and the catalog live in MongoDB, or in SQLite for single-node
// deployments. Account events are optionally published to MQTT and counted
// in InfluxDB.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/movie-api/internal/api"
	"github.com/nerrad567/movie-api/internal/audit"
	"github.com/nerrad567/movie-api/internal/auth"
	"github.com/nerrad567/movie-api/internal/catalog"
	"github.com/nerrad567/movie-api/internal/infrastructure/config"
	"github.com/nerrad567/movie-api/internal/infrastructure/database"
	"github.com/nerrad567/movie-api/internal/infrastructure/influxdb"
	"github.com/nerrad567/movie-api/internal/infrastructure/logging"
	"github.com/nerrad567/movie-api/internal/infrastructure/mongodb"
	"github.com/nerrad567/movie-api/internal/infrastructure/mqtt"
	"github.com/nerrad567/movie-api/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// shutdownTimeout bounds store disconnects after the server has drained.
const shutdownTimeout = 10 * time.Second

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Movie API",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	checks := map[string]api.HealthChecker{cfg.Database.Driver: st.health}
	var recorders audit.Multi

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		checks["mqtt"] = mqttClient
		recorders = append(recorders, audit.NewMQTTRecorder(mqttClient, log.Logger))
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		checks["influxdb"] = influxClient
		recorders = append(recorders, audit.NewInfluxRecorder(influxClient))
	} else {
		log.Info("InfluxDB disabled")
	}

	if err := seedCatalog(ctx, cfg.Catalog, st.movies, log); err != nil {
		return err
	}

	hasher, err := auth.NewHasher(cfg.Security.Password.BcryptCost)
	if err != nil {
		return fmt.Errorf("creating password hasher: %w", err)
	}

	deps := api.Deps{
		Config:   cfg.API,
		Catalog:  cfg.Catalog,
		Logger:   log,
		Version:  version,
		Users:    st.users,
		Movies:   st.movies,
		Hasher:   hasher,
		Tokens:   auth.NewTokenService(cfg.Security.JWT.Secret, cfg.GetTokenTTL(), st.users),
		Recorder: recorders,
		Checks:   checks,
		DBStats:  st.dbStats,
	}
	// A nil *mqtt.Client in the interface would read as enabled.
	if mqttClient != nil {
		deps.MQTT = mqttClient
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal", "address", server.Addr())

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	if err := server.Close(); err != nil {
		log.Error("error stopping API server", "error", err)
	}

	// Deferred Close() calls run in reverse order:
	// 1. InfluxDB (if enabled)
	// 2. MQTT (if enabled)
	// 3. Database

	log.Info("Movie API stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses MOVIEAPI_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MOVIEAPI_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// stores holds the repositories for the configured database driver.
type stores struct {
	users   auth.UserRepository
	movies  catalog.Repository
	health  api.HealthChecker
	dbStats func() sql.DBStats
	close   func()
}

// openStores connects to the configured backend and builds its repositories.
//
// Parameters:
//   - ctx: Context for connection and schema setup
//   - cfg: Application configuration
//   - log: Logger instance
//
// Returns:
//   - *stores: Repositories plus a close function for the connection
//   - error: If the backend is unreachable or schema setup fails
func openStores(ctx context.Context, cfg *config.Config, log *logging.Logger) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		log.Info("database connected", "driver", config.DriverSQLite, "path", cfg.Database.Path)

		if err := db.Migrate(ctx, migrations.FS); err != nil {
			db.Close() //nolint:errcheck // Best effort cleanup on error path
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("database migrations complete")

		return &stores{
			users:   auth.NewUserRepository(db.DB),
			movies:  catalog.NewSQLiteRepository(db.DB),
			health:  db,
			dbStats: db.Stats,
			close: func() {
				log.Info("closing database")
				if err := db.Close(); err != nil {
					log.Error("error closing database", "error", err)
				}
			},
		}, nil

	case config.DriverMongoDB:
		store, err := mongodb.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB: %w", err)
		}
		log.Info("database connected", "driver", config.DriverMongoDB, "name", cfg.Database.Name)

		if err := store.EnsureIndexes(ctx); err != nil {
			store.Close(context.Background()) //nolint:errcheck // Best effort cleanup on error path
			return nil, fmt.Errorf("creating indexes: %w", err)
		}

		return &stores{
			users:  auth.NewMongoUserRepository(store.Collection(mongodb.CollectionUsers)),
			movies: catalog.NewMongoRepository(store.Collection(mongodb.CollectionMovies)),
			health: store,
			close: func() {
				log.Info("disconnecting from MongoDB")
				closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := store.Close(closeCtx); err != nil {
					log.Error("error closing MongoDB", "error", err)
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// seedCatalog loads the seed file into an empty catalog. A missing seed file
// is logged and skipped; a malformed one is an error.
func seedCatalog(ctx context.Context, cfg config.CatalogConfig, repo catalog.Repository, log *logging.Logger) error {
	if cfg.SeedFile == "" {
		return nil
	}

	movies, err := catalog.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("catalog seed file not found", "path", cfg.SeedFile)
			return nil
		}
		return fmt.Errorf("loading catalog seed: %w", err)
	}

	n, err := catalog.Seed(ctx, repo, movies, log.Logger)
	if err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	if n > 0 {
		log.Info("catalog seeded", "movies", n, "path", cfg.SeedFile)
	}
	return nil
}
