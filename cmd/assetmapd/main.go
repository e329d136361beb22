// assetmapd is the asset-mapping dashboard service.
//
// It serves the locations and device inventory over a REST API, pushes
// live device events to dashboard clients over WebSocket, runs AI
// network-health analysis on demand, and optionally ingests device
// status transitions from monitoring agents via MQTT, mirroring them
// into InfluxDB for availability history.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/assetplan/assetmap-core/migrations"

	"github.com/assetplan/assetmap-core/internal/analysis"
	"github.com/assetplan/assetmap-core/internal/api"
	"github.com/assetplan/assetmap-core/internal/audit"
	"github.com/assetplan/assetmap-core/internal/device"
	"github.com/assetplan/assetmap-core/internal/infrastructure/config"
	"github.com/assetplan/assetmap-core/internal/infrastructure/database"
	"github.com/assetplan/assetmap-core/internal/infrastructure/influxdb"
	"github.com/assetplan/assetmap-core/internal/infrastructure/logging"
	"github.com/assetplan/assetmap-core/internal/infrastructure/mqtt"
	"github.com/assetplan/assetmap-core/internal/location"
	"github.com/assetplan/assetmap-core/internal/statusfeed"
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

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting assetmapd",
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

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	locationRepo := location.NewSQLiteRepository(db.DB)
	deviceRepo := device.NewSQLiteRepository(db.DB)
	eventRepo := audit.NewSQLiteRepository(db.DB)

	if err := seedStore(ctx, cfg, locationRepo, deviceRepo, log); err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	// Connect to MQTT broker (optional status feed)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		mqttClient.SetLogger(log)
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Host, cfg.MQTT.Port),
			"client_id", cfg.MQTT.ClientID,
		)
	} else {
		log.Info("MQTT status feed disabled")
	}

	// Connect to InfluxDB (optional status history)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
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
	} else {
		log.Info("InfluxDB status history disabled")
	}

	analyzer := analysis.NewClient(cfg.Analysis, cfg.GetAnalysisTimeout(), log)

	// Start API server
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Logger:    log,
		Devices:   deviceRepo,
		Locations: locationRepo,
		Analyzer:  analyzer,
		Events:    eventRepo,
		MQTT:      mqttClient,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Start status feed (needs the hub, so after API start)
	if mqttClient != nil {
		var history statusfeed.HistorySink
		if influxClient != nil {
			history = influxClient
		}
		feed := statusfeed.New(mqttClient, deviceRepo, history, server.Hub(), byte(cfg.MQTT.QoS), log)
		feed.SetEventLog(eventRepo)
		if err := feed.Start(); err != nil {
			return fmt.Errorf("starting status feed: %w", err)
		}
		defer func() {
			log.Info("stopping status feed")
			if stopErr := feed.Stop(); stopErr != nil {
				log.Error("error stopping status feed", "error", stopErr)
			}
		}()
	}

	if err := healthCheck(ctx, db, server, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. Status feed (if enabled)
	// 2. API server
	// 3. InfluxDB (if enabled)
	// 4. MQTT (if enabled)
	// 5. Database

	log.Info("assetmapd stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ASSETMAP_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ASSETMAP_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// seedStore installs the configured locations and any first-run demo
// devices. Seeding is idempotent: records that already exist are left
// untouched.
func seedStore(ctx context.Context, cfg *config.Config, locations location.Repository, devices device.Repository, log *logging.Logger) error {
	seedLocations := make([]location.Location, 0, len(cfg.Locations))
	for i, sl := range cfg.Locations {
		seedLocations = append(seedLocations, location.Location{
			ID:          sl.ID,
			Name:        sl.Name,
			MapImageURL: sl.MapImageURL,
			Width:       sl.Width,
			Height:      sl.Height,
			SortOrder:   i + 1,
		})
	}
	insertedLocations, err := location.Seed(ctx, locations, seedLocations)
	if err != nil {
		return fmt.Errorf("seeding locations: %w", err)
	}

	seedDevices := make([]device.Device, 0, len(cfg.Devices))
	for _, sd := range cfg.Devices {
		seedDevices = append(seedDevices, device.Device{
			ID:         sd.ID,
			Name:       sd.Name,
			Type:       device.DeviceType(sd.Type),
			IPAddress:  sd.IPAddress,
			LocationID: sd.LocationID,
			Lat:        sd.Lat,
			Lng:        sd.Lng,
			Status:     device.DeviceStatus(sd.Status),
		})
	}
	insertedDevices, err := device.Seed(ctx, devices, seedDevices)
	if err != nil {
		return fmt.Errorf("seeding devices: %w", err)
	}

	log.Info("store seeded",
		"locations", len(seedLocations),
		"locations_inserted", insertedLocations,
		"devices", len(seedDevices),
		"devices_inserted", insertedDevices,
	)
	return nil
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, server *api.Server, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
