package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/editdelta"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/materializer"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/optimizer"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/planservice"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/cache"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/config"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/events"
	applogger "github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/logger"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/projectstore"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/provider"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/store"
	httptransport "github.com/CielmobilityWorks/route-optimization-tools/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := applogger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Name, cfg.Database.SSLMode)
	db, err := store.NewConnection(dbURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisURL := fmt.Sprintf("redis://:%s@%s:%s/%d", cfg.Redis.Password, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Database)
	redisCache, err := cache.NewRedisClient(redisURL, "route-optimization")
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Brokers[0] != "" {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, "route-optimization-tools")
		logger.Info("kafka event publisher initialized")
	} else {
		logger.Warn("kafka brokers not configured, events will not be published")
		publisher = events.NewNoOpPublisher()
	}
	defer publisher.Close()

	providerClient := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey,
		provider.WithRetry(cfg.Provider.MaxRetries, cfg.Provider.InitialDelay, cfg.Provider.MaxDelay),
	)

	projects := projectstore.New()
	opt := optimizer.New()
	mat := materializer.New(providerClient,
		materializer.WithMaxInFlight(cfg.Provider.MaxInFlight),
		materializer.WithCallTimeout(cfg.Provider.CallTimeout),
		materializer.WithVehicleTimeout(cfg.Provider.VehicleTimeout),
	)
	ed := editdelta.New(mat)

	files := store.NewFileStore(cfg.Storage.BaseDir)
	index := store.NewPostgresIndex(db)
	scenarioCache := store.NewScenarioCache(redisCache, index)

	service := planservice.New(projects, opt, mat, ed, files, index, scenarioCache, publisher)

	router := httptransport.NewRouter(service, db, redisCache, publisher, logger)
	server := httptransport.NewServer(cfg.Server.Port, router, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
