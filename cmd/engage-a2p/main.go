package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"engage-a2p/internal/config"
	"engage-a2p/internal/database"
	httpapi "engage-a2p/internal/http"
	"engage-a2p/internal/logger"
	"engage-a2p/internal/repository"
	"engage-a2p/internal/service"
	"engage-a2p/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "engage-a2p")
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	var (
		tenantsRepo     repository.TenantsRepository
		brandsRepo      repository.BrandsRepository
		campaignsRepo   repository.CampaignsRepository
		phonesRepo      repository.PhoneNumbersRepository
		assignmentsRepo repository.AssignmentsRepository
		eventsRepo      repository.EventsRepository
	)

	useMemory := !cfg.DBEnabled
	if cfg.DBEnabled {
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			// Memory fallback keeps local dev working without Postgres. Every
			// restart starts empty, so never run this mode in production.
			log.Warn("Database connection failed, falling back to in-memory repositories", zap.Error(err))
			useMemory = true
		} else {
			defer db.Close()
			tenantsRepo = repository.NewPostgresTenantsRepository(db)
			brandsRepo = repository.NewPostgresBrandsRepository(db)
			campaignsRepo = repository.NewPostgresCampaignsRepository(db)
			phonesRepo = repository.NewPostgresPhoneNumbersRepository(db)
			assignmentsRepo = repository.NewPostgresAssignmentsRepository(db)
			eventsRepo = repository.NewPostgresEventsRepository(db)
			log.Info("Connected to Postgres",
				zap.String("host", cfg.Database.Host),
				zap.String("database", cfg.Database.Database),
			)
		}
	}
	if useMemory {
		tenantsRepo = repository.NewMemoryTenantsRepository()
		brandsRepo = repository.NewMemoryBrandsRepository()
		campaignsRepo = repository.NewMemoryCampaignsRepository()
		phonesRepo = repository.NewMemoryPhoneNumbersRepository()
		assignmentsRepo = repository.NewMemoryAssignmentsRepository()
		eventsRepo = repository.NewMemoryEventsRepository()
		log.Info("Using in-memory repositories")
	}

	var locks store.Locker
	if cfg.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis ping failed, using in-process locks", zap.Error(err))
			locks = store.NewMemoryLocker()
		} else {
			locks = store.NewRedisLocker(client)
			defer client.Close()
			log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	} else {
		locks = store.NewMemoryLocker()
	}

	registrar := service.NewRegistrarClient(cfg.Registrar, log)

	brandSvc := service.NewBrandService(brandsRepo, eventsRepo, registrar, locks, log)
	campaignSvc := service.NewCampaignService(brandsRepo, campaignsRepo, eventsRepo, registrar, locks, log)
	assignmentSvc := service.NewAssignmentService(phonesRepo, campaignsRepo, brandsRepo, assignmentsRepo, eventsRepo, registrar, locks, log)
	syncSvc := service.NewSyncService(brandsRepo, campaignsRepo, eventsRepo, registrar, log)

	auth := httpapi.NewAuthenticator(cfg.Auth.JWTSecret, tenantsRepo)
	handler := httpapi.NewA2PHandler(
		brandSvc, campaignSvc, assignmentSvc, syncSvc,
		phonesRepo, campaignsRepo, assignmentsRepo, eventsRepo,
		auth, log,
	)

	router := httpapi.NewRouter(log)
	router.RegisterA2PRoutes(handler)

	server := service.NewServer(cfg.HTTP.Addr, router, log)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
	log.Info("Server stopped")
}
