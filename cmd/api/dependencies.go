package api

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/FACorreiaa/planmesh-api/internal/domain/account"
	accounthandler "github.com/FACorreiaa/planmesh-api/internal/domain/account/handler"
	"github.com/FACorreiaa/planmesh-api/internal/domain/history"
	historyhandler "github.com/FACorreiaa/planmesh-api/internal/domain/history/handler"
	"github.com/FACorreiaa/planmesh-api/internal/domain/itinerary"
	itineraryhandler "github.com/FACorreiaa/planmesh-api/internal/domain/itinerary/handler"
	"github.com/FACorreiaa/planmesh-api/internal/llm"
	"github.com/FACorreiaa/planmesh-api/internal/storage"
	"github.com/FACorreiaa/planmesh-api/pkg/config"
	"github.com/FACorreiaa/planmesh-api/pkg/db"
	"github.com/FACorreiaa/planmesh-api/pkg/interceptors"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage backends, only the configured one is set
	DB    *db.DB
	Redis redis.UniversalClient
	Mongo *mongo.Client

	Store   storage.Store
	Gateway *storage.Gateway

	LLMClient llm.ContentClient

	// Client identity
	Sessions sessions.Store
	Tokens   *interceptors.TokenIssuer

	// Services
	ItineraryService itinerary.Service
	AccountService   account.Service
	HistoryService   history.Service

	// Handlers
	ItineraryHandler *itineraryhandler.ItineraryHandler
	AccountHandler   *accounthandler.AccountHandler
	HistoryHandler   *historyhandler.HistoryHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initStorage(ctx); err != nil {
		deps.Cleanup(ctx)
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	if err := deps.initLLM(ctx); err != nil {
		deps.Cleanup(ctx)
		return nil, fmt.Errorf("failed to init llm client: %w", err)
	}

	if err := deps.initIdentity(); err != nil {
		deps.Cleanup(ctx)
		return nil, fmt.Errorf("failed to init client identity: %w", err)
	}

	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initStorage connects the configured key-value backend
func (d *Dependencies) initStorage(ctx context.Context) error {
	switch d.Config.Storage.Driver {
	case config.StoragePostgres:
		database, err := db.New(ctx, db.Config{
			DSN:             d.Config.Database.DSN(),
			MaxConns:        10,
			MinConns:        2,
			MaxConnLifetime: 5 * time.Minute,
			MaxConnIdleTime: 10 * time.Minute,
		}, d.Logger)
		if err != nil {
			return err
		}
		d.DB = database
		if err := d.DB.RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		d.Store = storage.NewPostgresStore(d.DB.Pool, d.Logger)

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     d.Config.Redis.Addr,
			Password: d.Config.Redis.Password,
			DB:       d.Config.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		d.Redis = client
		d.Store = storage.NewRedisStore(client, d.Config.Redis.Prefix)

	case config.StorageMongo:
		client, err := storage.NewMongoClient(ctx, d.Config.Mongo.URI)
		if err != nil {
			return err
		}
		d.Mongo = client
		d.Store = storage.NewMongoStore(client.Database(d.Config.Mongo.Database))

	default:
		d.Logger.Warn("using in-memory storage; accounts and trips are lost on restart")
		d.Store = storage.NewMemoryStore()
	}

	d.Gateway = storage.NewGateway(d.Store, d.Logger)
	d.Logger.Info("storage initialized", slog.String("driver", d.Config.Storage.Driver))
	return nil
}

// initLLM creates the Gemini client. Without an API key the client stays nil
// and generation requests fail with a configuration error.
func (d *Dependencies) initLLM(ctx context.Context) error {
	if d.Config.LLM.APIKey == "" {
		d.Logger.Warn("GEMINI_API_KEY is not set; itinerary and avatar generation are disabled")
		return nil
	}
	client, err := llm.NewGeminiClient(ctx, d.Config.LLM.APIKey)
	if err != nil {
		return err
	}
	d.LLMClient = client
	return nil
}

func (d *Dependencies) initIdentity() error {
	secret := []byte(d.Config.Auth.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		d.Logger.Warn("SESSION_SECRET is not set; sessions and tokens will not survive a restart")
	}
	d.Sessions = interceptors.NewCookieStore(secret, false)
	d.Tokens = interceptors.NewTokenIssuer(secret, d.Config.Auth.TokenTTL)
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() {
	d.ItineraryService = itinerary.NewServiceImpl(itinerary.Config{
		APIKey:      d.Config.LLM.APIKey,
		Model:       d.Config.LLM.Model,
		ImageModel:  d.Config.LLM.ImageModel,
		Temperature: d.Config.LLM.Temperature,
	}, d.LLMClient, d.Logger)
	d.AccountService = account.NewServiceImpl(d.Gateway, d.Logger)
	d.HistoryService = history.NewServiceImpl(d.Gateway, d.Logger)

	d.Logger.Info("services initialized")
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.ItineraryHandler = itineraryhandler.NewItineraryHandler(d.ItineraryService, d.Logger)
	d.AccountHandler = accounthandler.NewAccountHandler(d.AccountService, d.Tokens, d.Logger)
	d.HistoryHandler = historyhandler.NewHistoryHandler(d.HistoryService, d.AccountService, d.Logger)
	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup(ctx context.Context) {
	if d.DB != nil {
		d.DB.Close()
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn("failed to close redis", slog.Any("error", err))
		}
	}
	if d.Mongo != nil {
		if err := d.Mongo.Disconnect(ctx); err != nil {
			d.Logger.Warn("failed to disconnect mongo", slog.Any("error", err))
		}
	}
	d.Logger.Info("cleanup completed")
}
