package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/recipe-finder-backend/internal/config"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/handlers"
	"github.com/AnshRaj112/recipe-finder-backend/internal/logging"
	"github.com/AnshRaj112/recipe-finder-backend/internal/metrics"
	"github.com/AnshRaj112/recipe-finder-backend/internal/middleware"
	"github.com/AnshRaj112/recipe-finder-backend/internal/routes"
	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, mongoClient := openStores(ctx, cfg, log)
	defer func() {
		if err := database.Disconnect(mongoClient); err != nil {
			log.WithError(err).Warn("MongoDB disconnect")
		}
	}()

	cache, redisClient := openCache(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var uploader services.ImageUploader
	if cfg.CloudinaryEnabled() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Cloudinary; image uploads will not be available")
		} else {
			uploader = cld
			log.Info("✅ Cloudinary service initialized")
		}
	} else {
		log.Warn("Cloudinary credentials not found. Image uploads will not be available")
	}

	if cfg.SpoonacularAPIKey == "" {
		log.Warn("⚠️  SPOONACULAR_API_KEY not set. Catalog endpoints will return 500")
	}

	tokens := services.NewTokenService(cfg.JWTSecret)
	guard := services.NewGuard(stores)
	h := &handlers.Handler{
		Auth:      services.NewAuthService(stores, guard, tokens),
		MealPlans: services.NewMealPlanService(stores, guard),
		Saved:     services.NewSavedRecipeService(stores, guard),
		Personal:  services.NewPersonalRecipeService(stores, guard, uploader),
		Reviews:   services.NewReviewService(stores, guard),
		Catalog: services.NewCatalog(services.CatalogConfig{
			APIKey:  cfg.SpoonacularAPIKey,
			BaseURL: cfg.SpoonacularBaseURL,
			Timeout: cfg.CatalogTimeout,
		}, cache, log),
		Log: log,
	}
	resolver := services.NewIdentityResolver(tokens, stores.Accounts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, log, h, resolver),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("🚀 Recipe Finder backend running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

func newRouter(cfg *config.Config, log logrus.FieldLogger, h *handlers.Handler, resolver middleware.Resolver) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(metrics.Instrument)

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Info("✅ Production security enabled (security headers, host check)")
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	routes.SetupRoutes(r, h, resolver, log)
	return r
}

// openStores connects to MongoDB unless DATABASE_DRIVER=memory.
func openStores(ctx context.Context, cfg *config.Config, log *logrus.Logger) (database.Stores, *mongo.Client) {
	if cfg.DatabaseDriver == config.DriverMemory {
		log.Warn("Using in-memory stores; data is lost on restart")
		return database.NewMemoryStores(), nil
	}

	log.Info("Connecting to MongoDB...")
	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("✅ Connected to MongoDB")

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.WithError(err).Fatal("Failed to ensure MongoDB indexes")
	}
	log.Info("✅ MongoDB indexes ensured")
	return database.NewMongoStores(db), client
}

// openCache returns a Redis-backed cache when REDIS_URI is set. A Redis
// outage at startup degrades to no caching.
func openCache(ctx context.Context, cfg *config.Config, log *logrus.Logger) (services.Cache, *redis.Client) {
	if cfg.RedisURI == "" {
		log.Info("REDIS_URI not set; recipe detail cache disabled")
		return services.NoopCache{}, nil
	}

	log.Info("Connecting to Redis...")
	client, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to Redis; recipe detail cache disabled")
		return services.NoopCache{}, nil
	}
	log.Info("✅ Connected to Redis")
	return services.NewRedisCache(client, cfg.CatalogCacheTTL), client
}
