package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/precoreal/storefront-backend/internal/cache"
	"github.com/precoreal/storefront-backend/internal/catalog"
	"github.com/precoreal/storefront-backend/internal/chat"
	"github.com/precoreal/storefront-backend/internal/classification"
	"github.com/precoreal/storefront-backend/internal/completion"
	"github.com/precoreal/storefront-backend/internal/config"
	"github.com/precoreal/storefront-backend/internal/ingest"
	"github.com/precoreal/storefront-backend/internal/search"
	"github.com/precoreal/storefront-backend/internal/store"
	"github.com/precoreal/storefront-backend/internal/user"
)

func main() {
	cfg := config.MustLoad()

	app := fiber.New()
	setupCORS(app)

	var (
		userRepo    user.Repository
		catalogRepo catalog.Repository
		storeRepo   store.Repository
	)
	if cfg.Database.URL != "" {
		db := mustOpenDB(cfg.Database.URL)
		defer db.Close()
		bootstrapSchema(db)

		userRepo = user.NewPostgresRepository(db)
		catalogRepo = catalog.NewPostgresRepository(db)
		storeRepo = store.NewPostgresRepository(db)
	} else {
		// no DATABASE_URL: run everything in memory, handy for local demos
		userRepo = user.NewInMemoryRepository(nil)
		catalogRepo = catalog.NewInMemoryRepository()
		storeRepo = store.NewInMemoryRepository()
	}

	classificationCache := mustBuildCache(cfg)

	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	completer := &completion.Client{
		BaseURL:    cfg.AI.BaseURL,
		APIKey:     cfg.AI.APIKey,
		Model:      cfg.AI.Model,
		HTTPClient: &http.Client{Timeout: cfg.AI.Timeout},
	}
	classificationService := classification.NewService(completer, classificationCache, cfg.Cache.TTL)
	classificationHandler := classification.NewHandler(classificationService)

	var searcher search.Searcher
	if cfg.Search.BaseURL != "" {
		searcher = &search.Client{
			BaseURL:    cfg.Search.BaseURL,
			HTTPClient: &http.Client{Timeout: cfg.Search.Timeout},
		}
	} else {
		searcher = &search.Simulated{}
	}
	ingestHandler := ingest.NewHandler(ingest.NewPipeline(searcher, catalogService, classificationService))

	storeService := store.NewService(storeRepo, userService)
	storeHandler := store.NewHandler(storeService)

	chatService := chat.NewService(chat.NewInMemoryRepository())
	chatHandler := chat.NewHandler(chatService, userService, cfg.Auth.JWTSecret)

	userHandler.RegisterPublicRoutes(app)
	catalogHandler.RegisterPublicRoutes(app)
	storeHandler.RegisterPublicRoutes(app)
	chatHandler.RegisterPublicRoutes(app)

	app.Use(checkMiddleware)
	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.Auth.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	classificationHandler.RegisterProtectedRoutes(app)
	ingestHandler.RegisterProtectedRoutes(app)
	storeHandler.RegisterProtectedRoutes(app)

	if err := app.Listen(cfg.Server.Address()); err != nil {
		panic(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(url string) *sql.DB {
	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

func mustBuildCache(cfg *config.Config) cache.Cache {
	if cfg.Cache.Type != "redis" {
		return cache.NewMemory()
	}
	c, err := cache.NewRedis(cache.RedisConfig{
		Addr:     cfg.Cache.RedisAddress(),
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		panic(err)
	}
	return c
}

// bootstrapSchema creates the tables the Postgres repositories expect. All
// statements are idempotent so restarts are safe.
func bootstrapSchema(db *sql.DB) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			display_name TEXT,
			is_store_owner BOOLEAN,
			credits INT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			source_url TEXT,
			image_url TEXT,
			price TEXT,
			availability TEXT,
			seller_name TEXT,
			category TEXT,
			attributes JSONB,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS store_ads (
			id TEXT PRIMARY KEY,
			store_owner_id INT NOT NULL,
			store_owner_name TEXT,
			name TEXT NOT NULL,
			description TEXT,
			price DOUBLE PRECISION NOT NULL,
			category TEXT,
			image_url TEXT,
			ad_type TEXT,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_products_created_at ON catalog_products (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_store_ads_owner ON store_ads (store_owner_id, created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}

func checkMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	fmt.Printf("URL = %s, Method = %s, Start Time = %v\n", c.OriginalURL(), c.Method(), start)
	return c.Next()
}
