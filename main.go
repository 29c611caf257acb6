package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/camden-git/facerankbackend/blob"
	"github.com/camden-git/facerankbackend/config"
	"github.com/camden-git/facerankbackend/database"
	"github.com/camden-git/facerankbackend/handlers"
	"github.com/camden-git/facerankbackend/repository"
	"github.com/camden-git/facerankbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	var blobStore blob.Store
	var localStore *blob.LocalStorage
	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		blobStore, err = blob.NewS3Storage(context.Background(), blob.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 blob store: %v", err)
		}
		log.Printf("Using S3 blob backend (bucket %s)", cfg.S3Bucket)
	default:
		localStore, err = blob.NewLocalStorage(cfg.MediaStoragePath, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize local blob store: %v", err)
		}
		blobStore = localStore
		log.Printf("Using local blob backend at %s", cfg.MediaStoragePath)
	}

	personRepo := repository.NewPersonRepository(db)
	imageRepo := repository.NewImageRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	log.Printf("Initializing image processor worker pool (Workers: %d, Queue Size: %d)...", cfg.NumThumbnailWorkers, cfg.ThumbnailQueueSize)
	imageProcessor := workers.NewImageProcessor(blobStore, imageRepo, cfg.ThumbnailMaxSize, cfg.ThumbnailQueueSize, cfg.NumThumbnailWorkers)
	defer imageProcessor.Stop()

	adminAuth, err := handlers.NewAdminAuth(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize admin auth: %v", err)
	}

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.ClientOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", handlers.AdminPasswordHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	personHandler := &handlers.PersonHandler{People: personRepo}
	ratingHandler := &handlers.RatingHandler{People: personRepo, Ratings: ratingRepo}
	adminHandler := &handlers.AdminPersonHandler{
		People:    personRepo,
		Images:    imageRepo,
		Store:     blobStore,
		Processor: imageProcessor,
		Auth:      adminAuth,
		StatsDB:   sqlDB,
		Cfg:       cfg,
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/people", personHandler.ListPeople)
		r.Get("/leaderboard", personHandler.Leaderboard)

		r.Post("/rate", ratingHandler.SubmitRating)
		r.Delete("/rate/{personId}", ratingHandler.DeleteVote)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(adminAuth.RequireAdmin)
				r.Post("/people", adminHandler.CreatePerson)
				r.Route("/people/{person_id}", func(r chi.Router) {
					r.Delete("/", adminHandler.DeletePerson)
					r.Post("/images", adminHandler.AddImages)
					r.Delete("/images", adminHandler.DeleteImage)
				})
				r.Get("/stats", adminHandler.Stats)
			})
		})

		if localStore != nil {
			r.Get("/media/*", handlers.AssetServer(localStore.BasePath()))
			log.Printf("Registered media asset server at /api/media/*")
		}
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
