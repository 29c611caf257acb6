package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	BlobBackendLocal = "local"
	BlobBackendS3    = "s3"
)

const (
	defaultThumbnailQueueSize  = 200
	defaultNumThumbnailWorkers = 4
	defaultThumbnailMaxSize    = 300

	defaultMaxUploadBytes     = 5 * 1024 * 1024 // matches the 5MB client-side limit
	defaultMaxImagesPerUpload = 10
)

type Config struct {
	// database path
	DatabasePath string

	// shared admin secret; every mutating call re-supplies it
	AdminPassword string

	// allowed CORS origins (comma-separated in CLIENT_URL)
	ClientOrigins []string

	// base URL clients use to reach this server (local blob backend URLs)
	PublicBaseURL string

	// blob storage configuration
	BlobBackend      string
	MediaStoragePath string // local backend root for stored blobs

	// s3 backend settings
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string // optional CDN/public base; defaults to endpoint/bucket

	// upload limits
	MaxUploadBytes     int64
	MaxImagesPerUpload int

	// thumbnail generation settings
	ThumbnailMaxSize int

	// worker settings
	ThumbnailQueueSize  int
	NumThumbnailWorkers int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "facerank.db")

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
		log.Printf("Warning: ADMIN_PASSWORD not set, using insecure default")
	}

	origins := []string{}
	for _, o := range strings.Split(getEnvOrDefault("CLIENT_URL", "http://localhost:5173"), ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	backend := getEnvOrDefault("BLOB_BACKEND", BlobBackendLocal)
	if backend != BlobBackendLocal && backend != BlobBackendS3 {
		return Config{}, fmt.Errorf("invalid BLOB_BACKEND '%s': must be '%s' or '%s'", backend, BlobBackendLocal, BlobBackendS3)
	}

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	cfg := Config{
		DatabasePath:        dbPath,
		AdminPassword:       adminPassword,
		ClientOrigins:       origins,
		PublicBaseURL:       strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		BlobBackend:         backend,
		MediaStoragePath:    absMediaStorage,
		S3Endpoint:          os.Getenv("S3_ENDPOINT"),
		S3Region:            getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Bucket:            os.Getenv("S3_BUCKET"),
		S3AccessKey:         os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:         os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:         strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),
		MaxUploadBytes:      int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		MaxImagesPerUpload:  getEnvIntOrDefault("MAX_IMAGES_PER_UPLOAD", defaultMaxImagesPerUpload),
		ThumbnailMaxSize:    getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		ThumbnailQueueSize:  getEnvIntOrDefault("THUMBNAIL_QUEUE_SIZE", defaultThumbnailQueueSize),
		NumThumbnailWorkers: getEnvIntOrDefault("NUM_THUMBNAIL_WORKERS", defaultNumThumbnailWorkers),
	}

	if cfg.BlobBackend == BlobBackendS3 {
		if cfg.S3Bucket == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
			return Config{}, fmt.Errorf("BLOB_BACKEND=s3 requires S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY")
		}
	}

	return cfg, nil
}
