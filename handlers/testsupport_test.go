package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/facerankbackend/blob"
	"github.com/camden-git/facerankbackend/config"
	"github.com/camden-git/facerankbackend/database"
	"github.com/camden-git/facerankbackend/models"
	"github.com/camden-git/facerankbackend/repository"
)

const testAdminPassword = "test-secret"

// memStore is an in-memory blob.Store for handler tests. failAfter < 0
// disables injected upload failures; failDelete makes every Delete fail while
// still recording the attempt.
type memStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleted    []string
	uploads    int
	failAfter  int
	failDelete bool
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, failAfter: -1}
}

func (m *memStore) Upload(ctx context.Context, assetType blob.AssetType, filename string, data io.Reader, contentType string) (blob.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAfter >= 0 && m.uploads >= m.failAfter {
		return blob.Object{}, errors.New("injected upload failure")
	}
	m.uploads++

	b, err := io.ReadAll(data)
	if err != nil {
		return blob.Object{}, err
	}
	key := string(assetType) + "/" + filename
	m.objects[key] = b
	return blob.Object{URL: "http://blobs.test/" + key, Key: key}, nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, key)
	if m.failDelete {
		return errors.New("blob backend unavailable")
	}
	delete(m.objects, key)
	return nil
}

func (m *memStore) objectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *memStore) deleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deleted)
}

// testEnv wires the full /api router against a temp-file database and an
// in-memory blob store, mirroring the production route table.
type testEnv struct {
	router  chi.Router
	db      *gorm.DB
	people  *repository.PersonRepository
	images  *repository.ImageRepository
	ratings *repository.RatingRepository
	store   *memStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.InitGormDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	env := &testEnv{
		db:      db,
		people:  repository.NewPersonRepository(db),
		images:  repository.NewImageRepository(db),
		ratings: repository.NewRatingRepository(db),
		store:   newMemStore(),
	}

	auth, err := NewAdminAuth(testAdminPassword)
	require.NoError(t, err)

	cfg := config.Config{
		MaxUploadBytes:     5 * 1024 * 1024,
		MaxImagesPerUpload: 10,
	}

	personHandler := &PersonHandler{People: env.people}
	ratingHandler := &RatingHandler{People: env.people, Ratings: env.ratings}
	adminHandler := &AdminPersonHandler{
		People:  env.people,
		Images:  env.images,
		Store:   env.store,
		Auth:    auth,
		StatsDB: sqlDB,
		Cfg:     cfg,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Route("/api", func(r chi.Router) {
		r.Get("/people", personHandler.ListPeople)
		r.Get("/leaderboard", personHandler.Leaderboard)

		r.Post("/rate", ratingHandler.SubmitRating)
		r.Delete("/rate/{personId}", ratingHandler.DeleteVote)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Post("/people", adminHandler.CreatePerson)
				r.Route("/people/{person_id}", func(r chi.Router) {
					r.Delete("/", adminHandler.DeletePerson)
					r.Post("/images", adminHandler.AddImages)
					r.Delete("/images", adminHandler.DeleteImage)
				})
				r.Get("/stats", adminHandler.Stats)
			})
		})
	})
	env.router = r

	return env
}

func (env *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) createPerson(t *testing.T, name string, images ...models.Image) *models.Person {
	t.Helper()
	person := &models.Person{Name: name}
	require.NoError(t, env.people.CreateWithImages(person, images))
	return person
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asAdmin(req *http.Request) *http.Request {
	req.Header.Set(AdminPasswordHeader, testAdminPassword)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

// pngBytes renders a small valid PNG for upload tests.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, method, target, name string, files [][]byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if name != "" {
		require.NoError(t, mw.WriteField("name", name))
	}
	for i, data := range files {
		fw, err := mw.CreateFormFile("images", fmt.Sprintf("upload-%d.png", i))
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
