package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/camden-git/facerankbackend/blob"
	"github.com/camden-git/facerankbackend/config"
	"github.com/camden-git/facerankbackend/database"
	"github.com/camden-git/facerankbackend/media"
	"github.com/camden-git/facerankbackend/models"
	"github.com/camden-git/facerankbackend/repository"
	"github.com/camden-git/facerankbackend/workers"
)

// AdminPersonHandler serves all mutating admin operations. The relational
// store is the source of truth; blob deletions everywhere in this handler are
// best-effort and never abort the record mutation.
type AdminPersonHandler struct {
	People    repository.PersonRepositoryInterface
	Images    repository.ImageRepositoryInterface
	Store     blob.Store
	Processor *workers.ImageProcessor
	Auth      *AdminAuth
	StatsDB   *sql.DB
	Cfg       config.Config
}

// personSummary is the person shape returned by admin mutations, matching the
// public API: URLs only, no storage handles.
type personSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Images    []string `json:"images"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

func toPersonSummary(p *models.Person, withCreatedAt bool) personSummary {
	summary := personSummary{
		ID:     p.ID,
		Name:   p.Name,
		Images: make([]string, 0, len(p.Images)),
	}
	for _, img := range p.Images {
		summary.Images = append(summary.Images, img.URL)
	}
	if withCreatedAt {
		summary.CreatedAt = time.Unix(p.CreatedAt, 0).UTC().Format(time.RFC3339)
	}
	return summary
}

// Login handles POST /api/admin/login: a bare secret check, no session issued.
func (h *AdminPersonHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if !h.Auth.Check(req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Admin access granted"})
}

// imagePayload is one validated upload: raw bytes plus the sniffed type.
type imagePayload struct {
	data        []byte
	contentType string
	ext         string
}

// readImagePayloads drains and validates every uploaded file. Each payload is
// fully decoded before any blob upload happens, so a bad file fails the whole
// request without orphaning blobs.
func (h *AdminPersonHandler) readImagePayloads(files []*multipart.FileHeader) ([]imagePayload, error) {
	payloads := make([]imagePayload, 0, len(files))
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file '%s': %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(file, h.Cfg.MaxUploadBytes+1))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file '%s': %w", fh.Filename, err)
		}
		if int64(len(data)) > h.Cfg.MaxUploadBytes {
			return nil, fmt.Errorf("file '%s' exceeds the %d byte limit", fh.Filename, h.Cfg.MaxUploadBytes)
		}

		contentType, ext, ok := media.SniffImage(data)
		if !ok {
			return nil, fmt.Errorf("only image files are allowed, got '%s' for '%s'", contentType, fh.Filename)
		}
		if _, err := media.Decode(data); err != nil {
			return nil, fmt.Errorf("file '%s' is not a valid image: %w", fh.Filename, err)
		}

		payloads = append(payloads, imagePayload{data: data, contentType: contentType, ext: ext})
	}
	return payloads, nil
}

// uploadAll fans payload uploads out in parallel. Results land in submission
// order regardless of completion order. On any failure the successful uploads
// are deleted best-effort and the error is returned.
func (h *AdminPersonHandler) uploadAll(r *http.Request, payloads []imagePayload) ([]blob.Object, error) {
	objects := make([]blob.Object, len(payloads))
	uploadErrs := make([]error, len(payloads))

	var wg sync.WaitGroup
	for i := range payloads {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			filename := blob.RandomFilename(payloads[i].ext)
			objects[i], uploadErrs[i] = h.Store.Upload(r.Context(), blob.AssetTypeOriginal, filename,
				bytes.NewReader(payloads[i].data), payloads[i].contentType)
		}(i)
	}
	wg.Wait()

	for _, err := range uploadErrs {
		if err != nil {
			for i, cleanupErr := range uploadErrs {
				if cleanupErr == nil {
					h.deleteBlob(objects[i].Key)
				}
			}
			return nil, err
		}
	}
	return objects, nil
}

// deleteBlob removes one blob best-effort; failures are logged, never
// surfaced. Uses a background context so a client disconnect doesn't abort
// cleanup mid-batch.
func (h *AdminPersonHandler) deleteBlob(key string) {
	if key == "" {
		return
	}
	if err := h.Store.Delete(context.Background(), key); err != nil {
		log.Printf("Error deleting blob '%s' (orphaned asset left behind): %v", key, err)
	}
}

// deletePersonBlobs fans out best-effort deletion of every blob a person owns.
func (h *AdminPersonHandler) deletePersonBlobs(person *models.Person) {
	var wg sync.WaitGroup
	for _, img := range person.Images {
		keys := []string{img.StorageKey}
		if img.ThumbnailKey != nil {
			keys = append(keys, *img.ThumbnailKey)
		}
		for _, key := range keys {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				h.deleteBlob(key)
			}(key)
		}
	}
	wg.Wait()
}

func imagesFromObjects(objects []blob.Object) []models.Image {
	images := make([]models.Image, len(objects))
	for i, obj := range objects {
		images[i] = models.Image{
			URL:             obj.URL,
			StorageKey:      obj.Key,
			ThumbnailStatus: database.StatusPending,
			MetadataStatus:  database.StatusPending,
		}
	}
	return images
}

func (h *AdminPersonHandler) enqueueImageTasks(images []models.Image, payloads []imagePayload) {
	if h.Processor == nil {
		return
	}
	for i := range images {
		h.Processor.Enqueue(images[i].ID, payloads[i].data)
	}
}

// CreatePerson handles POST /api/admin/people (multipart: name + images).
// If any upload fails, the person is not created and already-uploaded blobs
// are removed best-effort.
func (h *AdminPersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid multipart form: " + err.Error()})
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Name is required"})
		return
	}

	files := formImages(r)
	if len(files) > h.Cfg.MaxImagesPerUpload {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("At most %d images per request", h.Cfg.MaxImagesPerUpload)})
		return
	}

	payloads, err := h.readImagePayloads(files)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	objects, err := h.uploadAll(r, payloads)
	if err != nil {
		log.Printf("Error uploading images for new person '%s': %v", name, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to add person"})
		return
	}

	person := &models.Person{Name: name}
	images := imagesFromObjects(objects)
	if err := h.People.CreateWithImages(person, images); err != nil {
		log.Printf("Error creating person '%s': %v", name, err)
		for _, obj := range objects {
			h.deleteBlob(obj.Key)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to add person"})
		return
	}

	h.enqueueImageTasks(images, payloads)

	person.Images = images
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"person":  toPersonSummary(person, true),
	})
}

// AddImages handles POST /api/admin/people/{id}/images. The person is checked
// before any upload so an unknown ID leaves no blobs behind.
func (h *AdminPersonHandler) AddImages(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")

	if _, err := h.People.GetByID(personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Person not found"})
		} else {
			log.Printf("Error checking person %s before adding images: %v", personID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to add images"})
		}
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid multipart form: " + err.Error()})
		return
	}

	files := formImages(r)
	if len(files) > h.Cfg.MaxImagesPerUpload {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("At most %d images per request", h.Cfg.MaxImagesPerUpload)})
		return
	}

	payloads, err := h.readImagePayloads(files)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	objects, err := h.uploadAll(r, payloads)
	if err != nil {
		log.Printf("Error uploading images for person %s: %v", personID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to add images"})
		return
	}

	images := imagesFromObjects(objects)
	if err := h.Images.AppendToPerson(personID, images); err != nil {
		log.Printf("Error adding images to person %s: %v", personID, err)
		for _, obj := range objects {
			h.deleteBlob(obj.Key)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to add images"})
		return
	}

	h.enqueueImageTasks(images, payloads)

	h.respondWithPerson(w, personID)
}

// DeletePerson handles DELETE /api/admin/people/{id}. Blob deletion is
// best-effort; the row delete proceeds regardless and the store cascade
// removes the person's images and ratings.
func (h *AdminPersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")

	person, err := h.People.GetWithRelations(personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Person not found"})
		} else {
			log.Printf("Error fetching person %s for deletion: %v", personID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete person"})
		}
		return
	}

	h.deletePersonBlobs(person)

	if err := h.People.Delete(personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Person not found"})
		} else {
			log.Printf("Error deleting person %s: %v", personID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete person"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Person deleted successfully"})
}

// DeleteImage handles DELETE /api/admin/people/{id}/images with body
// {imageUrl}: removes one image by its public URL and returns the refreshed
// person.
func (h *AdminPersonHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")

	var req struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if _, err := h.People.GetByID(personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Person not found"})
		} else {
			log.Printf("Error checking person %s before image deletion: %v", personID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete image"})
		}
		return
	}

	image, err := h.Images.GetByPersonAndURL(personID, req.ImageURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Image not found"})
		} else {
			log.Printf("Error finding image by URL for person %s: %v", personID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete image"})
		}
		return
	}

	h.deleteBlob(image.StorageKey)
	if image.ThumbnailKey != nil {
		h.deleteBlob(*image.ThumbnailKey)
	}

	if err := h.Images.Delete(image.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error deleting image %d: %v", image.ID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete image"})
		return
	}

	h.respondWithPerson(w, personID)
}

// Stats handles GET /api/admin/stats.
func (h *AdminPersonHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := database.GetStats(h.StatsDB)
	if err != nil {
		log.Printf("Error computing admin stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// respondWithPerson reloads a person and writes the standard mutation response.
func (h *AdminPersonHandler) respondWithPerson(w http.ResponseWriter, personID string) {
	person, err := h.People.GetWithRelations(personID)
	if err != nil {
		log.Printf("Error fetching refreshed person %s: %v", personID, err)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"person":  toPersonSummary(person, false),
	})
}

// formImages returns the uploaded image files, tolerating requests without any.
func formImages(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File["images"]
}
