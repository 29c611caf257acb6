package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/camden-git/facerankbackend/database"
	"github.com/camden-git/facerankbackend/media"
	"github.com/camden-git/facerankbackend/models"
)

// ImageRepository handles database operations for Image entities
type ImageRepository struct {
	DB *gorm.DB
}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{DB: db}
}

// AppendToPerson adds newly uploaded images to a person's existing collection.
// Batch insert keeps slice order; existing images are untouched.
func (r *ImageRepository) AppendToPerson(personID string, images []models.Image) error {
	if len(images) == 0 {
		return nil
	}
	now := time.Now().Unix()
	for i := range images {
		images[i].PersonID = personID
		if images[i].CreatedAt == 0 {
			images[i].CreatedAt = now
		}
	}
	if err := r.DB.Create(&images).Error; err != nil {
		return fmt.Errorf("failed to append images to person %s: %w", personID, err)
	}
	return nil
}

// GetByID retrieves an image by its ID
func (r *ImageRepository) GetByID(id uint) (*models.Image, error) {
	var image models.Image
	err := r.DB.First(&image, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get image ID %d: %w", id, err)
	}
	return &image, nil
}

// GetByPersonAndURL finds a person's image by its public URL, the identifier
// clients use when asking for a deletion
func (r *ImageRepository) GetByPersonAndURL(personID, url string) (*models.Image, error) {
	var image models.Image
	err := r.DB.Where("person_id = ? AND url = ?", personID, url).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find image by URL for person %s: %w", personID, err)
	}
	return &image, nil
}

// Delete removes an image row by ID
func (r *ImageRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Image{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete image ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkTaskProcessing updates a task's status to 'processing' and clears its error
func (r *ImageRepository) MarkTaskProcessing(imageID uint, taskStatusColumn string) error {
	validStatusColumns := map[string]string{
		"thumbnail_status": "thumbnail_error",
		"metadata_status":  "metadata_error",
	}

	errorColumn, isValid := validStatusColumns[taskStatusColumn]
	if !isValid {
		return fmt.Errorf("invalid task status column name: %s", taskStatusColumn)
	}

	updates := map[string]interface{}{
		taskStatusColumn: database.StatusProcessing,
		errorColumn:      gorm.Expr("NULL"),
	}

	result := r.DB.Model(&models.Image{}).Where("id = ?", imageID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to mark task %s processing for image %d: %w", taskStatusColumn, imageID, result.Error)
	}
	return nil
}

// UpdateThumbnailResult records the generated thumbnail's location, or the
// failure that produced none
func (r *ImageRepository) UpdateThumbnailResult(imageID uint, thumbURL, thumbKey *string, taskErr error) error {
	status := database.StatusDone
	var errMsg *string
	if taskErr != nil {
		status = database.StatusError
		msg := taskErr.Error()
		errMsg = &msg
		thumbURL = nil
		thumbKey = nil
	}

	updates := map[string]interface{}{
		"thumbnail_url":    thumbURL,
		"thumbnail_key":    thumbKey,
		"thumbnail_status": status,
		"thumbnail_error":  errMsg,
	}

	result := r.DB.Model(&models.Image{}).Where("id = ?", imageID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update thumbnail result for image %d: %w", imageID, result.Error)
	}
	return nil
}

// UpdateMetadataResult records extracted image metadata, or the failure
func (r *ImageRepository) UpdateMetadataResult(imageID uint, meta *media.Metadata, taskErr error) error {
	status := database.StatusDone
	var errMsg *string
	if taskErr != nil {
		status = database.StatusError
		msg := taskErr.Error()
		errMsg = &msg
		meta = &media.Metadata{}
	}

	updates := map[string]interface{}{
		"width":           meta.Width,
		"height":          meta.Height,
		"taken_at":        meta.TakenAt,
		"camera_make":     meta.CameraMake,
		"camera_model":    meta.CameraModel,
		"metadata_status": status,
		"metadata_error":  errMsg,
	}

	result := r.DB.Model(&models.Image{}).Where("id = ?", imageID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update metadata result for image %d: %w", imageID, result.Error)
	}
	return nil
}
