package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camden-git/facerankbackend/models"
)

// PersonRepository handles database operations for Person entities
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// CreateWithImages creates a person and its initial images in one
// transaction. Images keep their slice order: batch insert assigns ascending
// IDs, and ID order is the insertion order everywhere images are read back.
func (r *PersonRepository) CreateWithImages(person *models.Person, images []models.Image) error {
	now := time.Now().Unix()
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	if person.CreatedAt == 0 {
		person.CreatedAt = now
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(person).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].PersonID = person.ID
			if images[i].CreatedAt == 0 {
				images[i].CreatedAt = now
			}
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create person %s: %w", person.Name, err)
	}
	return nil
}

// GetByID retrieves a person without relations, for existence checks
func (r *PersonRepository) GetByID(id string) (*models.Person, error) {
	var person models.Person
	err := r.DB.First(&person, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person by ID %s: %w", id, err)
	}
	return &person, nil
}

// GetWithRelations retrieves a person with images (insertion order) and ratings
func (r *PersonRepository) GetWithRelations(id string) (*models.Person, error) {
	var person models.Person
	err := r.DB.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("images.id ASC") }).
		Preload("Ratings").
		First(&person, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person %s with relations: %w", id, err)
	}
	return &person, nil
}

// ListAllWithRelations retrieves all people newest first, preloading images
// in insertion order and all ratings
func (r *PersonRepository) ListAllWithRelations() ([]models.Person, error) {
	var people []models.Person
	err := r.DB.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("images.id ASC") }).
		Preload("Ratings").
		Order("created_at DESC").
		Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

// Delete removes a person by ID; the store cascades to images and ratings
func (r *PersonRepository) Delete(id string) error {
	result := r.DB.Delete(&models.Person{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete person ID %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
