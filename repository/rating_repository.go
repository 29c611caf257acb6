package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/camden-git/facerankbackend/models"
)

// ErrAlreadyRated is returned when a voter has already rated a person. It is
// produced by the store's unique constraint, never by a check-then-insert, so
// concurrent submissions from the same voter resolve to exactly one success.
var ErrAlreadyRated = errors.New("voter has already rated this person")

// RatingRepository handles database operations for Rating entities
type RatingRepository struct {
	DB *gorm.DB
}

// NewRatingRepository creates a new instance of RatingRepository
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

// Create inserts a rating, mapping a unique-constraint violation on
// (person_id, ip_address) to ErrAlreadyRated
func (r *RatingRepository) Create(rating *models.Rating) error {
	if rating.CreatedAt == 0 {
		rating.CreatedAt = time.Now().Unix()
	}

	err := r.DB.Create(rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyRated
		}
		return fmt.Errorf("failed to create rating for person %s: %w", rating.PersonID, err)
	}
	return nil
}

// GetByPersonAndIP retrieves a voter's rating for a person by composite key
func (r *RatingRepository) GetByPersonAndIP(personID, ip string) (*models.Rating, error) {
	var rating models.Rating
	err := r.DB.Where("person_id = ? AND ip_address = ?", personID, ip).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get rating for person %s: %w", personID, err)
	}
	return &rating, nil
}

// DeleteByPersonAndIP removes a voter's rating by composite key.
// Returns gorm.ErrRecordNotFound when the voter hasn't voted.
func (r *RatingRepository) DeleteByPersonAndIP(personID, ip string) error {
	result := r.DB.Where("person_id = ? AND ip_address = ?", personID, ip).Delete(&models.Rating{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete rating for person %s: %w", personID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
