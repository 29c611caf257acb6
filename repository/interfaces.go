package repository

import (
	"github.com/camden-git/facerankbackend/media"
	"github.com/camden-git/facerankbackend/models"
)

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	CreateWithImages(person *models.Person, images []models.Image) error
	GetByID(id string) (*models.Person, error)
	GetWithRelations(id string) (*models.Person, error)
	ListAllWithRelations() ([]models.Person, error)
	Delete(id string) error
}

// ImageRepositoryInterface defines the methods for image data operations
type ImageRepositoryInterface interface {
	AppendToPerson(personID string, images []models.Image) error
	GetByID(id uint) (*models.Image, error)
	GetByPersonAndURL(personID, url string) (*models.Image, error)
	Delete(id uint) error
	MarkTaskProcessing(imageID uint, taskStatusColumn string) error
	UpdateThumbnailResult(imageID uint, thumbURL, thumbKey *string, taskErr error) error
	UpdateMetadataResult(imageID uint, meta *media.Metadata, taskErr error) error
}

// RatingRepositoryInterface defines the methods for rating data operations
type RatingRepositoryInterface interface {
	Create(rating *models.Rating) error
	GetByPersonAndIP(personID, ip string) (*models.Rating, error)
	DeleteByPersonAndIP(personID, ip string) error
}
