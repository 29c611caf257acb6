package models

// Image represents one uploaded photo belonging to a person.
// It corresponds to the 'images' table. The auto-increment ID doubles as the
// insertion order of a person's images; clients only ever see URLs.
type Image struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID string `gorm:"not null;index" json:"person_id"`
	URL      string `gorm:"not null" json:"url"`

	// StorageKey is the opaque handle needed to delete the underlying blob.
	// It is never exposed to clients.
	StorageKey string `gorm:"not null" json:"-"`

	ThumbnailURL *string `gorm:"" json:"thumbnail_url,omitempty"`
	ThumbnailKey *string `gorm:"" json:"-"`

	Width       *int    `gorm:"" json:"width,omitempty"`       // Nullable
	Height      *int    `gorm:"" json:"height,omitempty"`      // Nullable
	TakenAt     *int64  `gorm:"" json:"taken_at,omitempty"`    // Nullable, Unix timestamp
	CameraMake  *string `gorm:"" json:"camera_make,omitempty"` // Nullable
	CameraModel *string `gorm:"" json:"camera_model,omitempty"`

	ThumbnailStatus string `gorm:"not null;default:pending" json:"thumbnail_status"`
	MetadataStatus  string `gorm:"not null;default:pending" json:"metadata_status"`

	ThumbnailError *string `gorm:"" json:"thumbnail_error,omitempty"` // Nullable
	MetadataError  *string `gorm:"" json:"metadata_error,omitempty"`  // Nullable

	CreatedAt int64 `gorm:"not null" json:"created_at"`
}

// TableName explicitly sets the table name for GORM.
func (Image) TableName() string {
	return "images"
}
