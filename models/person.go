package models

// Person represents a rateable profile in the database using GORM.
// It corresponds to the 'people' table.
type Person struct {
	ID        string `gorm:"primaryKey" json:"id"` // opaque UUID, assigned at creation
	Name      string `gorm:"not null" json:"name"`
	CreatedAt int64  `gorm:"not null;index" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp

	// Relationships
	// omitempty will hide these if they are not preloaded or are empty
	Images  []Image  `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Ratings []Rating `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}
