package models

// Rating is a single anonymous vote on a person. The composite unique index
// on (person_id, ip_address) is the one-vote-per-voter guarantee; inserts
// racing on the same pair are serialized by the database, not by application
// checks.
type Rating struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID  string `gorm:"not null;uniqueIndex:idx_ratings_person_ip" json:"person_id"`
	IPAddress string `gorm:"not null;uniqueIndex:idx_ratings_person_ip" json:"-"`
	Rating    int    `gorm:"not null" json:"rating"`
	CreatedAt int64  `gorm:"not null" json:"created_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Rating) TableName() string {
	return "ratings"
}
