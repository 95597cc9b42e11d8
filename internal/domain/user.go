package domain

// User Model
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`                                   // Primary key
	Username   string     `gorm:"unique;not null" json:"username"`                        // Unique username
	Email      string     `gorm:"unique;not null" json:"email"`                           // Unique email
	Password   string     `json:"-"`                                                      // Hex-encoded SHA-256 digest, never serialized
	FirstName  string     `json:"firstName"`                                              // First name
	LastName   string     `json:"lastName"`                                               // Last name
	Activities []Activity `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // One-to-many relationship with Activity
}
