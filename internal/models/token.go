package models

import "time"

// AccessToken is an opaque revocable bearer token. Only the SHA-256 digest of
// the secret half is stored; the plaintext form handed to clients is
// "<id>|<secret>". Tokens carry no expiry: revocation is explicit only.
type AccessToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	TokenHash  string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Name       string     `gorm:"size:64" json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
