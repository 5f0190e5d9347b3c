package auth

import (
	"time"

	"github.com/google/uuid"
)

// Sign-in methods an account can be created with.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Account is a credential record. Profile and entitlement state live in the
// entitlement record; this document only carries what sign-in needs.
type Account struct {
	ID            uuid.UUID `bson:"_id" json:"id"`
	Email         string    `bson:"email" json:"email"`
	DisplayName   string    `bson:"display_name" json:"display_name"`
	PhotoURL      string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Provider      string    `bson:"provider" json:"provider"`
	PasswordHash  []byte    `bson:"password_hash,omitempty" json:"-"`
	GoogleSubject string    `bson:"google_subject,omitempty" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
