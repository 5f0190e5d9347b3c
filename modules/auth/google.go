package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the subset of a verified Google ID token the service
// needs to resolve an account.
type GoogleIdentity struct {
	Subject     string
	Email       string
	DisplayName string
	PhotoURL    string
}

// GoogleVerifier validates Google ID tokens.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawToken string) (*GoogleIdentity, error)
}

// googleVerifier checks tokens against Google's public keys for the
// configured OAuth client id.
type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier creates a verifier for the given OAuth client id.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, rawToken string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}

	identity := &GoogleIdentity{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		identity.PhotoURL = picture
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("%w: token carries no email claim", ErrInvalidGoogleToken)
	}
	return identity, nil
}
