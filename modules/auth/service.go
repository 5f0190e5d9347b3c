package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/modules/migration"
	"github.com/dukaanhq/dukaan/pkg/jwt"
	"github.com/dukaanhq/dukaan/pkg/logger"
)

// Config holds the token parameters for the auth service.
type Config struct {
	JWTSigningKey   string        `env:"JWT_SIGNING_KEY,required"`
	JWTIssuer       string        `env:"JWT_ISSUER" envDefault:"dukaan"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	GoogleClientID  string        `env:"GOOGLE_CLIENT_ID"`
}

// Result is a successful authentication: the token pair plus the account.
type Result struct {
	Tokens  TokenPair
	Account *Account
}

// Service authenticates users and issues tokens. Every successful sign-in
// also provisions the entitlement record and runs the legacy-data migrator,
// both idempotent, so downstream code can rely on them existing.
type Service struct {
	cfg         Config
	accounts    AccountStore
	refresh     RefreshStore
	tokens      *jwt.Service
	google      GoogleVerifier
	provisioner *entitlement.Provisioner
	migrator    *migration.Migrator
	log         *slog.Logger
}

// NewService wires an auth service. The Google verifier is optional; without
// one, Google sign-in returns ErrInvalidGoogleToken.
func NewService(cfg Config, accounts AccountStore, refresh RefreshStore, google GoogleVerifier, provisioner *entitlement.Provisioner, migrator *migration.Migrator, log *slog.Logger) (*Service, error) {
	if accounts == nil {
		panic("auth: account store is required")
	}
	if refresh == nil {
		panic("auth: refresh store is required")
	}
	if provisioner == nil {
		panic("auth: provisioner is required")
	}
	if migrator == nil {
		panic("auth: migrator is required")
	}
	if log == nil {
		log = slog.Default()
	}

	tokens, err := jwt.NewFromString(cfg.JWTSigningKey)
	if err != nil {
		return nil, fmt.Errorf("build token service: %w", err)
	}

	return &Service{
		cfg:         cfg,
		accounts:    accounts,
		refresh:     refresh,
		tokens:      tokens,
		google:      google,
		provisioner: provisioner,
		migrator:    migrator,
		log:         log.With(logger.Component("auth")),
	}, nil
}

// Register creates a password account and signs it in.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*Result, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        normalizeEmail(email),
		DisplayName:  displayName,
		Provider:     ProviderPassword,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "account registered", logger.UserID(account.ID.String()))
	return s.signIn(ctx, account)
}

// Login verifies an email/password pair.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		// Burn a compare anyway so response timing does not reveal
		// whether the email exists.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if len(account.PasswordHash) == 0 {
		return nil, ErrPasswordSignInUnavailable
	}
	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.signIn(ctx, account)
}

// GoogleSignIn validates a Google ID token, creating the account on first
// sign-in.
func (s *Service) GoogleSignIn(ctx context.Context, rawToken string) (*Result, error) {
	if s.google == nil {
		return nil, ErrInvalidGoogleToken
	}
	identity, err := s.google.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, identity.Email)
	if errors.Is(err, ErrAccountNotFound) {
		account = &Account{
			ID:            uuid.New(),
			Email:         normalizeEmail(identity.Email),
			DisplayName:   identity.DisplayName,
			PhotoURL:      identity.PhotoURL,
			Provider:      ProviderGoogle,
			GoogleSubject: identity.Subject,
			CreatedAt:     time.Now().UTC(),
		}
		if createErr := s.accounts.Create(ctx, account); createErr != nil {
			// Lost a race with a concurrent first sign-in; reload.
			if !errors.Is(createErr, ErrEmailTaken) {
				return nil, createErr
			}
			account, err = s.accounts.GetByEmail(ctx, identity.Email)
			if err != nil {
				return nil, err
			}
		} else {
			s.log.InfoContext(ctx, "google account created", logger.UserID(account.ID.String()))
		}
	} else if err != nil {
		return nil, err
	}

	return s.signIn(ctx, account)
}

// Refresh exchanges a refresh token for a fresh pair. The old token is
// consumed even if the exchange later fails.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	userID, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, account)
}

// Logout revokes a refresh token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.refresh.Revoke(ctx, refreshToken)
}

// ParseAccessToken validates an access token and returns its claims.
func (s *Service) ParseAccessToken(tokenString string) (*Claims, error) {
	var claims Claims
	if err := s.tokens.Parse(tokenString, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// signIn runs the post-authentication chain: provision the entitlement
// record, migrate legacy data, then issue tokens.
func (s *Service) signIn(ctx context.Context, account *Account) (*Result, error) {
	identity := entitlement.Identity{
		UserID:      account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		PhotoURL:    account.PhotoURL,
	}
	if _, err := s.provisioner.Provision(ctx, identity); err != nil {
		return nil, fmt.Errorf("provision entitlement: %w", err)
	}
	if err := s.migrator.Migrate(ctx, account.ID); err != nil {
		return nil, fmt.Errorf("migrate legacy data: %w", err)
	}
	return s.issueTokens(ctx, account)
}

func (s *Service) issueTokens(ctx context.Context, account *Account) (*Result, error) {
	now := time.Now().UTC()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   account.ID.String(),
			Issuer:    s.cfg.JWTIssuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.cfg.AccessTokenTTL).Unix(),
		},
		Email:       account.Email,
		DisplayName: account.DisplayName,
		PhotoURL:    account.PhotoURL,
	}
	accessToken, err := s.tokens.Generate(claims)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Save(ctx, refreshToken, account.ID, s.cfg.RefreshTokenTTL); err != nil {
		return nil, err
	}

	return &Result{
		Tokens: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
		},
		Account: account,
	}, nil
}

// dummyHash is a bcrypt hash of a throwaway value, used to equalize timing
// for sign-ins against unknown emails.
var dummyHash = func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
}()
