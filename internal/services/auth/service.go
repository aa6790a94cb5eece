// Package auth is the identity collaborator: it issues player ids and
// bearer tokens for guests and registered players.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/partyarcade/internal/dependencies/clock"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidInput       = errors.New("invalid input")
)

const (
	maxDisplayNameLength = 32
	minPasswordLength    = 6
	// bcrypt ignores input past 72 bytes
	maxPasswordLength = 72
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_-]{3,24}$`)

// Session is an issued bearer token and the player it identifies
type Session = model.AuthSession

// Config holds configuration for the auth service
type Config struct {
	// Lifetime of an issued token
	SessionDuration time.Duration
	// bcrypt cost; zero means bcrypt.DefaultCost
	HashCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		HashCost:        bcrypt.DefaultCost,
	}
}

// Service issues identities and bearer tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	config  Config
	logger  *slog.Logger
}

// New creates an auth service; zero config fields take their defaults
func New(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = defaults.HashCost
	}
	return &Service{
		storage: store,
		clock:   clk,
		config:  cfg,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// normalizeDisplayName trims name and rejects empty, overlong or control-character names
func normalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > maxDisplayNameLength {
		return "", fmt.Errorf("%w: display name must be 1-%d characters", ErrInvalidInput, maxDisplayNameLength)
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: display name contains control characters", ErrInvalidInput)
	}
	return name, nil
}

// normalizeUsername lowercases username so logins are case-insensitive
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func newPlayerID() model.PlayerID {
	return model.PlayerID("p_" + uuid.NewString())
}

// CreateGuestPlayer creates an ephemeral player whose results are never persisted
func (s *Service) CreateGuestPlayer(ctx context.Context, displayName string) (*Session, error) {
	displayName, err := normalizeDisplayName(displayName)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		ID:          newPlayerID(),
		DisplayName: displayName,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("save guest: %w", err)
	}

	s.logger.Debug("guest created", slog.String("player_id", string(player.ID)))
	return s.issueToken(ctx, player)
}

// RegisterPlayer creates a durable account. displayName defaults to the username.
func (s *Service) RegisterPlayer(ctx context.Context, username, password, displayName string) (*Session, error) {
	username = normalizeUsername(username)
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-24 of a-z, 0-9, _ or -", ErrInvalidInput)
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return nil, fmt.Errorf("%w: password must be %d-%d bytes", ErrInvalidInput, minPasswordLength, maxPasswordLength)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}
	displayName, err := normalizeDisplayName(displayName)
	if err != nil {
		return nil, err
	}

	switch _, err := s.storage.GetRegisteredPlayerByUsername(ctx, username); {
	case err == nil:
		return nil, ErrUsernameExists
	case !errors.Is(err, model.ErrPlayerNotFound):
		return nil, fmt.Errorf("look up username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:          newPlayerID(),
		DisplayName: displayName,
		CreatedAt:   now,
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	if err := s.storage.SaveRegisteredPlayer(ctx, &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("save registration: %w", err)
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username))
	return s.issueToken(ctx, player)
}

// Login checks a registered player's password and issues a new token
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = normalizeUsername(username)
	rp, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			s.logger.Debug("login for unknown username", slog.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected", slog.String("player_id", string(rp.PlayerID)))
		return nil, ErrInvalidCredentials
	}

	player, err := s.storage.GetPlayer(ctx, rp.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("load player: %w", err)
	}
	return s.issueToken(ctx, player)
}

// ValidateSession resolves a token, purging it when it has expired
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, error) {
	session, err := s.storage.GetAuthSession(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("load token: %w", err)
	}

	if !s.clock.Now().Before(session.ExpiresAt) {
		if err := s.storage.DeleteAuthSession(ctx, token); err != nil {
			s.logger.Warn("failed to purge expired token",
				slog.String("player_id", string(session.PlayerID)),
				slog.String("error", err.Error()))
		}
		return nil, ErrInvalidSession
	}
	return session, nil
}

// InvalidateSession revokes a token; unknown tokens are ignored
func (s *Service) InvalidateSession(ctx context.Context, token string) error {
	if err := s.storage.DeleteAuthSession(ctx, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// GetPlayer returns the player a token identifies
func (s *Service) GetPlayer(ctx context.Context, token string) (*model.Player, error) {
	session, err := s.ValidateSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &session.Player, nil
}

func (s *Service) issueToken(ctx context.Context, player *model.Player) (*Session, error) {
	now := s.clock.Now()
	session := &Session{
		Token:     "sess_" + uuid.NewString(),
		PlayerID:  player.ID,
		Player:    *player,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionDuration),
	}
	if err := s.storage.SaveAuthSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	return session, nil
}
