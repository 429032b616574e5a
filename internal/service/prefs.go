package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/storage"
)

// DefaultHeartbeatThrottle is the minimum gap between lastActive writes
const DefaultHeartbeatThrottle = time.Minute

// PrefsService reads and upserts per-user preferences
type PrefsService struct {
	store    storage.UserPrefsStore
	throttle time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewPrefsService(store storage.UserPrefsStore, throttle time.Duration, logger *slog.Logger) *PrefsService {
	if throttle <= 0 {
		throttle = DefaultHeartbeatThrottle
	}
	return &PrefsService{
		store:    store,
		throttle: throttle,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *PrefsService) Get(ctx context.Context, userID string) (*domain.UserPrefs, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("userId", "is required")
	}
	prefs, err := s.store.GetUserPrefs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prefs for user %s: %w", userID, err)
	}
	return prefs, nil
}

// Save applies patch to the user's record, creating it on first write
func (s *PrefsService) Save(ctx context.Context, userID string, patch domain.UserPrefsPatch) (*domain.UserPrefs, error) {
	prefs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(prefs); err != nil {
		return nil, err
	}
	prefs.UpdatedAt = s.now()

	if err := s.store.UpsertUserPrefs(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to save prefs for user %s: %w", userID, err)
	}

	s.logger.Info("User prefs saved", slog.String("user_id", userID))
	return prefs, nil
}

// Touch records activity. It skips the write when the stored lastActive is
// inside the throttle window and reports whether it wrote.
func (s *PrefsService) Touch(ctx context.Context, userID string) (bool, error) {
	prefs, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}

	now := s.now()
	if prefs.LastActive != nil && now.Sub(*prefs.LastActive) < s.throttle {
		return false, nil
	}

	prefs.LastActive = &now
	prefs.UpdatedAt = now
	if err := s.store.UpsertUserPrefs(ctx, prefs); err != nil {
		return false, fmt.Errorf("failed to record activity for user %s: %w", userID, err)
	}
	return true, nil
}

func (s *PrefsService) load(ctx context.Context, userID string) (*domain.UserPrefs, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("userId", "is required")
	}
	prefs, err := s.store.GetUserPrefs(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.UserPrefs{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prefs for user %s: %w", userID, err)
	}
	return prefs, nil
}
