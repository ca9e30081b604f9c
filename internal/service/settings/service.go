// Package settings implements the facility settings service.
package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/pkg/ctxutil"
)

type settingsRepo interface {
	FindOrCreateDefault(ctx context.Context, defaults domain.SettingsInput) (domain.Settings, error)
	Save(ctx context.Context, in domain.SettingsInput) (domain.Settings, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service reads and saves the settings singleton.
type Service struct {
	repo     settingsRepo
	tx       txManager
	defaults domain.SettingsInput
	log      *slog.Logger
}

// NewService creates a new settings service. defaults are used the first
// time the settings are read or saved.
func NewService(log *slog.Logger, repo settingsRepo, tx txManager, defaults domain.SettingsInput) *Service {
	return &Service{
		repo:     repo,
		tx:       tx,
		defaults: defaults,
		log:      log.With("service", "settings"),
	}
}

// Find returns the settings, creating them from the configured defaults on
// first use.
func (s *Service) Find(ctx context.Context) (domain.Settings, error) {
	var out domain.Settings
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		out, findErr = s.repo.FindOrCreateDefault(txCtx, s.defaults)
		if findErr != nil {
			return fmt.Errorf("find settings: %w", findErr)
		}
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return out, nil
}

// Save applies the submitted fields of in, creating the settings from the
// configured defaults first when missing.
func (s *Service) Save(ctx context.Context, in domain.SettingsInput) (domain.Settings, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Settings{}, domain.ErrUnauthorized
	}

	if err := in.Validate(); err != nil {
		return domain.Settings{}, err
	}

	var out domain.Settings
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindOrCreateDefault(txCtx, s.defaults); err != nil {
			return fmt.Errorf("find settings: %w", err)
		}

		var saveErr error
		out, saveErr = s.repo.Save(txCtx, in)
		if saveErr != nil {
			return fmt.Errorf("save settings: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}

	s.log.InfoContext(ctx, "settings saved",
		slog.String("user_id", actor.String()),
	)

	return out, nil
}
