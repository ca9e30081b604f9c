package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/pkg/ctxutil"
)

// ErrNoActor is returned when no actor is given and the fixtures contain no
// user that could act as one.
var ErrNoActor = errors.New("seeder: no actor and no user fixture to register")

// allPhases defines the canonical execution order. Later phases reference
// records created by earlier ones.
var allPhases = []string{"users", "pets", "bookings", "settings"}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Duration time.Duration
	Err      error
}

// Config holds pipeline settings.
type Config struct {
	// Actor is recorded as creator of every seeded record. When Nil the first
	// user fixture registers itself and becomes the actor.
	Actor  uuid.UUID
	DryRun bool
}

// Pipeline creates fixture records phase by phase and stops at the first
// failing record.
type Pipeline struct {
	log     *slog.Logger
	svc     Services
	cfg     Config
	results map[string]PhaseResult

	users refs
	pets  refs
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, svc Services, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log,
		svc:     svc,
		cfg:     cfg,
		results: make(map[string]PhaseResult),
		users:   refs{},
		pets:    refs{},
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// Run seeds fx. In dry-run mode the fixtures are only validated.
func (p *Pipeline) Run(ctx context.Context, fx Fixtures) error {
	if err := fx.Validate(); err != nil {
		return fmt.Errorf("seeder: %w", err)
	}
	if p.cfg.DryRun {
		p.log.Info("dry run: fixtures are valid",
			slog.Int("users", len(fx.Users)),
			slog.Int("pets", len(fx.Pets)),
			slog.Int("bookings", len(fx.Bookings)),
		)
		return nil
	}

	users := fx.Users
	actor := p.cfg.Actor
	if actor == uuid.Nil {
		if len(users) == 0 {
			return ErrNoActor
		}
		first, err := p.svc.Register(ctx, users[0].input())
		if err != nil {
			return fmt.Errorf("seeder: register %q: %w", users[0].Key, err)
		}
		p.users[users[0].Key] = first.ID
		actor = first.ID
		users = users[1:]
		p.log.Info("registered seed actor", slog.String("key", fx.Users[0].Key), slog.String("id", actor.String()))
	}
	ctx = ctxutil.WithActor(ctx, actor)

	for _, phase := range allPhases {
		start := time.Now()

		var result PhaseResult
		switch phase {
		case "users":
			result = p.runUsers(ctx, users)
		case "pets":
			result = p.runPets(ctx, fx.Pets)
		case "bookings":
			result = p.runBookings(ctx, fx.Bookings)
		case "settings":
			result = p.runSettings(ctx, fx.Settings)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Int("inserted", result.Inserted),
			)
			return fmt.Errorf("seeder: %s: %w", phase, result.Err)
		}
		p.log.Info("phase completed",
			slog.String("phase", phase),
			slog.Int("inserted", result.Inserted),
			slog.Duration("duration", result.Duration),
		)
	}

	return nil
}

func (p *Pipeline) runUsers(ctx context.Context, users []UserFixture) PhaseResult {
	var res PhaseResult
	for _, u := range users {
		created, err := p.svc.Users.Create(ctx, u.input())
		if err != nil {
			res.Err = fmt.Errorf("%q: %w", u.Key, err)
			return res
		}
		p.users[u.Key] = created.ID
		res.Inserted++
	}
	return res
}

func (p *Pipeline) runPets(ctx context.Context, pets []PetFixture) PhaseResult {
	var res PhaseResult
	for _, pf := range pets {
		created, err := p.svc.Pets.Create(ctx, pf.input(p.users))
		if err != nil {
			res.Err = fmt.Errorf("%q: %w", pf.Key, err)
			return res
		}
		p.pets[pf.Key] = created.ID
		res.Inserted++
	}
	return res
}

func (p *Pipeline) runBookings(ctx context.Context, bookings []BookingFixture) PhaseResult {
	var res PhaseResult
	for _, b := range bookings {
		if _, err := p.svc.Bookings.Create(ctx, b.input(p.users, p.pets)); err != nil {
			res.Err = fmt.Errorf("%q: %w", b.Key, err)
			return res
		}
		res.Inserted++
	}
	return res
}

func (p *Pipeline) runSettings(ctx context.Context, s *SettingsFixture) PhaseResult {
	if s == nil {
		return PhaseResult{}
	}
	if _, err := p.svc.Settings.Save(ctx, s.input()); err != nil {
		return PhaseResult{Err: err}
	}
	return PhaseResult{Inserted: 1}
}
