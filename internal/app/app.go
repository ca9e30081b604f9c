package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/petboarding/petboarding-backend/internal/adapter/postgres"
	auditlogrepo "github.com/petboarding/petboarding-backend/internal/adapter/postgres/auditlog"
	bookingrepo "github.com/petboarding/petboarding-backend/internal/adapter/postgres/booking"
	petrepo "github.com/petboarding/petboarding-backend/internal/adapter/postgres/pet"
	"github.com/petboarding/petboarding-backend/internal/adapter/postgres/populate"
	settingsrepo "github.com/petboarding/petboarding-backend/internal/adapter/postgres/settings"
	userrepo "github.com/petboarding/petboarding-backend/internal/adapter/postgres/user"
	"github.com/petboarding/petboarding-backend/internal/config"
	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/internal/metrics"
	"github.com/petboarding/petboarding-backend/internal/service/auditlog"
	"github.com/petboarding/petboarding-backend/internal/service/crud"
	"github.com/petboarding/petboarding-backend/internal/service/settings"
)

// App holds the wired components shared by the server and the ctl commands.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool
	Tx     *postgres.TxManager

	Users    *crud.UserService
	Pets     *crud.PetService
	Bookings *crud.BookingService
	Settings *settings.Service
	AuditLog *auditlog.Service

	users    *userrepo.Repo
	migrator *goose.Provider
}

// New connects to the database and wires repositories and services.
// Collectors are registered on reg; a nil reg uses the default registerer.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		if err := metrics.Register(reg, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	migrationDB, err := postgres.OpenMigrationDB(cfg.Database.DSN)
	if err != nil {
		pool.Close()
		return nil, err
	}
	migrator, err := postgres.NewMigrator(migrationDB)
	if err != nil {
		migrationDB.Close()
		pool.Close()
		return nil, err
	}

	tx := postgres.NewTxManager(pool, cfg.Database.Transactions)
	if !tx.Enabled() {
		logger.Warn("transactions disabled: writes, audit entries and relation syncs are not atomic")
	}

	audit := auditlogrepo.New(pool)
	users := userrepo.New(pool, audit)
	readScope := crud.WithReadScope(populate.New(pool).Scope)

	return &App{
		Config: cfg,
		Log:    logger,
		Pool:   pool,
		Tx:     tx,

		Users:    crud.NewUserService(logger, users, tx),
		Pets:     crud.NewPetService(logger, petrepo.New(pool, audit), tx, readScope),
		Bookings: crud.NewBookingService(logger, bookingrepo.New(pool, audit), tx, readScope),
		Settings: settings.NewService(logger, settingsrepo.New(pool, audit), tx, SettingsDefaults(cfg.Settings)),
		AuditLog: auditlog.NewService(audit),

		users:    users,
		migrator: migrator,
	}, nil
}

// Register creates a user that records itself as creator. It is used to
// bootstrap the first account when no actor exists yet.
func (a *App) Register(ctx context.Context, in domain.UserInput) (domain.User, error) {
	var user domain.User
	err := a.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = a.users.CreateFromAuth(ctx, in)
		return err
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("register user: %w", err)
	}
	a.Log.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Migrator returns the goose provider over the embedded migrations.
func (a *App) Migrator() *goose.Provider {
	return a.migrator
}

// Close releases the database handles. The migrator owns the database/sql
// handle it was created with.
func (a *App) Close() {
	if err := a.migrator.Close(); err != nil {
		a.Log.Warn("close migrator", slog.String("error", err.Error()))
	}
	a.Pool.Close()
}

// SettingsDefaults converts the configured defaults into the input used
// when the settings record is created.
func SettingsDefaults(cfg config.SettingsConfig) domain.SettingsInput {
	theme := cfg.Theme
	fee := cfg.DailyFee
	capacity := cfg.Capacity
	return domain.SettingsInput{
		Theme:    &theme,
		DailyFee: &fee,
		Capacity: &capacity,
	}
}

func (a *App) checkMigrations(ctx context.Context) error {
	pending, err := a.migrator.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("check migrations: %w", err)
	}
	if pending {
		return fmt.Errorf("pending migrations")
	}
	return nil
}
