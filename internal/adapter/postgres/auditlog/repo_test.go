package auditlog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petboarding/petboarding-backend/internal/adapter/postgres/auditlog"
	"github.com/petboarding/petboarding-backend/internal/adapter/postgres/testhelper"
	"github.com/petboarding/petboarding-backend/internal/domain"
)

func newRepo(t *testing.T) *auditlog.Repo {
	t.Helper()
	return auditlog.New(testhelper.SetupTestDB(t))
}

func TestRepo_Create_RedactsSensitiveKeys(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	actor := uuid.New()

	got, err := repo.Create(context.Background(), domain.AuditLog{
		EntityName: domain.EntityUser,
		EntityID:   uuid.New(),
		Action:     domain.AuditActionCreate,
		Values: map[string]any{
			"email":        "ann@example.com",
			"password":     "hunter22",
			"passwordHash": "$2a$10$abc",
		},
		CreatedBy: &actor,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, map[string]any{"email": "ann@example.com"}, got.Values)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, actor, *got.CreatedBy)
}

func TestRepo_Create_NilValues(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	got, err := repo.Create(context.Background(), domain.AuditLog{
		EntityName: domain.EntityPet,
		EntityID:   uuid.New(),
		Action:     domain.AuditActionDelete,
	})
	require.NoError(t, err)
	assert.Nil(t, got.Values)
	assert.Nil(t, got.CreatedBy)
}

func TestRepo_Create_Invalid(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	_, err := repo.Create(context.Background(), domain.AuditLog{EntityName: "card", Action: "DELETE"})
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)
}

func TestRepo_ListByEntity_NewestFirst(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	entityID := uuid.New()

	for _, action := range []domain.AuditAction{domain.AuditActionCreate, domain.AuditActionUpdate, domain.AuditActionDelete} {
		require.NoError(t, repo.Log(ctx, domain.AuditLog{EntityName: domain.EntityBooking, EntityID: entityID, Action: action}))
		// Distinct timestamps keep the order independent of the id tiebreaker.
		time.Sleep(5 * time.Millisecond)
	}

	history, err := repo.ListByEntity(ctx, domain.EntityBooking, entityID, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.AuditActionDelete, history[0].Action)
	assert.Equal(t, domain.AuditActionCreate, history[2].Action)

	limited, err := repo.ListByEntity(ctx, domain.EntityBooking, entityID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, domain.AuditActionDelete, limited[0].Action)

	other, err := repo.ListByEntity(ctx, domain.EntityPet, entityID, 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRepo_FindAndCountAll_Filters(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()
	actor := uuid.New()
	entityID := uuid.New()

	before := time.Now().UTC().Add(-time.Minute)
	for _, action := range []domain.AuditAction{domain.AuditActionCreate, domain.AuditActionUpdate, domain.AuditActionUpdate} {
		require.NoError(t, repo.Log(ctx, domain.AuditLog{
			EntityName: domain.EntityPet,
			EntityID:   entityID,
			Action:     action,
			Values:     map[string]any{"name": "Rex"},
			CreatedBy:  &actor,
		}))
	}

	update := domain.AuditActionUpdate
	page, err := repo.FindAndCountAll(ctx, domain.Query[domain.AuditLogFilter]{
		Filter: domain.AuditLogFilter{
			EntityID:       &entityID,
			EntityNames:    []domain.EntityName{domain.EntityPet, domain.EntityBooking},
			Action:         &update,
			CreatedBy:      &actor,
			TimestampRange: domain.NewRange(&before, nil),
		},
		Limit:   1,
		OrderBy: "timestamp_ASC",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, domain.AuditActionUpdate, page.Rows[0].Action)
	assert.Equal(t, "Rex", page.Rows[0].Values["name"])

	future := time.Now().UTC().Add(time.Hour)
	page, err = repo.FindAndCountAll(ctx, domain.Query[domain.AuditLogFilter]{
		Filter: domain.AuditLogFilter{EntityID: &entityID, TimestampRange: domain.NewRange(&future, nil)},
	})
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.Empty(t, page.Rows)
}

func TestRepo_FindAndCountAll_InvalidOrderBy(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	_, err := repo.FindAndCountAll(context.Background(), domain.Query[domain.AuditLogFilter]{OrderBy: "values_ASC"})
	require.ErrorIs(t, err, domain.ErrValidation)
}
