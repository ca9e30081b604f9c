package crud

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/pkg/ctxutil"
)

//go:generate moq -out repository_mock_test.go -pkg crud . repository
//go:generate moq -out tx_manager_mock_test.go -pkg crud . txManager

type bookingRepoMock = repositoryMock[domain.Booking, domain.BookingInput, domain.BookingUpdate, domain.BookingFilter]

// defaultTxMock returns a txManagerMock that simply calls the function with the same context.
func defaultTxMock() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}
}

func newTestService(repo *bookingRepoMock, tx *txManagerMock) *BookingService {
	return NewBookingService(slog.Default(), repo, tx)
}

func actorCtx() context.Context {
	return ctxutil.WithActor(context.Background(), uuid.New())
}

// ---------------------------------------------------------------------------
// Create / Update
// ---------------------------------------------------------------------------

func TestService_Create_RunsInTransaction(t *testing.T) {
	t.Parallel()

	type txKey struct{}
	id := uuid.New()

	repo := &bookingRepoMock{
		CreateFunc: func(ctx context.Context, in domain.BookingInput) (domain.Booking, error) {
			if ctx.Value(txKey{}) == nil {
				t.Error("Create called outside the transaction context")
			}
			return domain.Booking{ID: id, Status: in.Status}, nil
		},
	}
	tx := &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(context.WithValue(ctx, txKey{}, true))
		},
	}

	got, err := newTestService(repo, tx).Create(actorCtx(), domain.BookingInput{Status: domain.BookingStatusBooked})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id {
		t.Errorf("ID: got %s, want %s", got.ID, id)
	}
	if len(tx.RunInTxCalls()) != 1 {
		t.Errorf("RunInTx calls: got %d, want 1", len(tx.RunInTxCalls()))
	}
}

func TestService_Create_Unauthorized(t *testing.T) {
	t.Parallel()

	repo := &bookingRepoMock{}
	tx := defaultTxMock()

	_, err := newTestService(repo, tx).Create(context.Background(), domain.BookingInput{})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(tx.RunInTxCalls()) != 0 {
		t.Error("transaction started without an actor")
	}
}

func TestService_Create_RepoErrorIsWrapped(t *testing.T) {
	t.Parallel()

	repo := &bookingRepoMock{
		CreateFunc: func(ctx context.Context, in domain.BookingInput) (domain.Booking, error) {
			return domain.Booking{ID: uuid.New()}, domain.NewValidationError("arrival", "required")
		},
	}

	got, err := newTestService(repo, defaultTxMock()).Create(actorCtx(), domain.BookingInput{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got.ID != uuid.Nil {
		t.Errorf("expected zero record on error, got %s", got.ID)
	}
}

func TestService_Update_PassesIDAndInput(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	status := domain.BookingStatusCompleted
	repo := &bookingRepoMock{
		UpdateFunc: func(ctx context.Context, gotID uuid.UUID, in domain.BookingUpdate) (domain.Booking, error) {
			return domain.Booking{ID: gotID, Status: *in.Status}, nil
		},
	}

	got, err := newTestService(repo, defaultTxMock()).Update(actorCtx(), id, domain.BookingUpdate{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id || got.Status != status {
		t.Errorf("got %s/%s, want %s/%s", got.ID, got.Status, id, status)
	}
	if calls := repo.UpdateCalls(); len(calls) != 1 || calls[0].Id != id {
		t.Errorf("Update calls: %+v", calls)
	}
}

func TestService_Update_NotFound(t *testing.T) {
	t.Parallel()

	repo := &bookingRepoMock{
		UpdateFunc: func(ctx context.Context, id uuid.UUID, in domain.BookingUpdate) (domain.Booking, error) {
			return domain.Booking{}, domain.ErrNotFound
		},
	}

	_, err := newTestService(repo, defaultTxMock()).Update(actorCtx(), uuid.New(), domain.BookingUpdate{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Destroy
// ---------------------------------------------------------------------------

func TestService_Destroy_BatchInOneTransaction(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	repo := &bookingRepoMock{
		DestroyFunc: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
	tx := defaultTxMock()

	if err := newTestService(repo, tx).Destroy(actorCtx(), a, b, a, uuid.Nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := repo.DestroyCalls()
	if len(calls) != 2 || calls[0].Id != a || calls[1].Id != b {
		t.Errorf("Destroy calls: got %+v, want [%s %s]", calls, a, b)
	}
	if len(tx.RunInTxCalls()) != 1 {
		t.Errorf("RunInTx calls: got %d, want 1", len(tx.RunInTxCalls()))
	}
}

func TestService_Destroy_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	missing := uuid.New()
	repo := &bookingRepoMock{
		DestroyFunc: func(ctx context.Context, id uuid.UUID) error {
			if id == missing {
				return domain.ErrNotFound
			}
			return nil
		},
	}

	err := newTestService(repo, defaultTxMock()).Destroy(actorCtx(), uuid.New(), missing, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.DestroyCalls()) != 2 {
		t.Errorf("Destroy calls: got %d, want 2", len(repo.DestroyCalls()))
	}
}

func TestService_Destroy_NoIDs(t *testing.T) {
	t.Parallel()

	tx := defaultTxMock()
	if err := newTestService(&bookingRepoMock{}, tx).Destroy(actorCtx()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.RunInTxCalls()) != 0 {
		t.Error("transaction started for an empty batch")
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func TestService_FindAndCountAll_ClampsPagination(t *testing.T) {
	t.Parallel()

	repo := &bookingRepoMock{
		FindAndCountAllFunc: func(ctx context.Context, q domain.Query[domain.BookingFilter]) (domain.Page[domain.Booking], error) {
			return domain.Page[domain.Booking]{Count: 3}, nil
		},
	}
	tx := defaultTxMock()

	page, err := newTestService(repo, tx).FindAndCountAll(context.Background(), domain.Query[domain.BookingFilter]{Limit: -5, Offset: -1, OrderBy: "fee_DESC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 3 {
		t.Errorf("Count: got %d, want 3", page.Count)
	}

	q := repo.FindAndCountAllCalls()[0].Query
	if q.Limit != 0 || q.Offset != 0 || q.OrderBy != "fee_DESC" {
		t.Errorf("query passed to repo: %+v", q)
	}
	if len(tx.RunInTxCalls()) != 0 {
		t.Error("reads must not start a transaction")
	}
}

func TestService_Reads_RunInReadScope(t *testing.T) {
	t.Parallel()

	type scopeKey struct{}
	inScope := func(ctx context.Context) bool { return ctx.Value(scopeKey{}) != nil }

	repo := &bookingRepoMock{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
			if !inScope(ctx) {
				t.Error("FindByID called outside the read scope")
			}
			return domain.Booking{ID: id}, nil
		},
		FindAndCountAllFunc: func(ctx context.Context, q domain.Query[domain.BookingFilter]) (domain.Page[domain.Booking], error) {
			if !inScope(ctx) {
				t.Error("FindAndCountAll called outside the read scope")
			}
			return domain.Page[domain.Booking]{}, nil
		},
		CreateFunc: func(ctx context.Context, in domain.BookingInput) (domain.Booking, error) {
			if inScope(ctx) {
				t.Error("Create must not run in the read scope")
			}
			return domain.Booking{}, nil
		},
	}
	var scopes int
	scope := WithReadScope(func(ctx context.Context) context.Context {
		scopes++
		return context.WithValue(ctx, scopeKey{}, true)
	})
	svc := NewBookingService(slog.Default(), repo, defaultTxMock(), scope)

	if _, err := svc.FindByID(actorCtx(), uuid.New()); err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if _, err := svc.FindAndCountAll(actorCtx(), domain.Query[domain.BookingFilter]{}); err != nil {
		t.Fatalf("FindAndCountAll: %v", err)
	}
	if _, err := svc.Create(actorCtx(), domain.BookingInput{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if scopes != 2 {
		t.Errorf("scope calls: got %d, want 2", scopes)
	}
}

func TestService_FindAllAutocomplete(t *testing.T) {
	t.Parallel()

	item := domain.AutocompleteItem{ID: uuid.New(), Label: "label"}
	repo := &bookingRepoMock{
		FindAllAutocompleteFunc: func(ctx context.Context, search string, limit int) ([]domain.AutocompleteItem, error) {
			return []domain.AutocompleteItem{item}, nil
		},
	}

	items, err := newTestService(repo, defaultTxMock()).FindAllAutocomplete(context.Background(), "abc", -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0] != item {
		t.Errorf("items: %+v", items)
	}
	if call := repo.FindAllAutocompleteCalls()[0]; call.Search != "abc" || call.Limit != 0 {
		t.Errorf("autocomplete call: %+v", call)
	}
}
