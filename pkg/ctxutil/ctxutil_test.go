package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestActorFromCtx(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name   string
		ctx    context.Context
		want   uuid.UUID
		wantOK bool
	}{
		{"set", WithActor(context.Background(), id), id, true},
		{"empty context", context.Background(), uuid.Nil, false},
		{"nil uuid", WithActor(context.Background(), uuid.Nil), uuid.Nil, false},
		{"wrong type under a string key", context.WithValue(context.Background(), ctxKeyLookalike("actor"), id), uuid.Nil, false},
		{"innermost wins", WithActor(WithActor(context.Background(), uuid.New()), id), id, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ActorFromCtx(tt.ctx)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("id = %s, want %s", got, tt.want)
			}
		})
	}
}

type ctxKeyLookalike string

func TestRequestIDFromCtx(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromCtx(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithRequestID(WithActor(context.Background(), id), "req-2")

	if got, ok := ActorFromCtx(ctx); !ok || got != id {
		t.Fatalf("actor = %s (ok=%v), want %s", got, ok, id)
	}
	if got := RequestIDFromCtx(ctx); got != "req-2" {
		t.Fatalf("request id = %q, want req-2", got)
	}
}
