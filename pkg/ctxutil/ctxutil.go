// Package ctxutil carries the acting user and the request id through a
// context.Context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type (
	actorKey     struct{}
	requestIDKey struct{}
)

// WithActor stores the id of the acting user. Every mutating repository call
// records it as createdBy/updatedBy; uuid.Nil means no actor.
func WithActor(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

// ActorFromCtx returns the acting user. ok is false when the context
// carries no actor or uuid.Nil.
func ActorFromCtx(ctx context.Context) (id uuid.UUID, ok bool) {
	id, _ = ctx.Value(actorKey{}).(uuid.UUID)
	return id, id != uuid.Nil
}

// WithRequestID stores the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromCtx returns the request id, or "" when absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
