package model

import "context"

// Role values recognized by the permission layer. Admin passes every
// role check.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Actor is the authenticated principal attached to a request.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type actorContextKey struct{}

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, a)
}

// ActorFrom extracts the authenticated actor from the context, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorContextKey{}).(Actor)
	return a, ok
}
