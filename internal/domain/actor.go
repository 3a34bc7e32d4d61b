package domain

import "context"

type actorKey struct{}

// Actor identifies the authenticated admin performing an operation.
// It is carried explicitly through context instead of any session
// global so core logic stays ignorant of the auth mechanism.
type Actor struct {
	ID       string
	Username string
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
