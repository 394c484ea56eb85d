package state

import "context"

// Repository loads and saves the render status.
type Repository interface {
	// Load retrieves the last saved state.
	// Returns an empty state and nil error if no state exists.
	Load(ctx context.Context) (State, error)

	// Save persists state atomically.
	Save(ctx context.Context, state State) error
}
