package domain

import "context"

// Completer is the generation provider contract: one request carrying
// system-role policy text and a user-role prompt, one text response.
// Implementations live in internal/transport and are selected at
// configuration time.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
