package driven

import "context"

// Confirmer asks the user a yes/no question before a download proceeds.
// Blocking is expected; the coordinator calls it off the event path.
type Confirmer interface {
	// Confirm returns true if the user accepted.
	Confirm(ctx context.Context, prompt string) (bool, error)
}
