package ports

import "context"

// MessageGenerator turns diff text into a commit message. It is an
// opaque external collaborator; transport is the adapter's concern.
type MessageGenerator interface {
	Generate(ctx context.Context, diff string) (string, error)
}
