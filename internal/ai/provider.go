// Package ai defines the model completion boundary. The core is agnostic to
// which vendor produced the text; it constrains only the content, never the
// transport.
package ai

import "context"

// Provider turns a prompt into raw completion text. Implementations do not
// retry; a failed call propagates to the caller.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
