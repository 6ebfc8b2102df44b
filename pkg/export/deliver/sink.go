package deliver

import (
	"context"

	"complie-hq/tabula/pkg/export"
)

// Sink consumes one finished export artifact.
type Sink interface {
	// Deliver hands off the artifact. Failures are returned as
	// *export.DeliveryError.
	Deliver(ctx context.Context, artifact *export.Artifact) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, artifact *export.Artifact) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, artifact *export.Artifact) error {
	return f(ctx, artifact)
}
