package encode

import (
	"context"
	"io"

	"complie-hq/tabula/pkg/export"
)

// Encoder serializes a normalized table set into one output format.
// Encoders are stateless and safe for concurrent use.
type Encoder interface {
	// Format identifies the output format this encoder produces.
	Format() export.Format

	// Encode writes the encoded table set to w.
	Encode(ctx context.Context, ts export.TableSet, w io.Writer) error
}

// Titled is implemented by encoders that render a document title. The
// runner uses it to apply a per-request title without mutating the
// registered encoder.
type Titled interface {
	// WithTitle returns a copy of the encoder using the given title.
	WithTitle(title string) Encoder
}

// Registry maps formats to encoders.
type Registry struct {
	byFormat map[export.Format]Encoder
}

// NewRegistry creates an empty encoder registry.
func NewRegistry() *Registry {
	return &Registry{byFormat: make(map[export.Format]Encoder)}
}

// Register adds an encoder, replacing any existing encoder for the same
// format.
func (r *Registry) Register(e Encoder) {
	r.byFormat[e.Format()] = e
}

// Get returns the encoder for a format.
func (r *Registry) Get(format export.Format) (Encoder, bool) {
	e, ok := r.byFormat[format]
	return e, ok
}

// DefaultRegistry returns a registry with the three standard encoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewCSVEncoder())
	r.Register(NewPDFEncoder(""))
	r.Register(NewXLSXEncoder())
	return r
}
