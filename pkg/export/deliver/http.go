package deliver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"complie-hq/tabula/pkg/export"
)

// HTTPSink streams an artifact to an HTTP client as a file download,
// setting the Content-Type, Content-Length, and attachment
// Content-Disposition headers. One sink serves exactly one response.
type HTTPSink struct {
	w http.ResponseWriter
}

// NewHTTPSink creates a sink bound to a response writer.
func NewHTTPSink(w http.ResponseWriter) *HTTPSink {
	return &HTTPSink{w: w}
}

// Deliver writes the artifact to the response.
func (s *HTTPSink) Deliver(ctx context.Context, artifact *export.Artifact) error {
	if err := ctx.Err(); err != nil {
		return export.NewDeliveryError(err)
	}

	h := s.w.Header()
	h.Set("Content-Type", artifact.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))

	if _, err := s.w.Write(artifact.Data); err != nil {
		return export.NewDeliveryError(fmt.Errorf("write response: %w", err))
	}
	return nil
}
