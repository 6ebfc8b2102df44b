package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"complie-hq/tabula/pkg/export"
	"complie-hq/tabula/pkg/export/deliver"
	"complie-hq/tabula/pkg/export/runner"
)

// UserIDHeader carries the authenticated user identity. Authentication
// itself happens upstream; the server only scopes exports to this value.
const UserIDHeader = "X-User-ID"

// errorResponse is the JSON error envelope returned by the API.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
}

// exportRequest is the JSON body accepted by POST /api/export.
type exportRequest struct {
	// Format selects the output format: pdf, csv or xlsx.
	Format string `json:"format"`

	// Kinds selects the entity kinds to include. "all" expands to every
	// kind.
	Kinds []string `json:"kinds"`

	// CreatedAfter restricts the export to records created at or after
	// this instant (RFC 3339).
	CreatedAfter *time.Time `json:"created_after,omitempty"`

	// IncludeArchived includes archived records.
	IncludeArchived bool `json:"include_archived"`

	// Title overrides the document title for formats that render one.
	Title string `json:"title,omitempty"`
}

// handleExport runs an export and streams the resulting file back as an
// attachment. The response headers are written by the delivery stage, so
// every failure before delivery still produces a JSON error.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID := r.Header.Get(UserIDHeader)
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "missing "+UserIDHeader+" header")
		return
	}

	var body exportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req, err := buildRequest(ownerID, body, s.defaultTitle)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = s.runner.Run(r.Context(), req, deliver.NewHTTPSink(w), nil)
	if err == nil {
		return
	}

	var runErr *runner.RunError
	switch {
	case errors.As(err, &runErr) && runErr.Stage == runner.StageDelivering:
		// Headers are already on the wire; nothing useful can be sent.
		s.logger.ErrorContext(r.Context(), "export delivery failed",
			"request_id", requestID(r.Context()),
			"error", err,
		)
	case errors.As(err, &runErr):
		s.logger.ErrorContext(r.Context(), "export failed",
			"request_id", requestID(r.Context()),
			"stage", runErr.Stage,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "export failed, please try again later")
	default:
		// Request validation rejected the run before it started.
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// buildRequest translates an API body into an export request.
func buildRequest(ownerID string, body exportRequest, defaultTitle string) (export.Request, error) {
	format, err := export.ParseFormat(body.Format)
	if err != nil {
		return export.Request{}, err
	}

	kinds := make([]export.Kind, 0, len(body.Kinds))
	for _, k := range body.Kinds {
		kind, err := export.ParseKind(k)
		if err != nil {
			return export.Request{}, err
		}
		kinds = append(kinds, kind)
	}

	title := body.Title
	if title == "" {
		title = defaultTitle
	}

	req := export.Request{
		OwnerID:         ownerID,
		Format:          format,
		Kinds:           kinds,
		CreatedAfter:    body.CreatedAfter,
		IncludeArchived: body.IncludeArchived,
		Title:           title,
	}
	return req, req.Validate()
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeError writes a JSON error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Message: message}})
}
