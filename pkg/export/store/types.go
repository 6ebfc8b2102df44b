package store

import (
	"context"
	"time"

	"complie-hq/tabula/pkg/export"
)

// Query defines the filter applied to every per-kind List call.
type Query struct {
	// OwnerID scopes the query to one owner's records. Required.
	OwnerID string

	// CreatedAfter, if set, is an inclusive lower bound on the record
	// creation timestamp.
	CreatedAfter *time.Time

	// IncludeArchived includes records flagged as archived. When false,
	// archived records are filtered out.
	IncludeArchived bool
}

// Store is the backend behind the fetch stage.
type Store interface {
	// List returns the raw records of one entity kind matching the query.
	// Record field order is stable for a given kind.
	List(ctx context.Context, kind export.Kind, q Query) ([]export.RawRecord, error)

	// Close releases backend resources.
	Close() error
}

// Project is one project row.
type Project struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Status      string
	Budget      float64
	DueDate     *time.Time
	Archived    bool
	CreatedAt   time.Time
}

// Record lowers the project to its raw export form. Field order here is
// the column order the normalizer will see.
func (p Project) Record() export.RawRecord {
	var r export.RawRecord
	r.Set("id", p.ID)
	r.Set("user_id", p.UserID)
	r.Set("name", p.Name)
	r.Set("description", p.Description)
	r.Set("status", p.Status)
	r.Set("budget", p.Budget)
	r.Set("due_date", timeOrNil(p.DueDate))
	r.Set("created_at", p.CreatedAt)
	return r
}

// Task is one task row.
type Task struct {
	ID          string
	UserID      string
	ProjectID   string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	Archived    bool
	CreatedAt   time.Time
}

// Record lowers the task to its raw export form.
func (t Task) Record() export.RawRecord {
	var r export.RawRecord
	r.Set("id", t.ID)
	r.Set("user_id", t.UserID)
	r.Set("project_id", t.ProjectID)
	r.Set("title", t.Title)
	r.Set("description", t.Description)
	r.Set("status", t.Status)
	r.Set("priority", t.Priority)
	r.Set("due_date", timeOrNil(t.DueDate))
	r.Set("created_at", t.CreatedAt)
	return r
}

// Client is one client row.
type Client struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Company   string
	Phone     string
	Archived  bool
	CreatedAt time.Time
}

// Record lowers the client to its raw export form.
func (c Client) Record() export.RawRecord {
	var r export.RawRecord
	r.Set("id", c.ID)
	r.Set("user_id", c.UserID)
	r.Set("name", c.Name)
	r.Set("email", c.Email)
	r.Set("company", c.Company)
	r.Set("phone", c.Phone)
	r.Set("created_at", c.CreatedAt)
	return r
}

// Note is one note row. Private notes carry a flag the normalizer
// strips; the content itself is still exported.
type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Private   bool
	Archived  bool
	CreatedAt time.Time
}

// Record lowers the note to its raw export form.
func (n Note) Record() export.RawRecord {
	var r export.RawRecord
	r.Set("id", n.ID)
	r.Set("user_id", n.UserID)
	r.Set("title", n.Title)
	r.Set("content", n.Content)
	r.Set("private", n.Private)
	r.Set("created_at", n.CreatedAt)
	return r
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
