package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"complie-hq/tabula/pkg/export"
)

// MemoryStore implements Store with in-memory slices. It is intended for
// tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	projects []Project
	tasks    []Task
	clients  []Client
	notes    []Note
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AddProject adds a project row.
func (s *MemoryStore) AddProject(p Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, p)
}

// AddTask adds a task row.
func (s *MemoryStore) AddTask(t Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}

// AddClient adds a client row.
func (s *MemoryStore) AddClient(c Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, c)
}

// AddNote adds a note row.
func (s *MemoryStore) AddNote(n Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
}

// List returns the raw records of one kind matching the query. Records
// are returned in insertion order.
func (s *MemoryStore) List(ctx context.Context, kind export.Kind, q Query) ([]export.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []export.RawRecord
	switch kind {
	case export.KindProjects:
		for _, p := range s.projects {
			if matches(q, p.UserID, p.CreatedAt, p.Archived) {
				out = append(out, p.Record())
			}
		}
	case export.KindTasks:
		for _, t := range s.tasks {
			if matches(q, t.UserID, t.CreatedAt, t.Archived) {
				out = append(out, t.Record())
			}
		}
	case export.KindClients:
		for _, c := range s.clients {
			if matches(q, c.UserID, c.CreatedAt, c.Archived) {
				out = append(out, c.Record())
			}
		}
	case export.KindNotes:
		for _, n := range s.notes {
			if matches(q, n.UserID, n.CreatedAt, n.Archived) {
				out = append(out, n.Record())
			}
		}
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	return out, nil
}

// Close implements Store. It is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}

func matches(q Query, ownerID string, createdAt time.Time, archived bool) bool {
	if ownerID != q.OwnerID {
		return false
	}
	if archived && !q.IncludeArchived {
		return false
	}
	if q.CreatedAfter != nil && createdAt.Before(*q.CreatedAfter) {
		return false
	}
	return true
}
