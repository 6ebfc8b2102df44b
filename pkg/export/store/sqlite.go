package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"complie-hq/tabula/pkg/export"
)

// SQLiteConfig contains configuration for the SQLite store backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/complie.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store backend. It initializes the
// database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "export.store.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", config.Path, err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("enable wal: %w", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("insert schema version: %w", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("get schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}
	return nil
}

// List returns the raw records of one kind matching the query.
func (s *SQLiteStore) List(ctx context.Context, kind export.Kind, q Query) ([]export.RawRecord, error) {
	var columns string
	switch kind {
	case export.KindProjects:
		columns = "id, user_id, name, description, status, budget, due_date, archived, created_at"
	case export.KindTasks:
		columns = "id, user_id, project_id, title, description, status, priority, due_date, archived, created_at"
	case export.KindClients:
		columns = "id, user_id, name, email, company, phone, archived, created_at"
	case export.KindNotes:
		columns = "id, user_id, title, content, private, archived, created_at"
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	var sb strings.Builder
	args := []any{q.OwnerID}
	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE user_id = ?", columns, kind)
	if q.CreatedAfter != nil {
		sb.WriteString(" AND created_at >= ?")
		args = append(args, q.CreatedAfter.UTC())
	}
	if !q.IncludeArchived {
		sb.WriteString(" AND archived = 0")
	}
	sb.WriteString(" ORDER BY created_at ASC")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	var out []export.RawRecord
	for rows.Next() {
		record, err := scanRecord(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", kind, err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", kind, err)
	}
	return out, nil
}

func scanRecord(kind export.Kind, rows *sql.Rows) (export.RawRecord, error) {
	switch kind {
	case export.KindProjects:
		var p Project
		var desc, status sql.NullString
		var budget sql.NullFloat64
		var due sql.NullTime
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &desc, &status, &budget, &due, &p.Archived, &p.CreatedAt); err != nil {
			return export.RawRecord{}, err
		}
		p.Description = desc.String
		p.Status = status.String
		p.Budget = budget.Float64
		if due.Valid {
			p.DueDate = &due.Time
		}
		return p.Record(), nil

	case export.KindTasks:
		var t Task
		var projectID, desc, status, priority sql.NullString
		var due sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &projectID, &t.Title, &desc, &status, &priority, &due, &t.Archived, &t.CreatedAt); err != nil {
			return export.RawRecord{}, err
		}
		t.ProjectID = projectID.String
		t.Description = desc.String
		t.Status = status.String
		t.Priority = priority.String
		if due.Valid {
			t.DueDate = &due.Time
		}
		return t.Record(), nil

	case export.KindClients:
		var c Client
		var email, company, phone sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &email, &company, &phone, &c.Archived, &c.CreatedAt); err != nil {
			return export.RawRecord{}, err
		}
		c.Email = email.String
		c.Company = company.String
		c.Phone = phone.String
		return c.Record(), nil

	case export.KindNotes:
		var n Note
		var content sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &content, &n.Private, &n.Archived, &n.CreatedAt); err != nil {
			return export.RawRecord{}, err
		}
		n.Content = content.String
		return n.Record(), nil
	}
	return export.RawRecord{}, fmt.Errorf("unknown entity kind %q", kind)
}

// InsertProject inserts a project row.
func (s *SQLiteStore) InsertProject(ctx context.Context, p Project) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, description, status, budget, due_date, archived, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.Description, p.Status, p.Budget, nullTime(p.DueDate), p.Archived, p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// InsertTask inserts a task row.
func (s *SQLiteStore) InsertTask(ctx context.Context, t Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, project_id, title, description, status, priority, due_date, archived, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.ProjectID, t.Title, t.Description, t.Status, t.Priority, nullTime(t.DueDate), t.Archived, t.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// InsertClient inserts a client row.
func (s *SQLiteStore) InsertClient(ctx context.Context, c Client) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (id, user_id, name, email, company, phone, archived, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Email, c.Company, c.Phone, c.Archived, c.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// InsertNote inserts a note row.
func (s *SQLiteStore) InsertNote(ctx context.Context, n Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, private, archived, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Content, n.Private, n.Archived, n.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
