package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"complie-hq/tabula/pkg/cli"
	"complie-hq/tabula/pkg/export/store"
)

var seedFlags struct {
	user string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample data for a user",
	Long: `Insert a small set of sample projects, tasks, clients and notes
into the configured SQLite database so exports can be tried out without
an existing dataset.

Examples:
  complie seed --user usr_123
  complie export --user usr_123 --format pdf`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedFlags.user, "user", "u", "", "user to own the sample data (required)")
	_ = seedCmd.MarkFlagRequired("user")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}
	if cfg.Store.Backend != "sqlite" {
		return fmt.Errorf("seed requires the sqlite backend, configured backend is %q", cfg.Store.Backend)
	}

	st, err := store.NewSQLiteStore(&store.SQLiteConfig{
		Path:         cfg.Store.SQLite.Path,
		MaxOpenConns: cfg.Store.SQLite.MaxOpenConns,
		MaxIdleConns: cfg.Store.SQLite.MaxIdleConns,
		WALMode:      cfg.Store.SQLite.WALMode,
		BusyTimeout:  cfg.Store.SQLite.BusyTimeout,
	})
	if err != nil {
		return cli.NewCommandError("seed", err)
	}
	defer st.Close()

	ctx := context.Background()
	user := seedFlags.user
	now := time.Now().UTC()
	due := now.AddDate(0, 1, 0)

	projectID := uuid.NewString()
	if err := st.InsertProject(ctx, store.Project{
		ID:          projectID,
		UserID:      user,
		Name:        "Website Redesign",
		Description: "Marketing site refresh for Acme",
		Status:      "active",
		Budget:      12000,
		DueDate:     &due,
		CreatedAt:   now.AddDate(0, 0, -20),
	}); err != nil {
		return cli.NewCommandError("seed", err)
	}

	tasks := []store.Task{
		{
			ID:        uuid.NewString(),
			UserID:    user,
			ProjectID: projectID,
			Title:     "Wireframes",
			Status:    "done",
			Priority:  "high",
			CreatedAt: now.AddDate(0, 0, -18),
		},
		{
			ID:        uuid.NewString(),
			UserID:    user,
			ProjectID: projectID,
			Title:     "Homepage build",
			Status:    "in_progress",
			Priority:  "medium",
			DueDate:   &due,
			CreatedAt: now.AddDate(0, 0, -10),
		},
	}
	for _, task := range tasks {
		if err := st.InsertTask(ctx, task); err != nil {
			return cli.NewCommandError("seed", err)
		}
	}

	if err := st.InsertClient(ctx, store.Client{
		ID:        uuid.NewString(),
		UserID:    user,
		Name:      "Jo Doe",
		Email:     "jo@acme.example",
		Company:   "Acme, Inc.",
		Phone:     "+1 555 0100",
		CreatedAt: now.AddDate(0, 0, -30),
	}); err != nil {
		return cli.NewCommandError("seed", err)
	}

	if err := st.InsertNote(ctx, store.Note{
		ID:        uuid.NewString(),
		UserID:    user,
		Title:     "Kickoff summary",
		Content:   "Agreed on monthly check-ins and a March launch.",
		CreatedAt: now.AddDate(0, 0, -19),
	}); err != nil {
		return cli.NewCommandError("seed", err)
	}

	fmt.Printf("Seeded sample data for %s in %s\n", user, cfg.Store.SQLite.Path)
	return nil
}
