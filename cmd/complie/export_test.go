package main

import (
	"strings"
	"testing"
	"time"

	"complie-hq/tabula/pkg/export"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"days window", "7d", now.AddDate(0, 0, -7), false},
		{"thirty days", "30d", now.AddDate(0, 0, -30), false},
		{"hours window", "12h", now.Add(-12 * time.Hour), false},
		{"plain date", "2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", "2025-01-01T08:30:00Z", time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC), false},
		{"garbage", "last tuesday", time.Time{}, true},
		{"negative days", "-3d", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSince(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSince(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseSince(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildExportRequest(t *testing.T) {
	exportFlags.user = "usr_1"
	exportFlags.format = "xlsx"
	exportFlags.kinds = []string{"projects", " tasks"}
	exportFlags.since = "7d"
	exportFlags.includeArchived = true
	exportFlags.title = ""

	req, err := buildExportRequest("Fallback Title")
	if err != nil {
		t.Fatalf("buildExportRequest failed: %v", err)
	}

	if req.OwnerID != "usr_1" {
		t.Errorf("unexpected owner %q", req.OwnerID)
	}
	if req.Format != export.FormatXLSX {
		t.Errorf("unexpected format %q", req.Format)
	}
	if len(req.Kinds) != 2 || req.Kinds[0] != export.KindProjects || req.Kinds[1] != export.KindTasks {
		t.Errorf("unexpected kinds %v", req.Kinds)
	}
	if req.CreatedAfter == nil {
		t.Error("expected a created-after bound from --since")
	}
	if !req.IncludeArchived {
		t.Error("expected include-archived to carry through")
	}
	if req.Title != "Fallback Title" {
		t.Errorf("expected config title fallback, got %q", req.Title)
	}
}

func TestBuildExportRequest_Invalid(t *testing.T) {
	exportFlags.user = "usr_1"
	exportFlags.format = "docx"
	exportFlags.kinds = []string{"all"}
	exportFlags.since = ""
	exportFlags.title = ""

	_, err := buildExportRequest("")
	if err == nil || !strings.Contains(err.Error(), "unknown export format") {
		t.Errorf("expected unknown format error, got %v", err)
	}

	exportFlags.format = "csv"
	exportFlags.kinds = []string{"invoices"}
	_, err = buildExportRequest("")
	if err == nil || !strings.Contains(err.Error(), "unknown entity kind") {
		t.Errorf("expected unknown kind error, got %v", err)
	}
}
