package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"channel-catalog/config"
	"channel-catalog/internal/logging"
)

func TestConfigureLoggingCreatesFile(t *testing.T) {
	t.Cleanup(func() { logging.SetDefaultWriter(os.Stdout) })

	dir := filepath.Join(t.TempDir(), "data")
	path := filepath.Join(dir, "catalog.log")

	file, err := configureLogging(logSettings{Dir: dir, File: "catalog.log", Archives: 2})
	if err != nil {
		t.Fatalf("configure logging: %v", err)
	}
	file.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log file: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected new log file to be empty, got %d", info.Size())
	}
}

func TestRotateExistingLogArchivesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogserver.log")
	if err := os.WriteFile(path, []byte("existing log"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	started := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	if err := rotateExistingLog(path, started); err != nil {
		t.Fatalf("rotate existing log: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected original log to be moved, stat err=%v", err)
	}

	archiveDir := filepath.Join(dir, "logs")
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		t.Fatalf("read archive dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one rotated log file, found %d", len(entries))
	}
	expectedPrefix := "catalogserver-" + started.Format("2006-01-02_15-04-05")
	if !strings.HasPrefix(entries[0].Name(), expectedPrefix) {
		t.Fatalf("expected archived log to start with %s, got %s", expectedPrefix, entries[0].Name())
	}
}

func TestRotateExistingLogSkipsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogserver.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := rotateExistingLog(path, time.Now()); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Fatalf("expected no archive directory for an empty log, stat err=%v", err)
	}
}

func TestLogSettingsFor(t *testing.T) {
	server := config.ServerConfig{DataPath: "/srv/catalog", LogArchives: 4}

	got := logSettingsFor(Options{LogFile: "catalogserver.log"}, server)
	if got.Dir != "/srv/catalog" || got.Archives != 4 || got.File != "catalogserver.log" {
		t.Fatalf("expected server.data_path to place the log, got %+v", got)
	}

	got = logSettingsFor(Options{LogDir: "/tmp/override"}, server)
	if got.Dir != "/tmp/override" || got.File != defaultLogFileName {
		t.Fatalf("expected -log-dir to win, got %+v", got)
	}
}

func TestConfigureLoggingPrunesArchives(t *testing.T) {
	t.Cleanup(func() { logging.SetDefaultWriter(os.Stdout) })

	dir := t.TempDir()
	archiveDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		name := filepath.Join(archiveDir, fmt.Sprintf("catalogserver-2024-01-0%d_00-00-00.log", i+1))
		if err := os.WriteFile(name, []byte("old"), 0o644); err != nil {
			t.Fatalf("write archive: %v", err)
		}
		stamp := base.Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(name, stamp, stamp); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	unrelated := filepath.Join(archiveDir, "other-2024-01-01_00-00-00.log")
	if err := os.WriteFile(unrelated, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write unrelated: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "catalogserver.log"), []byte("previous run"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	file, err := configureLogging(logSettings{Dir: dir, File: "catalogserver.log", Archives: 2})
	if err != nil {
		t.Fatalf("configure logging: %v", err)
	}
	file.Close()

	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		t.Fatalf("read archive dir: %v", err)
	}
	var kept []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "catalogserver-") {
			kept = append(kept, entry.Name())
		}
	}
	if len(kept) != 2 {
		t.Fatalf("expected 2 archives to remain, got %v", kept)
	}
	for _, name := range kept {
		if name == "catalogserver-2024-01-01_00-00-00.log" || name == "catalogserver-2024-01-02_00-00-00.log" {
			t.Fatalf("expected oldest archives to be pruned, kept %v", kept)
		}
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("expected unrelated archive to survive: %v", err)
	}
}

func TestPruneArchivesKeepsAllWhenUnbounded(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		name := filepath.Join(dir, fmt.Sprintf("catalogserver-%d.log", i))
		if err := os.WriteFile(name, nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := pruneArchives(dir, "catalogserver", 0); err != nil {
		t.Fatalf("prune: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 3 {
		t.Fatalf("expected all archives kept, got %d", len(entries))
	}
}
