package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"channel-catalog/config"
	"channel-catalog/internal/logging"
)

const archiveDirName = "logs"

// logSettings places the server log and bounds how many archives survive a restart.
type logSettings struct {
	Dir      string
	File     string
	Archives int
}

// logSettingsFor lets the -log-dir flag win over server.data_path.
func logSettingsFor(opts Options, server config.ServerConfig) logSettings {
	settings := logSettings{
		Dir:      server.DataPath,
		File:     opts.LogFile,
		Archives: server.LogArchives,
	}
	if strings.TrimSpace(opts.LogDir) != "" {
		settings.Dir = opts.LogDir
	}
	if settings.File == "" {
		settings.File = defaultLogFileName
	}
	return settings
}

func (s logSettings) path() string {
	return filepath.Join(s.Dir, s.File)
}

func (s logSettings) stem() string {
	return strings.TrimSuffix(s.File, filepath.Ext(s.File))
}

func configureLogging(settings logSettings) (*os.File, error) {
	started := time.Now().UTC()
	logPath := settings.path()
	if err := os.MkdirAll(settings.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if err := rotateExistingLog(logPath, started); err != nil {
		return nil, err
	}
	if err := pruneArchives(filepath.Join(settings.Dir, archiveDirName), settings.stem(), settings.Archives); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logging.SetDefaultWriter(io.MultiWriter(os.Stdout, file))
	return file, nil
}

func rotateExistingLog(logPath string, started time.Time) error {
	info, err := os.Stat(logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	archiveDir := filepath.Join(filepath.Dir(logPath), archiveDirName)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return fmt.Errorf("create log archive dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(logPath), filepath.Ext(logPath))
	baseTimestamp := started.Format("2006-01-02_15-04-05")
	destPath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s.log", stem, baseTimestamp))
	for i := 1; ; i++ {
		if _, err := os.Stat(destPath); errors.Is(err, os.ErrNotExist) {
			break
		}
		destPath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s-%d.log", stem, baseTimestamp, i))
	}
	if err := os.Rename(logPath, destPath); err != nil {
		return fmt.Errorf("archive log file: %w", err)
	}
	return nil
}

// pruneArchives removes the oldest archives of stem beyond keep. keep <= 0
// keeps everything.
func pruneArchives(archiveDir, stem string, keep int) error {
	if keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read log archive dir: %w", err)
	}

	type archive struct {
		name    string
		modTime time.Time
	}
	var archives []archive
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, stem+"-") || filepath.Ext(name) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		archives = append(archives, archive{name: name, modTime: info.ModTime()})
	}
	if len(archives) <= keep {
		return nil
	}

	// Newest first.
	slices.SortFunc(archives, func(a, b archive) int {
		if c := b.modTime.Compare(a.modTime); c != 0 {
			return c
		}
		return strings.Compare(b.name, a.name)
	})
	for _, old := range archives[keep:] {
		if err := os.Remove(filepath.Join(archiveDir, old.name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove old log archive: %w", err)
		}
	}
	return nil
}
