package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const logFileName = "siteshell.log"

// FileSink is a size-bounded log file. When a write would exceed maxSize the
// current file is renamed with a timestamp suffix and a new one is opened.
// Only the newest maxBackups rotated files are kept.
type FileSink struct {
	mu         sync.Mutex
	dir        string
	maxSize    int64
	maxBackups int
	file       *os.File
	size       int64
}

// OpenFileSink opens (or creates) the log file in dir.
func OpenFileSink(dir string, maxSizeMB, maxBackups int) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	s := &FileSink{
		dir:        dir,
		maxSize:    int64(maxSizeMB) * 1024 * 1024,
		maxBackups: maxBackups,
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the active log file path.
func (s *FileSink) Path() string {
	return filepath.Join(s.dir, logFileName)
}

func (s *FileSink) open() error {
	if info, err := os.Stat(s.Path()); err == nil {
		s.size = info.Size()
	} else {
		s.size = 0
	}

	file, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	s.file = file
	return nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}

	if s.maxSize > 0 && s.size > 0 && s.size+int64(len(p)) > s.maxSize {
		if err := s.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := s.file.Write(p)
	s.size += int64(n)
	return n, err
}

func (s *FileSink) rotate() error {
	if err := s.file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
	}
	s.file = nil

	backup := fmt.Sprintf("%s.%s", s.Path(), time.Now().Format("2006-01-02-15-04-05.000"))
	if err := os.Rename(s.Path(), backup); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	s.prune()
	return s.open()
}

func (s *FileSink) prune() {
	if s.maxBackups <= 0 {
		return
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}

	var backups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), logFileName+".") {
			backups = append(backups, e.Name())
		}
	}
	if len(backups) <= s.maxBackups {
		return
	}

	// timestamp suffix sorts chronologically
	sort.Strings(backups)
	for _, name := range backups[:len(backups)-s.maxBackups] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove old log file: %v\n", err)
		}
	}
}

// Close closes the active file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
