package logfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"templog/internal/domain/record"
)

// Store owns the append-only reading log at a fixed path, plus the
// in-memory sequence counter. All mutation of the file is append; the
// file is never truncated, rewritten or deleted here.
//
// Single-writer: only the reading cycle calls Append.
type Store struct {
	path string
	next int64
}

// New creates a store for the given path. The sequence counter starts
// at startSeq; call Recover after EnsureInitialized to rebuild it from
// the file instead.
func New(path string, startSeq int64) *Store {
	return &Store{path: path, next: startSeq}
}

func (s *Store) Path() string { return s.path }

// EnsureInitialized creates the log file with its header line if no file
// exists at the path. An already-present file is left untouched, whatever
// its content. Safe to call more than once.
func (s *Store) EnsureInitialized() error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}

	// O_EXCL keeps an existing file byte-identical even when two
	// initializations race.
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			log.Info().Str("path", s.path).Msg("log file already exists")
			return nil
		}
		return fmt.Errorf("create log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(record.Header); err != nil {
		return fmt.Errorf("write log header: %w", err)
	}
	log.Info().Str("path", s.path).Msg("log file created")
	return nil
}

// Append opens the file in append mode, writes the exact bytes of line
// and closes it again. The handle is held only for the duration of the
// write. On failure the record is discarded; there is no retry or
// buffering.
func (s *Store) Append(line string) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open log for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append to log: %w", err)
	}
	return nil
}

// NextSequence returns the sequence for the current cycle and advances
// the counter. The caller invokes it once per cycle before appending, so
// the counter moves on whether or not the append succeeds.
func (s *Store) NextSequence() int64 {
	n := s.next
	s.next++
	return n
}

// Sequence returns the value the next call to NextSequence will yield.
func (s *Store) Sequence() int64 { return s.next }

// Recover rebuilds the sequence counter by counting record lines already
// in the file. The file is authoritative over any in-memory start value:
// after N persisted records the next sequence is startSeq+N. A missing
// file leaves the counter untouched.
func (s *Store) Recover(startSeq int64) error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.next = startSeq
			return nil
		}
		return fmt.Errorf("open log for recovery: %w", err)
	}
	defer f.Close()

	var lines int64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan log for recovery: %w", err)
	}

	records := lines - 1 // minus header
	if records < 0 {
		records = 0
	}
	s.next = startSeq + records
	log.Info().Int64("records", records).Int64("next_sequence", s.next).Msg("sequence recovered from log file")
	return nil
}
