package logfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"templog/internal/domain/record"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data.txt"), 1)
}

func TestEnsureInitializedWritesHeaderOnce(t *testing.T) {
	s := newTestStore(t)

	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized failed: %v", err)
	}
	b, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if string(b) != record.Header {
		t.Fatalf("file content = %q, want header %q", b, record.Header)
	}
}

func TestEnsureInitializedIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("first EnsureInitialized failed: %v", err)
	}
	if err := s.Append("1,2024-05-06,14:22:01,21.5\r\n"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	before, _ := os.ReadFile(s.Path())

	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("second EnsureInitialized failed: %v", err)
	}
	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Errorf("file changed by second EnsureInitialized:\nbefore %q\nafter  %q", before, after)
	}
}

func TestAppendOnly(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized failed: %v", err)
	}

	l1 := "1,2024-05-06,14:22:01,21.5\r\n"
	l2 := "2,2024-05-06,14:22:11,21.6\r\n"
	if err := s.Append(l1); err != nil {
		t.Fatalf("append l1: %v", err)
	}
	mid, _ := os.ReadFile(s.Path())
	if err := s.Append(l2); err != nil {
		t.Fatalf("append l2: %v", err)
	}
	final, _ := os.ReadFile(s.Path())

	if !strings.HasPrefix(string(final), string(mid)) {
		t.Errorf("prior bytes rewritten:\nmid   %q\nfinal %q", mid, final)
	}
	want := record.Header + l1 + l2
	if string(final) != want {
		t.Errorf("file = %q, want %q", final, want)
	}
}

func TestHeaderOnceAfterManyCycles(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		seq := s.NextSequence()
		r := record.Record{Sequence: seq, Date: "2024-05-06", Hour: "14:22:01", TempC: 20.0}
		if err := s.Append(r.Line()); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	b, _ := os.ReadFile(s.Path())
	if n := strings.Count(string(b), "Reading ID"); n != 1 {
		t.Errorf("header appears %d times, want 1", n)
	}
	if !strings.HasPrefix(string(b), record.Header) {
		t.Errorf("header not at position 0: %q", b)
	}
}

func TestSequenceMonotonic(t *testing.T) {
	s := newTestStore(t)
	for want := int64(1); want <= 5; want++ {
		if got := s.NextSequence(); got != want {
			t.Fatalf("NextSequence = %d, want %d", got, want)
		}
	}
}

func TestSequenceAdvancesWhenAppendFails(t *testing.T) {
	// point the store at a directory so Append fails
	dir := t.TempDir()
	s := New(dir, 1)

	first := s.NextSequence()
	if err := s.Append("1,2024-05-06,14:22:01,21.5\r\n"); err == nil {
		t.Fatal("expected append to a directory to fail")
	}
	second := s.NextSequence()
	if second != first+1 {
		t.Errorf("sequence after failed append = %d, want %d", second, first+1)
	}
}

func TestRecoverCountsRecords(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		r := record.Record{Sequence: s.NextSequence(), Date: "2024-05-06", Hour: "14:22:01", TempC: 20.5}
		if err := s.Append(r.Line()); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	// fresh store over the same file, as after a restart
	restarted := New(s.Path(), 1)
	if err := restarted.Recover(1); err != nil {
		t.Fatalf("Recover failed: %v", err)
	}
	if got := restarted.Sequence(); got != 4 {
		t.Errorf("recovered sequence = %d, want 4", got)
	}
}

func TestRecoverMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.txt"), 1)
	if err := s.Recover(1); err != nil {
		t.Fatalf("Recover on missing file: %v", err)
	}
	if got := s.Sequence(); got != 1 {
		t.Errorf("sequence = %d, want 1", got)
	}
}
