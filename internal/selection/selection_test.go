package selection

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"romsel/internal/logging"
	"romsel/internal/records"
)

const (
	listPath  = "/lists/picks.csv"
	romsetDir = "/roms/full"
	selectDir = "/roms/selection"
)

func writeFile(t *testing.T, fs afero.Fs, path, body string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeList(t *testing.T, fs afero.Fs, names ...string) {
	t.Helper()
	writeFile(t, fs, listPath, "name;description\n"+strings.Join(withDescriptions(names), "\n")+"\n")
}

func withDescriptions(names []string) []string {
	rows := make([]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, name+";"+strings.ToUpper(name))
	}
	return rows
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func listDir(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func assertEntries(t *testing.T, fs afero.Fs, dir string, want ...string) {
	t.Helper()
	sort.Strings(want)
	got := listDir(t, fs, dir)
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("%s entries = %v, want %v", dir, got, want)
	}
}

// newRomset builds the standard fixture: sf2 with a CHD directory, pacman
// without one, and an empty selection.
func newRomset(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, filepath.Join(romsetDir, "sf2.zip"), "sf2 rom")
	writeFile(t, fs, filepath.Join(romsetDir, "sf2", "sf2.chd"), "sf2 chd")
	writeFile(t, fs, filepath.Join(romsetDir, "pacman.zip"), "pacman rom")
	writeFile(t, fs, filepath.Join(romsetDir, "dkong.zip"), "dkong rom")
	if err := fs.MkdirAll(selectDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return fs
}

type progressRecorder struct {
	events []Progress
}

func (r *progressRecorder) record(p Progress) {
	r.events = append(r.events, p)
}

func TestAddCopiesRomsAndCompanions(t *testing.T) {
	fs := newRomset(t)
	writeList(t, fs, "sf2", "pacman")

	sync := New(fs, logging.NewNop())
	if err := sync.Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	assertEntries(t, fs, selectDir, "sf2.zip", "pacman.zip", "sf2")
	if got := readFile(t, fs, filepath.Join(selectDir, "sf2.zip")); got != "sf2 rom" {
		t.Fatalf("sf2.zip = %q", got)
	}
	if got := readFile(t, fs, filepath.Join(selectDir, "sf2", "sf2.chd")); got != "sf2 chd" {
		t.Fatalf("sf2 chd = %q", got)
	}
}

func TestAddCopiesCompanionFile(t *testing.T) {
	fs := newRomset(t)
	writeFile(t, fs, filepath.Join(romsetDir, "pacman"), "pacman chd file")
	writeList(t, fs, "pacman")

	if err := New(fs, nil).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if got := readFile(t, fs, filepath.Join(selectDir, "pacman")); got != "pacman chd file" {
		t.Fatalf("companion = %q", got)
	}
}

func TestAddNeverOverwritesExisting(t *testing.T) {
	fs := newRomset(t)
	writeFile(t, fs, filepath.Join(selectDir, "pacman.zip"), "original bytes")
	writeList(t, fs, "pacman")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	if err := New(fs, logger).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if got := readFile(t, fs, filepath.Join(selectDir, "pacman.zip")); got != "original bytes" {
		t.Fatalf("existing rom was modified: %q", got)
	}
	if !strings.Contains(buf.String(), "rom already exists") {
		t.Fatalf("expected already-exists log line, got %s", buf.String())
	}
	if strings.Contains(buf.String(), "rom copied") {
		t.Fatalf("no copy should be reported, got %s", buf.String())
	}
}

func TestAddExistingRomSkipsCompanion(t *testing.T) {
	fs := newRomset(t)
	writeFile(t, fs, filepath.Join(selectDir, "sf2.zip"), "already here")
	writeList(t, fs, "sf2")

	if err := New(fs, nil).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	assertEntries(t, fs, selectDir, "sf2.zip")
}

func TestAddIsIdempotent(t *testing.T) {
	fs := newRomset(t)
	writeList(t, fs, "sf2", "pacman", "dkong")
	sync := New(fs, nil)

	if err := sync.Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("first Add returned error: %v", err)
	}
	first := listDir(t, fs, selectDir)
	if err := sync.Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("second Add returned error: %v", err)
	}
	second := listDir(t, fs, selectDir)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second Add changed selection: %v -> %v", first, second)
	}
}

func TestAddMissingSourceContinuesBatch(t *testing.T) {
	fs := newRomset(t)
	writeList(t, fs, "galaga", "pacman")

	rec := &progressRecorder{}
	if err := New(fs, nil, WithProgress(rec.record)).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	assertEntries(t, fs, selectDir, "pacman.zip")
	if len(rec.events) != 2 {
		t.Fatalf("expected progress for both items, got %d", len(rec.events))
	}
}

func TestAddEmitsProgressInFileOrder(t *testing.T) {
	fs := newRomset(t)
	writeList(t, fs, "pacman", "sf2", "pacman")

	rec := &progressRecorder{}
	if err := New(fs, nil, WithProgress(rec.record)).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	want := []Progress{
		{Operation: OpAdd, Total: 3, Index: 1, Name: "pacman.zip"},
		{Operation: OpAdd, Total: 3, Index: 2, Name: "sf2.zip"},
		{Operation: OpAdd, Total: 3, Index: 3, Name: "pacman.zip"},
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("progress = %+v, want %+v", rec.events, want)
	}
}

func TestAddProgressPrecedesAction(t *testing.T) {
	fs := newRomset(t)
	writeList(t, fs, "sf2")

	var existedAtEmit bool
	cb := func(p Progress) {
		_, err := fs.Stat(filepath.Join(selectDir, p.Name))
		existedAtEmit = err == nil
	}
	if err := New(fs, nil, WithProgress(cb)).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if existedAtEmit {
		t.Fatal("progress must be emitted before the copy")
	}
}

func TestAddFailedCopyDoesNotAbort(t *testing.T) {
	base := newRomset(t)
	writeList(t, base, "sf2", "pacman")
	ro := afero.NewReadOnlyFs(base)

	rec := &progressRecorder{}
	if err := New(ro, nil, WithProgress(rec.record)).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if len(rec.events) != 2 {
		t.Fatalf("expected both items processed, got %d", len(rec.events))
	}
	assertEntries(t, base, selectDir)
}

// failingReadFs serves the file at path with a reader that errors after limit bytes.
type failingReadFs struct {
	afero.Fs
	path  string
	limit int
}

func (f failingReadFs) Open(name string) (afero.File, error) {
	file, err := f.Fs.Open(name)
	if err != nil || filepath.Clean(name) != filepath.Clean(f.path) {
		return file, err
	}
	return &failingReadFile{File: file, remaining: f.limit}, nil
}

type failingReadFile struct {
	afero.File
	remaining int
}

func (f *failingReadFile) Read(p []byte) (int, error) {
	if f.remaining <= 0 {
		return 0, errors.New("input/output error")
	}
	if len(p) > f.remaining {
		p = p[:f.remaining]
	}
	n, err := f.File.Read(p)
	f.remaining -= n
	return n, err
}

func TestAddInterruptedCopyLeavesNoPartialRom(t *testing.T) {
	base := newRomset(t)
	writeList(t, base, "sf2", "pacman")
	flaky := failingReadFs{Fs: base, path: filepath.Join(romsetDir, "sf2.zip"), limit: 3}

	if err := New(flaky, nil).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	assertEntries(t, base, selectDir, "pacman.zip")

	if err := New(base, nil).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("retry Add returned error: %v", err)
	}
	if got := readFile(t, base, filepath.Join(selectDir, "sf2.zip")); got != "sf2 rom" {
		t.Fatalf("retry should copy the full rom, got %q", got)
	}
	assertEntries(t, base, selectDir, "pacman.zip", "sf2", "sf2.zip")
}

func TestAddUnreadableSourceOnOSFilesystem(t *testing.T) {
	base := t.TempDir()
	romset := filepath.Join(base, "romset")
	selection := filepath.Join(base, "selection")
	list := filepath.Join(base, "list.csv")
	for _, dir := range []string{filepath.Join(romset, "odd.zip"), selection} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(list, []byte("name\nodd\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := New(nil, nil).Add(list, romset, selection); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	entries, err := os.ReadDir(selection)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed copy must leave selection empty, got %d entries (first %q)", len(entries), entries[0].Name())
	}
}

func TestAddKeepsSourcePermissions(t *testing.T) {
	fs := newRomset(t)
	if err := fs.Chmod(filepath.Join(romsetDir, "pacman.zip"), 0o600); err != nil {
		t.Fatal(err)
	}
	writeList(t, fs, "pacman")

	if err := New(fs, nil).Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	info, err := fs.Stat(filepath.Join(selectDir, "pacman.zip"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("copied rom mode = %o, want 600", perm)
	}
}

func TestOperationsFailOnBadRecordsFile(t *testing.T) {
	fs := newRomset(t)
	writeFile(t, fs, listPath, "name;year\n\"sf2;1991\n")
	rec := &progressRecorder{}
	sync := New(fs, nil, WithProgress(rec.record))

	ops := map[string]func() error{
		OpAdd:    func() error { return sync.Add(listPath, romsetDir, selectDir) },
		OpRemove: func() error { return sync.Remove(listPath, selectDir) },
		OpKeep:   func() error { return sync.Keep(listPath, selectDir) },
		"status": func() error {
			_, err := sync.Status(listPath, romsetDir, selectDir)
			return err
		},
		"missing file": func() error { return sync.Add("/lists/none.csv", romsetDir, selectDir) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			var perr *records.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *records.ParseError, got %v", err)
			}
		})
	}
	if len(rec.events) != 0 {
		t.Fatalf("no progress expected when parsing fails, got %d", len(rec.events))
	}
}

func TestRemoveDeletesOnlyListedRoms(t *testing.T) {
	fs := newRomset(t)
	for _, name := range []string{"sf2.zip", "pacman.zip", "dkong.zip", "notes.txt"} {
		writeFile(t, fs, filepath.Join(selectDir, name), name)
	}
	writeFile(t, fs, filepath.Join(selectDir, "sf2", "sf2.chd"), "chd")
	writeList(t, fs, "sf2", "pacman", "galaga")

	rec := &progressRecorder{}
	if err := New(fs, nil, WithProgress(rec.record)).Remove(listPath, selectDir); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	assertEntries(t, fs, selectDir, "dkong.zip", "notes.txt", "sf2")
	if len(rec.events) != 3 {
		t.Fatalf("expected 3 progress events, got %d", len(rec.events))
	}
	if rec.events[2] != (Progress{Operation: OpRemove, Total: 3, Index: 3, Name: "galaga.zip"}) {
		t.Fatalf("unexpected last event %+v", rec.events[2])
	}
}

func TestRemoveFailureIsRecovered(t *testing.T) {
	base := newRomset(t)
	writeFile(t, base, filepath.Join(selectDir, "sf2.zip"), "rom")
	writeList(t, base, "sf2")

	if err := New(afero.NewReadOnlyFs(base), nil).Remove(listPath, selectDir); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	assertEntries(t, base, selectDir, "sf2.zip")
}

func TestKeepPrunesUnlistedZips(t *testing.T) {
	fs := newRomset(t)
	for _, name := range []string{"sf2.zip", "pacman.zip", "extra.zip", "readme.txt"} {
		writeFile(t, fs, filepath.Join(selectDir, name), name)
	}
	writeFile(t, fs, filepath.Join(selectDir, "extra", "extra.chd"), "orphan chd")
	writeList(t, fs, "sf2", "pacman")

	rec := &progressRecorder{}
	if err := New(fs, nil, WithProgress(rec.record)).Keep(listPath, selectDir); err != nil {
		t.Fatalf("Keep returned error: %v", err)
	}
	assertEntries(t, fs, selectDir, "sf2.zip", "pacman.zip", "readme.txt", "extra")

	// Progress covers every listed entry, including the ones that are skipped.
	if len(rec.events) != 5 {
		t.Fatalf("expected 5 progress events, got %d", len(rec.events))
	}
	for i, ev := range rec.events {
		if ev.Total != 5 || ev.Index != i+1 || ev.Operation != OpKeep {
			t.Fatalf("unexpected event %d: %+v", i, ev)
		}
	}
}

func TestKeepOnlyStripsTrailingExtension(t *testing.T) {
	fs := newRomset(t)
	writeFile(t, fs, filepath.Join(selectDir, "a.zip.zip"), "double")
	writeFile(t, fs, filepath.Join(selectDir, "a.zip"), "single")
	writeList(t, fs, "a.zip")

	if err := New(fs, nil).Keep(listPath, selectDir); err != nil {
		t.Fatalf("Keep returned error: %v", err)
	}
	assertEntries(t, fs, selectDir, "a.zip.zip")
}

func TestKeepMissingSelectionIsRecovered(t *testing.T) {
	fs := newRomset(t)
	writeList(t, fs, "sf2")
	if err := New(fs, nil).Keep(listPath, "/roms/absent"); err != nil {
		t.Fatalf("Keep returned error: %v", err)
	}
}

func TestAddThenKeepIsStable(t *testing.T) {
	fs := newRomset(t)
	writeList(t, fs, "sf2", "pacman", "dkong")
	sync := New(fs, nil)

	if err := sync.Add(listPath, romsetDir, selectDir); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	before := listDir(t, fs, selectDir)
	if err := sync.Keep(listPath, selectDir); err != nil {
		t.Fatalf("Keep returned error: %v", err)
	}
	after := listDir(t, fs, selectDir)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("Keep after Add changed selection: %v -> %v", before, after)
	}
}

func TestStatusReportsPresence(t *testing.T) {
	fs := newRomset(t)
	writeFile(t, fs, filepath.Join(selectDir, "pacman.zip"), "rom")
	writeList(t, fs, "sf2", "pacman", "galaga")

	got, err := New(fs, nil).Status(listPath, romsetDir, selectDir)
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	want := []ItemStatus{
		{Name: "sf2", Zip: "sf2.zip", InRomset: true, HasCompanion: true},
		{Name: "pacman", Zip: "pacman.zip", InRomset: true, InSelection: true},
		{Name: "galaga", Zip: "galaga.zip"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("status = %+v, want %+v", got, want)
	}
	if !got[0].Pending() || got[1].Pending() || got[2].Pending() {
		t.Fatalf("unexpected pending flags: %+v", got)
	}
	assertEntries(t, fs, selectDir, "pacman.zip")
}

func TestAddOnOSFilesystem(t *testing.T) {
	base := t.TempDir()
	romset := filepath.Join(base, "romset")
	selection := filepath.Join(base, "selection")
	list := filepath.Join(base, "list.csv")
	for path, body := range map[string]string{
		filepath.Join(romset, "sf2.zip"):         "sf2",
		filepath.Join(romset, "sf2", "disc.chd"): "chd",
		filepath.Join(romset, "pacman.zip"):      "pacman",
		list:                                     "name\nsf2\npacman\n",
	} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(selection, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := New(nil, nil).Add(list, romset, selection); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if data, err := os.ReadFile(filepath.Join(selection, "sf2", "disc.chd")); err != nil || string(data) != "chd" {
		t.Fatalf("expected chd copied, got %q (%v)", data, err)
	}
	if err := New(nil, nil).Keep(list, selection); err != nil {
		t.Fatalf("Keep returned error: %v", err)
	}
	entries, err := os.ReadDir(selection)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries after Keep, got %d", len(entries))
	}
}
