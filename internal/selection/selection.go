package selection

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"romsel/internal/fileutil"
	"romsel/internal/logging"
	"romsel/internal/records"
)

// ZipExt is the archive extension for rom files.
const ZipExt = ".zip"

// Operation names reported in Progress and log lines.
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpKeep   = "keep"
)

// Progress describes the item an operation is about to act on.
type Progress struct {
	Operation string
	Total     int
	Index     int // 1-based
	Name      string
}

// ProgressFunc receives one Progress per processed item.
type ProgressFunc func(Progress)

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Synchronizer) {
		s.progress = fn
	}
}

// Synchronizer applies records files to a selection directory.
type Synchronizer struct {
	fs       afero.Fs
	logger   *slog.Logger
	progress ProgressFunc
}

// New constructs a Synchronizer over fs. A nil fs uses the OS filesystem.
func New(fs afero.Fs, logger *slog.Logger, opts ...Option) *Synchronizer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	s := &Synchronizer{
		fs:     fs,
		logger: logging.NewComponentLogger(logger, "selection"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add copies every listed archive missing from selection out of romset,
// together with its companion resource when one exists.
func (s *Synchronizer) Add(file, romset, selection string) error {
	recs, err := records.Parse(s.fs, file)
	if err != nil {
		return err
	}
	logger := s.runLogger(OpAdd, file, len(recs))

	for i, rec := range recs {
		name := rec.Name()
		zip := name + ZipExt
		src := filepath.Join(romset, zip)
		dst := filepath.Join(selection, zip)
		s.emit(OpAdd, len(recs), i+1, zip)
		itemLogger := logger.With(logging.Int(logging.FieldIndex, i+1), logging.String(logging.FieldZip, zip))

		if fileutil.Exists(s.fs, dst) {
			itemLogger.Info("rom already exists", logging.String(logging.FieldPath, dst))
			continue
		}
		info, err := s.fs.Stat(src)
		if err != nil {
			logging.WarnWithContext(itemLogger, "rom not found in romset", "source_missing",
				logging.String(logging.FieldPath, src),
				logging.String(logging.FieldErrorHint, "check the records file name against the romset"),
			)
			continue
		}
		if err := fileutil.CopyFileNoClobber(s.fs, src, dst, info.Mode().Perm()); err != nil {
			if errors.Is(err, os.ErrExist) {
				itemLogger.Info("rom already exists", logging.String(logging.FieldPath, dst))
				continue
			}
			logging.WarnWithContext(itemLogger, "rom copy failed", "copy_failed",
				logging.String(logging.FieldPath, src),
				logging.Error(err),
			)
			continue
		}

		companionSrc := filepath.Join(romset, name)
		if name != "" && fileutil.Exists(s.fs, companionSrc) {
			companionDst := filepath.Join(selection, name)
			if err := fileutil.CopyTree(s.fs, companionSrc, companionDst); err != nil {
				logging.WarnWithContext(itemLogger, "chd copy failed", "companion_copy_failed",
					logging.String(logging.FieldPath, companionSrc),
					logging.Error(err),
					logging.String(logging.FieldImpact, "rom copied without its chd"),
				)
			}
		}
		itemLogger.Info("rom copied", logging.String(logging.FieldPath, src))
	}
	return nil
}

// Remove deletes every listed archive from selection. Companion resources are
// left in place.
func (s *Synchronizer) Remove(file, selection string) error {
	recs, err := records.Parse(s.fs, file)
	if err != nil {
		return err
	}
	logger := s.runLogger(OpRemove, file, len(recs))

	for i, rec := range recs {
		zip := rec.Name() + ZipExt
		target := filepath.Join(selection, zip)
		s.emit(OpRemove, len(recs), i+1, zip)
		itemLogger := logger.With(logging.Int(logging.FieldIndex, i+1), logging.String(logging.FieldZip, zip))

		if !fileutil.Exists(s.fs, target) {
			itemLogger.Info("rom not in selection", logging.String(logging.FieldPath, target))
			continue
		}
		if err := s.fs.Remove(target); err != nil {
			logging.WarnWithContext(itemLogger, "rom delete failed", "delete_failed",
				logging.String(logging.FieldPath, target),
				logging.Error(err),
			)
			continue
		}
		itemLogger.Info("rom deleted", logging.String(logging.FieldPath, target))
	}
	return nil
}

// Keep deletes every archive in selection whose name is not listed. Entries
// without the .zip extension, including companions, are never touched.
func (s *Synchronizer) Keep(file, selection string) error {
	recs, err := records.Parse(s.fs, file)
	if err != nil {
		return err
	}
	wanted := records.NameSet(recs)

	entries, err := afero.ReadDir(s.fs, selection)
	logger := s.runLogger(OpKeep, file, len(entries))
	if err != nil {
		logging.WarnWithContext(logger, "selection listing failed", "list_failed",
			logging.String(logging.FieldPath, selection),
			logging.Error(err),
			logging.String(logging.FieldImpact, "nothing pruned"),
		)
		return nil
	}

	for i, entry := range entries {
		zip := entry.Name()
		s.emit(OpKeep, len(entries), i+1, zip)

		if !strings.HasSuffix(zip, ZipExt) {
			continue
		}
		if _, ok := wanted[strings.TrimSuffix(zip, ZipExt)]; ok {
			continue
		}
		target := filepath.Join(selection, zip)
		itemLogger := logger.With(logging.Int(logging.FieldIndex, i+1), logging.String(logging.FieldZip, zip))
		if err := s.fs.Remove(target); err != nil {
			logging.WarnWithContext(itemLogger, "rom delete failed", "delete_failed",
				logging.String(logging.FieldPath, target),
				logging.Error(err),
			)
			continue
		}
		itemLogger.Info("unlisted rom removed", logging.String(logging.FieldPath, target))
	}
	return nil
}

func (s *Synchronizer) runLogger(operation, file string, total int) *slog.Logger {
	logger := logging.WithRun(s.logger, operation, uuid.NewString())
	logger.Debug("operation started", logging.String(logging.FieldPath, file), logging.Int(logging.FieldTotal, total))
	return logger
}

func (s *Synchronizer) emit(operation string, total, index int, name string) {
	if s.progress == nil {
		return
	}
	s.progress(Progress{Operation: operation, Total: total, Index: index, Name: name})
}
