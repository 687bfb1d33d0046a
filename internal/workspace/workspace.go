// Package workspace manages the temporary directory a comic archive is
// extracted into while it is being edited.
//
// With tmpfs enabled every session shares one directory under the tmpfs
// mount, guarded by an advisory lock; otherwise each session gets a fresh
// "acbfe_" directory under the configured base.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"

	"acbfe/internal/config"
	"acbfe/internal/logging"
)

// ErrLocked reports a shared workspace already held by another process.
var ErrLocked = errors.New("workspace is in use by another acbfe process")

// Workspace is a directory owned by one editing session.
type Workspace struct {
	dir    string
	shared bool
	lock   *flock.Flock
	logger *slog.Logger
}

// New prepares the workspace described by cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Workspace, error) {
	if cfg == nil {
		return nil, errors.New("workspace requires configuration")
	}
	logger = logging.NewComponentLogger(logger, "workspace")
	root := cfg.WorkspaceRoot()

	if cfg.Workspace.Tmpfs {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create tmpfs workspace: %w", err)
		}
		lock := flock.New(root + ".lock")
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire workspace lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLocked, root)
		}
		logger.Debug("using shared tmpfs workspace", logging.String("dir", root))
		return &Workspace{dir: root, shared: true, lock: lock, logger: logger}, nil
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace base: %w", err)
	}
	dir, err := os.MkdirTemp(root, dirPrefix)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	logger.Debug("created workspace", logging.String("dir", dir))
	return &Workspace{dir: dir, logger: logger}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path joins a slash-separated relative path onto the workspace directory.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.dir, filepath.FromSlash(rel))
}

// Clear removes everything inside the workspace, keeping the directory.
func (w *Workspace) Clear() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read workspace: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(w.dir, entry.Name())); err != nil {
			return fmt.Errorf("clear workspace: %w", err)
		}
	}
	return nil
}

// Files lists every regular file as a sorted slash-separated relative path.
func (w *Workspace) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(w.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(w.dir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list workspace: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// Size returns the total size in bytes of the workspace files.
func (w *Workspace) Size() (int64, error) {
	var total int64
	err := filepath.WalkDir(w.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

// Cleanup removes the workspace. Shared tmpfs workspaces are emptied and
// kept for the next session; the lock is released either way.
func (w *Workspace) Cleanup() error {
	var err error
	if w.shared {
		err = w.Clear()
	} else {
		err = os.RemoveAll(w.dir)
	}
	if w.lock != nil {
		if unlockErr := w.lock.Unlock(); unlockErr != nil {
			logging.WarnWithContext(w.logger, "failed to release workspace lock", "workspace_unlock_failed",
				logging.Error(unlockErr),
				logging.String(logging.FieldImpact, "the next session may report the workspace as busy"),
			)
		}
		w.lock = nil
	}
	if err != nil {
		return fmt.Errorf("cleanup workspace: %w", err)
	}
	return nil
}
