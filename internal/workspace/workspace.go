// Package workspace manages the per-request scratch directory used while a
// document moves through the conversion pipeline.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// Workspace is a private temporary directory. Close removes it with
// everything inside; calling Close more than once is safe.
type Workspace struct {
	dir string

	closeOnce sync.Once
	closeErr  error
}

func New() (*Workspace, error) {
	dir, err := os.MkdirTemp("", fmt.Sprintf("transmute-%s-", xid.New().String()))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Workspace{dir: dir}, nil
}

func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns the absolute path for a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, filepath.Base(name))
}

func (w *Workspace) WriteFile(name string, data []byte) (string, error) {
	path := w.Path(name)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", errors.WithStack(err)
	}

	return path, nil
}

func (w *Workspace) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(w.Path(name))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

func (w *Workspace) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = errors.WithStack(os.RemoveAll(w.dir))
	})

	return w.closeErr
}
