package source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lmfdb/latticeview/pkg/errors"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
)

// Dir serves documents stored as <dir>/<ambient>.json.
type Dir struct {
	dir string
}

// NewDir checks that dir exists.
func NewDir(dir string) (*Dir, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "source directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s is not a directory", dir)
	}
	return &Dir{dir: dir}, nil
}

// Load implements Source.
func (d *Dir) Load(_ context.Context, ambient string) (*pkgio.Document, error) {
	if err := validAmbient(ambient); err != nil {
		return nil, err
	}
	doc, err := pkgio.ReadDocumentFile(filepath.Join(d.dir, ambient+".json"))
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no diagram for %s", ambient)
	}
	if err != nil {
		return nil, err
	}
	return withAmbient(doc, ambient), nil
}

// Close does nothing.
func (d *Dir) Close(context.Context) error { return nil }

var _ Source = (*Dir)(nil)
