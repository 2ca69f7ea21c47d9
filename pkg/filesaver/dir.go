package filesaver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// dirSaver writes downloaded blobs into a local directory, playing the part
// of a browser's save action.
type dirSaver struct {
	dir string
}

func NewDirSaver(dir string) (*dirSaver, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating download dir: %w", err)
	}
	return &dirSaver{dir: dir}, nil
}

const maxDuplicates = 1000

// Save stores r under the base name of name. Any directory part of the blob
// name is dropped so a blob cannot escape the target directory. An existing
// file is never replaced: the copy is numbered instead, as in "a (1).xlsx".
func (d *dirSaver) Save(ctx context.Context, name string, r io.Reader) error {
	base := filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return fmt.Errorf("invalid file name %q", name)
	}

	tmp, err := os.CreateTemp(d.dir, "."+base+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", base, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", base, err)
	}

	path, err := d.reserve(base)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(path)
		return fmt.Errorf("moving %s into place: %w", base, err)
	}

	if filepath.Base(path) != base {
		slog.InfoContext(ctx, "file name taken, saved as copy", "name", base, "path", path)
	}
	slog.DebugContext(ctx, "file saved", "path", path, "bytes", n)
	return nil
}

// reserve claims the first free name among base, "stem (1).ext", "stem (2).ext"...
func (d *dirSaver) reserve(base string) (string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 0; i < maxDuplicates; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}

		path := filepath.Join(d.dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reserving %s: %w", name, err)
		}
		f.Close()
		return path, nil
	}
	return "", fmt.Errorf("no free name for %s after %d copies", base, maxDuplicates)
}
