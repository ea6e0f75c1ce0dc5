package output

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Artifact is one rendered output file.
type Artifact struct {
	Path string
	Data []byte
}

// WriteAll writes every artifact through a temporary file in the target
// directory followed by a rename, so a reader sees either the old or the new
// file. All temporary files are written before the first rename; if any of
// them fails, none of the targets is touched.
func WriteAll(artifacts []Artifact) error {
	staged := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		tmp, err := stage(a.Path, a.Data)
		if err != nil {
			for _, name := range staged {
				_ = os.Remove(name)
			}
			return err
		}
		staged = append(staged, tmp)
	}

	for i, a := range artifacts {
		if err := os.Rename(staged[i], a.Path); err != nil {
			for _, name := range staged[i:] {
				_ = os.Remove(name)
			}
			return errors.Wrapf(err, "rename into %s", a.Path)
		}
	}
	return nil
}

// stage writes data to a temporary file next to path and returns its name.
func stage(path string, data []byte) (name string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", errors.Wrapf(err, "create temp file for %s", path)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", errors.Wrapf(err, "write %s", path)
	}
	if err = tmp.Close(); err != nil {
		return "", errors.Wrapf(err, "close %s", path)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", errors.Wrapf(err, "chmod %s", path)
	}
	return tmp.Name(), nil
}
