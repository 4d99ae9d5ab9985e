package vos

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// EnvPath is the environment variable holding the executable search path.
const EnvPath = "PATH"

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(fsys afero.Fs, file string) error {
	d, err := fsys.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH variable of env. If file contains a slash, it is tried directly
// and the PATH is not consulted.
func LookPath(fsys afero.Fs, env VEnv, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(fsys, file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	for _, dir := range filepath.SplitList(env.Getenv(EnvPath)) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(fsys, path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}
