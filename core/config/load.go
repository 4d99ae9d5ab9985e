package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. If the directory has no
// configuration file the defaults are used.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	// BasePathFs needs an absolute base to contain relative names.
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path))
}

// LoadFs loads the configuration from the root of fsys.
func LoadFs(fsys afero.Fs) (*Configuration, error) {
	out := Default(fsys)

	configContents, err := afero.ReadFile(fsys, ConfigurationName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return out, nil
	case err != nil:
		return nil, err
	}

	// Values missing from the file keep their defaults.
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}

	return out, nil
}

// Initialize creates the configuration directory and writes the default
// configuration into it, an existing configuration is left alone.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	fsys := afero.NewOsFs()
	if err := fsys.MkdirAll(path, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(path, ConfigurationName)
	switch exists, err := afero.Exists(fsys, configPath); {
	case err != nil:
		return nil, err
	case exists:
		logger.Printf("%s already exists, skipping", configPath)
	default:
		logger.Printf("writing %s", configPath)
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return Load(path)
}
