package settings

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/justthedistance/jtd/internal/validate"
)

// DefaultPath is where settings live unless --config says otherwise.
const DefaultPath = "~/.config/just-the-distance/settings.yaml"

// Store handles the loading and saving of the settings file.
type Store struct {
	Path string `validate:"required"`
	Data Settings
}

// NewStore creates a Store for path, loading existing settings when the file is present.
func NewStore(path string) (*Store, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		Path: expandedPath,
		Data: Defaults(),
	}
	if err := validate.Struct(s); err != nil {
		return nil, err
	}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return s, nil
}

// NewOrExistingStore returns the existing store if the file exists, or creates one with defaults.
// When creating a new store, it writes the defaults to disk immediately.
func NewOrExistingStore(path string) (*Store, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(expandedPath); err == nil {
		return NewStore(path)
	} else if os.IsNotExist(err) {
		s, err := NewStore(path)
		if err != nil {
			return nil, err
		}
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, err
}

// Settings implements Provider.
func (s *Store) Settings() Settings {
	return s.Data
}

// Load reads the settings file. Missing fields keep their defaults and
// out-of-range values are clamped and written back.
func (s *Store) Load() error {
	logrus.Debug("Loading settings file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	loaded := Defaults()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return err
	}
	s.Data = loaded

	// Validate loaded data and self-heal when possible.
	if err := validate.Struct(s.Data); err != nil {
		logrus.Warnf("Settings out of range, clamping: %v", err)
		s.Data, _ = s.Data.Normalize()
		if err := s.Save(); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the settings to the file.
func (s *Store) Save() error {
	logrus.Debug("Saving settings file to: ", s.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(s.Data)
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// Reset restores defaults and saves them.
func (s *Store) Reset() error {
	s.Data = Defaults()
	return s.Save()
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
