package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/WhileEndless/go-reqtemplate/pkg/logging"
)

// Common errors for definition loading.
var (
	ErrFileNotFound   = errors.New("definition file not found")
	ErrInvalidJSON    = errors.New("invalid JSON syntax")
	ErrInvalidYAML    = errors.New("invalid YAML syntax")
	ErrEmptyFile      = errors.New("definition file is empty")
	ErrUnknownRequest = errors.New("unknown request")
)

// Loader reads definition files
type Loader struct {
	Logger *slog.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Loader{Logger: logger}
}

// LoadFromFile reads a definition from a JSON or YAML file.
// The format is detected from the extension (.yaml, .yml for YAML, otherwise JSON).
func (l *Loader) LoadFromFile(path string) (*Definition, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	l.Logger.Debug("loading definition", "path", path, "bytes", len(data), "format", ext)

	var def *Definition
	if ext == ".yaml" || ext == ".yml" {
		def, err = l.ParseYAML(data)
	} else {
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w in file: %s", ErrInvalidJSON, path)
		}
		def, err = l.ParseJSON(data)
	}
	if err != nil {
		return nil, err
	}

	l.Logger.Debug("definition loaded", "path", path, "requests", def.Names())
	return def, nil
}

// ParseJSON parses and validates a JSON definition
func (l *Loader) ParseJSON(data []byte) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return l.validate(&def)
}

// ParseYAML parses and validates a YAML definition
func (l *Loader) ParseYAML(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return l.validate(&def)
}

func (l *Loader) validate(def *Definition) (*Definition, error) {
	if err := def.Validate(); err != nil {
		l.Logger.Debug("definition rejected", "error", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return def, nil
}

// LoadFromFile reads a definition with a loader that does not log
func LoadFromFile(path string) (*Definition, error) {
	return NewLoader(nil).LoadFromFile(path)
}
