package datamanager

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/steelcutops/stockkeep/logger"
)

var emptyList = []byte("[]")

type JSONDataManager struct {
	Dir         string
	Diagnostics io.Writer
	Logger      logger.Logger
}

type Option func(*JSONDataManager)

// WithDiagnostics sets where user-visible recovery notices are printed.
func WithDiagnostics(w io.Writer) Option {
	return func(d *JSONDataManager) {
		d.Diagnostics = w
	}
}

// WithLogger sets the logger for a JSONDataManager.
func WithLogger(l logger.Logger) Option {
	return func(d *JSONDataManager) {
		d.Logger = l
	}
}

// NewJSONDataManager returns a DataManager storing documents under dir.
func NewJSONDataManager(dir string, options ...Option) *JSONDataManager {
	d := &JSONDataManager{
		Dir:         dir,
		Diagnostics: os.Stdout,
		Logger:      logger.Discard(),
	}
	for _, option := range options {
		option(d)
	}
	return d
}

func (d *JSONDataManager) path(name string) string {
	return filepath.Join(d.Dir, name)
}

func (d *JSONDataManager) Save(name string, data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return err
	}

	path := d.path(name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	d.Logger.Debug("Saved document", "file", path, "bytes", len(b))
	return nil
}

func (d *JSONDataManager) Load(name string, out interface{}) error {
	path := d.path(name)

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		d.Logger.Info("Document not found, creating empty list", "file", path)
		return d.reset(name, out)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	// An empty file is read as an empty list and left untouched.
	if len(content) == 0 {
		return json.Unmarshal(emptyList, out)
	}

	if !json.Valid(content) {
		fmt.Fprintf(d.Diagnostics, "Malformed data in file %s! The file will be reset.\n", name)
		d.Logger.Warn("Malformed document, resetting", "file", path)
		return d.reset(name, out)
	}

	// Well-formed JSON is never rewritten here, even when it does not fit out.
	if err := json.Unmarshal(content, out); err != nil {
		d.Logger.Error("Failed to decode document", "file", path, "error", err)
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	return nil
}

func (d *JSONDataManager) reset(name string, out interface{}) error {
	if err := d.Save(name, []interface{}{}); err != nil {
		return err
	}
	return json.Unmarshal(emptyList, out)
}
