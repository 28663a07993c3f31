package store

import (
	"context"
	"encoding/json"
	"os"

	"github.com/toolshelf/toolshelf/pkg/catalog"
	"github.com/toolshelf/toolshelf/pkg/errors"
)

// FileStore reads a catalog from one JSON file and writes it to another.
// With equal paths it updates the catalog in place.
type FileStore struct {
	inputPath  string
	outputPath string
}

// NewFileStore creates a store reading from input and writing to output.
// An empty output derives "<input>_enhanced.json".
func NewFileStore(input, output string) *FileStore {
	if output == "" {
		output = DerivedPath(input)
	}
	return &FileStore{inputPath: input, outputPath: output}
}

// InputPath returns the path the catalog is read from.
func (s *FileStore) InputPath() string { return s.inputPath }

// OutputPath returns the path the catalog is written to.
func (s *FileStore) OutputPath() string { return s.outputPath }

// Load reads and decodes the input catalog. A missing file and malformed
// JSON are reported as coded errors so the CLI can render them cleanly.
func (s *FileStore) Load(_ context.Context) (catalog.Catalog, error) {
	data, err := os.ReadFile(s.inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "catalog file not found: %s", s.inputPath)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "reading catalog %s", s.inputPath)
	}

	var c catalog.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		// Keep the specific code when record parsing already assigned one.
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "parsing catalog %s", s.inputPath)
	}
	return c, nil
}

// Save writes the catalog to the output path as indented JSON with a
// trailing newline, matching the layout of hand-edited catalog files.
func (s *FileStore) Save(_ context.Context, c catalog.Catalog) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding catalog")
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.outputPath, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "writing catalog %s", s.outputPath)
	}
	return nil
}
