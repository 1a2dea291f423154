// Package store persists model definitions and best-fit results as JSON
// files. A ModelFile doubles as the CLI's model-configuration format.
//
// Error handling conventions:
//   - Return ErrNotFound if the requested file does not exist
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
//   - Writes are atomic (temp file + rename) so a crash never leaves a
//     half-written file behind
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/skyfit/internal/model"
)

// ErrNotFound is returned when a requested file does not exist. Use
// errors.Is(err, ErrNotFound) to check for it.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing model or result file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path != "" {
		return "store: not found: " + e.Path
	}
	return "store: not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// ModelFile is the serialized form of a model configuration: the function
// list with centers and initial values, the engine constants, and the
// optional oversample region.
type ModelFile struct {
	Options    model.Options           `json:"options"`
	Oversample *model.OversampleRegion `json:"oversample,omitempty"`
}

// FitResult is the serialized outcome of a fit.
type FitResult struct {
	ParamNames  []string  `json:"paramNames"`
	BestParams  []float64 `json:"bestParams"`
	BestCost    float64   `json:"bestCost"`
	InitialCost float64   `json:"initialCost"`
	SavedAt     time.Time `json:"savedAt"`
}

// SaveModel atomically writes a model definition.
func SaveModel(path string, mf *ModelFile) error {
	if mf == nil {
		return fmt.Errorf("store: model file cannot be nil")
	}
	return writeJSON(path, mf)
}

// LoadModel reads a model definition. Returns ErrNotFound if the file does
// not exist.
func LoadModel(path string) (*ModelFile, error) {
	var mf ModelFile
	if err := readJSON(path, &mf); err != nil {
		return nil, err
	}
	if len(mf.Options.Functions) == 0 {
		return nil, fmt.Errorf("store: model file %s lists no functions", path)
	}
	return &mf, nil
}

// SaveResult atomically writes a fit result, stamping the save time.
func SaveResult(path string, res *FitResult) error {
	if res == nil {
		return fmt.Errorf("store: result cannot be nil")
	}
	res.SavedAt = time.Now().UTC()
	return writeJSON(path, res)
}

// LoadResult reads a fit result. Returns ErrNotFound if the file does not
// exist.
func LoadResult(path string) (*FitResult, error) {
	var res FitResult
	if err := readJSON(path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: serializing %s: %w", path, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("store: writing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("store: renaming into place: %w", err)
	}

	slog.Debug("file saved", "path", path)
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &NotFoundError{Path: path}
	} else if err != nil {
		return fmt.Errorf("store: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: parsing %s: %w", path, err)
	}
	return nil
}
