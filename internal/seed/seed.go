// Package seed provides the activity catalog the directory starts with.
//
// The built-in catalog is embedded in the binary. An alternate catalog file
// may be supplied at startup; both pass the same JSON Schema check before any
// record reaches the repository.
package seed

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mergington/activities/internal/model"
)

//go:embed activities.json
var defaultCatalog []byte

//go:embed activities.schema.json
var catalogSchema []byte

// ErrInvalidCatalog is returned when a catalog fails schema validation
var ErrInvalidCatalog = errors.New("invalid activity catalog")

// Default returns the embedded catalog
func Default() (model.ActivityDirectory, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for callers that treat a broken embedded catalog as a programming error
func MustDefault() model.ActivityDirectory {
	dir, err := Default()
	if err != nil {
		panic(err)
	}
	return dir
}

// Load reads a catalog from path. An empty path selects the embedded catalog.
func Load(path string) (model.ActivityDirectory, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	dir, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return dir, nil
}

// Parse validates data against the catalog schema and decodes it
func Parse(data []byte) (model.ActivityDirectory, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(catalogSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
	}

	var dir model.ActivityDirectory
	if err := json.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	return dir.Clone(), nil
}
