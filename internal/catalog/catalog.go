// Package catalog holds the ordered list of model identifiers probed in one run.
package catalog

import (
	"fmt"

	"github.com/agentstation/keyprobe/pkg/errors"
)

// ModelID identifies a model on the messages API.
type ModelID string

// String returns the identifier as a plain string.
func (id ModelID) String() string {
	return string(id)
}

// Catalog is an ordered list of model identifiers. Order decides both the
// probe order and where a run stops when the credential is rejected.
type Catalog []ModelID

// defaultModels spans several model-family generations, newest first.
var defaultModels = Catalog{
	"claude-opus-4-5-20251101",
	"claude-sonnet-4-5-20250514",
	"claude-3-5-sonnet-20241022",
	"claude-3-5-sonnet-20240620",
	"claude-3-5-haiku-20241022",
	"claude-3-opus-20240229",
	"claude-3-sonnet-20240229",
	"claude-3-haiku-20240307",
}

// Default returns a copy of the compiled-in catalog.
func Default() Catalog {
	return defaultModels.Clone()
}

// New builds a catalog from plain identifiers, preserving order.
func New(ids ...string) Catalog {
	c := make(Catalog, 0, len(ids))
	for _, id := range ids {
		c = append(c, ModelID(id))
	}
	return c
}

// Clone returns an independent copy of the catalog.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

// Len returns the number of models in the catalog.
func (c Catalog) Len() int {
	return len(c)
}

// Validate rejects empty catalogs, blank identifiers and duplicates.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return errors.NewValidationError("catalog", nil, "must contain at least one model")
	}

	seen := make(map[ModelID]int, len(c))
	for i, id := range c {
		if id == "" {
			return errors.NewValidationError("catalog", i, fmt.Sprintf("model at position %d is empty", i))
		}
		if first, ok := seen[id]; ok {
			return errors.NewValidationError("catalog", id,
				fmt.Sprintf("model %s listed twice (positions %d and %d)", id, first, i))
		}
		seen[id] = i
	}
	return nil
}
