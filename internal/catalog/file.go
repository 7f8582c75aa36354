package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// fileFormat is the on-disk shape of a catalog file:
//
//	{"vegetarian": {"breakfast": ["..."], ...}, "gluten-free": {...}, "default": {...}}
type fileFormat map[Kind]map[Slot][]string

// LoadFile reads a catalog set from a JSON file. Every category must be
// present and every slot non-empty; a bad file is a startup error.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var raw fileFormat
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog file %s: %w", path, err)
	}

	set := &Set{}
	for kind, dishes := range raw {
		c := New(string(kind), dishes)
		switch kind {
		case KindVegetarian:
			set.Vegetarian = c
		case KindGlutenFree:
			set.GlutenFree = c
		case KindDefault:
			set.Default = c
		default:
			return nil, fmt.Errorf("unknown catalog category %q in %s", kind, path)
		}
	}

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return set, nil
}

// Load returns the catalogs from path, or the built-in catalogs when path
// is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Builtin(), nil
	}
	return LoadFile(path)
}
