package catalog

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/toolshelf/toolshelf/pkg/errors"
)

// Catalog maps tool name to its record.
type Catalog map[string]*Tool

// Names returns the tool names in sorted order. Enrichment iterates in
// this order so logs and reports are deterministic.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tool is one catalog entry describing a single external tool.
//
// The enrichment fields (Stars, Forks, License, Archived) are pointers:
// nil means the entry has not been enriched, or the upstream API did not
// report the field. Unknown JSON keys are kept in an internal side map
// and re-emitted on marshal.
type Tool struct {
	Name           string
	PackageName    string
	Version        string
	Category       []string
	URL            string
	PackageManager string
	Dependencies   []string

	Stars    *int
	Forks    *int
	License  *string
	Archived *bool

	extra map[string]json.RawMessage
}

// Normalize applies the pre-enrichment rewrites: category folding through
// the synonym table and the "latest" version placeholder rewrite.
// The synonyms map is merged over the compiled-in defaults.
func (t *Tool) Normalize(synonyms map[string]string) {
	t.Category = NormalizeCategories(t.Category, synonyms)
	t.Version = NormalizeVersion(t.Version)
}

// Extra returns the value of a passthrough field, if present.
func (t *Tool) Extra(key string) (json.RawMessage, bool) {
	raw, ok := t.extra[key]
	return raw, ok
}

// Known record keys. Everything else is passthrough.
const (
	keyName           = "name"
	keyPackageName    = "package_name"
	keyVersion        = "version"
	keyCategory       = "category"
	keyURL            = "url"
	keyPackageManager = "package_manager"
	keyDependency     = "dependency"
	keyStars          = "stars"
	keyForks          = "forks"
	keyLicense        = "license"
	keyArchived       = "archived"
)

// UnmarshalJSON decodes a record, keeping unknown keys for passthrough.
// A category that is neither a string, a list of strings, nor null is a
// malformed-input error.
func (t *Tool) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "tool record must be an object")
	}

	take := func(key string) (json.RawMessage, bool) {
		raw, ok := fields[key]
		if ok {
			delete(fields, key)
		}
		return raw, ok
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{keyName, &t.Name},
		{keyPackageName, &t.PackageName},
		{keyVersion, &t.Version},
		{keyURL, &t.URL},
		{keyPackageManager, &t.PackageManager},
	} {
		if raw, ok := take(f.key); ok {
			if err := unmarshalNullableString(raw, f.dst); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "field %q", f.key)
			}
		}
	}

	if raw, ok := take(keyCategory); ok {
		cats, err := parseCategory(raw)
		if err != nil {
			return err
		}
		t.Category = cats
	}
	if raw, ok := take(keyDependency); ok {
		if err := json.Unmarshal(raw, &t.Dependencies); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "field %q", keyDependency)
		}
	}
	if raw, ok := take(keyStars); ok {
		if err := json.Unmarshal(raw, &t.Stars); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "field %q", keyStars)
		}
	}
	if raw, ok := take(keyForks); ok {
		if err := json.Unmarshal(raw, &t.Forks); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "field %q", keyForks)
		}
	}
	if raw, ok := take(keyLicense); ok {
		if err := json.Unmarshal(raw, &t.License); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "field %q", keyLicense)
		}
	}
	if raw, ok := take(keyArchived); ok {
		if err := json.Unmarshal(raw, &t.Archived); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "field %q", keyArchived)
		}
	}

	if len(fields) > 0 {
		t.extra = fields
	}
	return nil
}

// MarshalJSON emits the known fields (omitting empty optional ones) plus
// every passthrough field captured at decode time.
func (t *Tool) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.extra)+11)
	for k, v := range t.extra {
		out[k] = v
	}

	putString := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	putString(keyName, t.Name)
	putString(keyPackageName, t.PackageName)
	putString(keyVersion, t.Version)
	putString(keyURL, t.URL)
	putString(keyPackageManager, t.PackageManager)

	if t.Category != nil {
		out[keyCategory] = t.Category
	}
	if t.Dependencies != nil {
		out[keyDependency] = t.Dependencies
	}
	if t.Stars != nil {
		out[keyStars] = t.Stars
	}
	if t.Forks != nil {
		out[keyForks] = t.Forks
	}
	if t.License != nil {
		out[keyLicense] = t.License
	}
	if t.Archived != nil {
		out[keyArchived] = t.Archived
	}

	return json.Marshal(out)
}

func parseCategory(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCategory, err, "category")
		}
		return []string{s}, nil
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCategory, err, "category list must contain only strings")
		}
		return list, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidCategory,
			"category must be a string or a list of strings, got %s", trimmed)
	}
}

func unmarshalNullableString(raw json.RawMessage, dst *string) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		*dst = ""
		return nil
	}
	return json.Unmarshal(raw, dst)
}
