package catalog

import (
	"sort"
	"strings"
)

// Sentinel values used during normalization.
const (
	// CategoryUncategorized is assigned when an entry has no category.
	CategoryUncategorized = "uncategorized"

	// VersionUnknown replaces the "latest" placeholder so a fetched
	// release tag can overwrite it.
	VersionUnknown = "unknown"

	versionLatest = "latest"
)

// defaultSynonyms folds historical category spellings into canonical
// names. Keys are compared after lowercasing and trimming.
var defaultSynonyms = map[string]string{
	"termux os":             "termux",
	"termux_os":             "termux",
	"wireless_tools":        "wireless",
	"wireless_testing":      "wireless",
	"information gathering": "information_gathering",
	"password attacks":      "password_attack",
	"ddos attacks":          "ddos",
	"maintaining access":    "maintaining_access",
	"forensics tools":       "forensics",
	"web server":            "web_server",
	"web server's":          "web_server",
	"exploitation tools":    "exploitation",
	"vulnerability scanner": "vulnerability_scanner",
	"ip-tracking tools":     "ip_tracking",
}

// DefaultSynonyms returns a copy of the compiled-in synonym table.
func DefaultSynonyms() map[string]string {
	out := make(map[string]string, len(defaultSynonyms))
	for k, v := range defaultSynonyms {
		out[k] = v
	}
	return out
}

// NormalizeCategories folds categories into their canonical form:
// trimmed, lowercased, mapped through the synonym table, deduplicated,
// and sorted. An empty or absent category yields ["uncategorized"].
//
// The extra map is merged over the compiled-in synonyms and may be nil.
// Normalization is idempotent and order-independent.
func NormalizeCategories(cats []string, extra map[string]string) []string {
	if len(cats) == 0 {
		return []string{CategoryUncategorized}
	}

	seen := make(map[string]struct{}, len(cats))
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if canon, ok := extra[c]; ok {
			c = canon
		} else if canon, ok := defaultSynonyms[c]; ok {
			c = canon
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	if len(out) == 0 {
		return []string{CategoryUncategorized}
	}
	sort.Strings(out)
	return out
}

// NormalizeVersion rewrites the "latest" placeholder (case-insensitive)
// to the "unknown" sentinel. Any other value passes through unchanged.
func NormalizeVersion(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), versionLatest) {
		return VersionUnknown
	}
	return v
}
