// Package dialect matches a resolved location against a region→sample-text
// mapping. Samples steer the tone of generated replies only; an empty match
// means "no stylistic constraint", never an error.
package dialect

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type entry struct {
	key    string // folded form used for matching
	region string // original region name
	sample string
}

// Store is a read-only region→sample mapping, loaded once at startup.
type Store struct {
	entries []entry
}

// NewStore builds a store from a region→sample map. Entries are ordered by
// region name so Match results are deterministic.
func NewStore(samples map[string]string) *Store {
	regions := make([]string, 0, len(samples))
	for region := range samples {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	s := &Store{entries: make([]entry, 0, len(regions))}
	for _, region := range regions {
		s.entries = append(s.entries, entry{
			key:    foldTurkish(region),
			region: region,
			sample: samples[region],
		})
	}
	return s
}

// Default returns a store with the built-in Turkish samples.
func Default() *Store {
	return NewStore(defaultSamples)
}

// LoadFile reads a JSON region→sample object and merges it over the built-in
// defaults. File entries win on key collision.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dialect samples: %w", err)
	}

	var fromFile map[string]string
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parse dialect samples %s: %w", path, err)
	}

	merged := make(map[string]string, len(defaultSamples)+len(fromFile))
	for region, sample := range defaultSamples {
		merged[region] = sample
	}
	for region, sample := range fromFile {
		merged[region] = sample
	}
	return NewStore(merged), nil
}

// Len reports the number of regions in the store.
func (s *Store) Len() int {
	return len(s.entries)
}

// Match returns the sample for the first region key contained in the display
// name, or "" when nothing matches. The display name is split on commas and
// each part is checked first; the whole string is the fallback. Matching is
// case-insensitive with Turkish folding (İSTANBUL ↔ istanbul).
func (s *Store) Match(displayName string) string {
	if displayName == "" {
		return ""
	}

	for _, part := range strings.Split(displayName, ",") {
		folded := foldTurkish(strings.TrimSpace(part))
		if folded == "" {
			continue
		}
		for _, e := range s.entries {
			if strings.Contains(folded, e.key) {
				return e.sample
			}
		}
	}

	whole := foldTurkish(displayName)
	for _, e := range s.entries {
		if strings.Contains(whole, e.key) {
			return e.sample
		}
	}
	return ""
}

// foldTurkish lowercases with Turkish casing rules, then collapses dotless ı
// to i so "Istanbul", "İSTANBUL", and "istanbul" all fold to the same form.
// Turkish lowering alone maps ASCII "I" to "ı", which would never match a key
// folded from "İstanbul". cases.Caser is stateful, so one is built per call.
func foldTurkish(s string) string {
	lowered := cases.Lower(language.Turkish).String(s)
	return strings.ReplaceAll(lowered, "ı", "i")
}
