// Command validate checks a dialect-samples JSON file before it is deployed:
// parseability, key hygiene, sample sizes, and match behavior through the
// same lookup path the service uses.
//
// Usage:
//
//	go run ./cmd/validate -samples data/dialects.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/couchcryptid/locale-scout/internal/dialect"
)

// maxSampleRunes mirrors the conversation engine's truncation bound; longer
// samples are legal but the excess never reaches a prompt.
const maxSampleRunes = 500

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	samplesPath := flag.String("samples", "", "path to a dialect-samples JSON file")
	flag.Parse()

	if *samplesPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*samplesPath); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== Dialect Sample Validation ===")
	fmt.Println()

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read samples: %v\n", err)
		return 1
	}

	var samples map[string]string
	if err := json.Unmarshal(raw, &samples); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse samples: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateKeys(samples),
		validateSamples(samples),
		validateMatching(samples),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-40s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Regions: %d\n", len(samples))

	for _, p := range phases {
		for _, n := range p.notes {
			fmt.Printf("  Note: %s\n", n)
		}
	}
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateKeys checks region keys: non-empty, no surrounding whitespace, and
// no two keys that collide after Turkish-aware case folding.
func validateKeys(samples map[string]string) *phase {
	p := &phase{name: "Phase 1: Region Keys"}

	folded := map[string]string{}
	for _, key := range sortedKeys(samples) {
		if strings.TrimSpace(key) == "" {
			p.errorf("empty region key")
			continue
		}
		if key != strings.TrimSpace(key) {
			p.errorf("key %q has surrounding whitespace", key)
		}

		lower := cases.Lower(language.Turkish).String(key)
		if prev, ok := folded[lower]; ok {
			p.errorf("keys %q and %q collide after case folding", prev, key)
			continue
		}
		folded[lower] = key
	}
	return p
}

// validateSamples checks each sample text: non-empty and flags text beyond
// what the conversation engine will ever embed.
func validateSamples(samples map[string]string) *phase {
	p := &phase{name: "Phase 2: Sample Texts"}

	for _, key := range sortedKeys(samples) {
		text := samples[key]
		if strings.TrimSpace(text) == "" {
			p.errorf("region %q: empty sample text", key)
			continue
		}
		if n := len([]rune(text)); n > maxSampleRunes {
			p.notef("region %q: sample is %d runes, only the first %d are used", key, n, maxSampleRunes)
		}
	}
	return p
}

// validateMatching runs every key through the service's own lookup: a key
// must find its sample both standalone and as part of a display name.
func validateMatching(samples map[string]string) *phase {
	p := &phase{name: "Phase 3: Lookup Behavior"}

	store := dialect.NewStore(samples)
	for _, key := range sortedKeys(samples) {
		if got := store.Match(key); got != samples[key] {
			p.errorf("region %q: standalone lookup returned a different sample", key)
		}
		if got := store.Match(key + ", Türkiye"); got == "" {
			p.errorf("region %q: lookup fails inside a display name", key)
		}
	}
	return p
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
