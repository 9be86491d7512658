// Package team resolves the many spellings of a club name that appear across
// calendar feeds, the results API and hand-edited sheets to one display name.
package team

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonKeyRegex      = regexp.MustCompile(`[^a-z0-9 ]+`)
	rfcWordRegex     = regexp.MustCompile(`\brfc\b`)
	trailingRFCRegex = regexp.MustCompile(`(?i)\s+rfc$`)
)

// Key folds a team name to its matching form: accents stripped, lowercase,
// punctuation as spaces, the word "rfc" dropped, whitespace collapsed.
func Key(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	folded = cases.Lower(language.Und).String(folded)
	folded = nonKeyRegex.ReplaceAllString(folded, " ")
	folded = rfcWordRegex.ReplaceAllString(folded, " ")
	return strings.Join(strings.Fields(folded), " ")
}

// Clean collapses whitespace and drops a trailing " RFC".
func Clean(name string) string {
	cleaned := strings.Join(strings.Fields(name), " ")
	return strings.TrimSpace(trailingRFCRegex.ReplaceAllString(cleaned, ""))
}

// Aliases maps the key of a known misspelling to its canonical display name.
type Aliases map[string]string

// NewAliases builds an alias table from raw spelling -> canonical pairs.
func NewAliases(pairs map[string]string) Aliases {
	out := make(Aliases, len(pairs))
	for raw, canonical := range pairs {
		key := Key(raw)
		canonical = Clean(canonical)
		if key == "" || canonical == "" {
			continue
		}
		out[key] = canonical
	}
	return out
}

// Resolve returns the alias target for name, or name itself.
func (a Aliases) Resolve(name string) string {
	if canonical, ok := a[Key(name)]; ok {
		return canonical
	}
	return name
}

// Targets lists the canonical names in key order so seeding is stable.
func (a Aliases) Targets() []string {
	keys := make([]string, 0, len(a))
	for key := range a {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, a[key])
	}
	return out
}

// Seen records the first display spelling learned for each key. The zero
// value is empty and ready to use; values are never mutated in place.
type Seen struct {
	names map[string]string
}

// Lookup returns the learned spelling for key.
func (s Seen) Lookup(key string) (string, bool) {
	name, ok := s.names[key]
	return name, ok
}

func (s Seen) Len() int {
	return len(s.names)
}

func (s Seen) with(key, name string) Seen {
	next := make(map[string]string, len(s.names)+1)
	for k, v := range s.names {
		next[k] = v
	}
	next[key] = name
	return Seen{names: next}
}

// Canonicalize applies the alias table, strips a trailing "RFC", and then
// prefers the first spelling already seen for the same key. A spelling not
// seen before is learned and returned in the new Seen; seen is left intact.
func Canonicalize(name string, aliases Aliases, seen Seen) (string, Seen) {
	cleaned := Clean(aliases.Resolve(Clean(name)))
	key := Key(cleaned)
	if key == "" {
		return cleaned, seen
	}
	if known, ok := seen.Lookup(key); ok {
		return known, seen
	}
	return cleaned, seen.with(key, cleaned)
}

// Index threads Seen across many Canonicalize calls within one run.
type Index struct {
	aliases Aliases
	seen    Seen
}

func NewIndex(aliases Aliases) *Index {
	idx := &Index{aliases: aliases}
	for _, target := range aliases.Targets() {
		idx.Add(target)
	}
	return idx
}

// Add seeds a spelling; the first one per key wins.
func (i *Index) Add(names ...string) {
	for _, name := range names {
		_, i.seen = Canonicalize(name, i.aliases, i.seen)
	}
}

// Canonical resolves name, learning it when new.
func (i *Index) Canonical(name string) string {
	var canonical string
	canonical, i.seen = Canonicalize(name, i.aliases, i.seen)
	return canonical
}

func (i *Index) Seen() Seen {
	return i.seen
}

func (i *Index) Aliases() Aliases {
	return i.aliases
}
