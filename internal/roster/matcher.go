// Package roster matches names extracted from scanned documents against
// the class roster. Extraction output is best-effort and non-deterministic,
// so matching is fuzzy: diacritics and punctuation are folded away and
// names are compared by token overlap.
package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/alextrocado/edumanage/internal/model"
)

// Matcher decides whether a candidate name from an external source refers
// to a roster name. Pluggable so the heuristic can be swapped or tested
// independently of the extraction call.
type Matcher interface {
	Match(candidate, rosterName string) bool
}

// TokenMatcher is the default Matcher: names match when they are equal
// after normalization, when they share at least two name tokens, or when a
// single-token candidate equals any roster token exactly.
type TokenMatcher struct{}

func (TokenMatcher) Match(candidate, rosterName string) bool {
	s1 := NormalizeName(candidate)
	s2 := NormalizeName(rosterName)
	if s1 == "" || s2 == "" {
		return false
	}
	if s1 == s2 {
		return true
	}

	parts1 := significantTokens(s1)
	parts2 := significantTokens(s2)

	matches := 0
	for _, p := range parts1 {
		if containsToken(parts2, p) {
			matches++
		}
	}
	return matches >= 2 || (len(parts1) == 1 && containsToken(parts2, parts1[0]))
}

// stripMarks removes combining marks after NFD decomposition, folding
// "José" to "Jose".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases, removes diacritics, replaces punctuation with
// spaces and collapses whitespace.
func NormalizeName(name string) string {
	lower := strings.ToLower(name)
	folded, _, err := transform.String(stripMarks, lower)
	if err != nil {
		folded = lower
	}

	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// significantTokens keeps tokens longer than two runes, dropping particles
// like "de" and "da" that would inflate overlap counts.
func significantTokens(normalized string) []string {
	var out []string
	for _, tok := range strings.Fields(normalized) {
		if len([]rune(tok)) > 2 {
			out = append(out, tok)
		}
	}
	return out
}

func containsToken(tokens []string, tok string) bool {
	for _, t := range tokens {
		if t == tok {
			return true
		}
	}
	return false
}

// FindStudent returns the first roster student the matcher accepts for the
// candidate name, or nil.
func FindStudent(students []model.Student, candidate string, m Matcher) *model.Student {
	for i := range students {
		if m.Match(candidate, students[i].Name) {
			return &students[i]
		}
	}
	return nil
}
