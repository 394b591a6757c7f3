// Package transfer recognizes person-to-person payments in statement
// descriptions and extracts the recipient name so transfers can be
// categorized by who was paid rather than by the payment network.
package transfer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPhrases are the trigger phrases recognized out of the box.
var DefaultPhrases = []string{"zelle payment to"}

// Detector matches descriptions against a list of trigger phrases.
type Detector struct {
	phrases  []string
	patterns []*regexp.Regexp
}

// NewDetector builds a Detector for the given phrases. A nil or empty list
// uses DefaultPhrases.
func NewDetector(phrases []string) (*Detector, error) {
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	d := &Detector{}
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		words := strings.Fields(p)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		re, err := regexp.Compile(`(?i)` + strings.Join(words, `\s+`) + `\s+([^0-9]+)`)
		if err != nil {
			return nil, fmt.Errorf("compiling transfer phrase %q: %w", p, err)
		}
		d.phrases = append(d.phrases, p)
		d.patterns = append(d.patterns, re)
	}
	if len(d.phrases) == 0 {
		return nil, fmt.Errorf("no usable transfer phrases")
	}
	return d, nil
}

var defaultDetector, _ = NewDetector(DefaultPhrases)

// Default returns the Detector for DefaultPhrases.
func Default() *Detector { return defaultDetector }

// IsTransfer reports whether description contains a trigger phrase,
// ignoring case.
func (d *Detector) IsTransfer(description string) bool {
	lower := strings.ToLower(description)
	for _, p := range d.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// ExtractRecipient returns the title-cased text between the trigger phrase
// and the first digit. It reports false for non-transfers and when nothing
// usable follows the phrase.
func (d *Detector) ExtractRecipient(description string) (string, bool) {
	if !d.IsTransfer(description) {
		return "", false
	}
	for _, re := range d.patterns {
		m := re.FindStringSubmatch(description)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		return titleCase(name), true
	}
	return "", false
}

// titleCase capitalizes every letter that follows a non-letter, so names
// like O'Brien-Smith keep a capital after the apostrophe.
func titleCase(s string) string {
	// Casers carry state, so one is built per call.
	r := []rune(cases.Title(language.English).String(s))
	for i := 1; i < len(r); i++ {
		if unicode.IsLetter(r[i]) && !unicode.IsLetter(r[i-1]) {
			r[i] = unicode.ToUpper(r[i])
		}
	}
	return string(r)
}

// IsTransfer uses the default phrases.
func IsTransfer(description string) bool {
	return defaultDetector.IsTransfer(description)
}

// ExtractRecipient uses the default phrases.
func ExtractRecipient(description string) (string, bool) {
	return defaultDetector.ExtractRecipient(description)
}
