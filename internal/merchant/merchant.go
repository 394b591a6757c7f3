// Package merchant reduces free-text statement descriptions to a short,
// stable merchant token used as the key for learned merchant mappings.
//
// Normalization is lossy on purpose: two purchases at the same merchant with
// different store numbers, dates, reference numbers or trailing locations
// must produce the same token. The token is the first MaxWords words of the
// cleaned text, which can merge distinct merchants that share a leading
// word pair. That is a known limitation of the heuristic.
package merchant

import (
	"fmt"
	"regexp"
	"strings"
)

// Unknown is returned for descriptions that are empty after cleaning.
const Unknown = "UNKNOWN"

var (
	shortDate     = regexp.MustCompile(`\b\d{1,2}/\d{1,2}\b`)
	longDate      = regexp.MustCompile(`\b\d{2}/\d{2}/\d{2,4}\b`)
	longNumber    = regexp.MustCompile(`\b\d{6,}\b`)
	storeNumber   = regexp.MustCompile(`\s*#\d+\s*`)
	locationCode  = regexp.MustCompile(`\s+\d{3,6}\s*`)
	transactionID = regexp.MustCompile(`\*[A-Z0-9]{6,}`)
	marketplaceID = regexp.MustCompile(`MKTPL\*[A-Z0-9]+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Normalizer turns descriptions into merchant tokens. It is safe for
// concurrent use.
type Normalizer struct {
	stateSuffix *regexp.Regexp // nil when no state codes are configured
	suffixes    []*regexp.Regexp
	pharmacies  []string
	markets     []string
	maxWords    int
}

// New compiles a Normalizer from a Policy.
func New(p Policy) (*Normalizer, error) {
	p = p.withDefaults()

	n := &Normalizer{
		pharmacies: upperAll(p.PharmacyChains),
		markets:    upperAll(p.Marketplaces),
		maxWords:   p.MaxWords,
	}

	if len(p.StateCodes) > 0 {
		codes := make([]string, len(p.StateCodes))
		for i, c := range p.StateCodes {
			codes[i] = regexp.QuoteMeta(strings.ToUpper(c))
		}
		n.stateSuffix = regexp.MustCompile(`\s+(` + strings.Join(codes, "|") + `)\s*$`)
	}

	for _, pat := range p.SuffixPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("compiling suffix pattern %q: %w", pat, err)
		}
		n.suffixes = append(n.suffixes, re)
	}
	return n, nil
}

// MustNew is like New but panics on an invalid policy.
func MustNew(p Policy) *Normalizer {
	n, err := New(p)
	if err != nil {
		panic(err)
	}
	return n
}

var defaultNormalizer = MustNew(DefaultPolicy())

// Normalize uses the default policy.
func Normalize(description string) string {
	return defaultNormalizer.Normalize(description)
}

// Clean applies the noise-removal steps and returns the cleaned text without
// picking a token. The result may be empty.
func (n *Normalizer) Clean(description string) string {
	desc := strings.ToUpper(strings.TrimSpace(description))

	desc = shortDate.ReplaceAllString(desc, "")
	desc = longDate.ReplaceAllString(desc, "")
	desc = longNumber.ReplaceAllString(desc, "")

	if n.stateSuffix != nil {
		desc = n.stateSuffix.ReplaceAllString(desc, "")
	}

	desc = storeNumber.ReplaceAllString(desc, " ")
	desc = locationCode.ReplaceAllString(desc, " ")

	desc = transactionID.ReplaceAllString(desc, "")
	desc = marketplaceID.ReplaceAllString(desc, "MKTPL")

	for _, re := range n.suffixes {
		desc = re.ReplaceAllString(desc, "")
	}

	return strings.TrimSpace(whitespace.ReplaceAllString(desc, " "))
}

// Normalize returns the merchant token for description. It never returns
// an empty string.
func (n *Normalizer) Normalize(description string) string {
	desc := n.Clean(description)
	if desc == "" {
		return Unknown
	}

	if strings.Contains(desc, "PHARMACY") {
		for _, chain := range n.pharmacies {
			if strings.Contains(desc, chain) {
				return chain + "/PHARMACY"
			}
		}
	}
	for _, market := range n.markets {
		if strings.Contains(desc, market) {
			return market
		}
	}

	words := strings.Fields(desc)
	if len(words) > n.maxWords {
		words = words[:n.maxWords]
	}
	return strings.Join(words, " ")
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
