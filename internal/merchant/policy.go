package merchant

// Policy holds the tunable lists the normalizer is built from. The defaults
// are tuned to US bank and card exports; callers may replace any list.
type Policy struct {
	// StateCodes are stripped when they are the last token.
	StateCodes []string `yaml:"state_codes"`
	// SuffixPatterns are regular expressions (applied to upper-cased text)
	// removing billing boilerplate and trailing locations.
	SuffixPatterns []string `yaml:"suffix_patterns"`
	// PharmacyChains collapse to "<CHAIN>/PHARMACY" when PHARMACY also appears.
	PharmacyChains []string `yaml:"pharmacy_chains"`
	// Marketplaces collapse to the marketplace token regardless of other text.
	Marketplaces []string `yaml:"marketplaces"`
	// MaxWords is how many leading words form the merchant token.
	MaxWords int `yaml:"max_words"`
}

// DefaultPolicy returns the built-in normalization lists.
func DefaultPolicy() Policy {
	return Policy{
		StateCodes: []string{
			"FL", "CA", "NY", "TX", "GA", "NC", "SC", "VA", "MD", "PA", "NJ",
			"CT", "MA", "OH", "MI", "IL", "IN", "WI", "MN", "IA", "MO", "AR",
			"LA", "MS", "AL", "TN", "KY", "WV", "DE", "DC", "WA",
		},
		SuffixPatterns: []string{
			`\s+AMZN\.COM/BILL.*$`,
			`\s+MIAMI.*$`,
		},
		PharmacyChains: []string{"CVS"},
		Marketplaces:   []string{"AMAZON"},
		MaxWords:       2,
	}
}

// withDefaults fills unset fields from DefaultPolicy. A nil list means
// "use the default"; an empty non-nil list disables the step.
func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.StateCodes == nil {
		p.StateCodes = d.StateCodes
	}
	if p.SuffixPatterns == nil {
		p.SuffixPatterns = d.SuffixPatterns
	}
	if p.PharmacyChains == nil {
		p.PharmacyChains = d.PharmacyChains
	}
	if p.Marketplaces == nil {
		p.Marketplaces = d.Marketplaces
	}
	if p.MaxWords <= 0 {
		p.MaxWords = d.MaxWords
	}
	return p
}
