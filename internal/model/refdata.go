package model

// RefData is a read-only snapshot of one user's reference data. All rows of
// a batch must be resolved against the same snapshot.
type RefData struct {
	Categories []Category        // insertion order, never re-sorted
	Overrides  map[string]string // transaction key -> category
	Merchants  map[string]string // normalized merchant token -> category
	Recipients map[string]string // transfer recipient display name -> category
}

// EmptyRefData returns a snapshot with no categories and no mappings.
func EmptyRefData() *RefData {
	return &RefData{
		Overrides:  map[string]string{},
		Merchants:  map[string]string{},
		Recipients: map[string]string{},
	}
}

// Override returns the override category for key.
func (r *RefData) Override(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	c, ok := r.Overrides[key]
	return c, ok
}

// Merchant returns the learned category for a merchant token.
func (r *RefData) Merchant(token string) (string, bool) {
	if r == nil {
		return "", false
	}
	c, ok := r.Merchants[token]
	return c, ok
}

// Recipient returns the learned category for a transfer recipient.
func (r *RefData) Recipient(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	c, ok := r.Recipients[name]
	return c, ok
}
