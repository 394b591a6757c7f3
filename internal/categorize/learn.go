package categorize

// TargetKind says which mapping a correction should be learned into.
type TargetKind string

const (
	TargetRecipient TargetKind = "recipient"
	TargetMerchant  TargetKind = "merchant"
)

// LearningTarget decides where a manual recategorization of description is
// remembered: transfers with an extractable recipient teach the recipient
// map, everything else teaches the merchant map.
func (r *Resolver) LearningTarget(description string) (TargetKind, string) {
	if name, ok := r.detector.ExtractRecipient(description); ok {
		return TargetRecipient, name
	}
	return TargetMerchant, r.normalizer.Normalize(description)
}
