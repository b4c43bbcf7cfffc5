package domain

import "fmt"

// Variant selects which screener pipeline is being computed.
type Variant string

const (
	// VariantOpportunity buckets low-priced markets by price band.
	VariantOpportunity Variant = "opportunity"
	// VariantFlip buckets markets with large one-day reversals by move size.
	VariantFlip Variant = "flip"
	// VariantVelocity buckets markets with sustained momentum by move size.
	VariantVelocity Variant = "velocity"
)

// ParseVariant converts a string (e.g. a URL path segment) into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantOpportunity, VariantFlip, VariantVelocity:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("%w: unknown variant %q", ErrNotFound, s)
	}
}

// Variants lists every screener variant in presentation order.
func Variants() []Variant {
	return []Variant{VariantOpportunity, VariantFlip, VariantVelocity}
}
