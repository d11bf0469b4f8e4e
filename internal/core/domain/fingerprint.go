package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint is the derived identity used to decide whether an extracted
// listing is new or a re-observation. It is recomputed from listing fields
// on every observation, never stored on its own.
type Fingerprint string

// ComputeFingerprint derives the identity of a scraped listing. The primary
// key is (source, external id). Sites that expose no stable id fall back to
// a hash of the normalized title, price and mileage; two genuinely distinct
// but similar listings can collapse under the fallback, which is an accepted
// precision tradeoff.
func ComputeFingerprint(s ScrapedListing) Fingerprint {
	if s.ExternalID != "" {
		return Fingerprint(s.SourceWebsite + ":" + s.ExternalID)
	}

	parts := []string{
		normalizeFingerprintText(s.Title),
		formatPrice(s.Price),
		formatMileage(s.Mileage),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return Fingerprint(s.SourceWebsite + ":h:" + hex.EncodeToString(sum[:]))
}

// IsPrimary reports whether the fingerprint was built from a site-native id
// rather than from hashed content fields.
func (f Fingerprint) IsPrimary() bool {
	return !strings.Contains(string(f), ":h:")
}

func normalizeFingerprintText(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.Join(strings.Fields(lower), " ")
}

func formatPrice(price *float64) string {
	if price == nil {
		return "null"
	}
	return fmt.Sprintf("%.2f", *price)
}

func formatMileage(mileage *int) string {
	if mileage == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *mileage)
}
