// Package seo synthesizes discoverability metadata for catalog entities.
// Everything here is deterministic derivation from inputs, no I/O.
package seo

import (
	"strings"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

const (
	titleSuffix  = "| Sports Apparel"
	titleMax     = 57
	descMax      = 160
	sdDescMax    = 300
	keywordLimit = 10
)

// Truncate cuts text to max characters, ending with an ellipsis when it had
// to cut. Text at or under the bound passes through untouched. Counting is
// by rune so multi-byte text is never cut mid-character.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

// MetaTitle truncates the name to leave room for the fixed site suffix.
func MetaTitle(name string) string {
	return strings.TrimSpace(Truncate(name, titleMax) + " " + titleSuffix)
}

// MetaDescription prefers the supplied description, truncated; with no
// description it falls back to a generated sentence around the name.
func MetaDescription(description, name string) string {
	if description != "" {
		return Truncate(description, descMax)
	}
	return Truncate("Discover "+name+". High-quality product with exceptional features and value.", descMax)
}

// Keywords tokenizes the name by whitespace, lowercases, merges extra
// keywords, dedupes in first-seen order and caps the result.
func Keywords(name string, extra ...string) string {
	words := append(strings.Fields(strings.ToLower(name)), extra...)
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if len(out) == keywordLimit {
			break
		}
	}
	return strings.Join(out, ", ")
}

// CanonicalURL composes base/entityType/slug with no duplicate slashes.
func CanonicalURL(baseURL, entityType, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/" + entityType + "/" + slug
}

// ForEntity fills the common SEO block for a category, subcategory or
// product.
func ForEntity(baseURL, entityType, name, description, slug string, extraKeywords ...string) domain.SEO {
	return domain.SEO{
		MetaTitle:       MetaTitle(name),
		MetaDescription: MetaDescription(description, name),
		Keywords:        Keywords(name, extraKeywords...),
		CanonicalURL:    CanonicalURL(baseURL, entityType, slug),
	}
}

// ProductStructuredData builds the fixed-shape schema.org descriptor.
// Image and price are optional.
func ProductStructuredData(name, description, imageURL, price string) *domain.StructuredData {
	sd := &domain.StructuredData{
		Context:     "https://schema.org/",
		Type:        "Product",
		Name:        name,
		Description: Truncate(description, sdDescMax),
		Image:       imageURL,
	}
	if price != "" {
		sd.Offers = &domain.Offer{Type: "Offer", Price: price, PriceCurrency: "USD"}
	}
	return sd
}
