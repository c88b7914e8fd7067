package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MaxSuggestions is the number of ranked suggestions returned by Suggest.
const MaxSuggestions = 8

// MinSuggestRunes is the shortest trimmed query that produces suggestions.
const MinSuggestRunes = 2

// CatalogTags are the brand and product references visitors can filter by.
var CatalogTags = []string{
	"bacope", "tria", "ushuaia", "termoplast", "livore", "huayi", "non-spill", "red", "bidón",
}

var ErrUnknownTag = errors.New("unknown tag")

// folder returns a fresh case folder. cases.Caser keeps state and is not
// safe for concurrent use.
func folder() func(string) string {
	c := cases.Fold()
	return c.String
}

// Filter returns the products whose name, id or description contains the
// trimmed query, ignoring case. An empty query matches everything.
func Filter(products []Product, q string) []Product {
	fold := folder()
	term := fold(strings.TrimSpace(q))
	if term == "" {
		return cloneProducts(products)
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold(p.Name), term) ||
			strings.Contains(fold(p.ID), term) ||
			strings.Contains(fold(p.Description), term) {
			out = append(out, p)
		}
	}
	return out
}

// suggestScore ranks a product against a folded query.
// 3 = id prefix, 2 = name prefix, 1 = description contains, 0 = excluded.
func suggestScore(p Product, term string, fold func(string) string) int {
	switch {
	case strings.HasPrefix(fold(p.ID), term):
		return 3
	case strings.HasPrefix(fold(p.Name), term):
		return 2
	case strings.Contains(fold(p.Description), term):
		return 1
	default:
		return 0
	}
}

// Suggest returns up to MaxSuggestions products ranked by suggestScore.
// Ties keep catalog order. Queries shorter than MinSuggestRunes return nil.
func Suggest(products []Product, q string) []Product {
	fold := folder()
	term := fold(strings.TrimSpace(q))
	if utf8.RuneCountInString(term) < MinSuggestRunes {
		return nil
	}

	type scored struct {
		p     Product
		score int
	}
	var candidates []scored
	for _, p := range products {
		if s := suggestScore(p, term, fold); s > 0 {
			candidates = append(candidates, scored{p: p, score: s})
		}
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		return b.score - a.score
	})

	if len(candidates) > MaxSuggestions {
		candidates = candidates[:MaxSuggestions]
	}
	out := make([]Product, len(candidates))
	for i, c := range candidates {
		out[i] = c.p
	}
	return out
}

// FilterByTag returns the products whose name or description mentions tag.
// An empty tag matches everything; tags outside CatalogTags are rejected.
func FilterByTag(products []Product, tag string) ([]Product, error) {
	fold := folder()
	tag = fold(strings.TrimSpace(tag))
	if tag == "" {
		return cloneProducts(products), nil
	}
	if !slices.Contains(CatalogTags, tag) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold(p.Name), tag) || strings.Contains(fold(p.Description), tag) {
			out = append(out, p)
		}
	}
	return out, nil
}

// DetectTags lists the CatalogTags mentioned in a product's name or description.
func DetectTags(p Product) []string {
	fold := folder()
	text := fold(p.Name) + " " + fold(p.Description)
	var out []string
	for _, tag := range CatalogTags {
		if strings.Contains(text, tag) {
			out = append(out, tag)
		}
	}
	return out
}
