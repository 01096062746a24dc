package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dealscout/helpers"
)

// The source site's markup changes without notice, so product blocks and
// fields are located by ordered fallback strategies instead of one rigid
// rule. The first strategy that matches anything on the page wins.

// blockStrategy locates product blocks on a listing page
type blockStrategy struct {
	name     string
	selector string
	// skip filters out blocks that are not real products (sponsored slots)
	skip func(*goquery.Selection) bool
}

var blockStrategies = []blockStrategy{
	{
		name: "deal-cards",
		selector: ".dealContainer, .dealTile, .deal-card, [data-testid=\"deal-card\"], " +
			".a-carousel-card, .octopus-pc-card, .octopus-pc-item",
	},
	{
		name:     "search-results",
		selector: ".s-result-item",
		skip: func(s *goquery.Selection) bool {
			return s.Find(".s-sponsored-label-info-icon").Length() > 0
		},
	},
}

// fieldSelectors is an ordered list of selectors tried until one matches
type fieldSelectors []string

var (
	titleSelectors = fieldSelectors{
		".dealTitle", "[data-testid=\"deal-title\"]", "h2 a span", ".a-text-normal",
	}
	currentPriceSelectors = fieldSelectors{
		".a-price .a-offscreen", ".dealPrice", "[data-testid=\"deal-price\"]",
	}
	originalPriceSelectors = fieldSelectors{
		".a-text-strike", ".a-text-price .a-offscreen", ".dealOriginalPrice",
		"[data-testid=\"deal-original-price\"]",
	}
)

// firstText returns the trimmed text of the first matching selector
func (fs fieldSelectors) firstText(s *goquery.Selection) string {
	for _, sel := range fs {
		found := s.Find(sel)
		if found.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(found.First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// extractTitle extracts the product title, empty when nothing matched
func extractTitle(s *goquery.Selection) string {
	return titleSelectors.firstText(s)
}

// extractCurrentPrice extracts the current price, nil when missing
func extractCurrentPrice(s *goquery.Selection) *float64 {
	text := currentPriceSelectors.firstText(s)
	if text == "" {
		return nil
	}
	return ParsePrice(text)
}

// extractOriginalPrice extracts the pre-discount price, nil when missing
func extractOriginalPrice(s *goquery.Selection) *float64 {
	text := originalPriceSelectors.firstText(s)
	if text == "" {
		return nil
	}
	return ParsePrice(text)
}

// extractProductURL finds the product link inside a block and resolves it
// against the page URL. Only links to a product detail path qualify.
func extractProductURL(s *goquery.Selection, base *url.URL) string {
	link := s.Find("a[href*=\"/dp/\"]").First()
	if link.Length() == 0 {
		return ""
	}
	href, exists := link.Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		return ""
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	return ref.String()
}

// extractIdentifier pulls the stable product key out of the detail path,
// e.g. "https://host/x/dp/B0ABC123/ref=foo?x=1" yields "B0ABC123".
func extractIdentifier(productURL string) string {
	tail, err := helpers.GetSplitPart(productURL, "/dp/", 1)
	if err != nil || tail == "" {
		return ""
	}
	id, _, _ := strings.Cut(tail, "/")
	id, _, _ = strings.Cut(id, "?")
	return id
}
