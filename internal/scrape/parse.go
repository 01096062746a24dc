package scrape

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"dealscout/internal/deal"
	"dealscout/logger"
)

// Parser converts raw page content into product candidates. It tolerates
// structural drift and missing fields; a page it cannot make sense of
// degrades to zero candidates plus a warning, never a failure.
type Parser struct{}

// NewParser creates a new parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseResult carries the candidates extracted from one page together with
// the soft warnings recorded along the way.
type ParseResult struct {
	Candidates []deal.Candidate
	Warnings   []string
}

// Parse extracts product candidates from the page in a single pass.
func (p *Parser) Parse(page RawPage) ParseResult {
	var result ParseResult

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: unreadable page content: %v", page.SourceName, err))
		return result
	}

	baseURL, err := url.Parse(page.SourceURL)
	if err != nil {
		baseURL = nil
	}

	blocks, strategyName := findBlocks(doc)
	if blocks == nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: no product blocks recognized", page.SourceName))
		return result
	}
	logger.Debug("%s: matched %d blocks with %s strategy", page.SourceName, blocks.Length(), strategyName)

	droppedNoID := 0
	droppedNoPrices := 0

	blocks.Each(func(_ int, s *goquery.Selection) {
		candidate, ok := extractCandidate(s, baseURL)
		if !ok {
			droppedNoID++
			return
		}
		if !candidate.HasBothPrices() {
			droppedNoPrices++
			return
		}
		result.Candidates = append(result.Candidates, candidate)
	})

	if droppedNoID > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: dropped %d blocks without a product identifier", page.SourceName, droppedNoID))
	}
	if droppedNoPrices > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: dropped %d candidates without both prices", page.SourceName, droppedNoPrices))
	}

	return result
}

// findBlocks tries the block strategies in order and returns the filtered
// selection of the first one that matches anything.
func findBlocks(doc *goquery.Document) (*goquery.Selection, string) {
	for _, strategy := range blockStrategies {
		sel := doc.Find(strategy.selector)
		if sel.Length() == 0 {
			continue
		}
		if strategy.skip != nil {
			sel = sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
				return !strategy.skip(s)
			})
		}
		return sel, strategy.name
	}
	return nil, ""
}

// extractCandidate extracts each field independently so one broken field
// does not lose the rest. ok is false when no stable identifier could be
// extracted; such blocks cannot be deduplicated and are dropped.
func extractCandidate(s *goquery.Selection, baseURL *url.URL) (deal.Candidate, bool) {
	rawURL := extractProductURL(s, baseURL)
	if rawURL == "" {
		return deal.Candidate{}, false
	}

	identifier := extractIdentifier(rawURL)
	if identifier == "" {
		return deal.Candidate{}, false
	}

	return deal.Candidate{
		Identifier:    identifier,
		Title:         extractTitle(s),
		CurrentPrice:  extractCurrentPrice(s),
		OriginalPrice: extractOriginalPrice(s),
		RawURL:        rawURL,
	}, true
}
