package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(body string) RawPage {
	return RawPage{
		SourceName: "test",
		SourceURL:  "https://www.example.com/gp/goldbox",
		Body:       []byte(body),
		FetchedAt:  time.Now(),
	}
}

func TestParseDealCards(t *testing.T) {
	html := `<html><body>
		<div class="dealContainer">
			<a href="/dp/B0AAAA111?ref=dlx">deal</a>
			<span class="dealTitle">Cordless Drill</span>
			<span class="a-price"><span class="a-offscreen">$49.99</span></span>
			<span class="a-text-strike">$100.00</span>
		</div>
		<div class="dealContainer">
			<a href="https://www.example.com/dp/B0BBBB222/ref=foo">deal</a>
			<span class="dealTitle">Air Fryer</span>
			<span class="a-price"><span class="a-offscreen">$30.00</span></span>
			<span class="a-text-strike">$120.00</span>
		</div>
	</body></html>`

	result := NewParser().Parse(page(html))
	require.Len(t, result.Candidates, 2)
	assert.Empty(t, result.Warnings)

	first := result.Candidates[0]
	assert.Equal(t, "B0AAAA111", first.Identifier)
	assert.Equal(t, "Cordless Drill", first.Title)
	require.True(t, first.HasBothPrices())
	assert.Equal(t, 49.99, *first.CurrentPrice)
	assert.Equal(t, 100.00, *first.OriginalPrice)
	assert.Equal(t, "https://www.example.com/dp/B0AAAA111?ref=dlx", first.RawURL, "relative link should be resolved against the page URL")

	second := result.Candidates[1]
	assert.Equal(t, "B0BBBB222", second.Identifier)
}

func TestParseSearchResultsFallback(t *testing.T) {
	// No deal-card markup at all, only search results; the sponsored
	// item must be skipped.
	html := `<html><body>
		<div class="s-result-item">
			<h2><a href="/dp/B0CCCC333?qid=1"><span>Robot Vacuum</span></a></h2>
			<span class="a-price"><span class="a-offscreen">$99.00</span></span>
			<span class="a-text-price"><span class="a-offscreen">$200.00</span></span>
		</div>
		<div class="s-result-item">
			<span class="s-sponsored-label-info-icon"></span>
			<h2><a href="/dp/B0DDDD444"><span>Sponsored Gadget</span></a></h2>
			<span class="a-price"><span class="a-offscreen">$10.00</span></span>
			<span class="a-text-price"><span class="a-offscreen">$40.00</span></span>
		</div>
	</body></html>`

	result := NewParser().Parse(page(html))
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "B0CCCC333", result.Candidates[0].Identifier)
	assert.Equal(t, "Robot Vacuum", result.Candidates[0].Title)
}

func TestParseDropsIncompleteBlocks(t *testing.T) {
	html := `<html><body>
		<div class="dealContainer">
			<span class="dealTitle">No link at all</span>
			<span class="a-price"><span class="a-offscreen">$5.00</span></span>
		</div>
		<div class="dealContainer">
			<a href="/dp/B0EEEE555">deal</a>
			<span class="dealTitle">Only current price</span>
			<span class="a-price"><span class="a-offscreen">$5.00</span></span>
		</div>
		<div class="dealContainer">
			<a href="/dp/B0FFFF666">deal</a>
			<span class="dealTitle">Unparsable prices</span>
			<span class="a-price"><span class="a-offscreen">see below</span></span>
			<span class="a-text-strike">N/A</span>
		</div>
	</body></html>`

	result := NewParser().Parse(page(html))
	assert.Empty(t, result.Candidates)
	assert.Len(t, result.Warnings, 2, "one warning for missing identifiers, one for missing prices")
}

func TestParseMissingTitleKeepsCandidate(t *testing.T) {
	html := `<html><body>
		<div class="dealContainer">
			<a href="/dp/B0GGGG777">deal</a>
			<span class="a-price"><span class="a-offscreen">$25.00</span></span>
			<span class="a-text-strike">$50.00</span>
		</div>
	</body></html>`

	result := NewParser().Parse(page(html))
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "", result.Candidates[0].Title, "missing title is tolerated, placeholder applied later")
}

func TestParseUnrecognizedLayout(t *testing.T) {
	result := NewParser().Parse(page(`<html><body><p>Totally different page</p></body></html>`))
	assert.Empty(t, result.Candidates)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no product blocks recognized")
}

func TestExtractIdentifier(t *testing.T) {
	assert.Equal(t, "B0TEST123", extractIdentifier("https://www.example.com/dp/B0TEST123/ref=gbps?pf=1"))
	assert.Equal(t, "B0TEST123", extractIdentifier("https://www.example.com/dp/B0TEST123?tag=x"))
	assert.Equal(t, "B0TEST123", extractIdentifier("https://www.example.com/product/dp/B0TEST123"))
	assert.Equal(t, "", extractIdentifier("https://www.example.com/gp/goldbox"))
}
