package deal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 {
	return &v
}

func candidate(id string, current, original float64) Candidate {
	return Candidate{
		Identifier:    id,
		Title:         "Test Product",
		CurrentPrice:  price(current),
		OriginalPrice: price(original),
		RawURL:        "https://www.example.com/dp/" + id,
	}
}

func TestEvaluateComputesDiscount(t *testing.T) {
	e := NewEvaluator("nicdav09-20", "tag", 50)

	d, err := e.Evaluate(candidate("B0X", 25.00, 100.00))
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.Equal(t, 75, d.DiscountPercent)
	assert.Equal(t, 75.00, d.AmountOff)
	assert.Equal(t, 25.00, d.CurrentPrice)
	assert.Equal(t, 100.00, d.OriginalPrice)
	assert.Contains(t, d.PostTitle, "75% OFF!")
	assert.Contains(t, d.PostTitle, "Test Product")
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	e := NewEvaluator("nicdav09-20", "tag", 50)

	// 100*(200-101)/200 = 49.5, rounds half-up to 50: included
	d, err := e.Evaluate(candidate("B0A", 101.00, 200.00))
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 50, d.DiscountPercent)

	// 100*(1000-506)/1000 = 49.4, rounds to 49: excluded
	d, err = e.Evaluate(candidate("B0B", 506.00, 1000.00))
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestEvaluateExclusions(t *testing.T) {
	e := NewEvaluator("nicdav09-20", "tag", 50)

	// Zero original price: undefined discount, not 100% off
	d, err := e.Evaluate(candidate("B0C", 0, 0))
	require.NoError(t, err)
	assert.Nil(t, d)

	// Below threshold
	d, err = e.Evaluate(candidate("B0D", 60.00, 100.00))
	require.NoError(t, err)
	assert.Nil(t, d)

	// Missing prices
	c := candidate("B0E", 10.00, 100.00)
	c.OriginalPrice = nil
	d, err = e.Evaluate(c)
	require.NoError(t, err)
	assert.Nil(t, d)

	c = candidate("B0F", 10.00, 100.00)
	c.CurrentPrice = nil
	d, err = e.Evaluate(c)
	require.NoError(t, err)
	assert.Nil(t, d)

	// Current above original violates the candidate invariant
	d, err = e.Evaluate(candidate("B0G", 150.00, 100.00))
	assert.Error(t, err)
	assert.Nil(t, d)
}

func TestEvaluateMalformedURL(t *testing.T) {
	e := NewEvaluator("nicdav09-20", "tag", 50)

	c := candidate("B0H", 25.00, 100.00)
	c.RawURL = "dp/B0H-relative-only"
	d, err := e.Evaluate(c)
	assert.Error(t, err, "a deal without a usable link has no value")
	assert.Nil(t, d)
}

func TestEvaluateTitlePlaceholder(t *testing.T) {
	e := NewEvaluator("nicdav09-20", "tag", 50)

	c := candidate("B0I", 25.00, 100.00)
	c.Title = ""
	d, err := e.Evaluate(c)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Unknown Product", d.Title)
}

func TestRewriteURLReplacesExistingTag(t *testing.T) {
	e := NewEvaluator("nicdav09-20", "tag", 50)

	got, err := e.RewriteURL("https://site/dp/B000?tag=other&ref=x")
	require.NoError(t, err)
	assert.Equal(t, "https://site/dp/B000?tag=nicdav09-20&ref=x", got,
		"existing tag replaced in place, sibling params preserved")
}

func TestRewriteURLAppendsTag(t *testing.T) {
	e := NewEvaluator("nicdav09-20", "tag", 50)

	got, err := e.RewriteURL("https://site/dp/B000")
	require.NoError(t, err)
	assert.Equal(t, "https://site/dp/B000?tag=nicdav09-20", got)

	got, err = e.RewriteURL("https://site/dp/B000?ref=x")
	require.NoError(t, err)
	assert.Equal(t, "https://site/dp/B000?ref=x&tag=nicdav09-20", got)
}

func TestRewriteURLCollapsesDuplicateTags(t *testing.T) {
	e := NewEvaluator("nicdav09-20", "tag", 50)

	got, err := e.RewriteURL("https://site/dp/B000?tag=a&ref=x&tag=b")
	require.NoError(t, err)
	assert.Equal(t, "https://site/dp/B000?tag=nicdav09-20&ref=x", got)
}

func TestDiscountPercentRange(t *testing.T) {
	cases := []struct {
		current, original float64
		want              int
	}{
		{100, 100, 0},
		{0, 100, 100},
		{50, 100, 50},
		{66.67, 100, 33},
		{33.33, 100, 67},
	}
	for _, c := range cases {
		got := DiscountPercent(c.current, c.original)
		assert.Equal(t, c.want, got, "discount for %v of %v", c.current, c.original)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}
