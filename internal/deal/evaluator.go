package deal

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"dealscout/pkg/errors"
)

// Evaluator computes discount metrics for candidates, filters them against
// the configured minimum discount and rewrites product links with the
// affiliate tag.
type Evaluator struct {
	AffiliateTag   string
	AffiliateParam string
	MinDiscount    int
}

// NewEvaluator creates a new evaluator
func NewEvaluator(affiliateTag, affiliateParam string, minDiscount int) *Evaluator {
	return &Evaluator{
		AffiliateTag:   affiliateTag,
		AffiliateParam: affiliateParam,
		MinDiscount:    minDiscount,
	}
}

// Evaluate turns a candidate into a Deal, or returns (nil, nil) when the
// candidate does not qualify. An error is returned only when the candidate
// is structurally unusable (link that cannot be parsed as a URL); callers
// record it as a warning, never as a run failure.
func (e *Evaluator) Evaluate(c Candidate) (*Deal, error) {
	if !c.HasBothPrices() {
		return nil, nil
	}

	current := *c.CurrentPrice
	original := *c.OriginalPrice

	// Undefined discount, not 100% off
	if original <= 0 {
		return nil, nil
	}
	if current > original {
		return nil, errors.NewValidation(c.Identifier, "current price exceeds original price")
	}

	percent := DiscountPercent(current, original)
	if percent < e.MinDiscount {
		return nil, nil
	}

	affiliateURL, err := e.RewriteURL(c.RawURL)
	if err != nil {
		return nil, errors.NewValidation(c.Identifier, fmt.Sprintf("unusable product link %q", c.RawURL))
	}

	title := c.Title
	if title == "" {
		title = "Unknown Product"
	}

	amountOff := original - current

	return &Deal{
		Identifier:      c.Identifier,
		Title:           title,
		CurrentPrice:    current,
		OriginalPrice:   original,
		DiscountPercent: percent,
		AmountOff:       amountOff,
		AffiliateURL:    affiliateURL,
		PostTitle:       formatPostTitle(title, percent, current, original, amountOff),
	}, nil
}

// DiscountPercent computes the rounded discount percentage, half-up.
func DiscountPercent(current, original float64) int {
	return int(math.Floor(100*(original-current)/original + 0.5))
}

// RewriteURL sets the affiliate parameter on rawURL, replacing an existing
// one in place so the tag is never duplicated. All other query parameters
// and the path are left untouched.
func (e *Evaluator) RewriteURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("not an absolute URL: %s", rawURL)
	}

	pair := e.AffiliateParam + "=" + url.QueryEscape(e.AffiliateTag)

	var params []string
	replaced := false
	if u.RawQuery != "" {
		for _, p := range strings.Split(u.RawQuery, "&") {
			key, _, _ := strings.Cut(p, "=")
			if key == e.AffiliateParam {
				if !replaced {
					params = append(params, pair)
					replaced = true
				}
				continue
			}
			params = append(params, p)
		}
	}
	if !replaced {
		params = append(params, pair)
	}

	u.RawQuery = strings.Join(params, "&")
	return u.String(), nil
}

// formatPostTitle builds the human-facing headline carried into the JSON
// snapshot and the HTML listing.
func formatPostTitle(title string, percent int, current, original, amountOff float64) string {
	return fmt.Sprintf("🔥 %d%% OFF! %s - $%.2f (was $%.2f, $%.2f off)",
		percent, title, current, original, amountOff)
}
