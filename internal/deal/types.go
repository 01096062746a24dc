package deal

// Candidate is a parsed, pre-filter product record. Price fields are nil
// when the page did not yield a parsable value for them.
type Candidate struct {
	Identifier    string
	Title         string
	CurrentPrice  *float64
	OriginalPrice *float64
	RawURL        string
}

// HasBothPrices reports whether a discount can be computed for the candidate
func (c Candidate) HasBothPrices() bool {
	return c.CurrentPrice != nil && c.OriginalPrice != nil
}

// Deal is a candidate that cleared the discount threshold, enriched with
// discount metrics and an affiliate-tagged link. Immutable once constructed.
type Deal struct {
	Identifier      string  `json:"identifier"`
	Title           string  `json:"title"`
	CurrentPrice    float64 `json:"current_price"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountPercent int     `json:"discount_percent"`
	AmountOff       float64 `json:"amount_off"`
	AffiliateURL    string  `json:"affiliate_url"`
	PostTitle       string  `json:"post_title"`
	New             bool    `json:"new"`
}
