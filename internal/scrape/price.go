package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRegex matches the first number token in a price string, allowing
// thousands separators and a bare fractional form ("$1,299.99", "US$ 15",
// "$.99"; "1.299,00" is out of scope for the listing's native currency).
var priceRegex = regexp.MustCompile(`[0-9][0-9,]*(\.[0-9]+)?|\.[0-9]+`)

// ParsePrice normalizes price text to a numeric amount. Currency symbols
// and thousands separators are stripped. Unparsable text yields nil.
func ParsePrice(text string) *float64 {
	match := priceRegex.FindString(text)
	if match == "" {
		return nil
	}

	match = strings.ReplaceAll(match, ",", "")
	value, err := strconv.ParseFloat(match, 64)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}
