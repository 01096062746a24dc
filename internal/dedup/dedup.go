package dedup

import (
	"sort"
	"time"

	"dealscout/internal/deal"
)

// Merge deduplicates deals accumulated across pages, annotates them against
// the seen-set and returns the final ordered deal list. Pages are processed
// in configured source order; the first occurrence of an identifier wins.
//
// The returned order is discount descending, then amount off descending,
// then identifier ascending, so runs over identical content are
// byte-for-byte reproducible. The seen-set is updated in place: published
// identifiers are touched with now, then stale entries are evicted.
func Merge(pages [][]deal.Deal, seen *SeenSet, now time.Time, maxItems int, retention time.Duration) []deal.Deal {
	chosen := make(map[string]bool)
	var merged []deal.Deal

	for _, pageDeals := range pages {
		for _, d := range pageDeals {
			if chosen[d.Identifier] {
				continue
			}
			chosen[d.Identifier] = true

			d.New = !seen.Contains(d.Identifier)
			merged = append(merged, d)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].DiscountPercent != merged[j].DiscountPercent {
			return merged[i].DiscountPercent > merged[j].DiscountPercent
		}
		if merged[i].AmountOff != merged[j].AmountOff {
			return merged[i].AmountOff > merged[j].AmountOff
		}
		return merged[i].Identifier < merged[j].Identifier
	})

	if maxItems > 0 && len(merged) > maxItems {
		merged = merged[:maxItems]
	}

	for _, d := range merged {
		seen.Touch(d.Identifier, now)
	}
	seen.Evict(retention, now)

	return merged
}
