package scrape

import "time"

// RawPage is fetched listing content awaiting parsing. It lives only for
// the fetch-to-parse handoff within a single run.
type RawPage struct {
	SourceName string
	SourceURL  string
	Body       []byte
	FetchedAt  time.Time
}
