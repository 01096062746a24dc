package pipeline

// Outcome is the terminal state of one pipeline run
type Outcome string

const (
	// Succeeded means every configured source was fetched and the
	// artifact set was published (possibly with zero deals).
	Succeeded Outcome = "succeeded"
	// PartiallySucceeded means at least one source failed but the
	// artifact set was still published from the rest.
	PartiallySucceeded Outcome = "partially_succeeded"
	// Failed means no source yielded data or the publish step failed;
	// previously published artifacts remain live.
	Failed Outcome = "failed"
)

// Report summarizes one pipeline run for the external scheduler
type Report struct {
	Outcome          Outcome
	PagesAttempted   int
	PagesSucceeded   int
	CandidatesParsed int
	DealsPublished   int
	NewDeals         int
	Warnings         []string
}

// warn records a warning on the report
func (r *Report) warn(message string) {
	r.Warnings = append(r.Warnings, message)
}
