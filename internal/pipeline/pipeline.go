package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"dealscout/config"
	"dealscout/internal/deal"
	"dealscout/internal/dedup"
	"dealscout/internal/publish"
	"dealscout/internal/scrape"
	"dealscout/logger"
	"dealscout/services/notify"
)

// PageFetcher retrieves one listing page. Implemented by scrape.Fetcher;
// stubbed in tests.
type PageFetcher interface {
	Fetch(ctx context.Context, sourceName, pageURL string) (scrape.RawPage, error)
}

// ArtifactPublisher writes the artifact set. Implemented by
// publish.Publisher; stubbed in tests.
type ArtifactPublisher interface {
	Publish(snap publish.Snapshot, seen *dedup.SeenSet) error
}

// Pipeline sequences one full run: fetch, parse, evaluate, dedupe,
// publish. A run executes to completion; the external scheduler owns
// cadence and run exclusion.
type Pipeline struct {
	cfg       config.Config
	sources   []config.Source
	fetcher   PageFetcher
	parser    *scrape.Parser
	evaluator *deal.Evaluator
	publisher ArtifactPublisher
	notifier  notify.Notifier
	log       *logger.Logger

	// now is swapped out in tests for reproducible metadata
	now func() time.Time
}

// New creates a pipeline. notifier may be nil when announcements are not
// configured.
func New(
	cfg config.Config,
	sources []config.Source,
	fetcher PageFetcher,
	publisher ArtifactPublisher,
	notifier notify.Notifier,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		sources:   sources,
		fetcher:   fetcher,
		parser:    scrape.NewParser(),
		evaluator: deal.NewEvaluator(cfg.AffiliateTag, cfg.AffiliateParam, cfg.MinDiscountPercent),
		publisher: publisher,
		notifier:  notifier,
		log:       logger.ForComponent("pipeline"),
		now:       time.Now,
	}
}

// Run executes one pipeline run and returns its report. Per-source fetch
// and parse failures degrade the run; only a publish failure or a run with
// zero fetched pages is fatal.
func (p *Pipeline) Run(ctx context.Context) Report {
	report := Report{PagesAttempted: len(p.sources)}
	start := p.now()

	p.log.Info().Int("sources", len(p.sources)).Msg("Fetching listing pages")
	pages := p.fetchAll(ctx, &report)

	p.log.Info().Int("pages", report.PagesSucceeded).Msg("Parsing fetched pages")
	pageDeals := p.parseAndEvaluate(pages, &report)

	if report.PagesSucceeded == 0 {
		report.Outcome = Failed
		p.log.Error().Msg("No source yielded data; keeping previously published artifacts")
		p.logSummary(report, start)
		return report
	}

	p.log.Info().Msg("Deduplicating deals")
	seen, err := dedup.LoadSeenSet(p.cfg.SeenFile)
	if err != nil {
		// A corrupt seen-set costs only the "new" flags, not the run
		report.warn("seen-set unreadable, starting fresh: " + err.Error())
		seen = dedup.NewSeenSet()
	}
	runTime := p.now()
	deals := dedup.Merge(pageDeals, seen, runTime, p.cfg.MaxItems, p.cfg.SeenRetention)

	for _, d := range deals {
		if d.New {
			report.NewDeals++
		}
	}

	p.log.Info().Int("deals", len(deals)).Msg("Publishing artifact set")
	snap := publish.Snapshot{
		GeneratedAt: runTime,
		Outcome:     string(p.outcomeForPages(report)),
		Deals:       deals,
	}
	if err := p.publisher.Publish(snap, seen); err != nil {
		report.Outcome = Failed
		report.warn("publish failed: " + err.Error())
		p.log.Error().Err(err).Msg("Publish failed; previously published artifacts remain live")
		p.logSummary(report, start)
		return report
	}
	report.DealsPublished = len(deals)

	p.announceNewDeals(ctx, deals, &report)

	report.Outcome = p.outcomeForPages(report)
	p.logSummary(report, start)
	return report
}

// fetchAll fetches every source with bounded concurrency. Results are
// slotted by source index so downstream merging is deterministic no matter
// which fetch finished first.
func (p *Pipeline) fetchAll(ctx context.Context, report *Report) []*scrape.RawPage {
	pages := make([]*scrape.RawPage, len(p.sources))
	fetchErrs := make([]error, len(p.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.FetchConcurrency)

	for i, source := range p.sources {
		i, source := i, source
		g.Go(func() error {
			page, err := p.fetcher.Fetch(gctx, source.Name, source.URL)
			if err != nil {
				// Recorded, not returned: sibling fetches continue
				fetchErrs[i] = err
				return nil
			}
			pages[i] = &page
			return nil
		})
	}
	// Goroutines never return errors; Wait only propagates ctx cancellation
	if err := g.Wait(); err != nil {
		report.warn("fetch cancelled: " + err.Error())
	}

	for i, err := range fetchErrs {
		if err != nil {
			report.warn(p.sources[i].Name + ": fetch failed: " + err.Error())
			logger.ForSource(p.sources[i].Name).Warn().Err(err).Msg("Skipping source")
		}
	}
	for _, page := range pages {
		if page != nil {
			report.PagesSucceeded++
		}
	}
	return pages
}

// parseAndEvaluate turns fetched pages into qualifying deals, keeping the
// per-page grouping so dedup can honor source order.
func (p *Pipeline) parseAndEvaluate(pages []*scrape.RawPage, report *Report) [][]deal.Deal {
	pageDeals := make([][]deal.Deal, 0, len(pages))

	for _, page := range pages {
		if page == nil {
			continue
		}

		result := p.parser.Parse(*page)
		report.CandidatesParsed += len(result.Candidates)
		for _, w := range result.Warnings {
			report.warn(w)
		}

		var deals []deal.Deal
		for _, candidate := range result.Candidates {
			d, err := p.evaluator.Evaluate(candidate)
			if err != nil {
				report.warn(page.SourceName + ": " + err.Error())
				continue
			}
			if d != nil {
				deals = append(deals, *d)
			}
		}
		pageDeals = append(pageDeals, deals)
	}

	return pageDeals
}

// announceNewDeals pushes newly seen deals to the notifier, if configured
func (p *Pipeline) announceNewDeals(ctx context.Context, deals []deal.Deal, report *Report) {
	if p.notifier == nil {
		return
	}

	for _, d := range deals {
		if !d.New {
			continue
		}
		if err := p.notifier.Announce(ctx, d); err != nil {
			report.warn("announce failed for " + d.Identifier + ": " + err.Error())
		}
	}
	if err := p.notifier.Trim(ctx); err != nil {
		report.warn("stream trim failed: " + err.Error())
	}
}

// outcomeForPages maps fetch results to the non-fatal outcomes
func (p *Pipeline) outcomeForPages(report Report) Outcome {
	if report.PagesSucceeded == report.PagesAttempted {
		return Succeeded
	}
	return PartiallySucceeded
}

// logSummary emits the run summary the external scheduler surfaces
func (p *Pipeline) logSummary(report Report, start time.Time) {
	p.log.Info().
		Str("outcome", string(report.Outcome)).
		Int("pages_attempted", report.PagesAttempted).
		Int("pages_succeeded", report.PagesSucceeded).
		Int("candidates_parsed", report.CandidatesParsed).
		Int("deals_published", report.DealsPublished).
		Int("new_deals", report.NewDeals).
		Int("warnings", len(report.Warnings)).
		Dur("elapsed", p.now().Sub(start)).
		Msg("Run complete")

	for _, w := range report.Warnings {
		p.log.Warn().Msg(w)
	}
}
