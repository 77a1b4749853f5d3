package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/hjaltalin/caselink/internal/extract"
	"github.com/hjaltalin/caselink/internal/model"
	"github.com/hjaltalin/caselink/internal/reconcile"
	"github.com/hjaltalin/caselink/internal/store"
	"github.com/hjaltalin/caselink/internal/util"
)

// Pipeline runs one complete crawl: discover detail links on both listing
// pages, scrape each detail page, resolve cross-references, merge with the
// persisted record set and write the outputs. Execution is strictly
// sequential; the store is read once at the start and replaced once at the
// end, so concurrent runs must be serialized externally.
type Pipeline struct {
	fetcher *Fetcher
	store   store.RecordStore
	robots  *util.RobotsGate // nil disables robots.txt checks
	cfg     *model.Config
}

// NewPipeline creates a pipeline from the configuration and record store
func NewPipeline(cfg *model.Config, st store.RecordStore) *Pipeline {
	var robots *util.RobotsGate
	if cfg.Robots.Enabled {
		robots = util.NewRobotsGate(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	return &Pipeline{
		fetcher: NewFetcher(cfg.HTTP, NewPageCache(cfg.Cache)),
		store:   st,
		robots:  robots,
		cfg:     cfg,
	}
}

// RunSummary reports what a crawl did
type RunSummary struct {
	VerdictLinks  int
	DecisionLinks int
	PriorRecords  int
	AddedRecords  int
	TotalRecords  int
	Groups        int
	GroupEntries  int
}

// Run executes one crawl. A listing-page failure is fatal and leaves the
// persisted store untouched; detail-page and cross-reference failures are
// absorbed per record.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	prior, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load existing records: %w", err)
	}

	src := p.cfg.Sources

	verdictLinks, err := p.discover(ctx, src.VerdictListPath, src.VerdictDetailPrefix)
	if err != nil {
		return nil, fmt.Errorf("discover verdicts: %w", err)
	}
	p.progress("Found %d verdict pages", len(verdictLinks))

	decisionLinks, err := p.discover(ctx, src.DecisionListPath, src.DecisionDetailPrefix)
	if err != nil {
		return nil, fmt.Errorf("discover decisions: %w", err)
	}
	p.progress("Found %d decision pages", len(decisionLinks))

	scraped := make([]model.Record, 0, len(verdictLinks)+len(decisionLinks))
	for _, link := range verdictLinks {
		scraped = append(scraped, p.scrapeDetail(ctx, link, model.SourceVerdict))
	}
	for _, link := range decisionLinks {
		scraped = append(scraped, p.scrapeDetail(ctx, link, model.SourceDecision))
	}

	merged := reconcile.Merge(prior, scraped)
	if err := p.store.Save(merged); err != nil {
		return nil, fmt.Errorf("save records: %w", err)
	}

	mapping := reconcile.Group(merged)
	if err := store.WriteMapping(p.cfg.Output.JSONPath, mapping); err != nil {
		return nil, fmt.Errorf("write mapping: %w", err)
	}

	return &RunSummary{
		VerdictLinks:  len(verdictLinks),
		DecisionLinks: len(decisionLinks),
		PriorRecords:  len(prior),
		AddedRecords:  len(merged) - len(prior),
		TotalRecords:  len(merged),
		Groups:        len(mapping),
		GroupEntries:  reconcile.MappingSize(mapping),
	}, nil
}

// discover fetches a listing page and returns its detail-page links.
// Any failure here aborts the run: proceeding with a partial link set
// risks mass data loss in the merge.
func (p *Pipeline) discover(ctx context.Context, listPath string, detailPrefix string) ([]string, error) {
	listURL := p.cfg.Sources.BaseURL + listPath

	body, err := p.fetch(ctx, listURL)
	if err != nil {
		return nil, err
	}

	return extract.DiscoverLinks(body, p.cfg.Sources.BaseURL, detailPrefix)
}

// scrapeDetail extracts one record from a detail page. Fetch failures are
// absorbed: the record comes back without identifiers and is dropped by
// the merge.
func (p *Pipeline) scrapeDetail(ctx context.Context, pageURL string, src model.SourceType) model.Record {
	rec := model.Record{
		SupremeCaseLink: pageURL,
		SourceType:      src,
	}

	body, err := p.fetch(ctx, pageURL)
	if err != nil {
		p.progress("! failed to fetch %s: %v", pageURL, err)
		return rec
	}

	rec.SupremeCaseNumber = extract.FirstSupremeNumber(body)

	crossRef := extract.FirstCrossRefLink(body, p.cfg.Sources.AppealsHost)
	if crossRef != "" {
		rec.AppealsCaseLink = crossRef
		rec.AppealsCaseNumber = p.resolveAppealsNumber(ctx, crossRef)
	}

	return rec
}

// resolveAppealsNumber fetches a cross-reference page and returns the first
// qualifying appeals case number, or "" when the fetch fails or nothing at
// or after the cutoff year appears
func (p *Pipeline) resolveAppealsNumber(ctx context.Context, crossRefURL string) string {
	p.progress("  → fetching appeals page %s", crossRefURL)

	body, err := p.fetch(ctx, crossRefURL)
	if err != nil {
		p.progress("    ! failed to fetch appeals page: %v", err)
		return ""
	}

	return extract.FirstAppealsNumber(body, p.cfg.Sources.AppealsYearCutoff)
}

// fetch applies the robots.txt gate before hitting the network
func (p *Pipeline) fetch(ctx context.Context, rawURL string) (string, error) {
	if p.robots != nil && !p.robots.Allowed(ctx, rawURL) {
		return "", fmt.Errorf("blocked by robots.txt: %s", rawURL)
	}
	return p.fetcher.Fetch(ctx, rawURL)
}

// progress prints best-effort diagnostics when verbose output is on
func (p *Pipeline) progress(format string, args ...any) {
	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
