package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/PetruGlt/StatesOfTheWorld/internal/fetch"
	"github.com/PetruGlt/StatesOfTheWorld/internal/logging"
	"github.com/PetruGlt/StatesOfTheWorld/internal/markup"
	"github.com/PetruGlt/StatesOfTheWorld/internal/monitoring"
)

// Site-relative paths of the two listing pages driving a batch run.
const (
	CatalogPath   = "/wiki/List_of_sovereign_states"
	NeighborsPath = "/wiki/List_of_countries_and_territories_by_number_of_land_borders"
)

// Fetcher retrieves raw page markup by site-relative path.
type Fetcher interface {
	Get(ctx context.Context, path string) (string, error)
}

// Pipeline runs the sequential batch: neighbor map first, then the catalog,
// then one fetch-and-assemble pass per entity reference. Per-entity
// failures are logged and skipped; only a missing catalog aborts the run.
type Pipeline struct {
	fetcher  Fetcher
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	progress bool
}

// NewPipeline creates a batch pipeline. metrics may be nil.
func NewPipeline(fetcher Fetcher, logger *logging.Logger, metrics *monitoring.Metrics) *Pipeline {
	return &Pipeline{fetcher: fetcher, logger: logger, metrics: metrics}
}

// WithProgress enables a terminal progress bar over the entity loop.
func (p *Pipeline) WithProgress() *Pipeline {
	p.progress = true
	return p
}

// Run executes one full batch and returns the assembled records in catalog
// order. The output may be shorter than the catalog; skipped entities
// contribute nothing.
func (p *Pipeline) Run(ctx context.Context) ([]CountryRecord, error) {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))
	logger.Info("Starting scrape batch")

	neighbors := p.buildNeighbors(ctx, logger)

	refs, err := p.enumerate(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Catalog enumerated", zap.Int("entities", len(refs)))

	var bar *progressbar.ProgressBar
	if p.progress {
		bar = progressbar.Default(int64(len(refs)), "scraping")
	}

	records := make([]CountryRecord, 0, len(refs))
	for _, ref := range refs {
		if bar != nil {
			_ = bar.Add(1)
		}

		rec, reason := p.processEntity(ctx, ref, neighbors)
		if reason != SkipNone {
			logger.Warn("Entity skipped",
				zap.String("ref", ref),
				zap.String("reason", reason.String()),
			)
			p.recordEntity(reason.String())
			continue
		}

		records = append(records, *rec)
		p.recordEntity("success")
	}

	logger.Info("Scrape batch finished",
		zap.Int("records", len(records)),
		zap.Int("skipped", len(refs)-len(records)),
	)
	return records, nil
}

// buildNeighbors fetches and parses the borders listing. Any failure
// degrades to an empty map; downstream treats absence as no neighbors.
func (p *Pipeline) buildNeighbors(ctx context.Context, logger *logging.Logger) *NeighborMap {
	body, err := p.timedGet(ctx, NeighborsPath)
	if err != nil {
		logger.Warn("Borders page fetch failed, neighbor map left empty", zap.Error(err))
		return NewNeighborMap()
	}

	doc, err := markup.Load(body)
	if err != nil {
		logger.Warn("Borders page unparsable, neighbor map left empty", zap.Error(err))
		return NewNeighborMap()
	}

	return BuildNeighborMap(doc, logger)
}

// enumerate fetches the catalog page and lists the entity references.
func (p *Pipeline) enumerate(ctx context.Context) ([]string, error) {
	body, err := p.timedGet(ctx, CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}

	doc, err := markup.Load(body)
	if err != nil {
		return nil, fmt.Errorf("catalog page unparsable: %w", err)
	}

	refs := EnumerateCatalog(doc)
	if len(refs) == 0 {
		return nil, errors.New("catalog table not found on listing page")
	}
	return refs, nil
}

// processEntity fetches one entity page and assembles its record against
// the read-only neighbor map, classifying fetch and parse outcomes into
// skip reasons.
func (p *Pipeline) processEntity(ctx context.Context, ref string, neighbors *NeighborMap) (*CountryRecord, SkipReason) {
	body, err := p.timedGet(ctx, ref)
	if err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) {
			return nil, SkipBadStatus
		}
		return nil, SkipTransport
	}

	doc, err := markup.Load(body)
	if err != nil {
		return nil, SkipUnparsable
	}

	return Assemble(doc, neighbors)
}

// timedGet wraps the fetcher with outcome metrics.
func (p *Pipeline) timedGet(ctx context.Context, path string) (string, error) {
	start := time.Now()
	body, err := p.fetcher.Get(ctx, path)
	if p.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		p.metrics.RecordFetch(outcome, time.Since(start))
	}
	return body, err
}

func (p *Pipeline) recordEntity(outcome string) {
	if p.metrics != nil {
		p.metrics.RecordEntity(outcome)
	}
}
