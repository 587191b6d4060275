package evaluation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hvac_quote_backend/internal/prediction"
	"hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type PropertyLookup interface {
	Lookup(ctx context.Context, address string) (*transport.Property, error)
}

type Predictor interface {
	Predict(ctx context.Context, property *transport.Property, hints prediction.Hints) (prediction.Result, error)
}

// Comparison is the outcome for one address.
type Comparison struct {
	Address   string              `json:"address"`
	Actual    Actual              `json:"actual"`
	Predicted Predicted           `json:"predicted"`
	Property  *transport.Property `json:"propertyData,omitempty"`
	MatchType MatchType           `json:"matchType"`
	Details   string              `json:"details"`
}

// Report summarizes one pass over the actuals.
type Report struct {
	TotalTests         int          `json:"totalTests"`
	ExactMatches       int          `json:"exactMatches"`
	CloseMatches       int          `json:"closeMatches"`
	DirectionalMatches int          `json:"directionalMatches"`
	IncorrectMatches   int          `json:"incorrectMatches"`
	AccuracyRate       float64      `json:"accuracyRate"`
	Comparisons        []Comparison `json:"comparisons"`
	Timestamp          time.Time    `json:"timestamp"`
}

// Summarize counts match types. Accuracy is (exact + close) / total * 100.
func Summarize(comparisons []Comparison, at time.Time) Report {
	r := Report{TotalTests: len(comparisons), Comparisons: comparisons, Timestamp: at.UTC()}
	for _, c := range comparisons {
		switch c.MatchType {
		case MatchExact:
			r.ExactMatches++
		case MatchClose:
			r.CloseMatches++
		case MatchDirectional:
			r.DirectionalMatches++
		default:
			r.IncorrectMatches++
		}
	}
	if r.TotalTests > 0 {
		r.AccuracyRate = float64(r.ExactMatches+r.CloseMatches) / float64(r.TotalTests) * 100
	}
	return r
}

// HintFunc derives homeowner hints from a recorded installation.
type HintFunc func(Actual) prediction.Hints

// NoHints predicts from property data alone.
func NoHints(Actual) prediction.Hints { return prediction.Hints{} }

type Runner struct {
	lookup      PropertyLookup
	predictor   Predictor
	limiter     *rate.Limiter
	concurrency int
	log         *logger.Logger
	now         func() time.Time

	cacheMu sync.Mutex
	cache   map[string]*transport.Property
}

// NewRunner paces model calls at perSecond with at most concurrency in flight.
func NewRunner(lookup PropertyLookup, predictor Predictor, perSecond float64, concurrency int, log *logger.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Runner{
		lookup:      lookup,
		predictor:   predictor,
		limiter:     rate.NewLimiter(limit, 1),
		concurrency: concurrency,
		log:         log,
		now:         time.Now,
		cache:       make(map[string]*transport.Property),
	}
}

// Run predicts every actual with hints and grades the answers. A failed
// lookup or prediction counts as incorrect; only cancellation stops the run.
func (r *Runner) Run(ctx context.Context, actuals []Actual, hints HintFunc) (Report, error) {
	if hints == nil {
		hints = NoHints
	}

	comparisons := make([]Comparison, len(actuals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, actual := range actuals {
		g.Go(func() error {
			if err := r.limiter.Wait(gctx); err != nil {
				return err
			}
			comparisons[i] = r.evaluate(gctx, actual, hints(actual))
			r.log.Info("evaluated address",
				"index", i+1,
				"total", len(actuals),
				"location", actual.Location,
				"match", string(comparisons[i].MatchType),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return Summarize(comparisons, r.now()), nil
}

func (r *Runner) evaluate(ctx context.Context, actual Actual, hints prediction.Hints) Comparison {
	c := Comparison{Address: actual.Location, Actual: actual}

	property, err := r.property(ctx, actual.Location)
	if err != nil {
		return r.failure(c, fmt.Errorf("property lookup: %w", err))
	}
	c.Property = property

	result, err := r.predictor.Predict(ctx, property, hints)
	if err != nil {
		return r.failure(c, err)
	}

	c.Predicted = fromResult(result)
	c.MatchType, c.Details = Compare(c.Predicted, actual)
	return c
}

func (r *Runner) failure(c Comparison, err error) Comparison {
	r.log.Warn("evaluation failed", "location", c.Address, "error", err)
	c.Predicted = failed(err)
	c.MatchType = MatchIncorrect
	c.Details = "Error: " + err.Error()
	return c
}

// property caches lookups so ablation passes hit the API once per address.
func (r *Runner) property(ctx context.Context, address string) (*transport.Property, error) {
	r.cacheMu.Lock()
	cached, ok := r.cache[address]
	r.cacheMu.Unlock()
	if ok {
		return cached, nil
	}

	p, err := r.lookup.Lookup(ctx, address)
	if err != nil {
		return nil, err
	}
	r.cacheMu.Lock()
	r.cache[address] = p
	r.cacheMu.Unlock()
	return p, nil
}
