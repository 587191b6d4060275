package leads

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"hvac_quote_backend/internal/events"
	"hvac_quote_backend/internal/leads/domain"
	"hvac_quote_backend/internal/leads/management"
	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/internal/leads/transport"
	"hvac_quote_backend/internal/prediction"
	propertytransport "hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Predictor produces one equipment configuration for a property.
type Predictor interface {
	Predict(ctx context.Context, property *propertytransport.Property, hints prediction.Hints) (prediction.Result, error)
}

// PredictionRepository is the slice of the lead store the orchestrator writes through.
type PredictionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	ReplacePredictions(ctx context.Context, leadID uuid.UUID, inputs []repository.PredictionInput, status string) ([]repository.Prediction, error)
}

// Orchestrator turns a surveyed lead into priced predictions.
type Orchestrator struct {
	repo      PredictionRepository
	predictor Predictor
	eventBus  events.Bus
	log       *logger.Logger

	activeRuns map[uuid.UUID]bool
	runsMu     sync.Mutex
}

func NewOrchestrator(repo PredictionRepository, predictor Predictor, eventBus events.Bus, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		repo:       repo,
		predictor:  predictor,
		eventBus:   eventBus,
		log:        log,
		activeRuns: make(map[uuid.UUID]bool),
	}
}

// markRunning returns false when a prediction for the lead is already in flight.
func (o *Orchestrator) markRunning(leadID uuid.UUID) bool {
	o.runsMu.Lock()
	defer o.runsMu.Unlock()

	if o.activeRuns[leadID] {
		return false
	}
	o.activeRuns[leadID] = true
	return true
}

func (o *Orchestrator) markComplete(leadID uuid.UUID) {
	o.runsMu.Lock()
	defer o.runsMu.Unlock()
	delete(o.activeRuns, leadID)
}

// Predict runs one model call per variant, replaces the lead's predictions
// and marks it quoted. A failed call leaves the stored predictions untouched.
func (o *Orchestrator) Predict(ctx context.Context, leadID uuid.UUID) ([]transport.PredictionResponse, error) {
	if o.predictor == nil {
		return nil, apperr.Unavailable("prediction is not configured")
	}
	if !o.markRunning(leadID) {
		return nil, apperr.Conflict("a prediction for this lead is already running")
	}
	defer o.markComplete(leadID)

	log := o.log.WithContext(ctx).WithLead(leadID.String())

	lead, err := o.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, err
	}

	property, err := propertySnapshot(lead)
	if err != nil {
		return nil, err
	}

	rooms := domain.ZoneCount(property.Bedrooms)
	answer := domain.DuctworkNotSure
	if lead.HasDuctwork != nil {
		answer = domain.Ductwork(*lead.HasDuctwork)
	}
	variants := domain.VariantsFor(answer)

	results := make([]prediction.Result, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	for i, variant := range variants {
		g.Go(func() error {
			ducted := variant.HasExistingDuctwork()
			res, err := o.predictor.Predict(gctx, property, prediction.Hints{
				HasExistingDuctwork: &ducted,
				NumberOfRooms:       &rooms,
			})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("prediction failed", "error", err)
		if apperr.GetKind(err) != apperr.KindUnknown {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindUpstream, "HVAC prediction failed", err)
	}

	inputs := make([]repository.PredictionInput, 0, len(variants))
	for i, variant := range variants {
		inputs = append(inputs, toPredictionInput(variant, results[i]))
	}

	saved, err := o.repo.ReplacePredictions(ctx, leadID, inputs, string(domain.StatusQuoted))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		log.DatabaseError("replace predictions", err)
		return nil, err
	}

	out := management.ToPredictionResponses(saved)
	o.publishQuoted(ctx, lead, property, out)
	log.Info("lead quoted", "variants", len(out))
	return out, nil
}

func (o *Orchestrator) publishQuoted(ctx context.Context, lead repository.Lead, property *propertytransport.Property, predictions []transport.PredictionResponse) {
	if o.eventBus == nil || len(predictions) == 0 {
		return
	}

	variants := make([]string, 0, len(predictions))
	lowest := predictions[0].Pricing.Total
	for _, p := range predictions {
		variants = append(variants, p.Variant)
		if p.Pricing.Total < lowest {
			lowest = p.Pricing.Total
		}
	}

	email := ""
	if lead.Email != nil {
		email = *lead.Email
	}

	o.eventBus.Publish(ctx, events.LeadQuoted{
		BaseEvent:        events.NewBaseEvent(),
		LeadID:           lead.ID,
		FormattedAddress: property.FormattedAddress,
		Name:             management.FullName(lead),
		Email:            email,
		Variants:         variants,
		LowestTotal:      lowest,
	})
}

func propertySnapshot(lead repository.Lead) (*propertytransport.Property, error) {
	if len(lead.PropertyData) == 0 || lead.FormattedAddress == nil || *lead.FormattedAddress == "" {
		return nil, apperr.Precondition("lead has no property data")
	}

	var p propertytransport.Property
	if err := json.Unmarshal(lead.PropertyData, &p); err != nil {
		return nil, apperr.Wrap(apperr.KindPrecondition, "lead has unreadable property data", err)
	}
	if p.FormattedAddress == "" {
		p.FormattedAddress = *lead.FormattedAddress
	}
	return &p, nil
}

func toPredictionInput(variant domain.Variant, r prediction.Result) repository.PredictionInput {
	return repository.PredictionInput{
		Variant:                string(variant),
		NumberOfODU:            r.ODUCount(),
		TypeOfODU:              r.TypeOfODU,
		ODUSize:                r.ODUSize,
		NumberOfIDU:            r.IDUCount(),
		TypeOfIDU:              r.TypeOfIDU,
		IDUSize:                r.IDUSize,
		ElectricalWorkEstimate: r.ElectricalWorkEstimate,
		HVACWorkEstimate:       r.HVACWorkEstimate,
		Confidence:             optional(r.Confidence),
		Reasoning:              optional(r.Reasoning),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
