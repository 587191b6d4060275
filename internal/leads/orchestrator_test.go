package leads

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"hvac_quote_backend/internal/events"
	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/internal/prediction"
	propertytransport "hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPredictor struct {
	mu      sync.Mutex
	hints   []prediction.Hints
	failFor *bool
	block   chan struct{}
	started chan struct{}
}

func (s *stubPredictor) Predict(ctx context.Context, _ *propertytransport.Property, hints prediction.Hints) (prediction.Result, error) {
	s.mu.Lock()
	s.hints = append(s.hints, hints)
	s.mu.Unlock()

	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	if s.failFor != nil && *hints.HasExistingDuctwork == *s.failFor {
		return prediction.Result{}, apperr.Wrap(apperr.KindUpstream, "HVAC prediction failed", errors.New("boom"))
	}

	odu, idu := 1, 4
	e, h := 1200.0, 4500.0
	typeOfIDU := "Wall-mounted"
	if *hints.HasExistingDuctwork {
		typeOfIDU = "Ducted air handler"
		h = 7000
	}
	return prediction.Result{
		NumberOfODU: &odu, TypeOfODU: "Heat pump", ODUSize: "36k BTU",
		NumberOfIDU: &idu, TypeOfIDU: typeOfIDU, IDUSize: "9k BTU",
		ElectricalWorkEstimate: &e, HVACWorkEstimate: &h,
		Confidence: "medium",
	}, nil
}

type stubStore struct {
	mu       sync.Mutex
	lead     repository.Lead
	replaced [][]repository.PredictionInput
	status   string
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if id != s.lead.ID {
		return repository.Lead{}, repository.ErrNotFound
	}
	return s.lead, nil
}

func (s *stubStore) ReplacePredictions(_ context.Context, leadID uuid.UUID, inputs []repository.PredictionInput, status string) ([]repository.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaced = append(s.replaced, inputs)
	s.status = status

	out := make([]repository.Prediction, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, repository.Prediction{
			ID: uuid.New(), LeadID: leadID, Variant: in.Variant,
			NumberOfODU: in.NumberOfODU, TypeOfODU: in.TypeOfODU, ODUSize: in.ODUSize,
			NumberOfIDU: in.NumberOfIDU, TypeOfIDU: in.TypeOfIDU, IDUSize: in.IDUSize,
			ElectricalWorkEstimate: in.ElectricalWorkEstimate, HVACWorkEstimate: in.HVACWorkEstimate,
		})
	}
	return out, nil
}

func quotableLead(t *testing.T, ductwork string, bedrooms int) repository.Lead {
	t.Helper()
	data, err := json.Marshal(propertytransport.Property{FormattedAddress: "12 Elm St, Newton, MA 02458", Bedrooms: &bedrooms})
	require.NoError(t, err)
	formatted := "12 Elm St, Newton, MA 02458"
	email := "ada@example.com"
	return repository.Lead{
		ID:               uuid.New(),
		Email:            &email,
		AddressRaw:       "12 Elm St",
		FormattedAddress: &formatted,
		PropertyData:     data,
		HasDuctwork:      &ductwork,
		Status:           "survey_done",
	}
}

func TestPredictUnknownLead(t *testing.T) {
	o := NewOrchestrator(&stubStore{}, &stubPredictor{}, nil, logger.Discard())

	_, err := o.Predict(context.Background(), uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))
}

func TestPredictRequiresPropertySnapshot(t *testing.T) {
	lead := repository.Lead{ID: uuid.New(), AddressRaw: "12 Elm St", Status: "new"}
	predictor := &stubPredictor{}
	o := NewOrchestrator(&stubStore{lead: lead}, predictor, nil, logger.Discard())

	_, err := o.Predict(context.Background(), lead.ID)
	assert.Equal(t, apperr.KindPrecondition, apperr.GetKind(err))
	assert.Empty(t, predictor.hints)
}

func TestPredictNoDuctworkMakesOneDuctlessCall(t *testing.T) {
	store := &stubStore{lead: quotableLead(t, "no", 4)}
	predictor := &stubPredictor{}
	o := NewOrchestrator(store, predictor, nil, logger.Discard())

	out, err := o.Predict(context.Background(), store.lead.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ductless", out[0].Variant)

	require.Len(t, predictor.hints, 1)
	assert.False(t, *predictor.hints[0].HasExistingDuctwork)
	assert.Equal(t, 6, *predictor.hints[0].NumberOfRooms)
	assert.Equal(t, "quoted", store.status)
}

func TestPredictNotSureMakesBothVariants(t *testing.T) {
	store := &stubStore{lead: quotableLead(t, "not-sure", 0)}
	predictor := &stubPredictor{}
	o := NewOrchestrator(store, predictor, nil, logger.Discard())

	out, err := o.Predict(context.Background(), store.lead.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "ducted", out[0].Variant)
	assert.Equal(t, "Ducted air handler", out[0].TypeOfIDU)
	assert.Equal(t, "ductless", out[1].Variant)

	assert.Equal(t, 5150.0, out[0].Pricing.Total)
	assert.Equal(t, 2650.0, out[1].Pricing.Total)
	for _, h := range predictor.hints {
		assert.Equal(t, 5, *h.NumberOfRooms)
	}
}

func TestPredictRepredictReplacesPredictions(t *testing.T) {
	store := &stubStore{lead: quotableLead(t, "yes", 3)}
	o := NewOrchestrator(store, &stubPredictor{}, nil, logger.Discard())

	_, err := o.Predict(context.Background(), store.lead.ID)
	require.NoError(t, err)
	_, err = o.Predict(context.Background(), store.lead.ID)
	require.NoError(t, err)

	require.Len(t, store.replaced, 2)
	assert.Len(t, store.replaced[1], 2)
}

func TestPredictOneVariantFailingCommitsNothing(t *testing.T) {
	store := &stubStore{lead: quotableLead(t, "yes", 3)}
	failDucted := true
	o := NewOrchestrator(store, &stubPredictor{failFor: &failDucted}, nil, logger.Discard())

	_, err := o.Predict(context.Background(), store.lead.ID)
	assert.Equal(t, apperr.KindUpstream, apperr.GetKind(err))
	assert.Empty(t, store.replaced)
}

func TestPredictRejectsConcurrentRunForSameLead(t *testing.T) {
	store := &stubStore{lead: quotableLead(t, "no", 3)}
	predictor := &stubPredictor{block: make(chan struct{}), started: make(chan struct{}, 1)}
	o := NewOrchestrator(store, predictor, nil, logger.Discard())

	done := make(chan error, 1)
	go func() {
		_, err := o.Predict(context.Background(), store.lead.ID)
		done <- err
	}()
	<-predictor.started

	_, err := o.Predict(context.Background(), store.lead.ID)
	assert.Equal(t, apperr.KindConflict, apperr.GetKind(err))

	close(predictor.block)
	require.NoError(t, <-done)
}

func TestPredictPublishesLeadQuoted(t *testing.T) {
	store := &stubStore{lead: quotableLead(t, "yes", 3)}
	bus := events.NewInMemoryBus(logger.Discard())

	var got events.LeadQuoted
	bus.Subscribe(events.LeadQuoted{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		got = e.(events.LeadQuoted)
		return nil
	}))

	o := NewOrchestrator(store, &stubPredictor{}, bus, logger.Discard())
	_, err := o.Predict(context.Background(), store.lead.ID)
	require.NoError(t, err)
	bus.Wait()

	assert.Equal(t, store.lead.ID, got.LeadID)
	assert.Equal(t, []string{"ducted", "ductless"}, got.Variants)
	assert.Equal(t, 2650.0, got.LowestTotal)
	assert.Equal(t, "ada@example.com", got.Email)
}
