package wizard

import (
	"context"
	"sync"
	"time"

	"hvac_quote_backend/internal/leads/domain"
	"hvac_quote_backend/internal/leads/repository"
	leadtransport "hvac_quote_backend/internal/leads/transport"
	propertytransport "hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/internal/scheduler"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	noticeLeadNotSaved = "We couldn't save your details. Please try again."
	noticeQuoteFailed  = "We couldn't generate your quote right now. Please try again."
	noticeLeadMissing  = "We couldn't find your request. Please start over from the contact step."
	inlinePatchTimeout = 15 * time.Second
)

// LeadService is the lead store as the wizard uses it.
type LeadService interface {
	Create(ctx context.Context, in leadtransport.CreateLeadInput) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	LoadProperty(ctx context.Context, leadID uuid.UUID, address string) (*propertytransport.Property, error)
	ApplyPatch(ctx context.Context, patch leadtransport.LeadPatch) error
}

// Predictor produces the quote for a lead.
type Predictor interface {
	Predict(ctx context.Context, leadID uuid.UUID) ([]leadtransport.PredictionResponse, error)
}

// Outcome is the wizard state after an Advance.
type Outcome struct {
	Step                Step                               `json:"step"`
	Valid               bool                               `json:"valid"`
	Errors              map[string]string                  `json:"errors,omitempty"`
	LeadID              *uuid.UUID                         `json:"leadId,omitempty"`
	PropertyUnavailable bool                               `json:"propertyUnavailable,omitempty"`
	Property            *propertytransport.Property        `json:"property,omitempty"`
	Predictions         []leadtransport.PredictionResponse `json:"predictions,omitempty"`
	Notice              string                             `json:"notice,omitempty"`
	// StartOver is set when the lead id no longer resolves; retrying the
	// same step cannot succeed.
	StartOver bool `json:"startOver,omitempty"`
}

type Wizard struct {
	leads     LeadService
	predictor Predictor
	patches   scheduler.PatchQueue
	log       *logger.Logger
	now       func() time.Time

	inline sync.WaitGroup
}

// New builds a wizard. patches may be nil, in which case step answers are
// written inline in the background.
func New(leads LeadService, predictor Predictor, patches scheduler.PatchQueue, log *logger.Logger) *Wizard {
	return &Wizard{
		leads:     leads,
		predictor: predictor,
		patches:   patches,
		log:       log,
		now:       time.Now,
	}
}

// Back moves one step back without validation or side effects.
func Back(step Step) Step {
	if step <= FirstStep {
		return FirstStep
	}
	if step > LastStep {
		return LastStep
	}
	return step - 1
}

// Advance validates the current step and, when valid, runs the transition's
// side effect and moves forward. Only an out-of-range step is returned as an
// error; collaborator failures come back as a Notice or PropertyUnavailable.
func (w *Wizard) Advance(ctx context.Context, step Step, form Form) (Outcome, error) {
	if !step.Valid() {
		return Outcome{}, apperr.BadRequest("unknown step")
	}

	form = form.trimmed()
	out := Outcome{Step: step}
	if id, ok, err := form.leadID(); ok && err == nil {
		out.LeadID = &id
	}

	result := ValidateStep(step, form)
	if !result.Valid {
		out.Errors = result.Errors
		return out, nil
	}
	out.Valid = true

	switch step {
	case StepAddress:
		out.Step = StepContact
	case StepContact:
		return w.afterContact(ctx, form, out), nil
	case StepHomeDetails, StepQualification, StepUtilities:
		w.submitPatch(ctx, step, form, out.LeadID)
		out.Step = step + 1
	case StepOverview:
		return w.afterOverview(ctx, out), nil
	}
	return out, nil
}

func (w *Wizard) afterContact(ctx context.Context, form Form, out Outcome) Outcome {
	log := w.log.WithContext(ctx)

	if out.LeadID != nil {
		if _, err := w.leads.GetByID(ctx, *out.LeadID); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				log.WithLead(out.LeadID.String()).Warn("lead id from form does not exist")
				return leadMissing(out)
			}
			log.WithLead(out.LeadID.String()).Error("load lead failed", "error", err)
			out.Valid = false
			out.Notice = noticeLeadNotSaved
			return out
		}
	} else {
		lead, err := w.leads.Create(ctx, leadtransport.CreateLeadInput{
			AddressRaw: form.Address,
			FirstName:  form.FirstName,
			LastName:   form.LastName,
			Email:      form.Email,
			Phone:      form.Phone,
		})
		if err != nil {
			log.Error("create lead failed", "error", err)
			out.Valid = false
			out.Notice = noticeLeadNotSaved
			return out
		}
		out.LeadID = &lead.ID
	}

	property, err := w.leads.LoadProperty(ctx, *out.LeadID, form.Address)
	if err != nil {
		log.WithLead(out.LeadID.String()).Warn("property lookup unavailable", "kind", apperr.GetKind(err).String(), "error", err)
		out.PropertyUnavailable = true
	} else {
		out.Property = property
	}

	out.Step = StepHomeDetails
	return out
}

func (w *Wizard) afterOverview(ctx context.Context, out Outcome) Outcome {
	if w.predictor == nil {
		out.Valid = false
		out.Notice = noticeQuoteFailed
		return out
	}

	predictions, err := w.predictor.Predict(ctx, *out.LeadID)
	if apperr.Is(err, apperr.KindNotFound) {
		w.log.WithContext(ctx).WithLead(out.LeadID.String()).Warn("quote requested for unknown lead")
		return leadMissing(out)
	}
	if err != nil {
		w.log.WithContext(ctx).WithLead(out.LeadID.String()).Error("quote generation failed",
			"kind", apperr.GetKind(err).String(), "error", err)
		out.Valid = false
		out.Notice = noticeQuoteFailed
		return out
	}

	out.Predictions = predictions
	out.Step = StepQuote
	return out
}

func leadMissing(out Outcome) Outcome {
	out.Valid = false
	out.LeadID = nil
	out.Notice = noticeLeadMissing
	out.StartOver = true
	return out
}

// submitPatch sends the step's answers to the queue, or writes them inline
// when no queue is configured or enqueueing fails. It never blocks advancing.
func (w *Wizard) submitPatch(ctx context.Context, step Step, form Form, leadID *uuid.UUID) {
	if leadID == nil {
		w.log.WithContext(ctx).Warn("lead patch skipped: no lead id", "step", step.String())
		return
	}

	patch := buildPatch(step, form, *leadID, w.now())

	if w.patches != nil {
		err := w.patches.EnqueueLeadPatch(ctx, patch)
		if err == nil {
			return
		}
		w.log.Degraded("enqueue lead patch", leadID.String(), err)
	}

	detached := context.WithoutCancel(ctx)
	w.inline.Add(1)
	go func() {
		defer w.inline.Done()
		pctx, cancel := context.WithTimeout(detached, inlinePatchTimeout)
		defer cancel()
		if err := w.leads.ApplyPatch(pctx, patch); err != nil {
			w.log.Degraded("apply lead patch", patch.LeadID.String(), err)
		}
	}()
}

// Wait blocks until inline patches started by Advance have finished.
func (w *Wizard) Wait() {
	w.inline.Wait()
}

func buildPatch(step Step, form Form, leadID uuid.UUID, at time.Time) leadtransport.LeadPatch {
	patch := leadtransport.LeadPatch{
		LeadID:      leadID,
		Step:        step.String(),
		RequestedAt: at,
	}

	switch step {
	case StepHomeDetails:
		patch.HasAttic = form.HasAttic
		patch.BasementType = strPtr(form.BasementType)
		patch.HasDuctwork = strPtr(form.HasDuctwork)
		patch.NumberOfFloors = form.NumberOfFloors
		patch.Corrections = strPtr(form.Corrections)
		status := string(domain.StatusSurveyDone)
		patch.Status = &status
	case StepQualification:
		patch.OwnershipStatus = strPtr(form.OwnershipStatus)
		patch.CurrentHeating = strPtr(form.CurrentHeating)
		patch.InstallationTimeline = strPtr(form.InstallationTimeline)
	case StepUtilities:
		patch.ElectricityProvider = strPtr(form.ElectricityProvider)
		patch.GasProvider = strPtr(form.GasProvider)
		patch.GasProviderSet = true
	}
	return patch
}
