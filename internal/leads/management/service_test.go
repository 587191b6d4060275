package management

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hvac_quote_backend/internal/leads/domain"
	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/internal/leads/transport"
	propertytransport "hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	leads   map[uuid.UUID]repository.Lead
	created []repository.CreateLeadParams
	patches []repository.PatchParams
	applied bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: map[uuid.UUID]repository.Lead{}, applied: true}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.LeadSummary, int, error) {
	first := "Ada"
	return []repository.LeadSummary{{ID: uuid.New(), FirstName: &first, Status: "new", PhotoCount: 2}}, 51, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, params)
	lead := repository.Lead{ID: uuid.New(), AddressRaw: params.AddressRaw, Status: string(domain.StatusNew)}
	if params.FirstName != "" {
		lead.FirstName = &params.FirstName
	}
	if params.Phone != "" {
		lead.Phone = &params.Phone
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) SetProperty(_ context.Context, id uuid.UUID, formatted string, data []byte) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.FormattedAddress = &formatted
	lead.PropertyData = data
	lead.Status = string(domain.NextStatus(domain.Status(lead.Status), domain.EventPropertyLoaded))
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) ApplyPatch(_ context.Context, _ uuid.UUID, params repository.PatchParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, params)
	return f.applied, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	lead.Status = status
	f.leads[id] = lead
	return nil
}

func (f *fakeRepo) AdminUpdate(_ context.Context, id uuid.UUID, params repository.AdminUpdateParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	if params.AdminNotesSet {
		lead.AdminNotes = params.AdminNotes
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) ReplacePredictions(context.Context, uuid.UUID, []repository.PredictionInput, string) ([]repository.Prediction, error) {
	return nil, errors.New("not used")
}

func (f *fakeRepo) ListPredictions(_ context.Context, leadID uuid.UUID) ([]repository.Prediction, error) {
	e, h := 1200.0, 4500.0
	return []repository.Prediction{{ID: uuid.New(), LeadID: leadID, Variant: "ducted", ElectricalWorkEstimate: &e, HVACWorkEstimate: &h}}, nil
}

func (f *fakeRepo) CreatePhoto(context.Context, repository.CreatePhotoParams) (repository.Photo, error) {
	return repository.Photo{}, errors.New("not used")
}

func (f *fakeRepo) GetPhotoByID(context.Context, uuid.UUID) (repository.Photo, error) {
	return repository.Photo{}, repository.ErrPhotoNotFound
}

func (f *fakeRepo) ListPhotos(_ context.Context, leadID uuid.UUID) ([]repository.Photo, error) {
	return []repository.Photo{{ID: uuid.New(), LeadID: leadID, PhotoKey: "mechanical-room"}}, nil
}

type fakeLookup struct {
	prop *propertytransport.Property
	err  error
}

func (f fakeLookup) Lookup(context.Context, string) (*propertytransport.Property, error) {
	return f.prop, f.err
}

func TestCreateNormalizesContact(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, logger.Discard())

	lead, err := svc.Create(context.Background(), transport.CreateLeadInput{
		AddressRaw: "  12 Elm St,   Newton ",
		FirstName:  "<b>Ada</b>",
		Phone:      "(617) 253-1000",
	})
	require.NoError(t, err)
	assert.Equal(t, "12 Elm St, Newton", lead.AddressRaw)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Ada", repo.created[0].FirstName)
	assert.Equal(t, "+16172531000", repo.created[0].Phone)
}

func TestLoadPropertyStoresSnapshot(t *testing.T) {
	repo := newFakeRepo()
	lead, _ := repo.Create(context.Background(), repository.CreateLeadParams{AddressRaw: "12 Elm St"})
	svc := New(repo, fakeLookup{prop: &propertytransport.Property{FormattedAddress: "12 Elm St, Newton, MA 02458"}}, nil, logger.Discard())

	p, err := svc.LoadProperty(context.Background(), lead.ID, "12 Elm St")
	require.NoError(t, err)
	assert.Equal(t, "12 Elm St, Newton, MA 02458", p.FormattedAddress)

	stored := repo.leads[lead.ID]
	assert.Equal(t, string(domain.StatusPropertyLoaded), stored.Status)
	assert.Contains(t, string(stored.PropertyData), "12 Elm St, Newton")
}

func TestLoadPropertyPassesLookupError(t *testing.T) {
	repo := newFakeRepo()
	lead, _ := repo.Create(context.Background(), repository.CreateLeadParams{AddressRaw: "nowhere"})
	svc := New(repo, fakeLookup{err: apperr.NotFound("No property found for this address")}, nil, logger.Discard())

	_, err := svc.LoadProperty(context.Background(), lead.ID, "nowhere")
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))
	assert.Equal(t, string(domain.StatusNew), repo.leads[lead.ID].Status)

	_, err = New(repo, nil, nil, logger.Discard()).LoadProperty(context.Background(), lead.ID, "nowhere")
	assert.Equal(t, apperr.KindUnavailable, apperr.GetKind(err))
}

func TestApplyPatchStaleIsSilent(t *testing.T) {
	repo := newFakeRepo()
	repo.applied = false
	svc := New(repo, nil, nil, logger.Discard())

	provider := "Eversource"
	err := svc.ApplyPatch(context.Background(), transport.LeadPatch{
		LeadID:              uuid.New(),
		Step:                "utilities",
		RequestedAt:         time.Now(),
		ElectricityProvider: &provider,
		GasProviderSet:      true,
	})
	require.NoError(t, err)
	require.Len(t, repo.patches, 1)
	assert.Equal(t, "utilities", repo.patches[0].SyncKey)
	assert.True(t, repo.patches[0].GasProviderSet)
}

func TestSetStatusOnlyPromotesNewOnPropertyLoad(t *testing.T) {
	repo := newFakeRepo()
	lead, _ := repo.Create(context.Background(), repository.CreateLeadParams{AddressRaw: "x"})
	_ = repo.UpdateStatus(context.Background(), lead.ID, string(domain.StatusQuoted))
	svc := New(repo, nil, nil, logger.Discard())

	require.NoError(t, svc.SetStatus(context.Background(), lead.ID, domain.EventPropertyLoaded))
	assert.Equal(t, string(domain.StatusQuoted), repo.leads[lead.ID].Status)

	require.NoError(t, svc.SetStatus(context.Background(), lead.ID, domain.EventPhotosSubmitted))
	assert.Equal(t, string(domain.StatusPhotosSubmitted), repo.leads[lead.ID].Status)

	err := svc.SetStatus(context.Background(), uuid.New(), domain.EventQuoted)
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))
}

func TestListComputesPages(t *testing.T) {
	svc := New(newFakeRepo(), nil, nil, logger.Discard())

	res, err := svc.List(context.Background(), transport.ListLeadsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 51, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, "Ada", res.Items[0].Name)
}

func TestGetDetailPricesPredictions(t *testing.T) {
	repo := newFakeRepo()
	lead, _ := repo.Create(context.Background(), repository.CreateLeadParams{AddressRaw: "x"})
	svc := New(repo, nil, nil, logger.Discard())

	detail, err := svc.GetDetail(context.Background(), lead.ID)
	require.NoError(t, err)
	require.Len(t, detail.Predictions, 1)
	assert.Equal(t, 2650.0, detail.Predictions[0].Pricing.Total)
	require.Len(t, detail.Photos, 1)
	assert.Contains(t, detail.Photos[0].URL, "/api/v1/admin/photos/")
}

func TestAdminUpdateAllowsAdminStatusesAndClearsNotes(t *testing.T) {
	repo := newFakeRepo()
	lead, _ := repo.Create(context.Background(), repository.CreateLeadParams{AddressRaw: "x"})
	notes := "called <b>twice</b>"
	_, _ = repo.AdminUpdate(context.Background(), lead.ID, repository.AdminUpdateParams{AdminNotes: &notes, AdminNotesSet: true})
	svc := New(repo, nil, nil, logger.Discard())

	status := "followed_up"
	res, err := svc.AdminUpdate(context.Background(), lead.ID, transport.AdminUpdateRequest{
		Status:     &status,
		AdminNotes: transport.OptionalString{Set: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "followed_up", res.Status)
	assert.Nil(t, res.AdminNotes)

	bad := "archived"
	_, err = svc.AdminUpdate(context.Background(), lead.ID, transport.AdminUpdateRequest{Status: &bad})
	assert.Equal(t, apperr.KindValidation, apperr.GetKind(err))
}
