package adapters

import (
	"context"
	"testing"

	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyLookupAdapterWithoutService(t *testing.T) {
	var nilAdapter *PropertyLookupAdapter
	_, err := nilAdapter.Lookup(context.Background(), "1 Main St")
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))

	_, err = NewPropertyLookupAdapter(nil).Lookup(context.Background(), "1 Main St")
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
}

type stubLeadReader struct{ lead repository.Lead }

func (s stubLeadReader) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if id != s.lead.ID {
		return repository.Lead{}, repository.ErrNotFound
	}
	return s.lead, nil
}

func (s stubLeadReader) List(context.Context, repository.ListParams) ([]repository.LeadSummary, int, error) {
	return nil, 0, nil
}

func strPtr(s string) *string { return &s }

func TestLeadContactReader(t *testing.T) {
	lead := repository.Lead{
		ID:               uuid.New(),
		FirstName:        strPtr("Grace"),
		LastName:         strPtr("Hopper"),
		Email:            strPtr("grace@example.com"),
		AddressRaw:       "1 main st boston",
		FormattedAddress: strPtr("1 Main St, Boston, MA 02118"),
	}
	r := NewLeadContactReader(stubLeadReader{lead: lead})

	contact, err := r.GetLeadContact(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", contact.Name)
	assert.Equal(t, "grace@example.com", contact.Email)
	assert.Equal(t, "1 Main St, Boston, MA 02118", contact.Address)

	_, err = r.GetLeadContact(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
