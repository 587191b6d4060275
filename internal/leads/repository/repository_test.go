package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leadColumnNames = []string{
	"id", "first_name", "last_name", "email", "phone", "address_raw", "formatted_address", "property_data",
	"has_attic", "basement_type", "has_ductwork", "number_of_floors", "corrections",
	"ownership_status", "current_heating", "installation_timeline",
	"electricity_provider", "gas_provider", "status", "admin_notes", "created_at", "updated_at",
}

func strPtr(s string) *string { return &s }

func leadRow(id uuid.UUID, status string) *pgxmock.Rows {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return pgxmock.NewRows(leadColumnNames).AddRow(
		id, strPtr("Ada"), strPtr("Lovelace"), strPtr("ada@example.com"), strPtr("+16172531000"),
		"1 Main St, Boston, MA", (*string)(nil), []byte(nil),
		(*bool)(nil), (*string)(nil), (*string)(nil), (*int)(nil), (*string)(nil),
		(*string)(nil), (*string)(nil), (*string)(nil),
		(*string)(nil), (*string)(nil), status, (*string)(nil), now, now,
	)
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func TestCreateStartsAsNew(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectQuery("INSERT INTO leads").
		WithArgs("1 Main St, Boston, MA", strPtr("Ada"), strPtr("Lovelace"), strPtr("ada@example.com"), strPtr("+16172531000"), "new").
		WillReturnRows(leadRow(id, "new"))

	lead, err := repo.Create(context.Background(), CreateLeadParams{
		AddressRaw: "1 Main St, Boston, MA",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Phone:      "+16172531000",
	})
	require.NoError(t, err)
	assert.Equal(t, id, lead.ID)
	assert.Equal(t, "new", lead.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM leads WHERE id").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatchWritesOnlyStepFields(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	attic := true
	floors := 2
	status := "survey_done"

	mock.ExpectExec(`UPDATE leads SET has_attic = \$1, basement_type = \$2, has_ductwork = \$3, number_of_floors = \$4, status = \$5, step_synced_at`).
		WithArgs(&attic, strPtr("full"), strPtr("yes"), &floors, &status, "home_details", at, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	applied, err := repo.ApplyPatch(context.Background(), id, PatchParams{
		SyncKey:        "home_details",
		RequestedAt:    at,
		HasAttic:       &attic,
		BasementType:   strPtr("full"),
		HasDuctwork:    strPtr("yes"),
		NumberOfFloors: &floors,
		Status:         &status,
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatchStaleIsNotAnError(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec("UPDATE leads SET electricity_provider").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	applied, err := repo.ApplyPatch(context.Background(), uuid.New(), PatchParams{
		SyncKey:             "utilities",
		RequestedAt:         time.Now(),
		ElectricityProvider: strPtr("Eversource"),
		GasProviderSet:      true,
	})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatchWithoutFieldsSkipsQuery(t *testing.T) {
	mock, repo := newMock(t)

	applied, err := repo.ApplyPatch(context.Background(), uuid.New(), PatchParams{SyncKey: "utilities"})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownLead(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec("UPDATE leads SET status").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), uuid.New(), "photos_submitted")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReturnsCountsAndTotal(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM leads l").
		WithArgs((*string)(nil), 25, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "phone", "address_raw", "formatted_address", "status",
			"predictions", "photos", "created_at",
		}).AddRow(id, strPtr("Ada"), strPtr("Lovelace"), strPtr("ada@example.com"), (*string)(nil),
			"1 Main St", strPtr("1 Main St, Boston, MA 02108"), "quoted", 2, 3, now))

	items, total, err := repo.List(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].PredictionCount)
	assert.Equal(t, 3, items[0].PhotoCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var predictionColumnNames = []string{
	"id", "lead_id", "variant", "number_of_odu", "type_of_odu", "odu_size", "number_of_idu", "type_of_idu", "idu_size",
	"electrical_work_estimate", "hvac_work_estimate", "confidence", "reasoning", "created_at",
}

func predictionRow(leadID uuid.UUID, variant string) *pgxmock.Rows {
	electrical, hvac := 1200.0, 4500.0
	return pgxmock.NewRows(predictionColumnNames).AddRow(
		uuid.New(), leadID, variant, 1, "Multi", "36", 4, "Head", "12,9,9,9",
		&electrical, &hvac, strPtr("high"), strPtr("four bedrooms"), time.Now(),
	)
}

func TestReplacePredictionsSingleTransaction(t *testing.T) {
	mock, repo := newMock(t)
	leadID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM leads WHERE id = \\$1 FOR UPDATE").
		WithArgs(leadID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(leadID))
	mock.ExpectExec("DELETE FROM predictions").
		WithArgs(leadID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectQuery("INSERT INTO predictions").WillReturnRows(predictionRow(leadID, "ducted"))
	mock.ExpectQuery("INSERT INTO predictions").WillReturnRows(predictionRow(leadID, "ductless"))
	mock.ExpectExec("UPDATE leads SET status").
		WithArgs(leadID, "quoted").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	saved, err := repo.ReplacePredictions(context.Background(), leadID, []PredictionInput{
		{Variant: "ducted", NumberOfODU: 1, TypeOfODU: "Duct", ODUSize: "36", NumberOfIDU: 1, TypeOfIDU: "AHU", IDUSize: "36"},
		{Variant: "ductless", NumberOfODU: 1, TypeOfODU: "Multi", ODUSize: "36", NumberOfIDU: 4, TypeOfIDU: "Head", IDUSize: "12,9,9,9"},
	}, "quoted")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "ducted", saved[0].Variant)
	assert.Equal(t, "ductless", saved[1].Variant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplacePredictionsRollsBackOnInsertFailure(t *testing.T) {
	mock, repo := newMock(t)
	leadID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(leadID))
	mock.ExpectExec("DELETE FROM predictions").WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectQuery("INSERT INTO predictions").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.ReplacePredictions(context.Background(), leadID, []PredictionInput{{Variant: "ducted"}}, "quoted")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert ducted prediction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplacePredictionsUnknownLead(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ReplacePredictions(context.Background(), uuid.New(), nil, "quoted")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPhotoByIDNotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery("FROM photos WHERE id").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetPhotoByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}
