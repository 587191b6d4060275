package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hvac_quote_backend/internal/leads/domain"
	"hvac_quote_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool db.Pool
}

func New(pool db.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, first_name, last_name, email, phone, address_raw, formatted_address, property_data,
	has_attic, basement_type, has_ductwork, number_of_floors, corrections,
	ownership_status, current_heating, installation_timeline,
	electricity_provider, gas_provider, status, admin_notes, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Email, &lead.Phone,
		&lead.AddressRaw, &lead.FormattedAddress, &lead.PropertyData,
		&lead.HasAttic, &lead.BasementType, &lead.HasDuctwork, &lead.NumberOfFloors, &lead.Corrections,
		&lead.OwnershipStatus, &lead.CurrentHeating, &lead.InstallationTimeline,
		&lead.ElectricityProvider, &lead.GasProvider, &lead.Status, &lead.AdminNotes,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func nullIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (address_raw, first_name, last_name, email, phone, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+leadColumns,
		params.AddressRaw, nullIfEmpty(params.FirstName), nullIfEmpty(params.LastName),
		nullIfEmpty(params.Email), nullIfEmpty(params.Phone), string(domain.StatusNew),
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

// SetProperty stores the lookup snapshot. The status only moves forward from new.
func (r *Repository) SetProperty(ctx context.Context, id uuid.UUID, formattedAddress string, propertyData []byte) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			formatted_address = $2,
			property_data = $3,
			status = CASE WHEN status = $4 THEN $5 ELSE status END,
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, formattedAddress, propertyData, string(domain.StatusNew), string(domain.StatusPropertyLoaded),
	)
	return scanLead(row)
}

// ApplyPatch writes a step's fields unless a newer patch for the same step
// already landed. It reports false when nothing was written, which covers
// both stale patches and unknown leads.
func (r *Repository) ApplyPatch(ctx context.Context, id uuid.UUID, params PatchParams) (bool, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.HasAttic != nil, "has_attic", params.HasAttic},
		{params.BasementType != nil, "basement_type", params.BasementType},
		{params.HasDuctwork != nil, "has_ductwork", params.HasDuctwork},
		{params.NumberOfFloors != nil, "number_of_floors", params.NumberOfFloors},
		{params.Corrections != nil, "corrections", params.Corrections},
		{params.OwnershipStatus != nil, "ownership_status", params.OwnershipStatus},
		{params.CurrentHeating != nil, "current_heating", params.CurrentHeating},
		{params.InstallationTimeline != nil, "installation_timeline", params.InstallationTimeline},
		{params.ElectricityProvider != nil, "electricity_provider", params.ElectricityProvider},
		{params.GasProviderSet, "gas_provider", params.GasProvider},
		{params.Status != nil, "status", params.Status},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return false, nil
	}

	keyIdx, atIdx, idIdx := argIdx, argIdx+1, argIdx+2
	setClauses = append(setClauses,
		fmt.Sprintf("step_synced_at = jsonb_set(step_synced_at, ARRAY[$%d::text], to_jsonb($%d::timestamptz))", keyIdx, atIdx),
		"updated_at = now()",
	)
	args = append(args, params.SyncKey, params.RequestedAt, id)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d
			AND (step_synced_at->>$%d::text IS NULL OR (step_synced_at->>$%d::text)::timestamptz <= $%d::timestamptz)
	`, strings.Join(setClauses, ", "), idIdx, keyIdx, keyIdx, atIdx)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE leads SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) AdminUpdate(ctx context.Context, id uuid.UUID, params AdminUpdateParams) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.Status != nil, "status", params.Status},
		{params.AdminNotesSet, "admin_notes", params.AdminNotes},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, leadColumns)

	return scanLead(r.pool.QueryRow(ctx, query, args...))
}

// List returns leads newest first along with the unpaged total.
func (r *Repository) List(ctx context.Context, params ListParams) ([]LeadSummary, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads WHERE ($1::text IS NULL OR status = $1)
	`, params.Status).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.first_name, l.last_name, l.email, l.phone, l.address_raw, l.formatted_address, l.status,
			(SELECT COUNT(*) FROM predictions p WHERE p.lead_id = l.id),
			(SELECT COUNT(*) FROM photos ph WHERE ph.lead_id = l.id),
			l.created_at
		FROM leads l
		WHERE ($1::text IS NULL OR l.status = $1)
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`, params.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]LeadSummary, 0)
	for rows.Next() {
		var item LeadSummary
		if err := rows.Scan(
			&item.ID, &item.FirstName, &item.LastName, &item.Email, &item.Phone,
			&item.AddressRaw, &item.FormattedAddress, &item.Status,
			&item.PredictionCount, &item.PhotoCount, &item.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return items, total, nil
}
