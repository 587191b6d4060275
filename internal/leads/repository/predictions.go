package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const predictionColumns = `id, lead_id, variant, number_of_odu, type_of_odu, odu_size, number_of_idu, type_of_idu, idu_size,
	electrical_work_estimate, hvac_work_estimate, confidence, reasoning, created_at`

func scanPrediction(row pgx.Row) (Prediction, error) {
	var p Prediction
	err := row.Scan(
		&p.ID, &p.LeadID, &p.Variant, &p.NumberOfODU, &p.TypeOfODU, &p.ODUSize,
		&p.NumberOfIDU, &p.TypeOfIDU, &p.IDUSize,
		&p.ElectricalWorkEstimate, &p.HVACWorkEstimate, &p.Confidence, &p.Reasoning, &p.CreatedAt,
	)
	return p, err
}

// ReplacePredictions swaps a lead's predictions and sets its status in one
// transaction. Readers see either the old set or the new one.
func (r *Repository) ReplacePredictions(ctx context.Context, leadID uuid.UUID, inputs []PredictionInput, status string) ([]Prediction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM leads WHERE id = $1 FOR UPDATE`, leadID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM predictions WHERE lead_id = $1`, leadID); err != nil {
		return nil, fmt.Errorf("delete predictions: %w", err)
	}

	saved := make([]Prediction, 0, len(inputs))
	for _, in := range inputs {
		p, err := scanPrediction(tx.QueryRow(ctx, `
			INSERT INTO predictions (
				lead_id, variant, number_of_odu, type_of_odu, odu_size, number_of_idu, type_of_idu, idu_size,
				electrical_work_estimate, hvac_work_estimate, confidence, reasoning
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING `+predictionColumns,
			leadID, in.Variant, in.NumberOfODU, in.TypeOfODU, in.ODUSize, in.NumberOfIDU, in.TypeOfIDU, in.IDUSize,
			in.ElectricalWorkEstimate, in.HVACWorkEstimate, in.Confidence, in.Reasoning,
		))
		if err != nil {
			return nil, fmt.Errorf("insert %s prediction: %w", in.Variant, err)
		}
		saved = append(saved, p)
	}

	if _, err := tx.Exec(ctx, `UPDATE leads SET status = $2, updated_at = now() WHERE id = $1`, leadID, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// ListPredictions returns ducted before ductless.
func (r *Repository) ListPredictions(ctx context.Context, leadID uuid.UUID) ([]Prediction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+predictionColumns+`
		FROM predictions
		WHERE lead_id = $1
		ORDER BY CASE variant WHEN 'ducted' THEN 0 ELSE 1 END, created_at ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Prediction, 0)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
