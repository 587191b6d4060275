package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrPhotoNotFound = errors.New("photo not found")

const photoColumns = `id, lead_id, photo_key, storage_url, storage_path, file_size, mime_type, taken_at, created_at`

func scanPhoto(row pgx.Row) (Photo, error) {
	var p Photo
	err := row.Scan(&p.ID, &p.LeadID, &p.PhotoKey, &p.StorageURL, &p.StoragePath, &p.FileSize, &p.MimeType, &p.TakenAt, &p.CreatedAt)
	return p, err
}

// CreatePhoto inserts a photo row. Re-uploading a slot adds another row.
func (r *Repository) CreatePhoto(ctx context.Context, params CreatePhotoParams) (Photo, error) {
	return scanPhoto(r.pool.QueryRow(ctx, `
		INSERT INTO photos (lead_id, photo_key, storage_url, storage_path, file_size, mime_type, taken_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+photoColumns,
		params.LeadID, params.PhotoKey, params.StorageURL, params.StoragePath, params.FileSize, params.MimeType, params.TakenAt,
	))
}

func (r *Repository) GetPhotoByID(ctx context.Context, id uuid.UUID) (Photo, error) {
	p, err := scanPhoto(r.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Photo{}, ErrPhotoNotFound
	}
	return p, err
}

func (r *Repository) ListPhotos(ctx context.Context, leadID uuid.UUID) ([]Photo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
