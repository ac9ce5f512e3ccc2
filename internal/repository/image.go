package repository

import (
	"context"
	"fmt"

	"github.com/webreviewer/webreviewer/internal/model"
)

// CreateImage records an uploaded file.
func (r *Repository) CreateImage(ctx context.Context, img *model.Image) error {
	query := `
		INSERT INTO images (id, url, filename, stored_name, size_bytes, uploader_id, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		img.ID,
		img.URL,
		img.Filename,
		img.StoredName,
		img.SizeBytes,
		img.UploaderID,
		img.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create image record: %w", err)
	}
	return nil
}

// ListImagesByUploader retrieves a user's uploads newest first.
func (r *Repository) ListImagesByUploader(ctx context.Context, uploaderID string) ([]*model.Image, error) {
	query := `
		SELECT id, url, filename, stored_name, size_bytes, uploader_id, uploaded_at
		FROM images WHERE uploader_id = $1
		ORDER BY uploaded_at DESC
	`

	rows, err := r.pool.Query(ctx, query, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []*model.Image
	for rows.Next() {
		var img model.Image
		err := rows.Scan(&img.ID, &img.URL, &img.Filename, &img.StoredName, &img.SizeBytes, &img.UploaderID, &img.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, &img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}
