package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/hvac-backend/internal/db"
	"github.com/unclebandit/hvac-backend/internal/model"
)

type SettingsRepositoryInterface interface {
	All(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, key string) (string, error)
	Upsert(ctx context.Context, values map[string]string) error
	ListPages(ctx context.Context) ([]model.PageContent, error)
	GetPage(ctx context.Context, pageID string) (*model.PageContent, error)
	UpsertPage(ctx context.Context, p *model.PageContent) error
}

type SettingsRepository struct {
	DB *sql.DB
}

func (r *SettingsRepository) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var v string
	if err := r.DB.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&v); err != nil {
		return "", notFound(err, "Setting", key)
	}
	return v, nil
}

// Upsert writes every key in one transaction.
func (r *SettingsRepository) Upsert(ctx context.Context, values map[string]string) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for k, v := range values {
			_, err := tx.ExecContext(ctx, `
                INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
                ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, k, v)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ====================== Page content ======================

func (r *SettingsRepository) ListPages(ctx context.Context) ([]model.PageContent, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT page_id, title, content, meta_description, updated_at FROM page_content ORDER BY page_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []model.PageContent{}
	for rows.Next() {
		var p model.PageContent
		if err := rows.Scan(&p.PageID, &p.Title, &p.Content, &p.MetaDescription, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (r *SettingsRepository) GetPage(ctx context.Context, pageID string) (*model.PageContent, error) {
	var p model.PageContent
	err := r.DB.QueryRowContext(ctx,
		`SELECT page_id, title, content, meta_description, updated_at FROM page_content WHERE page_id = $1`, pageID).
		Scan(&p.PageID, &p.Title, &p.Content, &p.MetaDescription, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "Page content", pageID)
	}
	return &p, nil
}

func (r *SettingsRepository) UpsertPage(ctx context.Context, p *model.PageContent) error {
	query := `
        INSERT INTO page_content (page_id, title, content, meta_description, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (page_id) DO UPDATE
        SET title = EXCLUDED.title, content = EXCLUDED.content, meta_description = EXCLUDED.meta_description, updated_at = NOW()
        RETURNING updated_at
    `
	return r.DB.QueryRowContext(ctx, query, p.PageID, p.Title, p.Content, p.MetaDescription).Scan(&p.UpdatedAt)
}
