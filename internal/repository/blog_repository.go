package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
)

type BlogRepositoryInterface interface {
	List(ctx context.Context, publishedOnly bool, page model.PageRequest) ([]model.BlogPost, int, error)
	GetByID(ctx context.Context, id int) (*model.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	Create(ctx context.Context, p *model.BlogPost) error
	Update(ctx context.Context, p *model.BlogPost) error
	Delete(ctx context.Context, id int) error
}

type BlogRepository struct {
	DB *sql.DB
}

const blogColumns = `b.id, b.title, b.slug, b.excerpt, b.content, b.featured_image, b.author_id,
        NULLIF(TRIM(COALESCE(u.first_name, '') || ' ' || COALESCE(u.last_name, '')), ''),
        b.category, b.tags, b.is_published, b.publish_date, b.created_at, b.updated_at`

const blogFrom = ` FROM blog_posts b LEFT JOIN users u ON u.id = b.author_id`

func scanBlogPost(row rowScanner, p *model.BlogPost) error {
	return row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImage, &p.AuthorID, &p.AuthorName,
		&p.Category, pq.Array(&p.Tags), &p.IsPublished, &p.PublishDate, &p.CreatedAt, &p.UpdatedAt)
}

const publishedCond = "b.is_published = TRUE AND b.publish_date <= NOW()"

func (r *BlogRepository) List(ctx context.Context, publishedOnly bool, page model.PageRequest) ([]model.BlogPost, int, error) {
	w := newWhere()
	if publishedOnly {
		w.add(publishedCond)
	}

	limit, args := w.page(page.Limit, page.Offset())
	query := `SELECT ` + blogColumns + blogFrom + w.sql + ` ORDER BY b.publish_date DESC NULLS LAST, b.created_at DESC` + limit

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []model.BlogPost{}
	for rows.Next() {
		var p model.BlogPost
		if err := scanBlogPost(rows, &p); err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "blog_posts b")
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id int) (*model.BlogPost, error) {
	var p model.BlogPost
	if err := scanBlogPost(r.DB.QueryRowContext(ctx, `SELECT `+blogColumns+blogFrom+` WHERE b.id = $1`, id), &p); err != nil {
		return nil, notFound(err, "Blog post", id)
	}
	return &p, nil
}

func (r *BlogRepository) GetPublishedBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	var p model.BlogPost
	row := r.DB.QueryRowContext(ctx, `SELECT `+blogColumns+blogFrom+` WHERE b.slug = $1 AND `+publishedCond, slug)
	if err := scanBlogPost(row, &p); err != nil {
		return nil, notFound(err, "Blog post", slug)
	}
	return &p, nil
}

func (r *BlogRepository) Create(ctx context.Context, p *model.BlogPost) error {
	query := `
        INSERT INTO blog_posts (title, slug, excerpt, content, featured_image, author_id, category, tags, is_published, publish_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		p.Title, p.Slug, p.Excerpt, p.Content, p.FeaturedImage, p.AuthorID, p.Category, pq.Array(nonNil(p.Tags)), p.IsPublished, p.PublishDate,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("A blog post with slug %q already exists", p.Slug)
	}
	return err
}

func (r *BlogRepository) Update(ctx context.Context, p *model.BlogPost) error {
	query := `
        UPDATE blog_posts
        SET title=$1, slug=$2, excerpt=$3, content=$4, featured_image=$5, category=$6, tags=$7,
            is_published=$8, publish_date=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING author_id, created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		p.Title, p.Slug, p.Excerpt, p.Content, p.FeaturedImage, p.Category, pq.Array(nonNil(p.Tags)), p.IsPublished, p.PublishDate, p.ID,
	).Scan(&p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("A blog post with slug %q already exists", p.Slug)
	}
	return notFound(err, "Blog post", p.ID)
}

func (r *BlogRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Blog post", id, `DELETE FROM blog_posts WHERE id = $1`, id)
}
