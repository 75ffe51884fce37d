package repository

import (
	"context"
	"fmt"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProductRepo interface {
	List(ctx context.Context, f models.ProductFilter, limit, offset int) ([]*models.Product, int, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productRepo struct{ db *pgxpool.Pool }

func NewProductRepo(db *pgxpool.Pool) ProductRepo { return &productRepo{db: db} }

var productOrdering = map[string]string{
	"order":      "sort_order",
	"created_at": "created_at",
	"name":       "name",
	"rating":     "rating",
}

const productColumns = `id, name, slug, tagline, description, icon, image, status, url, github_url, documentation_url,
	user_count, rating::text, is_featured, sort_order, features, technologies, metrics, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var (
		p                          models.Product
		rating                     *string
		features, techs, metricsB []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Tagline, &p.Description, &p.Icon, &p.Image, &p.Status, &p.URL,
		&p.GithubURL, &p.DocumentationURL, &p.UserCount, &rating, &p.IsFeatured, &p.Order,
		&features, &techs, &metricsB, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Rating = decFromText(rating)
	p.Features = fromJSONB[models.Feature](features)
	p.Technologies = fromJSONB[string](techs)
	p.Metrics = fromJSONB[models.Metric](metricsB)
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, f models.ProductFilter, limit, offset int) ([]*models.Product, int, error) {
	log := logger.WithCtx(ctx)
	w := &where{}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	} else {
		w.add("status <> 'archived'")
	}
	if f.Featured != nil {
		w.add("is_featured = ?", *f.Featured)
	}
	w.search(f.Search, "name", "tagline", "description")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM products"+w.sql(), w.args...).Scan(&total); err != nil {
		log.Error("Ошибка подсчёта продуктов (repo)", zap.Error(err))
		return nil, 0, err
	}

	order := pagination.Ordering(f.Ordering, productOrdering, "sort_order ASC, created_at DESC")
	sql := "SELECT " + productColumns + " FROM products" + w.sql() +
		fmt.Sprintf(" ORDER BY %s, id DESC LIMIT %s OFFSET %s", order, w.next(limit), w.next(offset))

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		log.Error("Ошибка получения продуктов (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE slug = $1", slug))
	if err != nil {
		return nil, apperr.FromDB(err, "product")
	}
	return p, nil
}

func (r *productRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&ok)
	return ok, err
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	logger.WithCtx(ctx).Info("Создание продукта (repo)", zap.String("slug", p.Slug))
	const q = `
		INSERT INTO products (name, slug, tagline, description, icon, image, status, url, github_url,
		                      documentation_url, user_count, rating, is_featured, sort_order,
		                      features, technologies, metrics)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12::numeric,$13,$14,$15::jsonb,$16::jsonb,$17::jsonb)
		RETURNING ` + productColumns
	out, err := scanProduct(r.db.QueryRow(ctx, q,
		p.Name, p.Slug, p.Tagline, p.Description, p.Icon, p.Image, p.Status, p.URL, p.GithubURL,
		p.DocumentationURL, p.UserCount, decToText(p.Rating), p.IsFeatured, p.Order,
		toJSONB(p.Features), toJSONB(p.Technologies), toJSONB(p.Metrics),
	))
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания продукта (repo)", zap.Error(err))
		return nil, apperr.FromDB(err, "product")
	}
	return out, nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	logger.WithCtx(ctx).Info("Обновление продукта (repo)", zap.Int64("id", p.ID))
	const q = `
		UPDATE products
		SET name = $1, tagline = $2, description = $3, icon = $4, image = $5, status = $6, url = $7,
		    github_url = $8, documentation_url = $9, user_count = $10, rating = $11::numeric,
		    is_featured = $12, sort_order = $13, features = $14::jsonb, technologies = $15::jsonb,
		    metrics = $16::jsonb, updated_at = NOW()
		WHERE id = $17
		RETURNING ` + productColumns
	out, err := scanProduct(r.db.QueryRow(ctx, q,
		p.Name, p.Tagline, p.Description, p.Icon, p.Image, p.Status, p.URL, p.GithubURL,
		p.DocumentationURL, p.UserCount, decToText(p.Rating), p.IsFeatured, p.Order,
		toJSONB(p.Features), toJSONB(p.Technologies), toJSONB(p.Metrics), p.ID,
	))
	if err != nil {
		return nil, apperr.FromDB(err, "product")
	}
	return out, nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return apperr.FromDB(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}
