package repository

import (
	"context"
	"fmt"
	"strconv"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TestimonialRepo interface {
	List(ctx context.Context, f models.TestimonialFilter, limit, offset int) ([]*models.Testimonial, int, error)
	Get(ctx context.Context, id int64) (*models.Testimonial, error)
	Create(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error)
	Update(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error)
	Delete(ctx context.Context, id int64) error
	SetApproved(ctx context.Context, id int64, approved bool) (*models.Testimonial, error)
	Stats(ctx context.Context) (*models.TestimonialStats, error)
}

type testimonialRepo struct{ db *pgxpool.Pool }

func NewTestimonialRepo(db *pgxpool.Pool) TestimonialRepo { return &testimonialRepo{db: db} }

var testimonialOrdering = map[string]string{
	"order":      "sort_order",
	"created_at": "created_at",
	"rating":     "rating",
}

const testimonialColumns = `id, name, role, company, avatar, content, rating, testimonial_type, product, course,
	is_featured, is_approved, sort_order, email, ip_address, user_agent, created_at`

func scanTestimonial(row pgx.Row) (*models.Testimonial, error) {
	var t models.Testimonial
	err := row.Scan(&t.ID, &t.Name, &t.Role, &t.Company, &t.Avatar, &t.Content, &t.Rating, &t.TestimonialType,
		&t.Product, &t.Course, &t.IsFeatured, &t.IsApproved, &t.Order, &t.Email, &t.IPAddress, &t.UserAgent,
		&t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *testimonialRepo) List(ctx context.Context, f models.TestimonialFilter, limit, offset int) ([]*models.Testimonial, int, error) {
	w := &where{}
	if f.Approved != nil {
		w.add("is_approved = ?", *f.Approved)
	}
	if f.Type != "" {
		w.add("testimonial_type = ?", f.Type)
	}
	if f.Featured != nil {
		w.add("is_featured = ?", *f.Featured)
	}
	if f.Rating != nil {
		w.add("rating = ?", *f.Rating)
	}
	w.search(f.Search, "name", "company", "content")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM testimonials"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := pagination.Ordering(f.Ordering, testimonialOrdering, "sort_order ASC, created_at DESC")
	sql := "SELECT " + testimonialColumns + " FROM testimonials" + w.sql() +
		fmt.Sprintf(" ORDER BY %s, id DESC LIMIT %s OFFSET %s", order, w.next(limit), w.next(offset))
	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения отзывов (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (r *testimonialRepo) Get(ctx context.Context, id int64) (*models.Testimonial, error) {
	t, err := scanTestimonial(r.db.QueryRow(ctx, "SELECT "+testimonialColumns+" FROM testimonials WHERE id = $1", id))
	if err != nil {
		return nil, apperr.FromDB(err, "testimonial")
	}
	return t, nil
}

func (r *testimonialRepo) Create(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	logger.WithCtx(ctx).Info("Создание отзыва (repo)", zap.String("name", t.Name), zap.Bool("approved", t.IsApproved))
	const q = `
		INSERT INTO testimonials (name, role, company, avatar, content, rating, testimonial_type, product, course,
		                          is_featured, is_approved, sort_order, email, ip_address, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING ` + testimonialColumns
	out, err := scanTestimonial(r.db.QueryRow(ctx, q,
		t.Name, t.Role, t.Company, t.Avatar, t.Content, t.Rating, t.TestimonialType, t.Product, t.Course,
		t.IsFeatured, t.IsApproved, t.Order, t.Email, t.IPAddress, t.UserAgent,
	))
	if err != nil {
		return nil, apperr.FromDB(err, "testimonial")
	}
	return out, nil
}

func (r *testimonialRepo) Update(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	const q = `
		UPDATE testimonials
		SET name = $1, role = $2, company = $3, avatar = $4, content = $5, rating = $6, testimonial_type = $7,
		    product = $8, course = $9, is_featured = $10, is_approved = $11, sort_order = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING ` + testimonialColumns
	out, err := scanTestimonial(r.db.QueryRow(ctx, q,
		t.Name, t.Role, t.Company, t.Avatar, t.Content, t.Rating, t.TestimonialType,
		t.Product, t.Course, t.IsFeatured, t.IsApproved, t.Order, t.ID,
	))
	if err != nil {
		return nil, apperr.FromDB(err, "testimonial")
	}
	return out, nil
}

func (r *testimonialRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM testimonials WHERE id = $1", id)
	if err != nil {
		return apperr.FromDB(err, "testimonial")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("testimonial not found")
	}
	return nil
}

func (r *testimonialRepo) SetApproved(ctx context.Context, id int64, approved bool) (*models.Testimonial, error) {
	logger.WithCtx(ctx).Info("Модерация отзыва (repo)", zap.Int64("id", id), zap.Bool("approved", approved))
	out, err := scanTestimonial(r.db.QueryRow(ctx,
		"UPDATE testimonials SET is_approved = $1, updated_at = NOW() WHERE id = $2 RETURNING "+testimonialColumns,
		approved, id))
	if err != nil {
		return nil, apperr.FromDB(err, "testimonial")
	}
	return out, nil
}

func (r *testimonialRepo) Stats(ctx context.Context) (*models.TestimonialStats, error) {
	st := &models.TestimonialStats{
		ByType:             map[string]int{},
		RatingDistribution: map[string]int{},
	}
	// средняя оценка только по одобренным
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_approved),
		       COUNT(*) FILTER (WHERE NOT is_approved),
		       COUNT(*) FILTER (WHERE is_featured AND is_approved),
		       COALESCE(ROUND(AVG(rating) FILTER (WHERE is_approved), 2), 0)::float8
		FROM testimonials`).Scan(&st.Total, &st.Approved, &st.Pending, &st.Featured, &st.AverageRating)
	if err != nil {
		return nil, err
	}

	if err := collectCounts(ctx, r.db,
		`SELECT testimonial_type, COUNT(*) FROM testimonials WHERE is_approved GROUP BY testimonial_type`, st.ByType); err != nil {
		return nil, err
	}

	for i := 1; i <= 5; i++ {
		st.RatingDistribution[strconv.Itoa(i)] = 0
	}
	if err := collectCounts(ctx, r.db,
		`SELECT rating::text, COUNT(*) FROM testimonials WHERE is_approved GROUP BY rating`, st.RatingDistribution); err != nil {
		return nil, err
	}
	return st, nil
}
