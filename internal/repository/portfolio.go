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

type PortfolioRepo interface {
	List(ctx context.Context, f models.ProjectFilter, limit, offset int) ([]*models.Project, int, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
	TechnologyGroups(ctx context.Context) ([]models.TechnologyGroup, error)
	Stats(ctx context.Context) (*models.PortfolioStats, error)
}

type portfolioRepo struct{ db *pgxpool.Pool }

func NewPortfolioRepo(db *pgxpool.Pool) PortfolioRepo { return &portfolioRepo{db: db} }

var projectOrdering = map[string]string{
	"order":          "sort_order",
	"created_at":     "created_at",
	"title":          "title",
	"duration_weeks": "duration_weeks",
	"team_size":      "team_size",
}

const projectColumns = `id, title, slug, description, long_description, category, status, client_name,
	duration_weeks, team_size, image, live_url, github_url, case_study_url, is_featured, sort_order,
	technologies, challenges, results, metrics, gallery, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var (
		p                                    models.Project
		techs, challenges, results, ms, gall []byte
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.LongDescription, &p.Category, &p.Status,
		&p.ClientName, &p.DurationWeeks, &p.TeamSize, &p.Image, &p.LiveURL, &p.GithubURL, &p.CaseStudyURL,
		&p.IsFeatured, &p.Order, &techs, &challenges, &results, &ms, &gall, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Technologies = fromJSONB[models.Technology](techs)
	p.Challenges = fromJSONB[string](challenges)
	p.Results = fromJSONB[string](results)
	p.Metrics = fromJSONB[models.Metric](ms)
	p.Gallery = fromJSONB[models.GalleryImage](gall)
	return &p, nil
}

func projectWhere(f models.ProjectFilter) *where {
	w := &where{}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Featured != nil {
		w.add("is_featured = ?", *f.Featured)
	}
	if f.Client != "" {
		w.add("client_name ILIKE ?", "%"+escapeLike(f.Client)+"%")
	}
	if len(f.Technologies) > 0 {
		w.add(`EXISTS (
			SELECT 1 FROM jsonb_array_elements(technologies) t
			WHERE LOWER(t->>'name') = ANY(?)
		)`, lowerAll(f.Technologies))
	}
	if f.DurationMin != nil {
		w.add("duration_weeks >= ?", *f.DurationMin)
	}
	if f.DurationMax != nil {
		w.add("duration_weeks <= ?", *f.DurationMax)
	}
	if f.TeamSizeMin != nil {
		w.add("team_size >= ?", *f.TeamSizeMin)
	}
	if f.TeamSizeMax != nil {
		w.add("team_size <= ?", *f.TeamSizeMax)
	}
	w.search(f.Search, "title", "description", "long_description", "client_name")
	return w
}

func (r *portfolioRepo) List(ctx context.Context, f models.ProjectFilter, limit, offset int) ([]*models.Project, int, error) {
	log := logger.WithCtx(ctx)
	w := projectWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM portfolio_projects"+w.sql(), w.args...).Scan(&total); err != nil {
		log.Error("Ошибка подсчёта проектов (repo)", zap.Error(err))
		return nil, 0, err
	}

	order := pagination.Ordering(f.Ordering, projectOrdering, "sort_order ASC, created_at DESC")
	sql := "SELECT " + projectColumns + " FROM portfolio_projects" + w.sql() +
		fmt.Sprintf(" ORDER BY %s, id DESC LIMIT %s OFFSET %s", order, w.next(limit), w.next(offset))

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		log.Error("Ошибка получения проектов (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *portfolioRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, "SELECT "+projectColumns+" FROM portfolio_projects WHERE slug = $1", slug))
	if err != nil {
		return nil, apperr.FromDB(err, "project")
	}
	return p, nil
}

func (r *portfolioRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM portfolio_projects WHERE slug = $1)`, slug).Scan(&ok)
	return ok, err
}

func (r *portfolioRepo) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	logger.WithCtx(ctx).Info("Создание проекта (repo)", zap.String("slug", p.Slug))
	const q = `
		INSERT INTO portfolio_projects (title, slug, description, long_description, category, status, client_name,
		    duration_weeks, team_size, image, live_url, github_url, case_study_url, is_featured, sort_order,
		    technologies, challenges, results, metrics, gallery)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,
		        $16::jsonb,$17::jsonb,$18::jsonb,$19::jsonb,$20::jsonb)
		RETURNING ` + projectColumns
	out, err := scanProject(r.db.QueryRow(ctx, q,
		p.Title, p.Slug, p.Description, p.LongDescription, p.Category, p.Status, p.ClientName,
		p.DurationWeeks, p.TeamSize, p.Image, p.LiveURL, p.GithubURL, p.CaseStudyURL, p.IsFeatured, p.Order,
		toJSONB(p.Technologies), toJSONB(p.Challenges), toJSONB(p.Results), toJSONB(p.Metrics), toJSONB(p.Gallery),
	))
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания проекта (repo)", zap.Error(err))
		return nil, apperr.FromDB(err, "project")
	}
	return out, nil
}

func (r *portfolioRepo) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	const q = `
		UPDATE portfolio_projects
		SET title = $1, description = $2, long_description = $3, category = $4, status = $5, client_name = $6,
		    duration_weeks = $7, team_size = $8, image = $9, live_url = $10, github_url = $11, case_study_url = $12,
		    is_featured = $13, sort_order = $14, technologies = $15::jsonb, challenges = $16::jsonb,
		    results = $17::jsonb, metrics = $18::jsonb, gallery = $19::jsonb, updated_at = NOW()
		WHERE id = $20
		RETURNING ` + projectColumns
	out, err := scanProject(r.db.QueryRow(ctx, q,
		p.Title, p.Description, p.LongDescription, p.Category, p.Status, p.ClientName,
		p.DurationWeeks, p.TeamSize, p.Image, p.LiveURL, p.GithubURL, p.CaseStudyURL, p.IsFeatured, p.Order,
		toJSONB(p.Technologies), toJSONB(p.Challenges), toJSONB(p.Results), toJSONB(p.Metrics), toJSONB(p.Gallery),
		p.ID,
	))
	if err != nil {
		return nil, apperr.FromDB(err, "project")
	}
	return out, nil
}

func (r *portfolioRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM portfolio_projects WHERE id = $1", id)
	if err != nil {
		return apperr.FromDB(err, "project")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("project not found")
	}
	return nil
}

func (r *portfolioRepo) TechnologyGroups(ctx context.Context) ([]models.TechnologyGroup, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(NULLIF(t->>'category', ''), 'other') AS cat, t->>'name' AS name, COUNT(DISTINCT p.id)
		FROM portfolio_projects p, jsonb_array_elements(p.technologies) t
		WHERE COALESCE(t->>'name', '') <> ''
		GROUP BY 1, 2
		ORDER BY 1, 3 DESC, 2`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.TechnologyGroup
	for rows.Next() {
		var cat string
		var tc models.TechnologyCount
		if err := rows.Scan(&cat, &tc.Name, &tc.ProjectCount); err != nil {
			return nil, err
		}
		if n := len(groups); n == 0 || groups[n-1].Category != cat {
			groups = append(groups, models.TechnologyGroup{Category: cat})
		}
		g := &groups[len(groups)-1]
		g.Technologies = append(g.Technologies, tc)
	}
	return groups, rows.Err()
}

func (r *portfolioRepo) Stats(ctx context.Context) (*models.PortfolioStats, error) {
	st := &models.PortfolioStats{ProjectsByCategory: map[string]int{}}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE is_featured),
		       COALESCE(AVG(duration_weeks) FILTER (WHERE duration_weeks > 0), 0)::float8,
		       COALESCE(AVG(team_size) FILTER (WHERE team_size > 0), 0)::float8
		FROM portfolio_projects`).Scan(
		&st.TotalProjects, &st.CompletedProjects, &st.FeaturedProjects, &st.AverageDurationWeeks, &st.AverageTeamSize)
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT LOWER(t->>'name'))
		FROM portfolio_projects p, jsonb_array_elements(p.technologies) t`).Scan(&st.TotalTechnologies); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT category, COUNT(*) FROM portfolio_projects GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		st.ProjectsByCategory[cat] = n
	}
	return st, rows.Err()
}
