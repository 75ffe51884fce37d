package repository

import (
	"context"
	"fmt"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CareersRepo interface {
	ListPositions(ctx context.Context, f models.PositionFilter, limit, offset int) ([]*models.JobPosition, int, error)
	GetPositionBySlug(ctx context.Context, slug string) (*models.JobPosition, error)
	PositionSlugExists(ctx context.Context, slug string) (bool, error)
	CreatePosition(ctx context.Context, p *models.JobPosition) (*models.JobPosition, error)
	UpdatePosition(ctx context.Context, p *models.JobPosition) (*models.JobPosition, error)
	DeletePosition(ctx context.Context, id int64) error

	CreateApplication(ctx context.Context, a *models.JobApplication) (*models.JobApplication, error)
	ListApplications(ctx context.Context, f models.ApplicationFilter, limit, offset int) ([]*models.JobApplication, int, error)
	GetApplication(ctx context.Context, id int64) (*models.JobApplication, error)
	UpdateApplication(ctx context.Context, id int64, in *models.UpdateApplicationRequest) (*models.JobApplication, error)
	Stats(ctx context.Context) (*models.CareerStats, error)
}

type careersRepo struct{ db *pgxpool.Pool }

func NewCareersRepo(db *pgxpool.Pool) CareersRepo { return &careersRepo{db: db} }

var positionOrdering = map[string]string{
	"created_at": "jp.created_at",
	"title":      "jp.title",
	"department": "jp.department",
}

const positionColumns = `jp.id, jp.title, jp.slug, jp.department, jp.job_type, jp.level, jp.location, jp.is_remote,
	jp.description, jp.requirements, jp.responsibilities, jp.benefits, jp.salary_min::text, jp.salary_max::text,
	jp.salary_currency, jp.status, jp.is_featured, jp.skills, jp.application_deadline, jp.created_at, jp.updated_at,
	(SELECT COUNT(*) FROM job_applications ja WHERE ja.position_id = jp.id)`

func scanPosition(row pgx.Row) (*models.JobPosition, error) {
	var (
		p              models.JobPosition
		salMin, salMax *string
		skills         []byte
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Department, &p.JobType, &p.Level, &p.Location, &p.IsRemote,
		&p.Description, &p.Requirements, &p.Responsibilities, &p.Benefits, &salMin, &salMax,
		&p.SalaryCurrency, &p.Status, &p.IsFeatured, &skills, &p.ApplicationDeadline, &p.CreatedAt, &p.UpdatedAt,
		&p.ApplicationsCount)
	if err != nil {
		return nil, err
	}
	p.SalaryMin = decFromText(salMin)
	p.SalaryMax = decFromText(salMax)
	p.Skills = fromJSONB[string](skills)
	return &p, nil
}

func (r *careersRepo) ListPositions(ctx context.Context, f models.PositionFilter, limit, offset int) ([]*models.JobPosition, int, error) {
	log := logger.WithCtx(ctx)
	w := &where{}
	if f.Department != "" {
		w.add("jp.department = ?", f.Department)
	}
	if f.JobType != "" {
		w.add("jp.job_type = ?", f.JobType)
	}
	if f.Level != "" {
		w.add("jp.level = ?", f.Level)
	}
	if f.Status != "" {
		w.add("jp.status = ?", f.Status)
	}
	if f.Featured != nil {
		w.add("jp.is_featured = ?", *f.Featured)
	}
	w.search(f.Search, "jp.title", "jp.description", "jp.location")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM job_positions jp"+w.sql(), w.args...).Scan(&total); err != nil {
		log.Error("Ошибка подсчёта вакансий (repo)", zap.Error(err))
		return nil, 0, err
	}

	order := pagination.Ordering(f.Ordering, positionOrdering, "jp.is_featured DESC, jp.created_at DESC")
	sql := "SELECT " + positionColumns + " FROM job_positions jp" + w.sql() +
		fmt.Sprintf(" ORDER BY %s, jp.id DESC LIMIT %s OFFSET %s", order, w.next(limit), w.next(offset))

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		log.Error("Ошибка получения вакансий (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.JobPosition
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *careersRepo) GetPositionBySlug(ctx context.Context, slug string) (*models.JobPosition, error) {
	p, err := scanPosition(r.db.QueryRow(ctx, "SELECT "+positionColumns+" FROM job_positions jp WHERE jp.slug = $1", slug))
	if err != nil {
		return nil, apperr.FromDB(err, "position")
	}
	return p, nil
}

func (r *careersRepo) PositionSlugExists(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM job_positions WHERE slug = $1)`, slug).Scan(&ok)
	return ok, err
}

func (r *careersRepo) CreatePosition(ctx context.Context, p *models.JobPosition) (*models.JobPosition, error) {
	logger.WithCtx(ctx).Info("Создание вакансии (repo)", zap.String("slug", p.Slug))
	const q = `
		INSERT INTO job_positions (title, slug, department, job_type, level, location, is_remote, description,
		    requirements, responsibilities, benefits, salary_min, salary_max, salary_currency, status,
		    is_featured, skills, application_deadline)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12::numeric,$13::numeric,$14,$15,$16,$17::jsonb,$18)`
	_, err := r.db.Exec(ctx, q,
		p.Title, p.Slug, p.Department, p.JobType, p.Level, p.Location, p.IsRemote, p.Description,
		p.Requirements, p.Responsibilities, p.Benefits, decToText(p.SalaryMin), decToText(p.SalaryMax),
		p.SalaryCurrency, p.Status, p.IsFeatured, toJSONB(p.Skills), p.ApplicationDeadline)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания вакансии (repo)", zap.Error(err))
		return nil, apperr.FromDB(err, "position")
	}
	return r.GetPositionBySlug(ctx, p.Slug)
}

func (r *careersRepo) UpdatePosition(ctx context.Context, p *models.JobPosition) (*models.JobPosition, error) {
	const q = `
		UPDATE job_positions
		SET title = $1, department = $2, job_type = $3, level = $4, location = $5, is_remote = $6,
		    description = $7, requirements = $8, responsibilities = $9, benefits = $10,
		    salary_min = $11::numeric, salary_max = $12::numeric, salary_currency = $13, status = $14,
		    is_featured = $15, skills = $16::jsonb, application_deadline = $17, updated_at = NOW()
		WHERE id = $18`
	tag, err := r.db.Exec(ctx, q,
		p.Title, p.Department, p.JobType, p.Level, p.Location, p.IsRemote,
		p.Description, p.Requirements, p.Responsibilities, p.Benefits,
		decToText(p.SalaryMin), decToText(p.SalaryMax), p.SalaryCurrency, p.Status,
		p.IsFeatured, toJSONB(p.Skills), p.ApplicationDeadline, p.ID)
	if err != nil {
		return nil, apperr.FromDB(err, "position")
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("position not found")
	}
	return r.GetPositionBySlug(ctx, p.Slug)
}

func (r *careersRepo) DeletePosition(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM job_positions WHERE id = $1", id)
	if err != nil {
		return apperr.FromDB(err, "position")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("position not found")
	}
	return nil
}

// ----- Отклики -----

const applicationColumns = `ja.id, ja.position_id, jp.title, jp.slug, ja.first_name, ja.last_name, ja.email, ja.phone,
	ja.location, ja.cover_letter, ja.resume, ja.portfolio_url, ja.linkedin_url, ja.github_url,
	ja.years_of_experience, ja.current_salary::text, ja.expected_salary::text, ja.status, ja.admin_notes,
	ja.ip_address, ja.user_agent, ja.created_at, ja.updated_at`

const applicationFrom = ` FROM job_applications ja JOIN job_positions jp ON jp.id = ja.position_id`

func scanApplication(row pgx.Row) (*models.JobApplication, error) {
	var (
		a             models.JobApplication
		cur, expected *string
	)
	err := row.Scan(&a.ID, &a.PositionID, &a.PositionTitle, &a.PositionSlug, &a.FirstName, &a.LastName, &a.Email,
		&a.Phone, &a.Location, &a.CoverLetter, &a.Resume, &a.PortfolioURL, &a.LinkedinURL, &a.GithubURL,
		&a.YearsOfExperience, &cur, &expected, &a.Status, &a.AdminNotes, &a.IPAddress, &a.UserAgent,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.CurrentSalary = decFromText(cur)
	a.ExpectedSalary = decFromText(expected)
	a.HasResume = a.Resume != ""
	return &a, nil
}

// CreateApplication в одной транзакции блокирует вакансию и проверяет, что она открыта.
func (r *careersRepo) CreateApplication(ctx context.Context, a *models.JobApplication) (*models.JobApplication, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание отклика (repo)", zap.Int64("position_id", a.PositionID))

	var id int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var status string
		var open bool
		err := tx.QueryRow(ctx, `
			SELECT status, (application_deadline IS NULL OR application_deadline > NOW())
			FROM job_positions WHERE id = $1 FOR SHARE`, a.PositionID).Scan(&status, &open)
		if err != nil {
			return err
		}
		if status != models.PositionOpen || !open {
			return apperr.Validation("This position is no longer accepting applications.")
		}

		const q = `
			INSERT INTO job_applications (position_id, first_name, last_name, email, phone, location, cover_letter,
			    resume, portfolio_url, linkedin_url, github_url, years_of_experience, current_salary,
			    expected_salary, status, ip_address, user_agent)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13::numeric,$14::numeric,$15,$16,$17)
			RETURNING id`
		return tx.QueryRow(ctx, q,
			a.PositionID, a.FirstName, a.LastName, a.Email, a.Phone, a.Location, a.CoverLetter,
			a.Resume, a.PortfolioURL, a.LinkedinURL, a.GithubURL, a.YearsOfExperience,
			decToText(a.CurrentSalary), decToText(a.ExpectedSalary), models.ApplicationSubmitted,
			a.IPAddress, a.UserAgent,
		).Scan(&id)
	})
	if err != nil {
		log.Error("Ошибка создания отклика (repo)", zap.Error(err))
		return nil, apperr.FromDB(err, "position")
	}
	return r.GetApplication(ctx, id)
}

func (r *careersRepo) ListApplications(ctx context.Context, f models.ApplicationFilter, limit, offset int) ([]*models.JobApplication, int, error) {
	w := &where{}
	if f.Status != "" {
		w.add("ja.status = ?", f.Status)
	}
	if f.Position != "" {
		w.add("jp.slug = ?", f.Position)
	}
	w.search(f.Search, "ja.first_name", "ja.last_name", "ja.email")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)"+applicationFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := "SELECT " + applicationColumns + applicationFrom + w.sql() +
		fmt.Sprintf(" ORDER BY ja.created_at DESC, ja.id DESC LIMIT %s OFFSET %s", w.next(limit), w.next(offset))
	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения откликов (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.JobApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

func (r *careersRepo) GetApplication(ctx context.Context, id int64) (*models.JobApplication, error) {
	a, err := scanApplication(r.db.QueryRow(ctx, "SELECT "+applicationColumns+applicationFrom+" WHERE ja.id = $1", id))
	if err != nil {
		return nil, apperr.FromDB(err, "application")
	}
	return a, nil
}

// UpdateApplication меняет только статус и заметки; поля заявителя неизменяемы.
func (r *careersRepo) UpdateApplication(ctx context.Context, id int64, in *models.UpdateApplicationRequest) (*models.JobApplication, error) {
	sets := []string{}
	args := []any{}
	if in.Status != nil {
		args = append(args, *in.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if in.AdminNotes != nil {
		args = append(args, *in.AdminNotes)
		sets = append(sets, fmt.Sprintf("admin_notes = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetApplication(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf("UPDATE job_applications SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return nil, apperr.FromDB(err, "application")
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("application not found")
	}
	return r.GetApplication(ctx, id)
}

func (r *careersRepo) Stats(ctx context.Context) (*models.CareerStats, error) {
	st := &models.CareerStats{
		ApplicationsByStatus:  map[string]int{},
		PositionsByDepartment: map[string]int{},
	}
	err := r.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM job_positions WHERE status = 'open'),
		       (SELECT COUNT(*) FROM job_positions),
		       (SELECT COUNT(*) FROM job_applications),
		       (SELECT COUNT(*) FROM job_applications WHERE created_at >= NOW() - INTERVAL '30 days')`).
		Scan(&st.OpenPositions, &st.TotalPositions, &st.TotalApplications, &st.ApplicationsLast30Days)
	if err != nil {
		return nil, err
	}

	if err := collectCounts(ctx, r.db, `SELECT status, COUNT(*) FROM job_applications GROUP BY status`, st.ApplicationsByStatus); err != nil {
		return nil, err
	}
	if err := collectCounts(ctx, r.db, `SELECT department, COUNT(*) FROM job_positions WHERE status = 'open' GROUP BY department`, st.PositionsByDepartment); err != nil {
		return nil, err
	}
	return st, nil
}

// collectCounts читает пары (ключ, количество) в map.
func collectCounts(ctx context.Context, db *pgxpool.Pool, sql string, into map[string]int, args ...any) error {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return err
		}
		into[k] = n
	}
	return rows.Err()
}
