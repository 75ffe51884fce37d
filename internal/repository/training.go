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

type TrainingRepo interface {
	ListCourses(ctx context.Context, f models.CourseFilter, limit, offset int) ([]*models.Course, int, error)
	GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error)
	CourseSlugExists(ctx context.Context, slug string) (bool, error)
	CreateCourse(ctx context.Context, c *models.Course, instructors []models.CourseInstructorInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, c *models.Course, instructors *[]models.CourseInstructorInput) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	CourseStats(ctx context.Context) (*models.CourseStats, error)

	ListInstructors(ctx context.Context) ([]*models.Instructor, error)
	CreateInstructor(ctx context.Context, in *models.Instructor) (*models.Instructor, error)
}

type trainingRepo struct{ db *pgxpool.Pool }

func NewTrainingRepo(db *pgxpool.Pool) TrainingRepo { return &trainingRepo{db: db} }

var courseOrdering = map[string]string{
	"order":          "sort_order",
	"created_at":     "created_at",
	"price":          "price",
	"rating":         "rating",
	"students_count": "students_count",
	"title":          "title",
}

const courseColumns = `id, title, slug, description, long_description, level, status, duration, price::text,
	original_price::text, students_count, rating::text, image, enrollment_url, is_featured, sort_order,
	modules, technologies, projects, created_at, updated_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var (
		c                      models.Course
		price                  string
		original, rating       *string
		modules, techs, projsB []byte
	)
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.LongDescription, &c.Level, &c.Status, &c.Duration,
		&price, &original, &c.StudentsCount, &rating, &c.Image, &c.EnrollmentURL, &c.IsFeatured, &c.Order,
		&modules, &techs, &projsB, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if d := decFromText(&price); d != nil {
		c.Price = *d
	}
	c.OriginalPrice = decFromText(original)
	c.Rating = decFromText(rating)
	c.DiscountPercentage = models.Discount(c.Price, c.OriginalPrice)
	c.Modules = fromJSONB[models.CourseModule](modules)
	c.Technologies = fromJSONB[string](techs)
	c.Projects = fromJSONB[string](projsB)
	c.Instructors = []models.CourseInstructor{}
	return &c, nil
}

func (r *trainingRepo) ListCourses(ctx context.Context, f models.CourseFilter, limit, offset int) ([]*models.Course, int, error) {
	log := logger.WithCtx(ctx)
	w := &where{}
	if f.Level != "" {
		w.add("level = ?", f.Level)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	} else {
		w.add("status <> 'archived'")
	}
	if f.Featured != nil {
		w.add("is_featured = ?", *f.Featured)
	}
	w.search(f.Search, "title", "description", "long_description")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM courses"+w.sql(), w.args...).Scan(&total); err != nil {
		log.Error("Ошибка подсчёта курсов (repo)", zap.Error(err))
		return nil, 0, err
	}

	order := pagination.Ordering(f.Ordering, courseOrdering, "sort_order ASC, created_at DESC")
	sql := "SELECT " + courseColumns + " FROM courses" + w.sql() +
		fmt.Sprintf(" ORDER BY %s, id DESC LIMIT %s OFFSET %s", order, w.next(limit), w.next(offset))

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		log.Error("Ошибка получения курсов (repo)", zap.Error(err))
		return nil, 0, err
	}
	var list []*models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		list = append(list, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachInstructors(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *trainingRepo) attachInstructors(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	ids := make([]int64, len(courses))
	byID := make(map[int64]*models.Course, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
		byID[c.ID] = c
	}
	rows, err := r.db.Query(ctx, `
		SELECT ci.course_id, ci.role, ci.sort_order,
		       i.id, i.name, i.bio, i.title, i.image, i.experience_years,
		       i.linkedin_url, i.github_url, i.twitter_url, i.is_active, i.created_at
		FROM course_instructors ci
		JOIN instructors i ON i.id = ci.instructor_id
		WHERE ci.course_id = ANY($1)
		ORDER BY ci.sort_order, i.name`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var courseID int64
		var ci models.CourseInstructor
		if err := rows.Scan(&courseID, &ci.Role, &ci.Order,
			&ci.ID, &ci.Name, &ci.Bio, &ci.Title, &ci.Image, &ci.ExperienceYears,
			&ci.LinkedinURL, &ci.GithubURL, &ci.TwitterURL, &ci.IsActive, &ci.CreatedAt); err != nil {
			return err
		}
		if c, ok := byID[courseID]; ok {
			c.Instructors = append(c.Instructors, ci)
		}
	}
	return rows.Err()
}

func (r *trainingRepo) GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	c, err := scanCourse(r.db.QueryRow(ctx, "SELECT "+courseColumns+" FROM courses WHERE slug = $1", slug))
	if err != nil {
		return nil, apperr.FromDB(err, "course")
	}
	if err := r.attachInstructors(ctx, []*models.Course{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *trainingRepo) CourseSlugExists(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE slug = $1)`, slug).Scan(&ok)
	return ok, err
}

func setCourseInstructors(ctx context.Context, tx pgx.Tx, courseID int64, in []models.CourseInstructorInput) error {
	if _, err := tx.Exec(ctx, `DELETE FROM course_instructors WHERE course_id = $1`, courseID); err != nil {
		return err
	}
	for _, ci := range in {
		role := ci.Role
		if role == "" {
			role = "Lead Instructor"
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO course_instructors (course_id, instructor_id, role, sort_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (course_id, instructor_id) DO UPDATE SET role = EXCLUDED.role, sort_order = EXCLUDED.sort_order`,
			courseID, ci.InstructorID, role, ci.Order); err != nil {
			return err
		}
	}
	return nil
}

func (r *trainingRepo) CreateCourse(ctx context.Context, c *models.Course, instructors []models.CourseInstructorInput) (*models.Course, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание курса (repo)", zap.String("slug", c.Slug))

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		const q = `
			INSERT INTO courses (title, slug, description, long_description, level, status, duration, price,
			    original_price, students_count, rating, image, enrollment_url, is_featured, sort_order,
			    modules, technologies, projects)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8::numeric,$9::numeric,$10,$11::numeric,$12,$13,$14,$15,
			        $16::jsonb,$17::jsonb,$18::jsonb)
			RETURNING id`
		if err := tx.QueryRow(ctx, q,
			c.Title, c.Slug, c.Description, c.LongDescription, c.Level, c.Status, c.Duration, c.Price.String(),
			decToText(c.OriginalPrice), c.StudentsCount, decToText(c.Rating), c.Image, c.EnrollmentURL,
			c.IsFeatured, c.Order, toJSONB(c.Modules), toJSONB(c.Technologies), toJSONB(c.Projects),
		).Scan(&id); err != nil {
			return err
		}
		return setCourseInstructors(ctx, tx, id, instructors)
	})
	if err != nil {
		log.Error("Ошибка создания курса (repo)", zap.Error(err))
		return nil, apperr.FromDB(err, "course")
	}
	return r.GetCourseBySlug(ctx, c.Slug)
}

func (r *trainingRepo) UpdateCourse(ctx context.Context, c *models.Course, instructors *[]models.CourseInstructorInput) (*models.Course, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
			UPDATE courses
			SET title = $1, description = $2, long_description = $3, level = $4, status = $5, duration = $6,
			    price = $7::numeric, original_price = $8::numeric, students_count = $9, rating = $10::numeric,
			    image = $11, enrollment_url = $12, is_featured = $13, sort_order = $14,
			    modules = $15::jsonb, technologies = $16::jsonb, projects = $17::jsonb, updated_at = NOW()
			WHERE id = $18`
		tag, err := tx.Exec(ctx, q,
			c.Title, c.Description, c.LongDescription, c.Level, c.Status, c.Duration, c.Price.String(),
			decToText(c.OriginalPrice), c.StudentsCount, decToText(c.Rating), c.Image, c.EnrollmentURL,
			c.IsFeatured, c.Order, toJSONB(c.Modules), toJSONB(c.Technologies), toJSONB(c.Projects), c.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("course not found")
		}
		if instructors != nil {
			return setCourseInstructors(ctx, tx, c.ID, *instructors)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "course")
	}
	return r.GetCourseBySlug(ctx, c.Slug)
}

func (r *trainingRepo) DeleteCourse(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return apperr.FromDB(err, "course")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("course not found")
	}
	return nil
}

func (r *trainingRepo) CourseStats(ctx context.Context) (*models.CourseStats, error) {
	st := &models.CourseStats{CoursesByLevel: map[string]int{}}
	var avg *string
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'active'),
		       COALESCE(SUM(students_count), 0),
		       ROUND(AVG(rating), 1)::text,
		       (SELECT COUNT(*) FROM instructors WHERE is_active)
		FROM courses
		WHERE status <> 'archived'`).Scan(&st.TotalCourses, &st.ActiveCourses, &st.TotalStudents, &avg, &st.InstructorCount)
	if err != nil {
		return nil, err
	}
	st.AverageRating = "0.0"
	if avg != nil {
		st.AverageRating = *avg
	}

	rows, err := r.db.Query(ctx, `SELECT level, COUNT(*) FROM courses WHERE status <> 'archived' GROUP BY level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		st.CoursesByLevel[level] = n
	}
	return st, rows.Err()
}

func (r *trainingRepo) ListInstructors(ctx context.Context) ([]*models.Instructor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, bio, title, image, experience_years, linkedin_url, github_url, twitter_url, is_active, created_at
		FROM instructors WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Instructor
	for rows.Next() {
		var i models.Instructor
		if err := rows.Scan(&i.ID, &i.Name, &i.Bio, &i.Title, &i.Image, &i.ExperienceYears,
			&i.LinkedinURL, &i.GithubURL, &i.TwitterURL, &i.IsActive, &i.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &i)
	}
	return out, rows.Err()
}

func (r *trainingRepo) CreateInstructor(ctx context.Context, in *models.Instructor) (*models.Instructor, error) {
	out := *in
	err := r.db.QueryRow(ctx, `
		INSERT INTO instructors (name, bio, title, image, experience_years, linkedin_url, github_url, twitter_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at`,
		in.Name, in.Bio, in.Title, in.Image, in.ExperienceYears, in.LinkedinURL, in.GithubURL, in.TwitterURL,
	).Scan(&out.ID, &out.IsActive, &out.CreatedAt)
	if err != nil {
		return nil, apperr.FromDB(err, "instructor")
	}
	return &out, nil
}
