package services

import (
	"context"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/markdown"
	"appnity/internal/models"
	"appnity/internal/pagination"
	"appnity/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const featuredCoursesLimit = 3

type TrainingService struct {
	repo repository.TrainingRepo
}

func NewTrainingService(repo repository.TrainingRepo) *TrainingService {
	return &TrainingService{repo: repo}
}

func (s *TrainingService) List(ctx context.Context, f models.CourseFilter, p pagination.Params) ([]*models.Course, int, error) {
	return s.repo.ListCourses(ctx, f, p.Limit(), p.Offset())
}

// Featured: только активные курсы.
func (s *TrainingService) Featured(ctx context.Context) ([]*models.Course, error) {
	yes := true
	list, _, err := s.repo.ListCourses(ctx, models.CourseFilter{Featured: &yes, Status: "active", Ordering: "-created_at"}, featuredCoursesLimit, 0)
	return list, err
}

func (s *TrainingService) Stats(ctx context.Context) (*models.CourseStats, error) {
	return s.repo.CourseStats(ctx)
}

func (s *TrainingService) Get(ctx context.Context, slug string) (*models.Course, error) {
	c, err := s.repo.GetCourseBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.LongDescriptionHTML = markdown.ToHTML(c.LongDescription)
	return c, nil
}

func (s *TrainingService) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	logger.WithCtx(ctx).Info("Создание курса (service)", zap.String("title", req.Title))

	price := decimal.Zero
	if p, err := parseDecimal("price", &req.Price, priceRange); err != nil {
		return nil, err
	} else if p != nil {
		price = *p
	}
	original, err := parseDecimal("original_price", req.OriginalPrice, priceRange)
	if err != nil {
		return nil, err
	}
	rating, err := parseDecimal("rating", req.Rating, ratingRange)
	if err != nil {
		return nil, err
	}
	if err := checkPrices(price, original); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, req.Title, s.repo.CourseSlugExists)
	if err != nil {
		return nil, err
	}
	c := &models.Course{
		Title:           strings.TrimSpace(req.Title),
		Slug:            slug,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Level:           req.Level,
		Status:          req.Status,
		Duration:        req.Duration,
		Price:           price,
		OriginalPrice:   original,
		StudentsCount:   req.StudentsCount,
		Rating:          rating,
		Image:           req.Image,
		EnrollmentURL:   req.EnrollmentURL,
		IsFeatured:      req.IsFeatured,
		Order:           req.Order,
		Modules:         req.Modules,
		Technologies:    req.Technologies,
		Projects:        req.Projects,
	}
	if c.Level == "" {
		c.Level = "beginner"
	}
	if c.Status == "" {
		c.Status = "coming_soon"
	}
	out, err := s.repo.CreateCourse(ctx, c, req.Instructors)
	if err != nil {
		return nil, err
	}
	out.LongDescriptionHTML = markdown.ToHTML(out.LongDescription)
	return out, nil
}

func (s *TrainingService) Update(ctx context.Context, slug string, req *models.UpdateCourseRequest) (*models.Course, error) {
	c, err := s.repo.GetCourseBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if req.Price != nil {
		p, err := parseDecimal("price", req.Price, priceRange)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperr.Field("price", "This field may not be blank.")
		}
		c.Price = *p
	}
	if req.OriginalPrice != nil {
		if c.OriginalPrice, err = parseDecimal("original_price", req.OriginalPrice, priceRange); err != nil {
			return nil, err
		}
	}
	if req.Rating != nil {
		if c.Rating, err = parseDecimal("rating", req.Rating, ratingRange); err != nil {
			return nil, err
		}
	}
	if err := checkPrices(c.Price, c.OriginalPrice); err != nil {
		return nil, err
	}
	patch(&c.Title, req.Title)
	patch(&c.Description, req.Description)
	patch(&c.LongDescription, req.LongDescription)
	patch(&c.Level, req.Level)
	patch(&c.Status, req.Status)
	patch(&c.Duration, req.Duration)
	patch(&c.StudentsCount, req.StudentsCount)
	patch(&c.Image, req.Image)
	patch(&c.EnrollmentURL, req.EnrollmentURL)
	patch(&c.IsFeatured, req.IsFeatured)
	patch(&c.Order, req.Order)
	patch(&c.Modules, req.Modules)
	patch(&c.Technologies, req.Technologies)
	patch(&c.Projects, req.Projects)

	out, err := s.repo.UpdateCourse(ctx, c, req.Instructors)
	if err != nil {
		return nil, err
	}
	out.LongDescriptionHTML = markdown.ToHTML(out.LongDescription)
	return out, nil
}

func (s *TrainingService) Delete(ctx context.Context, slug string) error {
	c, err := s.repo.GetCourseBySlug(ctx, slug)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Удаление курса (service)", zap.Int64("id", c.ID))
	return s.repo.DeleteCourse(ctx, c.ID)
}

func (s *TrainingService) Instructors(ctx context.Context) ([]*models.Instructor, error) {
	return s.repo.ListInstructors(ctx)
}

func (s *TrainingService) CreateInstructor(ctx context.Context, req *models.CreateInstructorRequest) (*models.Instructor, error) {
	return s.repo.CreateInstructor(ctx, &models.Instructor{
		Name:            strings.TrimSpace(req.Name),
		Bio:             req.Bio,
		Title:           req.Title,
		Image:           req.Image,
		ExperienceYears: req.ExperienceYears,
		LinkedinURL:     req.LinkedinURL,
		GithubURL:       req.GithubURL,
		TwitterURL:      req.TwitterURL,
		IsActive:        true,
	})
}

// checkPrices: старая цена, если задана, не может быть ниже текущей.
func checkPrices(price decimal.Decimal, original *decimal.Decimal) error {
	if original != nil && original.LessThan(price) {
		return apperr.Field("original_price", "Original price must be greater than or equal to the price.")
	}
	return nil
}
