// Package seed загружает демо-данные из YAML через сервисы приложения.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/services"
	"appnity/internal/validation"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// InstructorRef: преподаватель курса по имени; id подставляется при загрузке.
type InstructorRef struct {
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Order int    `yaml:"order"`
}

type CourseFixture struct {
	Course      models.CreateCourseRequest
	Instructors []InstructorRef
}

type Fixtures struct {
	Categories   []models.CreateCategoryRequest
	Tags         []models.CreateTagRequest
	Products     []models.CreateProductRequest
	Projects     []models.CreateProjectRequest
	Instructors  []models.CreateInstructorRequest
	Courses      []CourseFixture
	Positions    []models.CreatePositionRequest
	Testimonials []models.CreateTestimonialRequest
}

type rawFixtures struct {
	Categories   []map[string]any `yaml:"categories"`
	Tags         []map[string]any `yaml:"tags"`
	Products     []map[string]any `yaml:"products"`
	Projects     []map[string]any `yaml:"projects"`
	Instructors  []map[string]any `yaml:"instructors"`
	Courses      []map[string]any `yaml:"courses"`
	Positions    []map[string]any `yaml:"positions"`
	Testimonials []map[string]any `yaml:"testimonials"`
}

// Load читает YAML. Ключи записей совпадают с полями JSON API,
// каждая запись проверяется теми же правилами, что и запрос.
func Load(r io.Reader) (*Fixtures, error) {
	var raw rawFixtures
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("разбор YAML: %w", err)
	}

	f := &Fixtures{}
	if err := convertAll("categories", raw.Categories, &f.Categories); err != nil {
		return nil, err
	}
	if err := convertAll("tags", raw.Tags, &f.Tags); err != nil {
		return nil, err
	}
	if err := convertAll("products", raw.Products, &f.Products); err != nil {
		return nil, err
	}
	if err := convertAll("projects", raw.Projects, &f.Projects); err != nil {
		return nil, err
	}
	if err := convertAll("instructors", raw.Instructors, &f.Instructors); err != nil {
		return nil, err
	}
	if err := convertAll("positions", raw.Positions, &f.Positions); err != nil {
		return nil, err
	}
	if err := convertAll("testimonials", raw.Testimonials, &f.Testimonials); err != nil {
		return nil, err
	}

	for i, item := range raw.Courses {
		var cf CourseFixture
		if refs, ok := item["instructors"]; ok {
			delete(item, "instructors")
			b, err := yaml.Marshal(refs)
			if err != nil {
				return nil, fmt.Errorf("courses[%d].instructors: %w", i, err)
			}
			if err := yaml.Unmarshal(b, &cf.Instructors); err != nil {
				return nil, fmt.Errorf("courses[%d].instructors: %w", i, err)
			}
		}
		if err := convert(item, &cf.Course); err != nil {
			return nil, fmt.Errorf("courses[%d]: %w", i, err)
		}
		f.Courses = append(f.Courses, cf)
	}
	return f, nil
}

func convertAll[T any](section string, items []map[string]any, out *[]T) error {
	for i, item := range items {
		var v T
		if err := convert(item, &v); err != nil {
			return fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		*out = append(*out, v)
	}
	return nil
}

func convert(item map[string]any, dst any) error {
	b, err := json.Marshal(item)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := validation.Struct(dst); err != nil {
		return describe(err)
	}
	return nil
}

// describe разворачивает ошибки полей в одну строку.
func describe(err error) error {
	e := apperr.As(err)
	if len(e.Fields) == 0 {
		return err
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}

type Services struct {
	Blog         *services.BlogService
	Products     *services.ProductService
	Portfolio    *services.PortfolioService
	Training     *services.TrainingService
	Careers      *services.CareersService
	Testimonials *services.TestimonialService
}

// Report: сколько записей создано и пропущено по разделам.
type Report struct {
	Created map[string]int
	Skipped map[string]int
}

func (r Report) String() string {
	var parts []string
	for _, section := range []string{"categories", "tags", "products", "projects", "instructors", "courses", "positions", "testimonials"} {
		if r.Created[section] == 0 && r.Skipped[section] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: +%d (пропущено %d)", section, r.Created[section], r.Skipped[section]))
	}
	if len(parts) == 0 {
		return "нечего загружать"
	}
	return strings.Join(parts, ", ")
}

// Apply создаёт записи, которых ещё нет. Существующие узнаются по slug или имени,
// поэтому повторный запуск ничего не дублирует.
func Apply(ctx context.Context, s Services, f *Fixtures) (Report, error) {
	rep := Report{Created: map[string]int{}, Skipped: map[string]int{}}
	log := logger.WithCtx(ctx)

	mark := func(section string, created bool) {
		if created {
			rep.Created[section]++
		} else {
			rep.Skipped[section]++
		}
	}

	categories, err := s.Blog.Categories(ctx)
	if err != nil {
		return rep, err
	}
	for i := range f.Categories {
		req := &f.Categories[i]
		if containsName(categories, req.Name, func(c *models.Category) string { return c.Name }) {
			mark("categories", false)
			continue
		}
		if _, err := s.Blog.CreateCategory(ctx, req); err != nil {
			return rep, fmt.Errorf("категория %q: %w", req.Name, err)
		}
		mark("categories", true)
	}

	tags, err := s.Blog.Tags(ctx)
	if err != nil {
		return rep, err
	}
	for i := range f.Tags {
		req := &f.Tags[i]
		if containsName(tags, req.Name, func(t *models.Tag) string { return t.Name }) {
			mark("tags", false)
			continue
		}
		if _, err := s.Blog.CreateTag(ctx, req); err != nil {
			return rep, fmt.Errorf("тег %q: %w", req.Name, err)
		}
		mark("tags", true)
	}

	for i := range f.Products {
		req := &f.Products[i]
		created, err := createOnce(ctx, req.Name, s.Products.Get, func() error {
			_, err := s.Products.Create(ctx, req)
			return err
		})
		if err != nil {
			return rep, fmt.Errorf("продукт %q: %w", req.Name, err)
		}
		mark("products", created)
	}

	for i := range f.Projects {
		req := &f.Projects[i]
		created, err := createOnce(ctx, req.Title, s.Portfolio.Get, func() error {
			_, err := s.Portfolio.Create(ctx, req)
			return err
		})
		if err != nil {
			return rep, fmt.Errorf("проект %q: %w", req.Title, err)
		}
		mark("projects", created)
	}

	instructors, err := s.Training.Instructors(ctx)
	if err != nil {
		return rep, err
	}
	for i := range f.Instructors {
		req := &f.Instructors[i]
		if containsName(instructors, req.Name, func(in *models.Instructor) string { return in.Name }) {
			mark("instructors", false)
			continue
		}
		in, err := s.Training.CreateInstructor(ctx, req)
		if err != nil {
			return rep, fmt.Errorf("преподаватель %q: %w", req.Name, err)
		}
		instructors = append(instructors, in)
		mark("instructors", true)
	}

	for i := range f.Courses {
		cf := &f.Courses[i]
		for _, ref := range cf.Instructors {
			id, ok := instructorID(instructors, ref.Name)
			if !ok {
				return rep, fmt.Errorf("курс %q: неизвестный преподаватель %q", cf.Course.Title, ref.Name)
			}
			cf.Course.Instructors = append(cf.Course.Instructors, models.CourseInstructorInput{
				InstructorID: id, Role: ref.Role, Order: ref.Order,
			})
		}
		created, err := createOnce(ctx, cf.Course.Title, s.Training.Get, func() error {
			_, err := s.Training.Create(ctx, &cf.Course)
			return err
		})
		if err != nil {
			return rep, fmt.Errorf("курс %q: %w", cf.Course.Title, err)
		}
		mark("courses", created)
	}

	for i := range f.Positions {
		req := &f.Positions[i]
		created, err := createOnce(ctx, req.Title, s.Careers.Get, func() error {
			_, err := s.Careers.Create(ctx, req)
			return err
		})
		if err != nil {
			return rep, fmt.Errorf("вакансия %q: %w", req.Title, err)
		}
		mark("positions", created)
	}

	// У отзывов нет slug: загружаем их только в пустую таблицу.
	if len(f.Testimonials) > 0 {
		st, err := s.Testimonials.Stats(ctx)
		if err != nil {
			return rep, err
		}
		for i := range f.Testimonials {
			req := &f.Testimonials[i]
			if st.Total > 0 {
				mark("testimonials", false)
				continue
			}
			if _, err := s.Testimonials.Create(ctx, req); err != nil {
				return rep, fmt.Errorf("отзыв %q: %w", req.Name, err)
			}
			mark("testimonials", true)
		}
	}

	log.Info("Демо-данные загружены", zap.Any("created", rep.Created), zap.Any("skipped", rep.Skipped))
	return rep, nil
}

// createOnce вызывает create, только если записи со slug от title ещё нет.
func createOnce[T any](ctx context.Context, title string, get func(context.Context, string) (T, error), create func() error) (bool, error) {
	_, err := get(ctx, slug.Make(title))
	switch {
	case err == nil:
		return false, nil
	case apperr.KindOf(err) != apperr.KindNotFound:
		return false, err
	}
	if err := create(); err != nil {
		return false, err
	}
	return true, nil
}

func containsName[T any](items []T, name string, nameOf func(T) string) bool {
	for _, it := range items {
		if strings.EqualFold(strings.TrimSpace(nameOf(it)), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

func instructorID(list []*models.Instructor, name string) (int64, bool) {
	for _, in := range list {
		if strings.EqualFold(in.Name, strings.TrimSpace(name)) {
			return in.ID, true
		}
	}
	return 0, false
}
