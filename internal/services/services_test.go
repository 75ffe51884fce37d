package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"appnity/internal/apperr"
	"appnity/internal/models"
	"appnity/internal/pagination"
	"appnity/internal/repository"
	"appnity/internal/storage"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSlug(t *testing.T) {
	assert.Equal(t, "building-saas-in-nairobi", makeSlug("Building SaaS in Nairobi!"))

	long := strings.Repeat("word ", 60)
	s := makeSlug(long)
	assert.LessOrEqual(t, len(s), maxSlugLen)
	assert.False(t, strings.HasSuffix(s, "-"))
	assert.True(t, strings.HasSuffix(s, "word"))
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"hello-world": true, "hello-world-2": true}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	got, err := uniqueSlug(context.Background(), "Hello World", exists)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-3", got)

	got, err = uniqueSlug(context.Background(), "!!!", exists)
	require.NoError(t, err)
	assert.Equal(t, "item", got)

	boom := errors.New("db down")
	_, err = uniqueSlug(context.Background(), "x", func(context.Context, string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestParseDecimal(t *testing.T) {
	str := func(s string) *string { return &s }
	tests := []struct {
		name    string
		raw     *string
		rng     decimalRange
		want    string
		wantErr bool
	}{
		{"nil", nil, priceRange, "", false},
		{"пусто", str("  "), priceRange, "", false},
		{"цена", str("4999.50"), priceRange, "4999.5", false},
		{"рейтинг", str("4.5"), ratingRange, "4.5", false},
		{"рейтинг выше 5", str("5.1"), ratingRange, "", true},
		{"лишние знаки", str("4.55"), ratingRange, "", true},
		{"отрицательная", str("-1"), priceRange, "", true},
		{"не число", str("abc"), priceRange, "", true},
		{"зарплата", str("250000"), salaryRange, "250000", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := parseDecimal("f", tt.raw, tt.rng)
			if tt.wantErr {
				e := apperr.As(err)
				require.NotNil(t, e)
				assert.Contains(t, e.Fields, "f")
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, d)
				return
			}
			require.NotNil(t, d)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestCheckPrices(t *testing.T) {
	low := decimal.NewFromInt(100)
	assert.NoError(t, checkPrices(decimal.NewFromInt(100), nil))
	assert.NoError(t, checkPrices(decimal.NewFromInt(100), &low))
	assert.Error(t, checkPrices(decimal.NewFromInt(150), &low))
}

func TestBuildCommentTree(t *testing.T) {
	id := func(v int64) *int64 { return &v }
	flat := []*models.Comment{
		{ID: 1, Content: "root"},
		{ID: 2, ParentID: id(1), Content: "reply"},
		{ID: 3, ParentID: id(2), Content: "nested"},
		{ID: 4, Content: "second root"},
	}
	tree := buildCommentTree(flat)

	want := []models.Comment{
		{ID: 1, Content: "root", Replies: []models.Comment{
			{ID: 2, ParentID: id(1), Content: "reply", Replies: []models.Comment{
				{ID: 3, ParentID: id(2), Content: "nested", Replies: []models.Comment{}},
			}},
		}},
		{ID: 4, Content: "second root", Replies: []models.Comment{}},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("дерево комментариев отличается (-want +got):\n%s", diff)
	}
}

func TestEstimateReadTime(t *testing.T) {
	assert.Equal(t, 1, estimateReadTime(""))
	assert.Equal(t, 1, estimateReadTime(strings.Repeat("w ", 200)))
	assert.Equal(t, 2, estimateReadTime(strings.Repeat("w ", 201)))
}

func TestSalaryRangeText(t *testing.T) {
	d := func(s string) *decimal.Decimal { v := decimal.RequireFromString(s); return &v }
	tests := []struct {
		min, max *decimal.Decimal
		want     string
	}{
		{d("100000"), d("150000.00"), "KES 100,000 - 150,000"},
		{d("1234567"), nil, "KES 1,234,567+"},
		{nil, d("90000"), "Competitive"},
		{nil, nil, "Competitive"},
		{d("999"), d("1000"), "KES 999 - 1,000"},
	}
	for _, tt := range tests {
		p := &models.JobPosition{SalaryCurrency: "KES", SalaryMin: tt.min, SalaryMax: tt.max}
		assert.Equal(t, tt.want, salaryRangeText(p))
	}
}

// ---- Вакансии ----

type mockCareersRepo struct {
	repository.CareersRepo
	position  *models.JobPosition
	createErr error
	created   *models.JobApplication
}

func (m *mockCareersRepo) GetPositionBySlug(_ context.Context, slug string) (*models.JobPosition, error) {
	if m.position == nil || m.position.Slug != slug {
		return nil, apperr.NotFound("job position not found")
	}
	p := *m.position
	return &p, nil
}

func (m *mockCareersRepo) CreateApplication(_ context.Context, a *models.JobApplication) (*models.JobApplication, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	out := *a
	out.ID = 42
	out.Status = models.ApplicationSubmitted
	out.HasResume = a.Resume != ""
	m.created = &out
	return &out, nil
}

type fakeResumes struct {
	saved   []string
	deleted []string
}

func (f *fakeResumes) Save(up storage.Upload) (string, error) {
	key := "resumes/2026/10/" + up.Filename
	f.saved = append(f.saved, key)
	return key, nil
}

func (f *fakeResumes) Open(string) (*os.File, error) { return nil, errors.New("not implemented") }

func (f *fakeResumes) Delete(key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func applyInput(withResume bool) ApplyInput {
	in := ApplyInput{
		Form: models.ApplyRequest{
			FirstName:      "Brian",
			LastName:       "Otieno",
			Email:          "brian@example.com",
			ExpectedSalary: "180000",
		},
		IPAddress: "10.0.0.1",
	}
	if withResume {
		in.Resume = &storage.Upload{Filename: "cv.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF-1.4")}
	}
	return in
}

func TestApply(t *testing.T) {
	repo := &mockCareersRepo{position: &models.JobPosition{ID: 7, Slug: "go-engineer", Title: "Go Engineer", Status: models.PositionOpen}}
	resumes := &fakeResumes{}
	queue := &recordQueue{}
	svc := NewCareersService(repo, resumes, NewNotifier(queue, "https://appnity.test", "hr@appnity.test"))

	receipt, err := svc.Apply(context.Background(), "go-engineer", applyInput(true))
	require.NoError(t, err)
	assert.Equal(t, int64(42), receipt.ApplicationID)
	assert.Equal(t, "Go Engineer", receipt.Position)

	require.NotNil(t, repo.created)
	assert.Equal(t, int64(7), repo.created.PositionID)
	assert.Equal(t, "resumes/2026/10/cv.pdf", repo.created.Resume)
	assert.Equal(t, "180000", repo.created.ExpectedSalary.String())
	assert.Nil(t, repo.created.CurrentSalary)
	assert.Equal(t, []string{"application_confirmation", "application_admin"}, queue.kinds())
}

func TestApply_WithoutResume(t *testing.T) {
	repo := &mockCareersRepo{position: &models.JobPosition{ID: 7, Slug: "go-engineer", Status: models.PositionOpen}}
	resumes := &fakeResumes{}
	svc := NewCareersService(repo, resumes, nil)

	_, err := svc.Apply(context.Background(), "go-engineer", applyInput(false))
	require.NoError(t, err)
	assert.Empty(t, resumes.saved)
	assert.False(t, repo.created.HasResume)
}

func TestApply_ClosedOrExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	tests := []struct {
		name string
		pos  *models.JobPosition
	}{
		{"закрыта", &models.JobPosition{ID: 1, Slug: "p", Status: models.PositionClosed}},
		{"истёк срок", &models.JobPosition{ID: 1, Slug: "p", Status: models.PositionOpen, ApplicationDeadline: &past}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resumes := &fakeResumes{}
			svc := NewCareersService(&mockCareersRepo{position: tt.pos}, resumes, nil)
			_, err := svc.Apply(context.Background(), "p", applyInput(true))
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Empty(t, resumes.saved, "резюме не должно сохраняться")
		})
	}
}

func TestApply_RemovesResumeOnFailure(t *testing.T) {
	repo := &mockCareersRepo{
		position:  &models.JobPosition{ID: 7, Slug: "go-engineer", Status: models.PositionOpen},
		createErr: apperr.Validation("This position is no longer accepting applications."),
	}
	resumes := &fakeResumes{}
	svc := NewCareersService(repo, resumes, nil)

	_, err := svc.Apply(context.Background(), "go-engineer", applyInput(true))
	require.Error(t, err)
	assert.Equal(t, resumes.saved, resumes.deleted)
}

func TestApply_UnknownPosition(t *testing.T) {
	svc := NewCareersService(&mockCareersRepo{}, &fakeResumes{}, nil)
	_, err := svc.Apply(context.Background(), "nope", applyInput(false))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCheckSalaryRange(t *testing.T) {
	lo, hi := decimal.NewFromInt(100), decimal.NewFromInt(200)
	assert.NoError(t, checkSalaryRange(&lo, &hi))
	assert.NoError(t, checkSalaryRange(&lo, nil))
	e := apperr.As(checkSalaryRange(&hi, &lo))
	require.NotNil(t, e)
	assert.Contains(t, e.Fields, "salary_max")
}

// ---- Рассылка ----

type mockNewsletterRepo struct {
	repository.NewsletterRepo
	subs map[string]*models.Subscriber
}

func (m *mockNewsletterRepo) Subscribe(_ context.Context, email, source string) (*models.Subscriber, models.SubscribeOutcome, error) {
	key := strings.ToLower(email)
	if s, ok := m.subs[key]; ok {
		if s.IsActive {
			return s, models.SubscriptionAlreadyActive, nil
		}
		s.IsActive, s.UnsubscribedAt = true, nil
		return s, models.SubscriptionReactivated, nil
	}
	s := &models.Subscriber{ID: int64(len(m.subs) + 1), Email: email, Source: source, IsActive: true}
	m.subs[key] = s
	return s, models.SubscriptionCreated, nil
}

func (m *mockNewsletterRepo) Unsubscribe(_ context.Context, email string) (*models.Subscriber, error) {
	s, ok := m.subs[strings.ToLower(email)]
	if !ok || !s.IsActive {
		return nil, apperr.Field("email", "Email address not found or already unsubscribed.")
	}
	s.IsActive = false
	return s, nil
}

func TestNewsletterSubscribeFlow(t *testing.T) {
	repo := &mockNewsletterRepo{subs: map[string]*models.Subscriber{}}
	queue := &recordQueue{}
	svc := NewNewsletterService(repo, NewNotifier(queue, "https://appnity.test", ""))
	ctx := context.Background()

	res, err := svc.Subscribe(ctx, &models.SubscribeRequest{Email: "amina@example.com"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, "website", res.Subscriber.Source)

	res, err = svc.Subscribe(ctx, &models.SubscribeRequest{Email: "AMINA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Email is already subscribed", res.Message)

	require.NoError(t, svc.Unsubscribe(ctx, &models.UnsubscribeRequest{Email: "amina@example.com"}))

	err = svc.Unsubscribe(ctx, &models.UnsubscribeRequest{Email: "amina@example.com"})
	assert.Contains(t, apperr.As(err).Fields, "email")

	res, err = svc.Subscribe(ctx, &models.SubscribeRequest{Email: "amina@example.com"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.True(t, res.Subscriber.IsActive)

	assert.Equal(t, []string{"newsletter_welcome", "newsletter_unsubscribe", "newsletter_welcome"}, queue.kinds())
	assert.Len(t, repo.subs, 1)
}

// ---- Блог ----

// mockBlogRepo сортирует как репозиторий: по умолчанию по дате публикации.
type mockBlogRepo struct {
	repository.BlogRepo
	posts []*models.BlogPost
}

func (m *mockBlogRepo) List(_ context.Context, f models.BlogFilter, limit, _ int) ([]*models.BlogPost, int, error) {
	var out []*models.BlogPost
	for _, p := range m.posts {
		if f.Featured != nil && p.IsFeatured != *f.Featured {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Ordering == "-created_at" {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].PublishedAt.After(*out[j].PublishedAt)
	})
	return out[:min(limit, len(out))], len(out), nil
}

func TestBlogFeatured_NewestCreatedFirst(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	t2, t3 := t1.Add(24*time.Hour), t1.Add(48*time.Hour)
	repo := &mockBlogRepo{posts: []*models.BlogPost{
		// создан раньше, опубликован позже
		{ID: 1, Slug: "older", IsFeatured: true, CreatedAt: t1, PublishedAt: &t3},
		{ID: 2, Slug: "newer", IsFeatured: true, CreatedAt: t2, PublishedAt: &t2},
		{ID: 3, Slug: "plain", CreatedAt: t3, PublishedAt: &t3},
	}}

	posts, err := NewBlogService(repo).Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Slug)
	assert.Equal(t, "older", posts[1].Slug)
}

// ---- Отзывы ----

type mockTestimonialRepo struct {
	repository.TestimonialRepo
	items   map[int64]*models.Testimonial
	lastF   models.TestimonialFilter
	created *models.Testimonial
}

func (m *mockTestimonialRepo) List(_ context.Context, f models.TestimonialFilter, _, _ int) ([]*models.Testimonial, int, error) {
	m.lastF = f
	return nil, 0, nil
}

func (m *mockTestimonialRepo) Get(_ context.Context, id int64) (*models.Testimonial, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("testimonial not found")
	}
	return t, nil
}

func (m *mockTestimonialRepo) Create(_ context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	t.ID = 9
	m.created = t
	return t, nil
}

func TestTestimonials_PublicSeesApprovedOnly(t *testing.T) {
	repo := &mockTestimonialRepo{items: map[int64]*models.Testimonial{
		1: {ID: 1, IsApproved: false},
	}}
	svc := NewTestimonialService(repo, nil)
	ctx := context.Background()

	_, _, err := svc.List(ctx, models.TestimonialFilter{}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.NotNil(t, repo.lastF.Approved)
	assert.True(t, *repo.lastF.Approved)

	_, err = svc.Get(ctx, 1, false)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = svc.Get(ctx, 1, true)
	assert.NoError(t, err)

	_, _, err = svc.ByType(ctx, "robot", pagination.Params{Page: 1, PageSize: 10})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func (m *mockTestimonialRepo) Update(_ context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	return t, nil
}

func TestTestimonials_UpdateTrimsContent(t *testing.T) {
	repo := &mockTestimonialRepo{items: map[int64]*models.Testimonial{
		1: {ID: 1, Content: "old", Rating: 3},
	}}
	svc := NewTestimonialService(repo, nil)

	content := "  Delivered on time and on budget.  "
	out, err := svc.Update(context.Background(), 1, &models.UpdateTestimonialRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Delivered on time and on budget.", out.Content)
	assert.Equal(t, 3, out.Rating)
}

func TestTestimonials_Submit(t *testing.T) {
	repo := &mockTestimonialRepo{}
	queue := &recordQueue{}
	svc := NewTestimonialService(repo, NewNotifier(queue, "", "admin@appnity.test"))

	out, err := svc.Submit(context.Background(), &models.SubmitTestimonialRequest{
		Name: "Grace", Email: "grace@example.com", Content: " Appnity shipped our app in record time.\n", Rating: 5,
	}, "10.0.0.2", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, "Appnity shipped our app in record time.", out.Content)
	assert.False(t, out.IsApproved)
	assert.Equal(t, "customer", out.TestimonialType)
	assert.Equal(t, "10.0.0.2", repo.created.IPAddress)
	assert.Equal(t, []string{"testimonial_confirmation", "testimonial_admin"}, queue.kinds())
}
