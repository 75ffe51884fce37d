package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"appnity/docs"
	"appnity/internal/apidoc"
	"appnity/internal/apperr"
	"appnity/internal/handlers"
	"appnity/internal/logger"
	"appnity/internal/middleware"
	"appnity/internal/models"
	"appnity/internal/services"
	"appnity/internal/utils"
	helpers "appnity/internal/utils/helpers"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const prefix = "/api/v1"

// Handlers: всё, что нужно для сборки маршрутов.
type Handlers struct {
	Tokens *utils.TokenManager

	Auth         *handlers.AuthHandler
	Blog         *handlers.BlogHandler
	Products     *handlers.ProductHandler
	Portfolio    *handlers.PortfolioHandler
	Training     *handlers.TrainingHandler
	Careers      *handlers.CareersHandler
	Testimonials *handlers.TestimonialHandler
	Contacts     *handlers.ContactHandler
	Newsletter   *handlers.NewsletterHandler
	Health       *handlers.HealthHandler

	// Лимит публичных форм на IP в час и логинов на IP в минуту; 0: без лимита.
	SubmitRateLimit int
	LoginRateLimit  int
}

type api struct {
	router *mux.Router
	docs   *apidoc.Registry
	tokens *utils.TokenManager
}

// handle регистрирует маршрут и его описание для документации.
// extra оборачивают хендлер снаружи проверки доступа.
func (a *api) handle(rt apidoc.Route, h http.HandlerFunc, extra ...func(http.Handler) http.Handler) {
	a.docs.Add(rt)

	var handler http.Handler = h
	switch rt.Access {
	case apidoc.Staff:
		handler = middleware.JWTAuth(a.tokens)(middleware.RequireStaff(handler))
	case apidoc.Auth:
		handler = middleware.JWTAuth(a.tokens)(handler)
	default:
		handler = middleware.OptionalAuth(a.tokens)(handler)
	}
	for i := len(extra) - 1; i >= 0; i-- {
		handler = extra[i](handler)
	}
	a.router.Handle(rt.Path, handler).Methods(rt.Method)
}

func q(names ...string) []apidoc.Param {
	out := make([]apidoc.Param, 0, len(names))
	for _, n := range names {
		out = append(out, apidoc.Param{Name: n})
	}
	return out
}

func qb(name string) apidoc.Param { return apidoc.Param{Name: name, Type: "boolean"} }
func qi(name string) apidoc.Param { return apidoc.Param{Name: name, Type: "integer"} }

// InitRoutes вешает middleware и все маршруты API на router.
func InitRoutes(router *mux.Router, h *Handlers) *apidoc.Registry {
	router.StrictSlash(true)
	router.Use(middleware.RequestID, middleware.Logging, middleware.Recoverer)
	router.NotFoundHandler = middleware.RequestID(http.HandlerFunc(notFound))
	router.MethodNotAllowedHandler = middleware.RequestID(http.HandlerFunc(methodNotAllowed))

	a := &api{router: router, docs: apidoc.NewRegistry(), tokens: h.Tokens}
	submit := func() func(http.Handler) http.Handler { return middleware.RateLimit(h.SubmitRateLimit, time.Hour) }

	// --- Health ---
	for _, p := range []string{"/health/", prefix + "/health/"} {
		a.handle(apidoc.Route{Method: http.MethodGet, Path: p, Summary: "Проверка сервиса и БД", Tag: "health",
			Response: models.HealthResponse{}}, h.Health.Health)
	}

	authRoutes(a, h)
	blogRoutes(a, h.Blog)
	productRoutes(a, h.Products)
	portfolioRoutes(a, h.Portfolio)
	trainingRoutes(a, h.Training)
	careersRoutes(a, h.Careers, submit)
	testimonialRoutes(a, h.Testimonials, submit)
	contactRoutes(a, h.Contacts, submit)
	newsletterRoutes(a, h.Newsletter, submit)

	docsRoutes(router, a.docs)
	return a.docs
}

func authRoutes(a *api, h *Handlers) {
	const tag = "auth"
	login := middleware.RateLimit(h.LoginRateLimit, time.Minute)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: prefix + "/auth/register/", Summary: "Регистрация", Tag: tag,
		Request: models.RegisterRequest{}, Response: models.AuthResponse{}, Status: http.StatusCreated}, h.Auth.Register, login)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: prefix + "/auth/login/", Summary: "Вход по email и паролю", Tag: tag,
		Request: models.LoginRequest{}, Response: models.AuthResponse{}}, h.Auth.Login, login)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: prefix + "/auth/token/refresh/", Summary: "Новый access-токен", Tag: tag,
		Request: models.RefreshRequest{}, Response: models.AccessTokenResponse{}}, h.Auth.Refresh)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: prefix + "/auth/logout/", Summary: "Отзыв refresh-токена", Tag: tag,
		Access: apidoc.Auth, Request: models.LogoutRequest{}, Response: models.ActionResponse{}}, h.Auth.Logout)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: prefix + "/auth/profile/", Summary: "Профиль", Tag: tag,
		Access: apidoc.Auth, Response: models.UserProfileResponse{}}, h.Auth.Profile)
	a.handle(apidoc.Route{Method: http.MethodPatch, Path: prefix + "/auth/profile/", Summary: "Изменить профиль", Tag: tag,
		Access: apidoc.Auth, Request: models.UpdateProfileRequest{}, Response: models.UserProfileResponse{}}, h.Auth.UpdateProfile)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: prefix + "/auth/password/change/", Summary: "Смена пароля", Tag: tag,
		Access: apidoc.Auth, Request: models.ChangePasswordRequest{}, Response: models.ActionResponse{}}, h.Auth.ChangePassword)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: prefix + "/auth/team/", Summary: "Команда", Tag: tag,
		Response: []models.TeamMember{}, Shape: apidoc.Results}, h.Auth.Team)
}

func blogRoutes(a *api, h *handlers.BlogHandler) {
	const tag, base = "blogs", prefix + "/blogs/"
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base, Summary: "Опубликованные посты", Tag: tag,
		Response: models.BlogPost{}, Shape: apidoc.Page,
		Query: append(q("category", "tags", "author", "date_from", "date_to", "search", "ordering"), qb("featured"))}, h.List)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base, Summary: "Создать пост", Tag: tag, Access: apidoc.Staff,
		Request: models.CreatePostRequest{}, Response: models.BlogPost{}, Status: http.StatusCreated}, h.Create)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "featured/", Summary: "Избранные посты", Tag: tag,
		Response: models.BlogPost{}, Shape: apidoc.Results}, h.Featured)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "recent/", Summary: "Последние посты", Tag: tag,
		Response: models.BlogPost{}, Shape: apidoc.Results, Query: []apidoc.Param{qi("limit")}}, h.Recent)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "categories/", Summary: "Категории", Tag: tag,
		Response: models.Category{}, Shape: apidoc.Results}, h.Categories)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "categories/", Summary: "Создать категорию", Tag: tag,
		Access: apidoc.Staff, Request: models.CreateCategoryRequest{}, Response: models.Category{}, Status: http.StatusCreated}, h.CreateCategory)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "tags/", Summary: "Теги", Tag: tag,
		Response: models.Tag{}, Shape: apidoc.Results}, h.Tags)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "tags/", Summary: "Создать тег", Tag: tag,
		Access: apidoc.Staff, Request: models.CreateTagRequest{}, Response: models.Tag{}, Status: http.StatusCreated}, h.CreateTag)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "{slug}/", Summary: "Пост по slug", Tag: tag,
		Response: models.BlogPost{}}, h.Get)
	a.handle(apidoc.Route{Method: http.MethodPatch, Path: base + "{slug}/", Summary: "Изменить пост", Tag: tag,
		Access: apidoc.Staff, Request: models.UpdatePostRequest{}, Response: models.BlogPost{}}, h.Update)
	a.handle(apidoc.Route{Method: http.MethodDelete, Path: base + "{slug}/", Summary: "Удалить пост", Tag: tag,
		Access: apidoc.Staff, Status: http.StatusNoContent, Shape: apidoc.Empty}, h.Delete)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "{slug}/comments/", Summary: "Комментарии поста", Tag: tag,
		Response: models.Comment{}, Shape: apidoc.Results}, h.Comments)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "{slug}/comments/", Summary: "Оставить комментарий", Tag: tag,
		Access: apidoc.Auth, Request: models.CreateCommentRequest{}, Response: models.Comment{}, Status: http.StatusCreated}, h.AddComment)
}

func productRoutes(a *api, h *handlers.ProductHandler) {
	const tag, base = "products", prefix + "/products/"
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base, Summary: "Продукты", Tag: tag,
		Response: models.Product{}, Shape: apidoc.Page, Query: append(q("status", "search", "ordering"), qb("featured"))}, h.List)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base, Summary: "Создать продукт", Tag: tag, Access: apidoc.Staff,
		Request: models.CreateProductRequest{}, Response: models.Product{}, Status: http.StatusCreated}, h.Create)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "featured/", Summary: "Избранные продукты", Tag: tag,
		Response: models.Product{}, Shape: apidoc.Results}, h.Featured)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "{slug}/", Summary: "Продукт по slug", Tag: tag,
		Response: models.Product{}}, h.Get)
	a.handle(apidoc.Route{Method: http.MethodPatch, Path: base + "{slug}/", Summary: "Изменить продукт", Tag: tag,
		Access: apidoc.Staff, Request: models.UpdateProductRequest{}, Response: models.Product{}}, h.Update)
	a.handle(apidoc.Route{Method: http.MethodDelete, Path: base + "{slug}/", Summary: "Удалить продукт", Tag: tag,
		Access: apidoc.Staff, Status: http.StatusNoContent, Shape: apidoc.Empty}, h.Delete)
}

func portfolioRoutes(a *api, h *handlers.PortfolioHandler) {
	const tag, base = "portfolio", prefix + "/portfolio/"
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base, Summary: "Проекты", Tag: tag,
		Response: models.Project{}, Shape: apidoc.Page,
		Query: append(q("category", "status", "client", "technologies", "search", "ordering"), qb("featured"),
			qi("duration_min"), qi("duration_max"), qi("team_size_min"), qi("team_size_max"))}, h.List)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base, Summary: "Создать проект", Tag: tag, Access: apidoc.Staff,
		Request: models.CreateProjectRequest{}, Response: models.Project{}, Status: http.StatusCreated}, h.Create)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "featured/", Summary: "Избранные проекты", Tag: tag,
		Response: models.Project{}, Shape: apidoc.Results}, h.Featured)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "category/{category}/", Summary: "Проекты категории", Tag: tag,
		Response: models.Project{}, Shape: apidoc.Page}, h.ByCategory)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "search/", Summary: "Поиск проектов", Tag: tag,
		Response: models.Project{}, Shape: apidoc.Page, Query: []apidoc.Param{{Name: "q", Required: true}}}, h.Search)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "technologies/", Summary: "Технологии по категориям", Tag: tag,
		Response: models.TechnologyGroup{}, Shape: apidoc.Results}, h.Technologies)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "stats/", Summary: "Статистика портфолио", Tag: tag,
		Response: models.PortfolioStats{}}, h.Stats)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "{slug}/", Summary: "Проект по slug", Tag: tag,
		Response: models.Project{}}, h.Get)
	a.handle(apidoc.Route{Method: http.MethodPatch, Path: base + "{slug}/", Summary: "Изменить проект", Tag: tag,
		Access: apidoc.Staff, Request: models.UpdateProjectRequest{}, Response: models.Project{}}, h.Update)
	a.handle(apidoc.Route{Method: http.MethodDelete, Path: base + "{slug}/", Summary: "Удалить проект", Tag: tag,
		Access: apidoc.Staff, Status: http.StatusNoContent, Shape: apidoc.Empty}, h.Delete)
}

func trainingRoutes(a *api, h *handlers.TrainingHandler) {
	const tag, base = "training", prefix + "/training/"
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "courses/", Summary: "Курсы", Tag: tag,
		Response: models.Course{}, Shape: apidoc.Page, Query: append(q("level", "status", "search", "ordering"), qb("featured"))}, h.Courses)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "courses/", Summary: "Создать курс", Tag: tag, Access: apidoc.Staff,
		Request: models.CreateCourseRequest{}, Response: models.Course{}, Status: http.StatusCreated}, h.CreateCourse)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "courses/featured/", Summary: "Избранные курсы", Tag: tag,
		Response: models.Course{}, Shape: apidoc.Results}, h.FeaturedCourses)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "courses/stats/", Summary: "Статистика курсов", Tag: tag,
		Response: models.CourseStats{}}, h.CourseStats)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "courses/{slug}/", Summary: "Курс по slug", Tag: tag,
		Response: models.Course{}}, h.Course)
	a.handle(apidoc.Route{Method: http.MethodPatch, Path: base + "courses/{slug}/", Summary: "Изменить курс", Tag: tag,
		Access: apidoc.Staff, Request: models.UpdateCourseRequest{}, Response: models.Course{}}, h.UpdateCourse)
	a.handle(apidoc.Route{Method: http.MethodDelete, Path: base + "courses/{slug}/", Summary: "Удалить курс", Tag: tag,
		Access: apidoc.Staff, Status: http.StatusNoContent, Shape: apidoc.Empty}, h.DeleteCourse)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "instructors/", Summary: "Преподаватели", Tag: tag,
		Response: models.Instructor{}, Shape: apidoc.Results}, h.Instructors)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "instructors/", Summary: "Добавить преподавателя", Tag: tag,
		Access: apidoc.Staff, Request: models.CreateInstructorRequest{}, Response: models.Instructor{}, Status: http.StatusCreated}, h.CreateInstructor)
}

func careersRoutes(a *api, h *handlers.CareersHandler, submit func() func(http.Handler) http.Handler) {
	const tag, base = "careers", prefix + "/careers/"
	positionQuery := append(q("department", "job_type", "level", "status", "search", "ordering"), qb("featured"))
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "positions/", Summary: "Вакансии", Tag: tag,
		Response: models.JobPosition{}, Shape: apidoc.Page, Query: positionQuery}, h.Positions)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "positions/", Summary: "Создать вакансию", Tag: tag,
		Access: apidoc.Staff, Request: models.CreatePositionRequest{}, Response: models.JobPosition{}, Status: http.StatusCreated}, h.CreatePosition)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "positions/open/", Summary: "Открытые вакансии", Tag: tag,
		Response: models.JobPosition{}, Shape: apidoc.Page, Query: positionQuery}, h.OpenPositions)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "positions/featured/", Summary: "Избранные вакансии", Tag: tag,
		Response: models.JobPosition{}, Shape: apidoc.Results}, h.FeaturedPositions)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "positions/{slug}/", Summary: "Вакансия по slug", Tag: tag,
		Response: models.JobPosition{}}, h.Position)
	a.handle(apidoc.Route{Method: http.MethodPatch, Path: base + "positions/{slug}/", Summary: "Изменить вакансию", Tag: tag,
		Access: apidoc.Staff, Request: models.UpdatePositionRequest{}, Response: models.JobPosition{}}, h.UpdatePosition)
	a.handle(apidoc.Route{Method: http.MethodDelete, Path: base + "positions/{slug}/", Summary: "Удалить вакансию", Tag: tag,
		Access: apidoc.Staff, Status: http.StatusNoContent, Shape: apidoc.Empty}, h.DeletePosition)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "positions/{slug}/apply/", Summary: "Откликнуться на вакансию", Tag: tag,
		Request: models.ApplyRequest{}, Multipart: true, Response: models.ApplicationReceipt{}, Status: http.StatusCreated}, h.Apply, submit())

	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "applications/", Summary: "Отклики", Tag: tag,
		Access: apidoc.Staff, Response: models.JobApplication{}, Shape: apidoc.Page, Query: q("status", "position", "search")}, h.Applications)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "applications/{id:[0-9]+}/", Summary: "Отклик", Tag: tag,
		Access: apidoc.Staff, Response: models.JobApplication{}}, h.Application)
	a.handle(apidoc.Route{Method: http.MethodPatch, Path: base + "applications/{id:[0-9]+}/status/", Summary: "Статус отклика", Tag: tag,
		Access: apidoc.Staff, Request: models.UpdateApplicationRequest{}, Response: models.JobApplication{}}, h.UpdateApplicationStatus)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "applications/{id:[0-9]+}/resume/", Summary: "Скачать резюме", Tag: tag,
		Access: apidoc.Staff, Shape: apidoc.File}, h.DownloadResume)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "stats/", Summary: "Статистика вакансий", Tag: tag,
		Access: apidoc.Staff, Response: models.CareerStats{}}, h.Stats)
}

func testimonialRoutes(a *api, h *handlers.TestimonialHandler, submit func() func(http.Handler) http.Handler) {
	const tag, base = "testimonials", prefix + "/testimonials/"
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base, Summary: "Одобренные отзывы", Tag: tag,
		Response: models.Testimonial{}, Shape: apidoc.Page,
		Query: append(q("testimonial_type", "search", "ordering"), qb("is_featured"), qi("rating"))}, h.List)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base, Summary: "Создать отзыв", Tag: tag, Access: apidoc.Staff,
		Request: models.CreateTestimonialRequest{}, Response: models.Testimonial{}, Status: http.StatusCreated}, h.Create)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "featured/", Summary: "Избранные отзывы", Tag: tag,
		Response: models.Testimonial{}, Shape: apidoc.Results}, h.Featured)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "submit/", Summary: "Оставить отзыв", Tag: tag,
		Request: models.SubmitTestimonialRequest{}, Response: models.ActionResponse{}, Status: http.StatusCreated}, h.Submit, submit())
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "submissions/", Summary: "Отзывы на модерации", Tag: tag,
		Access: apidoc.Staff, Response: models.Testimonial{}, Shape: apidoc.Page}, h.Submissions)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "stats/", Summary: "Статистика отзывов", Tag: tag,
		Access: apidoc.Staff, Response: models.TestimonialStats{}}, h.Stats)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "type/{type}/", Summary: "Отзывы по типу", Tag: tag,
		Response: models.Testimonial{}, Shape: apidoc.Page}, h.ByType)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "{id:[0-9]+}/", Summary: "Отзыв", Tag: tag,
		Response: models.Testimonial{}}, h.Get)
	a.handle(apidoc.Route{Method: http.MethodPatch, Path: base + "{id:[0-9]+}/", Summary: "Изменить отзыв", Tag: tag,
		Access: apidoc.Staff, Request: models.UpdateTestimonialRequest{}, Response: models.Testimonial{}}, h.Update)
	a.handle(apidoc.Route{Method: http.MethodDelete, Path: base + "{id:[0-9]+}/", Summary: "Удалить отзыв", Tag: tag,
		Access: apidoc.Staff, Status: http.StatusNoContent, Shape: apidoc.Empty}, h.Delete)
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "{id:[0-9]+}/approve/", Summary: "Одобрить отзыв", Tag: tag,
		Access: apidoc.Staff, Response: models.ActionResponse{}}, h.Approve)
}

func contactRoutes(a *api, h *handlers.ContactHandler, submit func() func(http.Handler) http.Handler) {
	const tag, base = "contacts", prefix + "/contacts/"
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base, Summary: "Отправить обращение", Tag: tag,
		Request: models.CreateContactRequest{}, Response: models.ContactReceipt{}, Status: http.StatusCreated}, h.Create, submit())
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "list/", Summary: "Обращения", Tag: tag,
		Access: apidoc.Staff, Response: models.Contact{}, Shape: apidoc.Page, Query: q("status", "inquiry_type", "search")}, h.List)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "stats/", Summary: "Статистика обращений", Tag: tag,
		Access: apidoc.Staff, Response: models.ContactStats{}}, h.Stats)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "{id:[0-9]+}/", Summary: "Обращение", Tag: tag,
		Access: apidoc.Staff, Response: models.Contact{}}, h.Get)
	a.handle(apidoc.Route{Method: http.MethodPatch, Path: base + "{id:[0-9]+}/", Summary: "Статус обращения", Tag: tag,
		Access: apidoc.Staff, Request: models.UpdateContactRequest{}, Response: models.Contact{}}, h.Update)
}

func newsletterRoutes(a *api, h *handlers.NewsletterHandler, submit func() func(http.Handler) http.Handler) {
	const tag, base = "newsletter", prefix + "/newsletter/"
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "subscribe/", Summary: "Подписаться на рассылку", Tag: tag,
		Request: models.SubscribeRequest{}, Response: services.SubscribeResult{}, Status: http.StatusCreated}, h.Subscribe, submit())
	a.handle(apidoc.Route{Method: http.MethodPost, Path: base + "unsubscribe/", Summary: "Отписаться от рассылки", Tag: tag,
		Request: models.UnsubscribeRequest{}, Response: models.ActionResponse{}}, h.Unsubscribe, submit())
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "list/", Summary: "Подписчики", Tag: tag,
		Access: apidoc.Staff, Response: models.Subscriber{}, Shape: apidoc.Page,
		Query: append(q("source", "search"), qb("is_active"))}, h.Subscribers)
	a.handle(apidoc.Route{Method: http.MethodGet, Path: base + "stats/", Summary: "Статистика рассылки", Tag: tag,
		Access: apidoc.Staff, Response: models.NewsletterStats{}}, h.Stats)
}

// docsRoutes отдаёт JSON на /api/schema/ и Swagger UI на /api/docs/ и /swagger/.
func docsRoutes(router *mux.Router, reg *apidoc.Registry) {
	schema, err := json.Marshal(reg.Swagger(Info))
	if err != nil {
		logger.Log.Error("Не удалось собрать Swagger-документ", zap.Error(err))
		schema = []byte("{}")
	}
	docs.Set(schema)
	router.HandleFunc("/api/schema/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(schema)
	}).Methods(http.MethodGet)

	ui := httpSwagger.Handler(httpSwagger.URL("/api/schema/"))
	router.PathPrefix("/api/docs/").Handler(ui)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
}

// Info: шапка Swagger-документа.
var Info = apidoc.Info{
	Title:       "Appnity API",
	Version:     "1.0",
	Description: "API сайта Appnity: блог, продукты, портфолио, обучение, вакансии, отзывы, обращения и рассылка.",
}

func notFound(w http.ResponseWriter, r *http.Request) {
	helpers.WriteError(w, r, apperr.NotFound("Not found."))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	helpers.Fail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.", nil)
}
