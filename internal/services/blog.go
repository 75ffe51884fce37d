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

	"go.uber.org/zap"
)

const (
	featuredPostsLimit = 3
	recentPostsDefault = 5
	recentPostsMax     = 20
	wordsPerMinute     = 200
)

type BlogService struct {
	repo repository.BlogRepo
}

func NewBlogService(repo repository.BlogRepo) *BlogService {
	return &BlogService{repo: repo}
}

func (s *BlogService) List(ctx context.Context, f models.BlogFilter, p pagination.Params) ([]*models.BlogPost, int, error) {
	posts, total, err := s.repo.List(ctx, f, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	return normalizePosts(posts), total, nil
}

func (s *BlogService) Featured(ctx context.Context) ([]*models.BlogPost, error) {
	yes := true
	posts, _, err := s.repo.List(ctx, models.BlogFilter{Featured: &yes, Ordering: "-created_at"}, featuredPostsLimit, 0)
	return normalizePosts(posts), err
}

// Recent: последние опубликованные; limit ограничен сверху.
func (s *BlogService) Recent(ctx context.Context, limit int) ([]*models.BlogPost, error) {
	if limit <= 0 {
		limit = recentPostsDefault
	}
	if limit > recentPostsMax {
		limit = recentPostsMax
	}
	posts, _, err := s.repo.List(ctx, models.BlogFilter{Ordering: "-published_at"}, limit, 0)
	return normalizePosts(posts), err
}

// Get отдаёт пост со сгенерированным HTML и увеличивает счётчик просмотров.
// Черновики видит только персонал.
func (s *BlogService) Get(ctx context.Context, slug string, staff bool) (*models.BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished && !staff {
		return nil, apperr.NotFound("blog post not found")
	}
	if post.Status == models.PostStatusPublished {
		if err := s.repo.IncrementViews(ctx, post.ID); err != nil {
			logger.WithCtx(ctx).Warn("Не удалось увеличить счётчик просмотров", zap.Int64("post_id", post.ID), zap.Error(err))
		} else {
			post.ViewsCount++
		}
	}
	post.ContentHTML = markdown.ToHTML(post.Content)
	normalizePosts([]*models.BlogPost{post})
	return post, nil
}

func (s *BlogService) Create(ctx context.Context, authorID int64, req *models.CreatePostRequest) (*models.BlogPost, error) {
	logger.WithCtx(ctx).Info("Создание поста (service)", zap.String("title", req.Title), zap.Int64("author_id", authorID))
	slug, err := uniqueSlug(ctx, req.Title, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	post := &models.BlogPost{
		Title:         strings.TrimSpace(req.Title),
		Slug:          slug,
		Excerpt:       strings.TrimSpace(req.Excerpt),
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Author:        models.AuthorRef{ID: authorID},
		Status:        req.Status,
		IsFeatured:    req.IsFeatured,
		ReadTime:      req.ReadTime,
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.ReadTime == 0 {
		post.ReadTime = estimateReadTime(post.Content)
	}
	if req.CategoryID != nil {
		post.Category = &models.Category{ID: *req.CategoryID}
	}
	return s.repo.Create(ctx, post, req.TagIDs)
}

func (s *BlogService) Update(ctx context.Context, slug string, req *models.UpdatePostRequest) (*models.BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.Content != nil {
		post.Content = *req.Content
		if req.ReadTime == nil {
			post.ReadTime = estimateReadTime(post.Content)
		}
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.CategoryID != nil {
		post.Category = &models.Category{ID: *req.CategoryID}
	}
	if req.Status != nil {
		post.Status = *req.Status
	}
	if req.IsFeatured != nil {
		post.IsFeatured = *req.IsFeatured
	}
	if req.ReadTime != nil {
		post.ReadTime = *req.ReadTime
	}
	updated, err := s.repo.Update(ctx, post, req.TagIDs)
	if err != nil {
		return nil, err
	}
	updated.ContentHTML = markdown.ToHTML(updated.Content)
	normalizePosts([]*models.BlogPost{updated})
	return updated, nil
}

func (s *BlogService) Delete(ctx context.Context, slug string) error {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Удаление поста (service)", zap.Int64("post_id", post.ID))
	return s.repo.Delete(ctx, post.ID)
}

// ---- Категории и теги ----

func (s *BlogService) Categories(ctx context.Context) ([]*models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *BlogService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	slug, err := uniqueSlug(ctx, req.Name, s.repo.CategorySlugExists)
	if err != nil {
		return nil, err
	}
	color := req.Color
	if color == "" {
		color = "#3B82F6"
	}
	return s.repo.CreateCategory(ctx, &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Color:       color,
	})
}

func (s *BlogService) Tags(ctx context.Context) ([]*models.Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *BlogService) CreateTag(ctx context.Context, req *models.CreateTagRequest) (*models.Tag, error) {
	slug, err := uniqueSlug(ctx, req.Name, s.repo.TagSlugExists)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateTag(ctx, &models.Tag{Name: strings.TrimSpace(req.Name), Slug: slug})
}

// ---- Комментарии ----

// Comments возвращает одобренные комментарии верхнего уровня с вложенными ответами.
func (s *BlogService) Comments(ctx context.Context, slug string) ([]models.Comment, error) {
	post, err := s.publishedPost(ctx, slug)
	if err != nil {
		return nil, err
	}
	flat, err := s.repo.ListComments(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return buildCommentTree(flat), nil
}

func (s *BlogService) AddComment(ctx context.Context, slug string, authorID int64, req *models.CreateCommentRequest) (*models.Comment, error) {
	post, err := s.publishedPost(ctx, slug)
	if err != nil {
		return nil, err
	}
	if req.Parent != nil {
		parentPost, err := s.repo.CommentPostID(ctx, *req.Parent)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return nil, apperr.Field("parent", "Parent comment does not exist.")
			}
			return nil, err
		}
		if parentPost != post.ID {
			return nil, apperr.Field("parent", "Parent comment must belong to the same post.")
		}
	}
	return s.repo.CreateComment(ctx, &models.Comment{
		PostID:   post.ID,
		Author:   models.AuthorRef{ID: authorID},
		ParentID: req.Parent,
		Content:  strings.TrimSpace(req.Content),
	})
}

func (s *BlogService) publishedPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		return nil, apperr.NotFound("blog post not found")
	}
	return post, nil
}

// buildCommentTree собирает дерево из плоского списка, упорядоченного по времени.
func buildCommentTree(flat []*models.Comment) []models.Comment {
	children := make(map[int64][]*models.Comment)
	var roots []*models.Comment
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var build func(c *models.Comment) models.Comment
	build = func(c *models.Comment) models.Comment {
		out := *c
		out.Replies = make([]models.Comment, 0, len(children[c.ID]))
		for _, ch := range children[c.ID] {
			out.Replies = append(out.Replies, build(ch))
		}
		return out
	}

	tree := make([]models.Comment, 0, len(roots))
	for _, r := range roots {
		tree = append(tree, build(r))
	}
	return tree
}

func estimateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func normalizePosts(posts []*models.BlogPost) []*models.BlogPost {
	for _, p := range posts {
		if p.Tags == nil {
			p.Tags = []models.Tag{}
		}
	}
	if posts == nil {
		return []*models.BlogPost{}
	}
	return posts
}
