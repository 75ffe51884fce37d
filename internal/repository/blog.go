package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BlogRepo interface {
	List(ctx context.Context, f models.BlogFilter, limit, offset int) ([]*models.BlogPost, int, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, p *models.BlogPost, tagIDs []int64) (*models.BlogPost, error)
	Update(ctx context.Context, p *models.BlogPost, tagIDs *[]int64) (*models.BlogPost, error)
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	CategorySlugExists(ctx context.Context, slug string) (bool, error)
	ListTags(ctx context.Context) ([]*models.Tag, error)
	CreateTag(ctx context.Context, t *models.Tag) (*models.Tag, error)
	TagSlugExists(ctx context.Context, slug string) (bool, error)

	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) (*models.Comment, error)
	CommentPostID(ctx context.Context, commentID int64) (int64, error)
}

type blogRepo struct{ db *pgxpool.Pool }

func NewBlogRepo(db *pgxpool.Pool) BlogRepo { return &blogRepo{db: db} }

var blogOrdering = map[string]string{
	"created_at":   "p.created_at",
	"published_at": "p.published_at",
	"views_count":  "p.views_count",
	"title":        "p.title",
}

const postSelect = `
	SELECT p.id, p.title, p.slug, p.excerpt, %s, p.featured_image, p.status, p.is_featured, p.read_time,
	       p.views_count, p.published_at, p.created_at, p.updated_at,
	       u.id, u.username, u.first_name, u.last_name, u.avatar,
	       c.id, c.name, c.slug, c.description, c.color, c.created_at,
	       (SELECT COUNT(*) FROM blog_comments bc WHERE bc.post_id = p.id AND bc.is_approved)
	FROM blog_posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN blog_categories c ON c.id = p.category_id`

const postFrom = `
	FROM blog_posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN blog_categories c ON c.id = p.category_id`

func scanPost(row pgx.Row) (*models.BlogPost, error) {
	var (
		p                              models.BlogPost
		firstName, lastName            string
		catID                          *int64
		catName, catSlug, catDesc, col *string
		catCreated                     *time.Time
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImage, &p.Status, &p.IsFeatured, &p.ReadTime,
		&p.ViewsCount, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Username, &firstName, &lastName, &p.Author.Avatar,
		&catID, &catName, &catSlug, &catDesc, &col, &catCreated,
		&p.CommentsCount,
	)
	if err != nil {
		return nil, err
	}
	p.Author.FullName = (&models.User{FirstName: firstName, LastName: lastName, Username: p.Author.Username}).FullName()
	if catID != nil {
		p.Category = &models.Category{ID: *catID, Name: *catName, Slug: *catSlug, Description: *catDesc, Color: *col, CreatedAt: *catCreated}
	}
	p.Tags = []models.Tag{}
	return &p, nil
}

func blogWhere(f models.BlogFilter) *where {
	w := &where{}
	if !f.IncludeDrafts {
		w.add("p.status = ?", models.PostStatusPublished)
	}
	if f.Category != "" {
		w.add("c.slug = ?", f.Category)
	}
	if len(f.Tags) > 0 {
		w.add(`EXISTS (
			SELECT 1 FROM blog_post_tags pt JOIN blog_tags t ON t.id = pt.tag_id
			WHERE pt.post_id = p.id AND t.slug = ANY(?)
		)`, f.Tags)
	}
	if f.Author != "" {
		w.add("LOWER(u.username) = LOWER(?)", f.Author)
	}
	if f.Featured != nil {
		w.add("p.is_featured = ?", *f.Featured)
	}
	if f.DateFrom != nil {
		w.add("p.published_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		w.add("p.published_at < ?", *f.DateTo)
	}
	w.search(f.Search, "p.title", "p.excerpt", "p.content")
	return w
}

func (r *blogRepo) List(ctx context.Context, f models.BlogFilter, limit, offset int) ([]*models.BlogPost, int, error) {
	log := logger.WithCtx(ctx)
	w := blogWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)"+postFrom+w.sql(), w.args...).Scan(&total); err != nil {
		log.Error("Ошибка подсчёта постов (repo)", zap.Error(err))
		return nil, 0, err
	}

	order := pagination.Ordering(f.Ordering, blogOrdering, "p.published_at DESC NULLS LAST")
	// контент в списке не нужен
	sql := fmt.Sprintf(postSelect, "''") + w.sql() +
		fmt.Sprintf(" ORDER BY %s, p.id DESC LIMIT %s OFFSET %s", order, w.next(limit), w.next(offset))

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		log.Error("Ошибка получения постов (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachTags(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *blogRepo) attachTags(ctx context.Context, posts []*models.BlogPost) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int64, len(posts))
	byID := make(map[int64]*models.BlogPost, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
	}
	rows, err := r.db.Query(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug
		FROM blog_post_tags pt JOIN blog_tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var postID int64
		var t models.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, t)
		}
	}
	return rows.Err()
}

func (r *blogRepo) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	p, err := scanPost(r.db.QueryRow(ctx, fmt.Sprintf(postSelect, "p.content")+" WHERE p.slug = $1", slug))
	if err != nil {
		return nil, apperr.FromDB(err, "blog post")
	}
	if err := r.attachTags(ctx, []*models.BlogPost{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *blogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = $1)`, slug).Scan(&ok)
	return ok, err
}

func setPostTags(ctx context.Context, tx pgx.Tx, postID int64, tagIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM blog_post_tags WHERE post_id = $1`, postID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO blog_post_tags (post_id, tag_id)
		SELECT $1, UNNEST($2::bigint[])
		ON CONFLICT DO NOTHING`, postID, tagIDs)
	return err
}

func (r *blogRepo) Create(ctx context.Context, p *models.BlogPost, tagIDs []int64) (*models.BlogPost, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание поста (repo)", zap.String("slug", p.Slug))

	var categoryID *int64
	if p.Category != nil {
		categoryID = &p.Category.ID
	}

	var id int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
			INSERT INTO blog_posts (title, slug, excerpt, content, featured_image, author_id, category_id,
			                        status, is_featured, read_time, published_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, CASE WHEN $11::boolean THEN NOW() ELSE NULL END)
			RETURNING id`
		if err := tx.QueryRow(ctx, q,
			p.Title, p.Slug, p.Excerpt, p.Content, p.FeaturedImage, p.Author.ID, categoryID,
			p.Status, p.IsFeatured, p.ReadTime, p.Status == models.PostStatusPublished,
		).Scan(&id); err != nil {
			return err
		}
		return setPostTags(ctx, tx, id, tagIDs)
	})
	if err != nil {
		log.Error("Ошибка создания поста (repo)", zap.Error(err))
		return nil, apperr.FromDB(err, "blog post")
	}
	return r.GetBySlug(ctx, p.Slug)
}

// Update сохраняет изменяемые поля поста; tagIDs == nil: теги не трогаем.
func (r *blogRepo) Update(ctx context.Context, p *models.BlogPost, tagIDs *[]int64) (*models.BlogPost, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление поста (repo)", zap.Int64("id", p.ID))

	var categoryID *int64
	if p.Category != nil {
		categoryID = &p.Category.ID
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
			UPDATE blog_posts
			SET title = $1, excerpt = $2, content = $3, featured_image = $4, category_id = $5,
			    status = $6, is_featured = $7, read_time = $8,
			    published_at = CASE WHEN $10::boolean THEN COALESCE(published_at, NOW()) ELSE published_at END,
			    updated_at = NOW()
			WHERE id = $9`
		tag, err := tx.Exec(ctx, q, p.Title, p.Excerpt, p.Content, p.FeaturedImage, categoryID,
			p.Status, p.IsFeatured, p.ReadTime, p.ID, p.Status == models.PostStatusPublished)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("blog post not found")
		}
		if tagIDs != nil {
			return setPostTags(ctx, tx, p.ID, *tagIDs)
		}
		return nil
	})
	if err != nil {
		log.Error("Ошибка обновления поста (repo)", zap.Error(err))
		return nil, apperr.FromDB(err, "blog post")
	}
	return r.GetBySlug(ctx, p.Slug)
}

func (r *blogRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM blog_posts WHERE id = $1", id)
	if err != nil {
		return apperr.FromDB(err, "blog post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("blog post not found")
	}
	return nil
}

func (r *blogRepo) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE blog_posts SET views_count = views_count + 1 WHERE id = $1`, id)
	return err
}

// ----- Категории и теги -----

func (r *blogRepo) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at,
		       COUNT(p.id) FILTER (WHERE p.status = 'published')
		FROM blog_categories c
		LEFT JOIN blog_posts p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.CreatedAt, &c.PostsCount); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *blogRepo) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	out := *c
	err := r.db.QueryRow(ctx, `
		INSERT INTO blog_categories (name, slug, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, c.Name, c.Slug, c.Description, c.Color,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, apperr.FromDB(err, "category")
	}
	return &out, nil
}

func (r *blogRepo) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM blog_categories WHERE slug = $1)`, slug).Scan(&ok)
	return ok, err
}

func (r *blogRepo) ListTags(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, t.slug, COUNT(p.id) FILTER (WHERE p.status = 'published')
		FROM blog_tags t
		LEFT JOIN blog_post_tags pt ON pt.tag_id = t.id
		LEFT JOIN blog_posts p ON p.id = pt.post_id
		GROUP BY t.id
		ORDER BY t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.PostsCount); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *blogRepo) CreateTag(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	out := *t
	err := r.db.QueryRow(ctx, `INSERT INTO blog_tags (name, slug) VALUES ($1, $2) RETURNING id`, t.Name, t.Slug).Scan(&out.ID)
	if err != nil {
		return nil, apperr.FromDB(err, "tag")
	}
	return &out, nil
}

func (r *blogRepo) TagSlugExists(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM blog_tags WHERE slug = $1)`, slug).Scan(&ok)
	return ok, err
}

// ----- Комментарии -----

func (r *blogRepo) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT bc.id, bc.post_id, bc.parent_id, bc.content, bc.created_at,
		       u.id, u.username, u.first_name, u.last_name, u.avatar
		FROM blog_comments bc
		JOIN users u ON u.id = bc.author_id
		WHERE bc.post_id = $1 AND bc.is_approved
		ORDER BY bc.created_at, bc.id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		var c models.Comment
		var first, last string
		if err := rows.Scan(&c.ID, &c.PostID, &c.ParentID, &c.Content, &c.CreatedAt,
			&c.Author.ID, &c.Author.Username, &first, &last, &c.Author.Avatar); err != nil {
			return nil, err
		}
		c.Author.FullName = strings.TrimSpace(first + " " + last)
		if c.Author.FullName == "" {
			c.Author.FullName = c.Author.Username
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *blogRepo) CreateComment(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	out := *c
	err := r.db.QueryRow(ctx, `
		INSERT INTO blog_comments (post_id, author_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, c.PostID, c.Author.ID, c.ParentID, c.Content,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, apperr.FromDB(err, "comment")
	}
	out.Replies = []models.Comment{}
	return &out, nil
}

func (r *blogRepo) CommentPostID(ctx context.Context, commentID int64) (int64, error) {
	var postID int64
	err := r.db.QueryRow(ctx, `SELECT post_id FROM blog_comments WHERE id = $1`, commentID).Scan(&postID)
	if err != nil {
		return 0, apperr.FromDB(err, "comment")
	}
	return postID, nil
}
