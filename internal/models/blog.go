package models

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	PostsCount  int       `json:"posts_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	PostsCount int    `json:"posts_count"`
}

type AuthorRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

type BlogPost struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content,omitempty"`
	ContentHTML   string     `json:"content_html,omitempty"`
	FeaturedImage string     `json:"featured_image"`
	Author        AuthorRef  `json:"author"`
	Category      *Category  `json:"category"`
	Tags          []Tag      `json:"tags"`
	Status        string     `json:"status"`
	IsFeatured    bool       `json:"is_featured"`
	ReadTime      int        `json:"read_time"`
	ViewsCount    int        `json:"views_count"`
	CommentsCount int        `json:"comments_count"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Author    AuthorRef `json:"author"`
	ParentID  *int64    `json:"parent_id"`
	Content   string    `json:"content"`
	Replies   []Comment `json:"replies"`
	CreatedAt time.Time `json:"created_at"`
}

// BlogFilter: параметры списка постов.
type BlogFilter struct {
	Category      string
	Tags          []string
	Author        string
	Featured      *bool
	DateFrom      *time.Time
	DateTo        *time.Time
	Search        string
	Ordering      string
	IncludeDrafts bool
}

type CreatePostRequest struct {
	Title         string  `json:"title" validate:"required,notblank,max=200" example:"Shipping Go services on a budget"`
	Excerpt       string  `json:"excerpt" validate:"max=300"`
	Content       string  `json:"content" validate:"required,notblank"`
	FeaturedImage string  `json:"featured_image" validate:"omitempty,url"`
	CategoryID    *int64  `json:"category_id"`
	TagIDs        []int64 `json:"tag_ids" validate:"max=10"`
	Status        string  `json:"status" validate:"omitempty,oneof=draft published archived"`
	IsFeatured    bool    `json:"is_featured"`
	ReadTime      int     `json:"read_time" validate:"omitempty,min=1,max=180"`
}

// UpdatePostRequest: частичное обновление; slug не меняется.
type UpdatePostRequest struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Excerpt       *string  `json:"excerpt,omitempty" validate:"omitempty,max=300"`
	Content       *string  `json:"content,omitempty" validate:"omitempty,notblank"`
	FeaturedImage *string  `json:"featured_image,omitempty" validate:"omitempty,url"`
	CategoryID    *int64   `json:"category_id,omitempty"`
	TagIDs        *[]int64 `json:"tag_ids,omitempty" validate:"omitempty,max=10"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	IsFeatured    *bool    `json:"is_featured,omitempty"`
	ReadTime      *int     `json:"read_time,omitempty" validate:"omitempty,min=1,max=180"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Color       string `json:"color" validate:"omitempty,hexcolor6"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
	Parent  *int64 `json:"parent"`
}
