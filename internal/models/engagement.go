package models

import "time"

// ---- Отзывы ----

type Testimonial struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Company         string    `json:"company"`
	Avatar          string    `json:"avatar"`
	Content         string    `json:"content"`
	Rating          int       `json:"rating"`
	TestimonialType string    `json:"testimonial_type"`
	Product         string    `json:"product"`
	Course          string    `json:"course"`
	IsFeatured      bool      `json:"is_featured"`
	IsApproved      bool      `json:"is_approved"`
	Order           int       `json:"order"`
	Email           string    `json:"email,omitempty"`
	IPAddress       string    `json:"-"`
	UserAgent       string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

type TestimonialFilter struct {
	Type     string
	Featured *bool
	Rating   *int
	Search   string
	Ordering string
	// nil: любые, иначе только одобренные/неодобренные
	Approved *bool
}

// SubmitTestimonialRequest: публичная форма; отзыв попадает на модерацию.
type SubmitTestimonialRequest struct {
	Name            string `json:"name" validate:"required,notblank,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Role            string `json:"role" validate:"max=100"`
	Company         string `json:"company" validate:"max=100"`
	Content         string `json:"content" validate:"required,trimmin=20,max=2000"`
	Rating          int    `json:"rating" validate:"min=1,max=5"`
	TestimonialType string `json:"testimonial_type" validate:"omitempty,oneof=customer user student partner employee"`
	Product         string `json:"product" validate:"max=100"`
	Course          string `json:"course" validate:"max=100"`
}

type CreateTestimonialRequest struct {
	Name            string `json:"name" validate:"required,notblank,max=100"`
	Role            string `json:"role" validate:"max=100"`
	Company         string `json:"company" validate:"max=100"`
	Avatar          string `json:"avatar" validate:"omitempty,url"`
	Content         string `json:"content" validate:"required,trimmin=20,max=2000"`
	Rating          int    `json:"rating" validate:"min=1,max=5"`
	TestimonialType string `json:"testimonial_type" validate:"omitempty,oneof=customer user student partner employee"`
	Product         string `json:"product" validate:"max=100"`
	Course          string `json:"course" validate:"max=100"`
	IsFeatured      bool   `json:"is_featured"`
	Order           int    `json:"order"`
}

type UpdateTestimonialRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Role            *string `json:"role,omitempty" validate:"omitempty,max=100"`
	Company         *string `json:"company,omitempty" validate:"omitempty,max=100"`
	Avatar          *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Content         *string `json:"content,omitempty" validate:"omitempty,trimmin=20,max=2000"`
	Rating          *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	TestimonialType *string `json:"testimonial_type,omitempty" validate:"omitempty,oneof=customer user student partner employee"`
	IsFeatured      *bool   `json:"is_featured,omitempty"`
	IsApproved      *bool   `json:"is_approved,omitempty"`
	Order           *int    `json:"order,omitempty"`
}

type TestimonialStats struct {
	Total              int            `json:"total"`
	Approved           int            `json:"approved"`
	Pending            int            `json:"pending"`
	Featured           int            `json:"featured"`
	AverageRating      float64        `json:"average_rating"`
	ByType             map[string]int `json:"by_type"`
	RatingDistribution map[string]int `json:"rating_distribution"`
}

// ---- Обращения ----

type Contact struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Phone       string    `json:"phone"`
	InquiryType string    `json:"inquiry_type"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	AdminNotes  string    `json:"admin_notes"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ContactFilter struct {
	Status      string
	InquiryType string
	Search      string
}

type CreateContactRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100" example:"Jane Doe"`
	Email       string `json:"email" validate:"required,email,max=254" example:"jane@example.com"`
	Company     string `json:"company" validate:"max=100"`
	Phone       string `json:"phone" validate:"phone"`
	InquiryType string `json:"inquiry_type" validate:"omitempty,oneof=general product partnership career press" example:"general"`
	Subject     string `json:"subject" validate:"max=200"`
	Message     string `json:"message" validate:"required,notblank,max=5000" example:"I would like to know more about your products."`
}

type UpdateContactRequest struct {
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=new in_progress resolved closed"`
	AdminNotes *string `json:"admin_notes,omitempty" validate:"omitempty,max=5000"`
}

type ContactReceipt struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type ContactStats struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	ByInquiryType map[string]int `json:"by_inquiry_type"`
	Last7Days     int            `json:"last_7_days"`
	Last30Days    int            `json:"last_30_days"`
}

// ---- Рассылка ----

type Subscriber struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	IsActive       bool       `json:"is_active"`
	Source         string     `json:"source"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at"`
}

type SubscriberFilter struct {
	IsActive *bool
	Source   string
	Search   string
}

type SubscribeRequest struct {
	Email  string `json:"email" validate:"required,email,max=254" example:"jane@example.com"`
	Source string `json:"source" validate:"omitempty,max=50" example:"website"`
}

type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type NewsletterStats struct {
	TotalSubscribers    int            `json:"total_subscribers"`
	ActiveSubscribers   int            `json:"active_subscribers"`
	InactiveSubscribers int            `json:"inactive_subscribers"`
	Last7Days           int            `json:"recent_subscriptions_7_days"`
	Last30Days          int            `json:"recent_subscriptions_30_days"`
	BySource            map[string]int `json:"subscribers_by_source"`
	GrowthTrend         []DailyCount   `json:"growth_trend"`
}

// SubscribeOutcome: чем закончилась подписка.
type SubscribeOutcome int

const (
	SubscriptionCreated SubscribeOutcome = iota
	SubscriptionReactivated
	SubscriptionAlreadyActive
)
