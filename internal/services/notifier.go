package services

import (
	"context"
	"fmt"
	"strings"

	"appnity/internal/logger"
	"appnity/internal/mailer"
	"appnity/internal/models"

	"go.uber.org/zap"
)

// Enqueuer: то, куда Notifier складывает письма (mailer.Dispatcher).
type Enqueuer interface {
	Enqueue(msg mailer.Message) bool
}

// Notifier превращает доменные события в письма.
// Ошибки только логируются: запись в БД к этому моменту уже сделана.
type Notifier struct {
	queue      Enqueuer
	siteURL    string
	adminEmail string
}

func NewNotifier(queue Enqueuer, siteURL, adminEmail string) *Notifier {
	return &Notifier{
		queue:      queue,
		siteURL:    strings.TrimRight(siteURL, "/"),
		adminEmail: adminEmail,
	}
}

func (n *Notifier) send(ctx context.Context, kind, subject string, to []string, c mailer.Content) {
	if n == nil || n.queue == nil || len(to) == 0 {
		return
	}
	log := logger.WithCtx(ctx)
	msg, err := mailer.Build(kind, subject, to, c)
	if err != nil {
		log.Error("Не удалось собрать письмо", zap.String("kind", kind), zap.Error(err))
		return
	}
	if !n.queue.Enqueue(msg) {
		log.Warn("Письмо не поставлено в очередь", zap.String("kind", kind))
	}
}

func (n *Notifier) admin() []string {
	if n.adminEmail == "" {
		return nil
	}
	return []string{n.adminEmail}
}

// ==== ПИСЬМА ====

func (n *Notifier) ContactReceived(ctx context.Context, c *models.Contact) {
	if n == nil {
		return
	}
	n.send(ctx, "contact_admin", fmt.Sprintf("New %s inquiry from %s", c.InquiryType, c.Name), n.admin(), mailer.Content{
		Title: "New contact form submission",
		Fields: []mailer.Field{
			{Label: "Name", Value: c.Name},
			{Label: "Email", Value: c.Email},
			{Label: "Company", Value: c.Company},
			{Label: "Phone", Value: c.Phone},
			{Label: "Inquiry type", Value: c.InquiryType},
			{Label: "Subject", Value: c.Subject},
			{Label: "Message", Value: c.Message},
		},
	})
}

func (n *Notifier) NewsletterWelcome(ctx context.Context, email string) {
	if n == nil {
		return
	}
	n.send(ctx, "newsletter_welcome", "Welcome to the Appnity newsletter", []string{email}, mailer.Content{
		Title: "Thanks for subscribing!",
		Paragraphs: []string{
			"You will now receive product updates, new courses and articles from the Appnity team.",
			"If you did not sign up, you can unsubscribe at any time.",
		},
		Action: &mailer.Link{Text: "Visit Appnity", URL: n.siteURL},
	})
}

func (n *Notifier) NewsletterUnsubscribed(ctx context.Context, email string) {
	if n == nil {
		return
	}
	n.send(ctx, "newsletter_unsubscribe", "You have been unsubscribed", []string{email}, mailer.Content{
		Title:      "You have been unsubscribed",
		Paragraphs: []string{"You will no longer receive the Appnity newsletter. You can subscribe again at any time."},
	})
}

func (n *Notifier) ApplicationReceived(ctx context.Context, a *models.JobApplication) {
	if n == nil {
		return
	}
	n.send(ctx, "application_confirmation", "We received your application for "+a.PositionTitle, []string{a.Email}, mailer.Content{
		Title: "Application received",
		Paragraphs: []string{
			fmt.Sprintf("Hi %s, thank you for applying for the %s position at Appnity.", a.FirstName, a.PositionTitle),
			"Our team will review your application and get back to you.",
		},
	})

	n.send(ctx, "application_admin", fmt.Sprintf("New application: %s for %s", a.FullName(), a.PositionTitle), n.admin(), mailer.Content{
		Title: "New job application",
		Fields: []mailer.Field{
			{Label: "Position", Value: a.PositionTitle},
			{Label: "Applicant", Value: a.FullName()},
			{Label: "Email", Value: a.Email},
			{Label: "Phone", Value: a.Phone},
			{Label: "Experience", Value: fmt.Sprintf("%d years", a.YearsOfExperience)},
			{Label: "Résumé attached", Value: yesNo(a.HasResume)},
		},
		Action: &mailer.Link{Text: "Review application", URL: fmt.Sprintf("%s/api/v1/careers/applications/%d/", n.siteURL, a.ID)},
	})
}

func (n *Notifier) TestimonialSubmitted(ctx context.Context, t *models.Testimonial) {
	if n == nil {
		return
	}
	if t.Email != "" {
		n.send(ctx, "testimonial_confirmation", "Thank you for your testimonial", []string{t.Email}, mailer.Content{
			Title:      "Thank you for your feedback!",
			Paragraphs: []string{fmt.Sprintf("Hi %s, your testimonial was received and will appear on the site after review.", t.Name)},
		})
	}
	n.send(ctx, "testimonial_admin", "New testimonial awaiting approval", n.admin(), mailer.Content{
		Title: "New testimonial submission",
		Fields: []mailer.Field{
			{Label: "Name", Value: t.Name},
			{Label: "Company", Value: t.Company},
			{Label: "Rating", Value: fmt.Sprintf("%d/5", t.Rating)},
			{Label: "Type", Value: t.TestimonialType},
			{Label: "Content", Value: t.Content},
		},
	})
}

func (n *Notifier) UserRegistered(ctx context.Context, u *models.User) {
	if n == nil {
		return
	}
	n.send(ctx, "registration_welcome", "Welcome to Appnity", []string{u.Email}, mailer.Content{
		Title:      "Welcome, " + u.FullName() + "!",
		Paragraphs: []string{"Your Appnity account has been created."},
		Action:     &mailer.Link{Text: "Open Appnity", URL: n.siteURL},
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
