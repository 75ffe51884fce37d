package repository

import (
	"context"
	"errors"
	"fmt"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type NewsletterRepo interface {
	Subscribe(ctx context.Context, email, source string) (*models.Subscriber, models.SubscribeOutcome, error)
	Unsubscribe(ctx context.Context, email string) (*models.Subscriber, error)
	List(ctx context.Context, f models.SubscriberFilter, limit, offset int) ([]*models.Subscriber, int, error)
	Stats(ctx context.Context) (*models.NewsletterStats, error)
}

type newsletterRepo struct{ db *pgxpool.Pool }

func NewNewsletterRepo(db *pgxpool.Pool) NewsletterRepo { return &newsletterRepo{db: db} }

const subscriberColumns = `id, email, is_active, source, subscribed_at, unsubscribed_at`

func scanSubscriber(row pgx.Row) (*models.Subscriber, error) {
	var s models.Subscriber
	if err := row.Scan(&s.ID, &s.Email, &s.IsActive, &s.Source, &s.SubscribedAt, &s.UnsubscribedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Subscribe вставляет адрес или реактивирует существующую запись.
// Уникальность по LOWER(email) гарантирует индекс, поэтому дублей нет даже при гонке.
func (r *newsletterRepo) Subscribe(ctx context.Context, email, source string) (*models.Subscriber, models.SubscribeOutcome, error) {
	log := logger.WithCtx(ctx)
	var (
		sub     *models.Subscriber
		outcome models.SubscribeOutcome
	)
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		s, err := scanSubscriber(tx.QueryRow(ctx, `
			INSERT INTO newsletter_subscribers (email, source) VALUES ($1, $2)
			ON CONFLICT (LOWER(email)) DO NOTHING
			RETURNING `+subscriberColumns, email, source))
		if err == nil {
			sub, outcome = s, models.SubscriptionCreated
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		s, err = scanSubscriber(tx.QueryRow(ctx,
			"SELECT "+subscriberColumns+" FROM newsletter_subscribers WHERE LOWER(email) = LOWER($1) FOR UPDATE", email))
		if err != nil {
			return err
		}
		if s.IsActive {
			sub, outcome = s, models.SubscriptionAlreadyActive
			return nil
		}

		s, err = scanSubscriber(tx.QueryRow(ctx, `
			UPDATE newsletter_subscribers
			SET is_active = TRUE, unsubscribed_at = NULL, subscribed_at = NOW()
			WHERE id = $1
			RETURNING `+subscriberColumns, s.ID))
		if err != nil {
			return err
		}
		sub, outcome = s, models.SubscriptionReactivated
		return nil
	})
	if err != nil {
		log.Error("Ошибка подписки на рассылку (repo)", zap.Error(err))
		return nil, 0, apperr.FromDB(err, "subscriber")
	}
	log.Info("Подписка на рассылку (repo)", zap.Int64("id", sub.ID), zap.Int("outcome", int(outcome)))
	return sub, outcome, nil
}

func (r *newsletterRepo) Unsubscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	s, err := scanSubscriber(r.db.QueryRow(ctx, `
		UPDATE newsletter_subscribers
		SET is_active = FALSE, unsubscribed_at = NOW()
		WHERE LOWER(email) = LOWER($1) AND is_active
		RETURNING `+subscriberColumns, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Field("email", "Email address not found or already unsubscribed.")
	}
	if err != nil {
		return nil, apperr.FromDB(err, "subscriber")
	}
	return s, nil
}

func (r *newsletterRepo) List(ctx context.Context, f models.SubscriberFilter, limit, offset int) ([]*models.Subscriber, int, error) {
	w := &where{}
	if f.IsActive != nil {
		w.add("is_active = ?", *f.IsActive)
	}
	if f.Source != "" {
		w.add("source = ?", f.Source)
	}
	w.search(f.Search, "email")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM newsletter_subscribers"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := "SELECT " + subscriberColumns + " FROM newsletter_subscribers" + w.sql() +
		fmt.Sprintf(" ORDER BY subscribed_at DESC, id DESC LIMIT %s OFFSET %s", w.next(limit), w.next(offset))
	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

func (r *newsletterRepo) Stats(ctx context.Context) (*models.NewsletterStats, error) {
	st := &models.NewsletterStats{BySource: map[string]int{}}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE NOT is_active),
		       COUNT(*) FILTER (WHERE subscribed_at >= NOW() - INTERVAL '7 days'),
		       COUNT(*) FILTER (WHERE subscribed_at >= NOW() - INTERVAL '30 days')
		FROM newsletter_subscribers`).Scan(
		&st.TotalSubscribers, &st.ActiveSubscribers, &st.InactiveSubscribers, &st.Last7Days, &st.Last30Days)
	if err != nil {
		return nil, err
	}

	if err := collectCounts(ctx, r.db,
		`SELECT source, COUNT(*) FROM newsletter_subscribers WHERE is_active GROUP BY source`, st.BySource); err != nil {
		return nil, err
	}

	// последние 7 дней, включая сегодняшний; дни без подписок дают 0
	rows, err := r.db.Query(ctx, `
		SELECT to_char(d, 'YYYY-MM-DD'), COUNT(s.id)
		FROM generate_series((CURRENT_DATE - 6)::timestamp, CURRENT_DATE::timestamp, INTERVAL '1 day') AS d
		LEFT JOIN newsletter_subscribers s ON s.subscribed_at::date = d::date
		GROUP BY d
		ORDER BY d`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	st.GrowthTrend = make([]models.DailyCount, 0, 7)
	for rows.Next() {
		var dc models.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		st.GrowthTrend = append(st.GrowthTrend, dc)
	}
	return st, rows.Err()
}
