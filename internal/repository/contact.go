package repository

import (
	"context"
	"fmt"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ContactRepo interface {
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	List(ctx context.Context, f models.ContactFilter, limit, offset int) ([]*models.Contact, int, error)
	Get(ctx context.Context, id int64) (*models.Contact, error)
	Update(ctx context.Context, id int64, in *models.UpdateContactRequest) (*models.Contact, error)
	Stats(ctx context.Context) (*models.ContactStats, error)
}

type contactRepo struct{ db *pgxpool.Pool }

func NewContactRepo(db *pgxpool.Pool) ContactRepo { return &contactRepo{db: db} }

const contactColumns = `id, name, email, company, phone, inquiry_type, subject, message, status, admin_notes,
	ip_address, user_agent, created_at, updated_at`

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone, &c.InquiryType, &c.Subject, &c.Message,
		&c.Status, &c.AdminNotes, &c.IPAddress, &c.UserAgent, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contactRepo) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	log := logger.WithCtx(ctx)
	log.Info("Сохранение обращения (repo)", zap.String("inquiry_type", c.InquiryType))
	const q = `
		INSERT INTO contacts (name, email, company, phone, inquiry_type, subject, message, ip_address, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING ` + contactColumns
	out, err := scanContact(r.db.QueryRow(ctx, q,
		c.Name, c.Email, c.Company, c.Phone, c.InquiryType, c.Subject, c.Message, c.IPAddress, c.UserAgent))
	if err != nil {
		log.Error("Ошибка сохранения обращения (repo)", zap.Error(err))
		return nil, apperr.FromDB(err, "contact")
	}
	return out, nil
}

func (r *contactRepo) List(ctx context.Context, f models.ContactFilter, limit, offset int) ([]*models.Contact, int, error) {
	w := &where{}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.InquiryType != "" {
		w.add("inquiry_type = ?", f.InquiryType)
	}
	w.search(f.Search, "name", "email", "company", "subject", "message")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM contacts"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := "SELECT " + contactColumns + " FROM contacts" + w.sql() +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT %s OFFSET %s", w.next(limit), w.next(offset))
	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func (r *contactRepo) Get(ctx context.Context, id int64) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRow(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id = $1", id))
	if err != nil {
		return nil, apperr.FromDB(err, "contact")
	}
	return c, nil
}

func (r *contactRepo) Update(ctx context.Context, id int64, in *models.UpdateContactRequest) (*models.Contact, error) {
	sets := []string{}
	args := []any{}
	if in.Status != nil {
		args = append(args, *in.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if in.AdminNotes != nil {
		args = append(args, *in.AdminNotes)
		sets = append(sets, fmt.Sprintf("admin_notes = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf("UPDATE contacts SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), contactColumns)

	c, err := scanContact(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, apperr.FromDB(err, "contact")
	}
	return c, nil
}

func (r *contactRepo) Stats(ctx context.Context) (*models.ContactStats, error) {
	st := &models.ContactStats{ByStatus: map[string]int{}, ByInquiryType: map[string]int{}}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days'),
		       COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '30 days')
		FROM contacts`).Scan(&st.Total, &st.Last7Days, &st.Last30Days)
	if err != nil {
		return nil, err
	}
	if err := collectCounts(ctx, r.db, `SELECT status, COUNT(*) FROM contacts GROUP BY status`, st.ByStatus); err != nil {
		return nil, err
	}
	if err := collectCounts(ctx, r.db, `SELECT inquiry_type, COUNT(*) FROM contacts GROUP BY inquiry_type`, st.ByInquiryType); err != nil {
		return nil, err
	}
	return st, nil
}
