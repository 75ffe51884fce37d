package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepo interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, in *models.UpdateProfileRequest) (*models.User, error)
	SetPassword(ctx context.Context, id int64, hash string) error
	TouchLastLogin(ctx context.Context, id int64) error
	ListTeam(ctx context.Context) ([]*models.User, error)

	SaveRefreshToken(ctx context.Context, jti uuid.UUID, userID int64, expiresAt time.Time) error
	IsRefreshTokenActive(ctx context.Context, jti uuid.UUID, userID int64) (bool, error)
	RevokeRefreshToken(ctx context.Context, jti uuid.UUID, userID int64) (bool, error)
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)
}

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, first_name, last_name, role, bio, avatar,
	linkedin_url, github_url, twitter_url, is_active, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.Bio, &u.Avatar,
		&u.LinkedinURL, &u.GithubURL, &u.TwitterURL, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("username", user.Username), zap.String("email", user.Email))
	query := `
	INSERT INTO users (email, username, password_hash, first_name, last_name, role, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания пользователя (repo)", zap.Error(err))
		return apperr.FromDB(err, "user")
	}
	return nil
}

func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	logger.Log.Debug("Проверка username на уникальность (repo)", zap.String("username", username))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки username (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	logger.Log.Debug("Проверка email на уникальность (repo)", zap.String("email", email))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по email (repo)", zap.String("email", email))
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return u, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по ID (repo)", zap.Int64("user_id", id))
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, in *models.UpdateProfileRequest) (*models.User, error) {
	logger.Log.Info("Обновление профиля (repo)", zap.Int64("user_id", id))

	fields := []string{}
	args := []interface{}{}
	argID := 1
	set := func(col string, v *string) {
		if v == nil {
			return
		}
		fields = append(fields, fmt.Sprintf("%s = $%d", col, argID))
		args = append(args, strings.TrimSpace(*v))
		argID++
	}
	set("first_name", in.FirstName)
	set("last_name", in.LastName)
	set("bio", in.Bio)
	set("avatar", in.Avatar)
	set("linkedin_url", in.LinkedinURL)
	set("github_url", in.GithubURL)
	set("twitter_url", in.TwitterURL)

	if len(fields) == 0 {
		return r.GetUserByID(ctx, id)
	}

	fields = append(fields, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s", strings.Join(fields, ", "), argID, userColumns)
	args = append(args, id)

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		logger.Log.Error("Ошибка обновления профиля (repo)", zap.Error(err))
		return nil, apperr.FromDB(err, "user")
	}
	return u, nil
}

func (r *UserRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		logger.Log.Error("Ошибка смены пароля (repo)", zap.Error(err))
		return apperr.FromDB(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return err
}

func (r *UserRepository) ListTeam(ctx context.Context) ([]*models.User, error) {
	logger.Log.Debug("Список команды (repo)")
	query := `SELECT ` + userColumns + ` FROM users
	WHERE is_active AND role IN ('admin', 'editor')
	ORDER BY first_name, last_name, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Ошибка получения команды (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ---- refresh-токены: храним только jti ----

func (r *UserRepository) SaveRefreshToken(ctx context.Context, jti uuid.UUID, userID int64, expiresAt time.Time) error {
	logger.Log.Debug("Сохранение refresh токена (repo)", zap.Int64("user_id", userID))
	query := `INSERT INTO refresh_tokens (jti, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, jti, userID, expiresAt)
	if err != nil {
		logger.Log.Error("Ошибка сохранения refresh токена (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) IsRefreshTokenActive(ctx context.Context, jti uuid.UUID, userID int64) (bool, error) {
	logger.Log.Debug("Проверка refresh токена (repo)", zap.Int64("user_id", userID))
	query := `SELECT EXISTS(
		SELECT 1 FROM refresh_tokens
		WHERE jti = $1 AND user_id = $2 AND revoked_at IS NULL AND expires_at > NOW()
	)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jti, userID).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки refresh токена (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) RevokeRefreshToken(ctx context.Context, jti uuid.UUID, userID int64) (bool, error) {
	logger.Log.Debug("Отзыв refresh токена (repo)", zap.Int64("user_id", userID))
	tag, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE jti = $1 AND user_id = $2 AND revoked_at IS NULL`,
		jti, userID)
	if err != nil {
		logger.Log.Error("Ошибка отзыва refresh токена (repo)", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) RevokeAllRefreshTokens(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		logger.Log.Error("Ошибка отзыва всех refresh токенов (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW() OR revoked_at < NOW() - INTERVAL '7 days'`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
