package services

import (
	"context"
	"strings"

	"appnity/internal/apperr"
	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/repository"
	"appnity/internal/utils"

	"go.uber.org/zap"
)

type AuthService struct {
	repo   repository.UserRepo
	tokens *utils.TokenManager
	notify *Notifier
}

func NewAuthService(repo repository.UserRepo, tokens *utils.TokenManager, notify *Notifier) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, notify: notify}
}

var errBadCredentials = apperr.Unauthorized("No active account found with the given credentials")

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	log := logger.WithCtx(ctx)
	log.Info("Регистрация пользователя (service)", zap.String("username", req.Username), zap.String("email", req.Email))

	if req.Password != req.PasswordConfirm {
		return nil, apperr.Field("password_confirm", "Password fields didn't match.")
	}
	if problems := utils.ValidatePassword(req.Password, req.Email, req.Username, req.FirstName, req.LastName); len(problems) > 0 {
		return nil, apperr.Field("password", strings.Join(problems, " "))
	}

	taken, err := s.repo.IsEmailTaken(ctx, req.Email)
	if err != nil {
		log.Error("Ошибка проверки email", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, apperr.Field("email", "A user with that email already exists.")
	}
	if taken, err = s.repo.IsUsernameTaken(ctx, req.Username); err != nil {
		log.Error("Ошибка проверки username", zap.Error(err))
		return nil, err
	} else if taken {
		return nil, apperr.Field("username", "A user with that username already exists.")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Email:        strings.TrimSpace(req.Email),
		Username:     strings.TrimSpace(req.Username),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hashed,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		log.Error("Ошибка создания пользователя", zap.Error(err))
		return nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.notify.UserRegistered(ctx, user)
	log.Info("Пользователь зарегистрирован (service)", zap.Int64("user_id", user.ID))

	return &models.AuthResponse{
		Message: "User registered successfully",
		User:    models.NewUserProfile(user),
		Tokens:  *pair,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	log := logger.WithCtx(ctx)
	log.Info("Попытка входа (service)", zap.String("email", req.Email))

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			log.Warn("Пользователь не найден (service)", zap.String("email", req.Email))
			return nil, errBadCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Warn("Неверный пароль (service)", zap.Int64("user_id", user.ID))
		return nil, errBadCredentials
	}
	if !user.IsActive {
		log.Warn("Вход в отключённый аккаунт (service)", zap.Int64("user_id", user.ID))
		return nil, errBadCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn("Не удалось обновить last_login", zap.Error(err))
	}

	log.Info("Вход выполнен (service)", zap.Int64("user_id", user.ID))
	return &models.AuthResponse{
		Message: "Login successful",
		User:    models.NewUserProfile(user),
		Tokens:  *pair,
	}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, u *models.User) (*models.TokenPair, error) {
	access, _, err := s.tokens.GenerateToken(u.ID, u.Role, utils.TokenAccess)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации access-токена", zap.Error(err))
		return nil, err
	}
	refresh, claims, err := s.tokens.GenerateToken(u.ID, u.Role, utils.TokenRefresh)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации refresh-токена", zap.Error(err))
		return nil, err
	}
	jti, err := claims.JTI()
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveRefreshToken(ctx, jti, u.ID, claims.ExpiresAt.Time); err != nil {
		logger.WithCtx(ctx).Error("Ошибка сохранения refresh-токена", zap.Error(err))
		return nil, err
	}
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh выдаёт новый access-токен по действующему refresh-токену.
func (s *AuthService) Refresh(ctx context.Context, raw string) (string, error) {
	claims, err := s.tokens.Parse(raw, utils.TokenRefresh)
	if err != nil {
		return "", apperr.Unauthorized("Token is invalid or expired")
	}
	jti, err := claims.JTI()
	if err != nil {
		return "", apperr.Unauthorized("Token is invalid or expired")
	}
	active, err := s.repo.IsRefreshTokenActive(ctx, jti, claims.UserID)
	if err != nil {
		return "", err
	}
	if !active {
		logger.WithCtx(ctx).Warn("Отозванный refresh-токен (service)", zap.Int64("user_id", claims.UserID))
		return "", apperr.Unauthorized("Token is blacklisted")
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return "", apperr.Unauthorized("User not found or inactive")
	}
	access, _, err := s.tokens.GenerateToken(user.ID, user.Role, utils.TokenAccess)
	return access, err
}

// Logout отзывает refresh-токен текущего пользователя.
func (s *AuthService) Logout(ctx context.Context, userID int64, raw string) error {
	logger.WithCtx(ctx).Info("Выход пользователя (service)", zap.Int64("user_id", userID))
	claims, err := s.tokens.Parse(raw, utils.TokenRefresh)
	if err != nil || claims.UserID != userID {
		return apperr.Field("refresh_token", "Token is invalid or expired")
	}
	jti, err := claims.JTI()
	if err != nil {
		return apperr.Field("refresh_token", "Token is invalid or expired")
	}
	revoked, err := s.repo.RevokeRefreshToken(ctx, jti, userID)
	if err != nil {
		return err
	}
	if !revoked {
		return apperr.Field("refresh_token", "Token is blacklisted")
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.User, error) {
	return s.repo.UpdateProfile(ctx, userID, req)
}

// ChangePassword меняет пароль и отзывает все refresh-токены пользователя.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error {
	log := logger.WithCtx(ctx)
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return apperr.Field("old_password", "Old password is incorrect.")
	}
	if req.NewPassword != req.NewPasswordConfirm {
		return apperr.Field("new_password_confirm", "Password fields didn't match.")
	}
	if problems := utils.ValidatePassword(req.NewPassword, user.Email, user.Username, user.FirstName, user.LastName); len(problems) > 0 {
		return apperr.Field("new_password", strings.Join(problems, " "))
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, userID, hashed); err != nil {
		return err
	}
	if err := s.repo.RevokeAllRefreshTokens(ctx, userID); err != nil {
		log.Warn("Не удалось отозвать refresh-токены после смены пароля", zap.Error(err))
	}
	log.Info("Пароль изменён (service)", zap.Int64("user_id", userID))
	return nil
}

func (s *AuthService) Team(ctx context.Context) ([]models.TeamMember, error) {
	users, err := s.repo.ListTeam(ctx)
	if err != nil {
		return nil, err
	}
	team := make([]models.TeamMember, 0, len(users))
	for _, u := range users {
		team = append(team, models.TeamMember{
			ID:          u.ID,
			FullName:    u.FullName(),
			Role:        u.Role,
			Bio:         u.Bio,
			Avatar:      u.Avatar,
			LinkedinURL: u.LinkedinURL,
			GithubURL:   u.GithubURL,
			TwitterURL:  u.TwitterURL,
		})
	}
	return team, nil
}

// CreateAdmin используется командой createadmin.
func (s *AuthService) CreateAdmin(ctx context.Context, email, username, password string) (*models.User, error) {
	if problems := utils.ValidatePassword(password, email, username); len(problems) > 0 {
		return nil, apperr.Field("password", strings.Join(problems, " "))
	}
	if taken, err := s.repo.IsEmailTaken(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Field("email", "A user with that email already exists.")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, Username: username, PasswordHash: hashed, Role: models.RoleAdmin, IsActive: true}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("Создан администратор", zap.Int64("user_id", u.ID))
	return u, nil
}

// CleanupTokens удаляет просроченные и давно отозванные refresh-токены.
func (s *AuthService) CleanupTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredRefreshTokens(ctx)
}
