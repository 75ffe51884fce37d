package handlers

import (
	"net/http"

	"appnity/internal/logger"
	"appnity/internal/models"
	"appnity/internal/services"
	helpers "appnity/internal/utils/helpers"
	"appnity/internal/validation"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.RegisterRequest true "Данные регистрации"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/auth/register/ [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, resp)
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Данные для входа"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/auth/login/ [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// Refresh godoc
// @Summary Новый access-токен по refresh-токену
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.RefreshRequest true "Refresh-токен"
// @Success 200 {object} models.AccessTokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/auth/token/refresh/ [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	access, err := h.authService.Refresh(r.Context(), req.Refresh)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, models.AccessTokenResponse{Access: access})
}

// Logout godoc
// @Summary Выход: отзыв refresh-токена
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.LogoutRequest true "Refresh-токен"
// @Success 200 {object} models.ActionResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/auth/logout/ [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.LogoutRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	if err := h.authService.Logout(r.Context(), userID(r), req.RefreshToken); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.Action(w, http.StatusOK, "Successfully logged out", nil)
}

// Profile godoc
// @Summary Профиль текущего пользователя
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.UserProfileResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/auth/profile/ [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.authService.Profile(r.Context(), userID(r))
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, models.NewUserProfile(u))
}

// UpdateProfile godoc
// @Summary Обновить профиль (email и роль не меняются)
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.UpdateProfileRequest true "Поля профиля"
// @Success 200 {object} models.UserProfileResponse
// @Router /api/v1/auth/profile/ [patch]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := helpers.Bind(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	u, err := h.authService.UpdateProfile(r.Context(), userID(r), &req)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	logger.WithCtx(r.Context()).Info("Профиль обновлён")
	helpers.JSON(w, http.StatusOK, models.NewUserProfile(u))
}

// ChangePassword godoc
// @Summary Смена пароля
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body models.ChangePasswordRequest true "Старый и новый пароль"
// @Success 200 {object} models.ActionResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/auth/password/change/ [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	if err := h.authService.ChangePassword(r.Context(), userID(r), &req); err != nil {
		logger.WithCtx(r.Context()).Warn("Смена пароля отклонена", zap.Error(err))
		helpers.WriteError(w, r, err)
		return
	}
	helpers.Action(w, http.StatusOK, "Password changed successfully", nil)
}

// Team godoc
// @Summary Команда: активные администраторы и редакторы
// @Tags auth
// @Produce json
// @Success 200 {array} models.TeamMember
// @Router /api/v1/auth/team/ [get]
func (h *AuthHandler) Team(w http.ResponseWriter, r *http.Request) {
	team, err := h.authService.Team(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, team)
}
