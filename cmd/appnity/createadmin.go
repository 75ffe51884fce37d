package main

import (
	"errors"
	"fmt"

	"appnity/internal/apperr"
	"appnity/internal/db"
	"appnity/internal/logger"
	"appnity/internal/repository"
	"appnity/internal/services"
	"appnity/internal/utils"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "Создать пользователя с ролью admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Log.Sync()

		pool, err := db.NewPostgresConnection(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("подключение к БД: %w", err)
		}
		defer pool.Close()

		tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
		auth := services.NewAuthService(repository.NewUserRepository(pool), tokens, nil)
		u, err := auth.CreateAdmin(cmd.Context(), adminEmail, adminUsername, adminPassword)
		if err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
				for field, msg := range appErr.Fields {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
				}
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Администратор создан: id=%d email=%s\n", u.ID, u.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Email администратора")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Имя пользователя")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Пароль")
	for _, name := range []string{"email", "username", "password"} {
		_ = createAdminCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(createAdminCmd)
}
