package main

import (
	"fmt"

	"appnity/internal/db"
	"appnity/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить миграции схемы БД",
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

		applied, err := db.Migrate(cmd.Context(), pool)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Схема актуальна, новых миграций нет")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintln(cmd.OutOrStdout(), "применена:", name)
		}
		logger.Log.Info("Миграции применены", zap.Strings("applied", applied))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
