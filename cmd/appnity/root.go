package main

import (
	"fmt"
	"os"

	"appnity/internal/config"
	"appnity/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "appnity",
	Short:         "Appnity: API сайта и сервисные команды",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute запускает корневую команду.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig читает конфиг, поднимает логгер и печатает предупреждения.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}
	logger.InitLogger(cfg)

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Log.Warn("Конфиг: " + w)
	}
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Конфиг загружен",
		zap.String("env", cfg.Env),
		zap.String("db", cfg.GetDSNSafe()),
		zap.Bool("smtp", cfg.SMTPConfigured()),
	)
	return cfg, nil
}
