package main

import (
	"fmt"
	"os"

	"appnity/internal/db"
	"appnity/internal/logger"
	"appnity/internal/repository"
	"appnity/internal/seed"
	"appnity/internal/services"
	"appnity/internal/storage"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Загрузить демо-данные из YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		fixtures, err := seed.Load(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

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

		// без уведомлений: демо-данные не должны слать письма
		svc := seed.Services{
			Blog:         services.NewBlogService(repository.NewBlogRepo(pool)),
			Products:     services.NewProductService(repository.NewProductRepo(pool)),
			Portfolio:    services.NewPortfolioService(repository.NewPortfolioRepo(pool)),
			Training:     services.NewTrainingService(repository.NewTrainingRepo(pool)),
			Careers:      services.NewCareersService(repository.NewCareersRepo(pool), storage.NewResumeStore(cfg.MediaRoot, cfg.ResumeMaxBytes), nil),
			Testimonials: services.NewTestimonialService(repository.NewTestimonialRepo(pool), nil),
		}
		report, err := seed.Apply(cmd.Context(), svc, fixtures)
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return err
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
