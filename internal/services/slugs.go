package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxSlugLen = 200

type slugExistsFunc func(ctx context.Context, slug string) (bool, error)

// makeSlug: slug из заголовка, обрезанный по границе слова.
func makeSlug(title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
		if i := strings.LastIndexByte(s, '-'); i > 0 {
			s = s[:i]
		}
	}
	return strings.Trim(s, "-")
}

// uniqueSlug добавляет -2, -3, … пока slug занят.
func uniqueSlug(ctx context.Context, title string, exists slugExistsFunc) (string, error) {
	base := makeSlug(title)
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 2; i < 1000; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + uuid.NewString()[:8], nil
}
