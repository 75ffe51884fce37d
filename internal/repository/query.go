package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// where собирает условия WHERE с позиционными параметрами.
// В условии «?» заменяется на $n по порядку аргументов.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	var b strings.Builder
	ai := 0
	for _, ch := range cond {
		if ch == '?' && ai < len(args) {
			w.args = append(w.args, args[ai])
			ai++
			fmt.Fprintf(&b, "$%d", len(w.args))
			continue
		}
		b.WriteRune(ch)
	}
	w.conds = append(w.conds, b.String())
}

// next: плейсхолдер для следующего аргумента (LIMIT/OFFSET и т.п.).
func (w *where) next(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// search добавляет ILIKE по нескольким колонкам через OR.
func (w *where) search(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE ?"
		args[i] = pattern
	}
	w.add("("+strings.Join(parts, " OR ")+")", args...)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// jsonb-колонки: nil-срез пишем как [], чтобы не нарушить NOT NULL.
func toJSONB[T any](v []T) []byte {
	if v == nil {
		v = []T{}
	}
	b, _ := json.Marshal(v)
	return b
}

func fromJSONB[T any](raw []byte) []T {
	out := []T{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

// numeric читаем как text и разбираем в decimal.
func decFromText(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}

func decToText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
