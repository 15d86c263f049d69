package organogram

import (
	"strings"

	"github.com/hr-organogram/internal/domain"
)

// Criteria - условия фильтрации. Пустое поле не ограничивает выборку.
type Criteria struct {
	Department string
	Company    string
	Query      string
}

// IsEmpty сообщает, что фильтр не задан
func (c Criteria) IsEmpty() bool {
	return c.Department == "" && c.Company == "" && strings.TrimSpace(c.Query) == ""
}

// Filter возвращает новый срез записей, удовлетворяющих всем заданным условиям.
// Подразделение и компания сравниваются точно, Query ищется без учёта регистра
// в имени, id и должности. Порядок входа сохраняется.
func Filter(records []domain.Person, c Criteria) []domain.Person {
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]domain.Person, 0, len(records))
	for i := range records {
		p := &records[i]
		if c.Department != "" && p.Department != c.Department {
			continue
		}
		if c.Company != "" && p.Company != c.Company {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func matchesQuery(p *domain.Person, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.ID), query) ||
		strings.Contains(strings.ToLower(p.Position), query)
}
