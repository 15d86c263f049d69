package organogram

import (
	"strings"

	"github.com/hr-organogram/internal/domain"
)

// Summarize считает сводку по каждому подразделению входного набора.
// Подразделения идут в порядке первого появления во входе.
func Summarize(records []domain.Person) []domain.DepartmentSummary {
	summaries := make([]domain.DepartmentSummary, 0)
	index := make(map[string]int)

	for i := range records {
		p := &records[i]
		k, ok := index[p.Department]
		if !ok {
			k = len(summaries)
			index[p.Department] = k
			summaries = append(summaries, domain.DepartmentSummary{
				Department: p.Department,
				Positions:  make(map[string]int),
			})
		}

		s := &summaries[k]
		s.Total++
		if p.Status.IsActive() {
			s.Active++
		}
		s.Positions[p.Position]++
	}

	return summaries
}

// Overview считает общие показатели по набору записей и построенному из него лесу
func Overview(records []domain.Person, roots []*domain.HierarchyNode) domain.Overview {
	departments := make(map[string]struct{})
	positions := make(map[string]struct{})

	ov := domain.Overview{
		Employees: len(records),
		Roots:     len(roots),
	}
	for i := range records {
		p := &records[i]
		if p.Status.IsActive() {
			ov.Active++
		}
		if d := strings.TrimSpace(p.Department); d != "" {
			departments[d] = struct{}{}
		}
		if pos := strings.TrimSpace(p.Position); pos != "" {
			positions[pos] = struct{}{}
		}
	}
	ov.Departments = len(departments)
	ov.Positions = len(positions)

	return ov
}
