// Package organogram строит оргструктуру из плоского списка сотрудников:
// фильтрация, построение леса по полю reporting_to, сводки по подразделениям
// и поиск узлов. Все функции чистые и не изменяют входные данные.
package organogram

import (
	"fmt"

	"github.com/hr-organogram/internal/domain"
)

// Build строит лес подчинения из записей.
//
// Корнями становятся записи без руководителя, с руководителем вне входного
// набора и ссылающиеся сами на себя. Порядок корней и дочерних узлов совпадает
// с порядком входа. Цикл подчинения разрывается: участник цикла с наименьшим
// id становится корнем. Некорректные записи и повторные id не попадают в лес
// и перечисляются в Forest.Skipped.
func Build(records []domain.Person) *domain.Forest {
	forest := &domain.Forest{Roots: []*domain.HierarchyNode{}}

	// Индексируем корректные записи: id -> позиция в valid
	valid := make([]int, 0, len(records))
	index := make(map[string]int, len(records))
	for i := range records {
		p := &records[i]
		if err := ValidateRecord(p); err != nil {
			forest.Skipped = append(forest.Skipped, skipped(i, p.ID, err))
			continue
		}
		if _, dup := index[p.ID]; dup {
			err := fmt.Errorf("%w: duplicate id %q", domain.ErrMalformedRecord, p.ID)
			forest.Skipped = append(forest.Skipped, skipped(i, p.ID, err))
			continue
		}
		index[p.ID] = len(valid)
		valid = append(valid, i)
	}

	n := len(valid)
	if n == 0 {
		return forest
	}

	parent := make([]int, n)
	for k, i := range valid {
		parent[k] = -1
		p := &records[i]
		sup := p.SupervisorID()
		if sup == "" || sup == p.ID {
			continue
		}
		if pk, ok := index[sup]; ok {
			parent[k] = pk
		}
	}

	forest.BrokenCycles = breakCycles(parent, func(k int) string {
		return records[valid[k]].ID
	})

	children := make([][]int, n)
	roots := make([]int, 0)
	for k := 0; k < n; k++ {
		if parent[k] < 0 {
			roots = append(roots, k)
			continue
		}
		children[parent[k]] = append(children[parent[k]], k)
	}

	// Узлы живут в одном массиве, указатели на элементы стабильны
	arena := make([]domain.HierarchyNode, n)
	order := make([]int, 0, n)
	for _, k := range roots {
		arena[k] = newNode(&records[valid[k]])
		order = append(order, k)
	}
	for head := 0; head < len(order); head++ {
		k := order[head]
		node := &arena[k]
		if len(children[k]) == 0 {
			continue
		}
		node.Children = make([]*domain.HierarchyNode, 0, len(children[k]))
		for _, c := range children[k] {
			arena[c] = newNode(&records[valid[c]])
			arena[c].Depth = node.Depth + 1
			arena[c].SupervisorID = node.ID
			node.Children = append(node.Children, &arena[c])
			order = append(order, c)
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		k := order[i]
		if parent[k] >= 0 {
			arena[parent[k]].Subordinates += arena[k].Subordinates + 1
		}
	}

	forest.Roots = make([]*domain.HierarchyNode, 0, len(roots))
	for _, k := range roots {
		forest.Roots = append(forest.Roots, &arena[k])
	}
	return forest
}

// breakCycles находит циклы в массиве родителей за один проход и разрывает
// каждый, обнуляя родителя у участника с наименьшим id.
func breakCycles(parent []int, idOf func(int) string) []string {
	const (
		unvisited uint8 = iota
		onPath
		settled
	)

	state := make([]uint8, len(parent))
	pos := make([]int, len(parent))
	path := make([]int, 0, 16)
	var broken []string

	for start := range parent {
		if state[start] != unvisited {
			continue
		}

		path = path[:0]
		k := start
		for k >= 0 && state[k] == unvisited {
			state[k] = onPath
			pos[k] = len(path)
			path = append(path, k)
			k = parent[k]
		}

		if k >= 0 && state[k] == onPath {
			cycle := path[pos[k]:]
			lowest := cycle[0]
			for _, c := range cycle[1:] {
				if idOf(c) < idOf(lowest) {
					lowest = c
				}
			}
			parent[lowest] = -1
			broken = append(broken, idOf(lowest))
		}

		for _, c := range path {
			state[c] = settled
		}
	}

	return broken
}

func newNode(p *domain.Person) domain.HierarchyNode {
	node := domain.HierarchyNode{
		ID:         p.ID,
		Name:       p.Name,
		Position:   p.Position,
		Department: p.Department,
		Company:    p.Company,
		Status:     p.Status,
	}
	if p.JoinDate != nil {
		joined := *p.JoinDate
		node.JoinDate = &joined
	}
	return node
}

func skipped(index int, id string, err error) domain.SkippedRecord {
	return domain.SkippedRecord{
		Index:  index,
		ID:     id,
		Reason: err.Error(),
		Err:    fmt.Errorf("record %d: %w", index, err),
	}
}
