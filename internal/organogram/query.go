package organogram

import (
	"slices"

	"github.com/hr-organogram/internal/domain"
)

// GetNode ищет узел по id обходом в глубину.
// Возвращает domain.ErrNodeNotFound, если узла нет в текущем лесу.
func GetNode(roots []*domain.HierarchyNode, id string) (*domain.HierarchyNode, error) {
	var found *domain.HierarchyNode
	walk(roots, func(n *domain.HierarchyNode) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, domain.ErrNodeNotFound
	}
	return found, nil
}

// CountNodes возвращает число узлов во всех деревьях леса
func CountNodes(roots []*domain.HierarchyNode) int {
	count := 0
	walk(roots, func(*domain.HierarchyNode) bool {
		count++
		return true
	})
	return count
}

// Flatten возвращает узлы в прямом порядке обхода - в том порядке,
// в котором их рисует отображение дерева
func Flatten(roots []*domain.HierarchyNode) []*domain.HierarchyNode {
	out := make([]*domain.HierarchyNode, 0, len(roots))
	walk(roots, func(n *domain.HierarchyNode) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Path возвращает цепочку узлов от корня до узла с данным id включительно
func Path(roots []*domain.HierarchyNode, id string) ([]*domain.HierarchyNode, error) {
	byID := make(map[string]*domain.HierarchyNode)
	walk(roots, func(n *domain.HierarchyNode) bool {
		byID[n.ID] = n
		return true
	})

	node, ok := byID[id]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}

	path := make([]*domain.HierarchyNode, 0, node.Depth+1)
	for node != nil && len(path) <= len(byID) {
		path = append(path, node)
		if node.SupervisorID == "" {
			break
		}
		node = byID[node.SupervisorID]
	}
	slices.Reverse(path)
	return path, nil
}

// walk обходит лес в прямом порядке без рекурсии; visit возвращает false для остановки
func walk(roots []*domain.HierarchyNode, visit func(*domain.HierarchyNode) bool) {
	stack := make([]*domain.HierarchyNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			return
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
