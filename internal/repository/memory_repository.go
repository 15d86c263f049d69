package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hr-organogram/internal/domain"
)

type memoryPersonRepository struct {
	mu      sync.RWMutex
	persons map[string]domain.Person
	order   []string
}

// NewMemoryPersonRepository создаёт хранилище в памяти, заполненное записями в заданном порядке.
// Как и в Create, из записей с повторным id сохраняется первая.
func NewMemoryPersonRepository(persons ...domain.Person) PersonRepository {
	r := &memoryPersonRepository{persons: make(map[string]domain.Person, len(persons))}
	for _, p := range persons {
		if _, ok := r.persons[p.ID]; ok {
			continue
		}
		r.order = append(r.order, p.ID)
		r.persons[p.ID] = p
	}
	return r
}

func (r *memoryPersonRepository) Create(_ context.Context, p *domain.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.persons[p.ID]; ok {
		return domain.ErrDuplicatePersonID
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	r.persons[p.ID] = *p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *memoryPersonRepository) GetByID(_ context.Context, id string) (*domain.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.persons[id]
	if !ok {
		return nil, domain.ErrPersonNotFound
	}
	return &p, nil
}

func (r *memoryPersonRepository) List(_ context.Context) ([]domain.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Person, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.persons[id])
	}
	return out, nil
}

func (r *memoryPersonRepository) Update(_ context.Context, p *domain.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.persons[p.ID]; !ok {
		return domain.ErrPersonNotFound
	}
	p.UpdatedAt = time.Now()
	r.persons[p.ID] = *p
	return nil
}

func (r *memoryPersonRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.persons[id]
	return ok, nil
}

// IsSubordinate поднимается по цепочке руководителей от candidateID
func (r *memoryPersonRepository) IsSubordinate(_ context.Context, managerID, candidateID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visited := make(map[string]bool)
	current := candidateID
	for {
		p, ok := r.persons[current]
		if !ok || p.ReportingTo == nil {
			return false, nil
		}
		if *p.ReportingTo == managerID {
			return true, nil
		}
		if visited[current] {
			return false, nil
		}
		visited[current] = true
		current = *p.ReportingTo
	}
}

func (r *memoryPersonRepository) GetSubordinateIDs(_ context.Context, id string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	children := make(map[string][]string, len(r.order))
	for _, pid := range r.order {
		p := r.persons[pid]
		if sup := p.SupervisorID(); sup != "" {
			children[sup] = append(children[sup], pid)
		}
	}

	var result []string
	seen := map[string]bool{}
	queue := slices.Clone(children[id])
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		result = append(result, next)
		queue = append(queue, children[next]...)
	}
	return result, nil
}

func (r *memoryPersonRepository) DeleteAndReassign(_ context.Context, id string, newSupervisor *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.persons[id]; !ok {
		return domain.ErrPersonNotFound
	}

	for pid, p := range r.persons {
		if p.SupervisorID() != id {
			continue
		}
		if newSupervisor != nil {
			sup := *newSupervisor
			p.ReportingTo = &sup
		} else {
			p.ReportingTo = nil
		}
		r.persons[pid] = p
	}

	delete(r.persons, id)
	r.order = slices.DeleteFunc(r.order, func(pid string) bool { return pid == id })
	return nil
}
