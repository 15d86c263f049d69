package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hr-organogram/internal/domain"
	"github.com/hr-organogram/internal/metrics"
	"github.com/hr-organogram/internal/organogram"
	"github.com/hr-organogram/internal/repository"
)

// OrganogramView - оргструктура по отфильтрованному набору сотрудников
type OrganogramView struct {
	Forest      *domain.Forest
	Total       int
	Overview    domain.Overview
	Departments []domain.DepartmentSummary
}

// OrganogramService определяет интерфейс построения оргструктуры
type OrganogramService interface {
	View(ctx context.Context, criteria organogram.Criteria) (*OrganogramView, error)
	Summaries(ctx context.Context, criteria organogram.Criteria) ([]domain.DepartmentSummary, error)
	Node(ctx context.Context, criteria organogram.Criteria, id string) (*domain.HierarchyNode, []*domain.HierarchyNode, error)
}

type organogramService struct {
	repo    repository.PersonLister
	metrics *metrics.Metrics
	logger  *slog.Logger

	// issued выдаёт номер каждой выборке; mu защищает последний принятый снимок
	issued    atomic.Uint64
	mu        sync.Mutex
	committed uint64
	snapshot  []domain.Person
}

// NewOrganogramService создаёт новый экземпляр сервиса
func NewOrganogramService(repo repository.PersonLister, m *metrics.Metrics, logger *slog.Logger) OrganogramService {
	return &organogramService{
		repo:    repo,
		metrics: m,
		logger:  logger,
	}
}

func (s *organogramService) View(ctx context.Context, criteria organogram.Criteria) (*OrganogramView, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	filtered := organogram.Filter(records, criteria)
	forest := s.build(filtered)
	total := organogram.CountNodes(forest.Roots)

	return &OrganogramView{
		Forest:      forest,
		Total:       total,
		Overview:    organogram.Overview(filtered, forest.Roots),
		Departments: organogram.Summarize(filtered),
	}, nil
}

func (s *organogramService) Summaries(ctx context.Context, criteria organogram.Criteria) ([]domain.DepartmentSummary, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return organogram.Summarize(organogram.Filter(records, criteria)), nil
}

// Node ищет узел в оргструктуре, построенной с тем же фильтром, и возвращает его вместе с цепочкой от корня
func (s *organogramService) Node(ctx context.Context, criteria organogram.Criteria, id string) (*domain.HierarchyNode, []*domain.HierarchyNode, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	forest := s.build(organogram.Filter(records, criteria))

	node, err := organogram.GetNode(forest.Roots, id)
	if err != nil {
		return nil, nil, err
	}
	path, err := organogram.Path(forest.Roots, id)
	if err != nil {
		return nil, nil, err
	}
	return node, path, nil
}

// load получает записи из хранилища. Если пока шла выборка завершилась более
// поздняя, результат отбрасывается и используется её снимок.
func (s *organogramService) load(ctx context.Context) ([]domain.Person, error) {
	gen := s.issued.Add(1)

	records, err := s.repo.List(ctx)
	if err != nil {
		s.metrics.FetchErrorsTotal.Inc()
		s.logger.Error("failed to fetch person records", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.committed {
		s.metrics.StaleFetchesTotal.Inc()
		s.logger.Debug("discarding stale person fetch",
			slog.Uint64("generation", gen),
			slog.Uint64("committed", s.committed),
		)
		return s.snapshot, nil
	}

	s.committed = gen
	s.snapshot = records
	return records, nil
}

func (s *organogramService) build(records []domain.Person) *domain.Forest {
	forest := organogram.Build(records)
	s.metrics.ObserveBuild(forest, organogram.CountNodes(forest.Roots))

	if err := forest.Err(); err != nil {
		s.logger.Warn("malformed person records skipped",
			slog.Int("count", len(forest.Skipped)),
			slog.Any("error", err),
		)
	}
	if len(forest.BrokenCycles) > 0 {
		s.logger.Warn("reporting cycles broken",
			slog.Any("promoted_to_root", forest.BrokenCycles),
		)
	}

	return forest
}
