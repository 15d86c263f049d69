package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hr-organogram/internal/domain"
	"github.com/hr-organogram/internal/dto"
	"github.com/hr-organogram/internal/organogram"
	"github.com/hr-organogram/internal/repository"
)

// PersonService определяет интерфейс бизнес-логики для сотрудников
type PersonService interface {
	Create(ctx context.Context, req *dto.CreatePersonRequest) (*domain.Person, error)
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	List(ctx context.Context) ([]domain.Person, error)
	Update(ctx context.Context, id string, req *dto.UpdatePersonRequest) (*domain.Person, error)
	Delete(ctx context.Context, id string) error
}

type personService struct {
	repo repository.PersonRepository
}

// NewPersonService создаёт новый экземпляр сервиса
func NewPersonService(repo repository.PersonRepository) PersonService {
	return &personService{repo: repo}
}

func (s *personService) Create(ctx context.Context, req *dto.CreatePersonRequest) (*domain.Person, error) {
	id := uuid.NewString()
	if req.ID != nil {
		id = strings.TrimSpace(*req.ID)
	}

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicatePersonID
	}

	p := &domain.Person{
		ID:         id,
		Name:       strings.TrimSpace(req.Name),
		Position:   strings.TrimSpace(req.Position),
		Department: strings.TrimSpace(req.Department),
		Company:    strings.TrimSpace(req.Company),
		Status:     domain.Status(strings.TrimSpace(req.Status)),
	}
	if p.Status == "" {
		p.Status = domain.StatusActive
	}

	// Проверяем руководителя
	if req.ReportingTo != nil {
		supervisorID := strings.TrimSpace(*req.ReportingTo)
		if supervisorID == id {
			return nil, domain.ErrSelfReference
		}
		if err := s.ensureSupervisor(ctx, supervisorID); err != nil {
			return nil, err
		}
		p.ReportingTo = &supervisorID
	}

	if req.JoinDate != nil {
		joinDate, err := parseDate(*req.JoinDate)
		if err != nil {
			return nil, err
		}
		p.JoinDate = joinDate
	}

	if err := organogram.ValidateRecord(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *personService) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *personService) List(ctx context.Context) ([]domain.Person, error) {
	return s.repo.List(ctx)
}

func (s *personService) Update(ctx context.Context, id string, req *dto.UpdatePersonRequest) (*domain.Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Position != nil {
		p.Position = strings.TrimSpace(*req.Position)
	}
	if req.Department != nil {
		p.Department = strings.TrimSpace(*req.Department)
	}
	if req.Company != nil {
		p.Company = strings.TrimSpace(*req.Company)
	}
	if req.Status != nil {
		p.Status = domain.Status(strings.TrimSpace(*req.Status))
	}
	if req.JoinDate != nil {
		joinDate, err := parseDate(*req.JoinDate)
		if err != nil {
			return nil, err
		}
		p.JoinDate = joinDate
	}

	// Обновляем руководителя, если передано
	if req.ReportingTo != nil {
		supervisorID := strings.TrimSpace(*req.ReportingTo)

		switch {
		case supervisorID == "":
			p.ReportingTo = nil

		case supervisorID == id:
			return nil, domain.ErrSelfReference

		default:
			if err := s.ensureSupervisor(ctx, supervisorID); err != nil {
				return nil, err
			}

			// Нельзя подчинить сотрудника его собственному подчинённому
			isSubordinate, err := s.repo.IsSubordinate(ctx, id, supervisorID)
			if err != nil {
				return nil, err
			}
			if isSubordinate {
				return nil, domain.ErrCyclicReference
			}

			p.ReportingTo = &supervisorID
		}
	}

	if err := organogram.ValidateRecord(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Delete удаляет сотрудника; его прямые подчинённые переходят к его руководителю
func (s *personService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	newSupervisor := p.ReportingTo
	if newSupervisor != nil && *newSupervisor == id {
		newSupervisor = nil
	}

	return s.repo.DeleteAndReassign(ctx, id, newSupervisor)
}

func (s *personService) ensureSupervisor(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrSupervisorNotFound
	}
	return nil
}

func parseDate(value string) (*time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("%w: join_date: %v", domain.ErrMalformedRecord, err)
	}
	return &t, nil
}
