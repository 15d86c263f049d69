package repository

import (
	"context"
	"errors"
	"slices"

	"github.com/hr-organogram/internal/domain"
	"gorm.io/gorm"
)

// PersonLister отдаёт полный набор записей в порядке хранилища.
// Повторы и некорректные записи возвращаются как есть.
type PersonLister interface {
	List(ctx context.Context) ([]domain.Person, error)
}

// PersonRepository определяет интерфейс хранилища записей о сотрудниках
type PersonRepository interface {
	PersonLister
	Create(ctx context.Context, p *domain.Person) error
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	Update(ctx context.Context, p *domain.Person) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	IsSubordinate(ctx context.Context, managerID, candidateID string) (bool, error)
	GetSubordinateIDs(ctx context.Context, id string) ([]string, error)
	DeleteAndReassign(ctx context.Context, id string, newSupervisor *string) error
}

type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository создаёт новый экземпляр репозитория
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) Create(ctx context.Context, p *domain.Person) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicatePersonID
	}
	return err
}

func (r *personRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	var p domain.Person
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPersonNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List возвращает все записи в порядке создания - этот порядок задаёт порядок узлов в оргструктуре
func (r *personRepository) List(ctx context.Context) ([]domain.Person, error) {
	var persons []domain.Person
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&persons).Error
	return persons, err
}

func (r *personRepository) Update(ctx context.Context, p *domain.Person) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *personRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Person{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *personRepository) IsSubordinate(ctx context.Context, managerID, candidateID string) (bool, error) {
	subordinates, err := r.GetSubordinateIDs(ctx, managerID)
	if err != nil {
		return false, err
	}
	return slices.Contains(subordinates, candidateID), nil
}

func (r *personRepository) GetSubordinateIDs(ctx context.Context, id string) ([]string, error) {
	var result []string

	// UNION отбрасывает повторы, поэтому запрос завершается и на данных с циклом
	query := `
		WITH RECURSIVE subordinates AS (
			SELECT id FROM persons WHERE reporting_to = ?
			UNION
			SELECT p.id FROM persons p
			INNER JOIN subordinates s ON p.reporting_to = s.id
		)
		SELECT id FROM subordinates
	`

	rows, err := r.db.WithContext(ctx).Raw(query, id).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var subordinateID string
		if err := rows.Scan(&subordinateID); err != nil {
			return nil, err
		}
		result = append(result, subordinateID)
	}

	return result, rows.Err()
}

// DeleteAndReassign удаляет сотрудника, а его прямых подчинённых переводит к newSupervisor
func (r *personRepository) DeleteAndReassign(ctx context.Context, id string, newSupervisor *string) error {
	var supervisor any = gorm.Expr("NULL")
	if newSupervisor != nil {
		supervisor = *newSupervisor
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Person{}).
			Where("reporting_to = ?", id).
			Update("reporting_to", supervisor).Error
		if err != nil {
			return err
		}

		result := tx.Delete(&domain.Person{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrPersonNotFound
		}
		return nil
	})
}
