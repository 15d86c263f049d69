package domain

import (
	"strings"
	"time"
)

// Status - статус сотрудника. Набор значений открытый, используется только для отображения и агрегации
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusOnLeave  Status = "On Leave"
	StatusResigned Status = "Resigned"
)

// IsActive сообщает, считается ли сотрудник активным
func (s Status) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(StatusActive))
}

// Person представляет сотрудника (позицию) в оргструктуре
type Person struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(64)" validate:"required,max=64"`
	Name        string     `json:"name" gorm:"type:varchar(200);not null" validate:"required"`
	Position    string     `json:"position" gorm:"type:varchar(200)"`
	Department  string     `json:"department" gorm:"type:varchar(200);index"`
	Company     string     `json:"company" gorm:"type:varchar(200);index"`
	Status      Status     `json:"status" gorm:"type:varchar(50)"`
	ReportingTo *string    `json:"reporting_to,omitempty" gorm:"type:varchar(64);index"`
	JoinDate    *time.Time `json:"join_date,omitempty" gorm:"type:date"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Person) TableName() string {
	return "persons"
}

// SupervisorID возвращает id руководителя или пустую строку
func (p *Person) SupervisorID() string {
	if p.ReportingTo == nil {
		return ""
	}
	return *p.ReportingTo
}

// HierarchyNode - узел оргструктуры, построенный из Person.
// Узлы принадлежат построившему их вызову и не ссылаются на исходные записи.
type HierarchyNode struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Position     string           `json:"position"`
	Department   string           `json:"department"`
	Company      string           `json:"company"`
	Status       Status           `json:"status"`
	JoinDate     *time.Time       `json:"join_date,omitempty"`
	SupervisorID string           `json:"supervisor_id,omitempty"`
	Depth        int              `json:"depth"`
	Subordinates int              `json:"subordinates"`
	Children     []*HierarchyNode `json:"children,omitempty"`
}

// SkippedRecord - запись, исключённая из дерева как некорректная
type SkippedRecord struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// DepartmentSummary - сводка по подразделению
type DepartmentSummary struct {
	Department string         `json:"department"`
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Positions  map[string]int `json:"positions"`
}

// Overview - общие показатели по отфильтрованному набору
type Overview struct {
	Employees   int `json:"employees"`
	Active      int `json:"active"`
	Departments int `json:"departments"`
	Positions   int `json:"positions"`
	Roots       int `json:"roots"`
}
