package dto

import (
	"time"
)

// CreatePersonRequest - запрос на создание сотрудника.
// Корневой сотрудник создаётся без reporting_to; пустая строка отклоняется.
type CreatePersonRequest struct {
	ID          *string `json:"id" validate:"omitempty,min=1,max=64"`
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Position    string  `json:"position" validate:"max=200"`
	Department  string  `json:"department" validate:"max=200"`
	Company     string  `json:"company" validate:"max=200"`
	Status      string  `json:"status" validate:"max=50"`
	ReportingTo *string `json:"reporting_to" validate:"omitempty,min=1,max=64"`
	JoinDate    *string `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdatePersonRequest - запрос на обновление сотрудника.
// Пустая строка в reporting_to снимает руководителя.
type UpdatePersonRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Position    *string `json:"position" validate:"omitempty,max=200"`
	Department  *string `json:"department" validate:"omitempty,max=200"`
	Company     *string `json:"company" validate:"omitempty,max=200"`
	Status      *string `json:"status" validate:"omitempty,max=50"`
	ReportingTo *string `json:"reporting_to" validate:"omitempty,max=64"`
	JoinDate    *string `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
}

// OrganogramQuery - параметры фильтрации оргструктуры
type OrganogramQuery struct {
	Department string `validate:"max=200"`
	Company    string `validate:"max=200"`
	Query      string `validate:"max=200"`
}

// PersonResponse - ответ с данными сотрудника
type PersonResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	Department  string    `json:"department"`
	Company     string    `json:"company"`
	Status      string    `json:"status"`
	ReportingTo *string   `json:"reporting_to"`
	JoinDate    *string   `json:"join_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NodeResponse - узел оргструктуры
type NodeResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Position     string         `json:"position"`
	Department   string         `json:"department"`
	Company      string         `json:"company"`
	Status       string         `json:"status"`
	JoinDate     *string        `json:"join_date,omitempty"`
	SupervisorID *string        `json:"supervisor_id"`
	Depth        int            `json:"depth"`
	Subordinates int            `json:"subordinates"`
	Children     []NodeResponse `json:"children,omitempty"`
}

// SkippedRecordResponse - запись, не попавшая в оргструктуру
type SkippedRecordResponse struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// DepartmentSummaryResponse - сводка по подразделению
type DepartmentSummaryResponse struct {
	Department string         `json:"department"`
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Positions  map[string]int `json:"positions"`
}

// OverviewResponse - общие показатели
type OverviewResponse struct {
	Employees   int `json:"employees"`
	Active      int `json:"active"`
	Departments int `json:"departments"`
	Positions   int `json:"positions"`
	Roots       int `json:"roots"`
}

// OrganogramResponse - ответ с оргструктурой
type OrganogramResponse struct {
	Total        int                         `json:"total"`
	Roots        []NodeResponse              `json:"roots"`
	Skipped      []SkippedRecordResponse     `json:"skipped,omitempty"`
	BrokenCycles []string                    `json:"broken_cycles,omitempty"`
	Overview     OverviewResponse            `json:"overview"`
	Departments  []DepartmentSummaryResponse `json:"departments"`
}

// NodeDetailsResponse - узел с цепочкой руководителей
type NodeDetailsResponse struct {
	Node NodeResponse `json:"node"`
	Path []string     `json:"path"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
