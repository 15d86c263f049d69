package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hr-organogram/internal/domain"
)

// personRecord - запись входного файла. Дата приходит в виде YYYY-MM-DD
type personRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Position    string  `json:"position"`
	Department  string  `json:"department"`
	Company     string  `json:"company"`
	Status      string  `json:"status"`
	ReportingTo *string `json:"reporting_to"`
	JoinDate    string  `json:"join_date"`
}

// fileRecords отдаёт записи файла в исходном порядке, включая повторы
type fileRecords []domain.Person

func (f fileRecords) List(context.Context) ([]domain.Person, error) {
	return f, nil
}

func loadPersons(stdin io.Reader, path string) ([]domain.Person, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []personRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	persons := make([]domain.Person, len(records))
	for i, r := range records {
		persons[i] = domain.Person{
			ID:          r.ID,
			Name:        r.Name,
			Position:    r.Position,
			Department:  r.Department,
			Company:     r.Company,
			Status:      domain.Status(r.Status),
			ReportingTo: r.ReportingTo,
		}
		if r.JoinDate != "" {
			joinDate, err := time.Parse(time.DateOnly, r.JoinDate)
			if err != nil {
				return nil, fmt.Errorf("record %d: invalid join_date %q: %w", i, r.JoinDate, err)
			}
			persons[i].JoinDate = &joinDate
		}
	}

	return persons, nil
}
