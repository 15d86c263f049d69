package domain

import "go.uber.org/multierr"

// Forest - результат построения оргструктуры
type Forest struct {
	Roots []*HierarchyNode `json:"roots"`
	// Skipped - некорректные записи, не попавшие в дерево
	Skipped []SkippedRecord `json:"skipped,omitempty"`
	// BrokenCycles - id сотрудников, поднятых в корень для разрыва цикла подчинения
	BrokenCycles []string `json:"broken_cycles,omitempty"`
}

// Err объединяет ошибки всех пропущенных записей, nil если пропусков не было
func (f *Forest) Err() error {
	var err error
	for _, s := range f.Skipped {
		err = multierr.Append(err, s.Err)
	}
	return err
}
