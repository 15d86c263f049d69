package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hr-organogram/internal/metrics"
	"github.com/hr-organogram/internal/organogram"
	"github.com/hr-organogram/internal/service"
)

// options - общие флаги всех подкоманд
type options struct {
	file       string
	department string
	company    string
	query      string
	verbose    bool
}

func (o *options) criteria() organogram.Criteria {
	return organogram.Criteria{
		Department: o.department,
		Company:    o.company,
		Query:      o.query,
	}
}

// service читает файл и поднимает сервис оргструктуры над его записями без изменений,
// чтобы повторы и пустые id дошли до построителя и попали в отчёт о пропусках
func (o *options) service(cmd *cobra.Command) (service.OrganogramService, error) {
	persons, err := loadPersons(cmd.InOrStdin(), o.file)
	if err != nil {
		return nil, err
	}

	level := slog.LevelError
	if o.verbose {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return service.NewOrganogramService(fileRecords(persons), metrics.New(), logger), nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "orgchart",
		Short:        "Build and inspect reporting hierarchies from a JSON file of persons",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", "", "JSON array of persons, \"-\" reads stdin (required)")
	flags.StringVar(&opts.department, "department", "", "Keep only persons of this department")
	flags.StringVar(&opts.company, "company", "", "Keep only persons of this company")
	flags.StringVarP(&opts.query, "query", "q", "", "Case-insensitive search in name, id and position")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log skipped records and broken cycles to stderr")
	_ = cmd.MarkPersistentFlagRequired("file")

	cmd.AddCommand(newTreeCmd(opts))
	cmd.AddCommand(newSummaryCmd(opts))
	cmd.AddCommand(newNodeCmd(opts))
	return cmd
}
