package models

import (
	"fmt"
	"log"
	"os"
	"sort"

	zlog "github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// QueryOutPath is where GenerateModels writes the typed query helpers.
const QueryOutPath = "./query"

// TableReport lists the columns of one table that no model field maps to.
type TableReport struct {
	Table    string   `json:"table"`
	Missing  bool     `json:"missing"`
	Unmapped []string `json:"unmapped"`
}

// ColumnReport compares the live schema with the models. Columns left behind
// by renamed or dropped fields show up as unmapped.
type ColumnReport struct {
	Tables   []TableReport `json:"tables"`
	Unmapped int           `json:"unmapped"`
}

// GenerateModels migrates the schema verbosely, logs the column report and
// writes gorm/gen query helpers for every model to QueryOutPath.
func GenerateModels(db *gorm.DB) error {
	verbose := db.Session(&gorm.Session{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			LogLevel: logger.Info,
			Colorful: true,
		}),
		SkipDefaultTransaction: true,
	})

	zlog.Info().Msg("migrating models")
	if err := verbose.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}

	if err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           QueryOutPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	zlog.Info().Str("outPath", QueryOutPath).Msg("query helpers generated")
	return nil
}

// GenerateColumnMismatchReport builds the column report and logs it.
func GenerateColumnMismatchReport(db *gorm.DB) error {
	report, err := BuildColumnReport(db)
	if err != nil {
		return err
	}

	for _, table := range report.Tables {
		switch {
		case table.Missing:
			zlog.Info().Str("table", table.Table).Msg("table does not exist yet")
		case len(table.Unmapped) > 0:
			zlog.Warn().Str("table", table.Table).Strs("columns", table.Unmapped).Msg("columns not mapped by the model")
		default:
			zlog.Info().Str("table", table.Table).Msg("all columns mapped")
		}
	}
	zlog.Info().Int("unmapped", report.Unmapped).Msg("column report complete")
	return nil
}

// BuildColumnReport reads the columns of every model table through the
// migrator, which works the same on postgres and sqlite.
func BuildColumnReport(db *gorm.DB) (*ColumnReport, error) {
	migrator := db.Migrator()
	report := &ColumnReport{}

	for _, table := range TableNames() {
		entry := TableReport{Table: table}
		if !migrator.HasTable(table) {
			entry.Missing = true
			report.Tables = append(report.Tables, entry)
			continue
		}

		columnTypes, err := migrator.ColumnTypes(table)
		if err != nil {
			return nil, fmt.Errorf("read columns of %s: %w", table, err)
		}
		columns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			columns = append(columns, ct.Name())
		}

		mapped, err := modelColumns(db, tableModels[table])
		if err != nil {
			return nil, err
		}

		entry.Unmapped = unmappedColumns(columns, mapped)
		report.Unmapped += len(entry.Unmapped)
		report.Tables = append(report.Tables, entry)
	}
	return report, nil
}

// modelColumns returns the column names gorm maps for model. Relations own
// no column and are not listed.
func modelColumns(db *gorm.DB, model interface{}) ([]string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("parse model %T: %w", model, err)
	}
	return stmt.Schema.DBNames, nil
}

func unmappedColumns(columns, mapped []string) []string {
	known := make(map[string]bool, len(mapped))
	for _, name := range mapped {
		known[name] = true
	}

	var unmapped []string
	for _, col := range columns {
		if !known[col] {
			unmapped = append(unmapped, col)
		}
	}
	sort.Strings(unmapped)
	return unmapped
}
