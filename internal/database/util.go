package database

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// DropAllTables drops every table of the current schema. Used by the clean-db tool.
func DropAllTables(db *DBinstanceStruct) error {
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}

	cascade := " CASCADE"
	if db.Config.Driver == DriverSQLite {
		cascade = ""
		if err := db.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
			return err
		}
		defer db.Exec("PRAGMA foreign_keys = ON")
	}

	for _, table := range tables {
		if strings.HasPrefix(table, "sqlite_") {
			continue
		}
		if err := db.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(table) + cascade).Error; err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}
