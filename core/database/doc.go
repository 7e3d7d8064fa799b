// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local tooling
// and tests) connections from the application's configuration.
//
// # Connect
//
// Connect establishes and pings a pooled connection. GORM's own logging is
// silenced; the application logger owns all output.
//
// # Schema Inspection
//
// GetTableColumns retrieves the column definitions of a table for either
// dialect. The catalog feature uses it to verify that the options, values,
// and variants tables carry the columns the reconciliation engine writes
// before trusting a store.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "product_option_values")
package database
