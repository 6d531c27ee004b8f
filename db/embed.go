// Package db provides the embedded catalog mirror schema.
package db

import _ "embed"

// Schema contains the DDL statements of the catalog mirror.
//
//go:embed migrations/001_schema.sql
var Schema string
