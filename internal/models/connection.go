package models

import (
	"time"
)

// ConnectionConfig represents a PostgreSQL connection configuration
type ConnectionConfig struct {
	DSN            string        `yaml:"dsn"`
	MaxConns       int32         `yaml:"max_conns"`
	QueryTimeout   time.Duration `yaml:"query_timeout"`
	ApplicationTag string        `yaml:"application_tag"`
}

// QueryResult holds one page of rows returned by a query executor
type QueryResult struct {
	Columns   []string
	Rows      []Row
	TotalRows int64
	Duration  time.Duration
	Error     error
}
