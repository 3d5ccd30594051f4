package repository

import (
	"fmt"

	domrepo "FinSight/internal/domain/repository"
)

// SchemaStatements returns idempotent DDL for every table the stores use.
func SchemaStatements(database string) []string {
	stmts := []string{fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database)}
	for _, tf := range []domrepo.Timeframe{domrepo.TF1m, domrepo.TF1h, domrepo.TF1d} {
		stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    symbol LowCardinality(String),
    ts     DateTime64(3, 'UTC'),
    open   Float64,
    high   Float64,
    low    Float64,
    close  Float64,
    volume Int64
) ENGINE = ReplacingMergeTree
ORDER BY (symbol, ts)`, barTable(database, tf)))
	}
	stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.news (
    id           String,
    title        String,
    summary      String,
    source       LowCardinality(String),
    published_at DateTime64(3, 'UTC'),
    sentiment    Nullable(Float64),
    symbols      Array(String)
) ENGINE = ReplacingMergeTree
ORDER BY (published_at, id)`, database))
	return stmts
}

// barTable maps a timeframe to its table. Unknown timeframes use daily bars.
func barTable(database string, tf domrepo.Timeframe) string {
	switch tf {
	case domrepo.TF1m:
		return database + ".bars_1m"
	case domrepo.TF1h:
		return database + ".bars_1h"
	default:
		return database + ".bars_1d"
	}
}
