// Package database opens the MySQL pool every repository runs on.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool sizing: request handlers hold at most one connection each and
// the membership sync keeps a transaction open across two statements,
// so a modest pool is plenty; idle connections are recycled before
// typical LB idle timeouts cut them server-side.
const (
	maxOpenConns    = 20
	maxIdleConns    = 10
	connMaxLifetime = 15 * time.Minute
	connMaxIdleTime = 5 * time.Minute
)

// Open builds the DSN, opens the pool and verifies connectivity with
// a bounded ping so a wrong host fails startup fast instead of on the
// first request. parseTime maps DATETIME columns onto time.Time and
// everything is stored and compared in UTC.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	cred := url.QueryEscape(user)
	if pass != "" {
		cred += ":" + url.QueryEscape(pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cred, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}
