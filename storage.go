package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Storage keeps executed-benchmark records in a libsql database. Recording is
// optional: the harness runs fine without any database configured.
type Storage struct {
	db *sql.DB
}

var _ Recorder = (*Storage)(nil)

func NewStorage(dbName string, orgName string, authToken string) (*Storage, error) {
	url := fmt.Sprintf("libsql://%v-%v.turso.io?authToken=%v", dbName, orgName, authToken)
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open results db %v: %w", dbName, err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) InitRun(info SysInfo) error {
	_, err := s.db.Exec("CREATE TABLE IF NOT EXISTS parameters (name TEXT PRIMARY KEY, value)")
	if err != nil {
		return err
	}
	_, err = s.db.Exec("INSERT INTO parameters VALUES (?, ?), (?, ?), (?, ?), (?, ?), (?, ?), (?, ?), (?, ?), (?, ?) ON CONFLICT DO NOTHING",
		"time", time.Now().Format("2006-01-02 15:04:05"),
		"integration", IntegrationName,
		"version", IntegrationVersion,
		"arch", info.Arch,
		"hostname", info.Hostname,
		"platform", info.Platform,
		"ram", info.RAM,
		"cpu", info.CPUCount,
	)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS executions (
        time TEXT,
        benchmark TEXT,
        uri TEXT,
        mode TEXT,
        duration REAL
    )`)
	if err != nil {
		return err
	}
	Logger.Infof("results database initialized")
	return nil
}

func (s *Storage) RecordExecution(record ExecutionRecord) error {
	_, err := s.db.Exec("INSERT INTO executions VALUES (?, ?, ?, ?, ?)",
		time.Now().Format("2006-01-02 15:04:05"),
		record.Name,
		record.Uri,
		record.Mode,
		record.Duration.Seconds(),
	)
	return err
}
