package db

import (
	"database/sql"
	"time"
)

type Goal struct {
	ID          string
	Title       string
	Type        string
	Target      int64
	Current     int64
	Deadline    sql.NullTime
	Description string
	Status      string
	Progress    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Theme struct {
	ID          string
	Name        string
	Description string
	Colors      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
