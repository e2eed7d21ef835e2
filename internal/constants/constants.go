package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	CatalogAPITimeout  = 30 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 45 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	HeatmapWindowDays = 365
	SolvedListLimit   = 20
)

const (
	ClientIDHeader = "X-Client-ID"
)
