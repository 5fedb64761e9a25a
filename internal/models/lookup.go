package models

import "time"

// Lookup is a named reference row: a department or a ticket category.
type Lookup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SeverityLevel is the display metadata for a severity (color, ordering).
type SeverityLevel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Level       int       `json:"value"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ReportRow struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Summary struct {
	Open             int `json:"open"`
	Resolved7d       int `json:"resolved7d"`
	HighCriticalOpen int `json:"highCriticalOpen"`
}
