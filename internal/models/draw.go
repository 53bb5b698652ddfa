package models

import "time"

// DrawInput holds the parameters of one draw request
type DrawInput struct {
	Gift          string
	Count         int
	Exclude       *Participant // removed from the pool before sampling
	LimitOverride *int         // replaces the gift limit before it is checked
}

// DrawResult is returned after a successful draw
type DrawResult struct {
	Result    []Winner `json:"result"`
	Remaining int      `json:"remaining"`
	Total     int      `json:"total"`
}

// Snapshot is a consistent read of the draw state
type Snapshot struct {
	Remaining  int            `json:"remaining"`
	Result     []Winner       `json:"result"` // most recent batch, newest first
	All        []Winner       `json:"all"`    // every winner, newest first
	Total      int            `json:"total"`
	GiftCounts map[string]int `json:"gift_counts"`
	Filename   string         `json:"filename,omitempty"`
}

// ImportResult summarizes a roster upload
type ImportResult struct {
	Filename   string `json:"filename"`
	TotalRows  int    `json:"total_rows"`
	Accepted   int    `json:"accepted"`
	Dropped    int    `json:"dropped"`
	Duplicates int    `json:"duplicates"`
	Remaining  int    `json:"remaining"`
}

// DrawLogEntry is one audit row written per drawn winner
type DrawLogEntry struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Filename  string    `bson:"filename" json:"filename"`
	Winner    Winner    `bson:"winner" json:"winner"`
}

// DeleteLogEntry is the audit row written when a winner is removed
type DeleteLogEntry struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Winner    Winner    `bson:"winner" json:"winner"`
}

// RedrawResult is returned after a winner is replaced by a fresh draw
type RedrawResult struct {
	Replaced  Winner `json:"replaced"`
	Winner    Winner `json:"winner"`
	Remaining int    `json:"remaining"`
	Total     int    `json:"total"`
}
