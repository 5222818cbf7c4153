package projects

import "time"

// Package tiers offered to clients.
const (
	PackageFree     = "Free"
	PackageSilver   = "Silver"
	PackageGold     = "Gold"
	PackagePlatinum = "Platinum"
)

// Project is a delivery project for one wedding: a named photo set owned by
// an admin, unlocked by clients via PIN.
type Project struct {
	ID      string
	Name    string
	Contact string
	Package string

	// EventDate is the wedding date the delivery countdown runs against.
	EventDate time.Time

	// Countdown snapshot taken at creation time (months/days/hours/minutes
	// until editing is expected to finish).
	CountdownMonths  int
	CountdownDays    int
	CountdownHours   int
	CountdownMinutes int

	CreatedAt time.Time
}

// NaturalKey identifies a project for idempotent upserts: repeated upload
// batches for the same wedding resolve to the same project row.
type NaturalKey struct {
	Name    string
	Contact string
	Package string
}
