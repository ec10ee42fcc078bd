// Package domain holds demo booking conversion rules.
package domain

// Lead statuses the conversion workflow writes.
const (
	StatusConverted = "converted"
)

// Conversion stages.
const (
	StageWon = "won"
)

// MaxTitleLength caps conversion task titles derived from lead data.
const MaxTitleLength = 200
