package model

type Portfolio struct {
	Holdings []Holding        `json:"investments"`
	Summary  ValuationSummary `json:"summary"`
}
