package model

import "time"

// Report is everything exported into a user's spreadsheet.
type Report struct {
	Portfolio   Portfolio
	History     []HistoryPoint
	Period      Period
	GeneratedAt time.Time
}
