package model

import "time"

// PriceBar represents one trading day.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Origin tells whether a series came from an upstream or was generated.
type Origin string

const (
	OriginLive      Origin = "live"
	OriginSynthetic Origin = "synthetic"
)

// Attempt records one data source tried during a load cycle.
type Attempt struct {
	Source   string        `json:"source"`
	OK       bool          `json:"ok"`
	Status   int           `json:"status,omitempty"`
	Bars     int           `json:"bars"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Series is the accepted daily history for one instrument.
// Bars are sorted ascending by date with no duplicate dates.
type Series struct {
	Symbol    string     `json:"symbol"`
	Bars      []PriceBar `json:"bars"`
	Origin    Origin     `json:"origin"`
	Source    string     `json:"source"`
	FetchedAt time.Time  `json:"fetched_at"`
	Attempts  []Attempt  `json:"attempts,omitempty"`
}

// Len returns the number of bars.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Last returns the most recent bar. The series must not be empty.
func (s *Series) Last() PriceBar {
	return s.Bars[len(s.Bars)-1]
}

// Live reports whether the series came from a real upstream.
func (s *Series) Live() bool {
	return s != nil && s.Origin == OriginLive
}

// Anchor is a manually specified control point for synthetic history.
type Anchor struct {
	Date   time.Time `yaml:"date" json:"date"`
	Close  float64   `yaml:"close" json:"close"`
	Volume float64   `yaml:"volume" json:"volume"`
}
