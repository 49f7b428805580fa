package model

// MetricValue is one metric of one entity over an aggregation window.
// P90 is zero-valued and meaningless when PerNinety is false.
type MetricValue struct {
	Name      string  `json:"name"`
	Raw       float64 `json:"raw"`
	P90       float64 `json:"p90,omitempty"`
	PerNinety bool    `json:"per_ninety"`
}

// RankedEntity is one row of a ranking, ordered best-first.
type RankedEntity struct {
	Rank   int      `json:"rank"`
	Entity EntityID `json:"entity"`
	Score  float64  `json:"score"`
}

// PlayerShare is one player's fractional responsibility for an entity
// metric total, with a display color precomputed for rendering layers.
type PlayerShare struct {
	PlayerID string  `json:"player_id"`
	Share    float64 `json:"share"`
	Color    string  `json:"color"`
}
