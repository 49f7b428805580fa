// Package model contains domain models passed between layers.
package model

// ActionType identifies the kind of on-pitch action an event records.
type ActionType string

// Action types recognized by the metric catalog.
const (
	ActionPass         ActionType = "pass"
	ActionShot         ActionType = "shot"
	ActionCarry        ActionType = "carry"
	ActionCross        ActionType = "cross"
	ActionTackle       ActionType = "tackle"
	ActionDuel         ActionType = "duel"
	ActionInterception ActionType = "interception"
	ActionClearance    ActionType = "clearance"
	ActionRecovery     ActionType = "recovery"
	ActionFoul         ActionType = "foul"
	ActionSave         ActionType = "save"
)

// EntityID identifies a team under a specific manager. Two events belong to
// the same entity iff both identifiers match; a mid-season manager change
// yields a second, distinct entity that is never merged with the first.
type EntityID struct {
	TeamID    string `json:"team_id"`
	ManagerID string `json:"manager_id"`
}

// String renders the composite key as team/manager.
func (e EntityID) String() string { return e.TeamID + "/" + e.ManagerID }

// Less orders entities by team id, then manager id. Used as the stable
// tie-break when scores are equal.
func (e EntityID) Less(other EntityID) bool {
	if e.TeamID != other.TeamID {
		return e.TeamID < other.TeamID
	}
	return e.ManagerID < other.ManagerID
}

// Event represents one on-pitch action. Immutable once ingested; the zone
// fields are annotated by the classifier before aggregation.
type Event struct {
	EventID   string     `json:"event_id"`
	MatchID   string     `json:"match_id"`
	Minute    float64    `json:"minute"`
	TeamID    string     `json:"team_id"`
	ManagerID string     `json:"manager_id"`
	PlayerID  string     `json:"player_id"`
	Type      ActionType `json:"type"`
	Success   bool       `json:"success"`
	Goal      bool       `json:"goal,omitempty"`

	// Pitch coordinates on the 120x80 grid. End coordinates apply to
	// actions with a destination (passes, crosses, carries).
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	EndX float64 `json:"end_x,omitempty"`
	EndY float64 `json:"end_y,omitempty"`

	// XG carries the expected-goals value for shot events.
	XG float64 `json:"xg,omitempty"`

	// Zone annotations, filled in by classification.
	Zone    int `json:"-"`
	EndZone int `json:"-"`
}

// Entity returns the team-manager entity the event belongs to.
func (e Event) Entity() EntityID {
	return EntityID{TeamID: e.TeamID, ManagerID: e.ManagerID}
}

// Appearance records the minutes an entity played in one match. Minutes come
// from lineup data, never from the event stream.
type Appearance struct {
	MatchID   string  `json:"match_id"`
	TeamID    string  `json:"team_id"`
	ManagerID string  `json:"manager_id"`
	Minutes   float64 `json:"minutes"`
}

// Entity returns the team-manager entity the appearance belongs to.
func (a Appearance) Entity() EntityID {
	return EntityID{TeamID: a.TeamID, ManagerID: a.ManagerID}
}

// MatchBatch bundles the events and appearances of one match for ingestion.
// BatchID is the idempotency key.
type MatchBatch struct {
	BatchID     string       `json:"batch_id"`
	MatchID     string       `json:"match_id"`
	Events      []Event      `json:"events"`
	Appearances []Appearance `json:"appearances"`
}
