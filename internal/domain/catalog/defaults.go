package catalog

import (
	"math"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/pitch"
)

// Event predicates used by the default definitions.

func ofType(t model.ActionType) func(model.Event) bool {
	return func(e model.Event) bool { return e.Type == t }
}

func successful(t model.ActionType) func(model.Event) bool {
	return func(e model.Event) bool { return e.Type == t && e.Success }
}

func anyEvent(model.Event) bool { return true }

// Default builds the stock catalog: the volume and quality sub-metrics per
// playing phase, plus the composite pairs ranked by TOPSIS.
func Default(opts ...Option) (*Catalog, error) {
	finishing := pitch.ZonesIn(pitch.ThirdFinishing)
	buildup := pitch.ZonesIn(pitch.ThirdBuildup)
	// Deepest attacking band, the zone approximation of the box.
	box := []int{16, 17, 18}

	defs := []Definition{
		// Attacking
		Count("shots_total", ofType(model.ActionShot)),
		Count("shots_on_target", successful(model.ActionShot)),
		Count("goals_scored", func(e model.Event) bool { return e.Type == model.ActionShot && e.Goal }),
		Sum("xg_total", func(e model.Event) float64 { return e.XG }, ofType(model.ActionShot)),
		Ratio("xg_per_shot", "xg_total", "shots_total"),
		Ratio("shots_on_target_pct", "shots_on_target", "shots_total"),

		// Possession
		Count("passes_attempted", ofType(model.ActionPass)),
		Count("passes_completed", successful(model.ActionPass)),
		Ratio("passes_success_pct", "passes_completed", "passes_attempted"),

		// Chance creation
		EndZoneCount("passes_final_third_attempted", finishing, ofType(model.ActionPass)),
		EndZoneCount("passes_final_third_completed", finishing, successful(model.ActionPass)),
		Ratio("passes_final_third_success_pct", "passes_final_third_completed", "passes_final_third_attempted"),
		Count("crosses_attempted", ofType(model.ActionCross)),
		Count("crosses_completed", successful(model.ActionCross)),
		Ratio("crosses_success_pct", "crosses_completed", "crosses_attempted"),

		// Buildup
		ZoneCount("buildup_passes", buildup, ofType(model.ActionPass)),
		Count("carries_count", ofType(model.ActionCarry)),
		Sum("carry_progress_distance", carryProgress, ofType(model.ActionCarry)),
		Ratio("carries_avg_distance", "carry_progress_distance", "carries_count"),
		ZoneCount("box_touches", box, anyEvent),

		// Defending
		Count("tackles_attempted", ofType(model.ActionTackle)),
		Count("tackles_won", successful(model.ActionTackle)),
		Ratio("tackles_won_pct", "tackles_won", "tackles_attempted"),
		Count("duels_total", ofType(model.ActionDuel)),
		Count("duels_won", successful(model.ActionDuel)),
		Ratio("duels_won_pct", "duels_won", "duels_total"),
		Count("interceptions", ofType(model.ActionInterception)),
		Count("clearances", ofType(model.ActionClearance)),
		Count("ball_recoveries", ofType(model.ActionRecovery)),

		// Discipline
		Count("fouls_committed", ofType(model.ActionFoul)).Inverted(),

		// Goalkeeping
		Count("shots_faced", ofType(model.ActionSave)),
		Count("saves_made", successful(model.ActionSave)),
		Ratio("save_percentage", "saves_made", "shots_faced"),

		// Composite pairs ranked by TOPSIS
		Composite("finishing", "shots_total", "xg_per_shot"),
		Composite("shot_accuracy", "shots_total", "shots_on_target_pct"),
		Composite("passing", "passes_attempted", "passes_success_pct"),
		Composite("final_third_entries", "passes_final_third_attempted", "passes_final_third_success_pct"),
		Composite("crossing", "crosses_attempted", "crosses_success_pct"),
		Composite("ball_carrying", "carries_count", "carries_avg_distance"),
		Composite("tackling", "tackles_attempted", "tackles_won_pct"),
		Composite("dueling", "duels_total", "duels_won_pct"),
		Composite("shot_stopping", "shots_faced", "save_percentage"),
	}

	return New(defs, opts...)
}

// carryProgress measures forward progress of a carry in pitch units.
// Backward carries contribute nothing.
func carryProgress(e model.Event) float64 {
	return math.Max(0, e.EndX-e.X)
}
