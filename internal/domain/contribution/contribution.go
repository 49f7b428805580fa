// Package contribution apportions entity metric totals across the players
// who produced them.
package contribution

import (
	"fmt"
	"sort"
)

// Color scale endpoints for rendering shares, grey for low, red for high.
const (
	colorLow  = 0x808080
	colorHigh = 0xFF0000
)

// Share is one player's slice of an entity total.
type Share struct {
	PlayerID string
	Share    float64
}

// Shares computes each player's fraction of the entity total. Shares for a
// nonzero total sum to 1.0 within floating-point tolerance. A zero entity
// total returns an empty map: a defined condition, not an error, and
// distinct from "zero contribution" for rendering purposes.
func Shares(entityTotal float64, playerTotals map[string]float64) map[string]float64 {
	if entityTotal == 0 {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(playerTotals))
	for playerID, v := range playerTotals {
		out[playerID] = v / entityTotal
	}
	return out
}

// Ranked returns shares ordered by share descending, ties broken by player
// identifier for stable output.
func Ranked(shares map[string]float64) []Share {
	out := make([]Share, 0, len(shares))
	for playerID, s := range shares {
		out = append(out, Share{PlayerID: playerID, Share: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Share != out[j].Share {
			return out[i].Share > out[j].Share
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// Color maps a share onto the grey-to-red scale, interpolating between the
// lowest and highest share in the displayed set.
func Color(share, lowest, highest float64) string {
	t := 0.0
	if highest > lowest {
		t = (share - lowest) / (highest - lowest)
	}
	r := lerp(colorLow>>16&0xFF, colorHigh>>16&0xFF, t)
	g := lerp(colorLow>>8&0xFF, colorHigh>>8&0xFF, t)
	b := lerp(colorLow&0xFF, colorHigh&0xFF, t)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func lerp(a, b int, t float64) int {
	return a + int(t*float64(b-a))
}
