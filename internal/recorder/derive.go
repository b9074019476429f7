package recorder

import "github.com/courtside/matchpoint/internal/league"

// DeriveWinner tallies set wins per side and returns the winning team.
// A set counts for a side only when its games strictly exceed the other
// side's; drawn sets count for neither. When the tallies end level, side
// A takes the match.
func DeriveWinner(sets []league.SetScore) league.Side {
	var setsA, setsB int
	for _, set := range sets {
		switch {
		case set.TeamA > set.TeamB:
			setsA++
		case set.TeamB > set.TeamA:
			setsB++
		}
	}
	if setsB > setsA {
		return league.SideB
	}
	return league.SideA
}
