package searcher

import (
	"math"

	"ctf/game"
)

// Loss is the utility of a position that is lost for the deciding agent:
// captured, or about to be. It is finite so it stays comparable, and it is
// only ever returned, never added to.
const Loss = -math.MaxFloat64

type Searcher interface {
	FindNextMove(state game.State, agent int) game.Action
}

// Evaluate scores a position from the perspective of agent. Implementations
// must be pure.
type Evaluate func(state game.State, agent int) float64

// isTeammate reports whether a and b play for the same team. An agent is its
// own teammate.
func isTeammate(state game.State, a, b int) bool {
	return state.IsRed(a) == state.IsRed(b)
}
