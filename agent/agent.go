package agent

import (
	"ctf/experiments/metrics"
	"ctf/game"
)

type Agent interface {
	// FindMove returns the action for agent index in state, and performance metrics (if collected) from the search
	FindMove(state game.State, index int) (game.Action, metrics.SearchMetric)
}
