package agent

import (
	"ctf/experiments/metrics"
	"ctf/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent that picks uniformly among its
// legal moves other than Stop.
func NewRandomAgent(rng *rand.Rand) Agent {
	if rng == nil {
		panic("Must specify a random source")
	}
	return &randomAgent{rng: rng}
}

func (a *randomAgent) FindMove(state game.State, index int) (game.Action, metrics.SearchMetric) {
	var moves []game.Action
	for _, action := range state.LegalActions(index) {
		if action != game.Stop {
			moves = append(moves, action)
		}
	}
	if len(moves) == 0 {
		return game.Stop, metrics.SearchMetric{}
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}
}
