package agent

import (
	"ctf/experiments/metrics"
	"ctf/game"
	"ctf/searcher"
)

type searchAgent struct {
	ab *searcher.AlphaBeta
}

// NewSearchAgent returns an agent that plays the alpha-beta search's choice.
func NewSearchAgent(ab *searcher.AlphaBeta) Agent {
	if ab == nil {
		panic("Must specify a searcher")
	}
	return searchAgent{ab: ab}
}

func (a searchAgent) FindMove(state game.State, index int) (game.Action, metrics.SearchMetric) {
	if !canMove(state, index) {
		return game.Stop, metrics.SearchMetric{}
	}
	return a.ab.Search(state, index)
}

// canMove reports whether agent has a legal action other than Stop. The
// search only chooses between such actions.
func canMove(state game.State, agent int) bool {
	for _, action := range state.LegalActions(agent) {
		if action != game.Stop {
			return true
		}
	}
	return false
}
