package experiments

import "ctf/experiments/metrics"

// baseline is the uniform random agent every strength experiment is measured
// against.
var baseline = metrics.AgentConfig{ID: 0, Kind: KindRandom}

// DepthMatchUps pairs an alpha-beta agent at each depth against the random
// baseline.
func DepthMatchUps(depths []int) []MatchUp {
	matchUps := make([]MatchUp, 0, len(depths))
	for i, depth := range depths {
		config := metrics.AgentConfig{ID: i + 1, Kind: KindAlphaBeta, Depth: depth, Pruning: true}
		matchUps = append(matchUps, MatchUp{baseline, config})
	}
	return matchUps
}

// PruningMatchUps pairs the pruned and the exhaustive search at each depth.
// Pruning never changes a search's choice, so the pair only differs in nodes
// visited and time spent per move.
func PruningMatchUps(depths []int) []MatchUp {
	matchUps := make([]MatchUp, 0, len(depths))
	for i, depth := range depths {
		pruned := metrics.AgentConfig{ID: 2*i + 1, Kind: KindAlphaBeta, Depth: depth, Pruning: true}
		exhaustive := metrics.AgentConfig{ID: 2*i + 2, Kind: KindAlphaBeta, Depth: depth}
		matchUps = append(matchUps, MatchUp{pruned, exhaustive})
	}
	return matchUps
}
