package searcher

// turn is the position of a search node in the agent rotation: the agent
// whose move produced the node, the remaining depth budget, and whether the
// next agent to move chooses for the deciding agent's side.
type turn struct {
	agent      int
	depth      int
	maximizing bool
}

// advance hands the move to the next agent in rotation. A full rotation back
// to self costs one unit of depth. ok is false once the budget would go
// negative.
func (t turn) advance(numAgents, self int) (next turn, ok bool) {
	nextAgent := (t.agent + 1) % numAgents
	depth := t.depth
	if nextAgent == self {
		depth--
	}
	if depth < 0 {
		return turn{}, false
	}
	return turn{agent: nextAgent, depth: depth, maximizing: t.maximizing}, true
}
