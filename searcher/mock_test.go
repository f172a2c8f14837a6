package searcher

import (
	"hash/fnv"
	"strings"

	"ctf/game"
)

// mockState is an abstract game tree: every agent has the same branching
// factor and a position is identified by its move history.
type mockState struct {
	numAgents int
	branching int // first n of game.Actions
	absent    map[int]bool
	stuck     map[int]bool
	maxPlies  int // game over after this many moves, 0 for never
	history   []string
}

func newMockState(numAgents, branching int) mockState {
	return mockState{numAgents: numAgents, branching: branching}
}

func (m mockState) NumAgents() int { return m.numAgents }

func (m mockState) LegalActions(agent int) []game.Action {
	if m.absent[agent] || m.stuck[agent] {
		return nil
	}
	return append([]game.Action(nil), game.Actions[:m.branching]...)
}

func (m mockState) Play(agent int, action game.Action) game.State {
	next := m
	next.history = append(append([]string(nil), m.history...), string(rune('0'+agent))+":"+string(action))
	return next
}

func (m mockState) IsOver() bool {
	return m.maxPlies > 0 && len(m.history) >= m.maxPlies
}

func (m mockState) Agent(agent int) game.AgentState {
	return game.AgentState{Known: !m.absent[agent]}
}

func (m mockState) Score() int                  { return 0 }
func (m mockState) Food(agent int) []game.Point { return nil }
func (m mockState) TimeLeft() int               { return 0 }
func (m mockState) Board() game.Board           { return nil }
func (m mockState) IsRed(agent int) bool        { return agent%2 == 0 }

func (m mockState) Teammates(agent int) []int {
	var mates []int
	for i := 0; i < m.numAgents; i++ {
		if i != agent && i%2 == agent%2 {
			mates = append(mates, i)
		}
	}
	return mates
}

func (m mockState) Opponents(agent int) []int {
	var opponents []int
	for i := 0; i < m.numAgents; i++ {
		if i%2 != agent%2 {
			opponents = append(opponents, i)
		}
	}
	return opponents
}

func (m mockState) key() string {
	return strings.Join(m.history, " ")
}

// hashEvaluate assigns every history a pseudo-random value in [-1000, 1000],
// salted so different seeds give different trees.
func hashEvaluate(salt string) Evaluate {
	return func(state game.State, agent int) float64 {
		h := fnv.New64a()
		h.Write([]byte(salt))
		h.Write([]byte(state.(mockState).key()))
		return float64(h.Sum64()%2001) - 1000
	}
}

// tableEvaluate looks leaf values up by history, defaulting to 0.
func tableEvaluate(values map[string]float64) Evaluate {
	return func(state game.State, agent int) float64 {
		return values[state.(mockState).key()]
	}
}
