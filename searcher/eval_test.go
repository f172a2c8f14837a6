package searcher

import (
	"testing"

	"ctf/game"

	"github.com/stretchr/testify/require"
)

// Red (agents 0 and 2) owns columns 1-5, blue owns columns 6-10. Red's
// boundary is column 5 and blue food sits in columns 7 and 8.
const fieldLayout = `
%%%%%%%%%%%%
%1 ..  .. 2%
%          %
%3 ..  .. 4%
%%%%%%%%%%%%
`

var testRules = game.Rules{TimeLimit: 1000, ScaredTime: 40, SightRange: 5, MinFood: 0}

type placement struct {
	agents  []game.AgentState
	carried [][]game.Point
	score   int
}

// place builds a state on layout with every agent positioned explicitly.
func place(t *testing.T, layout string, p placement) *game.GameState {
	t.Helper()
	l, err := game.ParseLayout(layout)
	require.NoError(t, err)
	snap := game.NewGameState(l, testRules).Snapshot()
	snap.Agents = p.agents
	snap.Carried = p.carried
	snap.Score = p.score
	state, err := game.FromSnapshot(l, snap)
	require.NoError(t, err)
	return state
}

func at(x, y int) game.AgentState {
	return game.AgentState{Position: game.Point{X: x, Y: y}, Known: true}
}

func hidden() game.AgentState {
	return game.AgentState{}
}

func pacman(s game.AgentState) game.AgentState {
	s.IsPacman = true
	return s
}

func scared(s game.AgentState, timer int) game.AgentState {
	s.ScaredTimer = timer
	return s
}

func newTestEvaluator(state *game.GameState) *Evaluator {
	return NewEvaluator(state.Board(), DefaultWeights())
}

func TestAssignRole(t *testing.T) {
	t.Run("leading team defends", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{at(4, 2), hidden(), at(1, 1), hidden()},
			score:  1,
		})

		require.Equal(t, Defense, AssignRole(state, 0))
		require.Equal(t, Defense, AssignRole(state, 2))
	})

	t.Run("furthest forward attacks", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{at(1, 1), hidden(), at(4, 2), hidden()},
		})

		require.Equal(t, Defense, AssignRole(state, 0))
		require.Equal(t, Offense, AssignRole(state, 2))
	})

	t.Run("progress is measured towards the opponent", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{hidden(), at(8, 2), hidden(), at(6, 2)},
			score:  2, // blue is behind
		})

		require.Equal(t, Defense, AssignRole(state, 1))
		require.Equal(t, Offense, AssignRole(state, 3))
	})

	t.Run("ties go to the lower index", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{at(3, 2), hidden(), at(3, 1), hidden()},
		})

		for i := 0; i < 5; i++ {
			require.Equal(t, Offense, AssignRole(state, 0), "Lower index should always attack")
			require.Equal(t, Defense, AssignRole(state, 2), "Higher index should always defend")
		}
	})

	t.Run("unseen teammate leaves offense to us", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{at(1, 1), hidden(), hidden(), hidden()},
		})

		require.Equal(t, Offense, AssignRole(state, 0))
	})
}

func TestEvaluateOffense(t *testing.T) {
	t.Run("moving onto food improves the position", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{pacman(at(6, 3)), hidden(), at(1, 1), hidden()},
		})
		e := newTestEvaluator(state)

		east := e.Evaluate(state.Play(0, game.East), 0)
		west := e.Evaluate(state.Play(0, game.West), 0)

		// east eats (7,3): 3 food left, nearest 1 away
		require.Equal(t, -1*2.0-3*50.0, east)
		// west retreats to (5,3): 4 food left, nearest 2 away
		require.Equal(t, -2*2.0-4*50.0, west)
		require.Greater(t, east, west, "Closing on food should score higher")
	})

	t.Run("search heads for the food", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{pacman(at(6, 3)), hidden(), at(1, 1), hidden()},
		})
		e := newTestEvaluator(state)

		for _, depth := range []int{0, 1, 2} {
			ab := NewAlphaBeta(e.Evaluate, WithDepth(depth), WithSeed(1))
			move, _ := ab.ChooseMove(state, 0, depth)
			require.Equal(t, game.East, move, "Depth %d should step onto the food", depth)
		}
	})

	t.Run("adjacent defender is lethal", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{pacman(at(7, 2)), at(8, 2), at(1, 1), hidden()},
			score:  -3,
		})
		e := newTestEvaluator(state)

		require.Equal(t, Offense, AssignRole(state, 0))
		require.Equal(t, Loss, e.Evaluate(state, 0), "Capture must override every other term")
	})

	t.Run("scared defender is no threat", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{pacman(at(7, 2)), scared(at(8, 2), 5), at(1, 1), hidden()},
		})
		e := newTestEvaluator(state)

		require.Greater(t, e.Evaluate(state, 0), Loss)
	})

	t.Run("nearby defender repels", func(t *testing.T) {
		near := place(t, fieldLayout, placement{
			agents: []game.AgentState{pacman(at(7, 2)), at(9, 2), at(1, 1), hidden()},
		})
		far := place(t, fieldLayout, placement{
			agents: []game.AgentState{pacman(at(7, 2)), hidden(), at(1, 1), hidden()},
		})
		e := newTestEvaluator(near)

		// empty pockets, so being chased does not send the agent home
		require.InDelta(t, e.Evaluate(far, 0)-20000/2.1, e.Evaluate(near, 0), 1e-6)
	})

	t.Run("full pockets head home", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents:  []game.AgentState{pacman(at(8, 2)), hidden(), at(1, 1), hidden()},
			carried: [][]game.Point{{{X: 9, Y: 3}, {X: 9, Y: 2}, {X: 9, Y: 1}}, nil, nil, nil},
		})
		e := newTestEvaluator(state)

		require.Equal(t, 50000-3*500.0, e.Evaluate(state, 0), "Return bonus minus boundary distance")

		for _, depth := range []int{0, 2} {
			ab := NewAlphaBeta(e.Evaluate, WithDepth(depth), WithSeed(1))
			require.Equal(t, game.West, ab.FindNextMove(state, 0), "Depth %d should walk home rather than eat", depth)
		}
	})

	t.Run("last food triggers the return", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{pacman(at(7, 3)), hidden(), at(1, 1), hidden()},
		})
		state = state.Play(0, game.East).(*game.GameState) // eats (8,3)
		state = state.Play(0, game.South).(*game.GameState)
		state = state.Play(0, game.South).(*game.GameState) // eats (8,1)
		e := newTestEvaluator(state)

		require.Len(t, state.Food(0), 2)
		require.Equal(t, 50000-3*500.0, e.Evaluate(state, 0))
	})
}

func TestEvaluateDefense(t *testing.T) {
	t.Run("closer invader scores higher", func(t *testing.T) {
		e := newTestEvaluator(place(t, fieldLayout, placement{
			agents: []game.AgentState{at(2, 2), hidden(), at(4, 1), hidden()},
		}))

		var previous float64
		for d := 1; d <= 3; d++ {
			state := place(t, fieldLayout, placement{
				agents: []game.AgentState{at(2, 2), pacman(at(2+d, 2)), at(4, 1), hidden()},
			})
			require.Equal(t, Defense, AssignRole(state, 0))

			value := e.Evaluate(state, 0)
			require.Equal(t, -float64(d)*1000, value)
			if d > 1 {
				require.Less(t, value, previous, "Score should fall as the invader gets away")
			}
			previous = value
		}
	})

	t.Run("scared defender keeps its distance", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{scared(at(2, 2), 10), pacman(at(5, 2)), at(4, 1), hidden()},
		})
		e := newTestEvaluator(state)

		require.Equal(t, 3*1000.0, e.Evaluate(state, 0))
	})

	t.Run("quiet defender patrols the boundary", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{at(2, 2), hidden(), at(4, 1), hidden()},
		})
		e := newTestEvaluator(state)

		require.Equal(t, -3.0, e.Evaluate(state, 0))
	})

	t.Run("defender abroad is penalized", func(t *testing.T) {
		state := place(t, fieldLayout, placement{
			agents: []game.AgentState{pacman(at(7, 2)), hidden(), at(8, 1), hidden()},
			score:  1,
		})
		e := newTestEvaluator(state)

		// winning, so defending: 1 point, stray penalty, 2 steps from the boundary
		require.Equal(t, 100000-10000-2.0, e.Evaluate(state, 0))
	})
}

func TestEvaluateIsPure(t *testing.T) {
	state := place(t, fieldLayout, placement{
		agents:  []game.AgentState{pacman(at(7, 2)), at(9, 3), at(2, 1), pacman(at(4, 3))},
		carried: [][]game.Point{{{X: 8, Y: 2}}, nil, nil, nil},
	})
	e := newTestEvaluator(state)
	before := state.Snapshot()

	for agent := 0; agent < state.NumAgents(); agent++ {
		first := e.Evaluate(state, agent)
		second := e.Evaluate(state, agent)
		require.Equal(t, first, second, "Evaluation should be deterministic for agent %d", agent)
	}
	require.Equal(t, before, state.Snapshot(), "Evaluation should not modify the state")
}

func TestEvaluateUnknownSelf(t *testing.T) {
	state := place(t, fieldLayout, placement{
		agents: []game.AgentState{hidden(), hidden(), at(1, 1), hidden()},
	})
	e := newTestEvaluator(state)

	require.Equal(t, Loss, e.Evaluate(state, 0))
}
