package game

// Action is a single step an agent can take on its turn.
type Action string

const (
	North Action = "North"
	South Action = "South"
	East  Action = "East"
	West  Action = "West"
	Stop  Action = "Stop"
)

// Actions lists every action in the order legal moves are generated.
var Actions = []Action{North, South, East, West, Stop}

// Vector returns the grid displacement of the action.
func (a Action) Vector() (dx, dy int) {
	switch a {
	case North:
		return 0, 1
	case South:
		return 0, -1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Reverse returns the action undoing a.
func (a Action) Reverse() Action {
	switch a {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return Stop
	}
}

func (a Action) IsValid() bool {
	switch a {
	case North, South, East, West, Stop:
		return true
	}
	return false
}
