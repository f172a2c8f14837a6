package game

// Point is a grid cell. X grows eastwards and Y grows northwards from the
// bottom-left corner of the layout.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Move returns the cell reached by taking action from p.
func (p Point) Move(action Action) Point {
	dx, dy := action.Vector()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan returns the grid (not maze) distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// AgentState is the per-agent view into a State needed by an evaluator.
type AgentState struct {
	Position    Point `json:"position"`
	Known       bool  `json:"known"`     // false when the position is hidden or the agent is off the board
	IsPacman    bool  `json:"is_pacman"` // true while on the opponent's side
	Carrying    int   `json:"carrying"`
	ScaredTimer int   `json:"scared_timer"`
}

// Board is the static topology of a game: dimensions, walls and maze
// distances. It never changes during a game.
type Board interface {
	Width() int
	Height() int
	IsWall(x, y int) bool
	// Distance is the shortest-path distance over open cells, +Inf if b is
	// unreachable from a.
	Distance(a, b Point) float64
}

// State should be immutable - operations on State always return a new copy
type State interface {
	NumAgents() int
	LegalActions(agent int) []Action
	Play(agent int, action Action) State
	IsOver() bool
	Agent(agent int) AgentState
	// Score is the score differential oriented to the red team: positive
	// when red leads.
	Score() int
	// Food lists the collectibles the agent's team still has to gather.
	Food(agent int) []Point
	TimeLeft() int
	Board() Board
	IsRed(agent int) bool
	Teammates(agent int) []int
	Opponents(agent int) []int
}

// Team identifies one side of the map.
type Team int

const (
	NoTeam Team = iota
	Red
	Blue
)

func (t Team) String() string {
	switch t {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return ""
	}
}

// TeamOf returns the team of agent. Teams interleave: even indices play red.
func TeamOf(agent int) Team {
	if agent%2 == 0 {
		return Red
	}
	return Blue
}
