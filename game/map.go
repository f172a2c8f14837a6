package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultLayout is a small four-agent capture map. Agents 1 and 3 (indices 0
// and 2) start on the red (west) side.
const DefaultLayout = `
%%%%%%%%%%%%%%%%%%%%
%1.  %   .  . %  o %
%3%%.%  %%% %  % %.%
%.  .  %    %  .  .%
%.% %  % %%%  %.%%4%
% o  % .  .   %  .2%
%%%%%%%%%%%%%%%%%%%%
`

// MaxCells bounds the area of a layout. The distance table grows with the
// square of the area.
const MaxCells = 2500

var ErrLayoutTooLarge = errors.New("layout too large")

// Layout is the static map of a game: walls, initial food, capsules and agent
// spawn points. Maze distances between all open cells are computed once at
// parse time.
type Layout struct {
	width    int
	height   int
	walls    []bool
	food     []Point
	capsules []Point
	starts   []Point
	dist     []float64 // cells x cells, indexed by cell id
}

// ParseLayout reads a layout in the textual capture format:
//
//	'%' wall, '.' food, 'o' capsule, '1'..'9' agent spawn, ' ' open floor.
//
// The first line is the top of the map. Blank lines around the map are
// ignored.
func ParseLayout(text string) (*Layout, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 3 {
		return nil, fmt.Errorf("layout needs at least 3 rows, got %d", len(lines))
	}

	width := len(lines[0])
	height := len(lines)
	if width < 3 {
		return nil, fmt.Errorf("layout needs at least 3 columns, got %d", width)
	}
	if width*height > MaxCells {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrLayoutTooLarge, width, height, MaxCells)
	}

	l := &Layout{
		width:  width,
		height: height,
		walls:  make([]bool, width*height),
	}

	spawns := map[int]Point{}
	for row, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("row %d has width %d, expected %d", row, len(line), width)
		}
		y := height - 1 - row
		for x, c := range line {
			p := Point{X: x, Y: y}
			switch {
			case c == '%':
				l.walls[l.cell(p)] = true
			case c == '.':
				l.food = append(l.food, p)
			case c == 'o':
				l.capsules = append(l.capsules, p)
			case c >= '1' && c <= '9':
				index := int(c - '1')
				if _, dup := spawns[index]; dup {
					return nil, fmt.Errorf("agent %c spawns twice", c)
				}
				spawns[index] = p
			case c == ' ':
			default:
				return nil, fmt.Errorf("unexpected character %q at row %d column %d", c, row, x)
			}
		}
	}

	for x := 0; x < width; x++ {
		if !l.IsWall(x, 0) || !l.IsWall(x, height-1) {
			return nil, fmt.Errorf("layout border is open at column %d", x)
		}
	}
	for y := 0; y < height; y++ {
		if !l.IsWall(0, y) || !l.IsWall(width-1, y) {
			return nil, fmt.Errorf("layout border is open at row %d", height-1-y)
		}
	}

	if len(spawns) < 2 || len(spawns)%2 != 0 {
		return nil, fmt.Errorf("layout needs an even number of agents (at least 2), got %d", len(spawns))
	}
	l.starts = make([]Point, len(spawns))
	for i := range l.starts {
		p, ok := spawns[i]
		if !ok {
			return nil, fmt.Errorf("agent %d has no spawn point", i+1)
		}
		l.starts[i] = p
	}

	l.computeDistances()
	return l, nil
}

// MustParseLayout is like ParseLayout but panics on error. Intended for
// layouts compiled into the binary.
func MustParseLayout(text string) *Layout {
	l, err := ParseLayout(text)
	if err != nil {
		panic(fmt.Sprintf("invalid layout: %v", err))
	}
	return l
}

func (l *Layout) Width() int  { return l.width }
func (l *Layout) Height() int { return l.height }

func (l *Layout) IsWall(x, y int) bool {
	if x < 0 || y < 0 || x >= l.width || y >= l.height {
		return true
	}
	return l.walls[y*l.width+x]
}

func (l *Layout) Distance(a, b Point) float64 {
	if l.IsWall(a.X, a.Y) || l.IsWall(b.X, b.Y) {
		return math.Inf(1)
	}
	cells := l.width * l.height
	return l.dist[l.cell(a)*cells+l.cell(b)]
}

// NumAgents is the number of spawn points on the layout.
func (l *Layout) NumAgents() int { return len(l.starts) }

// Start returns the spawn point of agent.
func (l *Layout) Start(agent int) Point { return l.starts[agent] }

// IsRedSide reports whether p lies in the red (west) half.
func (l *Layout) IsRedSide(p Point) bool { return p.X < l.width/2 }

// String renders the layout in the format read by ParseLayout, with all food
// and capsules in their initial places.
func (l *Layout) String() string {
	grid := make([][]byte, l.height)
	for row := range grid {
		y := l.height - 1 - row
		grid[row] = make([]byte, l.width)
		for x := range grid[row] {
			if l.walls[l.cell(Point{X: x, Y: y})] {
				grid[row][x] = '%'
			} else {
				grid[row][x] = ' '
			}
		}
	}
	set := func(p Point, c byte) { grid[l.height-1-p.Y][p.X] = c }
	for _, p := range l.food {
		set(p, '.')
	}
	for _, p := range l.capsules {
		set(p, 'o')
	}
	for i, p := range l.starts {
		set(p, byte('1'+i))
	}

	var b strings.Builder
	for _, row := range grid {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}

func (l *Layout) cell(p Point) int { return p.Y*l.width + p.X }

func (l *Layout) point(cell int) Point {
	return Point{X: cell % l.width, Y: cell / l.width}
}

// computeDistances runs a breadth-first search from every open cell.
func (l *Layout) computeDistances() {
	cells := l.width * l.height
	l.dist = make([]float64, cells*cells)
	for i := range l.dist {
		l.dist[i] = math.Inf(1)
	}

	queue := make([]int, 0, cells)
	for source := 0; source < cells; source++ {
		if l.walls[source] {
			continue
		}
		row := l.dist[source*cells : (source+1)*cells]
		row[source] = 0
		queue = append(queue[:0], source)
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			p := l.point(current)
			for _, action := range Actions[:4] {
				next := p.Move(action)
				if l.IsWall(next.X, next.Y) {
					continue
				}
				id := l.cell(next)
				if math.IsInf(row[id], 1) {
					row[id] = row[current] + 1
					queue = append(queue, id)
				}
			}
		}
	}
}
