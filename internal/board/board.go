// internal/board/board.go
package board

import (
	"fmt"
	"sort"
	"sync"
)

// Kind classifies a navigable square on the board. Wall squares are never
// part of the graph.
type Kind int

const (
	Hallway Kind = iota
	Door
	Start
	RoomNode
)

// Coord is a grid coordinate, row-major from the top-left corner.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Square is a node in the movement graph: a hallway cell, a door cell, a
// start cell, or the single aggregate node representing a room's interior.
type Square struct {
	Row  int
	Col  int
	Kind Kind
	Room string // room name for Door and RoomNode squares

	neighbors []*Square
}

// Label returns a human-readable identifier for log output.
func (s *Square) Label() string {
	if s.Kind == RoomNode {
		return s.Room
	}
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

// Board is the immutable movement graph shared by every session. Build it
// once with Standard() and treat it as read-only; concurrent reads are safe.
type Board struct {
	squares  map[Coord]*Square
	rooms    map[string]*Square
	roomList []string
	starts   map[string]Coord
	passages map[string]string
}

const (
	rows = 25
	cols = 24
)

// layout is the standard board as a row fixture. Legend: lowercase letters
// are room interiors (see roomKeys), '.' hallway, ' ' wall. Door and start
// squares are stamped on top from the tables below.
const layout = `ssssss .        . oooooo
sssssss..hhhhhh..ooooooo
sssssss..hhhhhh..ooooooo
sssssss..hhhhhh..ooooooo
 ........hhhhhh..ooooooo
.........hhhhhh..ooooooo
 lllll...hhhhhh........
lllllll.................
lllllll..     .........
lllllll..     ..nnnnnnnn
 lllll...     ..nnnnnnnn
 ........     ..nnnnnnnn
bbbbbb...     ..nnnnnnnn
bbbbbb...     ..nnnnnnnn
bbbbbb...     ..nnnnnnnn
bbbbbb.............nnnnn
bbbbbb.................
 .......aaaaaaaa........
........aaaaaaaa..kkkkk
 cccc...aaaaaaaa..kkkkkk
cccccc..aaaaaaaa..kkkkkk
cccccc..aaaaaaaa..kkkkkk
cccccc..aaaaaaaa..kkkkkk
cccccc ...aaaa... kkkkkk
         .    .         `

var roomKeys = map[byte]string{
	's': "Study",
	'h': "Hall",
	'o': "Lounge",
	'l': "Library",
	'b': "Billiard Room",
	'n': "Dining Room",
	'c': "Conservatory",
	'a': "Ballroom",
	'k': "Kitchen",
}

// doors sit on the room perimeter, one grid cell inset from the hallway.
// Each door square links to its room node and to adjacent hallway squares.
var doors = map[Coord]string{
	{3, 6}:   "Study",
	{6, 11}:  "Hall",
	{6, 12}:  "Hall",
	{4, 9}:   "Hall",
	{5, 17}:  "Lounge",
	{8, 6}:   "Library",
	{10, 3}:  "Library",
	{12, 1}:  "Billiard Room",
	{15, 5}:  "Billiard Room",
	{12, 16}: "Dining Room",
	{9, 17}:  "Dining Room",
	{19, 4}:  "Conservatory",
	{17, 9}:  "Ballroom",
	{17, 14}: "Ballroom",
	{19, 8}:  "Ballroom",
	{19, 15}: "Ballroom",
	{18, 19}: "Kitchen",
}

var startPositions = map[string]Coord{
	"Miss Scarlett":   {24, 9},
	"Colonel Mustard": {7, 23},
	"Mrs. White":      {24, 14},
	"Reverend Green":  {0, 16},
	"Professor Plum":  {5, 0},
	"Mrs. Peacock":    {18, 0},
}

var secretPassages = map[string]string{
	"Study":        "Kitchen",
	"Kitchen":      "Study",
	"Lounge":       "Conservatory",
	"Conservatory": "Lounge",
}

var (
	stdOnce sync.Once
	std     *Board
)

// Standard returns the process-wide board, building it on first use. The
// layout is a compile-time fixture; a malformed fixture is a programming
// error and panics.
func Standard() *Board {
	stdOnce.Do(func() {
		std = build()
	})
	return std
}

func build() *Board {
	b := &Board{
		squares:  make(map[Coord]*Square),
		rooms:    make(map[string]*Square),
		starts:   startPositions,
		passages: secretPassages,
	}

	grid := make([][]byte, rows)
	r := 0
	line := make([]byte, 0, cols)
	for i := 0; i <= len(layout); i++ {
		if i == len(layout) || layout[i] == '\n' {
			row := make([]byte, cols)
			for j := range row {
				row[j] = ' '
			}
			copy(row, line)
			grid[r] = row
			r++
			line = line[:0]
			continue
		}
		line = append(line, layout[i])
	}
	if r != rows {
		panic(fmt.Sprintf("board: layout has %d rows, want %d", r, rows))
	}

	// Room bounds are derived from the fixture itself so the tables above
	// cannot drift out of sync with the drawing.
	type bounds struct{ minRow, minCol, maxRow, maxCol int }
	roomBounds := make(map[string]*bounds)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			room, ok := roomKeys[grid[row][col]]
			if !ok {
				continue
			}
			bd := roomBounds[room]
			if bd == nil {
				roomBounds[room] = &bounds{row, col, row, col}
				continue
			}
			if row < bd.minRow {
				bd.minRow = row
			}
			if col < bd.minCol {
				bd.minCol = col
			}
			if row > bd.maxRow {
				bd.maxRow = row
			}
			if col > bd.maxCol {
				bd.maxCol = col
			}
		}
	}

	for c, room := range doors {
		bd, ok := roomBounds[room]
		if !ok {
			panic(fmt.Sprintf("board: door %v references unknown room %q", c, room))
		}
		if c.Row < bd.minRow || c.Row > bd.maxRow || c.Col < bd.minCol || c.Col > bd.maxCol {
			panic(fmt.Sprintf("board: door %v lies outside %q", c, room))
		}
		grid[c.Row][c.Col] = 'D'
	}
	for character, c := range startPositions {
		if grid[c.Row][c.Col] != '.' {
			panic(fmt.Sprintf("board: start for %q at %v is not a hallway cell", character, c))
		}
		grid[c.Row][c.Col] = 'S'
	}

	// Traversable squares: hallways, doors, starts. Room interiors collapse
	// into one node per room.
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var k Kind
			switch grid[row][col] {
			case '.':
				k = Hallway
			case 'D':
				k = Door
			case 'S':
				k = Start
			default:
				continue
			}
			c := Coord{row, col}
			sq := &Square{Row: row, Col: col, Kind: k}
			if k == Door {
				sq.Room = doors[c]
			}
			b.squares[c] = sq
		}
	}

	for room, bd := range roomBounds {
		node := &Square{
			Row:  (bd.minRow + bd.maxRow) / 2,
			Col:  (bd.minCol + bd.maxCol) / 2,
			Kind: RoomNode,
			Room: room,
		}
		b.rooms[room] = node
		b.roomList = append(b.roomList, room)
	}
	sort.Strings(b.roomList)

	// Grid adjacency in a fixed scan order keeps BFS discovery, and
	// therefore path tie-breaking, deterministic.
	offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			sq, ok := b.squares[Coord{row, col}]
			if !ok {
				continue
			}
			for _, d := range offsets {
				if nb, ok := b.squares[Coord{row + d[0], col + d[1]}]; ok {
					sq.neighbors = append(sq.neighbors, nb)
				}
			}
		}
	}
	for c, room := range doors {
		door := b.squares[c]
		node := b.rooms[room]
		door.neighbors = append(door.neighbors, node)
		node.neighbors = append(node.neighbors, door)
	}

	b.validate()
	return b
}

// validate checks graph invariants that must hold for any playable board:
// every room is reachable from every start square. A violation is fatal.
func (b *Board) validate() {
	for character, c := range b.starts {
		origin := b.squares[c]
		if origin == nil {
			panic(fmt.Sprintf("board: start square missing for %q", character))
		}
		dist := b.distances(origin)
		for _, room := range b.roomList {
			if _, ok := dist[b.rooms[room]]; !ok {
				panic(fmt.Sprintf("board: %q unreachable from %q start", room, character))
			}
		}
	}
	for room, paired := range b.passages {
		if b.rooms[room] == nil || b.rooms[paired] == nil {
			panic(fmt.Sprintf("board: secret passage %s-%s names unknown room", room, paired))
		}
	}
}

// Square returns the square at c, if c is traversable.
func (b *Board) Square(c Coord) (*Square, bool) {
	sq, ok := b.squares[c]
	return sq, ok
}

// Room returns the aggregate node for the named room.
func (b *Board) Room(name string) (*Square, bool) {
	sq, ok := b.rooms[name]
	return sq, ok
}

// Rooms lists all room names in a stable order.
func (b *Board) Rooms() []string {
	return b.roomList
}

// StartFor returns the start square coordinate for a character.
func (b *Board) StartFor(character string) (Coord, bool) {
	c, ok := b.starts[character]
	return c, ok
}

// PassageFrom returns the room connected to `room` by a secret passage.
func (b *Board) PassageFrom(room string) (string, bool) {
	dst, ok := b.passages[room]
	return dst, ok
}

// RoomPath reports one room reachable from a movement query.
type RoomPath struct {
	Room       string `json:"room"`
	Steps      int    `json:"steps"`
	ViaPassage bool   `json:"viaPassage,omitempty"`
}

// ReachableRooms returns every room whose nearest door lies within `steps`
// moves of `from`, in room-name order. If `from` is itself a room with a
// secret passage, the paired room is included regardless of `steps`; the
// passage costs no movement but is only usable from inside its room.
func (b *Board) ReachableRooms(from *Square, steps int) []RoomPath {
	reached := b.Reachable(from, steps)

	var out []RoomPath
	for _, name := range b.roomList {
		node := b.rooms[name]
		if node == from {
			continue
		}
		if d, ok := reached[node]; ok {
			out = append(out, RoomPath{Room: name, Steps: d})
		}
	}

	if from.Kind == RoomNode {
		if paired, ok := b.passages[from.Room]; ok {
			found := false
			for i := range out {
				if out[i].Room == paired {
					out[i].Steps = 0
					out[i].ViaPassage = true
					found = true
				}
			}
			if !found {
				out = append(out, RoomPath{Room: paired, ViaPassage: true})
				sort.Slice(out, func(i, j int) bool { return out[i].Room < out[j].Room })
			}
		}
	}
	return out
}

// Reachable runs a 0-1 BFS from `from` bounded by `steps`. Door<->room
// transitions are free: the door sits on the room perimeter and does not
// count as an extra move. Entering a room ends movement, so room nodes are
// never expanded (except the origin).
func (b *Board) Reachable(from *Square, steps int) map[*Square]int {
	visited := map[*Square]int{from: 0}
	dq := newDeque()
	dq.pushBack(from)

	for dq.len() > 0 {
		sq := dq.popFront()
		dist := visited[sq]
		for _, nb := range sq.neighbors {
			nd := dist
			if !freeEdge(sq, nb) {
				nd = dist + 1
			}
			if nd > steps {
				continue
			}
			if prev, seen := visited[nb]; seen && prev <= nd {
				continue
			}
			visited[nb] = nd
			if nb.Kind == RoomNode {
				continue
			}
			if nd == dist {
				dq.pushFront(nb)
			} else {
				dq.pushBack(nb)
			}
		}
	}
	return visited
}

// PathToward walks from `from` toward the nearest door of `room`, bounded
// by `steps` moves. If the room is reachable its node is returned;
// otherwise the result is the reachable grid square closest to the room
// along the shortest route, tie-broken in row-major order so results are
// stable. Other rooms' aggregate nodes are never a terminal: a mover who
// falls short stops on a hallway, door or start cell, so the result (when
// not `from` itself) is always a square a participant can occupy and move
// from next turn.
func (b *Board) PathToward(from *Square, room string, steps int) (*Square, bool) {
	target, ok := b.rooms[room]
	if !ok {
		return from, false
	}

	reached := b.Reachable(from, steps)
	if _, ok := reached[target]; ok {
		return target, true
	}

	// Distances from every square back to the target, unconstrained.
	fromTarget := b.distances(target)

	best := from
	bestDist, ok := fromTarget[from]
	if !ok {
		// No route exists; a connected board makes this unreachable.
		return from, false
	}
	for _, sq := range b.sortSquares(reached) {
		if sq == from || sq.Kind == RoomNode {
			continue
		}
		if d, ok := fromTarget[sq]; ok && d < bestDist {
			bestDist = d
			best = sq
		}
	}
	return best, false
}

// distances is an unbounded 0-1 BFS used for validation and reverse-path
// queries. Room nodes get a distance but are never expanded (except the
// origin): a mover's walk ends on entering a room, so no real path passes
// through one.
func (b *Board) distances(from *Square) map[*Square]int {
	visited := map[*Square]int{from: 0}
	dq := newDeque()
	dq.pushBack(from)

	for dq.len() > 0 {
		sq := dq.popFront()
		dist := visited[sq]
		for _, nb := range sq.neighbors {
			nd := dist
			if !freeEdge(sq, nb) {
				nd = dist + 1
			}
			if prev, seen := visited[nb]; seen && prev <= nd {
				continue
			}
			visited[nb] = nd
			if nb.Kind == RoomNode {
				continue
			}
			if nd == dist {
				dq.pushFront(nb)
			} else {
				dq.pushBack(nb)
			}
		}
	}
	return visited
}

func freeEdge(a, b *Square) bool {
	return (a.Kind == RoomNode && b.Kind == Door) || (a.Kind == Door && b.Kind == RoomNode)
}

// sortSquares orders a reachability set row-major for deterministic scans.
func (b *Board) sortSquares(set map[*Square]int) []*Square {
	out := make([]*Square, 0, len(set))
	for sq := range set {
		out = append(out, sq)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// deque backs the 0-1 BFS. Zero-cost edges are expanded before unit-cost
// ones, which keeps distances monotone without a priority queue.
type deque struct {
	items []*Square
	head  int
}

func newDeque() *deque {
	return &deque{items: make([]*Square, 0, 64)}
}

func (d *deque) len() int { return len(d.items) - d.head }

func (d *deque) pushBack(sq *Square) { d.items = append(d.items, sq) }

func (d *deque) pushFront(sq *Square) {
	if d.head > 0 {
		d.head--
		d.items[d.head] = sq
		return
	}
	d.items = append([]*Square{sq}, d.items...)
}

func (d *deque) popFront() *Square {
	sq := d.items[d.head]
	d.items[d.head] = nil
	d.head++
	if d.head == len(d.items) {
		d.items = d.items[:0]
		d.head = 0
	}
	return sq
}
