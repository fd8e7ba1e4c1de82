// Package transact computes the canonical energy cost of sending
// resources between two rooms, and parses room names into coordinates
// for distance calculations.
package transact

import (
	"fmt"
	"math"
	"strconv"
)

// Coord is a room's signed grid coordinate.
type Coord struct {
	X int
	Y int
}

// ParseRoomName parses a Screeps-style room name ("W5N8", "E12S34")
// into a signed grid Coord. East/South increase the coordinate;
// West/North decrease it.
func ParseRoomName(room string) (Coord, error) {
	if len(room) < 4 {
		return Coord{}, fmt.Errorf("transact: invalid room name %q", room)
	}

	ewAxis := room[0]
	i := 1
	for i < len(room) && room[i] >= '0' && room[i] <= '9' {
		i++
	}
	if i == 1 || i >= len(room) {
		return Coord{}, fmt.Errorf("transact: invalid room name %q", room)
	}
	ewNum, err := strconv.Atoi(room[1:i])
	if err != nil {
		return Coord{}, fmt.Errorf("transact: invalid room name %q: %w", room, err)
	}

	nsAxis := room[i]
	nsNumStr := room[i+1:]
	if nsNumStr == "" {
		return Coord{}, fmt.Errorf("transact: invalid room name %q", room)
	}
	nsNum, err := strconv.Atoi(nsNumStr)
	if err != nil {
		return Coord{}, fmt.Errorf("transact: invalid room name %q: %w", room, err)
	}

	var x, y int
	switch ewAxis {
	case 'E', 'e':
		x = ewNum
	case 'W', 'w':
		x = -ewNum - 1
	default:
		return Coord{}, fmt.Errorf("transact: invalid room name %q", room)
	}
	switch nsAxis {
	case 'S', 's':
		y = nsNum
	case 'N', 'n':
		y = -nsNum - 1
	default:
		return Coord{}, fmt.Errorf("transact: invalid room name %q", room)
	}

	return Coord{X: x, Y: y}, nil
}

// LinearDistance is the Chebyshev (chessboard) distance between two
// room coordinates — the same metric Screeps' map distance uses.
func LinearDistance(a, b Coord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// SendCost returns the canonical energy cost to send amount units of
// any resource between two rooms. The formula asymptotically
// approaches 1 energy per unit as distance grows and is cheap for
// nearby rooms.
func SendCost(amount uint64, fromRoom, toRoom string) (uint64, error) {
	from, err := ParseRoomName(fromRoom)
	if err != nil {
		return 0, err
	}
	to, err := ParseRoomName(toRoom)
	if err != nil {
		return 0, err
	}
	return SendCostCoords(amount, from, to), nil
}

// SendCostCoords is SendCost operating directly on parsed coordinates,
// for callers that already cache a colony's room Coord.
func SendCostCoords(amount uint64, from, to Coord) uint64 {
	if amount == 0 {
		return 0
	}
	d := LinearDistance(from, to)
	if d == 0 {
		return 0
	}
	factor := 1 - math.Exp(-float64(d)/30.0)
	return uint64(math.Ceil(float64(amount) * factor))
}
