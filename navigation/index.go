package navigation

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/nstehr/flotilla/model"
)

// TileSize is one tile's edge length in map units: a ship at full speed
// crosses at most one tile boundary per axis per turn.
const TileSize = model.MaxSpeed - 1

// Index buckets every ship on the map into fixed-size tiles so proximity
// queries only touch a few buckets. It is rebuilt from scratch each turn;
// ships appear, die and jump between snapshots, so incremental updates would
// go stale.
type Index struct {
	Cols  int
	Rows  int
	tiles [][]model.Ship // row-major: tiles[row*Cols + col]
}

// NewIndex sizes the grid so every on-map coordinate has a tile.
func NewIndex(width, height int) *Index {
	cols := int(math.Ceil(float64(width) / TileSize))
	rows := int(math.Ceil(float64(height) / TileSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Index{Cols: cols, Rows: rows, tiles: make([][]model.Ship, cols*rows)}
}

// TileOf truncates map coordinates to tile coordinates, clamping off-map
// positions into the border tiles.
func (ix *Index) TileOf(p orb.Point) (col, row int) {
	col = clampTile(int(p[0]/TileSize), ix.Cols)
	row = clampTile(int(p[1]/TileSize), ix.Rows)
	return col, row
}

func clampTile(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Rebuild clears every bucket and places each ship in exactly one tile.
func (ix *Index) Rebuild(ships []model.Ship) {
	for i := range ix.tiles {
		ix.tiles[i] = ix.tiles[i][:0]
	}
	seen := make(map[int]bool, len(ships))
	for _, s := range ships {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		col, row := ix.TileOf(s.Pos())
		i := row*ix.Cols + col
		ix.tiles[i] = append(ix.tiles[i], s)
	}
}

// Query returns every ship in the (2*radius+1)² block of tiles around the
// tile containing center, nearest tiles first. Ties break by docking status,
// owner and id so identical snapshots always yield identical order.
func (ix *Index) Query(center orb.Point, radius int) []model.Ship {
	if radius < 0 {
		radius = 0
	}
	cc, cr := ix.TileOf(center)

	type hit struct {
		ship model.Ship
		dist int
	}
	var hits []hit
	seen := make(map[int]bool)
	for row := cr - radius; row <= cr+radius; row++ {
		if row < 0 || row >= ix.Rows {
			continue
		}
		for col := cc - radius; col <= cc+radius; col++ {
			if col < 0 || col >= ix.Cols {
				continue
			}
			d := max(abs(col-cc), abs(row-cr))
			for _, s := range ix.tiles[row*ix.Cols+col] {
				if seen[s.ID] {
					continue
				}
				seen[s.ID] = true
				hits = append(hits, hit{ship: s, dist: d})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if a.ship.DockingStatus != b.ship.DockingStatus {
			return a.ship.DockingStatus < b.ship.DockingStatus
		}
		if a.ship.Owner != b.ship.Owner {
			return a.ship.Owner < b.ship.Owner
		}
		return a.ship.ID < b.ship.ID
	})

	out := make([]model.Ship, len(hits))
	for i, h := range hits {
		out[i] = h.ship
	}
	return out
}

// Enemies is Query restricted to ships not owned by me.
func (ix *Index) Enemies(center orb.Point, radius, me int) []model.Ship {
	ships := ix.Query(center, radius)
	out := ships[:0]
	for _, s := range ships {
		if s.Owner != me {
			out = append(out, s)
		}
	}
	return out
}

// Occupied counts tiles holding at least one ship.
func (ix *Index) Occupied() int {
	n := 0
	for _, t := range ix.tiles {
		if len(t) > 0 {
			n++
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
