package runner

import (
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/cube-runner/internal/config"
	"github.com/vovakirdan/cube-runner/internal/core"
)

const laneCount = 3

// Lanes marks which of the three lanes hold a tile in one row.
type Lanes [laneCount]bool

// Count returns the number of occupied lanes.
func (l Lanes) Count() int {
	n := 0
	for _, on := range l {
		if on {
			n++
		}
	}
	return n
}

// Any reports whether at least one lane is occupied.
func (l Lanes) Any() bool {
	return l.Count() > 0
}

var (
	allLanes = Lanes{true, true, true}

	// lanePalette is used to break up runs of identical rows.
	lanePalette = []Lanes{
		{true, true, true},
		{true, true, false},
		{false, true, true},
		{true, false, true},
		{true, false, false},
		{false, false, true},
		{false, true, false},
	}

	// interestingLanes are hand-picked sparse rows.
	interestingLanes = []Lanes{
		{true, false, true},
		{false, true, false},
		{true, false, false},
		{false, false, true},
	}
)

// PathTile is one occupied lane cell.
type PathTile struct {
	ID           EntityID
	Lane         int
	X            float64
	Z            float64
	Safety       bool          // Forced into existence by an invincibility window
	Accent       bool          // Decorative highlight, no gameplay effect
	SpawnedAt    time.Duration // Clock time the row was generated
	ReadyAt      time.Duration // Spawn time plus per-lane stagger
	AnimDuration time.Duration
}

// Pending reports whether the tile has not started materialising yet.
func (t PathTile) Pending(now time.Duration) bool {
	return now < t.ReadyAt
}

// Animating reports whether the spawn animation is still playing.
// Animating tiles are not standable.
func (t PathTile) Animating(now time.Duration) bool {
	return now < t.ReadyAt+t.AnimDuration
}

// CollisionResult is the path's answer for one player position.
type CollisionResult struct {
	OnPath bool
	PathY  float64
	Lane   int
}

// Segment is where the player is placed on game start.
type Segment struct {
	CenterX float64
	Z       float64
}

// InvincibilityWindow is a timed all-lanes-safe period.
type InvincibilityWindow struct {
	Active bool
	EndsAt time.Duration
}

// ActiveAt reports whether the window covers the given time.
func (w InvincibilityWindow) ActiveAt(now time.Duration) bool {
	return w.Active && now < w.EndsAt
}

// Remaining returns the time left in the window, zero when inactive.
func (w InvincibilityWindow) Remaining(now time.Duration) time.Duration {
	if !w.ActiveAt(now) {
		return 0
	}
	return w.EndsAt - now
}

// rowStyle selects how a row's tiles materialise.
type rowStyle uint8

const (
	rowStatic   rowStyle = iota // runway, standable immediately
	rowDrop                     // drops from above, staggered per lane
	rowSafety                   // rises from below, staggered per lane
	rowBackfill                 // rises from below, all lanes at once
)

type pathRow struct {
	tiles [laneCount]*PathTile
}

func (r *pathRow) lanes() Lanes {
	var l Lanes
	for i, t := range r.tiles {
		l[i] = t != nil
	}
	return l
}

// PathGenerator produces and retires lane-tile rows around the player and
// answers collision queries against them.
type PathGenerator struct {
	cfg        config.PathConfig
	difficulty *config.DifficultyManager
	rng        *rand.Rand
	clock      core.Clock
	arena      *Arena
	logger     *log.Logger

	rows      map[int]*pathRow
	firstRow  int // Oldest live row index
	lastRow   int // Newest live row index, firstRow-1 when empty
	furthestZ float64
	distance  float64 // Distance generated past the runway
	tileCount int

	lastLanes Lanes
	sameCount int
	recent    []Lanes
	inv       InvincibilityWindow
}

// NewPathGenerator creates a generator. A nil difficulty manager keeps the
// base lane probabilities.
func NewPathGenerator(cfg config.PathConfig, difficulty *config.DifficultyManager, rng *rand.Rand, clock core.Clock, arena *Arena, logger *log.Logger) *PathGenerator {
	if difficulty == nil {
		difficulty = config.NewDifficultyManager(config.DifficultyConfig{})
	}
	g := &PathGenerator{
		cfg:        cfg,
		difficulty: difficulty,
		rng:        rng,
		clock:      clock,
		arena:      arena,
		logger:     logger,
		rows:       make(map[int]*pathRow, 64),
	}
	g.resetState()
	return g
}

// Initialize seeds the all-lanes runway and fills forward to the initial
// visible distance.
func (g *PathGenerator) Initialize() {
	g.Cleanup()

	z := 0.0
	for i := 0; i < g.cfg.RunwayRows; i++ {
		g.placeRow(z, allLanes, rowStatic)
		z += g.cfg.SpawnInterval
	}
	g.furthestZ = z

	for g.furthestZ < g.cfg.InitialDistance {
		g.generateNextRow()
	}

	g.logger.Debug("path initialized", "rows", g.lastRow-g.firstRow+1, "tiles", g.tileCount, "furthest", g.furthestZ)
}

// Update retires rows behind the player and generates rows until the
// lookahead distance is covered.
func (g *PathGenerator) Update(playerZ float64) {
	cutoff := playerZ - g.cfg.Trailing
	for g.firstRow <= g.lastRow && g.rowZ(g.firstRow) < cutoff {
		g.retireRow(g.firstRow)
		g.firstRow++
	}

	for g.furthestZ < playerZ+g.cfg.Lookahead {
		g.generateNextRow()
	}
}

// CheckCollision reports whether a standable tile supports the given position.
// No tile near z is a normal off-path answer.
func (g *PathGenerator) CheckCollision(x, z float64) CollisionResult {
	res := CollisionResult{PathY: g.cfg.TileY, Lane: 1}

	idx := g.rowIndex(z)
	row, ok := g.rows[idx]
	if !ok || math.Abs(g.rowZ(idx)-z) >= g.cfg.ZTolerance {
		return res
	}

	res.Lane = g.nearestLane(x)
	if math.Abs(x-g.cfg.LanePositions[res.Lane]) >= g.cfg.LaneWidth/2*g.cfg.BoundsTolerance {
		return res
	}

	if tile := row.tiles[res.Lane]; tile != nil && !tile.Animating(g.clock.Now()) {
		res.OnPath = true
	}
	return res
}

// FirstSegment returns the nearest row's centre position.
func (g *PathGenerator) FirstSegment() (Segment, bool) {
	for idx := g.firstRow; idx <= g.lastRow; idx++ {
		row, ok := g.rows[idx]
		if !ok {
			continue
		}
		lanes := row.lanes()
		if !lanes.Any() {
			continue
		}
		lane := 1
		if !lanes[lane] {
			for i, on := range lanes {
				if on {
					lane = i
					break
				}
			}
		}
		return Segment{CenterX: g.cfg.LanePositions[lane], Z: g.rowZ(idx)}, true
	}
	return Segment{}, false
}

// ActivateInvincibility switches generation to all-lanes rows until the
// window ends and backfills missing lanes ahead of the player with safety
// tiles. It returns the number of backfilled tiles.
func (g *PathGenerator) ActivateInvincibility(playerZ float64, window InvincibilityWindow) int {
	g.inv = window

	start := math.Ceil(playerZ/g.cfg.SpawnInterval) * g.cfg.SpawnInterval
	end := start + g.cfg.SafetyFillDistance
	before := g.tileCount
	for z := start; z < end; z += g.cfg.SpawnInterval {
		g.placeRow(z, allLanes, rowBackfill)
	}
	if z := g.rowZ(g.lastRow) + g.cfg.SpawnInterval; z > g.furthestZ {
		g.furthestZ = z
	}

	filled := g.tileCount - before
	g.logger.Debug("invincibility activated", "z", playerZ, "until", window.EndsAt, "backfilled", filled)
	return filled
}

// IsInvincible reports whether forced-safe generation is in effect.
func (g *PathGenerator) IsInvincible() bool {
	return g.inv.ActiveAt(g.clock.Now())
}

// LanesAt returns the occupied lanes of the row nearest to z.
func (g *PathGenerator) LanesAt(z float64) Lanes {
	if row, ok := g.rows[g.rowIndex(z)]; ok {
		return row.lanes()
	}
	return Lanes{}
}

// Tiles returns a copy of all live tiles ordered by Z then lane.
func (g *PathGenerator) Tiles() []PathTile {
	out := make([]PathTile, 0, g.tileCount)
	for idx := g.firstRow; idx <= g.lastRow; idx++ {
		row, ok := g.rows[idx]
		if !ok {
			continue
		}
		for _, t := range row.tiles {
			if t != nil {
				out = append(out, *t)
			}
		}
	}
	return out
}

// TileVisual returns the animated height and opacity of a tile.
func (g *PathGenerator) TileVisual(t PathTile) (y, opacity float64) {
	now := g.clock.Now()
	if t.AnimDuration <= 0 || !t.Animating(now) {
		return g.cfg.TileY, 1
	}
	if t.Pending(now) {
		return g.startY(t), 0
	}

	progress := float64(now-t.ReadyAt) / float64(t.AnimDuration)
	eased := core.EaseOutCubic(progress)
	return core.Lerp(g.startY(t), g.cfg.TileY, eased), eased
}

func (g *PathGenerator) startY(t PathTile) float64 {
	if t.Safety {
		return g.cfg.TileY - g.cfg.SpawnHeight
	}
	return g.cfg.TileY + g.cfg.SpawnHeight
}

// FurthestZ returns the Z at which the next row will be generated.
func (g *PathGenerator) FurthestZ() float64 {
	return g.furthestZ
}

// Distance returns the distance generated past the runway.
func (g *PathGenerator) Distance() float64 {
	return g.distance
}

// Difficulty returns the current difficulty level (0.0 to 1.0).
func (g *PathGenerator) Difficulty() float64 {
	return g.difficulty.Level(config.Progress{Distance: g.distance})
}

// TileCount returns the number of live tiles.
func (g *PathGenerator) TileCount() int {
	return g.tileCount
}

// MaxLiveTiles is the upper bound on live tiles after Update.
func (g *PathGenerator) MaxLiveTiles() int {
	rows := math.Ceil((g.cfg.Lookahead + g.cfg.Trailing) / g.cfg.SpawnInterval)
	return int(rows) * laneCount
}

// Cleanup releases every tile and resets generation state. Safe to call
// repeatedly.
func (g *PathGenerator) Cleanup() {
	for idx := range g.rows {
		g.retireRow(idx)
	}
	g.resetState()
}

func (g *PathGenerator) resetState() {
	clear(g.rows)
	g.firstRow = 0
	g.lastRow = -1
	g.furthestZ = 0
	g.distance = 0
	g.tileCount = 0
	g.lastLanes = allLanes
	g.sameCount = 0
	g.recent = g.recent[:0]
	g.inv = InvincibilityWindow{}
}

// generateNextRow emits one row at furthestZ. Invincibility expiry is
// checked before each decision.
func (g *PathGenerator) generateNextRow() {
	now := g.clock.Now()
	if g.inv.ActiveAt(now) {
		g.placeRow(g.furthestZ, allLanes, rowSafety)
		g.lastLanes = allLanes
		g.advance()
		return
	}
	if g.inv.Active {
		g.inv.Active = false
		g.logger.Debug("invincibility expired", "z", g.furthestZ)
	}

	var lanes Lanes
	switch {
	case g.sameCount > g.cfg.RepeatThreshold:
		lanes = g.differentLanes()
	case g.lastLanes.Count() == 1:
		lanes = g.expandLanes()
	default:
		lanes = g.adaptiveLanes()
	}

	g.placeRow(g.furthestZ, lanes, rowDrop)
	g.remember(lanes)
	g.advance()
}

func (g *PathGenerator) advance() {
	g.furthestZ += g.cfg.SpawnInterval
	g.distance += g.cfg.SpawnInterval
}

func (g *PathGenerator) adaptiveLanes() Lanes {
	progress := config.Progress{Distance: g.distance}
	open := g.recentOpenLanes()

	var lanes Lanes
	for i, base := range g.cfg.BaseProbabilities[:laneCount] {
		p := g.difficulty.LaneProbability(base, progress)
		if open > g.cfg.OpenThreshold {
			p -= g.cfg.OpenPenalty
		}
		if open < g.cfg.ClosedThreshold {
			p += g.cfg.ClosedBonus
		}
		lanes[i] = g.rng.Float64() < p
	}
	if !lanes.Any() {
		lanes[g.rng.Intn(laneCount)] = true
	}

	if g.rng.Float64() < g.cfg.InterestingChance {
		lanes = interestingLanes[g.rng.Intn(len(interestingLanes))]
	}
	return lanes
}

// expandLanes follows a single-lane row, preferring to widen the corridor.
func (g *PathGenerator) expandLanes() Lanes {
	switch {
	case g.lastLanes[0]:
		if g.rng.Float64() < 0.5 {
			return Lanes{true, true, false}
		}
		return Lanes{true, false, false}
	case g.lastLanes[2]:
		if g.rng.Float64() < 0.5 {
			return Lanes{false, true, true}
		}
		return Lanes{false, false, true}
	default:
		r := g.rng.Float64()
		switch {
		case r < 0.33:
			return Lanes{true, true, false}
		case r < 0.66:
			return Lanes{false, true, true}
		default:
			return Lanes{false, true, false}
		}
	}
}

func (g *PathGenerator) differentLanes() Lanes {
	available := make([]Lanes, 0, len(lanePalette))
	for _, l := range lanePalette {
		if l != g.lastLanes {
			available = append(available, l)
		}
	}
	return available[g.rng.Intn(len(available))]
}

func (g *PathGenerator) recentOpenLanes() int {
	n := 0
	for _, l := range g.recent {
		n += l.Count()
	}
	return n
}

func (g *PathGenerator) remember(lanes Lanes) {
	if lanes == g.lastLanes {
		g.sameCount++
	} else {
		g.sameCount = 0
	}

	g.recent = append(g.recent, lanes)
	if len(g.recent) > g.cfg.HistoryWindow {
		g.recent = g.recent[1:]
	}
	g.lastLanes = lanes
}

// placeRow creates tiles for the given lanes. Lanes already holding a tile
// in that row are left alone.
func (g *PathGenerator) placeRow(z float64, lanes Lanes, style rowStyle) {
	idx := g.rowIndex(z)
	row, ok := g.rows[idx]
	if !ok {
		row = &pathRow{}
		g.rows[idx] = row
		if g.lastRow < g.firstRow {
			g.firstRow, g.lastRow = idx, idx
		}
		g.firstRow = min(g.firstRow, idx)
		g.lastRow = max(g.lastRow, idx)
	}

	now := g.clock.Now()
	for lane, on := range lanes {
		if !on || row.tiles[lane] != nil {
			continue
		}

		tile := &PathTile{
			ID:        g.arena.Acquire(KindTile),
			Lane:      lane,
			X:         g.cfg.LanePositions[lane],
			Z:         g.rowZ(idx),
			SpawnedAt: now,
			ReadyAt:   now,
		}
		switch style {
		case rowDrop:
			tile.ReadyAt = now + time.Duration(lane)*g.cfg.StaggerDelay
			tile.AnimDuration = g.cfg.SpawnDuration
			tile.Accent = g.rng.Float64() < g.cfg.AccentChance
		case rowSafety:
			tile.ReadyAt = now + time.Duration(lane)*g.cfg.StaggerDelay
			tile.AnimDuration = g.cfg.SafetySpawnDuration
			tile.Safety = true
		case rowBackfill:
			tile.AnimDuration = g.cfg.SafetySpawnDuration
			tile.Safety = true
		}

		row.tiles[lane] = tile
		g.tileCount++
	}
}

func (g *PathGenerator) retireRow(idx int) {
	row, ok := g.rows[idx]
	if !ok {
		return
	}
	for lane, t := range row.tiles {
		if t == nil {
			continue
		}
		g.arena.Release(t.ID)
		row.tiles[lane] = nil
		g.tileCount--
	}
	delete(g.rows, idx)
}

func (g *PathGenerator) rowIndex(z float64) int {
	return int(math.Round(z / g.cfg.SpawnInterval))
}

func (g *PathGenerator) rowZ(idx int) float64 {
	return float64(idx) * g.cfg.SpawnInterval
}

func (g *PathGenerator) nearestLane(x float64) int {
	best, bestDist := 1, math.Inf(1)
	for i, lx := range g.cfg.LanePositions[:laneCount] {
		if d := math.Abs(x - lx); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
