package runner

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vovakirdan/cube-runner/internal/core"
)

// Visual characters for rendering
const (
	TileChar      = '▓'
	TileFadeChar  = '▒'
	TileGhostChar = '░'
	StarChar      = '★'
	StarBurstChar = '✦'
	BurstChar     = '*'
	TrailChar     = '·'
	BoostFull     = '■'
	BoostEmpty    = '□'
)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

type projector struct {
	m    mgl64.Mat4
	w, h float64
}

// project maps a world point to screen cells. ok is false behind the camera.
// Looking down +Z puts world +X on the left, so X is mirrored to keep lane 0
// on the left of the screen.
func (p projector) project(v mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := p.m.Mul4x1(v.Vec4(1))
	if clip.W() <= 0.1 {
		return 0, 0, 0, false
	}
	nx, ny := clip.X()/clip.W(), clip.Y()/clip.W()
	return (1 - nx) / 2 * p.w, (1 - ny) / 2 * p.h, clip.W(), true
}

type drawable struct {
	depth float64
	draw  func(dst *core.Screen)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w == 0 || h == 0 {
		return
	}

	proj := projector{
		m: g.camera.View(float64(w) / (float64(h) * cellAspect)),
		w: float64(w),
		h: float64(h),
	}

	items := g.collectDrawables(proj)
	// Painter's algorithm: far to near.
	sort.Slice(items, func(i, j int) bool {
		return items[i].depth > items[j].depth
	})
	for _, it := range items {
		it.draw(dst)
	}

	g.drawHUD(dst)

	switch {
	case g.phase == PhaseLanding:
		g.drawCenteredMessage(dst, "CUBE RUNNER", "SPACE to start  |  C to change cube", fmt.Sprintf("Cube: %s", g.skin.Name))
	case g.phase == PhaseGameOver:
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  Stars: %d", g.score, g.starsCollected), "R to restart")
	case g.paused:
		g.drawCenteredMessage(dst, "PAUSED", "P to resume")
	}
}

func (g *Game) collectDrawables(proj projector) []drawable {
	now := g.clock.Now()
	items := make([]drawable, 0, g.path.TileCount()+16)

	half := g.cfg.Path.TileSize / 2
	for _, t := range g.path.Tiles() {
		if t.Pending(now) {
			continue
		}
		y, opacity := g.path.TileVisual(t)
		top := y + g.cfg.Path.TileHeight/2
		corners := [4]mgl64.Vec3{
			{t.X - half, top, t.Z - half},
			{t.X + half, top, t.Z - half},
			{t.X + half, top, t.Z + half},
			{t.X - half, top, t.Z + half},
		}
		var quad [4][2]float64
		visible := true
		depth := 0.0
		for i, c := range corners {
			sx, sy, d, ok := proj.project(c)
			if !ok {
				visible = false
				break
			}
			quad[i] = [2]float64{sx, sy}
			depth = math.Max(depth, d)
		}
		if !visible {
			continue
		}
		glyph, color := tileStyle(t, opacity)
		items = append(items, drawable{depth: depth, draw: func(dst *core.Screen) {
			fillQuad(dst, quad, glyph, color)
		}})
	}

	for _, s := range g.stars.Stars() {
		v := g.stars.Visual(s)
		sx, sy, d, ok := proj.project(v.Pos)
		if !ok || v.Opacity <= 0 {
			continue
		}
		glyph := StarChar
		if v.Scale > 2 {
			glyph = StarBurstChar
		}
		items = append(items, drawable{depth: d, draw: func(dst *core.Screen) {
			dst.SetColor(int(sx), int(sy), glyph, core.ColorBrightYellow)
		}})
	}

	for _, p := range g.particles.Particles() {
		sx, sy, d, ok := proj.project(p.Pos)
		if !ok {
			continue
		}
		glyph, color := BurstChar, core.ColorGold
		if p.Kind == ParticleTrail {
			glyph, color = TrailChar, core.ColorOrange
		}
		items = append(items, drawable{depth: d, draw: func(dst *core.Screen) {
			dst.SetColor(int(sx), int(sy), glyph, color)
		}})
	}

	pos := g.player.Position()
	size := g.cfg.Player.Size * g.skin.Size
	cx, cy, d, ok := proj.project(pos)
	ex, _, _, okX := proj.project(pos.Add(mgl64.Vec3{size / 2, 0, 0}))
	_, ey, _, okY := proj.project(pos.Add(mgl64.Vec3{0, size / 2, 0}))
	if ok && okX && okY {
		hw := max(int(math.Round(math.Abs(ex-cx))), 1)
		hh := max(int(math.Round(math.Abs(ey-cy))), 0)
		color := g.skin.TermColor
		if g.inv.ActiveAt(g.clock.Now()) && (g.ticks/6)%2 == 0 {
			color = core.ColorBrightYellow
		}
		glyph := g.skin.Glyph
		items = append(items, drawable{depth: d - 0.01, draw: func(dst *core.Screen) {
			for y := int(cy) - hh; y <= int(cy)+hh; y++ {
				for x := int(cx) - hw; x < int(cx)+hw; x++ {
					dst.SetColor(x, y, glyph, color)
				}
			}
		}})
	}

	return items
}

func tileStyle(t PathTile, opacity float64) (rune, core.Color) {
	glyph := TileChar
	switch {
	case opacity < 0.4:
		glyph = TileGhostChar
	case opacity < 1:
		glyph = TileFadeChar
	}

	switch {
	case t.Safety:
		return glyph, core.ColorBrightGreen
	case t.Accent:
		return glyph, core.ColorRed
	case opacity < 1:
		return glyph, core.ColorDarkGray
	default:
		return glyph, core.ColorGray
	}
}

// fillQuad fills a convex screen-space quad.
func fillQuad(dst *core.Screen, q [4][2]float64, glyph rune, color core.Color) {
	minX, minY := q[0][0], q[0][1]
	maxX, maxY := minX, minY
	for _, p := range q[1:] {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}

	x0 := core.Clamp(int(math.Floor(minX)), 0, dst.Width()-1)
	x1 := core.Clamp(int(math.Ceil(maxX)), 0, dst.Width()-1)
	y0 := core.Clamp(int(math.Floor(minY)), 0, dst.Height()-1)
	y1 := core.Clamp(int(math.Ceil(maxY)), 0, dst.Height()-1)

	drawn := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if insideQuad(q, float64(x)+0.5, float64(y)+0.5) {
				dst.SetColor(x, y, glyph, color)
				drawn = true
			}
		}
	}
	// Distant tiles shrink below one cell; keep them visible.
	if !drawn && maxX >= 0 && minX < float64(dst.Width()) && maxY >= 0 && minY < float64(dst.Height()) {
		dst.SetColor(int((minX+maxX)/2), int((minY+maxY)/2), glyph, color)
	}
}

func insideQuad(q [4][2]float64, x, y float64) bool {
	sign := 0.0
	for i := range q {
		a, b := q[i], q[(i+1)%4]
		cross := (b[0]-a[0])*(y-a[1]) - (b[1]-a[1])*(x-a[0])
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

func (g *Game) drawHUD(dst *core.Screen) {
	dst.DrawTextColor(2, 0, fmt.Sprintf(" Score: %d ", g.score), core.ColorBrightWhite)

	if g.starsCollected > 0 {
		dst.DrawTextColor(16, 0, fmt.Sprintf(" %c %d ", StarChar, g.starsCollected), core.ColorBrightYellow)
	}

	if ms := g.InvincibilityRemaining(); ms > 0 {
		dst.DrawTextCentered(0, fmt.Sprintf(" SHIELD %.1fs ", float64(ms)/1000), core.ColorBrightGreen)
	}

	if g.player.Boosting() {
		const barW = 10
		filled := barW - int(g.player.BoostProgress()*barW)
		bar := strings.Repeat(string(BoostFull), filled) + strings.Repeat(string(BoostEmpty), barW-filled)
		text := fmt.Sprintf(" BOOST %s ", bar)
		dst.DrawTextColor(dst.Width()-len([]rune(text))-2, 0, text, core.ColorOrange)
	} else if g.difficulty.IsEnabled() && g.phase == PhasePlaying {
		text := fmt.Sprintf(" Lvl: %.0f%% ", g.path.Difficulty()*100)
		dst.DrawTextColor(dst.Width()-len(text)-2, 0, text, core.ColorGray)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title string, lines ...string) {
	w := dst.Width()
	h := dst.Height()

	boxW := len([]rune(title))
	for _, l := range lines {
		boxW = max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := len(lines) + 4
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	r := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(r, ' ')
	dst.DrawBox(r, core.ColorWhite)

	dst.DrawTextCentered(boxY+1, title, core.ColorBrightRed)
	for i, l := range lines {
		dst.DrawTextCentered(boxY+3+i, l, core.ColorDefault)
	}
}
