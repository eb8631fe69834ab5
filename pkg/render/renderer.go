package render

import (
	"image/color"
	"math"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/citescope/citescope/pkg/graph"
	"github.com/citescope/citescope/pkg/interact"
	"github.com/citescope/citescope/pkg/observability"
	"github.com/citescope/citescope/pkg/viewport"
)

const (
	labelFontSize = 11
	chipFontSize  = 9
	glyphFontSize = 13

	labelMaxRunes = 15

	edgeWidth          = 1.5
	edgeWidthHighlight = 2.6

	particleCount          = 3
	particleCountHighlight = 5
	particlePeriod         = 3 * time.Second
	particlePeriodFast     = 1800 * time.Millisecond
	particleRadius         = 2.0
	particleRadiusBright   = 2.8

	arrowSize = 7.0
	glowWidth = 3.0
)

// Renderer draws frames with a fixed theme and pre-built font faces.
// It holds no graph or interaction state; everything varying arrives as
// arguments to Draw.
type Renderer struct {
	theme Theme

	labelFace font.Face
	chipFace  font.Face
	glyphFace font.Face
}

// New creates a renderer with the given theme.
func New(theme Theme) (*Renderer, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := func(size float64) (font.Face, error) {
		return opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	r := &Renderer{theme: theme}
	if r.labelFace, err = face(labelFontSize); err != nil {
		return nil, err
	}
	if r.chipFace, err = face(chipFontSize); err != nil {
		return nil, err
	}
	if r.glyphFace, err = face(glyphFontSize); err != nil {
		return nil, err
	}
	return r, nil
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() Theme { return r.theme }

// Draw renders one frame onto dc. A nil or empty graph clears the
// background and returns; a nil state renders without highlights. Node
// positions are read as-is - layout must already have run.
//
// All geometry is computed in device pixels by mapping world coordinates
// through view, with sizes held constant in device pixels (the
// divide-by-scale convention).
func (r *Renderer) Draw(dc *gg.Context, g *graph.Graph, st *interact.State, view viewport.Transform, elapsed time.Duration) {
	start := time.Now()
	defer func() { observability.Render().OnFrame(time.Since(start)) }()

	dc.SetColor(r.theme.Background)
	dc.Clear()

	if g == nil || g.NodeCount() == 0 {
		return
	}

	hovered := ""
	if st != nil {
		hovered = st.HoveredID
	}

	for _, e := range g.Edges {
		src, dst := g.Node(e.Source), g.Node(e.Target)
		if src == nil || dst == nil {
			continue // malformed edge: skip, never an error
		}
		highlight := hovered != "" && (e.Source == hovered || e.Target == hovered)
		r.drawEdge(dc, src, dst, e.Relation, view, elapsed, highlight)
	}

	for _, n := range g.Nodes {
		r.drawNode(dc, n, st, view, hovered)
	}
}

// =============================================================================
// Edges
// =============================================================================

func (r *Renderer) drawEdge(dc *gg.Context, src, dst *graph.Node, relation string, view viewport.Transform, elapsed time.Duration, highlight bool) {
	x1, y1 := view.WorldToDevice(src.X, src.Y)
	x2, y2 := view.WorldToDevice(dst.X, dst.Y)

	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	if dist < 1e-6 {
		return
	}
	ux, uy := dx/dist, dy/dist

	// Trim endpoints to the disk edges so arrowheads sit on the rim.
	srcR := src.Profile().VisualRadius
	dstR := dst.Profile().VisualRadius
	sx, sy := x1+ux*srcR, y1+uy*srcR
	tx, ty := x2-ux*(dstR+arrowSize), y2-uy*(dstR+arrowSize)
	if math.Hypot(tx-sx, ty-sy) < 1 {
		return
	}

	edgeColor := r.theme.Edge
	width := edgeWidth
	if highlight {
		edgeColor = r.theme.EdgeHighlight
		width = edgeWidthHighlight
	}

	dc.SetColor(edgeColor)
	dc.SetLineWidth(width)
	dc.DrawLine(sx, sy, tx, ty)
	dc.Stroke()

	r.drawArrowhead(dc, tx, ty, ux, uy, edgeColor)

	if relation != "" {
		r.drawRelationChip(dc, (sx+tx)/2, (sy+ty)/2, relation)
	}

	r.drawParticles(dc, sx, sy, tx, ty, elapsed, highlight)
}

func (r *Renderer) drawArrowhead(dc *gg.Context, tipX, tipY, ux, uy float64, c color.Color) {
	// Perpendicular for the triangle base.
	px, py := -uy, ux
	baseX, baseY := tipX+ux*arrowSize, tipY+uy*arrowSize

	dc.SetColor(c)
	dc.MoveTo(baseX, baseY)
	dc.LineTo(tipX-px*arrowSize/2, tipY-py*arrowSize/2)
	dc.LineTo(tipX+px*arrowSize/2, tipY+py*arrowSize/2)
	dc.ClosePath()
	dc.Fill()
}

func (r *Renderer) drawRelationChip(dc *gg.Context, x, y float64, relation string) {
	dc.SetFontFace(r.chipFace)
	w, h := dc.MeasureString(relation)
	pad := 4.0

	dc.SetColor(r.theme.ChipFill)
	dc.DrawRoundedRectangle(x-w/2-pad, y-h/2-pad, w+2*pad, h+2*pad, 4)
	dc.Fill()

	dc.SetColor(r.theme.ChipText)
	dc.DrawStringAnchored(relation, x, y, 0.5, 0.35)
}

func (r *Renderer) drawParticles(dc *gg.Context, sx, sy, tx, ty float64, elapsed time.Duration, highlight bool) {
	count := particleCount
	period := particlePeriod
	radius := particleRadius
	if highlight {
		count = particleCountHighlight
		period = particlePeriodFast
		radius = particleRadiusBright
	}

	dc.SetColor(r.theme.Particle)
	for i := 0; i < count; i++ {
		frac := particlePhase(elapsed, period, i, count)
		dc.DrawCircle(sx+(tx-sx)*frac, sy+(ty-sy)*frac, radius)
		dc.Fill()
	}
}

// particlePhase returns the fractional position along an edge of particle
// i out of count at the given animation time: (t/period + i/count) mod 1.
func particlePhase(elapsed, period time.Duration, i, count int) float64 {
	frac := elapsed.Seconds()/period.Seconds() + float64(i)/float64(count)
	return frac - math.Floor(frac)
}

// =============================================================================
// Nodes
// =============================================================================

func (r *Renderer) drawNode(dc *gg.Context, n *graph.Node, st *interact.State, view viewport.Transform, hovered string) {
	x, y := view.WorldToDevice(n.X, n.Y)
	radius := n.Profile().VisualRadius
	base := r.theme.NodeColor(n.Type)

	// Glow ring behind the disk for hovered/selected/connected nodes.
	if glow, ok := r.glowColor(n.ID, st, hovered); ok {
		dc.SetColor(glow)
		dc.SetLineWidth(glowWidth)
		dc.DrawCircle(x, y, radius+glowWidth)
		dc.Stroke()
	}

	// Glass-morphic disk: radial gradient offset toward the light.
	grad := gg.NewRadialGradient(x-radius*0.35, y-radius*0.35, radius*0.1, x, y, radius)
	grad.AddColorStop(0, lighten(base, 0.55))
	grad.AddColorStop(0.65, base)
	grad.AddColorStop(1, darken(base, 0.45))
	dc.SetFillStyle(grad)
	dc.DrawCircle(x, y, radius)
	dc.Fill()

	// Rim line keeps disks readable on busy backgrounds.
	dc.SetColor(withAlpha(lighten(base, 0.3), 0x60))
	dc.SetLineWidth(1)
	dc.DrawCircle(x, y, radius)
	dc.Stroke()

	// Centered type glyph.
	dc.SetFontFace(r.glyphFace)
	dc.SetColor(darken(base, 0.75))
	dc.DrawStringAnchored(r.theme.Glyph(n.Type), x, y, 0.5, 0.35)

	r.drawLabelChip(dc, n, x, y+radius, n.ID == hovered)
}

// glowColor picks the ring color by priority: hovered, selected, then
// one-hop-connected to the hovered node.
func (r *Renderer) glowColor(id string, st *interact.State, hovered string) (c color.Color, ok bool) {
	if st == nil {
		return nil, false
	}
	switch {
	case id == hovered && hovered != "":
		return r.theme.GlowHovered, true
	case id == st.SelectedID && id != "":
		return r.theme.GlowSelected, true
	case hovered != "" && st.Connected[id]:
		return r.theme.GlowConnected, true
	}
	return nil, false
}

func (r *Renderer) drawLabelChip(dc *gg.Context, n *graph.Node, x, bottomY float64, hovered bool) {
	label := n.DisplayLabel()
	if !hovered {
		label = truncateLabel(label, labelMaxRunes)
	}
	if label == "" {
		return
	}

	dc.SetFontFace(r.labelFace)
	w, h := dc.MeasureString(label)
	pad := 5.0
	cy := bottomY + 8 + h/2 + pad

	dc.SetColor(r.theme.ChipFill)
	dc.DrawRoundedRectangle(x-w/2-pad, cy-h/2-pad, w+2*pad, h+2*pad, 5)
	dc.Fill()

	dc.SetColor(r.theme.ChipText)
	dc.DrawStringAnchored(label, x, cy, 0.5, 0.35)
}

// truncateLabel cuts a label to maxRunes and appends an ellipsis.
func truncateLabel(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "…"
}
