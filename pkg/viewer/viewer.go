package viewer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/citescope/citescope/pkg/anim"
	"github.com/citescope/citescope/pkg/cache"
	"github.com/citescope/citescope/pkg/errors"
	"github.com/citescope/citescope/pkg/graph"
	"github.com/citescope/citescope/pkg/interact"
	"github.com/citescope/citescope/pkg/layout"
	"github.com/citescope/citescope/pkg/render"
	"github.com/citescope/citescope/pkg/viewport"
)

const (
	noticeDuration  = 2500 * time.Millisecond
	overlayFontSize = 12
	fitPadding      = 40
)

// Options configures a viewer instance. Zero values fall back to
// sensible defaults.
type Options struct {
	Width  int
	Height int

	Layout layout.Options
	Cache  cache.Cache   // nil disables layout caching
	Theme  *render.Theme // nil means render.DefaultTheme

	ZoomStep float64
	MinZoom  float64
	MaxZoom  float64

	ExportDir string
	Logger    *log.Logger
}

// Viewer is the ebiten game hosting one or more knowledge graphs. All
// methods run on ebiten's game loop goroutine.
type Viewer struct {
	graphs  []*graph.Graph
	active  int
	laidOut []bool

	view  viewport.Transform
	ctrl  *interact.Controller
	sched *anim.Scheduler
	rend  *render.Renderer

	opts        Options
	logger      *log.Logger
	overlayFace font.Face

	dc   *gg.Context
	w, h int

	searching bool
	searchBuf []rune
	runeBuf   []rune

	notice      string
	noticeUntil time.Time
}

// New creates a viewer over the given graphs. The first graph is laid
// out and activated immediately; the rest lazily on switch.
func New(graphs []*graph.Graph, opts Options) (*Viewer, error) {
	if len(graphs) == 0 {
		return nil, errors.New(errors.ErrCodeNoGraph, "no graphs to view")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 800
	}
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = interact.DefaultZoomStep
	}
	if opts.MinZoom <= 0 {
		opts.MinZoom = 0.05
	}
	if opts.MaxZoom <= opts.MinZoom {
		opts.MaxZoom = 20
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	opts.Layout.Normalize()

	theme := render.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	rend, err := render.New(theme)
	if err != nil {
		return nil, err
	}

	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size: overlayFontSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		graphs:      graphs,
		laidOut:     make([]bool, len(graphs)),
		view:        viewport.New(),
		sched:       anim.NewScheduler(anim.DefaultInterval, nil),
		rend:        rend,
		opts:        opts,
		logger:      opts.Logger,
		overlayFace: face,
		w:           opts.Width,
		h:           opts.Height,
	}
	v.ctrl = interact.NewController(&v.view)
	v.ctrl.ZoomStep = opts.ZoomStep
	v.ctrl.Resize(float64(v.w), float64(v.h))
	v.dc = gg.NewContext(v.w, v.h)

	v.activate(0)
	return v, nil
}

// Run opens the window and blocks until the viewer quits.
func (v *Viewer) Run() error {
	ebiten.SetWindowTitle("citescope")
	ebiten.SetWindowSize(v.w, v.h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	v.sched.Start()
	defer v.sched.Stop()

	return ebiten.RunGame(v)
}

// activate switches to graph i, laying it out on first visit, and fits
// the viewport to it.
func (v *Viewer) activate(i int) {
	v.active = i
	g := v.graphs[i]

	if !v.laidOut[i] {
		res := layout.CachedRun(context.Background(), g, v.opts.Layout, v.opts.Cache)
		v.laidOut[i] = true
		v.logger.Debug("layout done",
			"graph", g.ToolName, "nodes", g.NodeCount(), "residual", res.Residual)
		if !res.Clean {
			v.showNotice(fmt.Sprintf("layout left %d overlapping pairs", res.Residual))
		}
	}

	v.ctrl.SetGraph(g)
	v.view.FitToBounds(g, float64(v.w), float64(v.h), fitPadding)
}

func (v *Viewer) showNotice(msg string) {
	v.notice = msg
	v.noticeUntil = time.Now().Add(noticeDuration)
}

// =============================================================================
// Game Loop
// =============================================================================

// Update handles one tick of input. It feeds pointer events to the
// interaction controller and keyboard events to the shell itself.
func (v *Viewer) Update() error {
	if v.searching {
		return v.updateSearch()
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ),
		inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination

	case inpututil.IsKeyJustPressed(ebiten.KeySlash):
		v.searching = true
		v.searchBuf = v.searchBuf[:0]
		return nil

	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		step := 1
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			step = len(v.graphs) - 1
		}
		v.activate((v.active + step) % len(v.graphs))

	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		v.view.FitToBounds(v.graphs[v.active], float64(v.w), float64(v.h), fitPadding)

	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		v.export()
	}

	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.ctrl.PointerDown(x, y)
	}
	v.ctrl.PointerMove(x, y)
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		v.ctrl.PointerUp(x, y)
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		factor := v.ctrl.ZoomStep
		if dy < 0 {
			factor = 1 / v.ctrl.ZoomStep
		}
		// Usability bounds live here, not in the transform.
		if next := v.view.Scale * factor; next >= v.opts.MinZoom && next <= v.opts.MaxZoom {
			v.ctrl.Wheel(x, y, dy)
		}
	}

	return nil
}

// updateSearch consumes keyboard input while the search prompt is open.
func (v *Viewer) updateSearch() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		v.searching = false
		return nil

	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		v.searching = false
		query := string(v.searchBuf)
		if n, err := v.ctrl.Search(query); err != nil {
			v.showNotice(errors.UserMessage(err))
		} else {
			v.showNotice(fmt.Sprintf("found %s", n.DisplayLabel()))
		}
		return nil

	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if len(v.searchBuf) > 0 {
			v.searchBuf = v.searchBuf[:len(v.searchBuf)-1]
		}
	}

	v.runeBuf = ebiten.AppendInputChars(v.runeBuf[:0])
	for _, r := range v.runeBuf {
		if r >= ' ' {
			v.searchBuf = append(v.searchBuf, r)
		}
	}
	return nil
}

// Draw renders the active graph plus shell overlays and blits the
// canvas to the screen.
func (v *Viewer) Draw(screen *ebiten.Image) {
	g := v.graphs[v.active]
	v.rend.Draw(v.dc, g, &v.ctrl.State, v.view, v.sched.Elapsed())
	v.drawOverlay(g)

	if rgba, ok := v.dc.Image().(*image.RGBA); ok {
		screen.WritePixels(rgba.Pix)
	}
}

// Layout reports the logical screen size, resizing the canvas when the
// window changes.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.w || outsideHeight != v.h {
		v.w, v.h = outsideWidth, outsideHeight
		v.dc = gg.NewContext(v.w, v.h)
		v.ctrl.Resize(float64(v.w), float64(v.h))
	}
	return v.w, v.h
}

// =============================================================================
// Overlays
// =============================================================================

func (v *Viewer) drawOverlay(g *graph.Graph) {
	dc := v.dc
	dc.SetFontFace(v.overlayFace)
	theme := v.rend.Theme()

	// Status line, bottom-left.
	status := fmt.Sprintf("%s  ·  %d nodes, %d edges  ·  %.0f%%",
		g.ToolName, g.NodeCount(), g.EdgeCount(), v.view.Scale*100)
	if len(v.graphs) > 1 {
		status = fmt.Sprintf("[%d/%d] %s", v.active+1, len(v.graphs), status)
	}
	dc.SetColor(theme.ChipText)
	dc.DrawString(status, 12, float64(v.h)-12)

	if v.searching {
		prompt := "/" + string(v.searchBuf) + "_"
		v.drawBanner(prompt, 14)
	} else if v.notice != "" && time.Now().Before(v.noticeUntil) {
		v.drawBanner(v.notice, 14)
	}

	if id := v.ctrl.State.SelectedID; id != "" {
		if n := g.Node(id); n != nil {
			v.drawNodeCard(n)
		}
	}
}

// drawBanner draws a centered chip with the given text near the top of
// the window.
func (v *Viewer) drawBanner(text string, top float64) {
	dc := v.dc
	theme := v.rend.Theme()
	w, h := dc.MeasureString(text)
	pad := 8.0
	x := float64(v.w)/2 - w/2

	dc.SetColor(theme.ChipFill)
	dc.DrawRoundedRectangle(x-pad, top, w+2*pad, h+2*pad, 6)
	dc.Fill()
	dc.SetColor(theme.ChipText)
	dc.DrawString(text, x, top+pad+h-2)
}

// drawNodeCard shows the selected node's label, type, and detail fields
// in the top-left corner.
func (v *Viewer) drawNodeCard(n *graph.Node) {
	dc := v.dc
	theme := v.rend.Theme()

	lines := append([]string{n.DisplayLabel(), n.Type.String()}, detailLines(n.Detail)...)

	maxW := 0.0
	lineH := 0.0
	for _, l := range lines {
		w, h := dc.MeasureString(l)
		if w > maxW {
			maxW = w
		}
		if h > lineH {
			lineH = h
		}
	}
	pad := 10.0
	step := lineH + 5
	cardH := step*float64(len(lines)) + 2*pad - 5

	dc.SetColor(theme.ChipFill)
	dc.DrawRoundedRectangle(12, 12, maxW+2*pad, cardH, 8)
	dc.Fill()

	for i, l := range lines {
		if i == 0 {
			dc.SetColor(theme.NodeColor(n.Type))
		} else {
			dc.SetColor(theme.ChipText)
		}
		dc.DrawString(l, 12+pad, 12+pad+lineH+step*float64(i)-3)
	}
}

// detailLines formats the typed detail payload for the node card.
func detailLines(d graph.Detail) []string {
	switch d := d.(type) {
	case graph.PaperDetail:
		lines := []string{}
		if d.Year != 0 {
			lines = append(lines, fmt.Sprintf("year %d", d.Year))
		}
		lines = append(lines, fmt.Sprintf("%d citations", d.Citations))
		if d.Venue != "" {
			lines = append(lines, d.Venue)
		}
		if d.DOI != "" {
			lines = append(lines, d.DOI)
		}
		return lines
	case graph.AuthorDetail:
		lines := []string{}
		if d.Affiliation != "" {
			lines = append(lines, d.Affiliation)
		}
		lines = append(lines, fmt.Sprintf("%d papers", d.PaperCount))
		return lines
	case graph.VenueDetail:
		if d.Kind != "" {
			return []string{d.Kind}
		}
	case graph.FieldDetail:
		if d.ParentField != "" {
			return []string{"part of " + d.ParentField}
		}
	case graph.ReferenceDetail:
		if d.Year != 0 {
			return []string{fmt.Sprintf("year %d", d.Year)}
		}
	}
	return nil
}

// =============================================================================
// Export
// =============================================================================

// export writes the current canvas to a timestamped PNG and surfaces
// the outcome as a notice.
func (v *Viewer) export() {
	g := v.graphs[v.active]
	path, err := render.ExportPNG(context.Background(), v.dc.Image(), v.opts.ExportDir, g.ToolName, time.Now())
	if err != nil {
		v.logger.Error("export failed", "error", err)
		v.showNotice(errors.UserMessage(err))
		return
	}
	v.logger.Info("exported", "path", path)
	v.showNotice("saved " + path)
}
