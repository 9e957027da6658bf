package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// Canvas is a color drawing buffer with 2x vertical resolution using half-block
// characters. Supports scaling from logical coordinates to actual terminal pixels.
// Render only emits cells that changed since the previous frame.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]; zero Color = unset
	prev           []cell  // What the terminal currently shows, per cell

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height (in sub-pixels)
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	brightness float64 // Multiplier applied to every pixel at render time

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder // Buffer for batching render output
	scaledBuf       []Point         // Reusable buffer for fillPolygon scaled points
	intersectionBuf []float64       // Reusable buffer for scanline intersections
	polygonBuf      []Point         // Reusable buffer for polygon point generation
}

// cell is one terminal character: two stacked sub-pixels.
type cell struct {
	top, bottom Color
	valid       bool // false forces a rewrite on the next Render
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		brightness:    1,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	subPixelHeight := termHeight * 2

	// Reallocate if size changed
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]Color, subPixelHeight*termWidth)
		c.prev = make([]cell, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	// Update scale factors
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// SetBrightness sets the render brightness in percent. 100 leaves colors
// unchanged; lower values darken every pixel.
func (c *Canvas) SetBrightness(percent int) {
	b := float64(percent) / 100
	if b < 0.2 {
		b = 0.2
	}
	if b > 1 {
		b = 1
	}
	if b != c.brightness {
		c.brightness = b
		c.ForceRedraw()
	}
}

// ForceRedraw makes the next Render rewrite every cell.
func (c *Canvas) ForceRedraw() {
	for i := range c.prev {
		c.prev[i].valid = false
	}
}

// MarkTextDirty invalidates n cells starting at the 1-based canvas position
// (col, row) so text written there is painted over on the next Render.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+n; x++ {
		if x >= 0 && x < c.termWidth {
			c.prev[r*c.termWidth+x].valid = false
		}
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = color
	}
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64, color Color) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.setPixel(px, py, color)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, color Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, color)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, filled bool, color Color) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, color)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], color)
	}
}

// FillCircle fills a disc of logical radius r centred at (cx, cy).
// Discs smaller than a pixel still set the centre pixel.
func (c *Canvas) FillCircle(cx, cy, r float64, color Color) {
	x0 := int(math.Floor((cx - r) * c.scaleX))
	x1 := int(math.Ceil((cx + r) * c.scaleX))
	y0 := int(math.Floor((cy - r) * c.scaleY))
	y1 := int(math.Ceil((cy + r) * c.scaleY))
	r2 := r * r
	hit := false
	for py := y0; py <= y1; py++ {
		ly := (float64(py)+0.5)/c.scaleY - cy
		for px := x0; px <= x1; px++ {
			lx := (float64(px)+0.5)/c.scaleX - cx
			if lx*lx+ly*ly <= r2 {
				c.setPixel(px, py, color)
				hit = true
			}
		}
	}
	if !hit {
		c.SetFloat(cx, cy, color)
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point, color Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))
	if yStart < 0 {
		yStart = 0
	}
	if yEnd >= c.subPixelHeight {
		yEnd = c.subPixelHeight - 1
	}

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, color)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs changed cells to the writer using colored half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	var fg, bg Color
	var hasFG, hasBG bool
	reset := func() {
		if hasFG || hasBG {
			c.renderBuf.WriteString(ColorReset)
			hasFG, hasBG = false, false
		}
	}
	setFG := func(col Color) {
		if !hasFG || fg != col {
			c.renderBuf.WriteString(col.FG())
			fg, hasFG = col, true
		}
	}
	setBG := func(col Color) {
		if !hasBG || bg != col {
			c.renderBuf.WriteString(col.BG())
			bg, hasBG = col, true
		}
	}

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := (row*2 + 1) * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			now := cell{
				top:    c.shade(c.pixels[topOffset+col]),
				bottom: c.shade(c.pixels[bottomOffset+col]),
				valid:  true,
			}
			idx := row*c.termWidth + col
			if c.prev[idx] == now {
				continue
			}
			c.prev[idx] = now

			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, col+1+c.offsetCol)

			switch {
			case now.top.IsZero() && now.bottom.IsZero():
				reset()
				c.renderBuf.WriteByte(' ')
			case now.top == now.bottom:
				if hasBG {
					reset()
				}
				setFG(now.top)
				c.renderBuf.WriteRune(BlockFull)
			case now.bottom.IsZero():
				if hasBG {
					reset()
				}
				setFG(now.top)
				c.renderBuf.WriteRune(BlockUpperHalf)
			case now.top.IsZero():
				if hasBG {
					reset()
				}
				setFG(now.bottom)
				c.renderBuf.WriteRune(BlockLowerHalf)
			default:
				setFG(now.top)
				setBG(now.bottom)
				c.renderBuf.WriteRune(BlockUpperHalf)
			}
		}
	}
	reset()

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// shade applies the brightness multiplier.
func (c *Canvas) shade(col Color) Color {
	if c.brightness >= 1 || col.IsZero() {
		return col
	}
	return col.Scale(c.brightness)
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, strings.Repeat("─", c.termWidth))
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
// Thread-safe as long as each goroutine uses its own Canvas instance.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
