package host

import "github.com/mattn/go-runewidth"

// Color is a 24-bit RGB value, or ColorDefault for the surface default.
type Color int32

// ColorDefault leaves the cell color up to the surface.
const ColorDefault Color = -1

// RGB builds a Color from components.
func RGB(r, g, b uint8) Color {
	return Color(int32(r)<<16 | int32(g)<<8 | int32(b))
}

// RGB returns the color components. Only meaningful for non-default colors.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// IsDefault reports whether the color is the surface default.
func (c Color) IsDefault() bool { return c < 0 }

// AttrMask is a bitmask of text attributes.
type AttrMask uint8

const (
	AttrBold AttrMask = 1 << iota
	AttrUnderline
	AttrReverse
	AttrDim
)

// Style is the visual style of a cell.
type Style struct {
	Fg, Bg Color
	Attrs  AttrMask
}

// DefaultStyle returns a style with default colors and no attributes.
func DefaultStyle() Style {
	return Style{Fg: ColorDefault, Bg: ColorDefault}
}

// Cell is a single canvas cell.
type Cell struct {
	Rune  rune
	Style Style
}

// Buffer is the offscreen backing store: a cell grid with dirty tracking so
// surfaces can present only what changed. Widgets draw into it each redraw;
// ticks without a redraw re-present the previous contents.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	dirty      []bool
	dirtyCount int
	dirtyRect  Rect
}

// NewBuffer creates a buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{
		cells:  make([]Cell, w*h),
		dirty:  make([]bool, w*h),
		width:  w,
		height: h,
	}
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the buffer dimensions, preserving content where possible.
// A resize to the current dimensions is a no-op.
func (b *Buffer) Resize(w, h int) {
	if w == b.width && h == b.height {
		return
	}
	newCells := make([]Cell, w*h)
	for y := 0; y < min(h, b.height); y++ {
		for x := 0; x < min(w, b.width); x++ {
			newCells[y*w+x] = b.cells[y*b.width+x]
		}
	}
	b.cells = newCells
	b.dirty = make([]bool, w*h)
	b.width = w
	b.height = h
	b.MarkAllDirty()
}

// Clear fills the buffer with spaces and the default style.
func (b *Buffer) Clear() {
	b.Fill(Rect{0, 0, b.width, b.height}, ' ', DefaultStyle())
}

// Get returns the cell at (x, y), or an empty cell out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.width+x]
}

// Set writes a rune with style at (x, y). Out-of-bounds writes are dropped.
// The cell is marked dirty only if its content actually changed.
func (b *Buffer) Set(x, y int, r rune, s Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	old := b.cells[idx]
	if old.Rune != r || old.Style != s {
		b.cells[idx] = Cell{Rune: r, Style: s}
		b.markCellDirty(x, y, idx)
	}
}

// SetString writes a string starting at (x, y), clipping to the buffer and
// advancing by display width so wide runes occupy two cells.
func (b *Buffer) SetString(x, y int, s string, style Style) {
	if y < 0 || y >= b.height {
		return
	}
	px := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if px >= b.width {
			break
		}
		if px >= 0 {
			b.Set(px, y, r, style)
			if w == 2 && px+1 < b.width {
				b.Set(px+1, y, 0, style)
			}
		}
		px += w
	}
}

// Fill fills a rectangular region with a rune and style.
func (b *Buffer) Fill(r Rect, ch rune, s Style) {
	clipped := r.Intersect(Rect{0, 0, b.width, b.height})
	if clipped.Empty() {
		return
	}
	cell := Cell{Rune: ch, Style: s}
	for y := clipped.Y; y < clipped.Y+clipped.H; y++ {
		for x := clipped.X; x < clipped.X+clipped.W; x++ {
			idx := y*b.width + x
			if b.cells[idx] != cell {
				b.cells[idx] = cell
				b.markCellDirty(x, y, idx)
			}
		}
	}
}

// DrawBox draws a border around a rect using box-drawing characters.
func (b *Buffer) DrawBox(r Rect, s Style) {
	if r.W < 2 || r.H < 2 {
		return
	}
	b.Set(r.X, r.Y, '┌', s)
	b.Set(r.X+r.W-1, r.Y, '┐', s)
	b.Set(r.X, r.Y+r.H-1, '└', s)
	b.Set(r.X+r.W-1, r.Y+r.H-1, '┘', s)
	for x := r.X + 1; x < r.X+r.W-1; x++ {
		b.Set(x, r.Y, '─', s)
		b.Set(x, r.Y+r.H-1, '─', s)
	}
	for y := r.Y + 1; y < r.Y+r.H-1; y++ {
		b.Set(r.X, y, '│', s)
		b.Set(r.X+r.W-1, y, '│', s)
	}
}

// markCellDirty marks one cell dirty and grows the dirty bounding box.
func (b *Buffer) markCellDirty(x, y, idx int) {
	if b.dirty[idx] {
		return
	}
	b.dirty[idx] = true
	b.dirtyCount++
	if b.dirtyCount == 1 {
		b.dirtyRect = Rect{X: x, Y: y, W: 1, H: 1}
		return
	}
	if x < b.dirtyRect.X {
		b.dirtyRect.W += b.dirtyRect.X - x
		b.dirtyRect.X = x
	} else if x >= b.dirtyRect.X+b.dirtyRect.W {
		b.dirtyRect.W = x - b.dirtyRect.X + 1
	}
	if y < b.dirtyRect.Y {
		b.dirtyRect.H += b.dirtyRect.Y - y
		b.dirtyRect.Y = y
	} else if y >= b.dirtyRect.Y+b.dirtyRect.H {
		b.dirtyRect.H = y - b.dirtyRect.Y + 1
	}
}

// MarkAllDirty marks the entire buffer dirty.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	b.dirtyCount = len(b.dirty)
	b.dirtyRect = Rect{X: 0, Y: 0, W: b.width, H: b.height}
}

// ClearDirty resets all dirty flags.
func (b *Buffer) ClearDirty() {
	clear(b.dirty)
	b.dirtyCount = 0
	b.dirtyRect = Rect{}
}

// IsDirty reports whether any cell changed since the last ClearDirty.
func (b *Buffer) IsDirty() bool { return b.dirtyCount > 0 }

// DirtyCount returns the number of dirty cells.
func (b *Buffer) DirtyCount() int { return b.dirtyCount }

// DirtyRect returns the bounding box of dirty cells.
func (b *Buffer) DirtyRect() Rect { return b.dirtyRect }

// ForEachDirtyCell calls fn for each dirty cell. When most of the buffer is
// dirty it scans linearly, otherwise it walks the dirty bounding box.
func (b *Buffer) ForEachDirtyCell(fn func(x, y int, cell Cell)) {
	if b.dirtyCount == 0 {
		return
	}
	if b.dirtyCount > b.width*b.height/2 {
		for y := 0; y < b.height; y++ {
			for x := 0; x < b.width; x++ {
				idx := y*b.width + x
				if b.dirty[idx] {
					fn(x, y, b.cells[idx])
				}
			}
		}
		return
	}
	for y := b.dirtyRect.Y; y < b.dirtyRect.Y+b.dirtyRect.H && y < b.height; y++ {
		for x := b.dirtyRect.X; x < b.dirtyRect.X+b.dirtyRect.W && x < b.width; x++ {
			idx := y*b.width + x
			if b.dirty[idx] {
				fn(x, y, b.cells[idx])
			}
		}
	}
}
