package virt

// VariableList virtualizes a single-column list whose items have independent
// heights. Heights are cached per index as they are measured; an unmeasured
// item contributes the default height, so the layout converges over a few
// frames of scrolling instead of requiring an up-front measurement pass.
//
// Spatial queries walk the height cache and are O(item count); the rendered
// span stays bounded by MaxVisibleItems regardless of walk cost. The cache
// is sized once at construction and never grows.
type VariableList struct {
	itemCount     int
	defaultHeight float64
	gap           float64

	// heights[i] == 0 means unmeasured, use the default height. Any
	// positive value is the last rendered extent of item i.
	heights []float64

	scrollOffset   float64
	viewportHeight float64
	overdraw       int

	pending pendingScroll
}

// NewVariableList creates a variable list holding at most maxItems items,
// each assumed defaultHeight tall until measured.
func NewVariableList(maxItems int, defaultHeight float64) *VariableList {
	if maxItems < 0 {
		maxItems = 0
	}
	if defaultHeight < 0 {
		defaultHeight = 0
	}
	return &VariableList{
		defaultHeight: defaultHeight,
		heights:       make([]float64, maxItems),
	}
}

// ItemCount returns the total item count.
func (l *VariableList) ItemCount() int {
	return l.itemCount
}

// Capacity returns the fixed item capacity.
func (l *VariableList) Capacity() int {
	return len(l.heights)
}

// ScrollOffset returns the current scroll offset.
func (l *VariableList) ScrollOffset() float64 {
	return l.scrollOffset
}

// ViewportHeight returns the last-known viewport extent.
func (l *VariableList) ViewportHeight() float64 {
	return l.viewportHeight
}

// SetItemCount sets the total item count and re-clamps the scroll offset.
// Counts past the fixed capacity are refused with ErrCapacity and leave the
// state unchanged.
func (l *VariableList) SetItemCount(n int) error {
	if n < 0 {
		n = 0
	}
	if n > len(l.heights) {
		return ErrCapacity
	}
	l.itemCount = n
	l.scrollOffset = clampOffset(l.scrollOffset, l.MaxScrollOffset())
	return nil
}

// SetDefaultHeight changes the unmeasured-item height, preserving the scroll
// percentage rather than the absolute offset.
func (l *VariableList) SetDefaultHeight(h float64) {
	assertf(h >= 0, "negative default height %v", h)
	if h < 0 {
		h = 0
	}
	pct := l.scrollPercent()
	l.defaultHeight = h
	l.scrollOffset = clampOffset(pct*l.MaxScrollOffset(), l.MaxScrollOffset())
}

// SetGap changes the inter-item gap, preserving the scroll percentage.
func (l *VariableList) SetGap(g float64) {
	assertf(g >= 0, "negative gap %v", g)
	if g < 0 {
		g = 0
	}
	pct := l.scrollPercent()
	l.gap = g
	l.scrollOffset = clampOffset(pct*l.MaxScrollOffset(), l.MaxScrollOffset())
}

// SetOverdraw sets the overdraw margin in items.
func (l *VariableList) SetOverdraw(n int) {
	if n < 0 {
		n = 0
	}
	l.overdraw = n
}

// SetViewportHeight records the viewport extent determined by layout.
func (l *VariableList) SetViewportHeight(h float64) {
	assertf(h >= 0, "negative viewport height %v", h)
	if h < 0 {
		h = 0
	}
	l.viewportHeight = h
	l.scrollOffset = clampOffset(l.scrollOffset, l.MaxScrollOffset())
}

// SetMeasuredHeight stores the rendered extent of item i, written back by
// the caller after the item renders. Out-of-range indices and non-positive
// heights are ignored.
func (l *VariableList) SetMeasuredHeight(i int, h float64) {
	if i < 0 || i >= l.itemCount || h <= 0 {
		return
	}
	l.heights[i] = h
}

// InvalidateHeight forgets the measured height of item i, reverting it to
// the default until re-measured. Used when a single item's content changes.
func (l *VariableList) InvalidateHeight(i int) {
	if i < 0 || i >= len(l.heights) {
		return
	}
	l.heights[i] = 0
}

// InvalidateHeights forgets every measured height. Used when the underlying
// data identity changes.
func (l *VariableList) InvalidateHeights() {
	for i := range l.heights {
		l.heights[i] = 0
	}
}

// ItemHeight returns the effective height of item i: the cached measurement,
// or the default when unmeasured. Out-of-range indices return 0.
func (l *VariableList) ItemHeight(i int) float64 {
	if i < 0 || i >= l.itemCount {
		return 0
	}
	if h := l.heights[i]; h > 0 {
		return h
	}
	return l.defaultHeight
}

// scrollPercent returns the offset as a fraction of the scrollable extent.
func (l *VariableList) scrollPercent() float64 {
	max := l.MaxScrollOffset()
	if max <= 0 {
		return 0
	}
	return l.scrollOffset / max
}

// topYOf accumulates heights and gaps of items before i. The same
// accumulation order backs every spatial query so partial sums agree
// exactly in floating point.
func (l *VariableList) topYOf(i int) float64 {
	y := 0.0
	for j := 0; j < i; j++ {
		y += l.ItemHeight(j) + l.gap
	}
	return y
}

// bottomYOf returns the bottom edge of item i-1: the prefix walk minus the
// trailing gap. ContentExtent, rangeExtent, and the spacers are all
// differences of these edge coordinates, so their sums telescope back to
// ContentExtent without accumulating independent rounding error.
func (l *VariableList) bottomYOf(i int) float64 {
	if i <= 0 {
		return 0
	}
	return l.topYOf(i) - l.gap
}

// ContentExtent returns the total pixel extent of all items and gaps.
func (l *VariableList) ContentExtent() float64 {
	return l.bottomYOf(l.itemCount)
}

// MaxScrollOffset returns the largest valid scroll offset.
func (l *VariableList) MaxScrollOffset() float64 {
	max := l.ContentExtent() - l.viewportHeight
	if max < 0 {
		return 0
	}
	return max
}

// ItemTopY returns the top edge of item i in content space, or 0 for an
// out-of-range index.
func (l *VariableList) ItemTopY(i int) float64 {
	if i < 0 || i >= l.itemCount {
		return 0
	}
	return l.topYOf(i)
}

// ItemAtY returns the index of the item overlapping content-space y, or
// NoIndex when the list is empty. Coordinates past either end clamp to the
// first or last item; y inside a gap resolves to the preceding item.
func (l *VariableList) ItemAtY(y float64) int {
	if l.itemCount == 0 {
		return NoIndex
	}
	if y < 0 {
		return 0
	}
	top := 0.0
	for i := 0; i < l.itemCount; i++ {
		bottom := top + l.ItemHeight(i) + l.gap
		if y < bottom {
			return i
		}
		top = bottom
	}
	return l.itemCount - 1
}

// VisibleRange walks the height cache to find the items overlapping the
// viewport, expands by the overdraw margin, and clamps the span to
// MaxVisibleItems.
func (l *VariableList) VisibleRange() RowRange {
	if l.itemCount == 0 || l.viewportHeight <= 0 {
		return RowRange{}
	}

	viewBottom := l.scrollOffset + l.viewportHeight
	first := l.itemCount // first item whose bottom edge passes the offset
	last := l.itemCount  // first item fully below the viewport

	top := 0.0
	for i := 0; i < l.itemCount; i++ {
		bottom := top + l.ItemHeight(i)
		if first == l.itemCount && bottom > l.scrollOffset {
			first = i
		}
		if top >= viewBottom {
			last = i
			break
		}
		top = bottom + l.gap
	}
	if first == l.itemCount {
		// Scrolled past all content; clamp to the tail.
		first = l.itemCount - 1
	}

	start := first - l.overdraw
	end := last + l.overdraw
	if start < 0 {
		start = 0
	}
	if end > l.itemCount {
		end = l.itemCount
	}
	if end < start {
		end = start
	}
	if end-start > MaxVisibleItems {
		end = start + MaxVisibleItems
	}
	return RowRange{Start: start, End: end}
}

// TopSpacer returns the exact pixel extent to reserve above the rendered
// range: the excluded leading items, each with its trailing gap.
func (l *VariableList) TopSpacer(r RowRange) float64 {
	if r.Start <= 0 {
		return 0
	}
	return l.topYOf(r.Start)
}

// BottomSpacer returns the exact pixel extent to reserve below the rendered
// range: the content extent past the block's bottom edge. TopSpacer +
// rendered block + BottomSpacer equals ContentExtent exactly.
func (l *VariableList) BottomSpacer(r RowRange) float64 {
	rest := l.ContentExtent() - l.bottomYOf(l.clampEnd(r.End))
	if rest < 0 {
		return 0
	}
	return rest
}

// rangeExtent returns the rendered block extent of r, its items plus the
// gaps between them, measured between the block's edge coordinates.
func (l *VariableList) rangeExtent(r RowRange) float64 {
	if r.Count() <= 0 {
		return 0
	}
	ext := l.bottomYOf(l.clampEnd(r.End)) - l.TopSpacer(r)
	if ext < 0 {
		return 0
	}
	return ext
}

func (l *VariableList) clampEnd(end int) int {
	if end > l.itemCount {
		return l.itemCount
	}
	return end
}

// ScrollTo records a pending absolute scroll request.
func (l *VariableList) ScrollTo(offset float64) {
	l.pending.setOffset(clampOffset(offset, l.MaxScrollOffset()))
}

// ScrollBy records a pending scroll relative to the current offset.
func (l *VariableList) ScrollBy(delta float64) {
	l.ScrollTo(l.scrollOffset + delta)
}

// ScrollToTop records a pending scroll to the content origin.
func (l *VariableList) ScrollToTop() {
	l.pending.setOffset(0)
}

// ScrollToItem records a request to bring item i into view. The start
// strategy resolves immediately to an absolute offset; the others defer to
// ResolvePendingScroll. Out-of-range indices are ignored.
func (l *VariableList) ScrollToItem(i int, strategy ScrollStrategy) {
	if i < 0 || i >= l.itemCount {
		return
	}
	if strategy == ScrollStart {
		l.pending.setOffset(clampOffset(l.ItemTopY(i), l.MaxScrollOffset()))
		return
	}
	l.pending.setItem(i, strategy)
}

// HasPendingScroll reports whether an unresolved scroll request exists.
func (l *VariableList) HasPendingScroll() bool {
	return l.pending.kind != pendingNone
}

// ResolvePendingScroll applies and clears the pending scroll request under
// the current viewport dimensions, reporting whether the offset changed.
func (l *VariableList) ResolvePendingScroll() bool {
	p := l.pending
	l.pending.clear()

	prev := l.scrollOffset
	switch p.kind {
	case pendingOffset:
		l.scrollOffset = clampOffset(p.offset, l.MaxScrollOffset())
	case pendingItem:
		if p.item < 0 || p.item >= l.itemCount {
			return false
		}
		target := resolveStrategy(p.strategy, l.ItemTopY(p.item), l.ItemHeight(p.item), l.scrollOffset, l.viewportHeight)
		l.scrollOffset = clampOffset(target, l.MaxScrollOffset())
	default:
		return false
	}
	return l.scrollOffset != prev
}
