package virt

import "math"

// UniformList virtualizes a single-column list whose items all share one
// height plus an optional inter-item gap. Every spatial query is O(1)
// closed-form arithmetic over the stride (item height + gap).
//
// The value is retained across frames and owned by a single caller; it is
// never reconstructed per frame and performs no allocation after creation.
type UniformList struct {
	itemCount  int
	itemHeight float64
	gap        float64

	scrollOffset   float64
	viewportHeight float64
	overdraw       int

	pending pendingScroll
}

// NewUniformList creates a uniform list with the given item height.
func NewUniformList(itemHeight float64) *UniformList {
	if itemHeight < 0 {
		itemHeight = 0
	}
	return &UniformList{itemHeight: itemHeight}
}

// ItemCount returns the total item count.
func (l *UniformList) ItemCount() int {
	return l.itemCount
}

// ItemHeight returns the per-item height.
func (l *UniformList) ItemHeight() float64 {
	return l.itemHeight
}

// Gap returns the inter-item gap.
func (l *UniformList) Gap() float64 {
	return l.gap
}

// ScrollOffset returns the current scroll offset.
func (l *UniformList) ScrollOffset() float64 {
	return l.scrollOffset
}

// ViewportHeight returns the last-known viewport extent.
func (l *UniformList) ViewportHeight() float64 {
	return l.viewportHeight
}

// Overdraw returns the overdraw margin in items.
func (l *UniformList) Overdraw() int {
	return l.overdraw
}

// SetItemCount sets the total item count and re-clamps the scroll offset.
func (l *UniformList) SetItemCount(n int) {
	if n < 0 {
		n = 0
	}
	l.itemCount = n
	l.scrollOffset = clampOffset(l.scrollOffset, l.MaxScrollOffset())
}

// SetItemHeight changes the item height, preserving the scroll percentage
// rather than the absolute offset so a zoom-like resize does not jump.
func (l *UniformList) SetItemHeight(h float64) {
	assertf(h >= 0, "negative item height %v", h)
	if h < 0 {
		h = 0
	}
	pct := l.scrollPercent()
	l.itemHeight = h
	l.scrollOffset = clampOffset(pct*l.MaxScrollOffset(), l.MaxScrollOffset())
}

// SetGap changes the inter-item gap, preserving the scroll percentage.
func (l *UniformList) SetGap(g float64) {
	assertf(g >= 0, "negative gap %v", g)
	if g < 0 {
		g = 0
	}
	pct := l.scrollPercent()
	l.gap = g
	l.scrollOffset = clampOffset(pct*l.MaxScrollOffset(), l.MaxScrollOffset())
}

// SetOverdraw sets how many extra items are included beyond each visible
// edge to mask pop-in during fast scrolling.
func (l *UniformList) SetOverdraw(n int) {
	if n < 0 {
		n = 0
	}
	l.overdraw = n
}

// SetViewportHeight records the viewport extent determined by layout. Call
// this before ResolvePendingScroll each frame.
func (l *UniformList) SetViewportHeight(h float64) {
	assertf(h >= 0, "negative viewport height %v", h)
	if h < 0 {
		h = 0
	}
	l.viewportHeight = h
	l.scrollOffset = clampOffset(l.scrollOffset, l.MaxScrollOffset())
}

// stride is the periodic spacing unit: item height plus gap.
func (l *UniformList) stride() float64 {
	return l.itemHeight + l.gap
}

// scrollPercent returns the offset as a fraction of the scrollable extent.
func (l *UniformList) scrollPercent() float64 {
	max := l.MaxScrollOffset()
	if max <= 0 {
		return 0
	}
	return l.scrollOffset / max
}

// bottomY returns the bottom edge of item i-1: i strides minus the trailing
// gap. ContentExtent, rangeExtent, and the spacers are all differences of
// these edge coordinates, so their sums telescope back to ContentExtent
// without accumulating independent rounding error.
func (l *UniformList) bottomY(i int) float64 {
	if i <= 0 {
		return 0
	}
	return float64(i)*l.stride() - l.gap
}

// ContentExtent returns the total pixel extent of all items and gaps.
func (l *UniformList) ContentExtent() float64 {
	return l.bottomY(l.itemCount)
}

// MaxScrollOffset returns the largest valid scroll offset.
func (l *UniformList) MaxScrollOffset() float64 {
	max := l.ContentExtent() - l.viewportHeight
	if max < 0 {
		return 0
	}
	return max
}

// ItemTopY returns the top edge of item i in content space, or 0 for an
// out-of-range index.
func (l *UniformList) ItemTopY(i int) float64 {
	if i < 0 || i >= l.itemCount {
		return 0
	}
	return float64(i) * l.stride()
}

// ItemAtY returns the index of the item overlapping content-space y, or
// NoIndex when the list is empty. Coordinates outside the content clamp to
// the first or last item; y inside a gap resolves to the preceding item.
func (l *UniformList) ItemAtY(y float64) int {
	if l.itemCount == 0 {
		return NoIndex
	}
	s := l.stride()
	if s <= 0 {
		return 0
	}
	return clampIndex(int(math.Floor(y/s)), l.itemCount)
}

// VisibleRange returns the half-open item interval overlapping the viewport,
// expanded by the overdraw margin and clamped to [0, ItemCount). The span
// never exceeds MaxVisibleItems.
func (l *UniformList) VisibleRange() RowRange {
	if l.itemCount == 0 || l.viewportHeight <= 0 {
		return RowRange{}
	}
	s := l.stride()
	if s <= 0 {
		// Degenerate zero-extent items: show the first page worth.
		end := l.itemCount
		if end > MaxVisibleItems {
			end = MaxVisibleItems
		}
		return RowRange{Start: 0, End: end}
	}

	first := int(math.Floor(l.scrollOffset / s))
	count := int(math.Ceil(l.viewportHeight/s)) + 1

	start := first - l.overdraw
	end := first + count + l.overdraw
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
func (l *UniformList) TopSpacer(r RowRange) float64 {
	if r.Start <= 0 {
		return 0
	}
	return float64(r.Start) * l.stride()
}

// BottomSpacer returns the exact pixel extent to reserve below the rendered
// range: the content extent past the block's bottom edge. TopSpacer + the
// rendered block extent + BottomSpacer always equals ContentExtent exactly.
func (l *UniformList) BottomSpacer(r RowRange) float64 {
	end := r.End
	if end > l.itemCount {
		end = l.itemCount
	}
	rest := l.ContentExtent() - l.bottomY(end)
	if rest < 0 {
		return 0
	}
	return rest
}

// rangeExtent returns the rendered block extent of r, its items plus the
// gaps between them, measured between the block's edge coordinates.
func (l *UniformList) rangeExtent(r RowRange) float64 {
	if r.Count() <= 0 {
		return 0
	}
	end := r.End
	if end > l.itemCount {
		end = l.itemCount
	}
	ext := l.bottomY(end) - l.TopSpacer(r)
	if ext < 0 {
		return 0
	}
	return ext
}

// ScrollTo records a pending absolute scroll request, clamped into the valid
// range under the current dimensions.
func (l *UniformList) ScrollTo(offset float64) {
	l.pending.setOffset(clampOffset(offset, l.MaxScrollOffset()))
}

// ScrollBy records a pending scroll relative to the current offset.
func (l *UniformList) ScrollBy(delta float64) {
	l.ScrollTo(l.scrollOffset + delta)
}

// ScrollToTop records a pending scroll to the content origin.
func (l *UniformList) ScrollToTop() {
	l.pending.setOffset(0)
}

// ScrollToItem records a request to bring item i into view. The start
// strategy needs no viewport information and resolves to an absolute offset
// immediately; center, end, and nearest are stored and resolved on the next
// ResolvePendingScroll, under confirmed viewport dimensions. Out-of-range
// indices are ignored.
func (l *UniformList) ScrollToItem(i int, strategy ScrollStrategy) {
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
func (l *UniformList) HasPendingScroll() bool {
	return l.pending.kind != pendingNone
}

// ResolvePendingScroll applies and clears the pending scroll request, if
// any, under the current viewport dimensions. It reports whether the offset
// changed. Call once per frame, after SetViewportHeight and before
// VisibleRange.
func (l *UniformList) ResolvePendingScroll() bool {
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
		target := resolveStrategy(p.strategy, l.ItemTopY(p.item), l.itemHeight, l.scrollOffset, l.viewportHeight)
		l.scrollOffset = clampOffset(target, l.MaxScrollOffset())
	default:
		return false
	}
	return l.scrollOffset != prev
}
