// Package virt implements the virtualization and scroll-resolution engine
// behind list-like widgets: a uniform-height list, a variable-height list, a
// row/column data table, and a flattened tree view. Each component keeps one
// retained, fixed-capacity state value owned by the caller and answers
// "what is on screen" queries in O(visible) work per frame.
//
// All components share the same two-phase scroll protocol: a ScrollTo* call
// records a pending request, and ResolvePendingScroll converts it into a
// clamped absolute offset once the viewport extent is confirmed by layout.
// The per-frame call order is: set viewport extent, resolve pending scroll,
// query the visible range, render.
package virt

import (
	"errors"
	"math"
)

// Capacity limits. Every retained state value sizes its arrays from these (or
// from a construction-time capacity) and never grows them afterwards.
const (
	// MaxVisibleItems caps the span of a list visible range, regardless of
	// viewport size or item geometry.
	MaxVisibleItems = 256

	// MaxVisibleRows and MaxVisibleColumns cap the table's visible cell
	// region; their product bounds per-frame rendered cells.
	MaxVisibleRows    = 256
	MaxVisibleColumns = 64

	// MaxColumns is the table column capacity.
	MaxColumns = 64

	// MaxTreeDepth caps tree nesting. Nodes at the cap are not descended
	// into. It matches the width of the ancestry mask.
	MaxTreeDepth = 32

	// MaxTreeRoots is the tree root registration capacity.
	MaxTreeRoots = 64
)

// ErrCapacity is returned when an insertion would exceed a fixed capacity.
// The target state is left unchanged.
var ErrCapacity = errors.New("virt: capacity exceeded")

// NoIndex marks an absent row, column, node, or entry index.
const NoIndex = -1

// RowRange is a half-open index interval [Start, End) over items or rows.
type RowRange struct {
	Start int
	End   int
}

// Count returns the number of indices in the range.
func (r RowRange) Count() int {
	return r.End - r.Start
}

// Contains reports whether i falls inside the range.
func (r RowRange) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// ColRange is a half-open index interval [Start, End) over columns.
type ColRange struct {
	Start int
	End   int
}

// Count returns the number of indices in the range.
func (r ColRange) Count() int {
	return r.End - r.Start
}

// Contains reports whether i falls inside the range.
func (r ColRange) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// CellRange is the rectangular visible region of a table.
type CellRange struct {
	Rows RowRange
	Cols ColRange
}

// CellCount returns the number of cells in the region.
func (c CellRange) CellCount() int {
	return c.Rows.Count() * c.Cols.Count()
}

// ScrollStrategy selects where a scrolled-to item lands in the viewport.
type ScrollStrategy uint8

const (
	// ScrollStart aligns the item's leading edge with the viewport top.
	ScrollStart ScrollStrategy = iota
	// ScrollCenter centers the item in the viewport.
	ScrollCenter
	// ScrollEnd aligns the item's trailing edge with the viewport bottom.
	ScrollEnd
	// ScrollNearest scrolls the minimum distance that brings the item fully
	// into view, or not at all if it is already visible.
	ScrollNearest
)

// pendingKind tags the stored scroll intent.
type pendingKind uint8

const (
	pendingNone pendingKind = iota
	pendingOffset
	pendingItem
)

// pendingScroll is a not-yet-applied scroll intent. At most one is
// outstanding per axis; a new request overwrites an unresolved one.
type pendingScroll struct {
	kind     pendingKind
	offset   float64
	item     int
	strategy ScrollStrategy
}

func (p *pendingScroll) setOffset(offset float64) {
	*p = pendingScroll{kind: pendingOffset, offset: offset}
}

func (p *pendingScroll) setItem(item int, strategy ScrollStrategy) {
	*p = pendingScroll{kind: pendingItem, item: item, strategy: strategy}
}

func (p *pendingScroll) clear() {
	*p = pendingScroll{}
}

// clampOffset clamps a scroll offset into [0, max].
func clampOffset(offset, max float64) float64 {
	if max < 0 || math.IsNaN(offset) {
		return 0
	}
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

// clampIndex clamps i into [0, n), returning NoIndex for an empty n.
func clampIndex(i, n int) int {
	if n <= 0 {
		return NoIndex
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// resolveStrategy computes the absolute offset that places the span
// [itemTop, itemTop+itemExtent) according to the strategy, before clamping.
func resolveStrategy(strategy ScrollStrategy, itemTop, itemExtent, offset, viewport float64) float64 {
	switch strategy {
	case ScrollStart:
		return itemTop
	case ScrollCenter:
		return itemTop - (viewport-itemExtent)/2
	case ScrollEnd:
		return itemTop + itemExtent - viewport
	case ScrollNearest:
		if itemTop >= offset && itemTop+itemExtent <= offset+viewport {
			return offset
		}
		if itemTop < offset {
			return itemTop
		}
		return itemTop + itemExtent - viewport
	}
	return offset
}
