package virt

import "math"

// resizeHandleSlop is the pixel distance from a column's right edge within
// which HitTestResizeHandle reports a hit.
const resizeHandleSlop = 4.0

// SortDirection is the per-column sort state. Directions cycle
// none -> ascending -> descending -> none via ToggleSort.
type SortDirection uint8

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

// next advances the three-state sort cycle.
func (d SortDirection) next() SortDirection {
	switch d {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortNone
	}
}

// SelectionMode chooses whether the table selects whole rows or single
// cells. In row mode the column component of the selection is always clear.
type SelectionMode uint8

const (
	RowSelection SelectionMode = iota
	CellSelection
)

// Column describes one table column. Width is clamped into
// [MinWidth, MaxWidth] on insertion and after every width mutation; a
// non-positive MaxWidth means unbounded.
type Column struct {
	Title     string
	Width     float64
	MinWidth  float64
	MaxWidth  float64
	Resizable bool
	Sortable  bool

	// Frozen is tracked for the caller's renderer to pin the column; the
	// visible sweep itself scrolls a frozen column like any other.
	Frozen bool
}

// clampWidth clamps w into the column's width bounds.
func (c *Column) clampWidth(w float64) float64 {
	if w < c.MinWidth {
		w = c.MinWidth
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	return w
}

// Table virtualizes a two-dimensional row/column grid. Rows share one height
// (uniform stride arithmetic, with an optional header band above them);
// columns have independent widths swept left to right. The visible cell
// region is hard-bounded by MaxVisibleRows x MaxVisibleColumns.
//
// The table tracks sort and selection intent only; reordering the backing
// data after ToggleSort is the caller's responsibility.
type Table struct {
	rowCount     int
	rowHeight    float64
	headerHeight float64

	cols     [MaxColumns]Column
	sortDirs [MaxColumns]SortDirection
	colCount int
	sortCol  int

	scrollX, scrollY     float64
	viewportW, viewportH float64
	rowOverdraw          int
	colOverdraw          int

	mode   SelectionMode
	selRow int
	selCol int

	// Resize drag snapshot.
	resizeCol    int
	resizeWidth  float64
	resizeMouseX float64

	pendingRow pendingScroll
	pendingCol pendingScroll
}

// NewTable creates a table with the given row height.
func NewTable(rowHeight float64) *Table {
	if rowHeight < 0 {
		rowHeight = 0
	}
	return &Table{
		rowHeight: rowHeight,
		sortCol:   NoIndex,
		selRow:    NoIndex,
		selCol:    NoIndex,
		resizeCol: NoIndex,
	}
}

// ----------------------------------------------------------------------------
// geometry
// ----------------------------------------------------------------------------

// RowCount returns the total row count.
func (t *Table) RowCount() int {
	return t.rowCount
}

// RowHeight returns the per-row height.
func (t *Table) RowHeight() float64 {
	return t.rowHeight
}

// HeaderHeight returns the header band height.
func (t *Table) HeaderHeight() float64 {
	return t.headerHeight
}

// ScrollX returns the horizontal scroll offset.
func (t *Table) ScrollX() float64 {
	return t.scrollX
}

// ScrollY returns the vertical scroll offset.
func (t *Table) ScrollY() float64 {
	return t.scrollY
}

// SetRowCount sets the total row count, re-clamps the vertical scroll, and
// clears the selection if the selected row no longer exists. Call whenever
// the backing data changes.
func (t *Table) SetRowCount(n int) {
	if n < 0 {
		n = 0
	}
	t.rowCount = n
	t.scrollY = clampOffset(t.scrollY, t.MaxScrollY())
	if t.selRow >= n {
		t.ClearSelection()
	}
}

// SetRowHeight changes the row height, preserving the vertical scroll
// percentage.
func (t *Table) SetRowHeight(h float64) {
	assertf(h >= 0, "negative row height %v", h)
	if h < 0 {
		h = 0
	}
	pct := 0.0
	if max := t.MaxScrollY(); max > 0 {
		pct = t.scrollY / max
	}
	t.rowHeight = h
	t.scrollY = clampOffset(pct*t.MaxScrollY(), t.MaxScrollY())
}

// SetHeaderHeight sets the height of the header band drawn above row 0.
func (t *Table) SetHeaderHeight(h float64) {
	assertf(h >= 0, "negative header height %v", h)
	if h < 0 {
		h = 0
	}
	t.headerHeight = h
	t.scrollY = clampOffset(t.scrollY, t.MaxScrollY())
}

// SetOverdraw sets the row and column overdraw margins.
func (t *Table) SetOverdraw(rows, cols int) {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	t.rowOverdraw = rows
	t.colOverdraw = cols
}

// SetViewport records the viewport extent determined by layout. Call before
// ResolvePendingScroll each frame.
func (t *Table) SetViewport(w, h float64) {
	assertf(w >= 0 && h >= 0, "negative viewport %vx%v", w, h)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	t.viewportW = w
	t.viewportH = h
	t.scrollX = clampOffset(t.scrollX, t.MaxScrollX())
	t.scrollY = clampOffset(t.scrollY, t.MaxScrollY())
}

// bodyHeight is the viewport extent available to rows, below the header.
func (t *Table) bodyHeight() float64 {
	h := t.viewportH - t.headerHeight
	if h < 0 {
		return 0
	}
	return h
}

// ContentHeight returns the pixel extent of all rows plus the header band.
func (t *Table) ContentHeight() float64 {
	return t.headerHeight + float64(t.rowCount)*t.rowHeight
}

// ContentWidth returns the summed width of all columns.
func (t *Table) ContentWidth() float64 {
	w := 0.0
	for i := 0; i < t.colCount; i++ {
		w += t.cols[i].Width
	}
	return w
}

// MaxScrollY returns the largest valid vertical scroll offset.
func (t *Table) MaxScrollY() float64 {
	max := float64(t.rowCount)*t.rowHeight - t.bodyHeight()
	if max < 0 {
		return 0
	}
	return max
}

// MaxScrollX returns the largest valid horizontal scroll offset.
func (t *Table) MaxScrollX() float64 {
	max := t.ContentWidth() - t.viewportW
	if max < 0 {
		return 0
	}
	return max
}

// RowTopY returns the top edge of row r in content space, below the header.
// Out-of-range rows return 0.
func (t *Table) RowTopY(r int) float64 {
	if r < 0 || r >= t.rowCount {
		return 0
	}
	return float64(r) * t.rowHeight
}

// RowAtY returns the row overlapping content-space y, or NoIndex when the
// table has no rows. Coordinates past either end clamp.
func (t *Table) RowAtY(y float64) int {
	if t.rowCount == 0 || t.rowHeight <= 0 {
		if t.rowCount > 0 {
			return 0
		}
		return NoIndex
	}
	return clampIndex(int(math.Floor(y/t.rowHeight)), t.rowCount)
}

// ----------------------------------------------------------------------------
// columns
// ----------------------------------------------------------------------------

// AddColumn appends a column, clamping its width into the declared bounds.
// It returns the new column index, or ErrCapacity past MaxColumns with the
// column set unchanged.
func (t *Table) AddColumn(c Column) (int, error) {
	if t.colCount >= MaxColumns {
		return NoIndex, ErrCapacity
	}
	if c.MinWidth < 0 {
		c.MinWidth = 0
	}
	if c.MaxWidth > 0 && c.MaxWidth < c.MinWidth {
		c.MaxWidth = c.MinWidth
	}
	c.Width = c.clampWidth(c.Width)
	i := t.colCount
	t.cols[i] = c
	t.sortDirs[i] = SortNone
	t.colCount++
	return i, nil
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return t.colCount
}

// ColumnAt returns the column at index i, or a zero Column out of range.
func (t *Table) ColumnAt(i int) Column {
	if i < 0 || i >= t.colCount {
		return Column{}
	}
	return t.cols[i]
}

// ColumnWidth returns the current width of column i, or 0 out of range.
func (t *Table) ColumnWidth(i int) float64 {
	if i < 0 || i >= t.colCount {
		return 0
	}
	return t.cols[i].Width
}

// SetColumnWidth sets column i's width, clamped into its bounds. Invalid
// indices are ignored.
func (t *Table) SetColumnWidth(i int, w float64) {
	if i < 0 || i >= t.colCount {
		return
	}
	t.cols[i].Width = t.cols[i].clampWidth(w)
	t.scrollX = clampOffset(t.scrollX, t.MaxScrollX())
}

// ColumnLeftX returns the left edge of column i in content space, or 0 out
// of range.
func (t *Table) ColumnLeftX(i int) float64 {
	if i < 0 || i >= t.colCount {
		return 0
	}
	x := 0.0
	for j := 0; j < i; j++ {
		x += t.cols[j].Width
	}
	return x
}

// ColumnAtX returns the column containing content-space x, or NoIndex when
// x falls outside the content width.
func (t *Table) ColumnAtX(x float64) int {
	if x < 0 {
		return NoIndex
	}
	left := 0.0
	for i := 0; i < t.colCount; i++ {
		right := left + t.cols[i].Width
		if x < right {
			return i
		}
		left = right
	}
	return NoIndex
}

// HitTestResizeHandle returns the column whose resize handle covers
// content-space x: a resizable column whose right edge lies within
// resizeHandleSlop of x. Returns NoIndex when no handle is hit.
func (t *Table) HitTestResizeHandle(x float64) int {
	right := 0.0
	for i := 0; i < t.colCount; i++ {
		right += t.cols[i].Width
		if !t.cols[i].Resizable {
			continue
		}
		if math.Abs(x-right) <= resizeHandleSlop {
			return i
		}
	}
	return NoIndex
}

// ----------------------------------------------------------------------------
// resize drag
// ----------------------------------------------------------------------------

// StartResize begins a width drag on column i, snapshotting the current
// width and pointer position. Non-resizable or invalid columns are ignored.
func (t *Table) StartResize(i int, mouseX float64) {
	if i < 0 || i >= t.colCount || !t.cols[i].Resizable {
		return
	}
	t.resizeCol = i
	t.resizeWidth = t.cols[i].Width
	t.resizeMouseX = mouseX
}

// UpdateResize applies the pointer delta since StartResize to the dragged
// column's width, clamped into its bounds. No-op when no drag is active.
func (t *Table) UpdateResize(mouseX float64) {
	i := t.resizeCol
	if i == NoIndex {
		return
	}
	t.cols[i].Width = t.cols[i].clampWidth(t.resizeWidth + (mouseX - t.resizeMouseX))
	t.scrollX = clampOffset(t.scrollX, t.MaxScrollX())
}

// EndResize finishes the active width drag, if any.
func (t *Table) EndResize() {
	t.resizeCol = NoIndex
}

// ResizingColumn returns the column being dragged, or NoIndex.
func (t *Table) ResizingColumn() int {
	return t.resizeCol
}

// ----------------------------------------------------------------------------
// sort
// ----------------------------------------------------------------------------

// ToggleSort advances column i through the none -> ascending -> descending
// cycle, clearing any other column's direction first, and returns the new
// direction. Non-sortable or invalid columns are a no-op returning SortNone.
// The engine only tracks the sort intent; the caller reorders the data.
func (t *Table) ToggleSort(i int) SortDirection {
	if i < 0 || i >= t.colCount || !t.cols[i].Sortable {
		return SortNone
	}
	if t.sortCol != i && t.sortCol != NoIndex {
		t.sortDirs[t.sortCol] = SortNone
	}
	t.sortDirs[i] = t.sortDirs[i].next()
	if t.sortDirs[i] == SortNone {
		t.sortCol = NoIndex
	} else {
		t.sortCol = i
	}
	return t.sortDirs[i]
}

// SortColumn returns the active sort column and its direction, or
// (NoIndex, SortNone) when unsorted.
func (t *Table) SortColumn() (int, SortDirection) {
	if t.sortCol == NoIndex {
		return NoIndex, SortNone
	}
	return t.sortCol, t.sortDirs[t.sortCol]
}

// SortDirectionOf returns column i's direction, SortNone out of range.
func (t *Table) SortDirectionOf(i int) SortDirection {
	if i < 0 || i >= t.colCount {
		return SortNone
	}
	return t.sortDirs[i]
}

// ----------------------------------------------------------------------------
// selection
// ----------------------------------------------------------------------------

// SetSelectionMode switches between row and cell selection. Entering row
// mode clears the column component of any current selection.
func (t *Table) SetSelectionMode(m SelectionMode) {
	t.mode = m
	if m == RowSelection {
		t.selCol = NoIndex
	}
}

// SelectionMode returns the current selection mode.
func (t *Table) SelectionMode() SelectionMode {
	return t.mode
}

// SelectRow selects row r. Out-of-range rows are ignored. The column
// component is cleared.
func (t *Table) SelectRow(r int) {
	if r < 0 || r >= t.rowCount {
		return
	}
	t.selRow = r
	t.selCol = NoIndex
}

// SelectCell selects the cell at (r, c). Only meaningful in cell mode; in
// row mode the column component is discarded. Out-of-range indices are
// ignored.
func (t *Table) SelectCell(r, c int) {
	if r < 0 || r >= t.rowCount || c < 0 || c >= t.colCount {
		return
	}
	t.selRow = r
	if t.mode == CellSelection {
		t.selCol = c
	} else {
		t.selCol = NoIndex
	}
}

// ClearSelection removes any selection.
func (t *Table) ClearSelection() {
	t.selRow = NoIndex
	t.selCol = NoIndex
}

// Selection returns the selected (row, column) pair and whether a selection
// exists. In row mode the column is NoIndex.
func (t *Table) Selection() (row, col int, ok bool) {
	if t.selRow == NoIndex {
		return NoIndex, NoIndex, false
	}
	return t.selRow, t.selCol, true
}

// ----------------------------------------------------------------------------
// visible ranges
// ----------------------------------------------------------------------------

// VisibleRowRange returns the rows overlapping the body viewport, expanded
// by the row overdraw and capped at MaxVisibleRows.
func (t *Table) VisibleRowRange() RowRange {
	body := t.bodyHeight()
	if t.rowCount == 0 || body <= 0 {
		return RowRange{}
	}
	if t.rowHeight <= 0 {
		end := t.rowCount
		if end > MaxVisibleRows {
			end = MaxVisibleRows
		}
		return RowRange{Start: 0, End: end}
	}

	first := int(math.Floor(t.scrollY / t.rowHeight))
	count := int(math.Ceil(body/t.rowHeight)) + 1

	start := first - t.rowOverdraw
	end := first + count + t.rowOverdraw
	if start < 0 {
		start = 0
	}
	if end > t.rowCount {
		end = t.rowCount
	}
	if end < start {
		end = start
	}
	if end-start > MaxVisibleRows {
		end = start + MaxVisibleRows
	}
	return RowRange{Start: start, End: end}
}

// VisibleColRange sweeps column widths left to right to find the columns
// overlapping the viewport, expands by the column overdraw, and caps the
// span at MaxVisibleColumns.
func (t *Table) VisibleColRange() ColRange {
	if t.colCount == 0 || t.viewportW <= 0 {
		return ColRange{}
	}

	viewRight := t.scrollX + t.viewportW
	first := t.colCount
	last := t.colCount

	left := 0.0
	for i := 0; i < t.colCount; i++ {
		right := left + t.cols[i].Width
		if first == t.colCount && right > t.scrollX {
			first = i
		}
		if left >= viewRight {
			last = i
			break
		}
		left = right
	}
	if first == t.colCount {
		first = t.colCount - 1
	}

	start := first - t.colOverdraw
	end := last + t.colOverdraw
	if start < 0 {
		start = 0
	}
	if end > t.colCount {
		end = t.colCount
	}
	if end < start {
		end = start
	}
	if end-start > MaxVisibleColumns {
		end = start + MaxVisibleColumns
	}
	return ColRange{Start: start, End: end}
}

// VisibleRange returns the combined visible cell region. Its cell count is
// bounded by MaxVisibleRows x MaxVisibleColumns for any data size and
// viewport.
func (t *Table) VisibleRange() CellRange {
	r := CellRange{Rows: t.VisibleRowRange(), Cols: t.VisibleColRange()}
	assertf(r.CellCount() <= MaxVisibleRows*MaxVisibleColumns,
		"visible cell region %d exceeds bound", r.CellCount())
	return r
}

// TopSpacer returns the pixel extent to reserve above the rendered rows.
func (t *Table) TopSpacer(r RowRange) float64 {
	if r.Start <= 0 {
		return 0
	}
	return float64(r.Start) * t.rowHeight
}

// BottomSpacer returns the pixel extent to reserve below the rendered rows:
// the row extent past the block's bottom edge, so the spacer identity is
// exact.
func (t *Table) BottomSpacer(r RowRange) float64 {
	end := r.End
	if end > t.rowCount {
		end = t.rowCount
	}
	rest := float64(t.rowCount)*t.rowHeight - float64(end)*t.rowHeight
	if rest < 0 {
		return 0
	}
	return rest
}

// colPrefixX sums column widths before i in index order, the same order
// ContentWidth uses, so prefix differences are exact.
func (t *Table) colPrefixX(i int) float64 {
	if i > t.colCount {
		i = t.colCount
	}
	x := 0.0
	for j := 0; j < i; j++ {
		x += t.cols[j].Width
	}
	return x
}

// LeftSpacer returns the pixel extent to reserve left of the rendered
// columns.
func (t *Table) LeftSpacer(r ColRange) float64 {
	if r.Start <= 0 {
		return 0
	}
	return t.colPrefixX(r.Start)
}

// RightSpacer returns the pixel extent to reserve right of the rendered
// columns: the content width past the block's right edge.
func (t *Table) RightSpacer(r ColRange) float64 {
	rest := t.ContentWidth() - t.colPrefixX(r.End)
	if rest < 0 {
		return 0
	}
	return rest
}

// ----------------------------------------------------------------------------
// scrolling
// ----------------------------------------------------------------------------

// ScrollTo records pending absolute offsets on both axes.
func (t *Table) ScrollTo(x, y float64) {
	t.pendingCol.setOffset(clampOffset(x, t.MaxScrollX()))
	t.pendingRow.setOffset(clampOffset(y, t.MaxScrollY()))
}

// ScrollBy records pending offsets relative to the current position.
func (t *Table) ScrollBy(dx, dy float64) {
	t.ScrollTo(t.scrollX+dx, t.scrollY+dy)
}

// ScrollToRow records a request to bring row r into view vertically. The
// start strategy resolves immediately; the others defer. Out-of-range rows
// are ignored.
func (t *Table) ScrollToRow(r int, strategy ScrollStrategy) {
	if r < 0 || r >= t.rowCount {
		return
	}
	if strategy == ScrollStart {
		t.pendingRow.setOffset(clampOffset(t.RowTopY(r), t.MaxScrollY()))
		return
	}
	t.pendingRow.setItem(r, strategy)
}

// ScrollToColumn records a request to bring column c into view
// horizontally. Out-of-range columns are ignored.
func (t *Table) ScrollToColumn(c int, strategy ScrollStrategy) {
	if c < 0 || c >= t.colCount {
		return
	}
	if strategy == ScrollStart {
		t.pendingCol.setOffset(clampOffset(t.ColumnLeftX(c), t.MaxScrollX()))
		return
	}
	t.pendingCol.setItem(c, strategy)
}

// ScrollToCell records independent row and column requests for the cell at
// (r, c), each with its own strategy.
func (t *Table) ScrollToCell(r, c int, rowStrategy, colStrategy ScrollStrategy) {
	t.ScrollToRow(r, rowStrategy)
	t.ScrollToColumn(c, colStrategy)
}

// HasPendingScroll reports whether either axis has an unresolved request.
func (t *Table) HasPendingScroll() bool {
	return t.pendingRow.kind != pendingNone || t.pendingCol.kind != pendingNone
}

// ResolvePendingScroll applies and clears the pending requests on both axes
// under the current viewport dimensions, reporting whether either offset
// changed. Call once per frame, after SetViewport and before VisibleRange.
func (t *Table) ResolvePendingScroll() bool {
	changed := false

	p := t.pendingRow
	t.pendingRow.clear()
	switch p.kind {
	case pendingOffset:
		y := clampOffset(p.offset, t.MaxScrollY())
		changed = changed || y != t.scrollY
		t.scrollY = y
	case pendingItem:
		if p.item >= 0 && p.item < t.rowCount {
			target := resolveStrategy(p.strategy, t.RowTopY(p.item), t.rowHeight, t.scrollY, t.bodyHeight())
			y := clampOffset(target, t.MaxScrollY())
			changed = changed || y != t.scrollY
			t.scrollY = y
		}
	}

	p = t.pendingCol
	t.pendingCol.clear()
	switch p.kind {
	case pendingOffset:
		x := clampOffset(p.offset, t.MaxScrollX())
		changed = changed || x != t.scrollX
		t.scrollX = x
	case pendingItem:
		if p.item >= 0 && p.item < t.colCount {
			target := resolveStrategy(p.strategy, t.ColumnLeftX(p.item), t.cols[p.item].Width, t.scrollX, t.viewportW)
			x := clampOffset(target, t.MaxScrollX())
			changed = changed || x != t.scrollX
			t.scrollX = x
		}
	}

	return changed
}
