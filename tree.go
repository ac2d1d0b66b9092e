package virt

// treeNode is one node in the flat node array. Children are referenced by
// index and assumed contiguous starting at firstChild; indices are never
// freed or reused.
type treeNode struct {
	parent     int32
	firstChild int32
	childCount int32
	isFolder   bool
}

// TreeEntry is one row of the flattened tree: a visible node with the
// geometry a renderer needs for indentation and guide lines. Entries are
// derived in full by Rebuild and never mutated incrementally.
type TreeEntry struct {
	Node  int // node index
	Depth int

	// AncestryMask has bit d set when the depth-d ancestor has a following
	// sibling, so the renderer draws a vertical continuation in that column
	// rather than blank space.
	AncestryMask uint32

	IsFolder       bool
	IsExpanded     bool
	HasNextSibling bool
}

// Tree maintains a hierarchical node graph and flattens the expanded portion
// into a linear entry list for rendering. Vertical virtualization over the
// entries is delegated to an embedded UniformList driven by the entry count.
//
// Structure and expansion changes mark the entry list dirty; the rebuild is
// an explicit, idempotent Rebuild call, never implicit. Node and root
// capacities are fixed at construction.
type Tree struct {
	nodes     []treeNode
	nodeCount int

	roots     [MaxTreeRoots]int32
	rootCount int

	expanded bitset

	entries      []TreeEntry
	entryCount   int
	needsFlatten bool

	selected int // entry index, NoIndex when nothing is selected

	list UniformList
}

// NewTree creates a tree holding at most maxNodes nodes, with rows rowHeight
// tall in the embedded vertical virtualizer. The flattened entry list shares
// the node capacity: every node visible at once is representable.
func NewTree(maxNodes int, rowHeight float64) *Tree {
	if maxNodes < 0 {
		maxNodes = 0
	}
	if rowHeight < 0 {
		rowHeight = 0
	}
	t := &Tree{
		nodes:    make([]treeNode, maxNodes),
		expanded: newBitset(maxNodes),
		entries:  make([]TreeEntry, maxNodes),
		selected: NoIndex,
	}
	t.list.itemHeight = rowHeight
	return t
}

// ----------------------------------------------------------------------------
// structure
// ----------------------------------------------------------------------------

// NodeCount returns the number of nodes added so far.
func (t *Tree) NodeCount() int {
	return t.nodeCount
}

// RootCount returns the number of registered roots.
func (t *Tree) RootCount() int {
	return t.rootCount
}

// Capacity returns the fixed node capacity.
func (t *Tree) Capacity() int {
	return len(t.nodes)
}

// addNode appends a raw node, returning ErrCapacity at the node limit.
func (t *Tree) addNode(parent int32, isFolder bool) (int, error) {
	if t.nodeCount >= len(t.nodes) {
		return NoIndex, ErrCapacity
	}
	i := t.nodeCount
	t.nodes[i] = treeNode{parent: parent, firstChild: NoIndex, isFolder: isFolder}
	t.nodeCount++
	t.needsFlatten = true
	return i, nil
}

// AddRoot registers a new top-level node and returns its index. Fails with
// ErrCapacity at either the node or the root limit, leaving the tree
// unchanged.
func (t *Tree) AddRoot(isFolder bool) (int, error) {
	if t.rootCount >= MaxTreeRoots {
		return NoIndex, ErrCapacity
	}
	i, err := t.addNode(NoIndex, isFolder)
	if err != nil {
		return NoIndex, err
	}
	t.roots[t.rootCount] = int32(i)
	t.rootCount++
	return i, nil
}

// AddChild appends a child under parent and returns its index.
//
// Children of one parent must be added consecutively, with no other AddRoot
// or AddChild calls interleaved: the parent records only its first child's
// index and a count, and flattening walks the contiguous index run from
// there. A caller that violates contiguity gets a silently truncated child
// list, not an error. Invalid parents fail as a no-op returning NoIndex.
func (t *Tree) AddChild(parent int, isFolder bool) (int, error) {
	if parent < 0 || parent >= t.nodeCount {
		return NoIndex, nil
	}
	i, err := t.addNode(int32(parent), isFolder)
	if err != nil {
		return NoIndex, err
	}
	p := &t.nodes[parent]
	if p.childCount == 0 {
		p.firstChild = int32(i)
	}
	p.childCount++
	return i, nil
}

// IsFolder reports whether node i is a folder. Out-of-range indices report
// false.
func (t *Tree) IsFolder(i int) bool {
	if i < 0 || i >= t.nodeCount {
		return false
	}
	return t.nodes[i].isFolder
}

// ChildCount returns node i's child count, 0 out of range.
func (t *Tree) ChildCount(i int) int {
	if i < 0 || i >= t.nodeCount {
		return 0
	}
	return int(t.nodes[i].childCount)
}

// ParentOf returns node i's parent index, NoIndex for roots and invalid
// indices.
func (t *Tree) ParentOf(i int) int {
	if i < 0 || i >= t.nodeCount {
		return NoIndex
	}
	return int(t.nodes[i].parent)
}

// ----------------------------------------------------------------------------
// expansion
// ----------------------------------------------------------------------------

// IsExpanded reports whether folder node i is expanded.
func (t *Tree) IsExpanded(i int) bool {
	return t.expanded.test(i)
}

// SetExpanded expands or collapses folder node i. Non-folders and invalid
// indices are ignored. Marks the entry list dirty on change.
func (t *Tree) SetExpanded(i int, expanded bool) {
	if i < 0 || i >= t.nodeCount || !t.nodes[i].isFolder {
		return
	}
	if t.expanded.test(i) == expanded {
		return
	}
	if expanded {
		t.expanded.set(i)
	} else {
		t.expanded.clear(i)
	}
	t.needsFlatten = true
}

// ToggleExpanded flips folder node i's expansion state.
func (t *Tree) ToggleExpanded(i int) {
	t.SetExpanded(i, !t.IsExpanded(i))
}

// CollapseAll collapses every folder and marks the entry list dirty.
func (t *Tree) CollapseAll() {
	t.expanded.reset()
	t.needsFlatten = true
}

// ----------------------------------------------------------------------------
// flattening
// ----------------------------------------------------------------------------

// NeedsRebuild reports whether structure or expansion changed since the last
// Rebuild.
func (t *Tree) NeedsRebuild() bool {
	return t.needsFlatten
}

// Rebuild re-derives the flattened entry list from the node graph and
// expansion state. Idempotent: a clean tree returns immediately. The
// embedded vertical virtualizer's item count follows the entry count, and a
// selection pointing past the new entry list is dropped.
func (t *Tree) Rebuild() {
	if !t.needsFlatten {
		return
	}
	t.needsFlatten = false
	t.entryCount = 0

	for r := 0; r < t.rootCount; r++ {
		hasNext := r < t.rootCount-1
		if !t.flatten(int(t.roots[r]), 0, 0, hasNext) {
			break
		}
	}

	t.list.SetItemCount(t.entryCount)
	if t.selected >= t.entryCount {
		t.selected = NoIndex
	}
}

// flatten emits node n and, when it is an expanded folder, its contiguous
// children, depth-first pre-order. Returns false once entry capacity is
// reached, which stops emission while leaving already-emitted entries valid.
//
// Recursion is bounded: a node at the depth cap is emitted but not descended
// into. A child index out of range, equal to its parent, or whose parent
// link disagrees truncates that child walk instead of looping.
func (t *Tree) flatten(n, depth int, mask uint32, hasNext bool) bool {
	if n < 0 || n >= t.nodeCount {
		return true
	}
	if t.entryCount >= len(t.entries) {
		return false
	}

	node := &t.nodes[n]
	expanded := node.isFolder && t.expanded.test(n)
	t.entries[t.entryCount] = TreeEntry{
		Node:           n,
		Depth:          depth,
		AncestryMask:   mask,
		IsFolder:       node.isFolder,
		IsExpanded:     expanded,
		HasNextSibling: hasNext,
	}
	t.entryCount++

	if !expanded || node.childCount == 0 || depth+1 >= MaxTreeDepth {
		return true
	}

	childMask := mask
	if hasNext {
		childMask |= 1 << uint(depth)
	}
	first := int(node.firstChild)
	for k := 0; k < int(node.childCount); k++ {
		c := first + k
		if c < 0 || c >= t.nodeCount || c == n || int(t.nodes[c].parent) != n {
			break
		}
		if !t.flatten(c, depth+1, childMask, k < int(node.childCount)-1) {
			return false
		}
	}
	return true
}

// EntryCount returns the flattened entry count as of the last Rebuild.
func (t *Tree) EntryCount() int {
	return t.entryCount
}

// Entry returns the flattened entry at index i, or a zero entry with
// Node == NoIndex out of range.
func (t *Tree) Entry(i int) TreeEntry {
	if i < 0 || i >= t.entryCount {
		return TreeEntry{Node: NoIndex}
	}
	return t.entries[i]
}

// EntryOf returns the entry index showing node n, or NoIndex when the node
// is not visible under the current expansion state.
func (t *Tree) EntryOf(n int) int {
	for i := 0; i < t.entryCount; i++ {
		if t.entries[i].Node == n {
			return i
		}
	}
	return NoIndex
}

// ----------------------------------------------------------------------------
// selection & navigation
// ----------------------------------------------------------------------------

// SelectedEntry returns the selected entry index, NoIndex when none.
func (t *Tree) SelectedEntry() int {
	return t.selected
}

// SelectEntry selects the entry at index i and requests the minimum scroll
// that brings it into view. Out-of-range indices are ignored.
func (t *Tree) SelectEntry(i int) {
	if i < 0 || i >= t.entryCount {
		return
	}
	t.selected = i
	t.list.ScrollToItem(i, ScrollNearest)
}

// SelectNext moves the selection one entry down, or to the first entry when
// nothing is selected.
func (t *Tree) SelectNext() {
	if t.entryCount == 0 {
		return
	}
	if t.selected == NoIndex {
		t.SelectEntry(0)
		return
	}
	t.SelectEntry(clampIndex(t.selected+1, t.entryCount))
}

// SelectPrevious moves the selection one entry up, or to the first entry
// when nothing is selected.
func (t *Tree) SelectPrevious() {
	if t.entryCount == 0 {
		return
	}
	if t.selected == NoIndex {
		t.SelectEntry(0)
		return
	}
	t.SelectEntry(clampIndex(t.selected-1, t.entryCount))
}

// NavigateLeft collapses the selected entry when it is an expanded folder;
// otherwise it moves the selection to the parent's entry. The collapse
// re-flattens immediately so the entry list is consistent on return.
func (t *Tree) NavigateLeft() {
	if t.selected == NoIndex || t.selected >= t.entryCount {
		return
	}
	e := t.entries[t.selected]
	if e.IsFolder && e.IsExpanded {
		t.SetExpanded(e.Node, false)
		t.Rebuild()
		return
	}
	parent := t.ParentOf(e.Node)
	if parent == NoIndex {
		return
	}
	// The parent's entry precedes the child's in pre-order.
	for i := t.selected - 1; i >= 0; i-- {
		if t.entries[i].Node == parent {
			t.SelectEntry(i)
			return
		}
	}
}

// NavigateRight expands the selected entry when it is a collapsed folder;
// on an expanded folder it steps to the immediately following entry, which
// is the folder's first child because flattening is depth-first.
func (t *Tree) NavigateRight() {
	if t.selected == NoIndex || t.selected >= t.entryCount {
		return
	}
	e := t.entries[t.selected]
	if !e.IsFolder {
		return
	}
	if !e.IsExpanded {
		t.SetExpanded(e.Node, true)
		t.Rebuild()
		return
	}
	if t.selected+1 < t.entryCount {
		t.SelectEntry(t.selected + 1)
	}
}

// RevealNode expands every ancestor of node n by walking the node parent
// chain, rebuilds, selects the now-visible entry, and requests the minimum
// scroll to show it. Invalid nodes are ignored.
func (t *Tree) RevealNode(n int) {
	if n < 0 || n >= t.nodeCount {
		return
	}
	p := t.ParentOf(n)
	for steps := 0; p != NoIndex && steps < t.nodeCount; steps++ {
		t.SetExpanded(p, true)
		p = t.ParentOf(p)
	}
	t.Rebuild()
	if i := t.EntryOf(n); i != NoIndex {
		t.SelectEntry(i)
	}
}

// ----------------------------------------------------------------------------
// vertical virtualization (embedded uniform list)
// ----------------------------------------------------------------------------

// SetRowHeight sets the flattened row height, preserving scroll percentage.
func (t *Tree) SetRowHeight(h float64) {
	t.list.SetItemHeight(h)
}

// SetOverdraw sets the entry overdraw margin.
func (t *Tree) SetOverdraw(n int) {
	t.list.SetOverdraw(n)
}

// SetViewportHeight records the viewport extent determined by layout.
func (t *Tree) SetViewportHeight(h float64) {
	t.list.SetViewportHeight(h)
}

// ScrollOffset returns the current vertical scroll offset.
func (t *Tree) ScrollOffset() float64 {
	return t.list.ScrollOffset()
}

// ContentExtent returns the pixel extent of the flattened entries.
func (t *Tree) ContentExtent() float64 {
	return t.list.ContentExtent()
}

// VisibleRange returns the flattened entries overlapping the viewport.
func (t *Tree) VisibleRange() RowRange {
	return t.list.VisibleRange()
}

// TopSpacer returns the pixel extent to reserve above the rendered entries.
func (t *Tree) TopSpacer(r RowRange) float64 {
	return t.list.TopSpacer(r)
}

// BottomSpacer returns the pixel extent to reserve below the rendered
// entries.
func (t *Tree) BottomSpacer(r RowRange) float64 {
	return t.list.BottomSpacer(r)
}

// ScrollBy records a pending relative scroll.
func (t *Tree) ScrollBy(delta float64) {
	t.list.ScrollBy(delta)
}

// ScrollToEntry records a request to bring entry i into view.
func (t *Tree) ScrollToEntry(i int, strategy ScrollStrategy) {
	t.list.ScrollToItem(i, strategy)
}

// HasPendingScroll reports whether an unresolved scroll request exists.
func (t *Tree) HasPendingScroll() bool {
	return t.list.HasPendingScroll()
}

// ResolvePendingScroll applies and clears the pending scroll request under
// the current viewport dimensions. Call once per frame after layout, before
// VisibleRange.
func (t *Tree) ResolvePendingScroll() bool {
	return t.list.ResolvePendingScroll()
}
