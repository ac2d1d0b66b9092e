package virt

import "testing"

// buildSampleTree builds:
//
//	A (folder)
//	├── A1
//	└── A2
//	B (folder)
//	└── B1
func buildSampleTree(t *testing.T) (*Tree, map[string]int) {
	t.Helper()
	tr := NewTree(64, 20)
	ids := map[string]int{}
	add := func(name string, f func() (int, error)) {
		i, err := f()
		if err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
		ids[name] = i
	}
	add("A", func() (int, error) { return tr.AddRoot(true) })
	add("A1", func() (int, error) { return tr.AddChild(ids["A"], false) })
	add("A2", func() (int, error) { return tr.AddChild(ids["A"], false) })
	add("B", func() (int, error) { return tr.AddRoot(true) })
	add("B1", func() (int, error) { return tr.AddChild(ids["B"], false) })
	return tr, ids
}

func TestTreeFlatten(t *testing.T) {
	t.Run("CollapsedRootsOnly", func(t *testing.T) {
		tr, _ := buildSampleTree(t)
		tr.Rebuild()
		if tr.EntryCount() != 2 {
			t.Fatalf("expected 2 entries, got %d", tr.EntryCount())
		}
		a, b := tr.Entry(0), tr.Entry(1)
		if !a.HasNextSibling {
			t.Error("root A should have a next sibling")
		}
		if b.HasNextSibling {
			t.Error("root B should not have a next sibling")
		}
	})

	t.Run("AncestryMasks", func(t *testing.T) {
		tr, ids := buildSampleTree(t)
		tr.SetExpanded(ids["A"], true)
		tr.SetExpanded(ids["B"], true)
		tr.Rebuild()

		// Expected order: A, A1, A2, B, B1
		wantNodes := []int{ids["A"], ids["A1"], ids["A2"], ids["B"], ids["B1"]}
		if tr.EntryCount() != len(wantNodes) {
			t.Fatalf("expected %d entries, got %d", len(wantNodes), tr.EntryCount())
		}
		for i, n := range wantNodes {
			if tr.Entry(i).Node != n {
				t.Errorf("entry %d node = %d, want %d", i, tr.Entry(i).Node, n)
			}
		}

		a, a1, a2, b1 := tr.Entry(0), tr.Entry(1), tr.Entry(2), tr.Entry(4)
		if a.AncestryMask != 0 {
			t.Errorf("A mask = %b, want 0", a.AncestryMask)
		}
		// A has a following sibling (B), so its children carry bit 0.
		if a1.AncestryMask != 1 {
			t.Errorf("A1 mask = %b, want 1", a1.AncestryMask)
		}
		if !a1.HasNextSibling {
			t.Error("A1 should have a next sibling")
		}
		if a2.AncestryMask != a1.AncestryMask {
			t.Errorf("A2 mask = %b, want %b", a2.AncestryMask, a1.AncestryMask)
		}
		if a2.HasNextSibling {
			t.Error("A2 should not have a next sibling")
		}
		// B is the last root: its children get no continuation bit.
		if b1.AncestryMask != 0 {
			t.Errorf("B1 mask = %b, want 0", b1.AncestryMask)
		}
		if a1.Depth != 1 || a.Depth != 0 {
			t.Errorf("depths A=%d A1=%d, want 0,1", a.Depth, a1.Depth)
		}
	})

	t.Run("RebuildIdempotent", func(t *testing.T) {
		tr, ids := buildSampleTree(t)
		tr.SetExpanded(ids["A"], true)
		tr.Rebuild()
		n := tr.EntryCount()
		if tr.NeedsRebuild() {
			t.Error("still dirty after Rebuild")
		}
		tr.Rebuild()
		if tr.EntryCount() != n {
			t.Errorf("second Rebuild changed entry count %d -> %d", n, tr.EntryCount())
		}
	})

	t.Run("CollapseHidesSubtree", func(t *testing.T) {
		tr, ids := buildSampleTree(t)
		tr.SetExpanded(ids["A"], true)
		tr.Rebuild()
		if tr.EntryCount() != 4 {
			t.Fatalf("expected 4 entries, got %d", tr.EntryCount())
		}
		tr.SetExpanded(ids["A"], false)
		tr.Rebuild()
		if tr.EntryCount() != 2 {
			t.Errorf("expected 2 entries after collapse, got %d", tr.EntryCount())
		}
	})

	t.Run("LeafExpansionIgnored", func(t *testing.T) {
		tr, ids := buildSampleTree(t)
		tr.SetExpanded(ids["A1"], true)
		if tr.IsExpanded(ids["A1"]) {
			t.Error("non-folder expanded")
		}
	})

	t.Run("DriveEmbeddedList", func(t *testing.T) {
		tr, ids := buildSampleTree(t)
		tr.SetExpanded(ids["A"], true)
		tr.SetExpanded(ids["B"], true)
		tr.Rebuild()
		tr.SetViewportHeight(50)
		tr.ResolvePendingScroll()
		if got := tr.ContentExtent(); got != 100 {
			t.Errorf("content extent = %v, want 100", got)
		}
		r := tr.VisibleRange()
		if r.Start != 0 || r.End > tr.EntryCount() {
			t.Errorf("bad range %+v", r)
		}
	})
}

func TestTreeCapacities(t *testing.T) {
	t.Run("Nodes", func(t *testing.T) {
		tr := NewTree(3, 20)
		r, _ := tr.AddRoot(true)
		tr.AddChild(r, false)
		tr.AddChild(r, false)
		if _, err := tr.AddChild(r, false); err != ErrCapacity {
			t.Errorf("expected ErrCapacity, got %v", err)
		}
		if tr.NodeCount() != 3 {
			t.Errorf("failed insert changed count to %d", tr.NodeCount())
		}
	})

	t.Run("Roots", func(t *testing.T) {
		tr := NewTree(MaxTreeRoots+1, 20)
		for i := 0; i < MaxTreeRoots; i++ {
			if _, err := tr.AddRoot(false); err != nil {
				t.Fatalf("root %d: %v", i, err)
			}
		}
		if _, err := tr.AddRoot(false); err != ErrCapacity {
			t.Errorf("expected ErrCapacity, got %v", err)
		}
	})

	t.Run("DepthCapStopsDescent", func(t *testing.T) {
		tr := NewTree(MaxTreeDepth+8, 20)
		parent, _ := tr.AddRoot(true)
		tr.SetExpanded(parent, true)
		for i := 0; i < MaxTreeDepth+6; i++ {
			c, err := tr.AddChild(parent, true)
			if err != nil {
				t.Fatalf("child %d: %v", i, err)
			}
			tr.SetExpanded(c, true)
			parent = c
		}
		tr.Rebuild()
		// The chain is deeper than the cap; flattening stops descending at
		// the cap instead of emitting every node.
		if tr.EntryCount() != MaxTreeDepth {
			t.Errorf("entry count = %d, want %d", tr.EntryCount(), MaxTreeDepth)
		}
		for i := 0; i < tr.EntryCount(); i++ {
			if d := tr.Entry(i).Depth; d >= MaxTreeDepth {
				t.Errorf("entry %d depth %d at or past cap", i, d)
			}
		}
	})

	t.Run("NonContiguousChildrenTruncate", func(t *testing.T) {
		tr := NewTree(16, 20)
		a, _ := tr.AddRoot(true)
		tr.AddChild(a, false)
		b, _ := tr.AddRoot(true) // interleaved: breaks A's child run
		tr.AddChild(a, false)    // parent link ok, but nodes[firstChild+1] is B's... not A's child
		_ = b
		tr.SetExpanded(a, true)
		tr.Rebuild()
		// A's child walk truncates at the interloper: A, child0, then B.
		if tr.EntryCount() != 3 {
			t.Errorf("entry count = %d, want 3 (truncated child list)", tr.EntryCount())
		}
	})

	t.Run("InvalidParentNoOp", func(t *testing.T) {
		tr := NewTree(4, 20)
		if i, err := tr.AddChild(99, false); i != NoIndex || err != nil {
			t.Errorf("AddChild(99) = (%d,%v), want (NoIndex,nil)", i, err)
		}
		if tr.NodeCount() != 0 {
			t.Errorf("invalid parent added a node")
		}
	})
}

func TestTreeNavigation(t *testing.T) {
	expandAll := func(t *testing.T) (*Tree, map[string]int) {
		tr, ids := buildSampleTree(t)
		tr.SetExpanded(ids["A"], true)
		tr.SetExpanded(ids["B"], true)
		tr.Rebuild()
		return tr, ids
	}

	t.Run("SelectNextPrevious", func(t *testing.T) {
		tr, _ := expandAll(t)
		tr.SelectNext()
		if tr.SelectedEntry() != 0 {
			t.Errorf("first SelectNext = %d, want 0", tr.SelectedEntry())
		}
		tr.SelectNext()
		tr.SelectNext()
		if tr.SelectedEntry() != 2 {
			t.Errorf("selected = %d, want 2", tr.SelectedEntry())
		}
		tr.SelectPrevious()
		if tr.SelectedEntry() != 1 {
			t.Errorf("selected = %d, want 1", tr.SelectedEntry())
		}
		// Clamped at the ends.
		tr.SelectPrevious()
		tr.SelectPrevious()
		if tr.SelectedEntry() != 0 {
			t.Errorf("selected = %d, want 0", tr.SelectedEntry())
		}
	})

	t.Run("NavigateLeftCollapses", func(t *testing.T) {
		tr, ids := expandAll(t)
		tr.SelectEntry(0) // A, expanded
		tr.NavigateLeft()
		if tr.IsExpanded(ids["A"]) {
			t.Error("A still expanded")
		}
		if tr.NeedsRebuild() {
			t.Error("NavigateLeft left the tree dirty")
		}
		if tr.SelectedEntry() != 0 {
			t.Errorf("selection moved to %d", tr.SelectedEntry())
		}
	})

	t.Run("NavigateLeftToParent", func(t *testing.T) {
		tr, _ := expandAll(t)
		tr.SelectEntry(2) // A2
		tr.NavigateLeft()
		if tr.SelectedEntry() != 0 {
			t.Errorf("selected = %d, want 0 (parent A)", tr.SelectedEntry())
		}
	})

	t.Run("NavigateLeftOnRootLeaf", func(t *testing.T) {
		tr := NewTree(4, 20)
		tr.AddRoot(false)
		tr.Rebuild()
		tr.SelectEntry(0)
		tr.NavigateLeft() // no parent: stays put
		if tr.SelectedEntry() != 0 {
			t.Errorf("selected = %d, want 0", tr.SelectedEntry())
		}
	})

	t.Run("NavigateRightExpands", func(t *testing.T) {
		tr, ids := buildSampleTree(t)
		tr.Rebuild()
		tr.SelectEntry(0) // A, collapsed
		tr.NavigateRight()
		if !tr.IsExpanded(ids["A"]) {
			t.Error("A not expanded")
		}
		// Second press steps into the first child.
		tr.NavigateRight()
		if tr.SelectedEntry() != 1 {
			t.Errorf("selected = %d, want 1 (first child)", tr.SelectedEntry())
		}
	})

	t.Run("NavigateRightOnLeafNoOp", func(t *testing.T) {
		tr, _ := expandAll(t)
		tr.SelectEntry(1) // A1, leaf
		tr.NavigateRight()
		if tr.SelectedEntry() != 1 {
			t.Errorf("selected = %d, want 1", tr.SelectedEntry())
		}
	})

	t.Run("RevealExpandsAncestors", func(t *testing.T) {
		tr := NewTree(16, 20)
		a, _ := tr.AddRoot(true)
		b, _ := tr.AddChild(a, true)
		c, _ := tr.AddChild(b, true)
		leaf, _ := tr.AddChild(c, false)
		tr.Rebuild()
		if tr.EntryCount() != 1 {
			t.Fatalf("expected 1 entry, got %d", tr.EntryCount())
		}

		tr.SetViewportHeight(40)
		tr.RevealNode(leaf)
		if tr.EntryCount() != 4 {
			t.Fatalf("expected 4 entries after reveal, got %d", tr.EntryCount())
		}
		if got := tr.Entry(tr.SelectedEntry()).Node; got != leaf {
			t.Errorf("selected node = %d, want %d", got, leaf)
		}
		if !tr.HasPendingScroll() {
			t.Error("reveal issued no scroll request")
		}
		tr.ResolvePendingScroll()
		// Entry 3 bottom 80 - viewport 40.
		if got := tr.ScrollOffset(); got != 40 {
			t.Errorf("scroll offset = %v, want 40", got)
		}
	})

	t.Run("SelectionDroppedWhenHidden", func(t *testing.T) {
		tr, ids := expandAll(t)
		tr.SelectEntry(4) // B1
		tr.SetExpanded(ids["B"], false)
		tr.Rebuild()
		if tr.SelectedEntry() != NoIndex {
			t.Errorf("selection = %d, want NoIndex", tr.SelectedEntry())
		}
	})
}
