package ui

import (
	"github.com/oyilmaz/popt/internal/common"
)

// CategoryNode is one collapsible group in the result tree.
type CategoryNode struct {
	Category    common.Category
	DisplayName string
	Issues      []common.Issue
	Expanded    bool
}

// IssueCount returns the number of issues under this category.
func (n *CategoryNode) IssueCount() int {
	return len(n.Issues)
}

// ResultTree is the collapsible, category-grouped issue tree shown in the
// main view. Navigation operates on a flattened index over category headers
// and the issues of expanded categories.
type ResultTree struct {
	Categories []CategoryNode
	flatIndex  int
}

// NewResultTree groups issues by category in canonical display order.
// Categories start expanded.
func NewResultTree(issues []common.Issue) *ResultTree {
	grouped := make(map[common.Category][]common.Issue)
	for _, iss := range issues {
		grouped[iss.Category] = append(grouped[iss.Category], iss)
	}

	tree := &ResultTree{}
	for _, cat := range common.AllCategories() {
		if len(grouped[cat]) == 0 {
			continue
		}
		tree.Categories = append(tree.Categories, CategoryNode{
			Category:    cat,
			DisplayName: cat.DisplayName(),
			Issues:      grouped[cat],
			Expanded:    true,
		})
	}
	return tree
}

// FlatLen returns the number of rows in the flattened view: one per category
// header plus one per issue of each expanded category.
func (t *ResultTree) FlatLen() int {
	n := 0
	for i := range t.Categories {
		n++
		if t.Categories[i].Expanded {
			n += len(t.Categories[i].Issues)
		}
	}
	return n
}

// FlatIndex returns the currently selected row.
func (t *ResultTree) FlatIndex() int {
	return t.flatIndex
}

// IsCategoryAt reports whether the given flattened row is a category header.
func (t *ResultTree) IsCategoryAt(flatIdx int) bool {
	idx := 0
	for i := range t.Categories {
		if idx == flatIdx {
			return true
		}
		idx++
		if t.Categories[i].Expanded {
			idx += len(t.Categories[i].Issues)
		}
	}
	return false
}

// owningCategoryAt returns the category that owns the given flattened row,
// whether the row is its header or one of its issue rows. Nil when out of
// range.
func (t *ResultTree) owningCategoryAt(flatIdx int) *CategoryNode {
	idx := 0
	for i := range t.Categories {
		span := 1
		if t.Categories[i].Expanded {
			span += len(t.Categories[i].Issues)
		}
		if flatIdx < idx+span {
			return &t.Categories[i]
		}
		idx += span
	}
	return nil
}

// ToggleCurrent flips the expansion of the category owning the selected row.
// On an issue row this collapses the enclosing category. Collapsing can
// shrink the flattened view, so the selection is clamped afterwards.
func (t *ResultTree) ToggleCurrent() {
	if cat := t.owningCategoryAt(t.flatIndex); cat != nil {
		cat.Expanded = !cat.Expanded
	}
	t.clamp()
}

// SelectPrev moves the selection up one row, saturating at the top.
func (t *ResultTree) SelectPrev() {
	if t.flatIndex > 0 {
		t.flatIndex--
	}
}

// SelectNext moves the selection down one row, saturating at the bottom.
func (t *ResultTree) SelectNext() {
	if last := t.FlatLen() - 1; t.flatIndex < last {
		t.flatIndex++
	}
}

// SelectBy moves the selection by delta rows, saturating at both ends. Used
// for page jumps; the tree panel scrolls to follow the selection.
func (t *ResultTree) SelectBy(delta int) {
	t.flatIndex += delta
	if t.flatIndex < 0 {
		t.flatIndex = 0
	}
	t.clamp()
}

// SelectFirst jumps the selection to the top row.
func (t *ResultTree) SelectFirst() {
	t.flatIndex = 0
}

// CollapseAll collapses every category and resets the selection to the top.
func (t *ResultTree) CollapseAll() {
	for i := range t.Categories {
		t.Categories[i].Expanded = false
	}
	t.flatIndex = 0
}

// ExpandAll expands every category.
func (t *ResultTree) ExpandAll() {
	for i := range t.Categories {
		t.Categories[i].Expanded = true
	}
}

// TotalIssues returns the issue count across all categories.
func (t *ResultTree) TotalIssues() int {
	n := 0
	for i := range t.Categories {
		n += len(t.Categories[i].Issues)
	}
	return n
}

// clamp keeps the selection inside the flattened view after structural
// changes such as collapsing an earlier category.
func (t *ResultTree) clamp() {
	if last := t.FlatLen() - 1; t.flatIndex > last {
		if last < 0 {
			t.flatIndex = 0
		} else {
			t.flatIndex = last
		}
	}
}
