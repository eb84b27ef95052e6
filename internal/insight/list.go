package insight

import (
	"tradeview/internal/domain"
)

// Page is the initial visible-item cap before user-triggered expansion.
const Page = 5

// List holds the accumulated event items for one rendering surface, with
// duplicate suppression by identity key and a collapsed/expanded visibility
// flag. A List has a single logical owner (the controller or event loop
// driving it) and is not safe for concurrent mutation.
type List struct {
	items    []domain.EventItem
	seen     map[string]bool
	expanded bool
}

// NewList creates an empty, collapsed list.
func NewList() *List {
	return &List{seen: make(map[string]bool)}
}

// Reset clears all items and seen keys and collapses the list. Called at the
// start of every new query.
func (l *List) Reset() {
	l.items = nil
	l.seen = make(map[string]bool)
	l.expanded = false
}

// Append admits an item through the duplicate guard and, if admitted,
// stores it in arrival order. It reports whether the visible region
// changed: a duplicate never changes it, an item landing inside the
// visible window does, and so does the arrival that first makes the
// expand control appear.
func (l *List) Append(item domain.EventItem) bool {
	key := item.Key()
	if l.seen[key] {
		return false
	}
	l.seen[key] = true
	l.items = append(l.items, item)

	n := len(l.items)
	return l.expanded || n <= Page || n == Page+1
}

// Expand makes all items visible. Reports whether the flag changed.
func (l *List) Expand() bool {
	if l.expanded {
		return false
	}
	l.expanded = true
	return true
}

// Collapse restores the Page-item cap. Reports whether the flag changed.
func (l *List) Collapse() bool {
	if !l.expanded {
		return false
	}
	l.expanded = false
	return true
}

// Toggle flips between expanded and collapsed.
func (l *List) Toggle() {
	l.expanded = !l.expanded
}

// Expanded returns the current visibility flag.
func (l *List) Expanded() bool {
	return l.expanded
}

// Len returns the number of admitted items.
func (l *List) Len() int {
	return len(l.items)
}

// Visible returns a copy of the currently visible items: everything when
// expanded, otherwise the first Page entries, preserving arrival order.
func (l *List) Visible() []domain.EventItem {
	n := len(l.items)
	if !l.expanded && n > Page {
		n = Page
	}
	out := make([]domain.EventItem, n)
	copy(out, l.items[:n])
	return out
}

// Items returns a copy of all admitted items in arrival order.
func (l *List) Items() []domain.EventItem {
	out := make([]domain.EventItem, len(l.items))
	copy(out, l.items)
	return out
}

// ShowControl reports whether the expand/collapse control should be
// rendered: only when there are more items than the collapsed cap.
func (l *List) ShowControl() bool {
	return len(l.items) > Page
}
