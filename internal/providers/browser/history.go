package browser

// History is one window's navigation stack
type History struct {
	entries []string
	index   int
}

// NewHistory starts a history at the given page
func NewHistory(start string) *History {
	return &History{entries: []string{start}}
}

// Visit pushes a page and drops any forward entries
func (h *History) Visit(u string) {
	h.entries = append(h.entries[:h.index+1], u)
	h.index = len(h.entries) - 1
}

// Back moves one page back and reports whether it moved
func (h *History) Back() bool {
	if !h.CanBack() {
		return false
	}
	h.index--
	return true
}

// Forward moves one page forward and reports whether it moved
func (h *History) Forward() bool {
	if !h.CanForward() {
		return false
	}
	h.index++
	return true
}

// CanBack reports whether a previous page exists
func (h *History) CanBack() bool { return h.index > 0 }

// CanForward reports whether a next page exists
func (h *History) CanForward() bool { return h.index < len(h.entries)-1 }

// Current returns the page being shown
func (h *History) Current() string { return h.entries[h.index] }

// Len returns the number of entries
func (h *History) Len() int { return len(h.entries) }
