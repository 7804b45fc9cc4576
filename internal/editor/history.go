// Package editor holds the mutable authoring state around the pure formula
// analysis: undo/redo history, placeholder slot consumption, and the Session
// that ties text, cursor, suggestions, and the apply gate together.
package editor

// History is a linear undo/redo stack of text snapshots. Pushing while not
// at the tip truncates the redo tail, like every plain-text editor.
type History struct {
	entries []string
	index   int
}

// NewHistory returns a history seeded with the initial text, so the user can
// always undo back to the state the editor opened with.
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}}
}

// Push records a snapshot if it differs from the current entry. Entries past
// the current index are discarded.
func (h *History) Push(text string) {
	if text == h.entries[h.index] {
		return
	}
	h.entries = append(h.entries[:h.index+1], text)
	h.index = len(h.entries) - 1
}

// Undo steps back one entry. ok is false at the oldest entry.
func (h *History) Undo() (text string, ok bool) {
	if h.index == 0 {
		return h.entries[0], false
	}
	h.index--
	return h.entries[h.index], true
}

// Redo steps forward one entry. ok is false at the newest entry.
func (h *History) Redo() (text string, ok bool) {
	if h.index == len(h.entries)-1 {
		return h.entries[h.index], false
	}
	h.index++
	return h.entries[h.index], true
}

// Current returns the entry at the cursor.
func (h *History) Current() string {
	return h.entries[h.index]
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}
