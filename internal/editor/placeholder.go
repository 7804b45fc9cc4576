package editor

import (
	"fmt"
	"regexp"
	"strconv"
)

// Symbolic placeholder vocabulary used in catalog examples, longest
// alternatives first so colDate wins over colD-prefix ambiguity.
var symbolicPlaceholder = regexp.MustCompile(`\b(?:colDate|colA|colB|colC|colX|condition|number|value|text|exponent|divisor|base|unit|count|fraction|digits)\b`)

// slotToken matches the numbered slots produced by NumberPlaceholders.
var slotToken = regexp.MustCompile(`\bCol(\d+)\b`)

// NumberPlaceholders rewrites the symbolic placeholders of a catalog example
// into sequential Col1, Col2, ... slots the user fills in one by one.
func NumberPlaceholders(example string) string {
	n := 0
	return symbolicPlaceholder.ReplaceAllStringFunc(example, func(string) string {
		n++
		return fmt.Sprintf("Col%d", n)
	})
}

// HasSlots reports whether any numbered slot remains in the text.
func HasSlots(text string) bool {
	return slotToken.MatchString(text)
}

// slot is one ColN occurrence.
type slot struct {
	start, end int
}

func findSlots(text string) []slot {
	var slots []slot
	for _, loc := range slotToken.FindAllStringIndex(text, -1) {
		slots = append(slots, slot{start: loc[0], end: loc[1]})
	}
	return slots
}

// ConsumeNearest replaces the slot nearest the cursor with the replacement
// text and returns the new text plus the cursor position right after the
// inserted content. ok is false when no slot remains.
func ConsumeNearest(text string, cursor int, replacement string) (out string, newCursor int, ok bool) {
	slots := findSlots(text)
	if len(slots) == 0 {
		return text, cursor, false
	}

	best := slots[0]
	bestDist := slotDistance(best, cursor)
	for _, s := range slots[1:] {
		if d := slotDistance(s, cursor); d < bestDist {
			best, bestDist = s, d
		}
	}
	out = text[:best.start] + replacement + text[best.end:]
	return out, best.start + len(replacement), true
}

// ConsumeFirst replaces the first slot in the text, used for click-driven
// column inserts where the cursor position is not meaningful.
func ConsumeFirst(text, replacement string) (out string, newCursor int, ok bool) {
	slots := findSlots(text)
	if len(slots) == 0 {
		return text, 0, false
	}
	first := slots[0]
	out = text[:first.start] + replacement + text[first.end:]
	return out, first.start + len(replacement), true
}

func slotDistance(s slot, cursor int) int {
	if cursor < s.start {
		return s.start - cursor
	}
	if cursor > s.end {
		return cursor - s.end
	}
	return 0
}

// SlotNumber extracts the N of a ColN token, for display purposes.
func SlotNumber(token string) (int, bool) {
	m := slotToken.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
