package fsm

import (
	"time"

	"gopkg.in/eapache/queue.v1"
)

const DefaultHistoryCapacity = 32

// HistoryEntry records one committed transition.
type HistoryEntry struct {
	Time  time.Time
	From  State
	To    State
	Label string
}

// History is a fixed-capacity log of recent transitions; the oldest entry is
// evicted first. It is diagnostic only and never read by rules.
type History struct {
	capacity int
	entries  *queue.Queue
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity, entries: queue.New()}
}

func (h *History) Append(e HistoryEntry) {
	if h.entries.Length() >= h.capacity {
		h.entries.Remove()
	}
	h.entries.Add(e)
}

func (h *History) Len() int {
	return h.entries.Length()
}

func (h *History) Capacity() int {
	return h.capacity
}

// Entries returns the log oldest first.
func (h *History) Entries() []HistoryEntry {
	n := h.entries.Length()
	out := make([]HistoryEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, h.entries.Get(i).(HistoryEntry))
	}
	return out
}

// Last returns the most recent entry.
func (h *History) Last() (HistoryEntry, bool) {
	if h.entries.Length() == 0 {
		return HistoryEntry{}, false
	}
	return h.entries.Get(-1).(HistoryEntry), true
}

func (h *History) Clear() {
	h.entries = queue.New()
}
