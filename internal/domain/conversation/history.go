package conversation

import "sync"

// History keeps recent turns per user in memory. It is safe for concurrent
// use. Long-term recall lives in the vector store; this only feeds the
// sliding window sent with each completion request.
type History struct {
	mu    sync.Mutex
	turns map[string][]Turn
}

func NewHistory() *History {
	return &History{turns: make(map[string][]Turn)}
}

// Append records turns for userID in arrival order.
func (h *History) Append(userID string, turns ...Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns[userID] = append(h.turns[userID], turns...)
}

// Recent returns a copy of the last n turns for userID, oldest first.
// n <= 0 returns all turns.
func (h *History) Recent(userID string, n int) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	all := h.turns[userID]
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	out := make([]Turn, len(all))
	copy(out, all)
	return out
}

// Len reports the number of stored turns for userID.
func (h *History) Len(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns[userID])
}
