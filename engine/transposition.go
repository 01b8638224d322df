package engine

import (
	"sync"

	"github.com/dylhunn/dragontoothmg"
)

// MaxTableSize caps the transposition table; exceeding it flushes every
// shared table at once. Adjustable through setoption.
var MaxTableSize = 10000000

type ttEntry struct {
	eval  int
	depth int
}

// TransTable maps Zobrist hashes to (eval, searched depth). Replacement is an
// unconditional overwrite. An entry is only believed when it was searched at
// least as deep as the request.
type TransTable struct {
	mu      sync.Mutex
	entries map[uint64]ttEntry
}

func (tt *TransTable) probe(hash uint64, depth int) (int, bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	entry, ok := tt.entries[hash]
	if !ok || entry.depth < depth {
		return 0, false
	}
	return entry.eval, true
}

func (tt *TransTable) store(hash uint64, eval, depth int) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if tt.entries == nil {
		tt.entries = make(map[uint64]ttEntry)
	}
	tt.entries[hash] = ttEntry{eval: eval, depth: depth}
}

func (tt *TransTable) size() int {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return len(tt.entries)
}

func (tt *TransTable) clear() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.entries = nil
}

// HashMoveTable remembers the best move seen for a position, used to lead the
// move ordering.
type HashMoveTable struct {
	mu      sync.Mutex
	entries map[uint64]dragontoothmg.Move
}

func (hm *HashMoveTable) lookup(hash uint64) (dragontoothmg.Move, bool) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	move, ok := hm.entries[hash]
	return move, ok
}

func (hm *HashMoveTable) store(hash uint64, move dragontoothmg.Move) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	if hm.entries == nil {
		hm.entries = make(map[uint64]dragontoothmg.Move)
	}
	hm.entries[hash] = move
}

func (hm *HashMoveTable) clear() {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.entries = nil
}
