package engine

import (
	"sync"

	"github.com/dylhunn/dragontoothmg"
)

// KillerTable keeps up to two quiet moves per depth that caused beta cutoffs.
type KillerTable struct {
	mu      sync.Mutex
	killers [MaxDepth + 1][2]dragontoothmg.Move
}

func (k *KillerTable) insert(move dragontoothmg.Move, depth int) {
	if depth < 0 || depth > MaxDepth {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if move != k.killers[depth][0] {
		k.killers[depth][1] = k.killers[depth][0]
		k.killers[depth][0] = move
	}
}

func (k *KillerTable) isKiller(move dragontoothmg.Move, depth int) bool {
	if depth < 0 || depth > MaxDepth {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return move != 0 && (k.killers[depth][0] == move || k.killers[depth][1] == move)
}

func (k *KillerTable) clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	var empty dragontoothmg.Move
	for d := 0; d <= MaxDepth; d++ {
		k.killers[d][0] = empty
		k.killers[d][1] = empty
	}
}
