package engine

import (
	"github.com/dylhunn/dragontoothmg"

	"slices"
)

// Move ordering priorities. The hash move short-circuits every other
// classification; quiet moves always come last.
const (
	pvMovePriority    = 10000
	hashMovePriority  = 9000
	promotionPriority = 6000
	capturePriority   = 4000
	checkPriority     = 4000
	killerPriority    = 2000
)

type scoredMove struct {
	move     dragontoothmg.Move
	priority int
}

// orderedMoves returns the legal moves sorted best-first: the previous
// iteration's PV move on the leftmost line, then the hash move, then promotions,
// captures graded by their exchange value, checks and killers, and finally
// the quiet rest in generation order.
func (s *SearchState) orderedMoves(b *dragontoothmg.Board, moves []dragontoothmg.Move, depth int, leftMost bool, ply int) []scoredMove {
	candidates := make([]scoredMove, 0, len(moves))
	quiets := make([]scoredMove, 0, len(moves))

	hash := b.Hash()
	hashMove, haveHashMove := s.hashMove.lookup(hash)

	for _, move := range moves {
		if haveHashMove && move == hashMove {
			candidates = append(candidates, scoredMove{move: move, priority: hashMovePriority})
			continue
		}

		priority := 0
		quiet := false

		switch {
		case leftMost && ply < len(s.previousPV) && s.previousPV[ply] == move:
			priority = pvMovePriority
		case s.killers.isKiller(move, depth):
			priority = killerPriority
		case move.Promote() != 0:
			priority = promotionPriority
		case dragontoothmg.IsCapture(move, b):
			priority = capturePriority + see(b, move)
		case givesCheck(b, move):
			priority = checkPriority
		default:
			quiet = true
		}

		if quiet {
			quiets = append(quiets, scoredMove{move: move})
		} else {
			candidates = append(candidates, scoredMove{move: move, priority: priority})
		}
	}

	slices.SortStableFunc(candidates, func(a, b scoredMove) int {
		return b.priority - a.priority
	})

	return append(candidates, quiets...)
}
