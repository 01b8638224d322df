package engine

import (
	"fmt"
	"time"

	"slices"

	"github.com/dylhunn/dragontoothmg"
)

const (
	// Inf bounds every score; mates are encoded as ±(Inf/2 − ply) so that
	// shorter mates order first.
	Inf = 100000

	// EngineDepth is the deepest iteration the driver will ever run.
	EngineDepth = 30

	fiftyMoveLimit = 100
)

// Extension budgets, in plies.
const (
	checkExtension     = 1
	mateThreatExt      = 1
	promotionExtension = 1
	oneReplyExtension  = 1
)

// SearchState owns every table shared across the search: transposition
// table, hash-move table, killers, the per-side pawn caches, the position
// history, and the deadlines of the running search. The root driver owns one
// value; table access is serialized inside each table.
type SearchState struct {
	tt        TransTable
	hashMove  HashMoveTable
	killers   KillerTable
	pawnCache [2]PawnCache

	history   []historyEntry
	rootIndex int

	previousPV []dragontoothmg.Move
	mopUp      bool

	nodes     uint64
	tableHits uint64

	hardDeadline time.Time
	softDeadline time.Time

	// Quiet suppresses the per-iteration info lines.
	Quiet bool
}

func NewSearchState() *SearchState {
	return &SearchState{}
}

// ResetForNewGame drops every table; used on ucinewgame.
func (s *SearchState) ResetForNewGame() {
	s.flushTables()
	s.history = s.history[:0]
	s.previousPV = nil
}

// Nodes reports how many nodes the last search visited.
func (s *SearchState) Nodes() uint64 { return s.nodes }

func (s *SearchState) flushTables() {
	s.tt.clear()
	s.hashMove.clear()
	s.killers.clear()
	s.pawnCache[0].clear()
	s.pawnCache[1].clear()
}

// storeTT writes an entry, flushing every shared table first if the
// transposition table has outgrown its cap.
func (s *SearchState) storeTT(hash uint64, eval, depth int) {
	if s.tt.size() > MaxTableSize {
		s.flushTables()
	}
	s.tt.store(hash, eval, depth)
}

// ClearTables flushes every shared table. The front-end calls it when a
// setoption changes an evaluation term the caches have baked in.
func (s *SearchState) ClearTables() {
	s.flushTables()
}

/*
	Position history. Every make during the search pushes the resulting hash
	and fifty-move counter; every unmake pops. The front-end seeds the stack
	while replaying the game moves so in-game repetitions are seen too.
*/

// ResetHistory reseeds the history with the current board.
func (s *SearchState) ResetHistory(b *dragontoothmg.Board, rule50 int) {
	s.history = s.history[:0]
	s.history = append(s.history, historyEntry{hash: b.Hash(), rule50: rule50})
}

// ApplyAndTrack plays a move on the game board and records the resulting
// position; used by the front-end for "position ... moves".
func (s *SearchState) ApplyAndTrack(b *dragontoothmg.Board, move dragontoothmg.Move) {
	resets := isCaptureOrPawnMove(b, move)
	b.Apply(move)
	rule50 := 0
	if !resets && len(s.history) > 0 {
		rule50 = s.history[len(s.history)-1].rule50 + 1
	}
	s.history = append(s.history, historyEntry{hash: b.Hash(), rule50: rule50})
}

// applyMove plays a move inside the search and returns the undo closure.
// The closure must run on every control path so make and unmake stay
// balanced.
func (s *SearchState) applyMove(b *dragontoothmg.Board, move dragontoothmg.Move) func() {
	resets := isCaptureOrPawnMove(b, move)
	unapply := b.Apply(move)
	rule50 := 0
	if !resets && len(s.history) > 0 {
		rule50 = s.history[len(s.history)-1].rule50 + 1
	}
	s.history = append(s.history, historyEntry{hash: b.Hash(), rule50: rule50})
	return func() {
		unapply()
		s.history = s.history[:len(s.history)-1]
	}
}

func (s *SearchState) applyNull(b *dragontoothmg.Board) func() {
	unapply := applyNullMove(b)
	rule50 := 0
	if len(s.history) > 0 {
		rule50 = s.history[len(s.history)-1].rule50 + 1
	}
	s.history = append(s.history, historyEntry{hash: b.Hash(), rule50: rule50})
	return func() {
		unapply()
		s.history = s.history[:len(s.history)-1]
	}
}

// isDrawByRule reports fifty-move and repetition draws at the current node.
// A repetition inside the search window counts immediately; positions from
// the game prefix need to appear twice.
func (s *SearchState) isDrawByRule() bool {
	if len(s.history) == 0 {
		return false
	}
	curr := s.history[len(s.history)-1]
	if curr.rule50 >= fiftyMoveLimit {
		return true
	}

	start := len(s.history) - 1 - curr.rule50
	if start < 0 {
		start = 0
	}
	matches := 0
	for i := len(s.history) - 2; i >= start; i-- {
		if s.history[i].hash != curr.hash {
			continue
		}
		if i >= s.rootIndex {
			return true
		}
		matches++
		if matches >= 2 {
			return true
		}
	}
	return false
}

/*
	Root driver: iterative deepening with a per-root-move aspiration window.
	Soft deadline is twice the time limit, hard deadline three times; past the
	hard deadline the search is cut mid-flight and the best move from the last
	completed depth stands.
*/
func (s *SearchState) FindBestMove(b *dragontoothmg.Board, maxDepth int, timeLimit time.Duration) (dragontoothmg.Move, bool) {
	startTime := time.Now()
	s.hardDeadline = startTime.Add(3 * timeLimit)
	s.softDeadline = startTime.Add(2 * timeLimit)

	if maxDepth <= 0 || maxDepth > EngineDepth {
		maxDepth = EngineDepth
	}

	s.nodes = 0
	s.tableHits = 0
	s.mopUp = IsMopUp(b)
	if len(s.history) == 0 {
		s.ResetHistory(b, 0)
	}
	s.rootIndex = len(s.history) - 1

	color := 1
	if !b.Wtomove {
		color = -1
	}

	legalMoves := b.GenerateLegalMoves()
	if len(legalMoves) == 0 {
		return 0, false
	}

	moves := s.orderedMoves(b, legalMoves, 1, false, 0)
	var bestMove dragontoothmg.Move = moves[0].move
	if len(moves) == 1 {
		return bestMove, true
	}

	var evals [2*EngineDepth + 2]int
	var candidates [2*EngineDepth + 2]dragontoothmg.Move

	for depth := 1; depth <= maxDepth; depth++ {
		iterationStart := time.Now()

		currentBestEval := -Inf
		var currentBestMove dragontoothmg.Move
		var pv []dragontoothmg.Move
		newMoves := make([]scoredMove, 0, len(moves))

		for i := range moves {
			move := moves[i].move
			leftMost := i == 0

			extension := 3
			if s.mopUp {
				extension = 0
			}

			nextDepth := s.lateMoveReduction(b, move, i, depth)

			// Extension decisions are cheap to read off before the move is
			// played.
			isMateThreat := mateThreatMove(b, move)
			isPromotionThreat := promotionThreatMove(b, move)
			moveGivesCheck := givesCheck(b, move)
			oneReply := len(moves) == 1

			if (moveGivesCheck || isMateThreat || isPromotionThreat) && extension > 0 {
				extension--
				numPlies := 0
				if moveGivesCheck {
					numPlies = Max(checkExtension, numPlies)
				}
				if isMateThreat {
					numPlies = Max(mateThreatExt, numPlies)
				}
				if isPromotionThreat {
					numPlies = Max(promotionExtension, numPlies)
				}
				if oneReply && !moveGivesCheck {
					numPlies = Max(oneReplyExtension, numPlies)
				}
				nextDepth += numPlies
			}

			aspiration := evals[depth-1]
			if depth == 1 {
				aspiration = color * s.Evaluate(b)
			}

			windowLeft := 50
			windowRight := 50
			eval := -Inf
			var childPV PVLine

			for {
				alpha := aspiration - windowLeft
				beta := aspiration + windowRight
				if s.mopUp {
					alpha = -Inf
					beta = Inf
				}

				childPV.Clear()
				unapply := s.applyMove(b, move)
				eval = -s.negamax(b, nextDepth, -beta, -alpha, &childPV, leftMost, extension, 1)
				unapply()

				if time.Now().After(s.hardDeadline) {
					return bestMove, true
				}

				if eval <= alpha {
					windowLeft *= 2
				} else if eval >= beta {
					windowRight *= 2
				} else {
					break
				}
			}

			// A reduced move that turns out best deserves the full window at
			// full depth.
			if eval > currentBestEval && nextDepth < depth-1 {
				childPV.Clear()
				unapply := s.applyMove(b, move)
				eval = -s.negamax(b, depth-1, -Inf, Inf, &childPV, leftMost, extension, 1)
				unapply()

				if time.Now().After(s.hardDeadline) {
					return bestMove, true
				}
			}

			newMoves = append(newMoves, scoredMove{move: move, priority: eval})

			if eval > currentBestEval {
				currentBestEval = eval
				currentBestMove = move
				pv = append([]dragontoothmg.Move{move}, childPV.Moves...)
			}
		}

		bestMove = currentBestMove
		bestEval := currentBestEval

		slices.SortStableFunc(newMoves, func(a, b scoredMove) int {
			return b.priority - a.priority
		})
		moves = newMoves
		s.previousPV = pv

		s.storeTT(b.Hash(), bestEval, depth)

		if !s.Quiet {
			fmt.Println("info depth", depth,
				"score cp", color*bestEval,
				"nodes", s.nodes,
				"time", time.Since(iterationStart).Milliseconds(),
				"pv", getPVLineString(pv))
		}

		evals[depth] = bestEval
		candidates[depth] = bestMove

		timeLimitExceeded := time.Since(startTime) > timeLimit
		pastSoftDeadline := time.Now().After(s.softDeadline)

		stableEval := true
		if depth > 3 && absInt(evals[depth]-evals[depth-2]) > 40 && candidates[depth] != candidates[depth-2] {
			stableEval = false
		}

		if !timeLimitExceeded {
			continue
		}
		if stableEval || depth >= EngineDepth || pastSoftDeadline {
			break
		}
	}

	return bestMove, true
}

/*
	Negamax with alpha-beta, principal-variation search, and the pruning
	stack: transposition cutoffs, futility, razoring, null move, late move
	reductions, and selective extensions. Returns the score from the side to
	move's point of view.
*/
func (s *SearchState) negamax(b *dragontoothmg.Board, depth, alpha, beta int, pv *PVLine, leftMost bool, extension int, ply int) int {
	// Values computed past the hard deadline are discarded by the root.
	if !s.hardDeadline.IsZero() && time.Now().After(s.hardDeadline) {
		return 0
	}
	s.nodes++

	if s.isDrawByRule() || insufficientMaterial(b) {
		return 0
	}

	if ply >= MaxDepth {
		if b.Wtomove {
			return s.Evaluate(b)
		}
		return -s.Evaluate(b)
	}

	inCheck := b.OurKingInCheck()

	legalMoves := b.GenerateLegalMoves()
	if len(legalMoves) == 0 {
		if inCheck {
			return -(Inf/2 - ply)
		}
		return 0
	}

	hash := b.Hash()
	isPV := alpha < beta-1

	if storedEval, ok := s.tt.probe(hash, depth); ok && storedEval >= beta {
		s.tableHits++
		return storedEval
	}

	if depth <= 0 {
		quiescenceEval := s.quiescence(b, alpha, beta)
		s.storeTT(hash, quiescenceEval, 0)
		return quiescenceEval
	}

	color := 1
	if !b.Wtomove {
		color = -1
	}
	endGame := gamePhase(b) <= 12

	// Pruning is off near mate scores, in check, in mop-up, and in the
	// endgame, where a static margin tells you nothing.
	pruning := !inCheck && !s.mopUp && !endGame && alpha < Inf/4 && alpha > -Inf/4
	standPat := color * materialImbalance(b)

	// Futility: a position this far above beta at shallow depth is a cutoff.
	if depth < 3 && pruning {
		margin := depth * 130
		if standPat-margin > beta {
			return standPat - margin
		}
	}

	// Razoring: too weak to raise alpha, drop to quiescence.
	if depth <= 3 && pruning && !isPV {
		razorMargin := 400 + (depth-1)*60
		if standPat+razorMargin < alpha {
			return s.quiescence(b, alpha, beta)
		}
	}

	// Null move: hand over the move; still failing high means a cutoff.
	if depth >= 4 && !endGame && !leftMost && !inCheck && !s.mopUp {
		reduction := 3 + depth/4
		var nullPV PVLine
		undoNull := s.applyNull(b)
		nullEval := -s.negamax(b, depth-reduction, -beta, -(beta - 1), &nullPV, false, extension, ply+1)
		undoNull()
		if nullEval >= beta {
			return beta
		}
	}

	moves := s.orderedMoves(b, legalMoves, depth, leftMost, ply)
	bestEval := -Inf
	var childPV PVLine

	for i := range moves {
		move := moves[i].move

		nextDepth := s.lateMoveReduction(b, move, i, depth)
		if i > 0 {
			leftMost = false
		}

		isCapture := dragontoothmg.IsCapture(move, b)
		isMateThreat := mateThreatMove(b, move)
		isPromotionThreat := promotionThreatMove(b, move)
		oneReply := len(moves) == 1

		childPV.Clear()
		unapply := s.applyMove(b, move)

		moveGivesCheck := b.OurKingInCheck()

		if (moveGivesCheck || isMateThreat || isPromotionThreat) && extension > 0 {
			extension--
			numPlies := 0
			if moveGivesCheck {
				numPlies = Max(checkExtension, numPlies)
			}
			if isMateThreat {
				numPlies = Max(mateThreatExt, numPlies)
			}
			if isPromotionThreat {
				numPlies = Max(promotionExtension, numPlies)
			}
			if oneReply && !moveGivesCheck {
				numPlies = Max(oneReplyExtension, numPlies)
			}
			nextDepth += numPlies
		}

		/*
			PVS: full window and depth for the first move (and all of mop-up);
			null window for the rest. A null-window fail-high over a reduced
			depth first re-searches at full depth with the null window, then,
			if it still raises alpha, with the full window.
		*/
		var eval int
		nullWindow := false
		if i == 0 || s.mopUp {
			eval = -s.negamax(b, nextDepth, -beta, -alpha, &childPV, leftMost, extension, ply+1)
		} else {
			nullWindow = true
			eval = -s.negamax(b, nextDepth, -(alpha + 1), -alpha, &childPV, leftMost, extension, ply+1)
		}

		if eval > alpha && nullWindow && nextDepth < depth-1 {
			eval = -s.negamax(b, depth-1, -(alpha + 1), -alpha, &childPV, leftMost, extension, ply+1)
		}
		if eval > alpha && nullWindow {
			eval = -s.negamax(b, depth-1, -beta, -alpha, &childPV, leftMost, extension, ply+1)
		}

		unapply()

		if eval > alpha {
			pv.Update(move, &childPV)
		}

		bestEval = Max(bestEval, eval)
		alpha = Max(alpha, eval)

		if beta <= alpha {
			if !isCapture && !moveGivesCheck {
				s.killers.insert(move, depth)
			}
			break
		}
	}

	if len(pv.Moves) > 0 {
		s.storeTT(hash, bestEval, depth)
		s.hashMove.store(hash, pv.Moves[0])
	}

	return bestEval
}

// quiescence resolves the tactical noise at the horizon by searching captures
// only, with stand-pat, SEE ordering, and delta pruning.
func (s *SearchState) quiescence(b *dragontoothmg.Board, alpha, beta int) int {
	if !s.hardDeadline.IsZero() && time.Now().After(s.hardDeadline) {
		return 0
	}
	s.nodes++

	color := 1
	if !b.Wtomove {
		color = -1
	}

	standPat := color * s.Evaluate(b)
	if standPat >= beta {
		return beta
	}
	alpha = Max(alpha, standPat)
	bestScore := standPat

	var victims, attackers *dragontoothmg.Bitboards
	if b.Wtomove {
		victims = &b.Black
		attackers = &b.White
	} else {
		victims = &b.White
		attackers = &b.Black
	}

	captures := generateCaptures(b)
	candidates := make([]scoredMove, 0, len(captures))
	for _, move := range captures {
		victim, _ := pieceTypeAt(move.To(), victims)
		attacker, _ := pieceTypeAt(move.From(), attackers)

		// Delta pruning: even winning the victim outright cannot get near
		// beta.
		const deltaMargin = 400
		if standPat+seePieceValue[victim]-seePieceValue[attacker]+deltaMargin < beta {
			continue
		}

		candidates = append(candidates, scoredMove{move: move, priority: see(b, move)})
	}

	slices.SortStableFunc(candidates, func(a, b scoredMove) int {
		return b.priority - a.priority
	})

	for _, candidate := range candidates {
		unapply := s.applyMove(b, candidate.move)
		score := -s.quiescence(b, -beta, -alpha)
		unapply()

		bestScore = Max(bestScore, score)
		alpha = Max(alpha, score)

		if alpha >= beta {
			return beta
		}
	}

	return bestScore
}
