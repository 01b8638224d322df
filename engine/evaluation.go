package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// knownDraw recognizes material combinations that cannot be won: bare kings,
// a lone minor piece, two knights, and the drawish R vs N / R vs B endings.
func knownDraw(b *dragontoothmg.Board) bool {
	if bits.OnesCount64(b.White.All) == 1 && bits.OnesCount64(b.Black.All) == 1 {
		return true
	}

	wp := bits.OnesCount64(b.White.Pawns)
	wn := bits.OnesCount64(b.White.Knights)
	wb := bits.OnesCount64(b.White.Bishops)
	wr := bits.OnesCount64(b.White.Rooks)
	wq := bits.OnesCount64(b.White.Queens)

	bp := bits.OnesCount64(b.Black.Pawns)
	bn := bits.OnesCount64(b.Black.Knights)
	bb := bits.OnesCount64(b.Black.Bishops)
	br := bits.OnesCount64(b.Black.Rooks)
	bq := bits.OnesCount64(b.Black.Queens)

	if wp > 0 || bp > 0 {
		return false
	}

	// Two knights (or fewer) cannot force mate against a bare king.
	if wn <= 2 && wb == 0 && wr == 0 && wq == 0 &&
		bn == 0 && bb == 0 && br == 0 && bq == 0 {
		return true
	}
	if bn <= 2 && bb == 0 && br == 0 && bq == 0 &&
		wn == 0 && wb == 0 && wr == 0 && wq == 0 {
		return true
	}

	// A single bishop cannot mate either.
	if wb == 1 && wn == 0 && wr == 0 && wq == 0 &&
		bn == 0 && bb == 0 && br == 0 && bq == 0 {
		return true
	}
	if bb == 1 && bn == 0 && br == 0 && bq == 0 &&
		wn == 0 && wb == 0 && wr == 0 && wq == 0 {
		return true
	}

	// Rook against a single minor is drawish.
	if wr == 1 && wn == 0 && wb == 0 && wq == 0 && bq == 0 && br == 0 &&
		((bn == 1 && bb == 0) || (bn == 0 && bb == 1)) {
		return true
	}
	if br == 1 && bn == 0 && bb == 0 && bq == 0 && wq == 0 && wr == 0 &&
		((wn == 1 && wb == 0) || (wn == 0 && wb == 1)) {
		return true
	}

	return false
}

// IsMopUp reports whether one side is down to its bare king while the other
// still has pieces.
func IsMopUp(b *dragontoothmg.Board) bool {
	whiteCount := bits.OnesCount64(b.White.All)
	blackCount := bits.OnesCount64(b.Black.All)
	if whiteCount == 1 && blackCount == 1 {
		return false
	}
	return whiteCount == 1 || blackCount == 1
}

// mopUpScore drives the winning king toward the loser and the loser toward
// the edge: herding distance pays more than anything positional.
func mopUpScore(b *dragontoothmg.Board) int {
	whiteWinning := bits.OnesCount64(b.White.All) > 1

	var winnerKings, loserKings uint64
	if whiteWinning {
		winnerKings = b.White.Kings
		loserKings = b.Black.Kings
	} else {
		winnerKings = b.Black.Kings
		loserKings = b.White.Kings
	}

	winnerKingSq := bits.TrailingZeros64(winnerKings)
	loserKingSq := bits.TrailingZeros64(loserKings)

	kingDist := manhattanDistance(winnerKingSq, loserKingSq)
	distToCenter := manhattanDistance(loserKingSq, E4)
	score := 5000 + 500*distToCenter + 150*(14-kingDist)

	if whiteWinning {
		return score
	}
	return -score
}

// Evaluate returns the static score of the position in centipawns from
// white's point of view. The search negates it per side to move.
func (s *SearchState) Evaluate(b *dragontoothmg.Board) int {
	if knownDraw(b) {
		return 0
	}
	if IsMopUp(b) {
		return mopUpScore(b)
	}

	info := buildEvalInfo(b)

	whiteScore := 0
	blackScore := 0

	if b.Wtomove {
		whiteScore += TempoBonus
	} else {
		blackScore += TempoBonus
	}

	whiteScore += s.pawnValue(b, PawnValue, true, &info)
	blackScore += s.pawnValue(b, PawnValue, false, &info)
	whiteScore += knightValue(b, KnightValue, true, &info)
	blackScore += knightValue(b, KnightValue, false, &info)
	whiteScore += bishopValue(b, BishopValue, true, &info)
	blackScore += bishopValue(b, BishopValue, false, &info)
	whiteScore += rookValue(b, RookValue, true, &info)
	blackScore += rookValue(b, RookValue, false, &info)
	whiteScore += queenValue(b, QueenValue, true, &info)
	blackScore += queenValue(b, QueenValue, false, &info)
	whiteScore += kingValue(b, KingValue, true, &info)
	blackScore += kingValue(b, KingValue, false, &info)

	/*
		Piece-deficit penalty, scaled by phase so that trading pieces for
		pawns hurts early on, plus a flat penalty for the side behind on total
		material so a positional edge has to be real.
	*/
	whitePieceValue := 9*bits.OnesCount64(b.White.Queens) + 5*bits.OnesCount64(b.White.Rooks) +
		3*bits.OnesCount64(b.White.Bishops) + 3*bits.OnesCount64(b.White.Knights)
	blackPieceValue := 9*bits.OnesCount64(b.Black.Queens) + 5*bits.OnesCount64(b.Black.Rooks) +
		3*bits.OnesCount64(b.Black.Bishops) + 3*bits.OnesCount64(b.Black.Knights)

	pieceDeficitPenalty := info.gamePhase * 5
	if whitePieceValue < blackPieceValue {
		whiteScore -= pieceDeficitPenalty
	} else if blackPieceValue < whitePieceValue {
		blackScore -= pieceDeficitPenalty
	}

	const deficitPenalty = 50
	whiteMaterial := whitePieceValue + bits.OnesCount64(b.White.Pawns)
	blackMaterial := blackPieceValue + bits.OnesCount64(b.Black.Pawns)
	if whiteMaterial < blackMaterial {
		whiteScore -= deficitPenalty
	} else if blackMaterial < whiteMaterial {
		blackScore -= deficitPenalty
	}

	whiteAdj, blackAdj := patternAdjustments(b)
	whiteScore += whiteAdj
	blackScore += blackAdj

	return whiteScore - blackScore
}

// patternAdjustments applies the handful of exact-shape bonuses and
// penalties: center control, blocked central pawns, premature queen
// development, and the classic trapped or buried bishop shapes.
func patternAdjustments(b *dragontoothmg.Board) (whiteScore, blackScore int) {
	const centerControlBonus = 15
	const extendedCenterControlBonus = 10
	const blockCentralPawnPenalty = 60

	center := PositionBB[D4] | PositionBB[E4] | PositionBB[D5] | PositionBB[E5]
	extendedCenter := PositionBB[C4] | PositionBB[C5] | PositionBB[F4] | PositionBB[F5]

	whiteScore += bits.OnesCount64(b.White.All&center) * centerControlBonus
	blackScore += bits.OnesCount64(b.Black.All&center) * centerControlBonus
	whiteScore += bits.OnesCount64(b.White.All&extendedCenter) * extendedCenterControlBonus
	blackScore += bits.OnesCount64(b.Black.All&extendedCenter) * extendedCenterControlBonus

	// Central pawns still sitting on their home squares hold back the whole
	// development.
	if b.White.Pawns&PositionBB[D2] != 0 {
		whiteScore -= blockCentralPawnPenalty
	}
	if b.White.Pawns&PositionBB[E2] != 0 {
		whiteScore -= blockCentralPawnPenalty
	}
	if b.Black.Pawns&PositionBB[D7] != 0 {
		blackScore -= blockCentralPawnPenalty
	}
	if b.Black.Pawns&PositionBB[E7] != 0 {
		blackScore -= blockCentralPawnPenalty
	}

	// Queen out before the minors.
	whiteQueenDeveloped := b.White.Queens != 0 && bits.TrailingZeros64(b.White.Queens) != D1
	blackQueenDeveloped := b.Black.Queens != 0 && bits.TrailingZeros64(b.Black.Queens) != D8

	if whiteQueenDeveloped {
		undeveloped := bits.OnesCount64(b.White.Knights&(PositionBB[B1]|PositionBB[G1])) +
			bits.OnesCount64(b.White.Bishops&(PositionBB[C1]|PositionBB[F1]))
		whiteScore -= 7 * undeveloped
	}
	if blackQueenDeveloped {
		undeveloped := bits.OnesCount64(b.Black.Knights&(PositionBB[B8]|PositionBB[G8])) +
			bits.OnesCount64(b.Black.Bishops&(PositionBB[C8]|PositionBB[F8]))
		blackScore -= 7 * undeveloped
	}

	const trappedBishopPenalty = 250

	// Bishop buried behind enemy pawns in the corner.
	if b.White.Bishops&(PositionBB[A7]|PositionBB[B8]) != 0 &&
		b.Black.Pawns&PositionBB[B6] != 0 && b.Black.Pawns&PositionBB[C7] != 0 {
		whiteScore -= trappedBishopPenalty
	}
	if b.White.Bishops&(PositionBB[H7]|PositionBB[G8]) != 0 &&
		b.Black.Pawns&PositionBB[G6] != 0 && b.Black.Pawns&PositionBB[F7] != 0 {
		whiteScore -= trappedBishopPenalty
	}
	if b.Black.Bishops&(PositionBB[A2]|PositionBB[B1]) != 0 &&
		b.White.Pawns&PositionBB[B3] != 0 && b.White.Pawns&PositionBB[C2] != 0 {
		blackScore -= trappedBishopPenalty
	}
	if b.Black.Bishops&(PositionBB[H2]|PositionBB[G1]) != 0 &&
		b.White.Pawns&PositionBB[G3] != 0 && b.White.Pawns&PositionBB[F2] != 0 {
		blackScore -= trappedBishopPenalty
	}

	const blockedBishopPenalty = 20

	if b.White.Bishops&(PositionBB[C1]|PositionBB[D2]) != 0 && b.White.Pawns&PositionBB[E3] != 0 {
		whiteScore -= blockedBishopPenalty
	}
	if b.White.Bishops&(PositionBB[F1]|PositionBB[E2]) != 0 && b.White.Pawns&PositionBB[D3] != 0 {
		whiteScore -= blockedBishopPenalty
	}
	if b.Black.Bishops&(PositionBB[C8]|PositionBB[D7]) != 0 && b.Black.Pawns&PositionBB[E6] != 0 {
		blackScore -= blockedBishopPenalty
	}
	if b.Black.Bishops&(PositionBB[F8]|PositionBB[E7]) != 0 && b.Black.Pawns&PositionBB[D6] != 0 {
		blackScore -= blockedBishopPenalty
	}

	const blockedFianchettoPenalty = 30

	if (b.White.Bishops&PositionBB[B2] != 0 && b.White.Pawns&PositionBB[D4] != 0) ||
		(b.White.Bishops&PositionBB[G2] != 0 && b.White.Pawns&PositionBB[E4] != 0) {
		whiteScore -= blockedFianchettoPenalty
	}
	if (b.Black.Bishops&PositionBB[B7] != 0 && b.Black.Pawns&PositionBB[D5] != 0) ||
		(b.Black.Bishops&PositionBB[G7] != 0 && b.Black.Pawns&PositionBB[E5] != 0) {
		blackScore -= blockedFianchettoPenalty
	}

	return whiteScore, blackScore
}
