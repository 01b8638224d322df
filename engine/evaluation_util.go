package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

var (
	bitboardFileA uint64 = 0x0101010101010101
	bitboardFileH uint64 = 0x8080808080808080
)

var onlyFile = [8]uint64{
	0x0101010101010101,
	0x0202020202020202,
	0x0404040404040404,
	0x0808080808080808,
	0x1010101010101010,
	0x2020202020202020,
	0x4040404040404040,
	0x8080808080808080,
}

// PositionBB[i] is the single-bit board for square i.
var PositionBB [64]uint64

// KingMasks[i] holds the squares adjacent to square i, KnightMasks[i] the
// knight-reach squares.
var KingMasks [64]uint64
var KnightMasks [64]uint64

func init() {
	for i := 0; i < 64; i++ {
		PositionBB[i] = uint64(1) << uint(i)
	}
	for i := 0; i < 64; i++ {
		sqBB := PositionBB[i]

		top := sqBB << 8
		bottom := sqBB >> 8
		left := (sqBB >> 1) &^ bitboardFileH
		right := (sqBB << 1) &^ bitboardFileA
		topLeft := (sqBB << 7) &^ bitboardFileH
		topRight := (sqBB << 9) &^ bitboardFileA
		bottomLeft := (sqBB >> 9) &^ bitboardFileH
		bottomRight := (sqBB >> 7) &^ bitboardFileA

		KingMasks[i] = top | bottom | left | right | topLeft | topRight | bottomLeft | bottomRight

		noNoEa := (sqBB << 17) &^ bitboardFileA
		noEaEa := (sqBB << 10) &^ (bitboardFileA | bitboardFileA<<1)
		soEaEa := (sqBB >> 6) &^ (bitboardFileA | bitboardFileA<<1)
		soSoEa := (sqBB >> 15) &^ bitboardFileA
		noNoWe := (sqBB << 15) &^ bitboardFileH
		noWeWe := (sqBB << 6) &^ (bitboardFileH | bitboardFileH>>1)
		soWeWe := (sqBB >> 10) &^ (bitboardFileH | bitboardFileH>>1)
		soSoWe := (sqBB >> 17) &^ bitboardFileH

		KnightMasks[i] = noNoEa | noEaEa | soEaEa | soSoEa | noNoWe | noWeWe | soWeWe | soSoWe
	}
}

func fileOf(sq int) int { return sq % 8 }
func rankOf(sq int) int { return sq / 8 }

func manhattanDistance(sq1, sq2 int) int {
	return absInt(fileOf(sq1)-fileOf(sq2)) + absInt(rankOf(sq1)-rankOf(sq2))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sliding attack sets come straight from the move generator's magic tables.
func bishopAttacks(sq int, blockers uint64) uint64 {
	return dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), blockers)
}

func rookAttacks(sq int, blockers uint64) uint64 {
	return dragontoothmg.CalculateRookMoveBitboard(uint8(sq), blockers)
}

func queenAttacks(sq int, blockers uint64) uint64 {
	return rookAttacks(sq, blockers) | bishopAttacks(sq, blockers)
}

// isPassedPawn reports whether no enemy pawn on the same or an adjacent file
// is ahead of the pawn on sq.
func isPassedPawn(sq int, white bool, theirPawns uint64) bool {
	file := fileOf(sq)
	rank := rankOf(sq)
	for x := theirPawns; x != 0; x &= x - 1 {
		sq2 := bits.TrailingZeros64(x)
		if absInt(file-fileOf(sq2)) > 1 {
			continue
		}
		if white && rankOf(sq2) > rank {
			return false
		}
		if !white && rankOf(sq2) < rank {
			return false
		}
	}
	return true
}

// isProtectedByPawn reports whether a friendly pawn defends sq.
func isProtectedByPawn(sq int, white bool, ourPawns uint64) bool {
	file := fileOf(sq)
	if white {
		if sq < 8 {
			return false
		}
		if file > 0 && ourPawns&PositionBB[sq-9] != 0 {
			return true
		}
		if file < 7 && ourPawns&PositionBB[sq-7] != 0 {
			return true
		}
		return false
	}
	if sq >= 56 {
		return false
	}
	if file > 0 && ourPawns&PositionBB[sq+7] != 0 {
		return true
	}
	if file < 7 && ourPawns&PositionBB[sq+9] != 0 {
		return true
	}
	return false
}

// isOutpost: the square sits in the opponent's half, is supported by a
// friendly pawn, and no enemy pawn can ever attack it from an adjacent file.
func isOutpost(b *dragontoothmg.Board, sq int, white bool) bool {
	file := fileOf(sq)
	rank := rankOf(sq)

	if white && rank < 4 {
		return false
	}
	if !white && rank > 3 {
		return false
	}

	var ourPawns, theirPawns uint64
	if white {
		ourPawns = b.White.Pawns
		theirPawns = b.Black.Pawns
	} else {
		ourPawns = b.Black.Pawns
		theirPawns = b.White.Pawns
	}

	if !isProtectedByPawn(sq, white, ourPawns) {
		return false
	}

	if white {
		for r := rank + 1; r < 8; r++ {
			if file > 0 && theirPawns&PositionBB[r*8+file-1] != 0 {
				return false
			}
			if file < 7 && theirPawns&PositionBB[r*8+file+1] != 0 {
				return false
			}
		}
	} else {
		for r := rank - 1; r >= 0; r-- {
			if file > 0 && theirPawns&PositionBB[r*8+file-1] != 0 {
				return false
			}
			if file < 7 && theirPawns&PositionBB[r*8+file+1] != 0 {
				return false
			}
		}
	}
	return true
}

// attackersBB returns the pieces of one side that attack sq on the current
// occupancy.
func attackersBB(b *dragontoothmg.Board, byWhite bool, sq int) uint64 {
	var us dragontoothmg.Bitboards
	if byWhite {
		us = b.White
	} else {
		us = b.Black
	}
	occ := b.White.All | b.Black.All

	var attackers uint64
	attackers |= KnightMasks[sq] & us.Knights
	attackers |= KingMasks[sq] & us.Kings
	attackers |= rookAttacks(sq, occ) & (us.Rooks | us.Queens)
	attackers |= bishopAttacks(sq, occ) & (us.Bishops | us.Queens)

	file := fileOf(sq)
	if byWhite {
		if sq >= 8 {
			if file > 0 && us.Pawns&PositionBB[sq-9] != 0 {
				attackers |= PositionBB[sq-9]
			}
			if file < 7 && us.Pawns&PositionBB[sq-7] != 0 {
				attackers |= PositionBB[sq-7]
			}
		}
	} else {
		if sq < 56 {
			if file > 0 && us.Pawns&PositionBB[sq+7] != 0 {
				attackers |= PositionBB[sq+7]
			}
			if file < 7 && us.Pawns&PositionBB[sq+9] != 0 {
				attackers |= PositionBB[sq+9]
			}
		}
	}
	return attackers
}

// isProtected reports whether any friendly piece defends sq.
func isProtected(b *dragontoothmg.Board, white bool, sq int) bool {
	return attackersBB(b, white, sq) != 0
}

// evalInfo carries the per-evaluation file and phase context.
type evalInfo struct {
	openFiles     [8]bool
	semiOpenWhite [8]bool // no white pawn on the file (and not fully open)
	semiOpenBlack [8]bool
	gamePhase     int
}

func buildEvalInfo(b *dragontoothmg.Board) evalInfo {
	var info evalInfo
	info.gamePhase = gamePhase(b)
	for i := 0; i < 8; i++ {
		mask := onlyFile[i]
		whiteOn := b.White.Pawns&mask != 0
		blackOn := b.Black.Pawns&mask != 0
		info.openFiles[i] = !whiteOn && !blackOn
		if !info.openFiles[i] {
			info.semiOpenWhite[i] = !whiteOn
			info.semiOpenBlack[i] = !blackOn
		}
	}
	return info
}

// gamePhase grades the position from 24 (opening) down to 0 (bare kings).
func gamePhase(b *dragontoothmg.Board) int {
	phase := bits.OnesCount64(b.White.Knights|b.White.Bishops) +
		bits.OnesCount64(b.Black.Knights|b.Black.Bishops) +
		2*bits.OnesCount64(b.White.Rooks) + 2*bits.OnesCount64(b.Black.Rooks) +
		4*bits.OnesCount64(b.White.Queens) + 4*bits.OnesCount64(b.Black.Queens)
	if phase > 24 {
		phase = 24
	}
	return phase
}

// materialImbalance is the raw material difference in centipawns, white minus
// black, using the evaluator's base values.
func materialImbalance(b *dragontoothmg.Board) int {
	white := bits.OnesCount64(b.White.Pawns)*PawnValue +
		bits.OnesCount64(b.White.Knights)*KnightValue +
		bits.OnesCount64(b.White.Bishops)*BishopValue +
		bits.OnesCount64(b.White.Rooks)*RookValue +
		bits.OnesCount64(b.White.Queens)*QueenValue
	black := bits.OnesCount64(b.Black.Pawns)*PawnValue +
		bits.OnesCount64(b.Black.Knights)*KnightValue +
		bits.OnesCount64(b.Black.Bishops)*BishopValue +
		bits.OnesCount64(b.Black.Rooks)*RookValue +
		bits.OnesCount64(b.Black.Queens)*QueenValue
	return white - black
}
