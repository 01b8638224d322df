package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// MaxDepth bounds the killer table and any per-ply bookkeeping; extensions
// can push a line past the nominal iteration depth.
const MaxDepth = 100

func Min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// PVLine is the principal variation from some node downward.
type PVLine struct {
	Moves []dragontoothmg.Move
}

func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update replaces the line with move followed by the child's line.
func (pv *PVLine) Update(move dragontoothmg.Move, child *PVLine) {
	pv.Moves = pv.Moves[:0]
	pv.Moves = append(pv.Moves, move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func getPVLineString(moves []dragontoothmg.Move) string {
	s := ""
	for i, move := range moves {
		if i > 0 {
			s += " "
		}
		s += move.String()
	}
	return s
}

// mateThreatMove flags moves that land near the enemy king, or rook/queen
// moves to a square adjacent to it. Cheap tactical-threat proxy; called
// before the move is applied.
func mateThreatMove(b *dragontoothmg.Board, move dragontoothmg.Move) bool {
	var us, them *dragontoothmg.Bitboards
	if b.Wtomove {
		us = &b.White
		them = &b.Black
	} else {
		us = &b.Black
		them = &b.White
	}

	theirKingSq := bits.TrailingZeros64(them.Kings)
	to := int(move.To())

	if manhattanDistance(to, theirKingSq) <= 3 {
		return true
	}

	piece, _ := pieceTypeAt(move.From(), us)
	if piece == dragontoothmg.Rook || piece == dragontoothmg.Queen {
		if absInt(fileOf(to)-fileOf(theirKingSq)) <= 1 && absInt(rankOf(to)-rankOf(theirKingSq)) <= 1 {
			return true
		}
	}
	return false
}

// promotionThreatMove flags pawn moves that create or push a passed pawn past
// the middle of the board.
func promotionThreatMove(b *dragontoothmg.Board, move dragontoothmg.Move) bool {
	var us *dragontoothmg.Bitboards
	var theirPawns uint64
	if b.Wtomove {
		us = &b.White
		theirPawns = b.Black.Pawns
	} else {
		us = &b.Black
		theirPawns = b.White.Pawns
	}

	piece, _ := pieceTypeAt(move.From(), us)
	if piece != dragontoothmg.Pawn {
		return false
	}

	to := int(move.To())
	if !isPassedPawn(to, b.Wtomove, theirPawns) {
		return false
	}
	if b.Wtomove {
		return rankOf(to) > 3
	}
	return rankOf(to) < 4
}

// historyEntry records one reached position for repetition and fifty-move
// detection.
type historyEntry struct {
	hash   uint64
	rule50 int
}

/*
	Late move reduction. The first few moves, shallow nodes, mop-up, and mate
	or promotion threats search at full depth; other late moves get one ply
	shaved off, or two once past the eighth move unless they capture, give
	check, are killers, or the side to move is in check.
*/
func (s *SearchState) lateMoveReduction(b *dragontoothmg.Board, move dragontoothmg.Move, i, depth int) int {
	isCapture := dragontoothmg.IsCapture(move, b)
	moveGivesCheck := givesCheck(b, move)
	inCheck := b.OurKingInCheck()
	isMateThreat := mateThreatMove(b, move)
	isPromotionThreat := promotionThreatMove(b, move)
	isKillerMove := s.killers.isKiller(move, depth)

	noReduceCondition := s.mopUp || isMateThreat || isPromotionThreat
	reduceLessCondition := isCapture || moveGivesCheck || isKillerMove || inCheck

	const k1 = 5
	const k2 = 8

	if i <= k1 || depth <= 2 || noReduceCondition {
		return depth - 1
	} else if i <= k2 || reduceLessCondition {
		return depth - 2
	}
	return depth - 3
}
