package engine

import (
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// pieceTypeAt reads the piece kind on a square out of one side's bitboards.
func pieceTypeAt(sq uint8, bitboards *dragontoothmg.Bitboards) (dragontoothmg.Piece, bool) {
	bb := PositionBB[sq]
	if bitboards.Pawns&bb != 0 {
		return dragontoothmg.Pawn, true
	} else if bitboards.Knights&bb != 0 {
		return dragontoothmg.Knight, true
	} else if bitboards.Bishops&bb != 0 {
		return dragontoothmg.Bishop, true
	} else if bitboards.Rooks&bb != 0 {
		return dragontoothmg.Rook, true
	} else if bitboards.Queens&bb != 0 {
		return dragontoothmg.Queen, true
	} else if bitboards.Kings&bb != 0 {
		return dragontoothmg.King, true
	}
	return 0, false
}

// generateCaptures filters the legal move list down to captures (en passant
// included).
func generateCaptures(b *dragontoothmg.Board) []dragontoothmg.Move {
	all := b.GenerateLegalMoves()
	captures := all[:0:0]
	for _, move := range all {
		if dragontoothmg.IsCapture(move, b) {
			captures = append(captures, move)
		}
	}
	return captures
}

// givesCheck probes whether a legal move checks the opponent.
func givesCheck(b *dragontoothmg.Board, move dragontoothmg.Move) bool {
	unapply := b.Apply(move)
	check := b.OurKingInCheck()
	unapply()
	return check
}

// applyNullMove hands the opponent a free move: same position, other side to
// move, en passant cleared. The move generator has no native null move, so the
// position is rebuilt through its FEN with the side token flipped; the undo
// closure restores the saved board value.
func applyNullMove(b *dragontoothmg.Board) func() {
	saved := *b
	fields := strings.Fields(b.ToFen())
	if len(fields) >= 4 {
		if fields[1] == "w" {
			fields[1] = "b"
		} else {
			fields[1] = "w"
		}
		fields[3] = "-"
		*b = dragontoothmg.ParseFen(strings.Join(fields, " "))
	}
	return func() { *b = saved }
}

// isCaptureOrPawnMove reports whether the move resets the fifty-move clock.
// Must be called before the move is applied.
func isCaptureOrPawnMove(b *dragontoothmg.Board, move dragontoothmg.Move) bool {
	if dragontoothmg.IsCapture(move, b) {
		return true
	}
	var us *dragontoothmg.Bitboards
	if b.Wtomove {
		us = &b.White
	} else {
		us = &b.Black
	}
	piece, _ := pieceTypeAt(move.From(), us)
	return piece == dragontoothmg.Pawn
}

// insufficientMaterial reports positions where neither side can ever deliver
// mate: no pawns or majors, at most one minor piece each.
func insufficientMaterial(b *dragontoothmg.Board) bool {
	if b.White.Pawns|b.Black.Pawns != 0 {
		return false
	}
	if b.White.Rooks|b.Black.Rooks|b.White.Queens|b.Black.Queens != 0 {
		return false
	}
	whiteMinors := b.White.Knights | b.White.Bishops
	blackMinors := b.Black.Knights | b.Black.Bishops
	return whiteMinors&(whiteMinors-1) == 0 && blackMinors&(blackMinors-1) == 0
}

// Rule50FromFen extracts the halfmove clock from a FEN string; malformed or
// missing fields read as zero.
func Rule50FromFen(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) < 5 {
		return 0
	}
	n := 0
	for _, c := range fields[4] {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
