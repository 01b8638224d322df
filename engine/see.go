package engine

import (
	"github.com/dylhunn/dragontoothmg"
)

// Piece values for exchange evaluation and move ordering.
var seePieceValue = [7]int{
	dragontoothmg.Pawn:   100,
	dragontoothmg.Knight: 320,
	dragontoothmg.Bishop: 330,
	dragontoothmg.Rook:   500,
	dragontoothmg.Queen:  900,
	dragontoothmg.King:   20000,
}

// see returns the net material outcome of the capture sequence starting with
// the given move, assuming both sides keep recapturing optimally on the
// target square. The board is identical before and after the call.
func see(b *dragontoothmg.Board, move dragontoothmg.Move) int {
	target := move.To()

	var victims, attackers *dragontoothmg.Bitboards
	if b.Wtomove {
		victims = &b.Black
		attackers = &b.White
	} else {
		victims = &b.White
		attackers = &b.Black
	}

	victim, _ := pieceTypeAt(target, victims)
	attacker, _ := pieceTypeAt(move.From(), attackers)

	// En passant leaves the target square itself empty; the victim reads as
	// nothing and contributes no gain.
	materialGain := seePieceValue[victim] - seePieceValue[attacker]

	unapply := b.Apply(move)

	var recaptures []dragontoothmg.Move
	for _, next := range generateCaptures(b) {
		if next.To() == target {
			recaptures = append(recaptures, next)
		}
	}

	// Weakest recapturer first.
	sortMovesByAttackerValue(b, recaptures)

	bestSubsequent := 0
	for _, next := range recaptures {
		if v := see(b, next); v > bestSubsequent {
			bestSubsequent = v
		}
	}

	unapply()

	return materialGain - bestSubsequent
}

func sortMovesByAttackerValue(b *dragontoothmg.Board, moves []dragontoothmg.Move) {
	var us *dragontoothmg.Bitboards
	if b.Wtomove {
		us = &b.White
	} else {
		us = &b.Black
	}
	for i := 1; i < len(moves); i++ {
		for j := i; j > 0; j-- {
			pa, _ := pieceTypeAt(moves[j].From(), us)
			pb, _ := pieceTypeAt(moves[j-1].From(), us)
			if seePieceValue[pa] >= seePieceValue[pb] {
				break
			}
			moves[j], moves[j-1] = moves[j-1], moves[j]
		}
	}
}
