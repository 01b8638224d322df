package engine

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func TestSEEUnchallengedCapture(t *testing.T) {
	// Rook takes an undefended queen; the exchange nets victim minus
	// attacker with nobody recapturing.
	board := dragontoothmg.ParseFen("4k3/8/8/3q4/3R4/8/8/4K3 w - - 0 1")
	move := findMove(&board, "d4d5")
	if move == 0 {
		t.Fatal("capture d4d5 not found")
	}
	score := see(&board, move)
	expected := seePieceValue[dragontoothmg.Queen] - seePieceValue[dragontoothmg.Rook]
	if score != expected {
		t.Fatalf("expected SEE %d, got %d", expected, score)
	}
}

func TestSEEEvenTrade(t *testing.T) {
	board := dragontoothmg.ParseFen("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	move := findMove(&board, "e4d5")
	if move == 0 {
		t.Fatal("capture e4d5 not found")
	}
	if score := see(&board, move); score != 0 {
		t.Fatalf("pawn-takes-pawn with no recapture should be 0, got %d", score)
	}
}

func TestSEELosingCapture(t *testing.T) {
	// Queen grabs a pawn defended by a pawn; the defender wins the exchange.
	board := dragontoothmg.ParseFen("4k3/8/4p3/3p4/8/8/3Q4/4K3 w - - 0 1")
	move := findMove(&board, "d2d5")
	if move == 0 {
		t.Fatal("capture d2d5 not found")
	}
	if score := see(&board, move); score >= 0 {
		t.Fatalf("capturing a defended pawn with the queen should lose material, got %d", score)
	}
}

func TestSEERestoresBoard(t *testing.T) {
	fen := "r3k3/1q6/8/3p4/4P3/8/1B6/4K2R w - - 0 1"
	board := dragontoothmg.ParseFen(fen)
	hashBefore := board.Hash()
	fenBefore := board.ToFen()

	for _, move := range generateCaptures(&board) {
		see(&board, move)
	}

	if board.Hash() != hashBefore {
		t.Fatalf("SEE changed the board hash: %x -> %x", hashBefore, board.Hash())
	}
	if board.ToFen() != fenBefore {
		t.Fatalf("SEE changed the board: %q -> %q", fenBefore, board.ToFen())
	}
}
