package engine

import (
	"testing"
	"time"

	"github.com/dylhunn/dragontoothmg"
)

func searchFen(t *testing.T, fen string, depth int) (dragontoothmg.Move, bool) {
	t.Helper()
	board := dragontoothmg.ParseFen(fen)
	state := NewSearchState()
	state.Quiet = true
	state.ResetHistory(&board, Rule50FromFen(fen))
	return state.FindBestMove(&board, depth, 5*time.Second)
}

func TestFindsBackRankMate(t *testing.T) {
	move, ok := searchFen(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", 4)
	if !ok {
		t.Fatal("expected a legal move")
	}
	if move.String() != "a1a8" {
		t.Fatalf("expected back-rank mate a1a8, got %s", move.String())
	}
}

func TestTakesHangingQueen(t *testing.T) {
	move, ok := searchFen(t, "4k3/8/8/3q4/3R4/8/8/4K3 w - - 0 1", 4)
	if !ok {
		t.Fatal("expected a legal move")
	}
	if move.String() != "d4d5" {
		t.Fatalf("expected d4d5, got %s", move.String())
	}
}

func TestPushesPassedPawnToPromotion(t *testing.T) {
	// Black still has a pawn, so the promotion is graded on material.
	move, ok := searchFen(t, "8/2P4p/8/8/8/8/k7/4K3 w - - 0 1", 4)
	if !ok {
		t.Fatal("expected a legal move")
	}
	if move.String() != "c7c8q" {
		t.Fatalf("expected promotion c7c8q, got %s", move.String())
	}
}

func TestLonePawnEndgameScoresAsWon(t *testing.T) {
	board := dragontoothmg.ParseFen("8/2P5/8/8/8/8/k7/4K3 w - - 0 1")
	if eval := NewSearchState().Evaluate(&board); eval < 900 {
		t.Fatalf("bare-king pursuit should score at least +900, got %d", eval)
	}
}

func TestBestMoveIsAlwaysLegal(t *testing.T) {
	fens := []string{
		dragontoothmg.Startpos,
		"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
		"8/8/8/8/8/4k3/8/4K2R w - - 0 1",
	}
	for _, fen := range fens {
		board := dragontoothmg.ParseFen(fen)
		state := NewSearchState()
		state.Quiet = true
		state.ResetHistory(&board, 0)
		move, ok := state.FindBestMove(&board, 3, 5*time.Second)
		if !ok {
			t.Fatalf("fen %q: expected a legal move", fen)
		}
		found := false
		for _, legal := range board.GenerateLegalMoves() {
			if legal == move {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("fen %q: returned move %s is not legal", fen, move.String())
		}
	}
}

func TestNoLegalMovesReportsNone(t *testing.T) {
	// White is checkmated; there is nothing to play.
	board := dragontoothmg.ParseFen("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	state := NewSearchState()
	state.Quiet = true
	state.ResetHistory(&board, 0)
	if _, ok := state.FindBestMove(&board, 3, time.Second); ok {
		t.Fatal("expected no move from a checkmated position")
	}
}

func TestSingleReplyReturnsImmediately(t *testing.T) {
	// Black's king has exactly one square.
	board := dragontoothmg.ParseFen("7k/8/7Q/8/8/8/8/5K2 b - - 0 1")
	state := NewSearchState()
	state.Quiet = true
	state.ResetHistory(&board, 0)

	start := time.Now()
	move, ok := state.FindBestMove(&board, 30, 5*time.Second)
	if !ok {
		t.Fatal("expected a legal move")
	}
	if move.String() != "h8g8" {
		t.Fatalf("expected forced h8g8, got %s", move.String())
	}
	if time.Since(start) > time.Second {
		t.Fatal("single-reply positions should not be searched in depth")
	}
}

func TestMateScorePrefersShorterMate(t *testing.T) {
	board := dragontoothmg.ParseFen("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	state := NewSearchState()
	state.Quiet = true
	state.ResetHistory(&board, 0)

	var pv PVLine
	unapply := state.applyMove(&board, findMove(&board, "a1a8"))
	// Mated side to move: the score is a negated mate distance.
	eval := state.negamax(&board, 1, -Inf, Inf, &pv, false, 0, 1)
	unapply()

	if eval != -(Inf/2 - 1) {
		t.Fatalf("expected mate score %d, got %d", -(Inf/2 - 1), eval)
	}
}

func TestMakeUnmakePreservesHash(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	state := NewSearchState()
	state.ResetHistory(&board, 0)

	before := board.Hash()
	var undos []func()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		move := findMove(&board, uci)
		if move == 0 {
			t.Fatalf("move %s not found", uci)
		}
		undos = append(undos, state.applyMove(&board, move))
	}
	for i := len(undos) - 1; i >= 0; i-- {
		undos[i]()
	}
	if board.Hash() != before {
		t.Fatalf("hash changed across make/unmake: %x -> %x", before, board.Hash())
	}
}

func findMove(b *dragontoothmg.Board, uci string) dragontoothmg.Move {
	for _, move := range b.GenerateLegalMoves() {
		if move.String() == uci {
			return move
		}
	}
	return 0
}
