package engine

import (
	"strings"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func TestNullMoveRoundTrip(t *testing.T) {
	fens := []string{
		dragontoothmg.Startpos,
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
		"8/2P5/8/8/8/8/k7/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		board := dragontoothmg.ParseFen(fen)
		hashBefore := board.Hash()
		fenBefore := board.ToFen()
		sideBefore := board.Wtomove

		unapply := applyNullMove(&board)
		if board.Wtomove == sideBefore {
			t.Errorf("fen %q: null move did not flip the side to move", fen)
		}
		fields := strings.Fields(board.ToFen())
		if len(fields) >= 4 && fields[3] != "-" {
			t.Errorf("fen %q: null move kept the en passant square %q", fen, fields[3])
		}
		unapply()

		if board.Hash() != hashBefore {
			t.Errorf("fen %q: hash not restored after null move", fen)
		}
		if board.ToFen() != fenBefore {
			t.Errorf("fen %q: board not restored after null move: %q", fen, board.ToFen())
		}
	}
}

func TestGenerateCapturesMatchesOracle(t *testing.T) {
	board := dragontoothmg.ParseFen("r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")
	captures := generateCaptures(&board)
	for _, move := range captures {
		if !dragontoothmg.IsCapture(move, &board) {
			t.Errorf("move %s in capture list is not a capture", move.String())
		}
	}

	total := 0
	for _, move := range board.GenerateLegalMoves() {
		if dragontoothmg.IsCapture(move, &board) {
			total++
		}
	}
	if total != len(captures) {
		t.Fatalf("capture filter disagrees with oracle: %d vs %d", len(captures), total)
	}
}

func TestGivesCheckLeavesBoardUntouched(t *testing.T) {
	board := dragontoothmg.ParseFen("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	hashBefore := board.Hash()

	mate := findMove(&board, "a1a8")
	if mate == 0 {
		t.Fatal("move a1a8 not found")
	}
	if !givesCheck(&board, mate) {
		t.Error("a1a8 should give check")
	}
	quiet := findMove(&board, "g1f1")
	if quiet == 0 {
		t.Fatal("move g1f1 not found")
	}
	if givesCheck(&board, quiet) {
		t.Error("g1f1 should not give check")
	}
	if board.Hash() != hashBefore {
		t.Fatal("givesCheck mutated the board")
	}
}

func TestRule50FromFen(t *testing.T) {
	cases := []struct {
		fen  string
		want int
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 0},
		{"8/8/8/4k3/8/4K3/8/4R3 w - - 37 90", 37},
		{"bogus", 0},
	}
	for _, tc := range cases {
		if got := Rule50FromFen(tc.fen); got != tc.want {
			t.Errorf("fen %q: expected %d, got %d", tc.fen, tc.want, got)
		}
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/4k3/8/4K3/8/8 w - - 0 1", true},
		{"8/8/8/4k3/8/4K3/8/4B3 w - - 0 1", true},
		{"8/8/8/3nk3/8/4K3/4B3/8 w - - 0 1", true},
		{"8/8/8/4k3/8/4K3/8/4R3 w - - 0 1", false},
		{"8/8/8/4k3/4P3/4K3/8/8 w - - 0 1", false},
		{"8/8/8/4k3/8/4K3/8/2B1B3 w - - 0 1", false},
	}
	for _, tc := range cases {
		board := dragontoothmg.ParseFen(tc.fen)
		if got := insufficientMaterial(&board); got != tc.want {
			t.Errorf("fen %q: expected %v, got %v", tc.fen, tc.want, got)
		}
	}
}

func TestRepetitionDetectedAsDraw(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	state := NewSearchState()
	state.ResetHistory(&board, 0)

	// Shuffle the knights out and back twice; the third occurrence of the
	// start position is a draw.
	sequence := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	for _, uci := range sequence {
		move := findMove(&board, uci)
		if move == 0 {
			t.Fatalf("move %s not found", uci)
		}
		state.ApplyAndTrack(&board, move)
	}

	if !state.isDrawByRule() {
		t.Fatal("threefold repetition not detected")
	}
}
