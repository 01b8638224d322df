package engine

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func TestKnownDrawsEvaluateToZero(t *testing.T) {
	fens := []string{
		"8/8/8/4k3/8/4K3/8/8 w - - 0 1",      // bare kings
		"8/8/8/4k3/8/4K3/8/4B3 w - - 0 1",    // K+B vs K
		"8/8/8/4k3/8/4K3/8/4N3 w - - 0 1",    // K+N vs K
		"8/8/8/3nk3/8/4K3/8/8 b - - 0 1",     // K vs K+N
		"8/8/8/3nk3/8/4K3/4R3/8 w - - 0 1",   // R vs N
		"8/8/8/3bk3/8/4K3/4R3/8 b - - 0 1",   // R vs B
		"8/8/8/4k3/4n3/4n3/8/4K3 w - - 0 1",  // two knights
	}
	for _, fen := range fens {
		board := dragontoothmg.ParseFen(fen)
		state := NewSearchState()
		if eval := state.Evaluate(&board); eval != 0 {
			t.Errorf("fen %q: expected draw score 0, got %d", fen, eval)
		}
	}
}

func TestGamePhaseBounds(t *testing.T) {
	start := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	if phase := gamePhase(&start); phase != 24 {
		t.Fatalf("start position phase: expected 24, got %d", phase)
	}

	bare := dragontoothmg.ParseFen("8/8/8/4k3/8/4K3/8/8 w - - 0 1")
	if phase := gamePhase(&bare); phase != 0 {
		t.Fatalf("bare kings phase: expected 0, got %d", phase)
	}

	// Promotions can push the raw sum past 24; the phase must stay clamped.
	queens := dragontoothmg.ParseFen("QQQQk3/8/8/8/8/8/8/QQQQK3 w - - 0 1")
	if phase := gamePhase(&queens); phase != 24 {
		t.Fatalf("queen-heavy phase: expected clamp at 24, got %d", phase)
	}
}

func TestEvaluateMirrorAntisymmetry(t *testing.T) {
	cases := []struct {
		fen    string
		mirror string
	}{
		{
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1",
		},
		{
			"4k3/pp6/8/8/8/8/6PP/4K3 w - - 0 1",
			"4k3/6pp/8/8/8/8/PP6/4K3 b - - 0 1",
		},
		{
			"4k3/8/8/3q4/3Q4/8/8/4K3 w - - 0 1",
			"4k3/8/8/3q4/3Q4/8/8/4K3 b - - 0 1",
		},
	}
	for _, tc := range cases {
		b1 := dragontoothmg.ParseFen(tc.fen)
		b2 := dragontoothmg.ParseFen(tc.mirror)
		e1 := NewSearchState().Evaluate(&b1)
		e2 := NewSearchState().Evaluate(&b2)
		if e1 != -e2 {
			t.Errorf("fen %q: expected eval %d to mirror to %d, got %d", tc.fen, e1, -e1, e2)
		}
	}
}

func TestMopUpDrivesKingToEdge(t *testing.T) {
	state := NewSearchState()

	centered := dragontoothmg.ParseFen("8/8/8/8/4k3/8/8/4K2R w - - 0 1")
	cornered := dragontoothmg.ParseFen("k7/8/8/8/8/8/8/4K2R w - - 0 1")

	evalCentered := state.Evaluate(&centered)
	evalCornered := state.Evaluate(&cornered)

	if evalCentered <= 4000 {
		t.Fatalf("mop-up score should dominate: got %d", evalCentered)
	}
	if evalCornered <= evalCentered {
		t.Fatalf("cornered king should score higher for the attacker: centered %d, cornered %d",
			evalCentered, evalCornered)
	}

	// Colors reversed, the sign flips.
	reversed := dragontoothmg.ParseFen("4k2r/8/8/8/4K3/8/8/8 b - - 0 1")
	if eval := state.Evaluate(&reversed); eval >= -4000 {
		t.Fatalf("black mop-up should be strongly negative, got %d", eval)
	}
}

func TestEvaluateBounded(t *testing.T) {
	fens := []string{
		dragontoothmg.Startpos,
		"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
		"8/2P5/8/8/8/8/k7/4K3 w - - 0 1",
		"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
	}
	for _, fen := range fens {
		board := dragontoothmg.ParseFen(fen)
		eval := NewSearchState().Evaluate(&board)
		if eval > 30000 || eval < -30000 {
			t.Errorf("fen %q: eval %d out of bounds", fen, eval)
		}
	}
}

func TestPawnCacheReuse(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	state := NewSearchState()

	first := state.Evaluate(&board)
	if state.pawnCache[0].size() == 0 || state.pawnCache[1].size() == 0 {
		t.Fatal("expected pawn caches to be populated after evaluation")
	}
	second := state.Evaluate(&board)
	if first != second {
		t.Fatalf("cached evaluation differs: %d then %d", first, second)
	}
}

func TestIsolatedPawnPenaltyKnob(t *testing.T) {
	// White's d-pawn is isolated, black's connected pair is not; raising the
	// penalty must lower the score by exactly the difference.
	fen := "4k3/5pp1/8/8/8/8/3P4/4K3 w - - 0 1"

	oldPenalty := IsolatedPawnPenalty
	defer func() { IsolatedPawnPenalty = oldPenalty }()

	board := dragontoothmg.ParseFen(fen)
	before := NewSearchState().Evaluate(&board)

	IsolatedPawnPenalty = oldPenalty + 40
	after := NewSearchState().Evaluate(&board)

	if after != before-40 {
		t.Fatalf("expected eval to drop by 40, got %d then %d", before, after)
	}
}

func TestTrappedBishopPattern(t *testing.T) {
	// White bishop on a7 sealed in by black pawns on b6 and c7.
	trapped := dragontoothmg.ParseFen("4k3/B1p5/1p6/8/8/8/8/4K3 w - - 0 1")
	free := dragontoothmg.ParseFen("4k3/2p5/1p6/8/B7/8/8/4K3 w - - 0 1")

	evalTrapped := NewSearchState().Evaluate(&trapped)
	evalFree := NewSearchState().Evaluate(&free)
	if evalTrapped >= evalFree {
		t.Fatalf("trapped bishop should score worse: trapped %d, free %d", evalTrapped, evalFree)
	}
}
