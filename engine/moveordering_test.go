package engine

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func TestCapturesOrderedBeforeQuiets(t *testing.T) {
	board := dragontoothmg.ParseFen("4k3/8/8/3q4/3R4/8/8/4K3 w - - 0 1")
	state := NewSearchState()

	ordered := state.orderedMoves(&board, board.GenerateLegalMoves(), 1, false, 0)
	if len(ordered) == 0 {
		t.Fatal("no moves ordered")
	}
	if ordered[0].move.String() != "d4d5" {
		t.Fatalf("expected the queen capture first, got %s", ordered[0].move.String())
	}

	// Once a quiet move shows up, everything after it is quiet too.
	seenQuiet := false
	for _, sm := range ordered {
		if sm.priority == 0 {
			seenQuiet = true
		} else if seenQuiet {
			t.Fatalf("non-quiet move %s ordered after quiet moves", sm.move.String())
		}
	}
}

func TestHashMoveOrderedFirst(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	state := NewSearchState()

	want := findMove(&board, "b1c3")
	if want == 0 {
		t.Fatal("move b1c3 not found")
	}
	state.hashMove.store(board.Hash(), want)

	ordered := state.orderedMoves(&board, board.GenerateLegalMoves(), 1, false, 0)
	if ordered[0].move != want {
		t.Fatalf("expected hash move b1c3 first, got %s", ordered[0].move.String())
	}
	if ordered[0].priority != hashMovePriority {
		t.Fatalf("expected hash move priority %d, got %d", hashMovePriority, ordered[0].priority)
	}
}

func TestPreviousPVOrderedFirstOnLeftmostLine(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	state := NewSearchState()

	want := findMove(&board, "e2e4")
	state.previousPV = []dragontoothmg.Move{want}

	ordered := state.orderedMoves(&board, board.GenerateLegalMoves(), 1, true, 0)
	if ordered[0].move != want {
		t.Fatalf("expected PV move e2e4 first, got %s", ordered[0].move.String())
	}
	if ordered[0].priority != pvMovePriority {
		t.Fatalf("expected PV priority %d, got %d", pvMovePriority, ordered[0].priority)
	}

	// Off the leftmost line the PV move is just another quiet move.
	ordered = state.orderedMoves(&board, board.GenerateLegalMoves(), 1, false, 0)
	if ordered[0].priority == pvMovePriority {
		t.Fatal("PV priority applied off the leftmost line")
	}
}

func TestKillerOrderedAboveQuiets(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	state := NewSearchState()

	killer := findMove(&board, "g2g3")
	state.killers.insert(killer, 5)

	ordered := state.orderedMoves(&board, board.GenerateLegalMoves(), 5, false, 0)
	if ordered[0].move != killer {
		t.Fatalf("expected killer g2g3 first among quiets, got %s", ordered[0].move.String())
	}
	if ordered[0].priority != killerPriority {
		t.Fatalf("expected killer priority %d, got %d", killerPriority, ordered[0].priority)
	}
}

func TestKillerTableShiftsSlots(t *testing.T) {
	var killers KillerTable
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	first := findMove(&board, "g2g3")
	second := findMove(&board, "b2b3")

	killers.insert(first, 3)
	killers.insert(second, 3)

	if !killers.isKiller(first, 3) || !killers.isKiller(second, 3) {
		t.Fatal("both killers should be retained")
	}
	if killers.isKiller(first, 4) {
		t.Fatal("killers are per depth")
	}

	third := findMove(&board, "h2h3")
	killers.insert(third, 3)
	if killers.isKiller(first, 3) {
		t.Fatal("oldest killer should have been shifted out")
	}
	if !killers.isKiller(second, 3) || !killers.isKiller(third, 3) {
		t.Fatal("newest two killers should be present")
	}
}
