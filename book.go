package main

import (
	"math/rand"
	"slices"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"github.com/notnil/chess/opening"
)

// Short static book of mainline openings, UCI notation. A line applies when
// replaying some prefix of it reaches the current position; the continuation
// after that prefix is a candidate reply.
var openingBook = [][]string{
	{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5a4", "g8f6"},
	{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5", "c2c3", "g8f6"},
	{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6"},
	{"e2e4", "c7c5", "g1f3", "b8c6", "d2d4", "c5d4", "f3d4", "g8f6"},
	{"e2e4", "e7e6", "d2d4", "d7d5", "b1c3", "g8f6"},
	{"e2e4", "c7c6", "d2d4", "d7d5", "b1c3", "d5e4", "c3e4"},
	{"d2d4", "d7d5", "c2c4", "e7e6", "b1c3", "g8f6", "c1g5"},
	{"d2d4", "d7d5", "c2c4", "c7c6", "g1f3", "g8f6"},
	{"d2d4", "g8f6", "c2c4", "e7e6", "g1f3", "d7d5"},
	{"d2d4", "g8f6", "c2c4", "g7g6", "b1c3", "f8g7", "e2e4", "d7d6"},
	{"c2c4", "e7e5", "b1c3", "g8f6", "g1f3", "b8c6"},
	{"g1f3", "d7d5", "g2g3", "g8f6", "f1g2", "e7e6", "e1g1"},
}

var ecoBook *opening.BookECO

// bookMove picks a random continuation from the static book lines matching
// the current position by FEN prefix, falling back to the ECO database when
// the game followed theory the static table does not cover.
func bookMove(board *dragontoothmg.Board, played []string) string {
	currentFen := board.ToFen()
	startBoard := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	atStart := currentFen == startBoard.ToFen()

	var possible []string
	for _, sequence := range openingBook {
		if atStart && len(sequence) > 0 {
			possible = append(possible, sequence[0])
			continue
		}
		temp := dragontoothmg.ParseFen(dragontoothmg.Startpos)
		for i, moveStr := range sequence {
			applied := false
			for _, mv := range temp.GenerateLegalMoves() {
				if mv.String() == moveStr {
					temp.Apply(mv)
					applied = true
					break
				}
			}
			if !applied {
				break
			}
			if temp.ToFen() == currentFen && i+1 < len(sequence) {
				possible = append(possible, sequence[i+1])
			}
		}
	}

	if len(possible) > 0 {
		return possible[rand.Intn(len(possible))]
	}
	if len(played) > 0 {
		return ecoBookMove(played)
	}
	return ""
}

// ecoBookMove replays the game's move list and asks the ECO opening database
// for a known continuation, preferring the longest matching line.
func ecoBookMove(played []string) string {
	game := chess.NewGame()
	for _, moveStr := range played {
		applied := false
		for _, valid := range game.ValidMoves() {
			if valid.String() == moveStr {
				if err := game.Move(valid); err == nil {
					applied = true
				}
				break
			}
		}
		if !applied {
			return ""
		}
	}

	if ecoBook == nil {
		ecoBook = opening.NewBookECO()
	}

	possible := ecoBook.Possible(game.Moves())
	slices.SortStableFunc(possible, func(a, b *opening.Opening) int {
		return len(b.PGN()) - len(a.PGN())
	})

	for _, op := range possible {
		moves := op.Game().Moves()
		if len(moves) <= len(played) {
			continue
		}
		usable := true
		for idx := range played {
			if moves[idx].String() != played[idx] {
				usable = false
				break
			}
		}
		if usable {
			return moves[len(played)].String()
		}
	}
	return ""
}
