package main

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// printBoard writes an ASCII diagram of the position, white at the bottom.
func printBoard(b *dragontoothmg.Board) {
	for rank := 7; rank >= 0; rank-- {
		fmt.Printf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sq := uint64(1) << uint(rank*8+file)
			fmt.Printf("%c ", pieceChar(b, sq))
		}
		fmt.Println()
	}
	fmt.Println()
	fmt.Println("   a b c d e f g h")
	fmt.Println()
	fmt.Println("fen:", b.ToFen())
	fmt.Printf("hash: %x\n", b.Hash())
}

func pieceChar(b *dragontoothmg.Board, sq uint64) rune {
	switch {
	case b.White.Pawns&sq != 0:
		return 'P'
	case b.White.Knights&sq != 0:
		return 'N'
	case b.White.Bishops&sq != 0:
		return 'B'
	case b.White.Rooks&sq != 0:
		return 'R'
	case b.White.Queens&sq != 0:
		return 'Q'
	case b.White.Kings&sq != 0:
		return 'K'
	case b.Black.Pawns&sq != 0:
		return 'p'
	case b.Black.Knights&sq != 0:
		return 'n'
	case b.Black.Bishops&sq != 0:
		return 'b'
	case b.Black.Rooks&sq != 0:
		return 'r'
	case b.Black.Queens&sq != 0:
		return 'q'
	case b.Black.Kings&sq != 0:
		return 'k'
	}
	return '.'
}
