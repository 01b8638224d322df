package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

/*
	Per-piece-kind scorers. Every scorer returns the summed value of that
	side's pieces of one kind, piece-square tables interpolated between the
	midgame and endgame tables by the current phase.
*/

// Evaluation terms adjustable through setoption. Changing one invalidates
// cached search scores, and the two pawn terms also the pawn caches; the
// front-end clears the shared tables after a write.
var (
	PassedPawnBonus     = 35
	IsolatedPawnPenalty = 20
	TempoBonus          = 10
)

// pawnValue is the expensive one, so the result is memoized per pawn
// structure in the side's pawn cache.
func (s *SearchState) pawnValue(b *dragontoothmg.Board, baseValue int, white bool, info *evalInfo) int {
	var ourPawns, theirPawns uint64
	var cache *PawnCache
	if white {
		ourPawns = b.White.Pawns
		theirPawns = b.Black.Pawns
		cache = &s.pawnCache[0]
	} else {
		ourPawns = b.Black.Pawns
		theirPawns = b.White.Pawns
		cache = &s.pawnCache[1]
	}

	key := pawnCacheKey{ours: ourPawns, theirs: theirPawns, phase: info.gamePhase}
	if stored, ok := cache.lookup(key); ok {
		return stored
	}

	midGameWeight := float64(info.gamePhase) / 24.0
	endGameWeight := 1.0 - midGameWeight

	const protectedPassedPawnBonus = 45
	const centerBonus = 10
	const unSupportedPenalty = 25

	// The advancement bonus leans toward the endgame.
	advancedPawnBonus := int(-(1.0/6.0)*float64(info.gamePhase) + 6.0)

	var files [8]int
	for x := ourPawns; x != 0; x &= x - 1 {
		files[fileOf(bits.TrailingZeros64(x))]++
	}

	value := 0
	for x := ourPawns; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		file := fileOf(sq)
		rank := rankOf(sq)

		value += baseValue
		value += int(midGameWeight*float64(pstMid(&pawnTableMid, sq, white)) +
			endGameWeight*float64(pstEnd(&pawnTableEnd, sq, white)))

		if file == 3 || file == 4 {
			value += centerBonus
		}

		if (file == 0 && files[1] == 0) || (file == 7 && files[6] == 0) {
			value -= IsolatedPawnPenalty
		} else if file > 0 && file < 7 && files[file-1] == 0 && files[file+1] == 0 {
			value -= IsolatedPawnPenalty
		}

		if isPassedPawn(sq, white, theirPawns) {
			if isProtectedByPawn(sq, white, ourPawns) {
				value += protectedPassedPawnBonus
			} else {
				value += PassedPawnBonus
			}
			if white {
				value += passedPawnTable[sq]
			} else {
				value += passedPawnTable[FlipView[sq]]
			}
		}

		// Pawns nobody defends are weakest when the opponent has no pawn of
		// their own on the file to run into.
		if !isProtectedByPawn(sq, white, ourPawns) {
			if white && info.semiOpenBlack[file] {
				value -= unSupportedPenalty
			} else if !white && info.semiOpenWhite[file] {
				value -= unSupportedPenalty
			} else {
				value -= unSupportedPenalty - 15
			}
		}

		if white {
			value += (rank - 1) * advancedPawnBonus
		} else {
			value += (6 - rank) * advancedPawnBonus
		}
	}

	const doubledPawnPenalty = 30
	const doubledPawnPenaltyDE = 40
	const doubleIsolatedPenalty = 30

	for i := 0; i < 8; i++ {
		if i == 3 || i == 4 {
			value -= Max(files[i]-1, 0) * doubledPawnPenaltyDE
		} else {
			value -= Max(files[i]-1, 0) * doubledPawnPenalty
		}

		if files[i] > 1 {
			leftEmpty := i == 0 || files[i-1] == 0
			rightEmpty := i == 7 || files[i+1] == 0
			if leftEmpty && rightEmpty {
				value -= doubleIsolatedPenalty
			}
		}
	}

	cache.store(key, value)
	return value
}

func knightValue(b *dragontoothmg.Board, baseValue int, white bool, info *evalInfo) int {
	const outpostBonus = 30
	const mobilityBonus = 3
	const protectedBonus = 4

	midGameWeight := float64(info.gamePhase) / 24.0
	endGameWeight := 1.0 - midGameWeight

	var knights, ourPawns, theirPawns, ourPieces uint64
	if white {
		knights = b.White.Knights
		ourPawns = b.White.Pawns
		theirPawns = b.Black.Pawns
		ourPieces = b.White.All
	} else {
		knights = b.Black.Knights
		ourPawns = b.Black.Pawns
		theirPawns = b.White.Pawns
		ourPieces = b.Black.All
	}
	ourPawnCount := bits.OnesCount64(ourPawns)

	value := 0
	for x := knights; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		value += baseValue + knightAdjust[ourPawnCount]
		value += int(midGameWeight*float64(pstMid(&knightTableMid, sq, white)) +
			endGameWeight*float64(pstEnd(&knightTableEnd, sq, white)))

		if isOutpost(b, sq, white) {
			value += outpostBonus
		}

		// Count targets not parked on our own pieces and not covered by an
		// enemy pawn.
		mobility := 0
		for moves := KnightMasks[sq]; moves != 0; moves &= moves - 1 {
			target := bits.TrailingZeros64(moves)
			if ourPieces&PositionBB[target] != 0 {
				continue
			}
			if isProtectedByPawn(target, !white, theirPawns) {
				continue
			}
			mobility++
		}
		value += mobilityBonus * (mobility - 4)

		if isProtected(b, white, sq) {
			value += protectedBonus
		}
	}
	return value
}

func bishopValue(b *dragontoothmg.Board, baseValue int, white bool, info *evalInfo) int {
	const outpostBonus = 30
	const mobilityBonus = 2
	const protectedBonus = 4

	midGameWeight := float64(info.gamePhase) / 24.0
	endGameWeight := 1.0 - midGameWeight
	bishopPairBonus := int(30 * endGameWeight)

	var bishops, ourPawns uint64
	if white {
		bishops = b.White.Bishops
		ourPawns = b.White.Pawns
	} else {
		bishops = b.Black.Bishops
		ourPawns = b.Black.Pawns
	}

	value := 0
	if bits.OnesCount64(bishops) >= 2 {
		value += bishopPairBonus
	}

	for x := bishops; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		value += baseValue
		value += int(midGameWeight*float64(pstMid(&bishopTableMid, sq, white)) +
			endGameWeight*float64(pstEnd(&bishopTableEnd, sq, white)))

		// Mobility through everything except our own pawns.
		mobility := Min(bits.OnesCount64(bishopAttacks(sq, ourPawns)), 12)
		value += mobilityBonus * (mobility - 7)

		if isOutpost(b, sq, white) {
			value += outpostBonus
		}
		if isProtected(b, white, sq) {
			value += protectedBonus
		}
	}
	return value
}

func rookValue(b *dragontoothmg.Board, baseValue int, white bool, info *evalInfo) int {
	const semiOpenFileBonus = 10
	const openFileBonus = 15
	const pawnBlockPenalty = 20
	const protectedBonus = 4

	midGameWeight := float64(info.gamePhase) / 24.0
	endGameWeight := 1.0 - midGameWeight

	mobilityBonus := 2
	if info.gamePhase < 12 {
		mobilityBonus = 3
	}

	var rooks, ourPawns uint64
	if white {
		rooks = b.White.Rooks
		ourPawns = b.White.Pawns
	} else {
		rooks = b.Black.Rooks
		ourPawns = b.Black.Pawns
	}
	ourPawnCount := bits.OnesCount64(ourPawns)
	occ := b.White.All | b.Black.All

	value := 0
	for x := rooks; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		file := fileOf(sq)
		rank := rankOf(sq)

		value += baseValue + rookAdjust[ourPawnCount]
		value += int(midGameWeight*float64(pstMid(&rookTableMid, sq, white)) +
			endGameWeight*float64(pstEnd(&rookTableEnd, sq, white)))

		if info.openFiles[file] {
			value += openFileBonus
		} else if white && info.semiOpenWhite[file] {
			value += semiOpenFileBonus
		} else if !white && info.semiOpenBlack[file] {
			value += semiOpenFileBonus
		}

		mobility := Min(bits.OnesCount64(rookAttacks(sq, occ)), 12)
		value += mobilityBonus * (mobility - 7)

		// A back-rank rook with its own pawn right in front is going nowhere.
		if (white && rank == 0) || (!white && rank == 7) {
			squareAbove := sq + 8
			if !white {
				squareAbove = sq - 8
			}
			if ourPawns&PositionBB[squareAbove] != 0 {
				value -= pawnBlockPenalty
			}
		}

		if isProtected(b, white, sq) {
			value += protectedBonus
		}
	}
	return value
}

func queenValue(b *dragontoothmg.Board, baseValue int, white bool, info *evalInfo) int {
	const protectedBonus = 4

	midGameWeight := float64(info.gamePhase) / 24.0
	endGameWeight := 1.0 - midGameWeight

	mobilityBonus := 1
	if info.gamePhase < 12 {
		mobilityBonus = 2
	}

	var queens uint64
	if white {
		queens = b.White.Queens
	} else {
		queens = b.Black.Queens
	}
	occ := b.White.All | b.Black.All

	value := 0
	for x := queens; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		value += baseValue
		value += int(midGameWeight*float64(pstMid(&queenTableMid, sq, white)) +
			endGameWeight*float64(pstEnd(&queenTableEnd, sq, white)))

		mobility := Min(bits.OnesCount64(queenAttacks(sq, occ)), 12)
		value += mobilityBonus * (mobility - 14)

		if isProtected(b, white, sq) {
			value += protectedBonus
		}
	}
	return value
}

// Attack weight by number of distinct attackers near the king.
var kingAttackWeight = [9]int{0, 25, 65, 100, 120, 150, 175, 200, 200}

// kingThreat grades how badly one side's king is under attack; positive means
// threatened. An enemy piece counts as an attacker when it is close to the
// king or reaches the adjacent ring through the defenders and its own pawns.
func kingThreat(b *dragontoothmg.Board, white bool) int {
	var us, them dragontoothmg.Bitboards
	if white {
		us = b.White
		them = b.Black
	} else {
		us = b.Black
		them = b.White
	}

	kingSq := bits.TrailingZeros64(us.Kings)
	ring := KingMasks[kingSq]
	blockers := us.All | them.Pawns

	var attackers uint64

	for x := them.Pawns; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		if manhattanDistance(sq, kingSq) <= 4 {
			attackers |= PositionBB[sq]
		}
	}
	for x := them.Queens; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		if manhattanDistance(sq, kingSq) <= 6 || queenAttacks(sq, blockers)&ring != 0 {
			attackers |= PositionBB[sq]
		}
	}
	for x := them.Rooks; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		if rookAttacks(sq, blockers)&ring != 0 {
			attackers |= PositionBB[sq]
		}
	}
	for x := them.Knights; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		if manhattanDistance(sq, kingSq) <= 5 || KnightMasks[sq]&ring != 0 {
			attackers |= PositionBB[sq]
		}
	}
	for x := them.Bishops; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		if manhattanDistance(sq, kingSq) <= 4 || bishopAttacks(sq, blockers)&ring != 0 {
			attackers |= PositionBB[sq]
		}
	}

	attackWeight := kingAttackWeight[Min(bits.OnesCount64(attackers), 8)]

	threatScore := 0
	for x := attackers; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		piece, _ := pieceTypeAt(uint8(sq), &them)
		switch piece {
		case dragontoothmg.Pawn:
			threatScore += attackWeight * 15
		case dragontoothmg.Knight:
			threatScore += attackWeight * 30
		case dragontoothmg.Bishop:
			threatScore += attackWeight * 30
		case dragontoothmg.Rook:
			threatScore += attackWeight * 50
		case dragontoothmg.Queen:
			threatScore += attackWeight * 100
		}
	}

	return threatScore / 100
}

func kingValue(b *dragontoothmg.Board, baseValue int, white bool, info *evalInfo) int {
	midGameWeight := float64(info.gamePhase) / 24.0
	endGameWeight := 1.0 - midGameWeight

	var us, them dragontoothmg.Bitboards
	if white {
		us = b.White
		them = b.Black
	} else {
		us = b.Black
		them = b.White
	}

	kingSq := bits.TrailingZeros64(us.Kings)
	kingRank := rankOf(kingSq)
	kingFile := fileOf(kingSq)

	value := baseValue
	value += int(midGameWeight*float64(pstMid(&kingTableMid, kingSq, white)) +
		endGameWeight*float64(pstEnd(&kingTableEnd, kingSq, white)))

	value -= int(float64(kingThreat(b, white)) * midGameWeight)

	// Pawn shield one rank in front on adjacent files.
	pawnShieldBonus := int(30 * midGameWeight)
	for x := us.Pawns; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		pawnRank := rankOf(sq)
		pawnFile := fileOf(sq)
		if white && pawnRank == kingRank+1 && absInt(pawnFile-kingFile) <= 1 {
			value += pawnShieldBonus
		} else if !white && pawnRank == kingRank-1 && absInt(pawnFile-kingFile) <= 1 {
			value += pawnShieldBonus
		}
	}

	// Minor and major pieces in front of the king and close by.
	pieceProtectionBonus := int(30 * midGameWeight)
	for x := us.Knights | us.Bishops | us.Rooks | us.Queens; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		inFront := (white && rankOf(sq) > kingRank) || (!white && rankOf(sq) < kingRank)
		if inFront && manhattanDistance(sq, kingSq) <= 4 {
			value += pieceProtectionBonus
		}
	}

	// Standing on or next to open files is what the rooks are waiting for.
	openFilePenalty := [4]int{0, 20, 35, 60}
	numAdjOpenFiles := 0
	for _, file := range [3]int{kingFile, kingFile - 1, kingFile + 1} {
		if file < 0 || file > 7 {
			continue
		}
		if info.openFiles[file] || info.semiOpenWhite[file] || info.semiOpenBlack[file] {
			numAdjOpenFiles++
		}
	}
	value -= int(float64(openFilePenalty[numAdjOpenFiles]) * midGameWeight)

	const kingDistancePenalty = 6
	const pawnDistancePenalty = 3
	const passedPawnDistancePenalty = 6

	theirKingSq := bits.TrailingZeros64(them.Kings)
	dist := manhattanDistance(kingSq, theirKingSq)
	value -= int(float64(kingDistancePenalty*dist) * endGameWeight)

	// Endgame king activity: stay near the pawns, passed ones above all.
	for x := us.Pawns; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		dist = manhattanDistance(kingSq, sq)
		if isPassedPawn(sq, white, them.Pawns) {
			value -= int(float64(passedPawnDistancePenalty*dist) * endGameWeight)
		} else {
			value -= int(float64(pawnDistancePenalty*dist) * endGameWeight)
		}
	}
	for x := them.Pawns; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		dist = manhattanDistance(kingSq, sq)
		if isPassedPawn(sq, !white, us.Pawns) {
			value -= int(float64(passedPawnDistancePenalty*dist) * endGameWeight)
		} else {
			value -= int(float64(pawnDistancePenalty*dist) * endGameWeight)
		}
	}

	return value
}
