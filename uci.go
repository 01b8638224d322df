package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dylhunn/dragontoothmg"

	"github.com/hoavu-cs/donbot-hce/engine"
)

const (
	engineName   = "donbot-hce"
	engineAuthor = "Hoa T. Vu"

	defaultTimeLimitMs = 30000
	lowTimeDepthCap    = 11
)

// parseFen guards the move generator's FEN parser, which has no error return.
func parseFen(fen string) (board dragontoothmg.Board, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	board = dragontoothmg.ParseFen(fen)
	return board, true
}

func uciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	state := engine.NewSearchState()
	state.ResetHistory(&board, 0)

	var playedMoves []string
	bookEnabled := true

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name", engineName)
			fmt.Println("id author", engineAuthor)
			fmt.Println("option name OwnBook type check default true")
			fmt.Println("option name MaxTableSize type spin default", engine.MaxTableSize, "min 1000 max 100000000")
			fmt.Println("option name PassedPawnBonus type spin default", engine.PassedPawnBonus, "min 0 max 100")
			fmt.Println("option name IsolatedPawnPenalty type spin default", engine.IsolatedPawnPenalty, "min 0 max 100")
			fmt.Println("option name TempoBonus type spin default", engine.TempoBonus, "min 0 max 50")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			board = dragontoothmg.ParseFen(dragontoothmg.Startpos)
			state.ResetForNewGame()
			state.ResetHistory(&board, 0)
			playedMoves = nil
		case "position":
			playedMoves = handlePosition(line, &board, state)
		case "go":
			handleGo(tokens, &board, state, playedMoves, bookEnabled)
		case "setoption":
			name, value := parseSetOption(tokens)
			switch strings.ToLower(name) {
			case "ownbook":
				bookEnabled = strings.EqualFold(value, "true")
			case "maxtablesize":
				if n, err := strconv.Atoi(value); err == nil && n > 0 {
					engine.MaxTableSize = n
				} else {
					fmt.Fprintln(os.Stderr, "Bad value for MaxTableSize:", value)
				}
			case "passedpawnbonus":
				if n, err := strconv.Atoi(value); err == nil && n >= 0 {
					engine.PassedPawnBonus = n
					state.ClearTables()
				} else {
					fmt.Fprintln(os.Stderr, "Bad value for PassedPawnBonus:", value)
				}
			case "isolatedpawnpenalty":
				if n, err := strconv.Atoi(value); err == nil && n >= 0 {
					engine.IsolatedPawnPenalty = n
					state.ClearTables()
				} else {
					fmt.Fprintln(os.Stderr, "Bad value for IsolatedPawnPenalty:", value)
				}
			case "tempobonus":
				if n, err := strconv.Atoi(value); err == nil && n >= 0 {
					engine.TempoBonus = n
					state.ClearTables()
				} else {
					fmt.Fprintln(os.Stderr, "Bad value for TempoBonus:", value)
				}
			default:
				fmt.Fprintln(os.Stderr, "Unknown option:", name)
			}
		case "stop":
			// Search is synchronous; nothing is running between commands.
		case "d", "debug":
			printBoard(&board)
		case "quit":
			return
		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

// handlePosition rebuilds the board from "position {startpos|fen ...}
// [moves ...]" and reseeds the engine's position history. Returns the UCI
// move list actually applied.
func handlePosition(line string, board *dragontoothmg.Board, state *engine.SearchState) []string {
	posScanner := bufio.NewScanner(strings.NewReader(line))
	posScanner.Split(bufio.ScanWords)
	posScanner.Scan() // "position"
	if !posScanner.Scan() {
		fmt.Println("info string Malformed position command")
		return nil
	}

	rule50 := 0
	switch strings.ToLower(posScanner.Text()) {
	case "startpos":
		*board = dragontoothmg.ParseFen(dragontoothmg.Startpos)
		posScanner.Scan()
	case "fen":
		fenstr := ""
		for posScanner.Scan() && strings.ToLower(posScanner.Text()) != "moves" {
			fenstr += posScanner.Text() + " "
		}
		parsed, ok := parseFen(fenstr)
		if fenstr == "" || !ok {
			fmt.Println("info string Invalid fen position")
			return nil
		}
		*board = parsed
		rule50 = engine.Rule50FromFen(fenstr)
	default:
		fmt.Println("info string Invalid position subcommand")
		return nil
	}

	state.ResetHistory(board, rule50)

	var played []string
	if strings.ToLower(posScanner.Text()) != "moves" {
		return played
	}

	for posScanner.Scan() {
		moveStr := strings.ToLower(posScanner.Text())
		var nextMove dragontoothmg.Move
		found := false
		for _, mv := range board.GenerateLegalMoves() {
			if mv.String() == moveStr {
				nextMove = mv
				found = true
				break
			}
		}
		if !found {
			// An illegal move from the GUI is reported and dropped; the board
			// stays at the last legal position.
			fmt.Println("info string Move", moveStr, "is not legal in position", board.ToFen())
			break
		}
		state.ApplyAndTrack(board, nextMove)
		played = append(played, moveStr)
	}
	return played
}

func handleGo(tokens []string, board *dragontoothmg.Board, state *engine.SearchState, playedMoves []string, bookEnabled bool) {
	var wtime, btime, winc, binc, movestogo, movetime, depthOverride int
	infinite := false

	for i := 1; i < len(tokens); i++ {
		readIntArg := func() int {
			if i+1 < len(tokens) {
				n, err := strconv.Atoi(tokens[i+1])
				if err == nil {
					i++
					return n
				}
				fmt.Println("info string Malformed go option", tokens[i])
			}
			return 0
		}
		switch strings.ToLower(tokens[i]) {
		case "wtime":
			wtime = readIntArg()
		case "btime":
			btime = readIntArg()
		case "winc":
			winc = readIntArg()
		case "binc":
			binc = readIntArg()
		case "movestogo":
			movestogo = readIntArg()
		case "movetime":
			movetime = readIntArg()
		case "depth":
			depthOverride = readIntArg()
		case "infinite":
			infinite = true
		default:
			fmt.Println("info string Unknown go subcommand", tokens[i])
		}
	}

	if bookEnabled {
		if bookMoveStr := bookMove(board, playedMoves); bookMoveStr != "" {
			fmt.Println("info depth 0 score cp 0 nodes 0 time 0 pv", bookMoveStr)
			fmt.Println("bestmove", bookMoveStr)
			return
		}
	}

	depth := engine.EngineDepth
	timeLimit := defaultTimeLimitMs

	if movetime > 0 {
		timeLimit = movetime * 6 / 10
	} else {
		remaining := btime
		increment := binc
		if board.Wtomove {
			remaining = wtime
			increment = winc
		}
		if remaining > 0 {
			divisor := 40
			if movestogo > 0 {
				divisor = movestogo + 1
			}
			baseTime := remaining / divisor
			timeLimit = baseTime*6/10 + increment
		}
		if timeLimit < 15000 {
			depth = lowTimeDepthCap
		}
	}

	if depthOverride > 0 {
		depth = depthOverride
		timeLimit = int(time.Hour / time.Millisecond)
	} else if infinite {
		timeLimit = int(time.Hour / time.Millisecond)
	}

	bestMove, ok := state.FindBestMove(board, depth, time.Duration(timeLimit)*time.Millisecond)
	if !ok {
		fmt.Println("bestmove 0000")
		return
	}
	fmt.Println("bestmove", bestMove.String())
}

func parseSetOption(tokens []string) (name, value string) {
	for i := 1; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "name":
			if i+1 < len(tokens) {
				name = tokens[i+1]
			}
		case "value":
			if i+1 < len(tokens) {
				value = tokens[i+1]
			}
		}
	}
	return name, value
}

// timeLimitMs mirrors handleGo's budget arithmetic for testing.
func timeLimitMs(whiteToMove bool, wtime, btime, winc, binc, movestogo, movetime int) int {
	if movetime > 0 {
		return movetime * 6 / 10
	}
	remaining := btime
	increment := binc
	if whiteToMove {
		remaining = wtime
		increment = winc
	}
	if remaining <= 0 {
		return defaultTimeLimitMs
	}
	divisor := 40
	if movestogo > 0 {
		divisor = movestogo + 1
	}
	return remaining/divisor*6/10 + increment
}
