package puzzle

import (
	"github.com/turbofold/foldengine/internal/codec"
	"github.com/turbofold/foldengine/internal/reducer"
)

// Response is the client-response payload Reduce writes when it places a
// tile: `{"r": row, "c": col}`.
type Response struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

// Reduce is the illustrative reducer: it mutates public/private state in
// place, draws randomness through ctx, and panics to signal an illegal
// action — the fold engine (in-circuit) or the session (on the host, via
// recover) is responsible for turning that into a fault.
func Reduce(public *State, private *Private, action codec.Action, ctx reducer.Context) {
	switch action.Kind {
	case codec.KindMoveAndPlace:
		reduceMoveAndPlace(public, private, action, ctx)
	case codec.KindMove:
		public.Board = MoveBoard(public.Board, action.Direction)
	case codec.KindPlaceTile:
		if public.Board[action.Row][action.Col] != 0 {
			panic("puzzle: cannot place a tile on a non-empty position")
		}
		public.Board[action.Row][action.Col] = 2
	default:
		panic("puzzle: unknown action kind")
	}
}

// reduceMoveAndPlace handles the combined move-and-place action: a
// bootstrap branch seeds the very first tile, then subsequent dispatches
// slide the board and place a fresh tile in a uniformly random empty cell
// when the move actually changed the board.
func reduceMoveAndPlace(public *State, private *Private, action codec.Action, ctx reducer.Context) {
	ctx.SetClientResponse(nil)

	if private.Moves == 0 {
		pick := ctx.RandU32() % 16
		r, c := int(pick/4), int(pick%4)
		public.Board[r][c] = 2
		private.Moves++
		ctx.SetClientResponse(Response{Row: r, Col: c})
		return
	}

	newBoard := MoveBoard(public.Board, action.Direction)
	private.Moves++

	var emptyRows, emptyCols []int
	moved := false
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if newBoard[row][col] == 0 {
				emptyRows = append(emptyRows, row)
				emptyCols = append(emptyCols, col)
			}
			if public.Board[row][col] != newBoard[row][col] {
				moved = true
			}
		}
	}

	if !moved {
		return
	}
	public.Board = newBoard

	if len(emptyRows) == 0 {
		return
	}
	pick := int(ctx.RandU32()) % len(emptyRows)
	r, c := emptyRows[pick], emptyCols[pick]
	public.Board[r][c] = 2
	ctx.SetClientResponse(Response{Row: r, Col: c})
}
