package puzzle

import (
	"testing"

	"github.com/turbofold/foldengine/internal/codec"
)

type fakeCtx struct {
	idx      uint8
	draws    []uint32
	drawPos  int
	response any
}

func (f *fakeCtx) PlayerIndex() uint8 { return f.idx }
func (f *fakeCtx) RandU32() uint32 {
	v := f.draws[f.drawPos]
	f.drawPos++
	return v
}
func (f *fakeCtx) RandU64() uint64             { return 0 }
func (f *fakeCtx) SetClientResponse(v any)     { f.response = v }
func (f *fakeCtx) ClientResponse() any         { return f.response }

func TestMoveOnEmptyBoardIsNoOp(t *testing.T) {
	s := NewState()
	Reduce(s, NewPrivate(), codec.Action{Kind: codec.KindMove, Direction: DirLeft}, &fakeCtx{draws: []uint32{0}})
	want := NewState()
	if s.Board != want.Board {
		t.Fatalf("Move on empty board mutated it: %+v", s.Board)
	}
}

func TestSlideAndMergeLine(t *testing.T) {
	got := slideAndMergeLine([4]uint32{2, 2, 0, 4})
	want := [4]uint32{4, 4, 0, 0}
	if got != want {
		t.Fatalf("slideAndMergeLine = %v, want %v", got, want)
	}
}

func TestMoveBoardLeft(t *testing.T) {
	board := [4][4]uint32{
		{2, 2, 0, 4},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	got := MoveBoard(board, DirLeft)
	if got[0] != [4]uint32{4, 4, 0, 0} {
		t.Fatalf("row 0 after left move = %v", got[0])
	}
}

func TestBootstrapPlacesTileDeterministically(t *testing.T) {
	priv := NewPrivate()
	s := NewState()
	ctx := &fakeCtx{draws: []uint32{5}}
	Reduce(s, priv, codec.Action{Kind: codec.KindMoveAndPlace, Direction: DirUp}, ctx)

	if priv.Moves != 1 {
		t.Fatalf("moves = %d, want 1", priv.Moves)
	}
	if s.Board[1][1] != 2 {
		t.Fatalf("expected tile at (1,1) for rand=5, board=%v", s.Board)
	}
	resp, ok := ctx.response.(Response)
	if !ok || resp.Row != 1 || resp.Col != 1 {
		t.Fatalf("unexpected client response: %#v", ctx.response)
	}
}

func TestBootstrapIsDeterministicAcrossReplicas(t *testing.T) {
	run := func() (*State, any) {
		priv := NewPrivate()
		s := NewState()
		ctx := &fakeCtx{draws: []uint32{9}}
		Reduce(s, priv, codec.Action{Kind: codec.KindMoveAndPlace, Direction: DirUp}, ctx)
		return s, ctx.response
	}
	s1, r1 := run()
	s2, r2 := run()
	if s1.Board != s2.Board || r1 != r2 {
		t.Fatalf("bootstrap dispatch not deterministic: %v/%v vs %v/%v", s1.Board, r1, s2.Board, r2)
	}
}

func TestPlaceTilePanicsOnOccupiedCell(t *testing.T) {
	s := NewState()
	s.Board[0][0] = 2
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic placing a tile on an occupied cell")
		}
	}()
	Reduce(s, NewPrivate(), codec.Action{Kind: codec.KindPlaceTile, Row: 0, Col: 0}, &fakeCtx{})
}

func TestMoveAndPlaceNoOpWhenBoardCannotMove(t *testing.T) {
	priv := &Private{Moves: 1}
	s := NewState()
	s.Board[0][0] = 2
	s.Board[0][1] = 4
	s.Board[0][2] = 2
	s.Board[0][3] = 4
	before := s.Clone()
	ctx := &fakeCtx{draws: []uint32{0}}
	Reduce(s, priv, codec.Action{Kind: codec.KindMoveAndPlace, Direction: DirLeft}, ctx)
	if s.Board != before.Board {
		t.Fatalf("expected no-op move to leave the board unchanged, got %v", s.Board)
	}
	if ctx.response != nil {
		t.Fatalf("expected nil client response for a no-op move, got %#v", ctx.response)
	}
}
