package search

import (
	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/search/tt"
)

// orderMoves sorts moves in place: the transposition table's hint move first (via
// board.First), then captures by descending MVV-LVA value and non-capturing promotions by
// promoted-piece value (the two scales overlap, so they interleave), then everything else.
func orderMoves(moves []board.Move, hint tt.Move) {
	fn := board.MovePriorityFn(priority)
	if hint != tt.NullMove {
		// Unpack the token once rather than re-packing every candidate move: the hint only
		// carries From/To/Promotion, so that's all a candidate needs to match against.
		unpacked := board.UnpackMove(uint16(hint))
		for _, m := range moves {
			if m.From == unpacked.From && m.To == unpacked.To && m.Promotion == unpacked.Promotion {
				fn = board.First(m, fn)
				break
			}
		}
	}
	board.SortByPriority(moves, fn)
}

func priority(m board.Move) board.MovePriority {
	switch m.Type {
	case board.Capture, board.CapturePromotion, board.EnPassant:
		return board.MovePriority(1000 + board.NominalValue(m.Capture)*8 - board.NominalValue(m.Piece))
	case board.Promotion:
		return board.MovePriority(900 + board.NominalValue(m.Promotion))
	default:
		return 0
	}
}

// captures filters moves down to captures (including en passant and capture-promotions), in
// place, for use by quiescence search.
func captures(moves []board.Move) []board.Move {
	out := moves[:0]
	for _, m := range moves {
		if m.Type == board.Capture || m.Type == board.CapturePromotion || m.Type == board.EnPassant {
			out = append(out, m)
		}
	}
	return out
}
