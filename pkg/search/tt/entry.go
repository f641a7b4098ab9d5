package tt

// flagMask keeps the two meaningful bits of the bound byte and zeros the
// rest, so that decode always yields one of the four legal Bound variants
// regardless of what bit pattern happens to be in a word. This guard is
// load-bearing: it is what lets decode be called on any word, including
// ones never produced by encode, and still get back something legal.
const flagMask = 0x03

// Entry is the logical record cached for one position. Together its fields
// occupy exactly one 64-bit word: Key and Move each 16 bits, Score 16 bits,
// Depth 8 bits and Flag packed into the low 2 bits of the last byte.
type Entry struct {
	Key   uint16 // low 16 bits of the full Zobrist key
	Move  Move
	Score int16
	Depth uint8
	Flag  Bound
}

// NullEntry is the canonical empty record. It encodes to the all-zeros
// word, which is what Resize and Clear fill every cell with, and what an
// unwritten cell naturally reads as.
var NullEntry = Entry{Key: 0, Move: NullMove, Score: 0, Depth: 0, Flag: BoundNone}

// encode packs e into a 64-bit word: key in the low 16 bits, then move,
// then score, then depth, then the flag in the top byte. Total, never fails.
func encode(e Entry) uint64 {
	return uint64(e.Key) |
		uint64(e.Move)<<16 |
		uint64(uint16(e.Score))<<32 |
		uint64(e.Depth)<<48 |
		uint64(e.Flag&flagMask)<<56
}

// decode unpacks a 64-bit word into an Entry. The flag is masked to {0,1,2,3}
// so the result is always a legal Entry, even for words never produced by
// encode (e.g. if a decoder is ever handed a corrupt word).
func decode(w uint64) Entry {
	return Entry{
		Key:   uint16(w),
		Move:  Move(uint16(w >> 16)),
		Score: int16(uint16(w >> 32)),
		Depth: uint8(w >> 48),
		Flag:  Bound(uint8(w>>56) & flagMask),
	}
}
