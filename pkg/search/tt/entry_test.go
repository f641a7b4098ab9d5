package tt

import (
	"testing"
	"testing/quick"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryWidth(t *testing.T) {
	// Property 2: the encoded entry is exactly one 64-bit word.
	var w uint64
	assert.Equal(t, uintptr(8), unsafe.Sizeof(w))
}

func TestCodecBijection(t *testing.T) {
	// Property 1, first half: decode(encode(e)) == e for every legal e.
	f := func(key, move, depth uint8, score int16, flagBits uint8) bool {
		e := Entry{
			Key:   uint16(key),
			Move:  Move(move),
			Score: score,
			Depth: depth,
			Flag:  Bound(flagBits & flagMask),
		}
		return decode(encode(e)) == e
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestCodecBijectionKeyUpperBits(t *testing.T) {
	// Key is a full uint16 in the entry, not just a byte; check the upper
	// byte survives the round trip too. cmp.Diff pinpoints which field broke
	// the round trip, rather than just reporting "not equal" for the whole struct.
	e := Entry{Key: 0xBEEF, Move: 0x1234, Score: -12345, Depth: 63, Flag: BoundExact}
	if diff := cmp.Diff(e, decode(encode(e))); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeAlwaysLegal(t *testing.T) {
	// Property 1, second half: decode(w) is always a legal record, and
	// encode(decode(w)) == w whenever w's flag bits were already legal.
	f := func(w uint64) bool {
		e := decode(w)
		switch e.Flag {
		case BoundNone, BoundUpperBound, BoundLowerBound, BoundExact:
		default:
			return false
		}
		if w>>56&^uint64(flagMask) == 0 {
			return encode(e) == w
		}
		return true
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestNullEntryEncodesToZero(t *testing.T) {
	assert.Equal(t, uint64(0), encode(NullEntry))
	assert.Equal(t, NullEntry, decode(0))
}

func TestMateScoreRoundTrip(t *testing.T) {
	// Property 3.
	for ply := 0; ply <= MaxDepth; ply++ {
		for s := -Infinity; s <= Infinity; s += 37 {
			got := reconstructMateScore(normaliseMateScore(s, ply), ply)
			require.Equal(t, s, got, "ply=%d s=%d", ply, s)
		}
	}
}

func TestNormaliseMateScoreUnchangedInBand(t *testing.T) {
	assert.Equal(t, 100, normaliseMateScore(100, 5))
	assert.Equal(t, -100, normaliseMateScore(-100, 5))
	assert.Equal(t, MinimumMateScore, normaliseMateScore(MinimumMateScore, 5))
}

func TestNormaliseMateScoreAboveThreshold(t *testing.T) {
	assert.Equal(t, 30503, normaliseMateScore(30500, 3))
	assert.Equal(t, -30503, normaliseMateScore(-30500, 3))
}

func TestBoundBonusOrdering(t *testing.T) {
	assert.Equal(t, 3, BoundExact.bonus())
	assert.Equal(t, 2, BoundLowerBound.bonus())
	assert.Equal(t, 1, BoundUpperBound.bonus())
	assert.Equal(t, 0, BoundNone.bonus())
}
