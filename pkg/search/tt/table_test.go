package tt

import (
	"sync"
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestIndexRange(t *testing.T) {
	// Property 4.
	f := func(key uint64, n uint16) bool {
		length := int(n) + 1 // force N >= 1
		idx := wrapKey(key, length)
		return idx >= 0 && idx < length
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestIndexRangeZeroLength(t *testing.T) {
	assert.Equal(t, 0, wrapKey(0xDEADBEEF, 0))
}

// S1: resize(8192) gives length 1024; probing an empty table misses.
func TestScenarioS1(t *testing.T) {
	tbl := New()
	tbl.Resize(8192)
	require.Equal(t, 1024, tbl.Len())

	res := tbl.Probe(false, 0xDEADBEEF, 0, -100, 100, 4)
	assert.Equal(t, Miss, res.Outcome)
}

// S2: an Exact store at depth 8 is retrieved as a Cutoff by a shallower probe.
func TestScenarioS2(t *testing.T) {
	tbl := New()
	tbl.Resize(8192)

	const key = 0xDEADBEEF
	const move Move = 7

	tbl.Store(false, key, 0, move, 42, BoundExact, 8)

	res := tbl.Probe(false, key, 0, -100, 100, 4)
	require.Equal(t, Cut, res.Outcome)
	assert.Equal(t, 42, res.Value)
}

// S3: the same entry probed at a greater depth than it was stored with
// yields a Hit, not a Cutoff, carrying the stored move, depth and bound.
func TestScenarioS3(t *testing.T) {
	tbl := New()
	tbl.Resize(8192)

	const key = 0xDEADBEEF
	const move Move = 7

	tbl.Store(false, key, 0, move, 42, BoundExact, 8)

	res := tbl.Probe(false, key, 0, -100, 100, 12)
	require.Equal(t, Info, res.Outcome)
	assert.Equal(t, move, res.Hit.Move)
	assert.Equal(t, 8, res.Hit.Depth)
	assert.Equal(t, BoundExact, res.Hit.Bound)
}

// S4: mate-score normalisation survives a round trip through store/probe at
// different plies.
func TestScenarioS4(t *testing.T) {
	tbl := New()
	tbl.Resize(8192)

	const key = 0x12345
	const move Move = 3

	tbl.Store(false, key, 3, move, 30500, BoundExact, 10)

	res := tbl.Probe(false, key, 7, -32000, 32000, 10)
	require.Equal(t, Cut, res.Outcome)
	assert.Equal(t, 30496, res.Value)
}

// S5: an UpperBound cuts off when the stored score is below alpha, but only
// becomes a Hit once alpha drops below the stored score.
func TestScenarioS5(t *testing.T) {
	tbl := New()
	tbl.Resize(8192)

	const key = 0x55

	tbl.Store(false, key, 0, NullMove, -50, BoundUpperBound, 10)

	cut := tbl.Probe(false, key, 0, -20, 100, 10)
	require.Equal(t, Cut, cut.Outcome)
	assert.Equal(t, -20, cut.Value)

	hit := tbl.Probe(false, key, 0, -100, 100, 10)
	require.Equal(t, Info, hit.Outcome)
}

// S6: a null-move re-store inherits the prior move, and the quality-band
// check admits the replacement.
func TestScenarioS6(t *testing.T) {
	tbl := New()
	tbl.Resize(8192)

	const key = 0x99
	const m0 Move = 0x4242

	tbl.Store(false, key, 0, m0, 100, BoundExact, 10)
	tbl.Store(false, key, 0, NullMove, 10, BoundLowerBound, 10)

	idx := wrapKey(key, tbl.Len())
	e := decode(tbl.cells[idx].Load())
	assert.Equal(t, m0, e.Move)
	assert.Equal(t, BoundLowerBound, e.Flag)
}

func TestDepthGating(t *testing.T) {
	// Property 6.
	tbl := New()
	tbl.Resize(4096)

	const key = 0xAB
	const move Move = 11

	tbl.Store(false, key, 0, move, 5, BoundExact, 5)

	res := tbl.Probe(false, key, 0, -Infinity, Infinity, 10)
	require.Equal(t, Info, res.Outcome)
	assert.Equal(t, move, res.Hit.Move)
	assert.Equal(t, 5, res.Hit.Depth)
}

func TestBoundSemanticsSymmetric(t *testing.T) {
	// Property 7.
	tbl := New()
	tbl.Resize(4096)

	upperKey := uint64(0x1)
	tbl.Store(false, upperKey, 0, NullMove, -50, BoundUpperBound, 10)
	assert.Equal(t, Cut, tbl.Probe(false, upperKey, 0, -20, 1000, 10).Outcome)
	assert.Equal(t, Info, tbl.Probe(false, upperKey, 0, -1000, 1000, 10).Outcome)

	lowerKey := uint64(0x2)
	tbl.Store(false, lowerKey, 0, NullMove, 50, BoundLowerBound, 10)
	assert.Equal(t, Cut, tbl.Probe(false, lowerKey, 0, -1000, 20, 10).Outcome)
	assert.Equal(t, Info, tbl.Probe(false, lowerKey, 0, -1000, 1000, 10).Outcome)
}

func TestRootNeverCuts(t *testing.T) {
	// Property 8.
	tbl := New()
	tbl.Resize(4096)

	const key = 0xCAFE
	tbl.Store(true, key, 0, NullMove, 500, BoundExact, 10)

	res := tbl.Probe(true, key, 0, -1000, 1000, 10)
	assert.NotEqual(t, Cut, res.Outcome)

	res = tbl.Probe(true, key, 0, -1000, 1000, 20)
	assert.NotEqual(t, Cut, res.Outcome)
}

func TestReplacementAlwaysOnKeyChange(t *testing.T) {
	// Property 9. Two keys that happen to collide on the same index both
	// truncate to different 16-bit fragments; force a collision by writing
	// directly at the same cell via a single-length table.
	tbl := New()
	tbl.Resize(8) // length 1: every key maps to cell 0.

	tbl.Store(false, 0x0000000000000001, 0, 1, 999, BoundExact, 64)
	tbl.Store(false, 0x0000000000000002, 0, 2, 1, BoundUpperBound, 1)

	e := decode(tbl.cells[0].Load())
	assert.EqualValues(t, 2, e.Key)
	assert.Equal(t, Move(2), e.Move)
}

func TestReplacementQualityBand(t *testing.T) {
	// Property 10.
	tbl := New()
	tbl.Resize(8)

	const key = uint64(0x0005000000000000)

	tbl.Store(false, key, 0, 1, 0, BoundExact, 10) // cur_q = 10+3 = 13

	// ins_q = 1+1(Upper) = 2; 3*2=6 < 2*13=26: rejected.
	tbl.Store(false, key, 0, 2, 0, BoundUpperBound, 1)
	e := decode(tbl.cells[0].Load())
	assert.Equal(t, Move(1), e.Move)

	// ins_q = 9+2(Lower) = 11; 3*11=33 >= 26: accepted.
	tbl.Store(false, key, 0, 3, 0, BoundLowerBound, 9)
	e = decode(tbl.cells[0].Load())
	assert.Equal(t, Move(3), e.Move)
}

func TestNullMoveInheritance(t *testing.T) {
	// Property 11.
	tbl := New()
	tbl.Resize(4096)

	const key = 0x77
	tbl.Store(false, key, 0, Move(55), 10, BoundExact, 5)
	tbl.Store(true, key, 0, NullMove, 20, BoundExact, 5)

	idx := wrapKey(key, tbl.Len())
	e := decode(tbl.cells[idx].Load())
	assert.Equal(t, Move(55), e.Move)
}

func TestClearIdempotence(t *testing.T) {
	// Property 12.
	tbl := New()
	tbl.Resize(8192)

	for i := uint64(0); i < 200; i++ {
		tbl.Store(false, i<<48|i, 0, Move(uint16(i)), int(i), BoundExact, 5)
	}
	require.Greater(t, tbl.Hashfull(), 0)

	tbl.Clear()
	assert.Equal(t, 0, tbl.Hashfull())
}

func TestHashfullCapsAtOneThousand(t *testing.T) {
	tbl := New()
	tbl.Resize(16384) // length 2048

	for i := uint64(0); i < 2048; i++ {
		tbl.Store(false, (i<<52)|i+1, 0, Move(1), 0, BoundExact, 1)
	}
	assert.LessOrEqual(t, tbl.Hashfull(), 1000)
}

func TestConcurrentStoreProbeNeverDecodesIllegalFlag(t *testing.T) {
	// Property 13 (stress, scaled down for a unit-test budget).
	tbl := New()
	tbl.Resize(1 << 16)

	const writers = 8
	const readers = 8
	const duration = 100 * time.Millisecond

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(seed uint64) {
			defer wg.Done()
			x := seed
			for {
				select {
				case <-stop:
					return
				default:
				}
				x = x*6364136223846793005 + 1
				key := x
				score := int(int16(x >> 32))
				flag := Bound(x%3 + 1)
				tbl.Store(false, key, 0, Move(uint16(x)), score, flag, int(x%uint64(MaxDepth)))
			}
		}(uint64(w)*2654435761 + 1)
	}

	var illegal atomic.Int32
	wg.Add(readers)
	for r := 0; r < readers; r++ {
		go func(seed uint64) {
			defer wg.Done()
			x := seed
			for {
				select {
				case <-stop:
					return
				default:
				}
				x = x*6364136223846793005 + 1
				res := tbl.Probe(false, x, 0, -1000, 1000, int(x%uint64(MaxDepth)))
				switch res.Outcome {
				case Miss, Cut, Info:
				default:
					illegal.Inc()
				}
			}
		}(uint64(r)*40503 + 7)
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()

	assert.Zero(t, illegal.Load())
}
