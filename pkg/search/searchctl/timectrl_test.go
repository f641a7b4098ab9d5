package searchctl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vthas/viridithas/pkg/board"
)

func TestLimitsDefaultAssumesFortyMoves(t *testing.T) {
	tc := TimeControl{White: 80 * time.Second, Black: 80 * time.Second}

	soft, hard := tc.Limits(board.White)
	assert.Equal(t, time.Second, soft)
	assert.Equal(t, 3*time.Second, hard)
}

func TestLimitsUsesMovesToGo(t *testing.T) {
	tc := TimeControl{White: 60 * time.Second, Moves: 29}

	soft, hard := tc.Limits(board.White)
	assert.Equal(t, 60*time.Second/60, soft)
	assert.Equal(t, 3*soft, hard)
}

func TestLimitsPicksColor(t *testing.T) {
	tc := TimeControl{White: 10 * time.Second, Black: 20 * time.Second}

	wSoft, _ := tc.Limits(board.White)
	bSoft, _ := tc.Limits(board.Black)
	assert.Less(t, wSoft, bSoft)
}

func TestStringFormatsTimeControl(t *testing.T) {
	tc := TimeControl{White: 10 * time.Second, Black: 20 * time.Second}
	assert.Equal(t, "10.0<>20.0", tc.String())

	tc.Moves = 5
	assert.Equal(t, "10.0<>20.0[moves=5]", tc.String())
}
