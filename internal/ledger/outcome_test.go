package ledger

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollOutcome_FirstAcceptedByte(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		buf  [32]byte
		want uint8
	}{
		{name: "zero", buf: [32]byte{0}, want: 1},
		{name: "five", buf: [32]byte{5}, want: 6},
		{name: "six_wraps", buf: [32]byte{6}, want: 1},
		{name: "last_accepted", buf: [32]byte{251}, want: 6},
		{name: "skips_rejected", buf: [32]byte{252, 255, 9}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, RollOutcome(tt.buf))
		})
	}
}

func TestRollOutcome_AllRejectedIsDeterministic(t *testing.T) {
	t.Parallel()

	var buf [32]byte
	for i := range buf {
		buf[i] = 0xff
	}

	got := RollOutcome(buf)
	assert.GreaterOrEqual(t, got, uint8(MinChoice))
	assert.LessOrEqual(t, got, uint8(MaxChoice))
	assert.Equal(t, got, RollOutcome(buf))
}

func TestRollOutcome_CoversEveryFace(t *testing.T) {
	t.Parallel()

	seen := make(map[uint8]int)

	for range 6_000 {
		var buf [32]byte
		_, err := rand.Read(buf[:])
		require.NoError(t, err)

		seen[RollOutcome(buf)]++
	}

	require.Len(t, seen, sides)
	for face, n := range seen {
		assert.Greater(t, n, 700, "face %d under-represented", face)
	}
}

func TestAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PlayerAddress("alice"), PlayerAddress("alice"))
	assert.NotEqual(t, PlayerAddress("alice"), AdminAddress("alice"))
	assert.NotEqual(t, Address(NamespacePlayer, "ab", "c"), Address(NamespacePlayer, "a", "bc"))
	assert.Len(t, VaultAddress(), 64)

	s1 := CallerSeed("alice", "req-1", []byte("seed"))
	s2 := CallerSeed("alice", "req-2", []byte("seed"))
	assert.NotEqual(t, s1, s2)
}

func TestCheckedArithmetic(t *testing.T) {
	t.Parallel()

	const maxInt64 = int64(^uint64(0) >> 1)

	_, err := Add(maxInt64, 1)
	require.ErrorIs(t, err, ErrOverflow)

	_, err = Sub(1, 2)
	require.ErrorIs(t, err, ErrUnderflow)

	_, err = Mul(maxInt64/2+1, 2)
	require.ErrorIs(t, err, ErrOverflow)

	v, err := Mul(maxInt64/2, 2)
	require.NoError(t, err)
	assert.Equal(t, maxInt64-1, v)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindValidation, KindOf(ErrInvalidChoice))
	assert.Equal(t, KindAuthorization, KindOf(ErrUnauthorized))
	assert.Equal(t, KindLimit, KindOf(ErrMaxAdminsReached))
	assert.Equal(t, KindState, KindOf(ErrDailyLimitReached))
	assert.Equal(t, KindNotFound, KindOf(ErrPlayerNotFound))
	assert.Equal(t, KindArithmetic, KindOf(ErrOverflow))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))

	_, err := Add(int64(^uint64(0)>>1), 5)
	assert.Equal(t, KindArithmetic, KindOf(err))
	assert.Equal(t, "Overflow", CodeOf(err))
}
