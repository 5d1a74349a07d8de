package pipeline_test

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixcrypt/pixcrypt/internal/pipeline"
)

// countingPrimitive records how often and with which lengths it was called.
type countingPrimitive struct {
	calls   atomic.Int64
	maxSize atomic.Int64
	inner   pipeline.Primitive
}

func (c *countingPrimitive) Transform(buf []byte, key pipeline.Key, dir pipeline.Direction, mode pipeline.Mode, seed pipeline.Block) error {
	c.calls.Add(1)

	for {
		current := c.maxSize.Load()
		if int64(len(buf)) <= current || c.maxSize.CompareAndSwap(current, int64(len(buf))) {
			break
		}
	}

	return c.inner.Transform(buf, key, dir, mode, seed)
}

type failingPrimitive struct{}

var errBroken = errors.New("broken primitive")

func (failingPrimitive) Transform([]byte, pipeline.Key, pipeline.Direction, pipeline.Mode, pipeline.Block) error {
	return errBroken
}

func TestExecutorIndependentCallsOncePerBlock(t *testing.T) {
	t.Parallel()

	counter := &countingPrimitive{inner: pipeline.AES{}}
	exec := pipeline.NewExecutor(counter, 4)

	buf := make([]byte, 37*pipeline.BlockSize)
	require.NoError(t, exec.Run(context.Background(), buf, testKey(), pipeline.Forward, pipeline.ModeIndependent))

	assert.EqualValues(t, 37, counter.calls.Load())
	assert.EqualValues(t, pipeline.BlockSize, counter.maxSize.Load())
}

func TestExecutorChainedCallsOnce(t *testing.T) {
	t.Parallel()

	counter := &countingPrimitive{inner: pipeline.AES{}}
	exec := pipeline.NewExecutor(counter, 8)

	buf := make([]byte, 37*pipeline.BlockSize)
	require.NoError(t, exec.Run(context.Background(), buf, testKey(), pipeline.Forward, pipeline.ModeChained))

	assert.EqualValues(t, 1, counter.calls.Load())
	assert.EqualValues(t, len(buf), counter.maxSize.Load())
}

func TestExecutorChainedMatchesCBCWithZeroIV(t *testing.T) {
	t.Parallel()

	key := testKey()
	plain := randomBytes(t, 9*pipeline.BlockSize)

	got := append([]byte(nil), plain...)
	require.NoError(t, pipeline.NewExecutor(pipeline.AES{}, 1).
		Run(context.Background(), got, key, pipeline.Forward, pipeline.ModeChained))

	block, err := aes.NewCipher(key[:])
	require.NoError(t, err)

	want := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, make([]byte, aes.BlockSize)).CryptBlocks(want, plain)

	assert.Equal(t, want, got)
}

func TestExecutorIndependentBlockOrderIrrelevant(t *testing.T) {
	t.Parallel()

	key := testKey()
	plain := randomBytes(t, 50*pipeline.BlockSize)

	// Reference: blocks dispatched one by one in reverse order.
	reversed := append([]byte(nil), plain...)
	for b := len(reversed)/pipeline.BlockSize - 1; b >= 0; b-- {
		block := reversed[b*pipeline.BlockSize : (b+1)*pipeline.BlockSize]
		require.NoError(t, pipeline.AES{}.Transform(block, key, pipeline.Forward, pipeline.ModeIndependent, pipeline.ZeroSeed))
	}

	for _, threads := range []int{1, 2, 3, 7, 64} {
		got := append([]byte(nil), plain...)
		require.NoError(t, pipeline.NewExecutor(pipeline.AES{}, threads).
			Run(context.Background(), got, key, pipeline.Forward, pipeline.ModeIndependent))

		assert.Equal(t, reversed, got, "threads=%d", threads)
	}
}

func TestExecutorEdgeCases(t *testing.T) {
	t.Parallel()

	exec := pipeline.NewExecutor(failingPrimitive{}, 2)

	t.Run("empty buffer is a no-op", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, exec.Run(context.Background(), []byte{}, testKey(), pipeline.Forward, pipeline.ModeChained))
	})

	t.Run("misaligned buffer", func(t *testing.T) {
		t.Parallel()

		err := exec.Run(context.Background(), make([]byte, 17), testKey(), pipeline.Forward, pipeline.ModeIndependent)
		require.ErrorIs(t, err, pipeline.ErrMisalignedLength)
	})

	t.Run("primitive failure", func(t *testing.T) {
		t.Parallel()

		err := exec.Run(context.Background(), make([]byte, 64), testKey(), pipeline.Inverse, pipeline.ModeIndependent)
		require.ErrorIs(t, err, errBroken)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := pipeline.NewExecutor(pipeline.AES{}, 2).
			Run(ctx, make([]byte, 64), testKey(), pipeline.Forward, pipeline.ModeChained)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestAESKnownAnswer(t *testing.T) {
	t.Parallel()

	// FIPS-197 appendix C.1
	key := pipeline.NormalizeKey([]byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	})
	buf := []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
		0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
	}
	want := []byte{
		0x69, 0xc4, 0xe0, 0xd8, 0x6a, 0x7b, 0x04, 0x30,
		0xd8, 0xcd, 0xb7, 0x80, 0x70, 0xb4, 0xc5, 0x5a,
	}

	require.NoError(t, pipeline.AES{}.Transform(buf, key, pipeline.Forward, pipeline.ModeIndependent, pipeline.ZeroSeed))
	assert.Equal(t, want, buf)
}

func testKey() pipeline.Key {
	return pipeline.NormalizeKey([]byte("pixel-secret"))
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	buf := make([]byte, n)
	_, err := rand.Read(buf)
	require.NoError(t, err)

	return buf
}
