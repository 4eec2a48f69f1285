package dedupe_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allansene/orchest/pkg/dedupe"
)

func TestDoCollapsesConcurrentCalls(t *testing.T) {
	g := dedupe.New(100 * time.Millisecond)

	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := g.Do("key", func() (any, error) {
				calls.Add(1)
				<-release
				return "value", nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give the goroutines a moment to pile up on the pending call.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent equal-keyed calls must share one invocation")
	for _, v := range results {
		assert.Equal(t, "value", v)
	}
}

func TestDoServesSettledResultWithinWindow(t *testing.T) {
	g := dedupe.New(time.Minute)

	var calls int
	fn := func() (any, error) {
		calls++
		return calls, nil
	}

	v1, err := g.Do("key", fn)
	require.NoError(t, err)
	v2, err := g.Do("key", fn)
	require.NoError(t, err)

	assert.Equal(t, 1, v1)
	assert.Equal(t, 1, v2, "repeat inside the window must observe the settled result")
	assert.Equal(t, 1, calls)
}

func TestDoReinvokesAfterWindow(t *testing.T) {
	g := dedupe.New(10 * time.Millisecond)

	var calls int
	fn := func() (any, error) {
		calls++
		return calls, nil
	}

	_, _ = g.Do("key", fn)
	time.Sleep(25 * time.Millisecond)
	v, err := g.Do("key", fn)

	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}

func TestDoDeduplicatesErrors(t *testing.T) {
	g := dedupe.New(time.Minute)
	boom := errors.New("boom")

	var calls int
	fn := func() (any, error) {
		calls++
		return nil, boom
	}

	_, err1 := g.Do("key", fn)
	_, err2 := g.Do("key", fn)

	assert.ErrorIs(t, err1, boom)
	assert.ErrorIs(t, err2, boom, "a rejected call's repeat observes the same rejection")
	assert.Equal(t, 1, calls)
}

func TestDistinctKeysDoNotShare(t *testing.T) {
	g := dedupe.New(time.Minute)

	var calls int
	fn := func() (any, error) {
		calls++
		return calls, nil
	}

	_, _ = g.Do("a", fn)
	_, _ = g.Do("b", fn)

	assert.Equal(t, 2, calls)
}

func TestForget(t *testing.T) {
	g := dedupe.New(time.Minute)

	var calls int
	fn := func() (any, error) {
		calls++
		return calls, nil
	}

	_, _ = g.Do("key", fn)
	g.Forget("key")
	v, err := g.Do("key", fn)

	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestTypedDo(t *testing.T) {
	g := dedupe.New(time.Minute)

	v, err := dedupe.Do(g, "key", func() (map[string]int, error) {
		return map[string]int{"a": 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, v["a"])

	t.Run("nil result on error", func(t *testing.T) {
		v, err := dedupe.Do(g, "err", func() (map[string]int, error) {
			return nil, errors.New("boom")
		})
		assert.Error(t, err)
		assert.Nil(t, v)
	})
}
