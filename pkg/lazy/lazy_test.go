package lazy_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quinncodes/orgspace/pkg/lazy"
)

func TestValue_Get(t *testing.T) {
	t.Parallel()

	t.Run("builds once and returns the same value", func(t *testing.T) {
		t.Parallel()

		var builds atomic.Int32
		v := lazy.New(func(ctx context.Context) (int, error) {
			builds.Add(1)
			return 42, nil
		})

		for i := 0; i < 5; i++ {
			got, err := v.Get(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 42, got)
		}
		assert.Equal(t, int32(1), builds.Load())
		assert.True(t, v.Ready())
	})

	t.Run("concurrent first callers share one build", func(t *testing.T) {
		t.Parallel()

		var builds atomic.Int32
		release := make(chan struct{})
		v := lazy.New(func(ctx context.Context) (string, error) {
			builds.Add(1)
			<-release
			return "ready", nil
		})

		const callers = 32
		var wg sync.WaitGroup
		results := make([]string, callers)
		errs := make([]error, callers)

		for i := 0; i < callers; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = v.Get(context.Background())
			}()
		}

		close(release)
		wg.Wait()

		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, "ready", results[i])
		}
		assert.Equal(t, int32(1), builds.Load())
	})

	t.Run("failed build is retried, not cached", func(t *testing.T) {
		t.Parallel()

		var builds atomic.Int32
		buildErr := errors.New("not yet")
		v := lazy.New(func(ctx context.Context) (int, error) {
			if builds.Add(1) < 3 {
				return 0, buildErr
			}
			return 7, nil
		})

		_, err := v.Get(context.Background())
		require.ErrorIs(t, err, buildErr)
		assert.False(t, v.Ready())

		_, err = v.Get(context.Background())
		require.ErrorIs(t, err, buildErr)
		assert.False(t, v.Ready())

		got, err := v.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, got)
		assert.True(t, v.Ready())
		assert.Equal(t, int32(3), builds.Load())
	})
}
