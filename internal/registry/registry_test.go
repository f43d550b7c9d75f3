package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfusion/docfusion/pkg/types"
)

func TestGet_ReturnsSameHandle(t *testing.T) {
	r := New()

	first, err := r.Get("docs")
	require.NoError(t, err)
	second, err := r.Get("docs")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "docs", first.Name())
}

func TestGet_InvalidName(t *testing.T) {
	r := New()

	_, err := r.Get("Not Valid")
	assert.ErrorIs(t, err, types.ErrInvalidCollectionName)
}

func TestGet_ConcurrentSingleHandle(t *testing.T) {
	r := New()
	handles := make([]*Collection, 16)

	var wg sync.WaitGroup
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := r.Get("docs")
			assert.NoError(t, err)
			handles[i] = c
		}(i)
	}
	wg.Wait()

	for _, h := range handles[1:] {
		assert.Same(t, handles[0], h)
	}
}

func TestForget(t *testing.T) {
	r := New()

	first, err := r.Get("docs")
	require.NoError(t, err)
	r.Forget("docs")
	second, err := r.Get("docs")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}
