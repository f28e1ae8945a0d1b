package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("chunker.chunk_size", 1000))
	require.NoError(t, store.Set("chunker.chunk_size", 800))

	val, ok := store.Get("chunker.chunk_size")
	assert.True(t, ok)
	assert.Equal(t, 800, val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("llm.model", "gemini-2.5-flash-lite")
	_ = store.Set("retrieval.top_k", int64(6))
	_ = store.Set("llm.temperature", 0.3)
	_ = store.Set("llm.rate_per_second", 2)
	_ = store.Set("retrieval.expand_queries", true)

	assert.Equal(t, "gemini-2.5-flash-lite", store.GetString("llm.model"))
	assert.Equal(t, 6, store.GetInt("retrieval.top_k"))
	assert.InDelta(t, 0.3, store.GetFloat("llm.temperature"), 1e-9)
	assert.InDelta(t, 2.0, store.GetFloat("llm.rate_per_second"), 1e-9)
	assert.True(t, store.GetBool("retrieval.expand_queries"))
}

func TestConfigStore_TypedGetters_WrongTypeReturnsZero(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("key", []string{"a"})

	assert.Empty(t, store.GetString("key"))
	assert.Zero(t, store.GetInt("key"))
	assert.Zero(t, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))

	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("key%d", i)
			_ = store.Set(key, i)
			assert.Equal(t, i, store.GetInt(key))
		}()
	}
	wg.Wait()
}
