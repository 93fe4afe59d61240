package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	orig := globalConfig
	defer Configure(orig)

	t.Run("enable pooling", func(t *testing.T) {
		Configure(Config{Enabled: true, MaxSize: 500})
		require.True(t, IsEnabled())
		require.Equal(t, 500, globalConfig.MaxSize)
	})

	t.Run("disable pooling", func(t *testing.T) {
		Configure(Config{Enabled: false, MaxSize: 1000})
		require.False(t, IsEnabled())
	})
}

func TestIntSlicePool(t *testing.T) {
	Configure(Config{Enabled: true, MaxSize: 1000})

	t.Run("get returns empty slice with capacity", func(t *testing.T) {
		s := GetIntSlice()
		assert.Len(t, s, 0)
		assert.Greater(t, cap(s), 0)
		PutIntSlice(s)
	})

	t.Run("put and reuse clears length not identity", func(t *testing.T) {
		s := GetIntSlice()
		s = append(s, 1, 2, 3)
		PutIntSlice(s)

		s2 := GetIntSlice()
		assert.Len(t, s2, 0)
		PutIntSlice(s2)
	})

	t.Run("oversized slice not pooled", func(t *testing.T) {
		Configure(Config{Enabled: true, MaxSize: 4})
		defer Configure(Config{Enabled: true, MaxSize: 1000})

		s := make([]int, 0, 100)
		PutIntSlice(s) // must not panic
	})

	t.Run("disabled pooling still returns a usable slice", func(t *testing.T) {
		Configure(Config{Enabled: false, MaxSize: 1000})
		defer Configure(Config{Enabled: true, MaxSize: 1000})

		s := GetIntSlice()
		require.NotNil(t, s)
		PutIntSlice(s)
	})
}

func TestInt64SlicePool(t *testing.T) {
	Configure(Config{Enabled: true, MaxSize: 1000})

	s := GetInt64Slice()
	assert.Len(t, s, 0)
	s = append(s, 42)
	PutInt64Slice(s)

	s2 := GetInt64Slice()
	assert.Len(t, s2, 0)
	PutInt64Slice(s2)
}

func TestByteBufferPool(t *testing.T) {
	Configure(Config{Enabled: true, MaxSize: 1000})

	buf := GetByteBuffer()
	assert.Len(t, buf, 0)
	buf = append(buf, []byte("key-bytes")...)
	PutByteBuffer(buf)

	buf2 := GetByteBuffer()
	assert.Len(t, buf2, 0)
	PutByteBuffer(buf2)
}

func TestStringBuilderPool(t *testing.T) {
	Configure(Config{Enabled: true, MaxSize: 1000})

	t.Run("basic operations", func(t *testing.T) {
		b := GetStringBuilder()
		require.Equal(t, 0, b.Len())

		b.WriteString("[2020-01-01T00:00:00Z")
		b.WriteByte(',')
		b.WriteString("2020-02-01T00:00:00Z)")

		require.Equal(t, "[2020-01-01T00:00:00Z,2020-02-01T00:00:00Z)", b.String())
		PutStringBuilder(b)
	})

	t.Run("reset on reuse", func(t *testing.T) {
		b := GetStringBuilder()
		b.WriteString("scratch")
		PutStringBuilder(b)

		b2 := GetStringBuilder()
		require.Equal(t, 0, b2.Len())
		PutStringBuilder(b2)
	})

	t.Run("nil put does not panic", func(t *testing.T) {
		PutStringBuilder(nil)
	})

	t.Run("oversized buffer not pooled", func(t *testing.T) {
		b := GetStringBuilder()
		for i := 0; i < 70000; i++ {
			b.WriteByte('x')
		}
		PutStringBuilder(b) // must not panic
	})
}

func TestConcurrentPoolAccess(t *testing.T) {
	Configure(Config{Enabled: true, MaxSize: 1000})

	const goroutines = 64
	const iterations = 100

	t.Run("int slice pool concurrent", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(goroutines)
		for i := 0; i < goroutines; i++ {
			go func(id int) {
				defer wg.Done()
				for j := 0; j < iterations; j++ {
					s := GetIntSlice()
					s = append(s, id, j)
					PutIntSlice(s)
				}
			}(i)
		}
		wg.Wait()
	})

	t.Run("string builder pool concurrent", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(goroutines)
		for i := 0; i < goroutines; i++ {
			go func() {
				defer wg.Done()
				for j := 0; j < iterations; j++ {
					b := GetStringBuilder()
					b.WriteString("x")
					_ = b.String()
					PutStringBuilder(b)
				}
			}()
		}
		wg.Wait()
	})
}

func BenchmarkIntSlicePool(b *testing.B) {
	Configure(Config{Enabled: true, MaxSize: 1000})

	b.Run("pooled", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			s := GetIntSlice()
			s = append(s, 1, 2, 3)
			PutIntSlice(s)
		}
	})

	b.Run("unpooled", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			s := make([]int, 0, 32)
			s = append(s, 1, 2, 3)
			_ = s
		}
	})
}
