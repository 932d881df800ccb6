package seen

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttempted(t *testing.T) {
	s := New(1000, 0.001, nil)

	assert.False(t, s.Attempted("BR1_1"))
	s.MarkAttempted("BR1_1")
	assert.True(t, s.Attempted("BR1_1"))

	s.Reset()
	assert.False(t, s.Attempted("BR1_1"))
}

func TestAttemptedConcurrent(t *testing.T) {
	s := New(DefaultCapacity, DefaultFPRate, nil)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				s.MarkAttempted(fmt.Sprintf("KR_%d_%d", g, i))
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < 4; g++ {
		for i := 0; i < 250; i++ {
			assert.True(t, s.Attempted(fmt.Sprintf("KR_%d_%d", g, i)))
		}
	}
}

func TestStoredWithoutRedis(t *testing.T) {
	s := New(100, 0.01, nil)
	ctx := context.Background()

	s.MarkStored(ctx, "BR1_1")
	assert.False(t, s.Stored(ctx, "BR1_1"))
}
