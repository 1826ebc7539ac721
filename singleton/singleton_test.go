package singleton

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const numOfRefs = 3

var styles = []struct {
	name string
	get  func() TickCounter
}{
	{"once", func() TickCounter { return Counter() }},
	{"lazy", Ticker},
}

func TestReferencesShareOneInstance(t *testing.T) {
	for _, style := range styles {
		t.Run(style.name, func(t *testing.T) {
			refs := make([]TickCounter, numOfRefs)
			for i := range refs {
				refs[i] = style.get()
			}
			for i, ref := range refs {
				assert.Same(t, ref, refs[(i+1)%len(refs)])
			}

			before := refs[0].Ticks()
			for _, ref := range refs {
				ref.Tick()
			}
			for _, ref := range refs {
				assert.Equal(t, before+numOfRefs, ref.Ticks())
			}
		})
	}
}

func TestStylesAreIndependent(t *testing.T) {
	assert.NotSame(t, Counter(), Ticker())
}

func TestConcurrentFirstUse(t *testing.T) {
	calls := 0
	get := Lazy(func() *int {
		calls++
		n := 42
		return &n
	})

	var wg sync.WaitGroup
	got := make(chan *int, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got <- get()
		}()
	}
	wg.Wait()
	close(got)

	first := <-got
	require.NotNil(t, first)
	for p := range got {
		assert.Same(t, first, p)
	}
	assert.Equal(t, 1, calls)
}

func TestConcurrentTicks(t *testing.T) {
	c := Counter()
	before := c.Ticks()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Counter().Tick()
		}()
	}
	wg.Wait()

	assert.Equal(t, before+100, c.Ticks())
}
