package observable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscribeReplaysLatest(t *testing.T) {
	v := New(1)
	v.Set(2)

	var got []int
	unsub := v.Subscribe(func(n int) { got = append(got, n) })
	require.Equal(t, []int{2}, got, "new subscriber should see the current value immediately")

	v.Set(3)
	v.Set(4)
	require.Equal(t, []int{2, 3, 4}, got)

	unsub()
	unsub()
	v.Set(5)
	require.Equal(t, []int{2, 3, 4}, got)
	require.Equal(t, 5, v.Get())
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	v := New("")
	var order []string
	v.Subscribe(func(s string) { order = append(order, "a:"+s) })
	v.Subscribe(func(s string) { order = append(order, "b:"+s) })
	order = nil

	v.Set("x")
	require.Equal(t, []string{"a:x", "b:x"}, order)
}

func TestUnsubscribeInsideCallback(t *testing.T) {
	v := New(0)
	calls := 0
	var unsub func()
	unsub = v.Subscribe(func(n int) {
		calls++
		if n == 1 {
			unsub()
		}
	})
	v.Set(1)
	v.Set(2)
	require.Equal(t, 2, calls)
}

func TestUpdate(t *testing.T) {
	v := New([]int{1})
	v.Update(func(cur []int) []int {
		next := append([]int(nil), cur...)
		return append(next, 2)
	})
	require.Equal(t, []int{1, 2}, v.Get())
}

func TestConcurrentSetsDoNotInterleave(t *testing.T) {
	v := New(0)
	var mu sync.Mutex
	inside := 0
	overlapped := false
	v.Subscribe(func(int) {
		mu.Lock()
		inside++
		if inside > 1 {
			overlapped = true
		}
		mu.Unlock()

		mu.Lock()
		inside--
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v.Set(n)
		}(i)
	}
	wg.Wait()
	require.False(t, overlapped)
}
