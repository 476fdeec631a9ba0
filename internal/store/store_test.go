package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribe(t *testing.T) {
	f := newFixture(t)

	var mu sync.Mutex
	var seen []string
	unsubscribe := f.store.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st.Post.SearchQuery)
	})

	f.store.SetSearchQuery("a")
	f.store.SetSearchQuery("b")
	unsubscribe()
	f.store.SetSearchQuery("c")

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, "c", f.store.State().Post.SearchQuery)
}

func TestActionTypes(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{LoginPending{}, "auth/login/pending"},
		{ProfilePending{Op: OpUpdateProfile}, "profile/update/pending"},
		{PostPending{Op: OpFetchPosts}, "post/fetchPosts/pending"},
		{PostRejected{Op: OpToggleLike}, "post/toggleLike/rejected"},
		{CurrentPostReset{}, "post/resetCurrentPost"},
	}
	for _, tt := range tests {
		if got := tt.action.Type(); got != tt.want {
			t.Errorf("Expected %s, got %s", tt.want, got)
		}
	}
}

func TestConcurrentDispatch(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.store.Dispatch(PostPending{Op: OpFetchPosts})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, f.store.State().Post.InFlight)
}

func TestConcurrentDispatch_ListenersSeeReductionOrder(t *testing.T) {
	f := newFixture(t)

	var mu sync.Mutex
	var seen []int
	f.store.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st.Post.InFlight)
	})

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.store.Dispatch(PostPending{Op: OpFetchPosts})
		}()
	}
	wg.Wait()

	// every pending bumps InFlight by one, so delivery order must be 1..n
	if len(seen) != n {
		t.Fatalf("Expected %d notifications, got %d", n, len(seen))
	}
	for i, inFlight := range seen {
		if inFlight != i+1 {
			t.Fatalf("Expected snapshot %d to have InFlight %d, got %d", i, i+1, inFlight)
		}
	}
	assert.Equal(t, n, f.store.State().Post.InFlight)
}
