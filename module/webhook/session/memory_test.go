package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCreatesLazily(t *testing.T) {
	s := NewMemoryStore()

	sess := s.Get("whatsapp:+911111111111")
	assert.NotNil(t, sess)
	assert.Equal(t, 0, sess.Step)
	assert.Empty(t, sess.History)
}

func TestGetIsIdempotentBeforeMutation(t *testing.T) {
	s := NewMemoryStore()

	a := s.Get("whatsapp:+911111111111")
	b := s.Get("whatsapp:+911111111111")
	assert.Same(t, a, b)
}

func TestClearRemovesEntry(t *testing.T) {
	s := NewMemoryStore()

	sess := s.Get("whatsapp:+911111111111")
	sess.Department = "Water"
	sess.Step = 3
	s.Put("whatsapp:+911111111111", sess)

	s.Clear("whatsapp:+911111111111")

	fresh := s.Get("whatsapp:+911111111111")
	assert.Equal(t, 0, fresh.Step)
	assert.Empty(t, fresh.Department)
}

func TestConversantsAreIndependent(t *testing.T) {
	s := NewMemoryStore()

	a := s.Get("whatsapp:+911111111111")
	a.Department = "Water"
	b := s.Get("whatsapp:+922222222222")
	assert.Empty(t, b.Department)
}

func TestConcurrentAccessDoesNotCorrupt(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("whatsapp:+91%010d", i)
			sess := s.Get(id)
			sess.Step = i
			s.Put(id, sess)
			s.Get(id)
			if i%10 == 0 {
				s.Clear(id)
			}
		}(i)
	}
	wg.Wait()
}
