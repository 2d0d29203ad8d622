package signal

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardikramesh/botforge/internal/core/domain"
)

func TestJournal_NewestFirst(t *testing.T) {
	j := NewJournal(10)
	j.Record(domain.Signal{Alert: "first"})
	j.Record(domain.Signal{Alert: "second"})
	j.Record(domain.Signal{Alert: "third"})

	got := j.Recent()
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].Alert)
	assert.Equal(t, "second", got[1].Alert)
	assert.Equal(t, "first", got[2].Alert)
}

func TestJournal_EvictsOldest(t *testing.T) {
	j := NewJournal(3)
	for i := 0; i < 5; i++ {
		j.Record(domain.Signal{Alert: fmt.Sprintf("alert-%d", i)})
	}

	got := j.Recent()
	require.Len(t, got, 3)
	assert.Equal(t, "alert-4", got[0].Alert)
	assert.Equal(t, "alert-2", got[2].Alert)
	assert.Equal(t, 3, j.Len())
}

func TestJournal_DefaultCapacity(t *testing.T) {
	j := NewJournal(0)
	for i := 0; i < DefaultCapacity+5; i++ {
		j.Record(domain.Signal{})
	}
	assert.Equal(t, DefaultCapacity, j.Len())
}

func TestJournal_ConcurrentRecord(t *testing.T) {
	j := NewJournal(100)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.Record(domain.Signal{Alert: "x"})
			j.Recent()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, j.Len())
}
