package rcu

import (
	"sync"
	"testing"
)

func cloneInts(old []int) (fresh []int) {
	fresh = make([]int, len(old))
	copy(fresh, old)
	return
}

func TestCell_ReadReturnsInitial(t *testing.T) {
	initial := []int{1, 2, 3}
	cell := NewCell(&initial, cloneInts)

	got := cell.Read()
	if got != &initial {
		t.Fatalf("expected initial snapshot pointer back")
	}
}

func TestCell_CopyUpdatePublishesNewSnapshot(t *testing.T) {
	initial := []int{1}
	cell := NewCell(&initial, cloneInts)

	before := cell.Read()
	cell.CopyUpdate(func(data *[]int) {
		*data = append(*data, 2)
	})
	after := cell.Read()

	if before == after {
		t.Fatalf("expected a fresh snapshot after copy-update")
	}
	if len(*before) != 1 {
		t.Fatalf("old snapshot mutated, length %d", len(*before))
	}
	if len(*after) != 2 || (*after)[1] != 2 {
		t.Fatalf("new snapshot wrong: %v", *after)
	}
}

func TestCell_ResetReplacesWholeSnapshot(t *testing.T) {
	initial := []int{9, 9}
	cell := NewCell(&initial, cloneInts)

	empty := []int{}
	cell.Reset(&empty)

	if got := cell.Read(); len(*got) != 0 {
		t.Fatalf("expected empty snapshot, got %v", *got)
	}
}

// Concurrent writers increment the single element; readers must observe a
// monotonically non-decreasing value and never a torn snapshot.
func TestCell_ConcurrentCopyUpdateMonotonic(t *testing.T) {
	const writers = 4
	const increments = 500
	const readers = 4

	initial := []int{0}
	cell := NewCell(&initial, cloneInts)

	stop := make(chan struct{})
	var readerWg sync.WaitGroup
	for r := 0; r < readers; r++ {
		readerWg.Add(1)
		go func() {
			defer readerWg.Done()
			previous := 0
			for {
				select {
				case <-stop:
					return
				default:
				}

				snapshot := *cell.Read()
				if len(snapshot) != 1 {
					t.Errorf("torn snapshot, length %d", len(snapshot))
					return
				}
				if snapshot[0] < previous {
					t.Errorf("observed value went backwards: %d after %d", snapshot[0], previous)
					return
				}
				previous = snapshot[0]
			}
		}()
	}

	var writerWg sync.WaitGroup
	for w := 0; w < writers; w++ {
		writerWg.Add(1)
		go func() {
			defer writerWg.Done()
			for i := 0; i < increments; i++ {
				cell.CopyUpdate(func(data *[]int) {
					(*data)[0]++
				})
			}
		}()
	}

	writerWg.Wait()
	close(stop)
	readerWg.Wait()

	final := *cell.Read()
	if final[0] != writers*increments {
		t.Fatalf("lost updates: want %d, got %d", writers*increments, final[0])
	}
}
