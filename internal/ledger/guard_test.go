package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGuardBlocksUntilReleased(t *testing.T) {
	g := NewGuard()
	ctx := context.Background()

	if err := g.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		if err := g.Acquire(ctx); err == nil {
			close(acquired)
			g.Release()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("Second Acquire succeeded while the guard was held")
	case <-time.After(50 * time.Millisecond):
	}

	g.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Second Acquire did not proceed after Release")
	}
}

func TestGuardHonoursCancellation(t *testing.T) {
	g := NewGuard()
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer g.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := g.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}

func TestGuardMutualExclusion(t *testing.T) {
	g := NewGuard()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			g.Release()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Errorf("Observed %d concurrent holders, want 1", maxInside)
	}
}

func TestConcurrentWritesKeepZeroSum(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := mustUser(t, l, "A")
	b := mustUser(t, l, "B")
	c := mustUser(t, l, "C")
	group := mustGroup(t, l, "G", a, b, c)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payer := []string{a, b, c}[i%3]
			_, err := l.CreateExpense(ctx, ExpenseInput{
				Amount:       d("10.01"),
				PayerID:      payer,
				Participants: []string{a, b, c},
				GroupID:      group,
			})
			if err != nil {
				t.Errorf("CreateExpense failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assertZeroSum(t, l)
	all, err := l.ListExpenses(ctx, &group)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(all) != 10 {
		t.Errorf("Got %d expenses, want 10", len(all))
	}
}
