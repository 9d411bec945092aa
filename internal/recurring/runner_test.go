package recurring

import (
	"context"
	"testing"
	"time"

	"github.com/mmynk/ledgerly/internal/models"
)

func TestRunnerCatchesUpOnStart(t *testing.T) {
	f := newFixture(t)
	rp := f.create(t, DefinitionInput{
		Amount:    d("4"),
		Frequency: models.FrequencyDay,
		StartDate: date("2024-04-13"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	runner := NewRunner(f.scheduler, time.Hour)
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for len(f.expensesOf(t, rp.ID)) < 3 {
		if time.Now().After(deadline) {
			t.Fatal("Runner did not catch up within 5s")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Repeated wakes coalesce and never duplicate occurrences.
	runner.Wake()
	runner.Wake()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Runner did not stop after cancel")
	}

	if n := len(f.expensesOf(t, rp.ID)); n != 3 {
		t.Errorf("Stored %d occurrences, want 3", n)
	}
}
