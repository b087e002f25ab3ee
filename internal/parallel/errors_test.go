package parallel

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestErrorCollector_KeepsFirstError(t *testing.T) {
	t.Parallel()
	var ec ErrorCollector
	first := errors.New("first")

	ec.SetError(nil)
	if ec.Err() != nil {
		t.Fatalf("nil must not be recorded, got %v", ec.Err())
	}
	ec.SetError(first)
	ec.SetError(errors.New("second"))
	if ec.Err() != first {
		t.Errorf("Err() = %v; want %v", ec.Err(), first)
	}
}

func TestErrorCollector_Concurrency(t *testing.T) {
	t.Parallel()
	var ec ErrorCollector
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ec.SetError(errors.New("worker failed"))
		}()
	}
	close(start)
	wg.Wait()

	if ec.Err() == nil || ec.Err().Error() != "worker failed" {
		t.Errorf("Err() = %v; want 'worker failed'", ec.Err())
	}
}

func TestErrorCollector_CapturePanic(t *testing.T) {
	t.Parallel()

	t.Run("string panic", func(t *testing.T) {
		t.Parallel()
		var ec ErrorCollector
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer ec.CapturePanic("worker [0, 10)")
			panic("boom")
		}()
		wg.Wait()

		var pe *PanicError
		if !errors.As(ec.Err(), &pe) {
			t.Fatalf("expected *PanicError, got %T", ec.Err())
		}
		if pe.Label != "worker [0, 10)" || pe.Value != "boom" {
			t.Errorf("unexpected panic error %+v", pe)
		}
		if !strings.Contains(pe.Error(), "boom") {
			t.Errorf("Error() = %q; want it to mention the panic value", pe.Error())
		}
	})

	t.Run("error panic unwraps", func(t *testing.T) {
		t.Parallel()
		sentinel := errors.New("out of range")
		var ec ErrorCollector
		func() {
			defer ec.CapturePanic("worker")
			panic(sentinel)
		}()
		if !errors.Is(ec.Err(), sentinel) {
			t.Errorf("errors.Is(%v, sentinel) = false", ec.Err())
		}
	})

	t.Run("no panic", func(t *testing.T) {
		t.Parallel()
		var ec ErrorCollector
		func() {
			defer ec.CapturePanic("worker")
		}()
		if ec.Err() != nil {
			t.Errorf("Err() = %v; want nil", ec.Err())
		}
	})
}

func TestErrorCollector_Reset(t *testing.T) {
	t.Parallel()
	var ec ErrorCollector
	ec.SetError(errors.New("stale"))
	ec.Reset()
	if ec.Err() != nil {
		t.Fatalf("Err() after Reset = %v; want nil", ec.Err())
	}
	fresh := errors.New("fresh")
	ec.SetError(fresh)
	if ec.Err() != fresh {
		t.Errorf("Err() = %v; want %v", ec.Err(), fresh)
	}
}
