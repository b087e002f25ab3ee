// Package parallel provides helpers for fork-join goroutine groups.
package parallel

import (
	"fmt"
	"sync"
)

// ErrorCollector keeps the first error reported by a group of goroutines.
// It is safe for concurrent use.
//
// Usage:
//
//	var ec parallel.ErrorCollector
//	var wg sync.WaitGroup
//	for _, job := range jobs {
//	    wg.Add(1)
//	    go func() {
//	        defer wg.Done()
//	        defer ec.CapturePanic(job.Name)
//	        ec.SetError(job.Run())
//	    }()
//	}
//	wg.Wait()
//	if err := ec.Err(); err != nil {
//	    return err
//	}
type ErrorCollector struct {
	once sync.Once
	err  error
}

// SetError records err unless an error was already recorded. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err != nil {
		c.once.Do(func() {
			c.err = err
		})
	}
}

// CapturePanic must be deferred directly by the goroutine it protects. It
// recovers a panic and records it as a *PanicError labelled with label.
func (c *ErrorCollector) CapturePanic(label string) {
	if r := recover(); r != nil {
		c.SetError(&PanicError{Label: label, Value: r})
	}
}

// Err returns the first recorded error. Call it after the group has joined.
func (c *ErrorCollector) Err() error {
	return c.err
}

// Reset clears the collector. It must not race with SetError.
func (c *ErrorCollector) Reset() {
	c.once = sync.Once{}
	c.err = nil
}

// PanicError wraps a value recovered from a panicking goroutine.
type PanicError struct {
	// Label identifies the goroutine, e.g. the range it was working on.
	Label string
	// Value is the value passed to panic.
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: panic: %v", e.Label, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
