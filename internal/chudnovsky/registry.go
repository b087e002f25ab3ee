package chudnovsky

// Note: CalculatorFactory cannot be mocked with mockgen because Register
// takes the unexported coreCalculator type. Use TestFactory instead.

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory creates and caches Calculator instances by engine name.
type CalculatorFactory interface {
	// Create returns a fresh Calculator for name.
	Create(name string) (Calculator, error)
	// Get returns the cached Calculator for name, creating it on first use.
	Get(name string) (Calculator, error)
	// List returns the registered engine names in sorted order.
	List() []string
	// Register adds or replaces an engine.
	Register(name string, creator func() coreCalculator) error
	// GetAll returns every registered engine.
	GetAll() map[string]Calculator
	// Has reports whether name is registered.
	Has(name string) bool
}

// DefaultFactory is the thread-safe CalculatorFactory used by the
// application.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreCalculator
	calculators map[string]Calculator
}

// NewDefaultFactory creates a factory with the pure Go engines registered:
//   - "split": BinarySplitting
//   - "forkjoin": ForkJoinSplitting
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreCalculator),
		calculators: make(map[string]Calculator),
	}
	_ = f.Register("split", func() coreCalculator { return &BinarySplitting{} })
	_ = f.Register("forkjoin", func() coreCalculator { return &ForkJoinSplitting{} })
	return f
}

// Register adds an engine. The creator runs lazily on first lookup. An
// existing engine with the same name is replaced and its cached instance
// dropped.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) error {
	if name == "" {
		return fmt.Errorf("engine name cannot be empty")
	}
	if creator == nil {
		return fmt.Errorf("engine %q: creator cannot be nil", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.calculators, name)
	return nil
}

// Create returns a new, uncached Calculator for name.
func (f *DefaultFactory) Create(name string) (Calculator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	return newNamedCalculator(name, creator()), nil
}

// Get returns the cached Calculator for name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	calc, ok := f.calculators[name]
	f.mu.RUnlock()
	if ok {
		return calc, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if calc, ok := f.calculators[name]; ok {
		return calc, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	calc = newNamedCalculator(name, creator())
	f.calculators[name] = calc
	return calc, nil
}

// List returns the registered names, sorted.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll instantiates every engine not yet cached and returns a copy of the
// cache.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, creator := range f.creators {
		if _, ok := f.calculators[name]; !ok {
			f.calculators[name] = newNamedCalculator(name, creator())
		}
	}
	all := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		all[name] = calc
	}
	return all
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[name]
	return ok
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory. Engines behind build tags
// register themselves into it from init functions.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterCalculator registers an engine in the global factory.
func RegisterCalculator(name string, creator func() coreCalculator) error {
	return globalFactory.Register(name, creator)
}

// UnknownCalculatorError is returned when no engine has the requested name.
type UnknownCalculatorError struct {
	Name string
}

func (e *UnknownCalculatorError) Error() string {
	return "unknown engine: " + e.Name
}
