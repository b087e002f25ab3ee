package chudnovsky

import (
	"context"
	"math/big"
	"sort"
)

// MockCalculator is a Calculator returning canned values. It is exported so
// that tests of other packages can build factories without running the
// arithmetic.
type MockCalculator struct {
	// NameValue is returned by Name; "mock" when empty.
	NameValue string
	Result    *big.Float
	Err       error
	Fn        func(ctx context.Context, req Request) (*big.Float, error)
}

// Name returns the calculator name.
func (m *MockCalculator) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

// Calculate returns Result and Err, or delegates to Fn when set.
func (m *MockCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, req Request, opts Options) (*big.Float, error) {
	if m.Fn != nil {
		return m.Fn(ctx, req)
	}
	if progressChan != nil {
		select {
		case progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: 1.0}:
		default:
		}
	}
	return m.Result, m.Err
}

// TestFactory is a CalculatorFactory over a fixed set of calculators.
type TestFactory struct {
	calculators map[string]Calculator
}

// NewTestFactory creates a factory serving the given calculators.
func NewTestFactory(calculators map[string]Calculator) *TestFactory {
	if calculators == nil {
		calculators = make(map[string]Calculator)
	}
	return &TestFactory{calculators: calculators}
}

// Create returns the calculator by name.
func (f *TestFactory) Create(name string) (Calculator, error) {
	return f.Get(name)
}

// Get returns the calculator by name.
func (f *TestFactory) Get(name string) (Calculator, error) {
	calc, ok := f.calculators[name]
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	return calc, nil
}

// List returns the calculator names, sorted.
func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is one of the calculators.
func (f *TestFactory) Has(name string) bool {
	_, ok := f.calculators[name]
	return ok
}

// Register is a no-op; calculators are fixed at construction.
func (f *TestFactory) Register(string, func() coreCalculator) error {
	return nil
}

// GetAll returns a copy of the calculators.
func (f *TestFactory) GetAll() map[string]Calculator {
	all := make(map[string]Calculator, len(f.calculators))
	for k, v := range f.calculators {
		all[k] = v
	}
	return all
}
