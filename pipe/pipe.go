// Package pipe chains fallible steps into one operation that stops on the
// first error
package pipe

// OpFunc wraps an anonymous function into an operation
type OpFunc func() error

// Do runs the wrapped function
func (o OpFunc) Do() error {
	return o()
}

// OpFuncs runs a slice of functions in series, stopping on the first error
type OpFuncs []func() error

// Do implements the same contract as OpFunc
func (ops OpFuncs) Do() error {
	for _, op := range ops {
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}
