// Package assert holds invariant checks that terminate the current goroutine
// when the caller broke a contract.
package assert

import "fmt"

func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
