package fs

import (
	"errors"
	iofs "io/fs"
	"sync"
)

// faults holds every *fs.PathError that [Chaos] produced. The errors
// themselves stay plain so os.IsNotExist and friends behave as for real
// failures.
var faults sync.Map // *iofs.PathError -> struct{}

// IsInjected reports whether err wraps a fault produced by [Chaos].
func IsInjected(err error) bool {
	var pathErr *iofs.PathError
	if !errors.As(err, &pathErr) {
		return false
	}

	_, ok := faults.Load(pathErr)

	return ok
}

func recordFault(err *iofs.PathError) {
	faults.Store(err, struct{}{})
}
