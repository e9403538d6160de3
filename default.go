package dunbrack

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrNotLoaded is the panic value of a query made before a library
	// was installed.
	ErrNotLoaded = errors.New("dunbrack: library not loaded")
	// ErrAlreadyLoaded is returned when a library was already installed.
	ErrAlreadyLoaded = errors.New("dunbrack: library already loaded")
)

var (
	installOnce sync.Once
	installed   atomic.Pointer[Library]
)

// Use installs lib as the process-wide library. Only the first call
// succeeds.
func Use(lib *Library) error {
	if lib == nil {
		return errors.New("dunbrack: nil library")
	}
	ok := false
	installOnce.Do(func() {
		installed.Store(lib)
		ok = true
	})
	if !ok {
		return ErrAlreadyLoaded
	}
	return nil
}

// Load opens path and installs it with Use. A file that fails to load
// leaves nothing installed, so Load may be retried.
func Load(path string, opts Options) error {
	if installed.Load() != nil {
		return ErrAlreadyLoaded
	}
	lib, err := Open(path, opts)
	if err != nil {
		return err
	}
	return Use(lib)
}

// Default returns the process-wide library, or nil before Use.
func Default() *Library {
	return installed.Load()
}

// Query returns every rotamer of k at (phi, psi) from the process-wide
// library. It panics with ErrNotLoaded if none is installed.
func Query(k Kind, phi, psi float64) Rotamers {
	lib := installed.Load()
	if lib == nil {
		panic(ErrNotLoaded)
	}
	return lib.Rotamers(k, phi, psi)
}

// Rotamers is Query for k.
func (k Kind) Rotamers(phi, psi float64) Rotamers {
	return Query(k, phi, psi)
}
