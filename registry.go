package yarrow

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOperatorNotFound is returned by Build when a configured operator name
// has no registered Descriptor, the Go analog of the original's
// "module not found" ImportError.
var ErrOperatorNotFound = errors.New("operator not found")

// ErrAbstractOperator is returned by Build when a configured operator name
// resolves to an abstract Descriptor: one missing its input schema, its
// output schema, or its Run function.
var ErrAbstractOperator = errors.New("operator is abstract")

// ErrNotCallable names the "attribute is not callable" failure the
// original distinguished from "no such attribute". No function in this
// package returns it: Build reports a nil Run as ErrAbstractOperator.
var ErrNotCallable = errors.New("operator is not callable")

var (
	registryMu sync.Mutex
	registry   = map[string]*Descriptor{}
)

// Register adds d to the package-level registry under d.Name, the
// compile-time stand-in for the original's dynamic module import. Call it
// from an operator package's init function.
//
// Register panics if another descriptor is already registered under the
// same name: a name collision between two init functions is a programming
// error, not a runtime condition to recover from.
func Register(d *Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[d.Name]; exists {
		panic(fmt.Sprintf("yarrow: operator %q already registered", d.Name))
	}
	registry[d.Name] = d
}

// Registered pairs a configured operator name with its resolved
// Descriptor. ShortName is the final path-style segment of Name, used as
// the bound queue name (e.g. "example.Sum" -> "Sum").
type Registered struct {
	Name       string
	ShortName  string
	Descriptor *Descriptor
}

// Build resolves each name in names against the registry, in order, and
// returns the corresponding Registered entries. It fails closed: the
// first unresolvable or abstract name aborts the whole build, mirroring
// the original's eager, fail-at-startup module loading.
func Build(names []string) ([]Registered, error) {
	out := make([]Registered, 0, len(names))
	for _, name := range names {
		registryMu.Lock()
		d, ok := registry[name]
		registryMu.Unlock()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrOperatorNotFound, name)
		}
		if d.Abstract() {
			return nil, fmt.Errorf("%w: %s", ErrAbstractOperator, name)
		}
		out = append(out, Registered{
			Name:       name,
			ShortName:  shortName(name),
			Descriptor: d,
		})
	}
	return out, nil
}

func shortName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
