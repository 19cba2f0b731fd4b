package display

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrUnsupportedType is matched by every *UnsupportedTypeError.
	ErrUnsupportedType = errors.New("display type not supported")
	// ErrNilShutdown is returned when no shutdown callback is given.
	ErrNilShutdown = errors.New("nil shutdown callback")
)

// UnsupportedTypeError reports a Type with no backend behind it.
type UnsupportedTypeError struct {
	Type Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("requested display type is not supported; currently supported display types: %s; but requested display: %d",
		supportTable(), int(e.Type))
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// Option configures backend construction in New and MustNew.
type Option func(*options)

type options struct {
	remote RemoteConfig
}

// WithRemoteConfig sets the configuration used when TypeRemote is selected.
func WithRemoteConfig(cfg RemoteConfig) Option {
	return func(o *options) {
		o.remote = cfg
	}
}

// New constructs a fresh display of type t wired to onShutdown. Every call
// returns a new instance; nothing is cached between calls.
func New(t Type, onShutdown ShutdownCallback, opts ...Option) (Display, error) {
	if onShutdown == nil {
		return nil, ErrNilShutdown
	}
	o := options{remote: DefaultRemoteConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	switch t {
	case TypeOpenCV:
		return NewViz3D(onShutdown), nil
	case TypeRemote:
		return NewRemote(o.remote, onShutdown), nil
	default:
		return nil, &UnsupportedTypeError{Type: t}
	}
}

// MustNew is New for callers that treat a bad display type as a
// configuration defect: it logs the support table and exits the process
// instead of returning an error.
func MustNew(t Type, onShutdown ShutdownCallback, opts ...Option) Display {
	d, err := New(t, onShutdown, opts...)
	if err != nil {
		log.Fatalf("display: %v", err)
	}
	return d
}
