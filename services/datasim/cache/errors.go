package cache

import "errors"

// ErrInjectedFailure signals a simulated transient failure produced by the fault overlay
var ErrInjectedFailure = errors.New("injected transient failure")

var errNoSnapshot = errors.New("no snapshot was published yet")
var errNilInnerReader = errors.New("nil inner snapshot reader")
