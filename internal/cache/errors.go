package cache

import "emperror.dev/errors"

// errIOPersist mirrors probe.ErrIOPersist for cache/file-write failures,
// kept local so that cache does not import probe.
const errIOPersist = errors.Sentinel("io_persist")
