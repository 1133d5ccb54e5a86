package resolve

import "emperror.dev/errors"

const (
	errNoSRVRecords     = errors.Sentinel("no SRV records found")
	errNoSystemResolver = errors.Sentinel("no system DNS resolver available")
)
