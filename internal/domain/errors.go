package domain

import "errors"

// ErrorKind classifies a failed remote call for retry purposes.
type ErrorKind int

const (
	// KindTransient covers network faults and server-side errors; the
	// caller may retry a bounded number of times.
	KindTransient ErrorKind = iota
	// KindRateLimited means the platform asked us to slow down; the caller
	// should back off and retry.
	KindRateLimited
	// KindPermanent means retrying cannot help (item gone, permission
	// denied, malformed request).
	KindPermanent
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindPermanent:
		return "permanent"
	default:
		return "transient"
	}
}

// RemoteError wraps a failed remote call with its retry classification.
type RemoteError struct {
	Kind ErrorKind
	Err  error
}

func (e *RemoteError) Error() string {
	return "remote: " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *RemoteError) Unwrap() error { return e.Err }

// KindOf extracts the classification from err. Unclassified errors are
// treated as transient so they get the bounded-retry path rather than
// silently dropping an item.
func KindOf(err error) ErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindTransient
}
