package tnlport

import "errors"

var (
	// ErrDuplicateMatch is returned by Add and by the fresh-add branch
	// of Reconfigure when another port already registered the same
	// match tuple.
	ErrDuplicateMatch = errors.New("tnlport: match tuple already registered to another port")

	// ErrUnknownPort is returned by BuildHeader when asked to operate
	// on an ofport the registry has no record of. (Send reports the same
	// condition by returning ok=false.)
	ErrUnknownPort = errors.New("tnlport: unknown ofport")
)
