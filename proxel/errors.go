package proxel

import "github.com/FFI-no/superflow/superflowerr"

func notFoundError(portName string) error {
	return superflowerr.Wrap(superflowerr.ErrNotFound, "", portName, "", "no such port")
}
