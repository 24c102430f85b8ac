//go:build !unix

package terminal

import "errors"

func holdStderr() (heldResource, error) {
	return nil, errors.New("stderr buffering is not supported on this platform")
}
