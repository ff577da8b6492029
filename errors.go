package collection

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var (
	// ErrConfiguration is returned by Build for an unusable builder setup.
	ErrConfiguration = errors.New("invalid collection configuration")
	// ErrUsedAfterSend means an id was registered with a batch that has already been sent.
	ErrUsedAfterSend = errors.New("multi query used after it has been sent")
)

// configurationError keeps cause reachable through errors.Is and errors.As
// next to ErrConfiguration.
func configurationError(cause error) error {
	return multierror.Append(ErrConfiguration, cause)
}
