package collection

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/skynet2/collection/cache"
)

// newFilterKey hashes the canonical CBOR form of a filter. Map keys and struct
// fields are sorted, so two equal filters always share a key.
func newFilterKey[F any]() (FilterKeyFn[F], error) {
	codec, err := cache.NewCBOR[F](true)
	if err != nil {
		return nil, errors.Wrap(err, "can not create filter encoder")
	}

	return func(filter F) (string, error) {
		b, err := codec.Encode(filter)
		if err != nil {
			return "", errors.Wrap(err, "can not encode list filter")
		}

		sum := sha256.Sum256(b)

		return hex.EncodeToString(sum[:]), nil
	}, nil
}
