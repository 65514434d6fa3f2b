package autodiff

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// Encode writes the tape's records (see Records) to w as a CBOR array.
// The tape itself is left untouched.
func (t *GradientTape) Encode(w io.Writer) error {
	if err := cbor.NewEncoder(w).Encode(t.Records()); err != nil {
		return errors.Wrap(err, "encode tape records")
	}
	return nil
}

// DecodeRecords reads records written by Encode.
func DecodeRecords(r io.Reader) ([]OpRecord, error) {
	var records []OpRecord
	if err := cbor.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.Wrap(err, "decode tape records")
	}
	return records, nil
}
