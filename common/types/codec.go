package types

import (
	"io"

	cbor "github.com/fxamacker/cbor/v2"
)

// Encode writes the CBOR encoding of value to w.
func Encode(w io.Writer, value interface{}) error {
	codec := cbor.NewEncoder(w)
	return codec.Encode(value)
}

// Decode reads a CBOR-encoded value from r.
func Decode(r io.Reader, value interface{}) error {
	codec := cbor.NewDecoder(r)
	return codec.Decode(value)
}

// Marshal returns the CBOR encoding of value.
func Marshal(value interface{}) ([]byte, error) {
	return cbor.Marshal(value)
}

// Unmarshal decodes CBOR-encoded buf into value.
func Unmarshal(buf []byte, value interface{}) error {
	return cbor.Unmarshal(buf, value)
}
