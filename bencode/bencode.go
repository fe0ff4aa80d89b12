package bencode

import (
	"github.com/mertwole/bencode-cli/bencode/deserialize"
	"github.com/mertwole/bencode-cli/bencode/value"
)

type Value = value.Value
type ParseError = deserialize.ParseError
type Options = deserialize.Options

const (
	RawStrings      = deserialize.RawStrings
	TextStrings     = deserialize.TextStrings
	DefaultMaxDepth = deserialize.DefaultMaxDepth
)

var (
	ErrInvalidByte           = deserialize.ErrInvalidByte
	ErrUnexpectedEndOfStream = deserialize.ErrUnexpectedEndOfStream
	ErrInvalidUtf8           = deserialize.ErrInvalidUtf8
	ErrDepthExceeded         = deserialize.ErrDepthExceeded
)

// Decode keeps byte string values as raw bytes. Dictionary keys are still
// required to be valid UTF-8.
func Decode(data []byte) (Value, error) {
	return deserialize.Deserialize(data, deserialize.Options{Strings: deserialize.RawStrings})
}

// DecodeText fails with ErrInvalidUtf8 on any byte string that is not valid
// UTF-8.
func DecodeText(data []byte) (Value, error) {
	return deserialize.Deserialize(data, deserialize.Options{Strings: deserialize.TextStrings})
}

func DecodeWithOptions(data []byte, options Options) (Value, error) {
	return deserialize.Deserialize(data, options)
}

// DecodePrefix also returns how many bytes the value occupied.
func DecodePrefix(data []byte, options Options) (Value, int, error) {
	decoder := deserialize.New(data, options)

	decoded, err := decoder.Decode()
	if err != nil {
		return Value{}, 0, err
	}

	return decoded, decoder.Pos(), nil
}
