package deserialize

import (
	"unicode/utf8"

	"github.com/mertwole/bencode-cli/bencode/value"
)

type StringMode int

const (
	// RawStrings keeps byte string values as arbitrary bytes.
	RawStrings StringMode = iota
	// TextStrings requires every byte string value to be valid UTF-8.
	TextStrings
)

const DefaultMaxDepth = 512

type Options struct {
	Strings StringMode
	// MaxDepth bounds the number of nested lists and dictionaries. Zero
	// selects DefaultMaxDepth, a negative value disables the bound.
	MaxDepth int
}

func (options Options) maxDepth() int {
	switch {
	case options.MaxDepth == 0:
		return DefaultMaxDepth
	case options.MaxDepth < 0:
		return -1
	default:
		return options.MaxDepth
	}
}

// Span is a [Start, End) byte range of the input.
type Span struct {
	Start int
	End   int
}

type Decoder struct {
	data    []byte
	pos     int
	options Options
}

func New(data []byte, options Options) *Decoder {
	return &Decoder{data: data, options: options}
}

func Deserialize(data []byte, options Options) (value.Value, error) {
	return New(data, options).Decode()
}

// Pos returns the offset of the first byte not consumed yet.
func (decoder *Decoder) Pos() int {
	return decoder.pos
}

// Decode reads one value starting at the cursor. Bytes after the value are
// left unread, so calling Decode again continues with the next value.
func (decoder *Decoder) Decode() (value.Value, error) {
	return decoder.deserialize(0)
}

// DecodeDictSpans reads a dictionary and additionally reports where the
// encoding of every entry value lies in the input.
func (decoder *Decoder) DecodeDictSpans() (value.Value, map[string]Span, error) {
	firstChar, err := decoder.peek()
	if err != nil {
		return value.Value{}, nil, err
	}

	if firstChar != 'd' {
		return value.Value{}, nil, errInvalidByte(decoder.pos)
	}

	spans := make(map[string]Span)
	dict, err := decoder.deserializeDictionary(0, spans)
	if err != nil {
		return value.Value{}, nil, err
	}

	return dict, spans, nil
}

func (decoder *Decoder) deserialize(depth int) (value.Value, error) {
	firstChar, err := decoder.peek()
	if err != nil {
		return value.Value{}, err
	}

	switch firstChar {
	case 'd':
		return decoder.deserializeDictionary(depth, nil)
	case 'l':
		return decoder.deserializeList(depth)
	case 'i':
		return decoder.deserializeInt()
	default:
		if isDigit(firstChar) {
			return decoder.deserializeString()
		}

		return value.Value{}, errInvalidByte(decoder.pos)
	}
}

func (decoder *Decoder) deserializeInt() (value.Value, error) {
	decoder.pos++

	nextChar, err := decoder.peek()
	if err != nil {
		return value.Value{}, err
	}

	negative := nextChar == '-'
	if negative {
		decoder.pos++
	}

	// An empty digit run is accepted and yields zero. Overflow wraps.
	var integer int64
	for {
		nextChar, err := decoder.peek()
		if err != nil {
			return value.Value{}, err
		}

		if nextChar == 'e' {
			break
		}

		if !isDigit(nextChar) {
			return value.Value{}, errInvalidByte(decoder.pos)
		}

		integer = integer*10 + int64(nextChar-'0')
		decoder.pos++
	}
	decoder.pos++

	if negative {
		integer = -integer
	}

	return value.NewInt(integer), nil
}

func (decoder *Decoder) deserializeString() (value.Value, error) {
	raw, err := decoder.readString(decoder.options.Strings == TextStrings)
	if err != nil {
		return value.Value{}, err
	}

	return value.NewBytes(raw), nil
}

func (decoder *Decoder) deserializeList(depth int) (value.Value, error) {
	err := decoder.enter(depth)
	if err != nil {
		return value.Value{}, err
	}
	decoder.pos++

	list := make([]value.Value, 0)
	for {
		nextChar, err := decoder.peek()
		if err != nil {
			return value.Value{}, err
		}

		if nextChar == 'e' {
			break
		}

		element, err := decoder.deserialize(depth + 1)
		if err != nil {
			return value.Value{}, err
		}

		list = append(list, element)
	}
	decoder.pos++

	return value.NewList(list...), nil
}

func (decoder *Decoder) deserializeDictionary(depth int, spans map[string]Span) (value.Value, error) {
	err := decoder.enter(depth)
	if err != nil {
		return value.Value{}, err
	}
	decoder.pos++

	dict := make(map[string]value.Value)
	for {
		nextChar, err := decoder.peek()
		if err != nil {
			return value.Value{}, err
		}

		if nextChar == 'e' {
			break
		}

		rawKey, err := decoder.readString(true)
		if err != nil {
			return value.Value{}, err
		}
		key := string(rawKey)

		start := decoder.pos
		entry, err := decoder.deserialize(depth + 1)
		if err != nil {
			return value.Value{}, err
		}

		// Duplicate keys are not reported, the last one wins.
		dict[key] = entry
		if spans != nil {
			spans[key] = Span{Start: start, End: decoder.pos}
		}
	}
	decoder.pos++

	return value.NewDict(dict), nil
}

// readString returns a slice of the input, the caller is responsible for
// copying it.
func (decoder *Decoder) readString(validateUtf8 bool) ([]byte, error) {
	var length uint64
	for {
		nextChar, err := decoder.peek()
		if err != nil {
			return nil, err
		}

		if nextChar == ':' {
			break
		}

		if !isDigit(nextChar) {
			return nil, errInvalidByte(decoder.pos)
		}

		// Saturates once the length can no longer fit the input.
		if length <= uint64(len(decoder.data)) {
			length = length*10 + uint64(nextChar-'0')
		}
		decoder.pos++
	}
	decoder.pos++

	if length > uint64(len(decoder.data)-decoder.pos) {
		return nil, errUnexpectedEndOfStream()
	}

	raw := decoder.data[decoder.pos : decoder.pos+int(length)]
	decoder.pos += int(length)

	if validateUtf8 && !utf8.Valid(raw) {
		return nil, errInvalidUtf8()
	}

	return raw, nil
}

func (decoder *Decoder) enter(depth int) error {
	maxDepth := decoder.options.maxDepth()
	if maxDepth >= 0 && depth >= maxDepth {
		return errDepthExceeded(decoder.pos)
	}

	return nil
}

func (decoder *Decoder) peek() (byte, error) {
	if decoder.pos >= len(decoder.data) {
		return 0, errUnexpectedEndOfStream()
	}

	return decoder.data[decoder.pos], nil
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}
