package deserialize

import "fmt"

type ErrorKind int

const (
	InvalidByte ErrorKind = iota
	UnexpectedEndOfStream
	InvalidUtf8
	DepthExceeded
)

func (kind ErrorKind) String() string {
	switch kind {
	case InvalidByte:
		return "invalid byte"
	case UnexpectedEndOfStream:
		return "unexpected end of stream"
	case InvalidUtf8:
		return "invalid utf-8"
	case DepthExceeded:
		return "nesting depth exceeded"
	default:
		return fmt.Sprintf("unknown error kind %d", int(kind))
	}
}

// ParseError reports where decoding stopped. Position is the cursor offset at
// the moment of detection and is only set for InvalidByte and DepthExceeded.
type ParseError struct {
	Kind     ErrorKind
	Position int
}

var (
	ErrInvalidByte           = &ParseError{Kind: InvalidByte}
	ErrUnexpectedEndOfStream = &ParseError{Kind: UnexpectedEndOfStream}
	ErrInvalidUtf8           = &ParseError{Kind: InvalidUtf8}
	ErrDepthExceeded         = &ParseError{Kind: DepthExceeded}
)

func (err *ParseError) Error() string {
	switch err.Kind {
	case InvalidByte, DepthExceeded:
		return fmt.Sprintf("bencode: %s at position %d", err.Kind, err.Position)
	default:
		return fmt.Sprintf("bencode: %s", err.Kind)
	}
}

// Is matches any ParseError of the same kind, so the Err* values can be used
// with errors.Is regardless of position.
func (err *ParseError) Is(target error) bool {
	parseError, ok := target.(*ParseError)
	if !ok {
		return false
	}

	return parseError.Kind == err.Kind
}

func errInvalidByte(position int) error {
	return &ParseError{Kind: InvalidByte, Position: position}
}

func errUnexpectedEndOfStream() error {
	return &ParseError{Kind: UnexpectedEndOfStream}
}

func errInvalidUtf8() error {
	return &ParseError{Kind: InvalidUtf8}
}

func errDepthExceeded(position int) error {
	return &ParseError{Kind: DepthExceeded, Position: position}
}
