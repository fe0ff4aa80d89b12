package bencode

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	jackpal "github.com/jackpal/bencode-go"
	zeebo "github.com/zeebo/bencode"
	"golang.org/x/sync/errgroup"

	"github.com/mertwole/bencode-cli/bencode/value"
)

func TestDecode(t *testing.T) {
	testDecode("4:spam", value.NewString("spam"), t)
	testDecode("i42e", value.NewInt(42), t)
	testDecode("i-42e", value.NewInt(-42), t)
	testDecode("l4:spam4:eggse", value.NewList(value.NewString("spam"), value.NewString("eggs")), t)
	testDecode(
		"d3:cow3:moo4:spam4:eggse",
		value.NewDict(map[string]value.Value{
			"cow":  value.NewString("moo"),
			"spam": value.NewString("eggs"),
		}),
		t,
	)
	testDecode("d1:a1:x1:a1:ye", value.NewDict(map[string]value.Value{"a": value.NewString("y")}), t)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("iae"))
	var parseError *ParseError
	if !errors.As(err, &parseError) || parseError.Kind != ErrInvalidByte.Kind || parseError.Position != 1 {
		t.Errorf("expected invalid byte at position 1, got %v", err)
	}

	_, err = Decode([]byte("10:short"))
	if !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("expected unexpected end of stream, got %v", err)
	}

	_, err = DecodeWithOptions([]byte("lllleeee"), Options{MaxDepth: 3})
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected depth exceeded, got %v", err)
	}

	wrapped := fmt.Errorf("failed to read metainfo: %w", err)
	if !errors.Is(wrapped, ErrDepthExceeded) {
		t.Errorf("wrapping must keep the parse error reachable: %v", wrapped)
	}
}

func TestDecodeTextVariant(t *testing.T) {
	pieceHash := "\xF0\x28\x8C\xBC"

	raw, err := Decode([]byte("4:" + pieceHash))
	if err != nil {
		t.Fatalf("failed to decode raw bytes: %v", err)
	}
	if data, _ := raw.AsBytes(); !bytes.Equal(data, []byte(pieceHash)) {
		t.Errorf("raw bytes don't match: got %x", data)
	}

	_, err = DecodeText([]byte("4:" + pieceHash))
	if !errors.Is(err, ErrInvalidUtf8) {
		t.Errorf("expected invalid utf-8, got %v", err)
	}

	for _, decode := range []func([]byte) (Value, error){Decode, DecodeText} {
		_, err = decode([]byte(pieceHash))
		var parseError *ParseError
		if !errors.As(err, &parseError) || parseError.Kind != ErrInvalidByte.Kind || parseError.Position != 0 {
			t.Errorf("expected invalid byte at position 0, got %v", err)
		}
	}
}

func TestDecodePrefix(t *testing.T) {
	decoded, consumed, err := DecodePrefix([]byte("d1:ai1ee<trailer>"), Options{})
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if consumed != 8 {
		t.Errorf("unexpected consumed length: expected 8, got %d", consumed)
	}

	if !decoded.Equal(value.NewDict(map[string]value.Value{"a": value.NewInt(1)})) {
		t.Errorf("unexpected value: %v", decoded)
	}

	_, consumed, err = DecodePrefix([]byte("d1:a"), Options{})
	if err == nil || consumed != 0 {
		t.Errorf("expected an error and nothing consumed, got %d, %v", consumed, err)
	}
}

func TestDecodeMatchesZeeboEncoding(t *testing.T) {
	type file struct {
		Length int64    `bencode:"length"`
		Path   []string `bencode:"path"`
	}
	type info struct {
		Name        string `bencode:"name"`
		PieceLength int64  `bencode:"piece length"`
		Pieces      []byte `bencode:"pieces"`
		Files       []file `bencode:"files"`
	}
	type metainfo struct {
		Announce string `bencode:"announce"`
		Info     info   `bencode:"info"`
	}

	source := metainfo{
		Announce: "http://tracker.example/announce",
		Info: info{
			Name:        "dir",
			PieceLength: 16384,
			Pieces:      bytes.Repeat([]byte{0x00, 0xFF, 0x9C}, 20),
			Files: []file{
				{Length: 10, Path: []string{"a", "b.txt"}},
				{Length: -3, Path: []string{"c"}},
			},
		},
	}

	encoded, err := zeebo.EncodeBytes(source)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	expected := value.NewDict(map[string]value.Value{
		"announce": value.NewString(source.Announce),
		"info": value.NewDict(map[string]value.Value{
			"name":         value.NewString("dir"),
			"piece length": value.NewInt(16384),
			"pieces":       value.NewBytes(source.Info.Pieces),
			"files": value.NewList(
				value.NewDict(map[string]value.Value{
					"length": value.NewInt(10),
					"path":   value.NewList(value.NewString("a"), value.NewString("b.txt")),
				}),
				value.NewDict(map[string]value.Value{
					"length": value.NewInt(-3),
					"path":   value.NewList(value.NewString("c")),
				}),
			),
		}),
	})

	if !decoded.Equal(expected) {
		t.Errorf("values don't match: expected %v, got %v", expected, decoded)
	}

	_, err = DecodeText(encoded)
	if !errors.Is(err, ErrInvalidUtf8) {
		t.Errorf("binary pieces must fail text decoding, got %v", err)
	}
}

func TestDecodeMatchesJackpalDecoding(t *testing.T) {
	fixtures := []any{
		int64(-7),
		"plain",
		[]any{int64(1), "two", []any{"three"}},
		map[string]any{
			"list":  []any{int64(0), "\x01\x02"},
			"dict":  map[string]any{"nested": int64(123456789012)},
			"empty": "",
		},
	}

	for _, fixture := range fixtures {
		var encoded bytes.Buffer
		err := jackpal.Marshal(&encoded, fixture)
		if err != nil {
			t.Fatalf("failed to encode %v: %v", fixture, err)
		}

		expected, err := jackpal.Decode(bytes.NewReader(encoded.Bytes()))
		if err != nil {
			t.Fatalf("failed to decode %q with the reference decoder: %v", encoded.String(), err)
		}

		decoded, err := Decode(encoded.Bytes())
		if err != nil {
			t.Fatalf("failed to decode %q: %v", encoded.String(), err)
		}

		if !reflect.DeepEqual(toNative(decoded), expected) {
			t.Errorf("values don't match: expected %v, got %v", expected, decoded)
		}
	}
}

func TestConcurrentDecode(t *testing.T) {
	inputs := make([][]byte, 0)
	for i := range 32 {
		inputs = append(inputs, []byte(fmt.Sprintf("d5:indexi%de4:name%d:%se", i, i+1, strings.Repeat("n", i+1))))
	}

	results := make([]Value, len(inputs))

	var group errgroup.Group
	for i, input := range inputs {
		group.Go(func() error {
			decoded, err := Decode(input)
			if err != nil {
				return fmt.Errorf("failed to decode input %d: %w", i, err)
			}

			results[i] = decoded
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		t.Fatal(err)
	}

	for i, result := range results {
		index, _ := result.Get("index")
		if integer, _ := index.AsInt(); integer != int64(i) {
			t.Errorf("unexpected index for input %d: %v", i, result)
		}

		name, _ := result.Get("name")
		if name.Len() != i+1 {
			t.Errorf("unexpected name for input %d: %v", i, result)
		}
	}
}

func testDecode(bencoded string, expectedValue Value, t *testing.T) {
	decoded, err := Decode([]byte(bencoded))
	if err != nil {
		t.Errorf("failed to decode: %v", err)
		return
	}

	if !decoded.Equal(expectedValue) {
		t.Errorf("values don't match: expected %v, got %v", expectedValue, decoded)
	}
}

func toNative(v Value) any {
	switch v.Kind() {
	case value.Int:
		integer, _ := v.AsInt()
		return integer
	case value.Bytes:
		str, _ := v.AsString()
		return str
	case value.List:
		list, _ := v.AsList()
		native := make([]any, 0, len(list))
		for _, element := range list {
			native = append(native, toNative(element))
		}
		return native
	case value.Dict:
		dict, _ := v.AsDict()
		native := make(map[string]any, len(dict))
		for key, entry := range dict {
			native[key] = toNative(entry)
		}
		return native
	default:
		return nil
	}
}
