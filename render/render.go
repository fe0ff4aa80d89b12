package render

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/dustin/go-humanize"

	"github.com/mertwole/bencode-cli/bencode/value"
	"github.com/mertwole/bencode-cli/torrent_info"
)

const maxPreviewLength = 48

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4D756F", Dark: "#A5FAEC"})
	intStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2E6B38", Dark: "#66F27D"})
	bytesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8A5A00", Dark: "#F2C166"})
	containerStyle = lipgloss.NewStyle().Faint(true)
)

// Tree renders a value as an indented tree, dictionary keys sorted.
func Tree(v value.Value) string {
	return node(Summary(v), v).String()
}

func node(label string, v value.Value) *tree.Tree {
	root := tree.Root(label).Enumerator(tree.RoundedEnumerator)

	switch v.Kind() {
	case value.List:
		list, _ := v.AsList()
		for i, element := range list {
			root.Child(child(keyStyle.Render(fmt.Sprintf("[%d]", i)), element))
		}
	case value.Dict:
		for _, key := range v.Keys() {
			entry, _ := v.Get(key)
			root.Child(child(keyStyle.Render(strconv.Quote(key)), entry))
		}
	}

	return root
}

func child(key string, v value.Value) any {
	label := key + ": " + Summary(v)
	if v.Kind() == value.List || v.Kind() == value.Dict {
		return node(label, v)
	}

	return label
}

// Summary renders a single line describing the value. Containers are only
// described by their size.
func Summary(v value.Value) string {
	switch v.Kind() {
	case value.Int:
		integer, _ := v.AsInt()
		return intStyle.Render(strconv.FormatInt(integer, 10))
	case value.Bytes:
		data, _ := v.AsBytes()
		return bytesStyle.Render(Preview(data))
	case value.List:
		return containerStyle.Render(fmt.Sprintf("list (%d elements)", v.Len()))
	case value.Dict:
		return containerStyle.Render(fmt.Sprintf("dict (%d entries)", v.Len()))
	default:
		return "invalid"
	}
}

// Preview shows text byte strings quoted and binary ones as a hex prefix
// with their size.
func Preview(data []byte) string {
	if utf8.Valid(data) {
		text := string(data)
		if utf8.RuneCountInString(text) > maxPreviewLength {
			text = string([]rune(text)[:maxPreviewLength]) + "…"
		}

		return strconv.Quote(text)
	}

	shown := data
	if len(shown) > maxPreviewLength/2 {
		shown = shown[:maxPreviewLength/2]
	}

	preview := "0x" + hex.EncodeToString(shown)
	if len(shown) < len(data) {
		preview += "…"
	}

	return fmt.Sprintf("%s (%s)", preview, humanize.Bytes(uint64(len(data))))
}

// JSON renders text byte strings as JSON strings and binary ones as
// {"hex": "..."} objects. The output is for reading only: a binary string
// renders exactly like a dictionary whose single key is "hex".
func JSON(v value.Value) ([]byte, error) {
	encoded, err := json.MarshalIndent(toJSON(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return encoded, nil
}

func toJSON(v value.Value) any {
	switch v.Kind() {
	case value.Int:
		integer, _ := v.AsInt()
		return integer
	case value.Bytes:
		data, _ := v.AsBytes()
		if utf8.Valid(data) {
			return string(data)
		}

		return map[string]string{"hex": hex.EncodeToString(data)}
	case value.List:
		list, _ := v.AsList()
		elements := make([]any, 0, len(list))
		for _, element := range list {
			elements = append(elements, toJSON(element))
		}
		return elements
	case value.Dict:
		dict, _ := v.AsDict()
		entries := make(map[string]any, len(dict))
		for key, entry := range dict {
			entries[key] = toJSON(entry)
		}
		return entries
	default:
		return nil
	}
}

func Torrent(info *torrent_info.TorrentInfo) string {
	var builder strings.Builder

	line := func(key string, format string, args ...any) {
		fmt.Fprintf(&builder, "%s %s\n", keyStyle.Render(fmt.Sprintf("%-13s", key+":")), fmt.Sprintf(format, args...))
	}

	line("name", "%s", info.Name)
	line("info hash", "%x", info.InfoHash)
	line("total length", "%s (%d bytes)", size(info.TotalLength), info.TotalLength)
	line("piece length", "%s", size(info.PieceLength))
	line("pieces", "%d", len(info.Pieces))

	for _, tracker := range info.Trackers {
		line("tracker", "%s", tracker)
	}

	for _, file := range info.Files {
		line("file", "%s (%s)", strings.Join(file.Path, "/"), size(file.Length))
	}

	return builder.String()
}

// size keeps negative lengths, which decode fine, as raw integers.
func size(length int) string {
	if length < 0 {
		return strconv.Itoa(length)
	}

	return humanize.IBytes(uint64(length))
}
