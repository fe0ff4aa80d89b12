package ui

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mertwole/bencode-cli/bencode"
	"github.com/mertwole/bencode-cli/bencode/value"
	"github.com/mertwole/bencode-cli/render"
)

var bencodedFileExtensions = []string{".torrent", ".bencode", ".benc"}

type state int

const (
	browsing state = iota
	picking
	inspecting
)

var (
	pathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#4D756F", Dark: "#A5FAEC"})
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A03030", Dark: "#F27D7D"})
	entryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2E6B38", Dark: "#66F27D"})
)

// Start browses an already decoded value.
func Start(root value.Value, name string, options bencode.Options) error {
	screen := newMainScreen(options)
	screen.frames = []frame{newFrame(name, root)}

	_, err := tea.NewProgram(screen, tea.WithAltScreen()).Run()
	return err
}

// StartWithPicker asks for a file to decode first.
func StartWithPicker(options bencode.Options) error {
	screen := newMainScreen(options)
	screen.state = picking

	_, err := tea.NewProgram(screen, tea.WithAltScreen()).Run()
	return err
}

func newMainScreen(options bencode.Options) mainScreen {
	filePicker := filepicker.New()
	filePicker.AllowedTypes = bencodedFileExtensions
	filePicker.CurrentDirectory, _ = os.UserHomeDir()
	filePicker.AutoHeight = true

	inspector := viewport.New(80, 20)

	return mainScreen{
		filePicker: &filePicker,
		inspector:  &inspector,
		keyMap:     defaultKeyMap(),
		help:       help.New(),
		options:    options,
	}
}

type mainScreen struct {
	Width  int
	Height int

	frames     []frame
	filePicker *filepicker.Model
	inspector  *viewport.Model

	keyMap keyMap
	help   help.Model

	state         state
	inspectedPath string
	options       bencode.Options
	status        string
}

type frame struct {
	path    string
	entries *list.Model
}

func newFrame(path string, container value.Value) frame {
	items := make([]list.Item, 0)

	switch container.Kind() {
	case value.List:
		elements, _ := container.AsList()
		for i, element := range elements {
			items = append(items, entryItem{key: fmt.Sprintf("[%d]", i), value: element})
		}
	case value.Dict:
		for _, key := range container.Keys() {
			entry, _ := container.Get(key)
			items = append(items, entryItem{key: strconv.Quote(key), value: entry})
		}
	default:
		items = append(items, entryItem{key: "value", value: container})
	}

	keyMap := defaultKeyMap()

	newList := list.New(items, entryItemDelegate{}, 20, 20)
	newList.SetShowTitle(false)
	newList.SetFilteringEnabled(false)
	newList.SetShowStatusBar(false)
	newList.SetShowHelp(false)

	newList.KeyMap = list.KeyMap{
		CursorUp:   keyMap.moveUp,
		CursorDown: keyMap.moveDown,
		NextPage:   keyMap.nextPage,
		PrevPage:   keyMap.previousPage,
	}

	return frame{path: path, entries: &newList}
}

func (screen mainScreen) Init() tea.Cmd {
	if screen.state == picking {
		return screen.filePicker.Init()
	}

	return nil
}

func (screen mainScreen) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		screen.Width = message.Width
		screen.Height = message.Height
	case tea.KeyMsg:
		if key.Matches(message, screen.keyMap.quit) {
			return screen, tea.Quit
		}

		switch screen.state {
		case browsing:
			switch {
			case key.Matches(message, screen.keyMap.toggleHelp):
				screen.help.ShowAll = !screen.help.ShowAll
				return screen, nil
			case key.Matches(message, screen.keyMap.open):
				return screen.openSelected(), nil
			case key.Matches(message, screen.keyMap.back):
				if len(screen.frames) > 1 {
					screen.frames = screen.frames[:len(screen.frames)-1]
				}
				return screen, nil
			case key.Matches(message, screen.keyMap.openFile):
				screen.state = picking
				return screen, screen.filePicker.Init()
			}
		case inspecting:
			if key.Matches(message, screen.keyMap.back) {
				screen.state = browsing
				return screen, nil
			}
		case picking:
			if key.Matches(message, screen.keyMap.openFile) && len(screen.frames) > 0 {
				screen.state = browsing
				return screen, nil
			}
		}
	}

	var command tea.Cmd

	switch screen.state {
	case picking:
		*screen.filePicker, command = screen.filePicker.Update(message)

		didSelect, filePath := screen.filePicker.DidSelectFile(message)
		if didSelect {
			screen = screen.load(filePath)
		}
	case inspecting:
		*screen.inspector, command = screen.inspector.Update(message)
	case browsing:
		if len(screen.frames) > 0 {
			entries := screen.frames[len(screen.frames)-1].entries
			*entries, command = entries.Update(message)
		}
	}

	return screen, command
}

func (screen mainScreen) load(filePath string) mainScreen {
	root, err := decodeFile(filePath, screen.options)
	if err != nil {
		screen.status = err.Error()
		return screen
	}

	screen.status = ""
	screen.frames = []frame{newFrame(filepath.Base(filePath), root)}
	screen.state = browsing

	return screen
}

func (screen mainScreen) openSelected() mainScreen {
	if len(screen.frames) == 0 {
		return screen
	}

	current := screen.frames[len(screen.frames)-1]
	item, ok := current.entries.SelectedItem().(entryItem)
	if !ok {
		return screen
	}

	path := current.path + " › " + item.key

	switch item.value.Kind() {
	case value.List, value.Dict:
		screen.frames = append(screen.frames[:len(screen.frames):len(screen.frames)], newFrame(path, item.value))
	default:
		screen.inspector.SetContent(inspect(item.value))
		screen.inspector.GotoTop()
		screen.inspectedPath = path
		screen.state = inspecting
	}

	return screen
}

func (screen mainScreen) View() string {
	var status string
	if screen.status != "" {
		status = statusStyle.Render(screen.status) + "\n"
	}

	switch screen.state {
	case picking:
		return status + screen.filePicker.View()
	case inspecting:
		header := pathStyle.Render(screen.inspectedPath)

		screen.inspector.Width = screen.Width
		screen.inspector.Height = max(screen.Height-lipgloss.Height(header)-1, 1)

		return header + "\n" + screen.inspector.View()
	default:
		if len(screen.frames) == 0 {
			return status
		}

		screen.help.Width = screen.Width

		header := pathStyle.Render(screen.currentPath())
		help := screen.help.View(screen.keyMap)
		reserved := lipgloss.Height(header) + lipgloss.Height(help) + lipgloss.Height(status)

		entries := screen.frames[len(screen.frames)-1].entries
		entries.SetSize(screen.Width, max(screen.Height-reserved, 1))

		return header + "\n" + entries.View() + "\n" + status + help
	}
}

func (screen mainScreen) currentPath() string {
	if len(screen.frames) == 0 {
		return ""
	}

	return screen.frames[len(screen.frames)-1].path
}

func decodeFile(filePath string, options bencode.Options) (value.Value, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return value.Value{}, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	root, err := bencode.DecodeWithOptions(data, options)
	if err != nil {
		return value.Value{}, fmt.Errorf("failed to decode file %s: %w", filePath, err)
	}

	return root, nil
}

func inspect(v value.Value) string {
	switch v.Kind() {
	case value.Int:
		integer, _ := v.AsInt()
		return strconv.FormatInt(integer, 10)
	case value.Bytes:
		data, _ := v.AsBytes()
		if utf8.Valid(data) {
			return string(data)
		}

		return hex.Dump(data)
	default:
		return render.Tree(v)
	}
}

type entryItem struct {
	key   string
	value value.Value
}

func (i entryItem) FilterValue() string { return i.key }

type entryItemDelegate struct{}

func (d entryItemDelegate) Height() int {
	return 1
}

func (d entryItemDelegate) Spacing() int {
	return 0
}

func (d entryItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d entryItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(entryItem)
	if !ok {
		return
	}

	label := item.key + ": " + render.Summary(item.value)
	label = strings.ReplaceAll(label, "\n", " ")

	if index == m.Index() {
		label = "┆ " + entryStyle.Render(label)
	} else {
		label = "  " + label
	}

	fmt.Fprint(w, label)
}
