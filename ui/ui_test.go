package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mertwole/bencode-cli/bencode"
	"github.com/mertwole/bencode-cli/bencode/value"
)

func TestNavigation(t *testing.T) {
	root := value.NewDict(map[string]value.Value{
		"list": value.NewList(value.NewInt(1), value.NewInt(2)),
		"name": value.NewBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF}),
	})

	screen := newMainScreen(bencode.Options{})
	screen.frames = []frame{newFrame("root", root)}

	screen = send(screen, tea.WindowSizeMsg{Width: 80, Height: 24})

	screen = send(screen, tea.KeyMsg{Type: tea.KeyEnter})
	if len(screen.frames) != 2 {
		t.Fatalf("expected to open the list, got %d frames", len(screen.frames))
	}
	if screen.currentPath() != `root › "list"` {
		t.Errorf("unexpected path: %s", screen.currentPath())
	}
	if screen.frames[1].entries.Items()[1].(entryItem).key != "[1]" {
		t.Errorf("unexpected list entries: %v", screen.frames[1].entries.Items())
	}

	screen = send(screen, tea.KeyMsg{Type: tea.KeyBackspace})
	if len(screen.frames) != 1 {
		t.Fatalf("expected to go back, got %d frames", len(screen.frames))
	}

	screen = send(screen, tea.KeyMsg{Type: tea.KeyBackspace})
	if len(screen.frames) != 1 {
		t.Fatalf("root frame must stay, got %d frames", len(screen.frames))
	}

	screen = send(screen, tea.KeyMsg{Type: tea.KeyDown})
	screen = send(screen, tea.KeyMsg{Type: tea.KeyEnter})
	if screen.state != inspecting {
		t.Fatalf("expected to inspect the byte string, got state %d", screen.state)
	}
	if !strings.Contains(screen.View(), "de ad be ef") {
		t.Errorf("expected a hex dump, got:\n%s", screen.View())
	}

	screen = send(screen, tea.KeyMsg{Type: tea.KeyEsc})
	if screen.state != browsing {
		t.Errorf("expected to return to browsing, got state %d", screen.state)
	}

	_, command := screen.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if command == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := command().(tea.QuitMsg); !ok {
		t.Errorf("expected quit message")
	}
}

func TestScalarRoot(t *testing.T) {
	screen := newMainScreen(bencode.Options{})
	screen.frames = []frame{newFrame("root", value.NewInt(42))}

	screen = send(screen, tea.WindowSizeMsg{Width: 80, Height: 24})
	screen = send(screen, tea.KeyMsg{Type: tea.KeyEnter})
	if screen.state != inspecting {
		t.Fatalf("expected to inspect the root, got state %d", screen.state)
	}

	if !strings.Contains(screen.View(), "42") {
		t.Errorf("expected the integer to be shown, got:\n%s", screen.View())
	}
}

func TestLoad(t *testing.T) {
	directory := t.TempDir()

	validPath := filepath.Join(directory, "valid.torrent")
	err := os.WriteFile(validPath, []byte("d4:spaml1:a1:bee"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	invalidPath := filepath.Join(directory, "invalid.torrent")
	err = os.WriteFile(invalidPath, []byte("d4:spaml1:a"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	screen := newMainScreen(bencode.Options{})
	screen.state = picking

	screen = screen.load(invalidPath)
	if screen.state != picking || !strings.Contains(screen.status, "unexpected end of stream") {
		t.Errorf("expected an error status, got state %d and status %q", screen.state, screen.status)
	}

	screen = screen.load(validPath)
	if screen.state != browsing || screen.status != "" || len(screen.frames) != 1 {
		t.Fatalf("expected a loaded file, got state %d and status %q", screen.state, screen.status)
	}
	if screen.currentPath() != "valid.torrent" {
		t.Errorf("unexpected path: %s", screen.currentPath())
	}
}

func send(screen mainScreen, message tea.Msg) mainScreen {
	model, _ := screen.Update(message)
	return model.(mainScreen)
}
