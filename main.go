package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mertwole/bencode-cli/bencode"
	"github.com/mertwole/bencode-cli/render"
	"github.com/mertwole/bencode-cli/torrent_info"
	"github.com/mertwole/bencode-cli/ui"
)

var fileName = flag.String("file", "", "Path to the bencoded file, a file picker is shown if empty in interactive mode")
var textStrings = flag.Bool("text", false, "Require every byte string to be valid UTF-8")
var outputFormat = flag.String("format", "tree", "Output format in non-interactive mode: tree, json or torrent")
var maxDepth = flag.Int("max-depth", 0, "Maximum nesting of lists and dictionaries, 0 for the default and -1 for no limit")
var interactiveMode = flag.Bool("interactive", true, "Whether the decoded value should be browsed interactively")
var checkMode = flag.Bool("check", false, "Decode every file given as an argument and report the results")
var logFileName = flag.String("log", "log", "Path to the log file used in interactive mode")

func main() {
	flag.Parse()

	options := bencode.Options{MaxDepth: *maxDepth}
	if *textStrings {
		options.Strings = bencode.TextStrings
	}

	if *checkMode {
		failed := false
		for _, result := range checkFiles(flag.Args(), options) {
			if result.err != nil {
				failed = true
				fmt.Printf("%s: %v\n", result.path, result.err)
			} else {
				fmt.Printf("%s: ok (%s, %d bytes consumed of %d)\n", result.path, result.kind, result.consumed, result.size)
			}
		}

		if failed {
			os.Exit(1)
		}

		return
	}

	if *interactiveMode {
		logFile, err := os.OpenFile(*logFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer logFile.Close()

		log.SetOutput(logFile)
	}

	if *interactiveMode && *fileName == "" {
		err := ui.StartWithPicker(options)
		if err != nil {
			log.Fatalf("failed to run UI: %v", err)
		}

		return
	}

	data, err := os.ReadFile(*fileName)
	if err != nil {
		log.Fatalf("failed to read file: %v", err)
	}

	if *outputFormat == "torrent" && !*interactiveMode {
		torrentInfo, err := torrent_info.DecodeBytes(data)
		if err != nil {
			log.Fatalf("failed to read torrent file: %v", err)
		}

		fmt.Print(render.Torrent(torrentInfo))
		return
	}

	decoded, consumed, err := bencode.DecodePrefix(data, options)
	if err != nil {
		log.Fatalf("failed to decode %s: %v", *fileName, err)
	}

	if consumed < len(data) {
		log.Printf("ignoring %d trailing bytes after the decoded value", len(data)-consumed)
	}

	if *interactiveMode {
		err = ui.Start(decoded, *fileName, options)
		if err != nil {
			log.Fatalf("failed to run UI: %v", err)
		}

		return
	}

	switch *outputFormat {
	case "tree":
		fmt.Println(render.Tree(decoded))
	case "json":
		encoded, err := render.JSON(decoded)
		if err != nil {
			log.Fatalf("failed to render %s: %v", *fileName, err)
		}

		fmt.Println(string(encoded))
	default:
		log.Fatalf("unknown output format: %s", *outputFormat)
	}
}
