package main

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mertwole/bencode-cli/bencode"
	"github.com/mertwole/bencode-cli/bencode/value"
)

type checkResult struct {
	path     string
	kind     value.Kind
	size     int
	consumed int
	err      error
}

// checkFiles decodes files in parallel. Results keep the order of paths and
// a failing file does not stop the others.
func checkFiles(paths []string, options bencode.Options) []checkResult {
	results := make([]checkResult, len(paths))

	var group errgroup.Group
	group.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		group.Go(func() error {
			results[i] = checkFile(path, options)
			return nil
		})
	}

	// Failures are kept in results, so goroutines never return an error.
	_ = group.Wait()

	return results
}

func checkFile(path string, options bencode.Options) checkResult {
	result := checkResult{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.err = fmt.Errorf("failed to read file: %w", err)
		return result
	}
	result.size = len(data)

	decoded, consumed, err := bencode.DecodePrefix(data, options)
	if err != nil {
		result.err = fmt.Errorf("failed to decode: %w", err)
		return result
	}

	result.kind = decoded.Kind()
	result.consumed = consumed

	return result
}
