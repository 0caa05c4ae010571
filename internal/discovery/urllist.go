package discovery

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ReadURLList reads one URL per line, skipping blank lines and lines
// starting with "#".
func ReadURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}

// StaticSearcher answers every query with the same URLs, e.g. a list
// exported from a search tool.
func StaticSearcher(urls []string) Searcher {
	return SearcherFunc(func(_ context.Context, _ string, limit int) ([]string, error) {
		return urls[:min(len(urls), limit*3)], nil
	})
}
