// Package prompt asks the operator which agent tools the new project targets.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SelectTools presents items as a numbered list and reads a selection of
// numbers separated by commas or spaces. An empty answer, or "all", keeps
// every item. The result preserves the order of items and has no duplicates.
func SelectTools(r io.Reader, w io.Writer, items []string) ([]string, error) {
	if len(items) == 0 {
		return nil, errors.New("no tools to choose from")
	}

	fmt.Fprintf(w, "\nSelect agent tools:\n")
	for i, item := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(w, "Enter numbers [1-%d], blank for all: ", len(items))

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading selection: %w", err)
	}

	idx, err := parseSelection(line, len(items))
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return append([]string(nil), items...), nil
	}

	var out []string
	for i, item := range items {
		if idx[i] {
			out = append(out, item)
		}
	}
	return out, nil
}

// parseSelection returns the chosen zero-based indexes, or nil for "all".
func parseSelection(line string, n int) (map[int]bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.EqualFold(line, "all") {
		return nil, nil
	}

	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	chosen := make(map[int]bool, len(fields))
	for _, f := range fields {
		num, err := strconv.Atoi(f)
		if err != nil || num < 1 || num > n {
			return nil, fmt.Errorf("invalid selection %q: choose 1-%d", f, n)
		}
		chosen[num-1] = true
	}
	return chosen, nil
}
