package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	kmeans "github.com/yyyoichi/kmeans2d"
)

// parseSeeds reads point indices separated by commas or white space.
// An empty string yields nil, which selects random seeding.
func parseSeeds(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, nil
	}
	idx := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: seed index %q: %w", kmeans.ErrConfig, f, err)
		}
		idx[i] = v
	}
	return idx, nil
}

// newPrompt asks for the seed indices on one line of r. An empty answer or
// end of input selects random seeding.
func newPrompt(r io.Reader, w io.Writer) kmeans.SeedProvider {
	sc := bufio.NewScanner(r)
	return kmeans.SeedProviderFunc(func(n, k int) ([]int, error) {
		fmt.Fprintf(w, "Enter %d distinct point indices in [0, %d), empty for random: ", k, n)
		if !sc.Scan() {
			fmt.Fprintln(w)
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("read seed indices: %w", err)
			}
			return nil, nil
		}
		return parseSeeds(sc.Text())
	})
}
