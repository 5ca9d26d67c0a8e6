package file

import (
	"context"
	"strings"

	"schemagen/internal/datasource"
)

// ReadList reads a list of type names, one per line, from src and returns
// the non-empty, non-comment lines in order.
//
// Lines that are empty or start with '#' after trimming are skipped, so list
// files can carry comments and blank separators. On I/O error, a non-nil
// error is returned.
func ReadList(ctx context.Context, src datasource.Source) ([]string, error) {
	lines, err := ReadLines(ctx, src)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}
