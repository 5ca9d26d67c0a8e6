package file

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"schemagen/internal/datasource"
)

// maxLineBytes bounds a single declaration line.
const maxLineBytes = 1 << 20

// ReadLines reads src as text and returns its lines without terminators.
//
// A UTF-8 or UTF-16 byte order mark selects the decoding and is dropped;
// without one the text is taken as UTF-8. Lines are NFC-normalized so that
// comments written with decomposed characters compare equal to composed
// ones. A trailing "\r" is removed from every line.
func ReadLines(ctx context.Context, src datasource.Source) ([]string, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	sc := bufio.NewScanner(transform.NewReader(rc, dec))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []string
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		out = append(out, norm.NFC.String(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
