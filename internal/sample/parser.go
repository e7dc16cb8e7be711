// Package sample extracts decode-time samples from decoder logs.
package sample

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/zsiec/vq/internal/errors"
)

// frameTimeRe matches the decode time reported for one frame.
var frameTimeRe = regexp.MustCompile(`FrameTime:\s+([0-9]+)\s+ms`)

const maxLineSize = 1 << 20

// Parsed holds the samples read from one log, in line order.
type Parsed struct {
	Samples  []int
	Lines    int
	Rejected int // matching lines whose value was zero or overflowed
}

// Parse reads r line by line and collects one sample per line containing
// "FrameTime: <n> ms". Other lines are ignored. Values that are not
// positive integers are counted in Rejected and skipped.
func Parse(r io.Reader) (*Parsed, error) {
	p := &Parsed{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		p.Lines++
		m := frameTimeRe.FindSubmatch(scanner.Bytes())
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(string(m[1]))
		if err != nil || v <= 0 {
			p.Rejected++
			continue
		}
		p.Samples = append(p.Samples, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.WrapIOError(err, "failed to read log")
	}
	return p, nil
}

// ReadFile parses the log at path. A log without any samples yields a
// NO_DATA error.
func ReadFile(path string) (*Parsed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapIOError(err, "failed to open log")
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, err
	}
	if len(p.Samples) == 0 {
		return nil, apperrors.NewNoDataError(path)
	}
	return p, nil
}

// ExpandGlobs resolves each pattern and concatenates the matches in
// argument order. Patterns without matches contribute nothing.
func ExpandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, apperrors.NewInvalidParameterError("pattern", pattern)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// Basename strips the directory and extension from path.
func Basename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
