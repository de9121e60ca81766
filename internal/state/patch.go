package state

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/docker/go-connections/nat"
	"github.com/pelletier/go-toml/v2"
)

// ErrNoPort is returned by PatchPort when the file has no assignment of the
// port being replaced.
var ErrNoPort = errors.New("no port assignment found")

var (
	internalPortLine = regexp.MustCompile(`(?m)^(\s*internal_port\s*=\s*)(\d+)`)
	anyPortValue     = regexp.MustCompile(`=\s*(\d+)`)
)

// PatchPort rewrites the first port assignment equal to from so that it reads
// to. An internal_port key is preferred; failing that, the first "= from"
// assignment anywhere in the file is used. A file that already carries
// internal_port = to is left untouched.
func PatchPort(path string, from, to int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	patched, changed, err := patchPort(data, from, to)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !changed {
		return nil
	}

	var parsed map[string]any
	if err := toml.Unmarshal(patched, &parsed); err != nil {
		return fmt.Errorf("%s no longer parses after port rewrite: %w", path, err)
	}
	return WriteFileAtomic(path, patched, 0o644)
}

func patchPort(data []byte, from, to int) ([]byte, bool, error) {
	if loc := findPort(internalPortLine, data, 2, from); loc != nil {
		return splice(data, loc, to), true, nil
	}
	for _, m := range internalPortLine.FindAllSubmatch(data, -1) {
		if port, err := nat.ParsePort(string(m[2])); err == nil && port == to {
			return data, false, nil
		}
	}
	if loc := findPort(anyPortValue, data, 1, from); loc != nil {
		return splice(data, loc, to), true, nil
	}
	return nil, false, fmt.Errorf("%w: %d", ErrNoPort, from)
}

// findPort returns the byte range of the first submatch group whose value
// parses to port.
func findPort(re *regexp.Regexp, data []byte, group, port int) []int {
	for _, idx := range re.FindAllSubmatchIndex(data, -1) {
		start, end := idx[2*group], idx[2*group+1]
		parsed, err := nat.ParsePort(string(data[start:end]))
		if err == nil && parsed == port {
			return []int{start, end}
		}
	}
	return nil
}

func splice(data []byte, loc []int, port int) []byte {
	out := make([]byte, 0, len(data)+2)
	out = append(out, data[:loc[0]]...)
	out = append(out, strconv.Itoa(port)...)
	return append(out, data[loc[1]:]...)
}
