// Package logparse extracts timing values from the free-form output of the
// benchmarked executable.
package logparse

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrNoExecTime = errors.New("no execTime field in output")

// The executable prints "execTime: <seconds>" through iostreams, which switches
// to scientific notation for small values.
var execTimeRe = regexp.MustCompile(`execTime:\s*([0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)`)

// ExecTime returns the value of the first line carrying an execTime field.
// Later lines are ignored even if they also match.
func ExecTime(output string) (float64, error) {
	sc := bufio.NewScanner(strings.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		m := execTimeRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("parse execTime %q: %w", m[1], err)
		}
		return v, nil
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("scan output: %w", err)
	}
	return 0, ErrNoExecTime
}
