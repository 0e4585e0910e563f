package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ReadAll parses line-oriented trace output back into entries.
// Malformed or short lines are skipped and counted; a single warning
// reports the skip total once reading finishes.
func ReadAll(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	skipped := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	if skipped > 0 {
		logrus.Warnf("ReadAll: %d malformed trace lines were skipped", skipped)
	}
	return entries, nil
}

func parseLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Entry{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	op, err := strconv.Atoi(fields[0])
	if err != nil || (op != 0 && op != 1) {
		return Entry{}, fmt.Errorf("bad op field %q", fields[0])
	}
	size, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("bad size field %q", fields[1])
	}
	offset, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("bad offset field %q", fields[2])
	}
	return Entry{IsRead: op == 0, SizeBytes: size, OffsetBytes: offset}, nil
}
