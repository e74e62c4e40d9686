package testplan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cfgnet/bits"
)

const fileHeader = `# This is a generated file with random test id and data.
# You can extend this file to contain your specific test cases.
# Use -r <this file name> if you would like to use the modified file.
# Use -w <this file name> <number of tests> will overwrite this file.

# <test id> <test data>
`

// Write renders the plan in the plan file format.
func Write(w io.Writer, plan Plan) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(fileHeader); err != nil {
		return err
	}
	for _, op := range plan {
		if _, err := fmt.Fprintf(bw, "%d\t\t%s\n", op.NodeID, op.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read parses a plan file. Empty lines and lines starting with '#' or a
// space are skipped. Node ids are not checked here; pass the result to Load.
func Read(r io.Reader) ([]WriteOp, error) {
	var ops []WriteOp

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || line[0] == '#' || line[0] == ' ' {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 {
			return nil, fmt.Errorf("test file line %d: expected <test id> <test data>\n>>> %s",
				lineNum, line)
		}

		id, err := strconv.Atoi(words[0])
		if err != nil {
			return nil, fmt.Errorf("test file line %d: test id %q is not an integer\n>>> %s",
				lineNum, words[0], line)
		}
		value, err := bits.Parse(words[1])
		if err != nil {
			return nil, fmt.Errorf("test file line %d: %w\n>>> %s", lineNum, err, line)
		}

		ops = append(ops, WriteOp{NodeID: id, Value: value, Line: lineNum})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read test file: %w", err)
	}

	return ops, nil
}

// ReadFile is Read on a named file.
func ReadFile(path string) ([]WriteOp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open test file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// WriteFile is Write to a named file, replacing its content.
func WriteFile(path string, plan Plan) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create test file: %w", err)
	}

	if err := Write(f, plan); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write test file: %w", err)
	}

	return f.Close()
}
