// Package netspec reads configuration network descriptions.
//
// The line format is
//
//	# comment
//	r <relay id> <parent id | x>
//	c <config id> <relay id | x> <name> <data width> <default bits>
//
// Lines that are empty, start with '#' or start with a space are ignored.
// The parent of relay 0 may be omitted.
package netspec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/topology"
)

// Load reads a description from a file. Files ending in .yaml or .yml are
// read as YAML, everything else with the line format.
func Load(path string) (topology.Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return topology.Spec{}, fmt.Errorf("failed to open spec file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseText(f)
	}
}

// ParseText reads the line format.
func ParseText(r io.Reader) (topology.Spec, error) {
	var spec topology.Spec

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if skipLine(line) {
			continue
		}

		words := strings.Fields(line)
		switch words[0] {
		case "r":
			decl, err := parseRelay(words, lineNum)
			if err != nil {
				return topology.Spec{}, withText(err, line)
			}
			spec.Relays = append(spec.Relays, decl)
		case "c":
			decl, err := parseConfig(words, lineNum)
			if err != nil {
				return topology.Spec{}, withText(err, line)
			}
			spec.Configs = append(spec.Configs, decl)
		default:
			return topology.Spec{}, &topology.SpecError{
				Line:    lineNum,
				Text:    line,
				Message: fmt.Sprintf("type %s is not recognized", words[0]),
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return topology.Spec{}, fmt.Errorf("failed to read spec: %w", err)
	}

	return spec, nil
}

func skipLine(line string) bool {
	line = strings.TrimRight(line, "\r")
	return line == "" || line[0] == '#' || line[0] == ' ' || strings.TrimSpace(line) == ""
}

func withText(err error, line string) error {
	if specErr, ok := err.(*topology.SpecError); ok {
		specErr.Text = line
	}
	return err
}

func parseRelay(words []string, line int) (topology.RelayDecl, error) {
	if len(words) < 2 {
		return topology.RelayDecl{}, fieldError(line, "relay line needs an id")
	}

	id, err := parseInt(words[1], "relay id", line)
	if err != nil {
		return topology.RelayDecl{}, err
	}

	decl := topology.RelayDecl{ID: id, Line: line}
	if id == 0 {
		return decl, nil
	}

	if len(words) < 3 {
		return topology.RelayDecl{}, fieldError(line, "relay %d needs a parent id or x", id)
	}
	decl.Parent, err = parsePlacement(words[2], "parent id", line)
	if err != nil {
		return topology.RelayDecl{}, err
	}

	return decl, nil
}

func parseConfig(words []string, line int) (topology.ConfigDecl, error) {
	if len(words) < 6 {
		return topology.ConfigDecl{}, fieldError(line,
			"config line needs id, branch, name, width and default, got %d fields", len(words)-1)
	}

	id, err := parseInt(words[1], "config id", line)
	if err != nil {
		return topology.ConfigDecl{}, err
	}
	attach, err := parsePlacement(words[2], "branch id", line)
	if err != nil {
		return topology.ConfigDecl{}, err
	}
	width, err := parseInt(words[4], "data width", line)
	if err != nil {
		return topology.ConfigDecl{}, err
	}
	def, err := bits.Parse(words[5])
	if err != nil {
		return topology.ConfigDecl{}, fieldError(line, "default value: %v", err)
	}

	return topology.ConfigDecl{
		ID:      id,
		Attach:  attach,
		Name:    words[3],
		Width:   width,
		Default: def,
		Line:    line,
	}, nil
}

func parsePlacement(word, what string, line int) (topology.Placement, error) {
	if word == "x" {
		return topology.RandomPlacement(), nil
	}
	id, err := parseInt(word, what, line)
	if err != nil {
		return topology.Placement{}, err
	}
	return topology.At(id), nil
}

func parseInt(word, what string, line int) (int, error) {
	v, err := strconv.Atoi(word)
	if err != nil {
		return 0, fieldError(line, "%s %q is not an integer", what, word)
	}
	return v, nil
}

func fieldError(line int, format string, args ...any) error {
	return &topology.SpecError{Line: line, Message: fmt.Sprintf(format, args...)}
}
