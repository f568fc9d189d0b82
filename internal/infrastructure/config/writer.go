package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"
)

var sectionHeader = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)

// EncodeTOML renders cfg as TOML. Keys keep struct order inside a table,
// tables are sorted by name so the output is stable.
func EncodeTOML(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return []byte(sortTOMLSections(buf.String())), nil
}

// WriteConfigOrdered writes cfg to path atomically.
func WriteConfigOrdered(cfg *Config, path string) error {
	data, err := EncodeTOML(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Chmod(path, filePerm)
}

func sortTOMLSections(content string) string {
	type section struct {
		header string
		lines  []string
	}

	var preamble []string
	var sections []section
	for _, line := range strings.Split(content, "\n") {
		if match := sectionHeader.FindStringSubmatch(line); match != nil {
			sections = append(sections, section{header: match[1], lines: []string{line}})
			continue
		}
		if len(sections) == 0 {
			preamble = append(preamble, line)
			continue
		}
		last := &sections[len(sections)-1]
		last.lines = append(last.lines, line)
	}

	sort.SliceStable(sections, func(i, j int) bool { return sections[i].header < sections[j].header })

	var out strings.Builder
	for _, line := range preamble {
		if strings.TrimSpace(line) != "" {
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	for _, sec := range sections {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		for _, line := range sec.lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	return out.String()
}
