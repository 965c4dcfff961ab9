package adapter

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/repaint-dev/repaint/internal/model"
)

// MappingStore loads the user-authored mapping table. Structural problems
// (unparseable YAML, missing namespaces) come back as errors; semantic
// problems in the table (bad identifiers, names claimed twice) come back as
// issues so the caller decides whether they block the run.
type MappingStore interface {
	Load(path m.Path) (m.MappingTable, []m.Issue, error)
}

// mappingFile is the on-disk shape: the table lives under a top-level
// "mapping" key so it can share repaint.yaml with tool configuration.
type mappingFile struct {
	Mapping m.MappingTable `yaml:"mapping"`
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// LocalMappingStore reads mapping tables from YAML files on disk.
type LocalMappingStore struct{}

// NewLocalMappingStore constructs a LocalMappingStore.
func NewLocalMappingStore() *LocalMappingStore {
	return &LocalMappingStore{}
}

// Load reads and validates the mapping table at path.
func (s *LocalMappingStore) Load(path m.Path) (m.MappingTable, []m.Issue, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.MappingTable{}, nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var file mappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return m.MappingTable{}, nil, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}

	table := file.Mapping
	if len(table.Namespaces) == 0 {
		return m.MappingTable{}, nil, fmt.Errorf("mapping file %s defines no namespaces", path)
	}

	return table, validateTable(path, table), nil
}

// validateTable checks identifier shape and cross-partition consistency.
func validateTable(path m.Path, table m.MappingTable) []m.Issue {
	var issues []m.Issue

	errorIssue := func(format string, args ...any) {
		issues = append(issues, m.Issue{
			Severity: m.SeverityError,
			Path:     path,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	warnIssue := func(suggestion, format string, args ...any) {
		issues = append(issues, m.Issue{
			Severity:   m.SeverityWarning,
			Path:       path,
			Message:    fmt.Sprintf(format, args...),
			Suggestion: suggestion,
		})
	}

	for _, ns := range table.Namespaces {
		if !identPattern.MatchString(ns) {
			errorIssue("namespace %q is not a valid identifier", ns)
		}
	}

	slotClaims := map[string][]string{}

	for name, slot := range table.Strict {
		if !validQualifiedName(name) {
			errorIssue("strict mapping key %q is not a qualified name", name)
		}

		if !identPattern.MatchString(slot) {
			errorIssue("strict mapping target %q for %s is not a valid identifier", slot, name)
		}

		slotClaims[slot] = append(slotClaims[slot], name)
	}

	for slot, names := range slotClaims {
		if len(names) < 2 {
			continue
		}

		sort.Strings(names)
		warnIssue(
			"several constants will collapse into one theme slot; check this is intended",
			"strict target %q is claimed by %s", slot, strings.Join(names, ", "),
		)
	}

	groupOf := map[string]string{}

	for _, group := range table.Extensions {
		if !identPattern.MatchString(group.Name) {
			errorIssue("extension group name %q is not a valid identifier", group.Name)
		}

		for name, prop := range group.Properties {
			if !validQualifiedName(name) {
				errorIssue("extension mapping key %q in group %s is not a qualified name", name, group.Name)
			}

			if !identPattern.MatchString(prop) {
				errorIssue("extension property %q for %s is not a valid identifier", prop, name)
			}

			if prev, ok := groupOf[name]; ok {
				warnIssue(
					fmt.Sprintf("remove %s from one of the groups; the first declared group wins", name),
					"%s appears in extension groups %s and %s", name, prev, group.Name,
				)
			} else {
				groupOf[name] = group.Name
			}

			if _, ok := table.Strict[name]; ok {
				warnIssue(
					"strict mappings take precedence over extension groups",
					"%s appears in both the strict table and extension group %s", name, group.Name,
				)
			}
		}
	}

	for _, name := range table.Preserved {
		if _, ok := table.Strict[name]; ok {
			warnIssue(
				"a preserved name is never rewritten; remove it from the strict table",
				"%s is both preserved and strictly mapped", name,
			)
		}

		if group, ok := groupOf[name]; ok {
			warnIssue(
				"a preserved name is never rewritten; remove it from the extension group",
				"%s is both preserved and mapped in extension group %s", name, group,
			)
		}
	}

	return issues
}

func validQualifiedName(name string) bool {
	qualifier, member, ok := strings.Cut(name, ".")
	if !ok {
		return false
	}

	return identPattern.MatchString(qualifier) && identPattern.MatchString(member)
}
