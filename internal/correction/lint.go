package correction

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// Severity grades a lint finding.
type Severity string

// Finding severities.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// maxSuggestionDistance bounds how far a category name may be from a known one to be suggested.
const maxSuggestionDistance = 2

// Finding describes a suspicious correction.
type Finding struct {
	Kind       Kind
	Severity   Severity
	Message    string
	Suggestion string
	Index      int
}

// Lint inspects a set without applying it. knownCategories may be empty, in which case
// category names are not checked.
func Lint(s *Set, knownCategories []string) []Finding {
	known := make(map[string]bool, len(knownCategories))
	for _, name := range knownCategories {
		known[name] = true
	}

	var findings []Finding
	dropped := make(map[int]int)
	assigned := make(map[string]int)

	for i, c := range s.corrections {
		switch v := c.(type) {
		case CategoryWhereLabelContains:
			if v.Contains == "" {
				findings = append(findings, Finding{
					Index:    i,
					Kind:     v.Kind(),
					Severity: SeverityWarning,
					Message:  "empty substring matches every record",
				})
			}
			findings = append(findings, checkCategory(i, v.Kind(), v.CorrectValue, known, knownCategories)...)
		case CategoryFromLoc:
			findings = append(findings, checkDropped(i, v.Kind(), v.LocID, dropped)...)
			findings = append(findings, checkOverwrite(i, v.Kind(), fmt.Sprintf("%s/%d", categoryTarget, v.LocID), assigned)...)
			findings = append(findings, checkCategory(i, v.Kind(), v.CorrectValue, known, knownCategories)...)
		case DateFromLoc:
			findings = append(findings, checkDropped(i, v.Kind(), v.LocID, dropped)...)
			findings = append(findings, checkOverwrite(i, v.Kind(), fmt.Sprintf("%s/%d", dateTarget, v.LocID), assigned)...)
		case RowDropping:
			findings = append(findings, checkDropped(i, v.Kind(), v.LocID, dropped)...)
			if _, ok := dropped[v.LocID]; !ok {
				dropped[v.LocID] = i
			}
		}
	}

	sort.SliceStable(findings, func(a, b int) bool {
		return findings[a].Index < findings[b].Index
	})
	return findings
}

func checkDropped(i int, kind Kind, loc int, dropped map[int]int) []Finding {
	at, ok := dropped[loc]
	if !ok {
		return nil
	}
	return []Finding{{
		Index:    i,
		Kind:     kind,
		Severity: SeverityError,
		Message:  fmt.Sprintf("row %d was dropped by correction %d", loc, at),
	}}
}

func checkOverwrite(i int, kind Kind, target string, assigned map[string]int) []Finding {
	prev, ok := assigned[target]
	assigned[target] = i
	if !ok {
		return nil
	}
	return []Finding{{
		Index:    i,
		Kind:     kind,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("overrides correction %d on %s", prev, target),
	}}
}

func checkCategory(i int, kind Kind, value string, known map[string]bool, names []string) []Finding {
	if len(known) == 0 || known[value] {
		return nil
	}

	f := Finding{
		Index:    i,
		Kind:     kind,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("category %q does not appear in the data", value),
	}
	if suggestion, ok := closestCategory(value, names); ok {
		f.Suggestion = suggestion
	}
	return []Finding{f}
}

func closestCategory(value string, names []string) (string, bool) {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, name := range names {
		d := levenshtein.ComputeDistance(value, name)
		if d < bestDistance || (d == bestDistance && name < best) {
			best, bestDistance = name, d
		}
	}
	return best, bestDistance <= maxSuggestionDistance
}
