package config

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// ValidationResult reports whether a stored document has every key the
// template requires.
type ValidationResult struct {
	Valid    bool
	Missing  []string // dotted key paths absent from the document
	Problems []string // sections present with the wrong shape
}

// Reasons returns Missing and Problems as human-readable lines.
func (r ValidationResult) Reasons() []string {
	var out []string
	for _, m := range r.Missing {
		out = append(out, fmt.Sprintf("missing key %q", m))
	}
	out = append(out, r.Problems...)
	return out
}

// Validate checks doc against template: every top-level template key must
// be present, and for object sections every key of the template object must
// be present one level deeper. Grandfathered keys are optional.
func Validate(doc, template map[string]any) ValidationResult {
	res := ValidationResult{}

	for _, key := range sortedKeys(template) {
		tv := template[key]
		dv, ok := doc[key]
		if !ok {
			if !grandfathered[key] {
				res.Missing = append(res.Missing, key)
			}
			continue
		}

		tmap, isSection := tv.(map[string]any)
		if !isSection {
			continue
		}
		dmap, ok := dv.(map[string]any)
		if !ok {
			res.Problems = append(res.Problems, fmt.Sprintf("%q must be an object", key))
			continue
		}
		for _, sub := range sortedKeys(tmap) {
			path := key + "." + sub
			if _, ok := dmap[sub]; !ok && !grandfathered[path] {
				res.Missing = append(res.Missing, path)
			}
		}
	}

	res.Valid = len(res.Missing) == 0 && len(res.Problems) == 0
	return res
}

// ValidateConfig validates a typed config against the template. Typed
// configs always carry every key, so this mostly catches wrong shapes.
func ValidateConfig(c ProjectConfig) (ValidationResult, error) {
	doc, err := c.Document()
	if err != nil {
		return ValidationResult{}, err
	}
	tmpl, err := Template().Document()
	if err != nil {
		return ValidationResult{}, err
	}
	return Validate(doc, tmpl), nil
}

// VersionStatus compares a stored schema version with the current one.
type VersionStatus int

const (
	VersionCurrent VersionStatus = iota
	VersionOutdated
	VersionNewer
	VersionUnknown
)

func (s VersionStatus) String() string {
	switch s {
	case VersionCurrent:
		return "current"
	case VersionOutdated:
		return "outdated"
	case VersionNewer:
		return "newer"
	default:
		return "unknown"
	}
}

// CheckVersion compares stored against current. It never fails: an
// unparseable stored version is reported as VersionUnknown.
func CheckVersion(stored, current string) VersionStatus {
	sv, err := semver.NewVersion(stored)
	if err != nil {
		return VersionUnknown
	}
	cv, err := semver.NewVersion(current)
	if err != nil {
		return VersionUnknown
	}
	switch {
	case sv.LessThan(cv):
		return VersionOutdated
	case sv.GreaterThan(cv):
		return VersionNewer
	default:
		return VersionCurrent
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
