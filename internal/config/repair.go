package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// now is replaced in tests.
var now = time.Now

// Repair fills every key absent from the stored document doc with the
// template's value, at the top level and one level into object sections.
// A key that is present is kept as is, even when its value is empty, and
// keys the template does not know are carried over. The version is bumped
// to the template's and an empty initialized timestamp is set. Repair is
// idempotent.
func Repair(doc map[string]any, template ProjectConfig) (ProjectConfig, error) {
	tmpl, err := template.Document()
	if err != nil {
		return ProjectConfig{}, err
	}

	out := make(map[string]any, len(doc)+len(tmpl))
	for k, v := range doc {
		out[k] = v
	}
	for key, tv := range tmpl {
		dv, ok := out[key]
		if !ok {
			out[key] = tv
			continue
		}
		tsec, isSection := tv.(map[string]any)
		dsec, ok := dv.(map[string]any)
		if !isSection || !ok {
			continue
		}
		merged := make(map[string]any, len(dsec)+len(tsec))
		for k, v := range dsec {
			merged[k] = v
		}
		for k, v := range tsec {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
		out[key] = merged
	}

	out["version"] = template.Version
	if s, _ := out["initialized"].(string); s == "" {
		out["initialized"] = now().UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return ProjectConfig{}, fmt.Errorf("encoding repaired config: %w", err)
	}
	return Decode(data)
}
