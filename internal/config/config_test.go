package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateDoc(t *testing.T) map[string]any {
	t.Helper()
	doc, err := Template().Document()
	require.NoError(t, err)
	return doc
}

func parseDoc(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidateTemplateIsValid(t *testing.T) {
	res := Validate(templateDoc(t), templateDoc(t))
	assert.True(t, res.Valid)
	assert.Empty(t, res.Reasons())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		valid    bool
		missing  []string
		problems int
	}{
		{
			name:  "complete",
			doc:   `{"initialized":"","version":"1.3.0","projectName":"x","envFile":".env","dirs":{"volumes":"v","import":"i","shared":"s","backups":"b"},"services":{}}`,
			valid: true,
		},
		{
			name:    "missing nested dir",
			doc:     `{"initialized":"","version":"1.0.0","projectName":"x","envFile":".env","dirs":{"volumes":"v","shared":"s","backups":"b"},"services":{}}`,
			missing: []string{"dirs.import"},
		},
		{
			name:    "missing top-level sections",
			doc:     `{"version":"1.0.0","projectName":"x"}`,
			missing: []string{"dirs", "envFile", "initialized", "services"},
		},
		{
			name:     "dirs wrong shape",
			doc:      `{"initialized":"","version":"1.3.0","projectName":"x","envFile":".env","dirs":"nope","services":{}}`,
			problems: 1,
		},
		{
			name:  "grandfathered services override may be absent or present",
			doc:   `{"initialized":"","version":"1.3.0","projectName":"x","envFile":".env","dirs":{"volumes":"v","import":"i","shared":"s","backups":"b","services":"custom"},"services":{}}`,
			valid: true,
		},
		{
			name:  "service entries are not constrained by the template",
			doc:   `{"initialized":"","version":"1.3.0","projectName":"x","envFile":".env","dirs":{"volumes":"v","import":"i","shared":"s","backups":"b"},"services":{"n8n":{"enabled":"auto"}}}`,
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(parseDoc(t, tt.doc), templateDoc(t))
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.missing, res.Missing)
			assert.Len(t, res.Problems, tt.problems)
		})
	}
}

func decodeDoc(t *testing.T, body string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	return doc
}

func TestRepairFillsWithoutOverwriting(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	defer func() { now = time.Now }()

	doc := decodeDoc(t, `{
		"version": "1.0.0",
		"projectName": "my-stack",
		"envFile": "config/.env",
		"dirs": {"volumes": "/data/volumes"},
		"services": {"n8n": {"enabled": "auto", "profiles": ["worker"]}}
	}`)

	got, err := Repair(doc, Template())
	require.NoError(t, err)

	assert.Equal(t, SchemaVersion, got.Version)
	assert.Equal(t, "2026-01-02T03:04:05Z", got.Initialized)
	assert.Equal(t, "my-stack", got.ProjectName)
	assert.Equal(t, "config/.env", got.EnvFile)
	assert.Equal(t, "/data/volumes", got.Dirs[DirVolumes])
	assert.Equal(t, "import", got.Dirs[DirImport])
	assert.Equal(t, "backups", got.Dirs[DirBackups])
	assert.Equal(t, ServiceSettings{Enabled: EnabledAuto, Profiles: []string{"worker"}}, got.Services["n8n"])

	// input untouched
	assert.Len(t, doc["dirs"], 1)
	assert.Equal(t, "1.0.0", doc["version"])
}

func TestRepairKeepsPresentKeys(t *testing.T) {
	doc := decodeDoc(t, `{
		"initialized": "2024-05-01T10:00:00Z",
		"version": "0.9.0",
		"projectName": "",
		"envFile": "",
		"dirs": {"volumes": "", "custom": "extra"},
		"services": {},
		"telemetry": {"on": true}
	}`)

	got, err := Repair(doc, Template())
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01T10:00:00Z", got.Initialized)
	assert.Equal(t, SchemaVersion, got.Version)
	assert.Equal(t, "", got.ProjectName)
	assert.Equal(t, "", got.EnvFile)
	assert.Equal(t, "", got.Dirs[DirVolumes])
	assert.Equal(t, "extra", got.Dirs["custom"])
	assert.Equal(t, "import", got.Dirs[DirImport])
	assert.JSONEq(t, `{"on": true}`, string(got.Extra["telemetry"]))

	repaired, err := got.Document()
	require.NoError(t, err)
	for key, want := range doc {
		if key == "version" {
			continue
		}
		section, ok := want.(map[string]any)
		if !ok {
			assert.Equal(t, want, repaired[key], key)
			continue
		}
		got, ok := repaired[key].(map[string]any)
		require.True(t, ok, key)
		for sub, v := range section {
			assert.Equal(t, v, got[sub], key+"."+sub)
		}
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	doc := decodeDoc(t, `{"projectName": "x", "dirs": {"import": "in"}, "extra": [1, 2]}`)

	once, err := Repair(doc, Template())
	require.NoError(t, err)
	onceDoc, err := once.Document()
	require.NoError(t, err)
	twice, err := Repair(onceDoc, Template())
	require.NoError(t, err)

	assert.Equal(t, once, twice)

	res, err := ValidateConfig(twice)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestRepairDoesNotShareTemplateMaps(t *testing.T) {
	tmpl := Template()
	got, err := Repair(nil, tmpl)
	require.NoError(t, err)

	got.Dirs[DirImport] = "changed"
	assert.Equal(t, "import", tmpl.Dirs[DirImport])
}

func TestConfigKeepsUnknownKeys(t *testing.T) {
	data := []byte(`{"initialized":"2024-01-02T03:04:05Z","version":"1.3.0","projectName":"lab","envFile":".env","dirs":{},"services":{},"zeta":"z","alpha":{"n":1}}`)

	c, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "lab", c.ProjectName)
	require.Len(t, c.Extra, 2)

	out, err := c.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(out))

	plain := Template()
	out, err = plain.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Extra")
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		stored string
		want   VersionStatus
	}{
		{"1.3.0", VersionCurrent},
		{"1.0.0", VersionOutdated},
		{"1.2", VersionOutdated},
		{"2.0.0", VersionNewer},
		{"", VersionUnknown},
		{"banana", VersionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckVersion(tt.stored, "1.3.0"))
		})
	}
}

func TestEnablementJSON(t *testing.T) {
	var s ServiceSettings
	require.NoError(t, json.Unmarshal([]byte(`{"enabled":"auto"}`), &s))
	assert.Equal(t, EnabledAuto, s.Enabled)

	require.NoError(t, json.Unmarshal([]byte(`{"enabled":false}`), &s))
	assert.Equal(t, EnabledFalse, s.Enabled)

	assert.Error(t, json.Unmarshal([]byte(`{"enabled":"maybe"}`), &s))

	data, err := json.Marshal(ServiceSettings{Enabled: EnabledTrue})
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabled":true}`, string(data))

	data, err = json.Marshal(ServiceSettings{Enabled: EnabledAuto, Profiles: []string{"gpu"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabled":"auto","profiles":["gpu"]}`, string(data))
}

func TestParseEnablement(t *testing.T) {
	for in, want := range map[string]Enablement{"yes": EnabledTrue, "OFF": EnabledFalse, " auto ": EnabledAuto} {
		got, err := ParseEnablement(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseEnablement("sometimes")
	assert.Error(t, err)
}
