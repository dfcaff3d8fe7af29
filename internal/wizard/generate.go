package wizard

import (
	"bytes"
	"sort"
	"strings"
	"text/template"

	"github.com/ThomasCrouzet/stackctl/internal/service"
)

// EnvFileData is what the env file template is rendered from.
type EnvFileData struct {
	ProjectName string
	Sections    []EnvSection
}

// EnvSection holds the defaults of one service.
type EnvSection struct {
	Service     string
	DisplayName string
	Vars        []EnvVar
}

// EnvVar is one KEY=value line.
type EnvVar struct {
	Key   string
	Value string
}

const envTemplate = `# stackctl environment
# Generated from the service descriptors. Values below are defaults;
# change secrets before exposing the stack.

PROJECT_NAME={{ quote .ProjectName }}
{{- range .Sections }}

# {{ .DisplayName }}{{ if ne .DisplayName .Service }} ({{ .Service }}){{ end }}
{{- range .Vars }}
{{ .Key }}={{ quote .Value }}
{{- end }}
{{- end }}
`

// EnvData collects the env defaults of services, skipping those without
// any. A variable declared by several services is kept at its first
// occurrence.
func EnvData(services []*service.Service, projectName string) EnvFileData {
	data := EnvFileData{ProjectName: projectName}
	seen := map[string]bool{"PROJECT_NAME": true}

	for _, svc := range services {
		keys := make([]string, 0, len(svc.Descriptor.Env))
		for k := range svc.Descriptor.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		section := EnvSection{Service: svc.Name, DisplayName: svc.DisplayName}
		for _, k := range keys {
			if seen[k] {
				continue
			}
			seen[k] = true
			section.Vars = append(section.Vars, EnvVar{Key: k, Value: svc.Descriptor.Env[k]})
		}
		if len(section.Vars) > 0 {
			data.Sections = append(data.Sections, section)
		}
	}
	return data
}

// GenerateEnvFile renders a .env skeleton from the services' defaults.
func GenerateEnvFile(services []*service.Service, projectName string) (string, error) {
	tmpl, err := template.New("env").Funcs(template.FuncMap{"quote": envQuote}).Parse(envTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, EnvData(services, projectName)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// envQuote double-quotes values dotenv would otherwise misread.
func envQuote(v string) string {
	if v == "" || strings.ContainsAny(v, " \t#\"'\\$\n") {
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
		return `"` + r.Replace(v) + `"`
	}
	return v
}
