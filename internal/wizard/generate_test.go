package wizard

import (
	"strings"
	"testing"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(name, displayName string, env map[string]string) *service.Service {
	d := &service.Descriptor{Name: name, DisplayName: displayName, Compose: service.DefaultComposeFile, Env: env}
	return service.New(d, service.Options{Dir: "/services/" + name, Settings: &config.ServiceSettings{Enabled: config.EnabledTrue}})
}

func TestGenerateEnvFile(t *testing.T) {
	services := []*service.Service{
		newService("supabase", "Supabase", map[string]string{
			"POSTGRES_PASSWORD": "change me",
			"POSTGRES_DB":       "postgres",
		}),
		newService("qdrant", "qdrant", nil),
		newService("n8n", "n8n", map[string]string{
			"N8N_PORT":    "5678",
			"POSTGRES_DB": "n8n",
		}),
	}

	out, err := GenerateEnvFile(services, "ai-stack")
	require.NoError(t, err)

	assert.Contains(t, out, "PROJECT_NAME=ai-stack")
	assert.Contains(t, out, "# Supabase (supabase)")
	assert.Contains(t, out, `POSTGRES_PASSWORD="change me"`)
	assert.Contains(t, out, "# n8n\nN8N_PORT=5678")
	assert.NotContains(t, out, "qdrant")
	assert.Equal(t, 1, strings.Count(out, "POSTGRES_DB="))

	parsed, err := godotenv.Unmarshal(out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"PROJECT_NAME":      "ai-stack",
		"POSTGRES_DB":       "postgres",
		"POSTGRES_PASSWORD": "change me",
		"N8N_PORT":          "5678",
	}, parsed)
}

func TestGenerateEnvFileNoServices(t *testing.T) {
	out, err := GenerateEnvFile(nil, "lab")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "PROJECT_NAME=lab\n"))
}

func TestEnvQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", `""`},
		{"with space", `"with space"`},
		{"a#b", `"a#b"`},
		{`say "hi"`, `"say \"hi\""`},
		{"${OTHER}", `"${OTHER}"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envQuote(tt.in))
		})
	}
}
