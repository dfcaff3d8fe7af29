package compose

import (
	"context"
	"testing"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	f, err := Inspect(context.Background(), "testdata/supabase.yml", InspectOptions{ProjectName: "ai-stack"})
	require.NoError(t, err)
	assert.False(t, f.Fallback)
	require.Len(t, f.Services, 3)

	db, studio, vector := f.Services[0], f.Services[1], f.Services[2]
	assert.Equal(t, "db", db.Name)
	assert.Equal(t, "supabase/postgres:15.1.1.78", db.Image)
	require.Len(t, db.Ports, 1)
	assert.Equal(t, 5432, db.Ports[0].HostPort)

	assert.Equal(t, "supabase-studio", studio.Container())
	assert.Equal(t, []string{"db"}, studio.DependsOn)

	assert.Equal(t, "vector", vector.Name)
	assert.Equal(t, []string{"logging"}, vector.Profiles)

	assert.True(t, f.Has("supabase-studio"))
	assert.True(t, f.Has("db"))
	assert.False(t, f.Has("kong"))
	assert.Equal(t, []string{"logging"}, f.Profiles())
}

func TestInspectFallback(t *testing.T) {
	f, err := Inspect(context.Background(), "testdata/required-var.yml", InspectOptions{Interpolate: true})
	require.NoError(t, err)
	assert.True(t, f.Fallback)
	require.Len(t, f.Services, 2)
	assert.Equal(t, "litellm", f.Services[0].Name)
	assert.Equal(t, []string{"postgres"}, f.Services[0].DependsOn)
	assert.Empty(t, f.Services[0].Ports)
	assert.Equal(t, "postgres:16", f.Services[1].Image)
}

func TestInspectInterpolates(t *testing.T) {
	f, err := Inspect(context.Background(), "testdata/required-var.yml", InspectOptions{
		Interpolate: true,
		Environment: []string{"LITELLM_PORT=4001"},
	})
	require.NoError(t, err)
	assert.False(t, f.Fallback)
	require.Len(t, f.Services, 2)
	require.Len(t, f.Services[0].Ports, 1)
	assert.Equal(t, 4001, f.Services[0].Ports[0].HostPort)
	assert.Equal(t, 4000, f.Services[0].Ports[0].ContainerPort)
}

func TestInspectEnvFile(t *testing.T) {
	f, err := Inspect(context.Background(), "testdata/required-var.yml", InspectOptions{
		Interpolate: true,
		EnvFiles:    []string{"testdata/stack.env"},
	})
	require.NoError(t, err)
	assert.False(t, f.Fallback)
	require.Len(t, f.Services[0].Ports, 1)
	assert.Equal(t, 4001, f.Services[0].Ports[0].HostPort)
}

func TestInspectMissingFile(t *testing.T) {
	_, err := Inspect(context.Background(), "testdata/nope.yml", InspectOptions{})
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	d := &service.Descriptor{
		Name:     "supabase",
		Compose:  "supabase.yml",
		Profiles: []string{"logging", "gpu"},
		Provides: service.Capabilities{
			{Name: "postgres", Container: "db"},
			{Name: "api", Container: "kong"},
		},
	}
	svc := service.New(d, service.Options{Dir: "testdata", Settings: &config.ServiceSettings{Enabled: config.EnabledTrue}})

	f, err := Inspect(context.Background(), svc.ComposeFile, InspectOptions{})
	require.NoError(t, err)

	problems := Check(svc, f)
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], "kong")
	assert.Contains(t, problems[1], "gpu")

	empty, err := Inspect(context.Background(), "testdata/empty.yml", InspectOptions{})
	require.NoError(t, err)
	assert.Len(t, Check(svc, empty), 1)
}
