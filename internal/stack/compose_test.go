package stack

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ThomasCrouzet/stackctl/internal/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedStack(t *testing.T) (string, *Stack) {
	t.Helper()
	root, cfgPath := newProject(t)
	writeFile(t, filepath.Join(root, ".env"), "POSTGRES_PASSWORD=secret\nDATABASE_URL=postgres://app:${POSTGRES_PASSWORD}@db/app\n")
	writeService(t, root, "supabase", `
provides:
  postgres: db
volumes: [db]
endpoints:
  - name: api
    port: "8000"
`)
	writeService(t, root, "n8n", "dependsOn: [postgres]\nenv:\n  N8N_PORT: \"5678\"\n")
	writeService(t, root, "ollama", "profiles: [cpu, gpu-nvidia]\ndefaultProfiles: [cpu]\n")
	writeService(t, root, "flowise", "enabled: false\n")

	st := New()
	_, err := st.Initialize(context.Background(), cfgPath, Options{AllowCreate: true, EnvLookup: noEnv})
	require.NoError(t, err)
	return root, st
}

func TestBaseEnv(t *testing.T) {
	root, st := loadedStack(t)
	e := st.BaseEnv()

	assert.Equal(t, "secret", e.Get("POSTGRES_PASSWORD"))
	assert.Equal(t, "postgres://app:secret@db/app", e.Get("DATABASE_URL"))
	assert.Equal(t, "ai-stack", e.Get(ProjectNameVar))
	assert.Equal(t, filepath.Join(root, "volumes"), e.Get("STACK_VOLUMES_DIR"))
	assert.Equal(t, filepath.Join(root, "backups"), e.Get("STACK_BACKUPS_DIR"))
}

func TestRawEnvKeepsReferences(t *testing.T) {
	root, cfgPath := newProject(t)
	writeFile(t, filepath.Join(root, ".env"), "A=1\nB=${A}\n")

	st := New()
	_, err := st.Initialize(context.Background(), cfgPath, Options{AllowCreate: true, RawEnv: true, EnvLookup: noEnv})
	require.NoError(t, err)
	assert.Equal(t, "${A}", st.BaseEnv().Get("B"))
}

func TestPrepare(t *testing.T) {
	root, st := loadedStack(t)

	prepared, err := st.Prepare(context.Background())
	require.NoError(t, err)

	var names []string
	for _, p := range prepared {
		names = append(names, p.Service.Name)
	}
	assert.Equal(t, []string{"supabase", "ollama", "n8n"}, names)

	n8n := prepared[2].Env
	assert.Equal(t, "db", n8n.Get("POSTGRES_HOST"))
	assert.Equal(t, "5678", n8n.Get("N8N_PORT"))
	assert.Equal(t, "secret", n8n.Get("POSTGRES_PASSWORD"))

	assert.Equal(t, "http://localhost:8000", prepared[0].Env.Get("SUPABASE_PUBLIC_URL"))
	for _, dir := range []string{"db", filepath.Join("db", "data"), "storage"} {
		info, err := os.Stat(filepath.Join(root, "volumes", "supabase", dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}

	merged := MergeEnv(st.BaseEnv(), prepared)
	assert.Equal(t, "http://ollama:11434", merged.Get("OLLAMA_BASE_URL"))
	assert.Equal(t, "5678", merged.Get("N8N_PORT"))
}

func TestPrepareCancelled(t *testing.T) {
	_, st := loadedStack(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.Prepare(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComposeArgs(t *testing.T) {
	root, st := loadedStack(t)

	want := []string{
		"-p", "ai-stack",
		"--env-file", filepath.Join(root, ".env"),
		"-f", filepath.Join(root, "services", "supabase", "docker-compose.yml"),
		"-f", filepath.Join(root, "services", "ollama", "docker-compose.yml"),
		"-f", filepath.Join(root, "services", "n8n", "docker-compose.yml"),
		"--profile", "cpu",
	}
	assert.Equal(t, want, st.ComposeArgs())
}

func TestMergeEnvFirstWins(t *testing.T) {
	base := env.New(map[string]string{"A": "base"})
	prepared := []Prepared{
		{Env: env.New(map[string]string{"A": "one", "B": "one"})},
		{Env: env.New(map[string]string{"B": "two", "C": "two"})},
	}
	got := MergeEnv(base, prepared)
	assert.Equal(t, map[string]string{"A": "base", "B": "one", "C": "two"}, got.Map())
}
