package wizard

import (
	"testing"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profiledService(name string, enabled config.Enablement, available, selected []string) *service.Service {
	d := &service.Descriptor{
		Name:            name,
		DisplayName:     name,
		Description:     name + " service",
		Compose:         service.DefaultComposeFile,
		Profiles:        available,
		DefaultProfiles: selected,
	}
	return service.New(d, service.Options{Dir: "/services/" + name, Settings: &config.ServiceSettings{Enabled: enabled}})
}

func TestChoices(t *testing.T) {
	services := []*service.Service{
		profiledService("ollama", config.EnabledAuto, []string{"cpu", "gpu-nvidia"}, []string{"cpu"}),
		profiledService("supabase", config.EnabledTrue, []string{"vector", "analytics"}, nil),
	}

	choices := Choices(services)
	require.Len(t, choices, 2)

	assert.Equal(t, "ollama", choices[0].Name)
	assert.Equal(t, "ollama: ollama service", choices[0].Label)
	assert.Equal(t, "auto", choices[0].Enabled)
	assert.Equal(t, []string{"cpu"}, choices[0].Profiles)
	assert.True(t, choices[0].SingleProfile)

	assert.Equal(t, "true", choices[1].Enabled)
	assert.Empty(t, choices[1].Profiles)
	assert.Equal(t, []string{"vector", "analytics"}, choices[1].Available)
	assert.False(t, choices[1].SingleProfile)

	// editing a choice does not touch the service
	choices[0].Profiles[0] = "gpu-nvidia"
	assert.Equal(t, []string{"cpu"}, services[0].Profiles)
}

func TestChanged(t *testing.T) {
	services := []*service.Service{
		profiledService("ollama", config.EnabledAuto, []string{"cpu", "gpu-nvidia"}, []string{"cpu"}),
		profiledService("supabase", config.EnabledTrue, []string{"vector", "analytics"}, []string{"vector", "analytics"}),
		profiledService("n8n", config.EnabledTrue, nil, nil),
	}

	choices := Choices(services)
	assert.Empty(t, Changed(services, choices))

	choices[0].Profiles = []string{"gpu-nvidia"}
	choices[1].Profiles = []string{"analytics", "vector"}
	choices[2].Enabled = "false"
	choices = append(choices, ServiceChoice{Name: "unknown", Enabled: "true"})

	changed := Changed(services, choices)
	require.Len(t, changed, 2)
	assert.Equal(t, "ollama", changed[0].Name)
	assert.Equal(t, "n8n", changed[1].Name)
}

func TestEnablementOptions(t *testing.T) {
	opts := EnablementOptions()
	require.Len(t, opts, 3)
	var values []string
	for _, o := range opts {
		values = append(values, o.Value)
		_, err := config.ParseEnablement(o.Value)
		assert.NoError(t, err)
	}
	assert.Equal(t, []string{"true", "auto", "false"}, values)
}

func TestProfileOptions(t *testing.T) {
	c := ServiceChoice{Name: "supabase", Available: []string{"vector", "analytics"}, Profiles: []string{"analytics"}}
	opts := ProfileOptions(c)
	require.Len(t, opts, 2)
	assert.Equal(t, "vector", opts[0].Value)
	assert.Equal(t, "analytics", opts[1].Key)

	assert.Empty(t, ProfileOptions(ServiceChoice{Name: "n8n"}))
}

func TestConfigureWithoutChoices(t *testing.T) {
	out, err := Configure(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestContains(t *testing.T) {
	assert.True(t, contains([]string{"a", "b"}, "b"))
	assert.False(t, contains([]string{"a", "b"}, "c"))
	assert.False(t, contains(nil, "a"))
}
