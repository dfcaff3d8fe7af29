package wizard

import (
	"fmt"
	"strings"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/charmbracelet/huh"
)

// InitAnswers holds the responses of the init wizard.
type InitAnswers struct {
	ProjectName   string
	ComposeBinary string
	WriteEnvFile  bool
}

// ServiceChoice is the editable state of one service in the configure
// form.
type ServiceChoice struct {
	Name          string
	Label         string
	Enabled       string // true, false or auto
	Profiles      []string
	Available     []string
	SingleProfile bool
}

// Choices builds the form state from the loaded services.
func Choices(services []*service.Service) []ServiceChoice {
	out := make([]ServiceChoice, 0, len(services))
	for _, svc := range services {
		label := svc.DisplayName
		if svc.Description != "" {
			label = fmt.Sprintf("%s: %s", svc.DisplayName, svc.Description)
		}
		out = append(out, ServiceChoice{
			Name:          svc.Name,
			Label:         label,
			Enabled:       string(svc.Configured()),
			Profiles:      append([]string(nil), svc.Profiles...),
			Available:     svc.AvailableProfiles(),
			SingleProfile: svc.Name == "ollama",
		})
	}
	return out
}

// Changed returns the choices that differ from the services' current
// state.
func Changed(services []*service.Service, choices []ServiceChoice) []ServiceChoice {
	byName := make(map[string]*service.Service, len(services))
	for _, svc := range services {
		byName[svc.Name] = svc
	}
	var out []ServiceChoice
	for _, c := range choices {
		svc, ok := byName[c.Name]
		if !ok {
			continue
		}
		if config.Enablement(c.Enabled) != svc.Configured() || !sameSet(c.Profiles, svc.Profiles) {
			out = append(out, c)
		}
	}
	return out
}

// EnablementOptions returns the select options for the enabled state.
func EnablementOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Enabled", string(config.EnabledTrue)),
		huh.NewOption("Auto (when a dependent needs it)", string(config.EnabledAuto)),
		huh.NewOption("Disabled", string(config.EnabledFalse)),
	}
}

// ProfileOptions returns the profile options with the current selection
// pre-selected.
func ProfileOptions(c ServiceChoice) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(c.Available))
	for _, p := range c.Available {
		opts = append(opts, huh.NewOption(p, p).Selected(contains(c.Profiles, p)))
	}
	return opts
}

// RunInit asks for the basic project settings.
func RunInit(detection DetectionResult, defaults config.ProjectConfig) (*InitAnswers, error) {
	answers := &InitAnswers{
		ProjectName:   defaults.ProjectName,
		ComposeBinary: detection.ComposeBinary(),
		WriteEnvFile:  detection.EnvFile == "",
	}

	var hints []string
	if detection.ComposeBinary() == "" {
		hints = append(hints, "docker compose not found")
	} else {
		hints = append(hints, fmt.Sprintf("compose: %s", detection.ComposeBinary()))
	}
	if len(detection.Services) > 0 {
		hints = append(hints, fmt.Sprintf("Services found: %s", strings.Join(detection.Services, ", ")))
	}
	if detection.EnvFile != "" {
		hints = append(hints, fmt.Sprintf("Env file found: %s", detection.EnvFile))
	}

	desc := "Used as the docker compose project name."
	if len(hints) > 0 {
		desc += "\n\nAuto-detected:\n  " + strings.Join(hints, "\n  ")
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description(desc).
				Value(&answers.ProjectName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("project name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Compose binary").
				Description("docker (compose plugin) or the path of docker-compose").
				Value(&answers.ComposeBinary),
			huh.NewConfirm().
				Title("Generate an env file from service defaults?").
				Value(&answers.WriteEnvFile),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}
	return answers, nil
}

// Configure lets the user pick the enabled state and profiles of each
// service. It returns the edited choices.
func Configure(choices []ServiceChoice) ([]ServiceChoice, error) {
	out := make([]ServiceChoice, len(choices))
	copy(out, choices)

	var groups []*huh.Group
	for i := range out {
		c := &out[i]
		fields := []huh.Field{
			huh.NewSelect[string]().
				Title(c.Label).
				Options(EnablementOptions()...).
				Value(&c.Enabled),
		}

		if len(c.Available) > 0 {
			if c.SingleProfile {
				selected := ""
				if len(c.Profiles) > 0 {
					selected = c.Profiles[0]
				}
				c.Profiles = []string{selected}
				fields = append(fields, huh.NewSelect[string]().
					Title(c.Name+" profile").
					Options(huh.NewOptions(c.Available...)...).
					Value(&c.Profiles[0]))
			} else {
				fields = append(fields, huh.NewMultiSelect[string]().
					Title(c.Name+" profiles").
					Options(ProfileOptions(*c)...).
					Value(&c.Profiles))
			}
		}
		groups = append(groups, huh.NewGroup(fields...))
	}

	if len(groups) == 0 {
		return out, nil
	}
	if err := huh.NewForm(groups...).Run(); err != nil {
		return nil, err
	}
	return out, nil
}

func contains(s []string, v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !contains(b, v) {
			return false
		}
	}
	return true
}
