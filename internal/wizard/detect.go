package wizard

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/ThomasCrouzet/stackctl/internal/service"
)

// DetectionResult holds what was auto-detected on the system.
type DetectionResult struct {
	DockerAvailable   bool
	ComposePlugin     bool   // `docker compose` works
	ComposeStandalone string // path of a docker-compose binary, if any
	GitAvailable      bool
	D2Available       bool
	EnvFile           string   // existing env file, empty otherwise
	Services          []string // service directories with a descriptor
}

// ComposeBinary returns the binary to run compose with, or "" when none
// was found.
func (r DetectionResult) ComposeBinary() string {
	switch {
	case r.ComposePlugin:
		return "docker"
	case r.ComposeStandalone != "":
		return r.ComposeStandalone
	default:
		return ""
	}
}

// Detector abstracts filesystem and path lookups for testing.
type Detector interface {
	LookPath(name string) (string, error)
	Stat(path string) (os.FileInfo, error)
	Glob(pattern string) ([]string, error)
	Run(name string, args ...string) error
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) LookPath(name string) (string, error)  { return exec.LookPath(name) }
func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSDetector) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }
func (OSDetector) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Detect checks for the tools stackctl drives and for an existing stack
// layout below root.
func Detect(d Detector, root string) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}

	result := DetectionResult{}

	if _, err := d.LookPath("docker"); err == nil {
		result.DockerAvailable = true
		if err := d.Run("docker", "compose", "version"); err == nil {
			result.ComposePlugin = true
		}
	}
	if p, err := d.LookPath("docker-compose"); err == nil {
		result.ComposeStandalone = p
	}
	if _, err := d.LookPath("git"); err == nil {
		result.GitAvailable = true
	}
	if _, err := d.LookPath("d2"); err == nil {
		result.D2Available = true
	}

	for _, name := range []string{".env", "stack.env"} {
		p := filepath.Join(root, name)
		if info, err := d.Stat(p); err == nil && !info.IsDir() {
			result.EnvFile = p
			break
		}
	}

	matches, _ := d.Glob(filepath.Join(root, "services", "*", service.DescriptorFile))
	for _, m := range matches {
		result.Services = append(result.Services, filepath.Base(filepath.Dir(m)))
	}
	sort.Strings(result.Services)

	return result
}
