package stack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/internal/util"
	"github.com/ThomasCrouzet/stackctl/pkg/logging"
)

// UnsafeWriteError is returned by Save when the config file lies outside
// the working directory.
type UnsafeWriteError struct {
	Path    string
	WorkDir string
}

func (e *UnsafeWriteError) Error() string {
	return fmt.Sprintf("refusing to write %s: outside the working directory %s", e.Path, e.WorkDir)
}

// Save writes the project config, including every service's configured
// state and profiles. Entries for services that are no longer present are
// kept. The file is replaced atomically.
func (s *Stack) Save() (bool, error) {
	if s.path == "" {
		return false, errors.New("stack is not initialized")
	}

	wd, err := osGetwd()
	if err != nil {
		return false, fmt.Errorf("getting working directory: %w", err)
	}
	if !util.IsWithin(wd, s.path) {
		return false, &UnsafeWriteError{Path: s.path, WorkDir: wd}
	}

	s.syncSettings()
	data, err := s.cfg.Marshal()
	if err != nil {
		return false, fmt.Errorf("encoding project config: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return false, fmt.Errorf("saving project config: %w", err)
	}
	logging.Debug(subsystem, "saved %s", s.path)
	return true, nil
}

func (s *Stack) syncSettings() {
	if s.cfg.Services == nil {
		s.cfg.Services = map[string]config.ServiceSettings{}
	}
	for _, svc := range s.registry.All() {
		s.cfg.Services[svc.Name] = svc.Settings()
	}
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it over path, so readers never see a partial file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
