package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ThomasCrouzet/stackctl/internal/config"
	"github.com/ThomasCrouzet/stackctl/pkg/logging"
)

const loaderSubsystem = "Loader"

// IgnoreMarker prefixes directories the loader must not treat as services.
const IgnoreMarker = "_"

// Loader scans service source directories for descriptors.
type Loader struct {
	Project  Project
	Settings map[string]config.ServiceSettings

	// For tests.
	readDir  func(string) ([]os.DirEntry, error)
	readFile func(string) ([]byte, error)
	stat     func(string) (os.FileInfo, error)
}

// LoadResult is the outcome of a scan. Messages holds one diagnostic per
// skipped or failed service.
type LoadResult struct {
	Services []*Service
	Messages logging.Messages
}

// NewLoader returns a loader backed by the real filesystem.
func NewLoader(project Project, settings map[string]config.ServiceSettings) *Loader {
	return &Loader{
		Project:  project,
		Settings: settings,
		readDir:  os.ReadDir,
		readFile: os.ReadFile,
		stat:     os.Stat,
	}
}

// Load scans sources, ordered highest priority first. Directories are read
// lowest priority first so that a service found again in a higher priority
// source replaces the earlier one, and the returned slice is in that
// registration order. A single bad service never fails the load; only an
// unreadable source directory does.
func (l *Loader) Load(sources []string) (*LoadResult, error) {
	res := &LoadResult{}
	index := map[string]int{}

	for i := len(sources) - 1; i >= 0; i-- {
		src := sources[i]
		priority := len(sources) - 1 - i

		entries, err := l.readDir(src)
		if err != nil {
			return res, fmt.Errorf("reading services directory %s: %w", src, err)
		}

		for _, entry := range entries {
			svc := l.loadEntry(src, entry, priority, &res.Messages)
			if svc == nil {
				continue
			}
			if at, dup := index[svc.Name]; dup {
				prev := res.Services[at]
				res.Messages.Debug(loaderSubsystem, "service %s from %s overrides %s", svc.Name, svc.Dir, prev.Dir)
				res.Services = append(res.Services[:at], res.Services[at+1:]...)
				for name, idx := range index {
					if idx > at {
						index[name] = idx - 1
					}
				}
			}
			index[svc.Name] = len(res.Services)
			res.Services = append(res.Services, svc)
		}
	}

	return res, nil
}

func (l *Loader) loadEntry(src string, entry os.DirEntry, priority int, msgs *logging.Messages) *Service {
	name := entry.Name()
	dir := filepath.Join(src, name)

	if strings.HasPrefix(name, IgnoreMarker) || strings.HasPrefix(name, ".") {
		msgs.Debug(loaderSubsystem, "ignoring %s", dir)
		return nil
	}
	if !l.isDir(dir, entry) {
		return nil
	}

	descPath := filepath.Join(dir, DescriptorFile)
	data, err := l.readFile(descPath)
	if errors.Is(err, fs.ErrNotExist) {
		msgs.Debug(loaderSubsystem, "no %s in %s, skipping", DescriptorFile, dir)
		return nil
	}
	if err != nil {
		msgs.Error(loaderSubsystem, "%v", &ServiceError{Service: name, Err: fmt.Errorf("reading %s: %w", descPath, err)})
		return nil
	}

	desc, err := ParseDescriptor(data, name)
	if err != nil {
		msgs.Warn(loaderSubsystem, "%v", &ServiceError{Service: name, Err: fmt.Errorf("%s: %w", descPath, err)})
		return nil
	}
	if desc.Disabled {
		msgs.Info(loaderSubsystem, "service %s is disabled in its descriptor", desc.Name)
		return nil
	}

	behavior, err := behaviorFor(desc)
	if err != nil {
		msgs.Error(loaderSubsystem, "%v", &ServiceError{Service: desc.Name, Err: fmt.Errorf("loading custom behavior: %w", err)})
		return nil
	}

	var settings *config.ServiceSettings
	if st, ok := l.Settings[desc.Name]; ok {
		settings = &st
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	return New(desc, Options{
		Dir:      abs,
		Priority: priority,
		Project:  l.Project,
		Settings: settings,
		Behavior: behavior,
	})
}

// isDir follows symlinks so linked service directories are picked up.
func (l *Loader) isDir(path string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := l.stat(path)
	return err == nil && info.IsDir()
}
