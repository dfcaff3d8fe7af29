package service

import "github.com/ThomasCrouzet/stackctl/internal/config"

// Resolve computes the enabled flag of every service. Explicit true/false
// values are copied; an auto service is enabled when at least one of its
// dependents is enabled. Evaluation repeats until nothing changes, giving
// the least fixed point: auto services that only depend on each other in a
// cycle stay disabled unless something enabled needs them.
//
// Resolve recomputes from scratch, so calling it again on an unchanged
// registry gives the same result. It returns the services whose computed
// flag changed.
func Resolve(r *Registry, g *Graph) []*Service {
	all := r.All()
	before := make(map[string]bool, len(all))
	for _, s := range all {
		before[s.ID] = s.enabled
		s.enabled = s.configured == config.EnabledTrue || s.configured == ""
	}

	for changed := true; changed; {
		changed = false
		for _, s := range all {
			if s.configured != config.EnabledAuto || s.enabled {
				continue
			}
			for _, d := range g.Dependents(s) {
				if d.enabled {
					s.enabled = true
					changed = true
					break
				}
			}
		}
	}

	var diff []*Service
	for _, s := range all {
		if before[s.ID] != s.enabled {
			diff = append(diff, s)
		}
	}
	return diff
}

// IsAutoEnabled reports whether s is on only because a dependent needs it.
func IsAutoEnabled(s *Service) bool {
	return s.configured == config.EnabledAuto && s.enabled
}
