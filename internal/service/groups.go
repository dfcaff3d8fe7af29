package service

import (
	"sort"
	"strings"
)

// Well-known groups, in the order they are shown and started.
const (
	GroupDatabases  = "databases"
	GroupMiddleware = "middleware"
	GroupApps       = "apps"
	GroupTools      = "tools"
	GroupOther      = "other"
)

var groupOrder = []string{GroupDatabases, GroupMiddleware, GroupApps, GroupTools}

var groupLabels = map[string]string{
	GroupDatabases:  "Databases",
	GroupMiddleware: "Middleware",
	GroupApps:       "Apps",
	GroupTools:      "Tools",
	GroupOther:      "Other",
}

// groupPatterns maps service name substrings to a group, for descriptors
// that don't declare one.
var groupPatterns = map[string]string{
	// Databases
	"postgres": GroupDatabases,
	"supabase": GroupDatabases,
	"qdrant":   GroupDatabases,
	"redis":    GroupDatabases,
	"valkey":   GroupDatabases,
	"neo4j":    GroupDatabases,
	"mongo":    GroupDatabases,
	"weaviate": GroupDatabases,
	"chroma":   GroupDatabases,
	"minio":    GroupDatabases,

	// Middleware
	"litellm":  GroupMiddleware,
	"ollama":   GroupMiddleware,
	"langfuse": GroupMiddleware,
	"searxng":  GroupMiddleware,
	"traefik":  GroupMiddleware,
	"caddy":    GroupMiddleware,
	"kafka":    GroupMiddleware,

	// Apps
	"n8n":        GroupApps,
	"flowise":    GroupApps,
	"open-webui": GroupApps,
	"openwebui":  GroupApps,
	"lightrag":   GroupApps,
	"dify":       GroupApps,
	"langflow":   GroupApps,

	// Tools
	"jupyter":   GroupTools,
	"pgadmin":   GroupTools,
	"adminer":   GroupTools,
	"portainer": GroupTools,
}

// patternsByLength holds the pattern keys longest first so "open-webui"
// wins over shorter overlapping patterns.
var patternsByLength = func() []string {
	keys := make([]string, 0, len(groupPatterns))
	for k := range groupPatterns {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// InferGroup picks a group for a service name, or GroupOther.
func InferGroup(name string) string {
	lower := strings.ToLower(name)

	if g, ok := groupPatterns[lower]; ok {
		return g
	}
	for _, pattern := range patternsByLength {
		if strings.Contains(lower, pattern) {
			return groupPatterns[pattern]
		}
	}
	return GroupOther
}

// GroupLabel returns the display label of a group.
func GroupLabel(group string) string {
	if l, ok := groupLabels[group]; ok {
		return l
	}
	if group == "" {
		return groupLabels[GroupOther]
	}
	return strings.ToUpper(group[:1]) + group[1:]
}

// SortGroups orders groups: well-known ones first in start order, then the
// rest alphabetically.
func SortGroups(groups []string) []string {
	rank := func(g string) int {
		for i, k := range groupOrder {
			if k == g {
				return i
			}
		}
		return len(groupOrder)
	}
	out := append([]string(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}
