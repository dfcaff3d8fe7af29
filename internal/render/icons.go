package render

import (
	"sort"
	"strings"
)

const (
	terrastruct = "https://icons.terrastruct.com"
	selfhst     = "https://cdn.jsdelivr.net/gh/selfhst/icons/svg"
)

// iconRegistry maps service names to icon URLs.
var iconRegistry = map[string]string{
	// Databases
	"postgres":   terrastruct + "/dev/postgresql.svg",
	"postgresql": terrastruct + "/dev/postgresql.svg",
	"supabase":   selfhst + "/supabase.svg",
	"redis":      terrastruct + "/dev/redis.svg",
	"valkey":     selfhst + "/valkey.svg",
	"qdrant":     selfhst + "/qdrant.svg",
	"neo4j":      selfhst + "/neo4j.svg",
	"mongo":      selfhst + "/mongodb.svg",
	"minio":      selfhst + "/minio.svg",

	// Model serving
	"ollama":   selfhst + "/ollama.svg",
	"litellm":  selfhst + "/litellm.svg",
	"langfuse": selfhst + "/langfuse.svg",
	"searxng":  selfhst + "/searxng.svg",

	// Web/Proxy
	"nginx":   terrastruct + "/dev/nginx.svg",
	"traefik": selfhst + "/traefik.svg",
	"caddy":   selfhst + "/caddy.svg",

	// Apps
	"n8n":        selfhst + "/n8n.svg",
	"flowise":    selfhst + "/flowise.svg",
	"open-webui": selfhst + "/open-webui.svg",
	"openwebui":  selfhst + "/open-webui.svg",
	"dify":       selfhst + "/dify.svg",
	"langflow":   selfhst + "/langflow.svg",

	// Monitoring
	"grafana":    selfhst + "/grafana.svg",
	"prometheus": selfhst + "/prometheus.svg",

	// Tools
	"docker":    terrastruct + "/dev/docker.svg",
	"portainer": selfhst + "/portainer.svg",
	"jupyter":   selfhst + "/jupyter.svg",
	"pgadmin":   selfhst + "/pgadmin.svg",
	"python":    terrastruct + "/dev/python.svg",
}

// iconKeys holds the registry keys longest first, so partial matches are
// deterministic and prefer the most specific key.
var iconKeys = func() []string {
	keys := make([]string, 0, len(iconRegistry))
	for k := range iconRegistry {
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

// LookupIcon returns the icon URL for a service name, or "".
func LookupIcon(name string) string {
	lower := strings.ToLower(name)
	if url, ok := iconRegistry[lower]; ok {
		return url
	}
	for _, key := range iconKeys {
		if strings.Contains(lower, key) {
			return iconRegistry[key]
		}
	}
	return ""
}
