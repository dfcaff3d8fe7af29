package service

import (
	"fmt"
	"strconv"
	"strings"
)

// Endpoint is a port a service exposes on the host.
type Endpoint struct {
	Name string `yaml:"name"`
	Port string `yaml:"port"` // "5678", "5678:5678" or "127.0.0.1:8080:80/tcp"
	Path string `yaml:"path"`
}

// PortMapping represents a port binding.
type PortMapping struct {
	HostIP        string
	HostPort      int
	ContainerPort int
	Protocol      string // tcp or udp
}

// String returns a human-readable port mapping.
func (p PortMapping) String() string {
	proto := p.Protocol
	if proto == "" || proto == "tcp" {
		proto = ""
	} else {
		proto = "/" + proto
	}
	if p.HostPort == p.ContainerPort {
		return fmt.Sprintf("%d%s", p.HostPort, proto)
	}
	return fmt.Sprintf("%d→%d%s", p.HostPort, p.ContainerPort, proto)
}

// ParsePortMapping parses a Docker port string like "8080:80" or "127.0.0.1:8080:80/tcp".
func ParsePortMapping(s string) PortMapping {
	pm := PortMapping{Protocol: "tcp"}

	if idx := strings.Index(s, "/"); idx != -1 {
		pm.Protocol = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		port, _ := strconv.Atoi(parts[0])
		pm.HostPort = port
		pm.ContainerPort = port
	case 2:
		pm.HostPort, _ = strconv.Atoi(parts[0])
		pm.ContainerPort, _ = strconv.Atoi(parts[1])
	case 3:
		pm.HostIP = parts[0]
		pm.HostPort, _ = strconv.Atoi(parts[1])
		pm.ContainerPort, _ = strconv.Atoi(parts[2])
	}
	return pm
}

// Mapping parses the endpoint's port.
func (e Endpoint) Mapping() PortMapping {
	return ParsePortMapping(e.Port)
}

// URL returns the address the endpoint is reachable at from the host, or ""
// when the port does not parse.
func (e Endpoint) URL() string {
	m := e.Mapping()
	if m.HostPort == 0 {
		return ""
	}
	host := m.HostIP
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	path := e.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("http://%s:%d%s", host, m.HostPort, path)
}
