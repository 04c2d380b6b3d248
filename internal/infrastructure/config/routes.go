package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Routes declares routing state applied to the messenger at startup.
type Routes struct {
	// TrustedOrigins are hostnames added to the origin filter ("*" trusts
	// every http(s) origin).
	TrustedOrigins []string `yaml:"trusted_origins"`
	// Namespaces are activated with Listen.
	Namespaces []string `yaml:"namespaces"`
	// Proxies route namespaces to webhook destinations.
	Proxies []ProxyRoute `yaml:"proxies"`
}

// ProxyRoute maps one namespace to webhook destination URLs.
type ProxyRoute struct {
	Namespace string   `yaml:"namespace"`
	Webhooks  []string `yaml:"webhooks"`
}

// LoadRoutes parses a YAML routes file.
func LoadRoutes(path string) (*Routes, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}

	var routes Routes
	if err := yaml.Unmarshal(raw, &routes); err != nil {
		return nil, fmt.Errorf("parse routes file %s: %w", path, err)
	}
	return &routes, nil
}
