// Package settings defines the Skipper Desktop settings document and the
// engine that patches it from --dotted-path style command-line arguments.
package settings

// Settings is the full settings document. The schema is closed: every field
// is known ahead of time, leaves are strings, numbers, or booleans, and the
// JSON encoding below is the wire format used by the settings service.
type Settings struct {
	Version        int            `json:"version"`
	Kubernetes     Kubernetes     `json:"kubernetes"`
	PortForwarding PortForwarding `json:"portForwarding"`
	Images         Images         `json:"images"`
	Telemetry      bool           `json:"telemetry"`
	Updater        bool           `json:"updater"`
	Debug          bool           `json:"debug"`
}

type Kubernetes struct {
	Version         string            `json:"version"`
	MemoryInGB      int               `json:"memoryInGB"`
	NumberCPUs      int               `json:"numberCPUs"`
	Port            int               `json:"port"`
	ContainerEngine string            `json:"containerEngine"`
	Enabled         bool              `json:"enabled"`
	Options         KubernetesOptions `json:"options"`
	SuppressSudo    bool              `json:"suppressSudo"`
}

type KubernetesOptions struct {
	Traefik bool `json:"traefik"`
	Flannel bool `json:"flannel"`
}

type PortForwarding struct {
	IncludeKubernetesServices bool `json:"includeKubernetesServices"`
}

type Images struct {
	ShowAll   bool   `json:"showAll"`
	Namespace string `json:"namespace"`
}

// DefaultSettings returns the baseline document used when no settings file
// exists yet.
func DefaultSettings() Settings {
	return Settings{
		Version: 4,
		Kubernetes: Kubernetes{
			Version:         "1.23.6",
			MemoryInGB:      2,
			NumberCPUs:      2,
			Port:            6443,
			ContainerEngine: "moby",
			Enabled:         true,
			Options: KubernetesOptions{
				Traefik: true,
				Flannel: true,
			},
			SuppressSudo: false,
		},
		PortForwarding: PortForwarding{
			IncludeKubernetesServices: false,
		},
		Images: Images{
			ShowAll:   true,
			Namespace: "k8s.io",
		},
		Telemetry: true,
		Updater:   true,
		Debug:     false,
	}
}
