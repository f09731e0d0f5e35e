package probe

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Site is one endpoint to probe.
type Site struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Device is one client profile. An empty UserAgent means the HTTP client's
// default is used.
type Device struct {
	Name      string `yaml:"name"`
	UserAgent string `yaml:"user_agent"`
}

// Target is one site/device combination. Immutable once built.
type Target struct {
	Site      string
	URL       string
	Device    string
	UserAgent string
}

// Matrix is the site × device grid a batch run covers.
type Matrix struct {
	Sites   []Site   `yaml:"sites"`
	Devices []Device `yaml:"devices"`
}

// mobileUserAgent is the reference mobile profile.
const mobileUserAgent = "Mozilla/5.0 (Android 13; Mobile; rv:109.0) Gecko/109.0 Firefox/119.0"

// DefaultMatrix returns the built-in two-site, two-device grid.
func DefaultMatrix() Matrix {
	return Matrix{
		Sites: []Site{
			{Name: "DuckDuckGo", URL: "https://duckduckgo.com/q=test"},
			{Name: "Nextcloud", URL: "https://demo2.nextcloud.com/index.php/login"},
		},
		Devices: []Device{
			{Name: "desktop", UserAgent: ""},
			{Name: "mobile", UserAgent: mobileUserAgent},
		},
	}
}

// LoadMatrix reads a site × device grid from a YAML file and validates it.
func LoadMatrix(path string) (Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Matrix{}, fmt.Errorf("%w: %v", ErrInvalidMatrixFile, err)
	}

	var m Matrix
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Matrix{}, fmt.Errorf("%w: %v", ErrInvalidMatrixFile, err)
	}
	if err := m.validate(); err != nil {
		return Matrix{}, err
	}
	return m, nil
}

func (m Matrix) validate() error {
	if len(m.Sites) == 0 {
		return ErrNoSites
	}
	if len(m.Devices) == 0 {
		return ErrNoDevices
	}
	for _, s := range m.Sites {
		if s.Name == "" || s.URL == "" {
			return fmt.Errorf("%w: site needs name and url", ErrInvalidMatrixFile)
		}
		if err := checkURL(s.URL); err != nil {
			return fmt.Errorf("%w: site %s: %v", ErrInvalidMatrixFile, s.Name, err)
		}
	}
	for _, d := range m.Devices {
		if d.Name == "" {
			return fmt.Errorf("%w: device needs a name", ErrInvalidMatrixFile)
		}
	}
	return nil
}

// Target combines one site and one device.
func (m Matrix) Target(site Site, device Device) Target {
	return Target{
		Site:      site.Name,
		URL:       site.URL,
		Device:    device.Name,
		UserAgent: device.UserAgent,
	}
}

// Targets expands the grid into every site × device combination, sites outer,
// devices inner.
func (m Matrix) Targets() []Target {
	targets := make([]Target, 0, len(m.Sites)*len(m.Devices))
	for _, s := range m.Sites {
		for _, d := range m.Devices {
			targets = append(targets, m.Target(s, d))
		}
	}
	return targets
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return ErrInvalidTarget
	}
	return nil
}
