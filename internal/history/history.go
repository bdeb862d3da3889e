package history

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"
)

// MaxEntries is the number of addresses remembered per network.
const MaxEntries = 20

// History holds the addresses previously exported, per network, most recent first.
type History struct {
	networks map[string][]string
}

// New creates an empty History.
func New() *History {
	return &History{networks: make(map[string][]string)}
}

// Add moves the address to the front of the network's history, dropping any case-insensitive duplicate
// and trimming the history to MaxEntries. Blank addresses are ignored.
func (h *History) Add(network string, address string) {
	address = strings.TrimSpace(address)
	if address == "" {
		return
	}

	updated := []string{address}
	for _, existing := range h.networks[network] {
		if !strings.EqualFold(existing, address) {
			updated = append(updated, existing)
		}
	}

	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}

	h.networks[network] = updated
}

// Addresses returns a copy of the network's history, most recent first.
func (h *History) Addresses(network string) []string {
	return slices.Clone(h.networks[network])
}

// FromYAML reads a History from a YAML representation.
func FromYAML(reader io.Reader) (*History, error) {
	var ymlHistory yamlHistory
	if err := yaml.NewDecoder(reader).Decode(&ymlHistory); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode address history from YAML: %w", err)
	}

	h := New()
	for _, ymlNetwork := range ymlHistory.Networks {
		// replaying oldest first rebuilds the order and re-applies deduplication and the cap
		for _, address := range slices.Backward(ymlNetwork.Addresses) {
			h.Add(ymlNetwork.Network, address)
		}
	}

	return h, nil
}

// ToYAML writes a History to a YAML representation, with networks in sorted order.
func ToYAML(h *History, writer io.Writer) error {
	var ymlHistory yamlHistory

	networks := make([]string, 0, len(h.networks))
	for network := range h.networks {
		networks = append(networks, network)
	}
	slices.Sort(networks)

	for _, network := range networks {
		ymlHistory.Networks = append(ymlHistory.Networks, yamlNetworkHistory{
			Network:   network,
			Addresses: h.networks[network],
		})
	}

	encoder := yaml.NewEncoder(writer)
	defer func() { _ = encoder.Close() }()

	if err := encoder.Encode(&ymlHistory); err != nil {
		return fmt.Errorf("failed to encode address history to YAML: %w", err)
	}

	return nil
}

type yamlNetworkHistory struct {
	Network   string   `yaml:"network"`
	Addresses []string `yaml:"addresses"`
}

type yamlHistory struct {
	Networks []yamlNetworkHistory `yaml:"networks"`
}
