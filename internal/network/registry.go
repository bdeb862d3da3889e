package network

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Network describes one chain reachable through the unified explorer endpoint.
type Network struct {
	Name    string // the name used to select the network, e.g., "basescan"
	ChainID int64  // the chain identifier passed to the unified endpoint
	APIKey  string // the explorer API credential for this network
}

// Registry maps network names to their chain identifiers and API credentials.
type Registry struct {
	networks map[string]Network
}

// defaultNetworks lists the networks supported out of the box along with the environment variables holding their API keys.
var defaultNetworks = []struct {
	name    string
	chainID int64
	keyEnv  string
}{
	{name: "etherscan", chainID: 1, keyEnv: "ETHERSCAN_API_KEY"},
	{name: "basescan", chainID: 8453, keyEnv: "BASESCAN_API_KEY"},
	{name: "arbitrum", chainID: 42161, keyEnv: "ARBISCAN_API_KEY"},
}

// NewRegistry builds a registry from the given networks.
func NewRegistry(networks ...Network) *Registry {
	r := &Registry{networks: make(map[string]Network, len(networks))}
	for _, n := range networks {
		r.Put(n)
	}

	return r
}

// DefaultRegistry returns the Ethereum, Base and Arbitrum networks, reading each API key from its environment variable.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, n := range defaultNetworks {
		r.Put(Network{
			Name:    n.name,
			ChainID: n.chainID,
			APIKey:  os.Getenv(n.keyEnv),
		})
	}

	return r
}

// Put adds or replaces a network. Names are case-insensitive.
func (r *Registry) Put(n Network) {
	r.networks[strings.ToLower(n.Name)] = n
}

// Lookup resolves a network by name.
func (r *Registry) Lookup(name string) (Network, error) {
	n, ok := r.networks[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Network{}, fmt.Errorf("unsupported network '%s' (supported: %s)", name, strings.Join(r.Names(), ", "))
	}

	return n, nil
}

// Names returns the registered network names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.networks))
	for _, n := range r.networks {
		names = append(names, n.Name)
	}
	sort.Strings(names)

	return names
}

// MergeYAML reads network definitions from YAML and adds them to the registry, replacing any network of the same name.
// An entry may name an environment variable to read its API key from instead of embedding the key.
// An entry that omits the chain ID keeps the chain ID of the network it replaces.
func (r *Registry) MergeYAML(reader io.Reader) error {
	var ymlFile yamlNetworkFile
	if err := yaml.NewDecoder(reader).Decode(&ymlFile); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode networks from YAML: %w", err)
	}

	for i, ymlNetwork := range ymlFile.Networks {
		if strings.TrimSpace(ymlNetwork.Name) == "" {
			return fmt.Errorf("network entry %d has no name", i)
		}

		n := Network{
			Name:    ymlNetwork.Name,
			ChainID: ymlNetwork.ChainID,
			APIKey:  ymlNetwork.APIKey,
		}

		if existing, found := r.networks[strings.ToLower(n.Name)]; found {
			if n.ChainID == 0 {
				n.ChainID = existing.ChainID
			}
			if n.APIKey == "" && ymlNetwork.APIKeyEnv == "" {
				n.APIKey = existing.APIKey
			}
		}

		if ymlNetwork.APIKeyEnv != "" {
			n.APIKey = os.Getenv(ymlNetwork.APIKeyEnv)
		}

		if n.ChainID <= 0 {
			return fmt.Errorf("network '%s' requires a positive chain_id", n.Name)
		}

		r.Put(n)
	}

	return nil
}

type yamlNetwork struct {
	Name      string `yaml:"name"`
	ChainID   int64  `yaml:"chain_id"`
	APIKey    string `yaml:"api_key"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type yamlNetworkFile struct {
	Networks []yamlNetwork `yaml:"networks"`
}
