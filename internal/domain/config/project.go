package config

// ProjectConfig represents the structured sections of stakedeploy.toml.
// Scalar settings (artifacts, plan, default_network, timeout) are read through
// viper so flags and environment variables can override them.
type ProjectConfig struct {
	Networks map[string]NetworkConfig `toml:"networks"`
	Sender   SenderConfig             `toml:"sender"`
}

// NetworkConfig is a named network entry of the project file
type NetworkConfig struct {
	URL       string `toml:"url"`
	ChainID   uint64 `toml:"chain_id,omitempty"`
	Explorer  string `toml:"explorer,omitempty"`
	Currency  string `toml:"currency,omitempty"`
	L1Network string `toml:"l1_network,omitempty"`
	ZkSync    bool   `toml:"zksync,omitempty"`
}
