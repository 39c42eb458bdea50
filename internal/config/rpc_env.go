package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: zkSyncTestnet -> ZKSYNCTESTNET_RPC_URL, zksync-sepolia -> ZKSYNC_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// ExpandValue expands ${VAR} references in a configuration value. A value that
// is a pure reference to an unset variable is an error rather than "".
func ExpandValue(rawValue string) (string, error) {
	if name, ok := DetectEnvVar(rawValue); ok {
		if val, set := os.LookupEnv(name); !set || val == "" {
			return "", fmt.Errorf("environment variable %s is not set", name)
		}
	}
	return os.ExpandEnv(rawValue), nil
}

// Secret is a hardcoded value in stakedeploy.toml that can be moved to .env
type Secret struct {
	Key    string // TOML key holding the value, e.g. "private_key" or "url"
	Value  string // literal value currently in the file
	EnvVar string // variable it is moved to
}

// FindHardcodedSecrets lists the sender key and network URLs that are stored
// as literals instead of ${VAR} references
func FindHardcodedSecrets(projectRoot string) ([]Secret, error) {
	raw, err := LoadRawProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	var secrets []Secret
	if hasHardcodedKey(raw.Sender) {
		secrets = append(secrets, Secret{Key: "private_key", Value: raw.Sender.PrivateKey, EnvVar: DefaultPrivateKeyEnv})
	}
	for _, name := range sortedKeys(raw.Networks) {
		url := raw.Networks[name].URL
		if url == "" {
			continue
		}
		if _, isVar := DetectEnvVar(url); isVar {
			continue
		}
		secrets = append(secrets, Secret{Key: "url", Value: url, EnvVar: GenerateEnvVarName(name)})
	}
	return secrets, nil
}

// ExternalizeSecret replaces a hardcoded value in stakedeploy.toml with an env
// var reference and stores the value in .env. The .env file is written before
// stakedeploy.toml, so a failed run never leaves a reference to a variable
// that holds nothing.
func ExternalizeSecret(projectRoot string, secret Secret) error {
	path := filepath.Join(projectRoot, ProjectFileName)
	data, err := os.ReadFile(path) //nolint:gosec // internal path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ProjectFileName, err)
	}

	content, err := replaceEntry(string(data), secret.Key, secret.Value, secret.EnvVar)
	if err != nil {
		return err
	}

	if err := writeEnvVar(projectRoot, secret.EnvVar, secret.Value); err != nil {
		return fmt.Errorf("failed to update .env: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // internal path
		return fmt.Errorf("failed to write %s: %w", ProjectFileName, err)
	}
	return nil
}

// replaceEntry replaces `key = "oldValue"` with `key = "${envVarName}"`.
func replaceEntry(content, key, oldValue, envVarName string) (string, error) {
	oldEntry := fmt.Sprintf(`%s = "%s"`, key, oldValue)
	newEntry := fmt.Sprintf(`%s = "${%s}"`, key, envVarName)

	if !strings.Contains(content, oldEntry) {
		return "", fmt.Errorf("could not find entry '%s = ...' in %s", key, ProjectFileName)
	}
	return strings.Replace(content, oldEntry, newEntry, 1), nil
}

// writeEnvVar sets envVarName in .env, keeping the other assignments. A
// variable that already holds a different value is never overwritten; an
// empty one is filled in.
func writeEnvVar(projectRoot, envVarName, value string) error {
	envPath := filepath.Join(projectRoot, ".env")

	env := map[string]string{}
	if _, err := os.Stat(envPath); err == nil {
		if env, err = godotenv.Read(envPath); err != nil {
			return fmt.Errorf("failed to parse .env: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	if current, ok := env[envVarName]; ok && current != "" {
		if current == value {
			return nil
		}
		return fmt.Errorf("%s is already set to a different value, remove it or move the value by hand", envVarName)
	}

	env[envVarName] = value
	if err := godotenv.Write(env, envPath); err != nil {
		return fmt.Errorf("failed to write .env: %w", err)
	}
	return os.Chmod(envPath, 0600)
}
