package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/zkcult/stakedeploy/internal/config"
	domainconfig "github.com/zkcult/stakedeploy/internal/domain/config"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

// RenderConfig renders the resolved runtime configuration. The signing key
// itself is never printed, only the address it controls.
func (r *ConfigRenderer) RenderConfig(cfg *domainconfig.RuntimeConfig) error {
	fmt.Fprintln(r.out, "📋 Current config:")

	if cfg.Network != nil {
		fmt.Fprintf(r.out, "Network:   %s (chain %d)\n", cfg.Network.Name, cfg.Network.ChainID)
		fmt.Fprintf(r.out, "RPC:       %s\n", cfg.Network.RPCURL)
	} else {
		fmt.Fprintf(r.out, "Network:   %s\n", "(not set)")
	}

	fmt.Fprintf(r.out, "Deployer:  %s\n", describeSender(cfg.Sender))
	fmt.Fprintf(r.out, "Artifacts: %s\n", getRelativePath(cfg.ArtifactsDir))
	fmt.Fprintf(r.out, "Plan:      %s\n", getRelativePath(cfg.PlanFile))
	fmt.Fprintf(r.out, "Timeout:   %s\n", cfg.Timeout)

	fmt.Fprintf(r.out, "\n📁 config file: %s\n", getRelativePath(filepath.Join(cfg.ProjectRoot, config.ProjectFileName)))

	return nil
}

func describeSender(sender domainconfig.SenderConfig) string {
	addr, err := sender.Address()
	if err != nil {
		return color.New(color.FgRed).Sprintf("(%v)", err)
	}
	return addr.Hex()
}

// RenderSecrets lists hardcoded values found in the project file
func (r *ConfigRenderer) RenderSecrets(secrets []config.Secret) {
	if len(secrets) == 0 {
		fmt.Fprintf(r.out, "✅ No hardcoded secrets in %s\n", config.ProjectFileName)
		return
	}

	yellow := color.New(color.FgYellow)
	yellow.Fprintf(r.out, "Found %d hardcoded value(s) in %s:\n", len(secrets), config.ProjectFileName)
	for _, s := range secrets {
		fmt.Fprintf(r.out, "  %s = %s  →  ${%s}\n", s.Key, maskSecret(s), s.EnvVar)
	}
}

// RenderExternalized confirms a value was moved to .env
func (r *ConfigRenderer) RenderExternalized(secret config.Secret) {
	color.New(color.FgGreen).Fprintf(r.out, "✓ %s moved to .env as %s\n", secret.Key, secret.EnvVar)
}

// maskSecret hides private keys completely and keeps URLs readable
func maskSecret(s config.Secret) string {
	if s.Key != "private_key" {
		return s.Value
	}
	if len(s.Value) <= 10 {
		return "****"
	}
	return s.Value[:6] + "…" + s.Value[len(s.Value)-4:]
}
