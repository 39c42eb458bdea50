package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrArtifactNotFound is returned when a contract was not compiled into the build output
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is returned when the endpoint reports a different chain ID than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrMissingCredential is returned when no signing key was supplied
	ErrMissingCredential = errors.New("missing signing credential")

	// ErrInvalidCredential is returned when the signing key cannot be parsed
	ErrInvalidCredential = errors.New("invalid signing credential")

	// ErrTransactionReverted is returned when a deployment receipt has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrNotConnected is returned when a chain operation runs before Connect
	ErrNotConnected = errors.New("not connected to network")

	// ErrEmptyPlan is returned when a deployment plan has no entries
	ErrEmptyPlan = errors.New("deployment plan is empty")

	// ErrNoNetwork is returned when no network was selected and no default is configured
	ErrNoNetwork = errors.New("no network selected, --network flag is required")

	// ErrDeploymentCancelled is returned when the user declines to broadcast
	ErrDeploymentCancelled = errors.New("deployment cancelled")
)

// ArtifactNotFoundError is returned when a named contract is missing from the build output.
type ArtifactNotFoundError struct {
	Name        string
	BuildDir    string
	Suggestions []string
}

func (e *ArtifactNotFoundError) Error() string {
	msg := fmt.Sprintf("artifact %q not found in %s (was the contract compiled?)", e.Name, e.BuildDir)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf("; did you mean: %s", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ArtifactNotFoundError) Unwrap() error {
	return ErrArtifactNotFound
}

// AmbiguousArtifactError is returned when a bare contract name matches several artifacts.
type AmbiguousArtifactError struct {
	Name    string
	Matches []string
}

func (e *AmbiguousArtifactError) Error() string {
	matches := make([]string, len(e.Matches))
	copy(matches, e.Matches)
	sort.Strings(matches)

	var suggestions []string
	for _, m := range matches {
		suggestions = append(suggestions, "  - "+m)
	}

	return fmt.Sprintf("multiple artifacts found matching %q - use source:contract format to disambiguate:\n%s",
		e.Name, strings.Join(suggestions, "\n"))
}

// EstimationError is returned when a deployment fee cannot be estimated, either
// because the constructor arguments are malformed or the network is unreachable.
type EstimationError struct {
	Deployment string
	Contract   string
	Err        error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("failed to estimate deployment fee for %s (%s): %v", e.Deployment, e.Contract, e.Err)
}

func (e *EstimationError) Unwrap() error {
	return e.Err
}

// DeploymentError is returned when a deployment transaction fails to be
// submitted or confirmed.
type DeploymentError struct {
	Deployment string
	Contract   string
	TxHash     string
	Err        error
}

func (e *DeploymentError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("failed to deploy %s (%s) in tx %s: %v", e.Deployment, e.Contract, e.TxHash, e.Err)
	}
	return fmt.Sprintf("failed to deploy %s (%s): %v", e.Deployment, e.Contract, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// ChainIDMismatchError is returned when an endpoint serves a different chain
// than the one pinned in the network configuration.
type ChainIDMismatchError struct {
	Expected uint64
	Actual   uint64
}

func (e *ChainIDMismatchError) Error() string {
	return fmt.Sprintf("endpoint reports chain ID %d, expected %d", e.Actual, e.Expected)
}

func (e *ChainIDMismatchError) Unwrap() error {
	return ErrNetworkMismatch
}
