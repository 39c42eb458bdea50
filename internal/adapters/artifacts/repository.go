package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// maxSuggestions caps the "did you mean" list of a lookup miss
const maxSuggestions = 3

// Repository indexes the artifacts of the build output directory. Both
// Hardhat-style (artifacts/, artifacts-zk/) and Foundry-style (out/) layouts
// are supported.
type Repository struct {
	buildDir string
	selector usecase.ContractSelector
	log      *slog.Logger

	once     sync.Once
	indexErr error
	byKey    map[string]*models.Contract   // key: "source:name"
	byName   map[string][]*models.Contract // key: contract name
}

// NewRepository creates a new artifact repository rooted at the configured build directory
func NewRepository(cfg *config.RuntimeConfig, selector usecase.ContractSelector, log *slog.Logger) *Repository {
	return &Repository{
		buildDir: cfg.ArtifactsDir,
		selector: selector,
		log:      log.With("component", "artifacts"),
	}
}

// GetArtifact resolves a contract name or "source:name" reference
func (r *Repository) GetArtifact(ctx context.Context, ref string) (*models.Contract, error) {
	if err := r.ensureIndexed(); err != nil {
		return nil, err
	}

	ref = strings.TrimSpace(ref)
	if contract, ok := r.byKey[ref]; ok {
		return contract, nil
	}

	matches := r.byName[ref]
	switch len(matches) {
	case 0:
		return nil, &domain.ArtifactNotFoundError{
			Name:        ref,
			BuildDir:    r.buildDir,
			Suggestions: r.suggest(ref),
		}
	case 1:
		return matches[0], nil
	}

	ambiguous := &domain.AmbiguousArtifactError{Name: ref}
	for _, m := range matches {
		ambiguous.Matches = append(ambiguous.Matches, m.Key())
	}
	if r.selector == nil {
		return nil, ambiguous
	}

	selected, err := r.selector.SelectContract(ctx, matches, fmt.Sprintf("Multiple artifacts named %s, select one", ref))
	if err != nil {
		r.log.Debug("selection failed", "ref", ref, "error", err)
		return nil, ambiguous
	}
	return selected, nil
}

// ListArtifacts returns every deployable artifact in the build output
func (r *Repository) ListArtifacts(ctx context.Context) ([]*models.Contract, error) {
	if err := r.ensureIndexed(); err != nil {
		return nil, err
	}

	contracts := make([]*models.Contract, 0, len(r.byKey))
	for _, contract := range r.byKey {
		contracts = append(contracts, contract)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].Key() < contracts[j].Key()
	})
	return contracts, nil
}

func (r *Repository) ensureIndexed() error {
	r.once.Do(func() {
		r.indexErr = r.index()
	})
	return r.indexErr
}

// index walks the build directory once. A missing directory yields an empty
// index so that lookups fail with ArtifactNotFoundError.
func (r *Repository) index() error {
	r.byKey = make(map[string]*models.Contract)
	r.byName = make(map[string][]*models.Contract)

	if _, err := os.Stat(r.buildDir); errors.Is(err, fs.ErrNotExist) {
		r.log.Warn("build output directory does not exist", "dir", r.buildDir)
		return nil
	}

	err := filepath.WalkDir(r.buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" || d.Name() == "cache" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		return r.processArtifact(path)
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts in %s: %w", r.buildDir, err)
	}

	r.log.Debug("indexed artifacts", "dir", r.buildDir, "count", len(r.byKey))
	return nil
}

// processArtifact adds a single artifact file to the index
func (r *Repository) processArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		r.log.Debug("skipping unparsable artifact", "path", path, "error", err)
		return nil
	}

	// Interfaces, abstract contracts and non-artifact JSON have no bytecode
	code := strings.TrimSpace(string(artifact.Bytecode))
	if len(artifact.ABI) == 0 || code == "" || code == "0x" {
		return nil
	}

	// Foundry does not record names in the artifact; derive them from the
	// out/<Source>.sol/<Name>.json layout
	if artifact.ContractName == "" {
		artifact.ContractName = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if artifact.SourceName == "" {
		artifact.SourceName = filepath.Base(filepath.Dir(path))
	}

	contract := &models.Contract{
		Name:         artifact.ContractName,
		SourceName:   artifact.SourceName,
		ArtifactPath: path,
		Artifact:     &artifact,
	}

	key := contract.Key()
	if _, exists := r.byKey[key]; exists {
		return nil
	}
	r.byKey[key] = contract
	r.byName[contract.Name] = append(r.byName[contract.Name], contract)
	return nil
}

// suggest returns the closest contract names to ref
func (r *Repository) suggest(ref string) []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var suggestions []string
	for _, match := range fuzzy.Find(ref, names) {
		suggestions = append(suggestions, match.Str)
		if len(suggestions) == maxSuggestions {
			return suggestions
		}
	}

	// Case mismatches are not fuzzy matches when the pattern is longer
	for _, name := range names {
		if strings.EqualFold(name, ref) && !lo.Contains(suggestions, name) {
			suggestions = append(suggestions, name)
		}
	}
	return suggestions
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
