package artifacts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
)

const constructorABI = `[{"type":"constructor","inputs":[{"name":"zkCult","type":"address"}],"stateMutability":"nonpayable"}]`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func hardhatArtifact(name, source, bytecode string) string {
	return `{"_format":"hh-zksolc-artifact-1","contractName":"` + name + `","sourceName":"` + source +
		`","abi":` + constructorABI + `,"bytecode":"` + bytecode + `","factoryDeps":{}}`
}

func newTestRepository(t *testing.T, dir string, selector *mockSelector) *Repository {
	t.Helper()
	cfg := &config.RuntimeConfig{ArtifactsDir: dir}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if selector == nil {
		return NewRepository(cfg, nil, logger)
	}
	return NewRepository(cfg, selector, logger)
}

type mockSelector struct {
	pick  int
	err   error
	calls int
}

func (m *mockSelector) SelectContract(ctx context.Context, contracts []*models.Contract, prompt string) (*models.Contract, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return contracts[m.pick], nil
}

func setupBuildDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "artifacts-zk")

	writeFile(t, filepath.Join(dir, "contracts/zkCultStakingPool.sol/zkCultStakingPool.json"),
		hardhatArtifact("zkCultStakingPool", "contracts/zkCultStakingPool.sol", "0x6001600c60003960016000f300"))
	writeFile(t, filepath.Join(dir, "contracts/zkCultStakingPool.sol/zkCultStakingPool.dbg.json"),
		`{"_format":"hh-sol-dbg-1","buildInfo":"../../build-info/abc.json"}`)
	writeFile(t, filepath.Join(dir, "contracts/zkCultStakingFactory.sol/zkCultStakingFactory.json"),
		hardhatArtifact("zkCultStakingFactory", "contracts/zkCultStakingFactory.sol", "0x6001600c60003960016000f300"))
	writeFile(t, filepath.Join(dir, "contracts/interfaces/IStakingPool.sol/IStakingPool.json"),
		hardhatArtifact("IStakingPool", "contracts/interfaces/IStakingPool.sol", "0x"))
	writeFile(t, filepath.Join(dir, "build-info/abc.json"), `{"id":"abc","input":{}}`)
	writeFile(t, filepath.Join(dir, "contracts/broken.sol/broken.json"), `{not json`)

	return dir
}

func TestRepository_GetArtifact(t *testing.T) {
	repo := newTestRepository(t, setupBuildDir(t), nil)

	t.Run("by name", func(t *testing.T) {
		contract, err := repo.GetArtifact(context.Background(), "zkCultStakingPool")
		require.NoError(t, err)
		assert.Equal(t, "zkCultStakingPool", contract.Name)
		assert.Equal(t, "contracts/zkCultStakingPool.sol", contract.SourceName)
		require.NotNil(t, contract.Artifact)

		code, err := contract.Artifact.CreationCode()
		require.NoError(t, err)
		assert.Len(t, code, 13)
	})

	t.Run("by source and name", func(t *testing.T) {
		contract, err := repo.GetArtifact(context.Background(), "contracts/zkCultStakingFactory.sol:zkCultStakingFactory")
		require.NoError(t, err)
		assert.Equal(t, "zkCultStakingFactory", contract.Name)
	})

	t.Run("interface is not deployable", func(t *testing.T) {
		_, err := repo.GetArtifact(context.Background(), "IStakingPool")
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("not compiled", func(t *testing.T) {
		_, err := repo.GetArtifact(context.Background(), "zkCultStakingPol")

		var notFound *domain.ArtifactNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "zkCultStakingPol", notFound.Name)
		assert.Contains(t, notFound.Suggestions, "zkCultStakingPool")
		assert.Contains(t, err.Error(), "did you mean")
	})

	t.Run("case mismatch is suggested", func(t *testing.T) {
		_, err := repo.GetArtifact(context.Background(), "ZKCULTSTAKINGFACTORY")

		var notFound *domain.ArtifactNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Contains(t, notFound.Suggestions, "zkCultStakingFactory")
	})
}

func TestRepository_MissingBuildDir(t *testing.T) {
	repo := newTestRepository(t, filepath.Join(t.TempDir(), "artifacts-zk"), nil)

	_, err := repo.GetArtifact(context.Background(), "zkCultStakingPool")
	var notFound *domain.ArtifactNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, notFound.Suggestions)

	list, err := repo.ListArtifacts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_FoundryLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(dir, "Token.sol/Token.json"),
		`{"abi":`+constructorABI+`,"bytecode":{"object":"0x6001600c60003960016000f300","linkReferences":{}},"deployedBytecode":{"object":"0x00"}}`)

	repo := newTestRepository(t, dir, nil)
	contract, err := repo.GetArtifact(context.Background(), "Token")
	require.NoError(t, err)
	assert.Equal(t, "Token.sol", contract.SourceName)
	assert.Equal(t, "Token.sol:Token", contract.Key())
}

func TestRepository_Ambiguous(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	writeFile(t, filepath.Join(dir, "contracts/a/Pool.sol/Pool.json"),
		hardhatArtifact("Pool", "contracts/a/Pool.sol", "0x6001600c60003960016000f300"))
	writeFile(t, filepath.Join(dir, "contracts/b/Pool.sol/Pool.json"),
		hardhatArtifact("Pool", "contracts/b/Pool.sol", "0x6001600c60003960016000f300"))

	t.Run("without selector", func(t *testing.T) {
		repo := newTestRepository(t, dir, nil)
		_, err := repo.GetArtifact(context.Background(), "Pool")

		var ambiguous *domain.AmbiguousArtifactError
		require.ErrorAs(t, err, &ambiguous)
		assert.ElementsMatch(t, []string{"contracts/a/Pool.sol:Pool", "contracts/b/Pool.sol:Pool"}, ambiguous.Matches)
	})

	t.Run("selector picks one", func(t *testing.T) {
		selector := &mockSelector{pick: 1}
		repo := newTestRepository(t, dir, selector)

		contract, err := repo.GetArtifact(context.Background(), "Pool")
		require.NoError(t, err)
		assert.Equal(t, 1, selector.calls)
		assert.Equal(t, "Pool", contract.Name)
	})

	t.Run("selector unavailable", func(t *testing.T) {
		selector := &mockSelector{err: errors.New("interactive selection not available in non-interactive mode")}
		repo := newTestRepository(t, dir, selector)

		_, err := repo.GetArtifact(context.Background(), "Pool")
		var ambiguous *domain.AmbiguousArtifactError
		assert.ErrorAs(t, err, &ambiguous)
	})
}

func TestRepository_ListArtifacts(t *testing.T) {
	repo := newTestRepository(t, setupBuildDir(t), nil)

	list, err := repo.ListArtifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "zkCultStakingFactory", list[0].Name)
	assert.Equal(t, "zkCultStakingPool", list[1].Name)
}
