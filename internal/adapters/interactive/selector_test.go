package interactive

import (
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
)

func TestConfirm_Unattended(t *testing.T) {
	for _, cfg := range []*config.RuntimeConfig{{NonInteractive: true}, {JSON: true}} {
		ok, err := NewSelectorAdapter(cfg).Confirm(context.Background(), "Deploy 2 contract(s)")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestSelectContract_NonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	contracts := []*models.Contract{{Name: "Pool", SourceName: "a/Pool.sol"}, {Name: "Pool", SourceName: "b/Pool.sol"}}

	_, err := s.SelectContract(context.Background(), contracts, "select")
	assert.ErrorContains(t, err, "non-interactive")
}

func TestSelectContract_SingleMatch(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{})
	only := &models.Contract{Name: "zkCultStakingPool"}

	got, err := s.SelectContract(context.Background(), []*models.Contract{only}, "select")
	require.NoError(t, err)
	assert.Same(t, only, got)

	_, err = s.SelectContract(context.Background(), nil, "select")
	assert.Error(t, err)
}

func TestFuzzySearch(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	options := formatContractOptions([]*models.Contract{
		{Name: "zkCultStakingPool", SourceName: "contracts/zkCultStakingPool.sol"},
		{Name: "zkCultStakingFactory", SourceName: "contracts/zkCultStakingFactory.sol"},
	})
	assert.Equal(t, "zkCultStakingPool (contracts/zkCultStakingPool.sol)", options[0])

	search := createFuzzySearchFunc(options)
	assert.True(t, search("", 0))
	assert.True(t, search("factory", 1))
	assert.False(t, search("factory", 0))
	assert.True(t, search("zcsp", 0))
}
