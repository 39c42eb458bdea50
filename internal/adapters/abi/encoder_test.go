package abi

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/models"
)

const poolABI = `[{"type":"constructor","stateMutability":"nonpayable","inputs":[
	{"name":"_nftCollection","type":"address"},
	{"name":"_rewardToken","type":"address"},
	{"name":"_nftValueToken","type":"address"},
	{"name":"_amountOfValueToken","type":"uint256"},
	{"name":"_nftTokenLogo","type":"string"},
	{"name":"_rewardTokenLogo","type":"string"},
	{"name":"_websiteURL","type":"string"},
	{"name":"_lockDuration","type":"uint256"},
	{"name":"_rewardPerDay","type":"uint256"},
	{"name":"_poolOwner","type":"address"},
	{"name":"_endTime","type":"uint256"}]}]`

const factoryABI = `[{"type":"constructor","stateMutability":"nonpayable","inputs":[
	{"name":"_zkCult","type":"address"},
	{"name":"_zkCultAmount","type":"uint256"},
	{"name":"_ethAmount","type":"uint256"}]}]`

func testContract(name, abiJSON string) *models.Contract {
	return &models.Contract{
		Name: name,
		Artifact: &models.Artifact{
			ContractName: name,
			ABI:          []byte(abiJSON),
			Bytecode:     "0x6001600c60003960016000f300",
		},
	}
}

func newTestEncoder() *Encoder {
	e := NewEncoder(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return e
}

func TestEncoder_PrepareFactory(t *testing.T) {
	request := &models.DeploymentRequest{
		Name:     "factory",
		Artifact: "zkCultStakingFactory",
		Args:     []any{"0xc9d249fe7994d0f1787741264Bb161B0801B7f75", "0 ether", "0.001 ether"},
	}

	prepared, err := newTestEncoder().Prepare(context.Background(), testContract("zkCultStakingFactory", factoryABI), request)
	require.NoError(t, err)

	want := "0x" +
		"000000000000000000000000c9d249fe7994d0f1787741264bb161b0801b7f75" +
		strings.Repeat("0", 64) +
		strings.Repeat("0", 51) + "38d7ea4c68000"
	assert.Equal(t, want, hexutil.Encode(prepared.EncodedArgs))

	assert.Equal(t, common.HexToAddress("0xc9d249fe7994d0f1787741264Bb161B0801B7f75"), prepared.Args[0])
	assert.Equal(t, big.NewInt(1_000_000_000_000_000), prepared.Args[2])
	assert.Equal(t, append(prepared.Bytecode, prepared.EncodedArgs...), prepared.Data())
	assert.Equal(t, int64(0), prepared.Value().Int64())
}

func TestEncoder_PreparePool(t *testing.T) {
	request := &models.DeploymentRequest{
		Name:     "pool",
		Artifact: "zkCultStakingPool",
		Args: []any{
			"0x7D24d59d5968677F31Ab9c25941F6909585965AB",
			"0xB3d6Fb1BC452c6f87875832EEd00e315914969e6",
			"0x5Eb1Da89177A65d4Ab781d83E3eB9E551592183F",
			0,
			"https://example.com/_nftTokenLogo.png",
			"https://example.com/_rewardTokenLogo.png",
			"https://zkcult.monster",
			1,
			1,
			"0x8afACaec5DAd5F03cB3913eA2Ab1609D937b3ff3",
			"now+1h",
		},
	}

	prepared, err := newTestEncoder().Prepare(context.Background(), testContract("zkCultStakingPool", poolABI), request)
	require.NoError(t, err)

	// 11 head words, then length and data words of the three strings
	assert.Len(t, prepared.EncodedArgs, (11+(1+2)+(1+2)+(1+1))*32)

	values, err := prepared.ABI.Constructor.Inputs.Unpack(prepared.EncodedArgs)
	require.NoError(t, err)
	assert.Equal(t, "https://zkcult.monster", values[6])
	assert.Equal(t, big.NewInt(1_700_003_600), values[10])
}

func TestEncoder_PrepareErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []any
		value   *big.Int
		wantErr string
	}{
		{name: "wrong arity", args: []any{"0xc9d249fe7994d0f1787741264Bb161B0801B7f75"}, wantErr: "expected 3 arguments, got 1"},
		{name: "bad address", args: []any{"0x1234", 0, 0}, wantErr: domain.ErrInvalidAddress.Error()},
		{name: "negative uint", args: []any{"0xc9d249fe7994d0f1787741264Bb161B0801B7f75", -1, 0}, wantErr: "negative value"},
		{name: "not a number", args: []any{"0xc9d249fe7994d0f1787741264Bb161B0801B7f75", "lots", 0}, wantErr: "invalid integer"},
		{name: "inexact float", args: []any{"0xc9d249fe7994d0f1787741264Bb161B0801B7f75", 1.5, 0}, wantErr: "not an exact integer"},
		{name: "value to non-payable", args: []any{"0xc9d249fe7994d0f1787741264Bb161B0801B7f75", 0, 0}, value: big.NewInt(1), wantErr: "not payable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := &models.DeploymentRequest{Name: "factory", Args: tt.args, Value: tt.value}
			_, err := newTestEncoder().Prepare(context.Background(), testContract("zkCultStakingFactory", factoryABI), request)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEncoder_PrepareArtifactErrors(t *testing.T) {
	contract := testContract("IStakingPool", factoryABI)
	contract.Artifact.Bytecode = "0x"

	_, err := newTestEncoder().Prepare(context.Background(), contract, &models.DeploymentRequest{})
	assert.ErrorContains(t, err, "no creation bytecode")

	_, err = newTestEncoder().Prepare(context.Background(), &models.Contract{Name: "Missing"}, &models.DeploymentRequest{})
	assert.ErrorContains(t, err, "no loaded artifact")
}

func mustType(t *testing.T, typ string) abi.Type {
	t.Helper()
	parsed, err := abi.NewType(typ, "", nil)
	require.NoError(t, err)
	return parsed
}

func TestCoerce(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		typ   string
		value any
		want  any
	}{
		{"uint256", "0.001 ether", big.NewInt(1_000_000_000_000_000)},
		{"uint256", "5 gwei", big.NewInt(5_000_000_000)},
		{"uint256", "0xff", big.NewInt(255)},
		{"uint256", "12345678901234567890123", func() *big.Int { n, _ := new(big.Int).SetString("12345678901234567890123", 10); return n }()},
		{"uint256", "now", big.NewInt(1_700_000_000)},
		{"uint256", "now-24h", big.NewInt(1_700_000_000 - 86_400)},
		{"uint8", 255, uint8(255)},
		{"uint64", uint64(1) << 63, uint64(1) << 63},
		{"uint40", 7, big.NewInt(7)},
		{"int32", -5, int32(-5)},
		{"int256", "-7", big.NewInt(-7)},
		{"bool", "true", true},
		{"bool", false, false},
		{"string", 42, "42"},
		{"bytes", "0xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"bytes4", "deadbeef", [4]byte{0xde, 0xad, 0xbe, 0xef}},
		{"address[]", []any{"0x8afACaec5DAd5F03cB3913eA2Ab1609D937b3ff3"}, []common.Address{common.HexToAddress("0x8afACaec5DAd5F03cB3913eA2Ab1609D937b3ff3")}},
		{"uint256[2]", []any{1, "2 wei"}, [2]*big.Int{big.NewInt(1), big.NewInt(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got, err := coerce(mustType(t, tt.typ), tt.value, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceOverflow(t *testing.T) {
	now := time.Now()

	_, err := coerce(mustType(t, "uint8"), 256, now)
	assert.ErrorContains(t, err, "overflows uint8")

	_, err = coerce(mustType(t, "int8"), -129, now)
	assert.ErrorContains(t, err, "overflows int8")

	_, err = coerce(mustType(t, "bytes4"), "0xdead", now)
	assert.ErrorContains(t, err, "expected 4 bytes")

	_, err = coerce(mustType(t, "uint256[2]"), []any{1}, now)
	assert.ErrorContains(t, err, "expected 2 elements")

	_, err = coerce(mustType(t, "uint256"), "now*2", now)
	assert.ErrorContains(t, err, "invalid timestamp expression")
}
