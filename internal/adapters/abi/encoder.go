package abi

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/models"
	"github.com/zkcult/stakedeploy/internal/usecase"
	"github.com/zkcult/stakedeploy/pkg/units"
)

// Encoder coerces plan arguments to constructor ABI types and encodes them
type Encoder struct {
	now func() time.Time
	log *slog.Logger
}

// NewEncoder creates a new constructor argument encoder
func NewEncoder(log *slog.Logger) *Encoder {
	return &Encoder{now: time.Now, log: log.With("component", "abi")}
}

// Prepare binds a request to its artifact: the constructor arguments are
// coerced and ABI-encoded, and the creation bytecode is decoded
func (e *Encoder) Prepare(ctx context.Context, contract *models.Contract, request *models.DeploymentRequest) (*models.PreparedDeployment, error) {
	if contract.Artifact == nil {
		return nil, fmt.Errorf("contract %s has no loaded artifact", contract.Name)
	}

	parsed, err := contract.Artifact.ParsedABI()
	if err != nil {
		return nil, err
	}
	bytecode, err := contract.Artifact.CreationCode()
	if err != nil {
		return nil, err
	}

	args, err := CoerceArguments(parsed.Constructor.Inputs, request.Args, e.now())
	if err != nil {
		return nil, fmt.Errorf("%s constructor: %w", contract.Name, err)
	}

	encoded, err := parsed.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s constructor arguments: %w", contract.Name, err)
	}

	if request.Value != nil && request.Value.Sign() > 0 && !parsed.Constructor.IsPayable() {
		return nil, fmt.Errorf("%s constructor is not payable but value %s was requested", contract.Name, request.Value)
	}

	e.log.Debug("encoded constructor arguments",
		"contract", contract.Name,
		"args", len(args),
		"encoded", hexutil.Encode(encoded))

	return &models.PreparedDeployment{
		Request:     request,
		Contract:    contract,
		ABI:         parsed,
		Bytecode:    bytecode,
		Args:        args,
		EncodedArgs: encoded,
	}, nil
}

// CoerceArguments converts raw plan values to the Go types go-ethereum packs
// for each input
func CoerceArguments(inputs abi.Arguments, raw []any, now time.Time) ([]any, error) {
	if len(raw) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(raw))
	}

	args := make([]any, len(inputs))
	for i, input := range inputs {
		value, err := coerce(input.Type, raw[i], now)
		if err != nil {
			name := input.Name
			if name == "" {
				name = "_"
			}
			return nil, fmt.Errorf("argument %d (%s %s): %w", i, input.Type.String(), name, err)
		}
		args[i] = value
	}
	return args, nil
}

func coerce(t abi.Type, value any, now time.Time) (any, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := value.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAddress, value)
		}
		return common.HexToAddress(s), nil

	case abi.UintTy, abi.IntTy:
		n, err := toBigInt(value, now)
		if err != nil {
			return nil, err
		}
		return fitInteger(t, n)

	case abi.BoolTy:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("invalid bool %q", v)
			}
			return b, nil
		}
		return nil, fmt.Errorf("invalid bool %v", value)

	case abi.StringTy:
		switch v := value.(type) {
		case string:
			return v, nil
		case []any, map[string]any, nil:
			return nil, fmt.Errorf("expected a string, got %T", value)
		default:
			return fmt.Sprint(v), nil
		}

	case abi.BytesTy:
		return toBytes(value)

	case abi.FixedBytesTy:
		b, err := toBytes(value)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a list, got %T", value)
		}
		if t.T == abi.ArrayTy && len(items) != t.Size {
			return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
		}

		var out reflect.Value
		if t.T == abi.ArrayTy {
			out = reflect.New(t.GetType()).Elem()
		} else {
			out = reflect.MakeSlice(t.GetType(), len(items), len(items))
		}
		for i, item := range items {
			elem, err := coerce(*t.Elem, item, now)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(elem))
		}
		return out.Interface(), nil
	}

	return nil, fmt.Errorf("unsupported constructor argument type %s", t.String())
}

// toBigInt accepts YAML integers, decimal or 0x strings, unit amounts
// ("0.001 ether") and "now", "now+<duration>", "now-<duration>" timestamps
func toBigInt(value any, now time.Time) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		// YAML decodes integers past the int64/uint64 range as floats
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return nil, fmt.Errorf("number %v is not an exact integer, quote it as a string", v)
		}
		return big.NewInt(int64(v)), nil
	case string:
		return parseIntString(strings.TrimSpace(v), now)
	}
	return nil, fmt.Errorf("invalid integer %v (%T)", value, value)
}

func parseIntString(s string, now time.Time) (*big.Int, error) {
	switch {
	case s == "":
		return nil, fmt.Errorf("empty integer")

	case strings.HasPrefix(s, "now"):
		ts := now
		if rest := strings.TrimSpace(strings.TrimPrefix(s, "now")); rest != "" {
			sign := time.Duration(1)
			switch rest[0] {
			case '+':
			case '-':
				sign = -1
			default:
				return nil, fmt.Errorf("invalid timestamp expression %q", s)
			}
			d, err := time.ParseDuration(strings.TrimSpace(rest[1:]))
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp expression %q: %w", s, err)
			}
			ts = ts.Add(sign * d)
		}
		return big.NewInt(ts.Unix()), nil

	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		n, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return nil, fmt.Errorf("invalid hex integer %q", s)
		}
		return n, nil
	}

	if _, _, ok := units.SplitAmount(s); ok {
		return units.ParseAmount(s)
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

// fitInteger range-checks n and returns the Go type go-ethereum expects for
// the integer width: exact types for 8/16/32/64 bits, *big.Int otherwise
func fitInteger(t abi.Type, n *big.Int) (any, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for %s", n, t.String())
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
		switch t.Size {
		case 8:
			return uint8(n.Uint64()), nil
		case 16:
			return uint16(n.Uint64()), nil
		case 32:
			return uint32(n.Uint64()), nil
		case 64:
			return n.Uint64(), nil
		}
		return n, nil
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	minimum := new(big.Int).Neg(limit)
	if n.Cmp(minimum) < 0 || n.Cmp(limit) >= 0 {
		return nil, fmt.Errorf("value %s overflows %s", n, t.String())
	}
	switch t.Size {
	case 8:
		return int8(n.Int64()), nil
	case 16:
		return int16(n.Int64()), nil
	case 32:
		return int32(n.Int64()), nil
	case 64:
		return n.Int64(), nil
	}
	return n, nil
}

func toBytes(value any) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected a hex string, got %T", value)
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" {
		return []byte{}, nil
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}

var _ usecase.ArgumentEncoder = (*Encoder)(nil)
