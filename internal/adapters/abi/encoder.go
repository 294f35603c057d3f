package abi

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Encoder packs loosely typed values (as read from YAML plans or JSON) against
// an ABI, converting each value to the Go type go-ethereum expects for its slot.
type Encoder struct{}

// NewEncoder creates a new ABI encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeConstructor returns bytecode followed by the packed constructor arguments
func (e *Encoder) EncodeConstructor(contractABI *abi.ABI, bytecode []byte, args []any) ([]byte, error) {
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("empty bytecode")
	}

	data := make([]byte, len(bytecode))
	copy(data, bytecode)

	if contractABI == nil {
		if len(args) > 0 {
			return nil, fmt.Errorf("constructor: expected 0 arguments, got %d", len(args))
		}
		return data, nil
	}

	values, err := coerceArgs(contractABI.Constructor.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("constructor: %w", err)
	}

	packed, err := contractABI.Pack("", values...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack constructor arguments: %w", err)
	}

	return append(data, packed...), nil
}

// EncodeCall returns the selector and packed arguments for method
func (e *Encoder) EncodeCall(contractABI *abi.ABI, method string, args []any) ([]byte, error) {
	m, ok := contractABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %q not found in ABI", method)
	}

	values, err := coerceArgs(m.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Sig, err)
	}

	data, err := contractABI.Pack(method, values...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", m.Sig, err)
	}
	return data, nil
}

// DecodeCall reverses EncodeCall, returning the method name and its arguments
func (e *Encoder) DecodeCall(contractABI *abi.ABI, data []byte) (string, []any, error) {
	if len(data) < 4 {
		return "", nil, fmt.Errorf("calldata too short: %d bytes", len(data))
	}

	m, err := contractABI.MethodById(data[:4])
	if err != nil {
		return "", nil, err
	}

	values, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return "", nil, fmt.Errorf("failed to unpack %s: %w", m.Sig, err)
	}
	return m.Name, values, nil
}

func coerceArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(inputs) != len(args) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}

	values := make([]any, len(args))
	for i, input := range inputs {
		v, err := Coerce(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		values[i] = v
	}
	return values, nil
}

// Coerce converts v into the Go representation go-ethereum packs for t
func Coerce(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case abi.BoolTy:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			switch strings.ToLower(b) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, fmt.Errorf("expected bool, got %v", v)

	case abi.AddressTy:
		switch a := v.(type) {
		case common.Address:
			return a, nil
		case *common.Address:
			return *a, nil
		case string:
			if !common.IsHexAddress(a) {
				return nil, fmt.Errorf("invalid address %q", a)
			}
			return common.HexToAddress(a), nil
		}
		return nil, fmt.Errorf("expected address, got %T", v)

	case abi.IntTy, abi.UintTy:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return fitInteger(t, n)

	case abi.BytesTy:
		return toBytes(v)

	case abi.FixedBytesTy:
		b, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("value has %d bytes, bytes%d holds %d", len(b), t.Size, t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := toSlice(v)
		if !ok {
			return nil, fmt.Errorf("expected list, got %T", v)
		}
		var out reflect.Value
		if t.T == abi.ArrayTy {
			if len(items) != t.Size {
				return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
			}
			out = reflect.New(t.GetType()).Elem()
		} else {
			out = reflect.MakeSlice(t.GetType(), len(items), len(items))
		}
		for i, item := range items {
			elem, err := Coerce(*t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(elem))
		}
		return out.Interface(), nil

	case abi.TupleTy:
		out := reflect.New(t.GetType()).Elem()
		switch fields := v.(type) {
		case map[string]any:
			for i, name := range t.TupleRawNames {
				raw, ok := fields[name]
				if !ok {
					return nil, fmt.Errorf("missing tuple field %q", name)
				}
				elem, err := Coerce(*t.TupleElems[i], raw)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				out.Field(i).Set(reflect.ValueOf(elem))
			}
		default:
			items, ok := toSlice(v)
			if !ok || len(items) != len(t.TupleElems) {
				return nil, fmt.Errorf("expected tuple with %d fields, got %v", len(t.TupleElems), v)
			}
			for i, raw := range items {
				elem, err := Coerce(*t.TupleElems[i], raw)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", i, err)
				}
				out.Field(i).Set(reflect.ValueOf(elem))
			}
		}
		return out.Interface(), nil
	}

	return nil, fmt.Errorf("unsupported ABI type %s", t.String())
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return new(big.Int).Set(n), nil
	case big.Int:
		return new(big.Int).Set(&n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case float64:
		if math.IsInf(n, 0) || n != math.Trunc(n) {
			return nil, fmt.Errorf("expected integer, got %v", n)
		}
		b, _ := big.NewFloat(n).Int(nil)
		return b, nil
	case json.Number:
		return parseBigInt(n.String())
	case string:
		return parseBigInt(n)
	}
	return nil, fmt.Errorf("expected integer, got %T", v)
}

func parseBigInt(s string) (*big.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

// fitInteger range-checks n for t and converts it to the sized Go integer
// go-ethereum uses for 8 to 64 bit slots
func fitInteger(t abi.Type, n *big.Int) (any, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s out of range for uint%d", n, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s out of range for int%d", n, t.Size)
		}
	}

	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return n, nil
	}

	out := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}

func toBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		if b == "" || b == "0x" {
			return []byte{}, nil
		}
		decoded, err := hexutil.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("invalid hex bytes %q: %w", b, err)
		}
		return decoded, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, nil
	}
	return nil, fmt.Errorf("expected bytes, got %T", v)
}

func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
