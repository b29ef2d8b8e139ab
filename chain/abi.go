package chain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EncodeFunctionCall packs a function call from a JSON ABI, a function name,
// and JSON-decoded arguments into 0x-prefixed call data.
func EncodeFunctionCall(abiJSON, function string, args []interface{}) (map[string]string, error) {
	parsedABI, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	method, ok := parsedABI.Methods[function]
	if !ok {
		return nil, fmt.Errorf("function %q not found in ABI", function)
	}
	if len(args) != len(method.Inputs) {
		return nil, fmt.Errorf("function %q expects %d argument(s), got %d", function, len(method.Inputs), len(args))
	}

	packArgs := make([]interface{}, len(args))
	for i, arg := range args {
		coerced, err := coerceArg(method.Inputs[i].Type, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, method.Inputs[i].Type.String(), err)
		}
		packArgs[i] = coerced
	}

	data, err := parsedABI.Pack(function, packArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack arguments: %w", err)
	}

	return map[string]string{
		"function": method.Sig,
		"data":     hexutil.Encode(data),
	}, nil
}

// DecodeFunctionResult unpacks the return data of a function call into
// JSON-friendly values.
func DecodeFunctionResult(abiJSON, function, dataHex string) (map[string]interface{}, error) {
	parsedABI, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	method, ok := parsedABI.Methods[function]
	if !ok {
		return nil, fmt.Errorf("function %q not found in ABI", function)
	}

	data, err := ParseHexData(dataHex)
	if err != nil {
		return nil, err
	}

	values, err := parsedABI.Unpack(function, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	normalized := make([]interface{}, len(values))
	for i, v := range values {
		normalized[i] = normalizeValue(v)
	}

	return map[string]interface{}{
		"function": method.Sig,
		"values":   normalized,
	}, nil
}

// coerceArg converts a JSON-decoded argument into the Go type abi.Pack
// expects for the given ABI type.
func coerceArg(t abi.Type, arg interface{}) (interface{}, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := arg.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("expected hex address string, got %v", arg)
		}
		return common.HexToAddress(s), nil

	case abi.UintTy, abi.IntTy:
		n, err := coerceBig(arg)
		if err != nil {
			return nil, err
		}
		return shrinkInt(t, n)

	case abi.BoolTy:
		b, ok := arg.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %v", arg)
		}
		return b, nil

	case abi.StringTy:
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %v", arg)
		}
		return s, nil

	case abi.BytesTy:
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("expected hex string, got %v", arg)
		}
		return ParseHexData(s)

	case abi.FixedBytesTy:
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("expected hex string, got %v", arg)
		}
		data, err := ParseHexData(s)
		if err != nil {
			return nil, err
		}
		if len(data) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(data))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(data))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := arg.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected array, got %v", arg)
		}
		if t.T == abi.ArrayTy && len(items) != t.Size {
			return nil, fmt.Errorf("expected %d element(s), got %d", t.Size, len(items))
		}
		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(t.GetType(), len(items), len(items))
		} else {
			out = reflect.New(t.GetType()).Elem()
		}
		for i, item := range items {
			coerced, err := coerceArg(*t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(coerced))
		}
		return out.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported ABI type: %s", t.String())
	}
}

func coerceBig(arg interface{}) (*big.Int, error) {
	switch v := arg.(type) {
	case string:
		return ParseBig(v)
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("expected integer, got %v", v)
		}
		return big.NewInt(int64(v)), nil
	case json.Number:
		n := new(big.Int)
		if _, ok := n.SetString(v.String(), 10); !ok {
			return nil, fmt.Errorf("invalid integer: %s", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("expected integer or decimal string, got %v", arg)
	}
}

// shrinkInt converts a big.Int to the exact-width Go integer abi.Pack expects
// for sizes of 64 bits and below; larger sizes stay *big.Int.
func shrinkInt(t abi.Type, n *big.Int) (interface{}, error) {
	if t.Size > 64 {
		return n, nil
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s out of range for uint%d", n, t.Size)
		}
		u := n.Uint64()
		switch t.Size {
		case 8:
			return uint8(u), nil
		case 16:
			return uint16(u), nil
		case 32:
			return uint32(u), nil
		case 64:
			return u, nil
		}
	} else {
		if !n.IsInt64() {
			return nil, fmt.Errorf("value %s out of range for int%d", n, t.Size)
		}
		i := n.Int64()
		switch t.Size {
		case 8:
			return int8(i), nil
		case 16:
			return int16(i), nil
		case 32:
			return int32(i), nil
		case 64:
			return i, nil
		}
	}

	// Non-standard widths (uint24, int48, ...) are packed as *big.Int.
	return n, nil
}

// normalizeValue converts unpacked ABI values into JSON-friendly forms:
// big integers to decimal strings, addresses and byte slices to hex.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case *big.Int:
		return val.String()
	case common.Address:
		return val.Hex()
	case common.Hash:
		return val.Hex()
	case []byte:
		return hexutil.Encode(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		// [N]byte fixed-size values render as hex.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalizeValue(rv.Index(i).Interface())
		}
		return out
	}

	return v
}
