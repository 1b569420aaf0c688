// Package queryhints implements PILWIT's built-in prover-query helpers
// (binary_decompose, byte_decompose, inverse_or_zero): deterministic
// functions a PIL program's query expressions can invoke without the host
// needing to implement them itself.
//
// The registration idiom is lifted directly from gnark's own hint registry
// (std/algebra/emulated/fields_bls12381/hints.go): a package-level init()
// calls RegisterHint once per built-in, by name, and GetHints returns a copy
// of the resulting registry. Hint is a type alias
// for consensys/gnark's constraint/solver.Hint rather than a lookalike, so
// the same init() also feeds gnark's own global solver registry, and a host
// that bridges a query into circuit-land can reach these hints through
// solver.GetRegisteredHint by name unmodified.
package queryhints

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark/constraint/solver"
)

// Hint is consensys/gnark's constraint/solver.Hint.
type Hint = solver.Hint

var (
	mu       sync.RWMutex
	registry = map[string]Hint{}
)

func init() {
	RegisterHint("binary_decompose", binaryDecomposeHint)
	RegisterHint("byte_decompose", byteDecomposeHint)
	RegisterHint("inverse_or_zero", inverseOrZeroHint)
	solver.RegisterHint(binaryDecomposeHint, byteDecomposeHint, inverseOrZeroHint)
}

// RegisterHint adds hint under name, overwriting any previous registration
// of the same name (mirrors solver.RegisterHint's last-write-wins behavior).
func RegisterHint(name string, hint Hint) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = hint
}

// Lookup returns the hint registered under name, if any.
func Lookup(name string) (Hint, bool) {
	mu.RLock()
	defer mu.RUnlock()
	h, ok := registry[name]
	return h, ok
}

// GetHints returns every built-in hint, for callers that want to register
// them with an external registry (e.g. gnark's solver package, if a host
// bridges query hints into a circuit).
func GetHints() map[string]Hint {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]Hint, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}

// binaryDecomposeHint decomposes in[0] into out's bits, least-significant
// first; len(out) bounds the decomposition width.
func binaryDecomposeHint(mod *big.Int, in []*big.Int, out []*big.Int) error {
	if len(in) != 1 {
		return fmt.Errorf("queryhints: binary_decompose takes exactly one input")
	}
	v := new(big.Int).Set(in[0])
	for i := range out {
		bit := new(big.Int).SetUint64(uint64(v.Bit(0)))
		out[i] = bit
		v.Rsh(v, 1)
	}
	if v.Sign() != 0 {
		return fmt.Errorf("queryhints: binary_decompose input does not fit in %d bits", len(out))
	}
	return nil
}

// byteDecomposeHint decomposes in[0] into out's bytes, least-significant
// first; len(out) bounds the decomposition width.
func byteDecomposeHint(mod *big.Int, in []*big.Int, out []*big.Int) error {
	if len(in) != 1 {
		return fmt.Errorf("queryhints: byte_decompose takes exactly one input")
	}
	v := new(big.Int).Set(in[0])
	byteMask := big.NewInt(0xff)
	for i := range out {
		b := new(big.Int).And(v, byteMask)
		out[i] = b
		v.Rsh(v, 8)
	}
	if v.Sign() != 0 {
		return fmt.Errorf("queryhints: byte_decompose input does not fit in %d bytes", len(out))
	}
	return nil
}

// inverseOrZeroHint returns in[0]'s modular inverse, or zero if in[0] is
// zero — the standard "is_zero" gadget helper value.
func inverseOrZeroHint(mod *big.Int, in []*big.Int, out []*big.Int) error {
	if len(in) != 1 || len(out) != 1 {
		return fmt.Errorf("queryhints: inverse_or_zero takes one input and one output")
	}
	if in[0].Sign() == 0 {
		out[0] = big.NewInt(0)
		return nil
	}
	inv := new(big.Int).ModInverse(in[0], mod)
	if inv == nil {
		return fmt.Errorf("queryhints: %s has no inverse mod %s", in[0], mod)
	}
	out[0] = inv
	return nil
}
