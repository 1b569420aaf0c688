package affine

import (
	"fmt"
	"math/big"

	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/pil"
)

// evalBigIntOp evaluates the bitwise/modulo/power operators on the
// canonical big.Int representatives of two constant field elements. These
// operators only ever appear in PIL source applied to fully-known operands
// (they have no affine/linear meaning), so by the time we're here both a
// and b are guaranteed constant.
func evalBigIntOp(f field.Factory, op pil.BinOp, a, b *big.Int) (field.Element, error) {
	var out big.Int
	switch op {
	case pil.BitAnd:
		out.And(a, b)
	case pil.BitOr:
		out.Or(a, b)
	case pil.BitXor:
		out.Xor(a, b)
	case pil.Shl:
		out.Lsh(a, uint(b.Uint64()))
	case pil.Shr:
		out.Rsh(a, uint(b.Uint64()))
	case pil.Mod:
		if b.Sign() == 0 {
			return nil, fmt.Errorf("affine: modulo by zero")
		}
		out.Mod(a, b)
	case pil.Pow:
		out.Exp(a, b, f.Modulus())
	default:
		return nil, fmt.Errorf("affine: unsupported big-int operator %v", op)
	}
	return f.FromBigInt(&out), nil
}
