package bn254_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuhtasimTanmoy/pilwit/field"
	"github.com/MuhtasimTanmoy/pilwit/field/bn254"
)

func TestFactoryIdentities(t *testing.T) {
	f := bn254.Factory{}
	require.True(t, f.Zero().IsZero())
	require.True(t, f.One().IsOne())
	require.Equal(t, field.BN254, f.Kind())
}

func TestArithmeticRoundTrip(t *testing.T) {
	a := bn254.New(100)
	b := bn254.New(42)
	sum := a.Add(b)
	back := sum.Sub(b)
	require.Equal(t, a.BigInt(), back.BigInt())
}

func TestInverse(t *testing.T) {
	a := bn254.New(7)
	inv := a.Inverse()
	require.True(t, a.Mul(inv).IsOne())
}

func TestFromBigIntReducesAboveModulus(t *testing.T) {
	f := bn254.Factory{}
	wide := new(big.Int).Add(f.Modulus(), big.NewInt(1))
	v := f.FromBigInt(wide)
	require.Equal(t, big.NewInt(1), v.BigInt())
}
