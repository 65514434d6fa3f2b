package ops

import (
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradtape/internal/tensor"
)

// centralDiff approximates f'(x) by finite differences.
func centralDiff(f func(float64) float64, x float64) float64 {
	const h = 1e-6
	return (f(x+h) - f(x-h)) / (2 * h)
}

func TestScalarDiv(t *testing.T) {
	op := ScalarDiv{Scalar: 2.0}

	assert.Equal(t, 3.0, op.F(6.0))
	assert.Equal(t, 0.5, op.DF(6.0))
	// Upstream gradient 1 times the local partial.
	assert.Equal(t, 0.5, 1.0*op.DF(6.0))
}

func TestDiv(t *testing.T) {
	op := Div{}

	assert.Equal(t, 3.0, op.F(6.0, 2.0))
	assert.Equal(t, 0.5, op.DFDX(6.0, 2.0))
	assert.Equal(t, -1.5, op.DFDY(6.0, 2.0))
}

func TestUnaryKernelsMatchFiniteDifferences(t *testing.T) {
	tests := []struct {
		name string
		op   tensor.UnaryDerivative
		x    float64
	}{
		{"div_scalar", ScalarDiv{Scalar: -4}, 1.3},
		{"mul_scalar", ScalarMul{Scalar: 2.5}, -0.7},
		{"add_scalar", ScalarAdd{Scalar: 3}, 0.2},
		{"neg", Neg{}, 1.1},
		{"exp", Exp{}, 0.4},
		{"log", Log{}, 2.2},
		{"sqrt", Sqrt{}, 3.0},
		{"pow", Pow{Exponent: 3}, 1.5},
		{"tanh", Tanh{}, -0.3},
		{"sigmoid", Sigmoid{}, 0.8},
		{"relu_positive", ReLU{}, 0.9},
		{"relu_negative", ReLU{}, -0.9},
		{"rsqrt", Rsqrt{}, 2.0},
		{"sin", Sin{}, 0.6},
		{"cos", Cos{}, 0.6},
		{"silu", SiLU{}, -1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, centralDiff(tt.op.F, tt.x), tt.op.DF(tt.x), 1e-5)
		})
	}
}

func TestBinaryKernelsMatchFiniteDifferences(t *testing.T) {
	tests := []struct {
		name string
		op   tensor.BinaryDerivative
		x, y float64
	}{
		{"div", Div{}, 1.7, -0.6},
		{"mul", Mul{}, 2.0, 3.5},
		{"add", Add{}, -1.0, 4.0},
		{"sub", Sub{}, 0.3, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx := centralDiff(func(v float64) float64 { return tt.op.F(v, tt.y) }, tt.x)
			dy := centralDiff(func(v float64) float64 { return tt.op.F(tt.x, v) }, tt.y)
			assert.InDelta(t, dx, tt.op.DFDX(tt.x, tt.y), 1e-5)
			assert.InDelta(t, dy, tt.op.DFDY(tt.x, tt.y), 1e-5)
		})
	}
}

func TestSigmoidIsStableForLargeInputs(t *testing.T) {
	op := Sigmoid{}
	assert.Equal(t, 0.0, op.F(-1000))
	assert.Equal(t, 1.0, op.F(1000))
	assert.False(t, math.IsNaN(op.DF(-1000)))
}

func TestPowZeroExponent(t *testing.T) {
	op := Pow{Exponent: 0}
	assert.Equal(t, 1.0, op.F(5))
	assert.Equal(t, 0.0, op.DF(5))
}

func TestKernelNames(t *testing.T) {
	named := []tensor.Named{ScalarDiv{}, Div{}, Mul{}, Add{}, Sub{}, Neg{}, Exp{}, Log{}, Tanh{},
		Sqrt{}, Pow{}, Sigmoid{}, ReLU{}, Rsqrt{}, Sin{}, Cos{}, SiLU{}, ScalarAdd{}, ScalarMul{}}
	seen := map[string]bool{}
	for _, n := range named {
		assert.NotEmpty(t, n.Name())
		assert.False(t, seen[n.Name()], "duplicate name %q", n.Name())
		seen[n.Name()] = true
	}
}

func TestExportedMethodsDocumented(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, name, nil, parser.ParseComments)
		require.NoError(t, err)

		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || !fn.Name.IsExported() {
				continue
			}
			assert.NotNil(t, fn.Doc, "%s: method %s has no doc comment", name, fn.Name.Name)
		}
	}
}
