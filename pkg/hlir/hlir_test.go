package hlir

import (
	"strings"
	"testing"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/parse"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.AST {
	t.Helper()

	tree, err := parse.Parse("test.p4", strings.Split(src, "\n"), false)
	require.NoError(t, err)

	return tree
}

func TestIntegerLiteralTypesAsUnsizedInt128(t *testing.T) {
	tree := mustParse(t, `
parser MyParser(inout bit<8> x) {
    state start {
        x = 5;
        transition accept;
    }
}
`)

	res, bag := Generate(tree)
	require.False(t, bag.HasErrors(), "unexpected errors: %+v", bag.Entries())

	state := tree.Parsers[0].States[0]
	assign := state.Body.Statements[0].(*ast.Assignment)

	typ, ok := res.ExpressionTypes[assign.Value]
	require.True(t, ok, "expected a recorded type for the literal 5")

	it, ok := typ.(*ast.IntType)
	require.True(t, ok, "expected *ast.IntType, got %T", typ)
	require.Equal(t, uint16(128), it.Width)
}

func TestBinaryOperandMismatchIsError(t *testing.T) {
	tree := mustParse(t, `
header h_t {
    bit<8> a;
}

parser MyParser(inout h_t hdr) {
    state start {
        bit<8> y = 8w1;
        bool cond = hdr.a == 8s1;
        transition accept;
    }
}
`)

	_, bag := Generate(tree)
	require.True(t, bag.HasErrors(), "expected an operand type mismatch between bit<8> and int<8>")
}

func TestSliceOutOfRangeIsError(t *testing.T) {
	tree := mustParse(t, `
parser MyParser(inout bit<8> x) {
    state start {
		bit<4> y = x[9:0];
        transition accept;
    }
}
`)

	_, bag := Generate(tree)
	require.True(t, bag.HasErrors(), "expected an out-of-range slice error")
}

func TestSliceNarrowsWidth(t *testing.T) {
	tree := mustParse(t, `
parser MyParser(inout bit<8> x) {
    state start {
		bit<4> y = x[3:0];
        transition accept;
    }
}
`)

	res, bag := Generate(tree)
	require.False(t, bag.HasErrors(), "unexpected errors: %+v", bag.Entries())

	state := tree.Parsers[0].States[0]
	v := state.Body.Statements[0].(*ast.Variable)

	typ, ok := res.ExpressionTypes[v.Init]
	require.True(t, ok, "expected a recorded type for the slice expression")

	bt, ok := typ.(*ast.BitType)
	require.True(t, ok, "expected *ast.BitType, got %T", typ)
	require.Equal(t, uint16(4), bt.Width)
}

func TestHeaderIsValidCallTypesBool(t *testing.T) {
	tree := mustParse(t, `
header h_t {
    bit<8> a;
}

parser MyParser(inout h_t hdr) {
    state start {
        bool v = hdr.isValid();
        transition accept;
    }
}
`)

	res, bag := Generate(tree)
	require.False(t, bag.HasErrors(), "unexpected errors: %+v", bag.Entries())

	state := tree.Parsers[0].States[0]
	v := state.Body.Statements[0].(*ast.Variable)

	typ, ok := res.ExpressionTypes[v.Init]
	require.True(t, ok, "expected a recorded type for hdr.isValid()")
	require.IsType(t, &ast.BoolType{}, typ)
}

func TestActionCallArityMismatchIsError(t *testing.T) {
	tree := mustParse(t, `
control MyControl(inout bit<8> x) {
    action set_x(bit<8> v) {
        x = v;
    }

    apply {
        set_x();
    }
}
`)

	_, bag := Generate(tree)
	require.True(t, bag.HasErrors(), "expected an arity-mismatch error calling set_x with no arguments")
}

func TestTableApplyCallTypesVoid(t *testing.T) {
	tree := mustParse(t, `
control MyControl(inout bit<8> x) {
    action noop() {
    }

    table t {
        key = { x: exact; }
        actions = { noop; }
    }

    apply {
        t.apply();
    }
}
`)

	res, bag := Generate(tree)
	require.False(t, bag.HasErrors(), "unexpected errors: %+v", bag.Entries())

	apply := tree.Controls[0].ApplyBlock.Statements[0].(*ast.CallStmt)

	typ, ok := res.ExpressionTypes[apply.Call]
	require.True(t, ok, "expected a recorded type for t.apply()")
	require.IsType(t, &ast.VoidType{}, typ)
}

func TestUndefinedCalleeIsError(t *testing.T) {
	tree := mustParse(t, `
control MyControl(inout bit<8> x) {
    apply {
        bogus();
    }
}
`)

	_, bag := Generate(tree)
	require.True(t, bag.HasErrors(), "expected an error calling an undeclared action")
}
