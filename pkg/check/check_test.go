package check

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

func TestMissingStartStateIsError(t *testing.T) {
	tree := mustParse(t, `
parser MyParser(inout bit<8> x) {
    state not_start {
        transition accept;
    }
}
`)

	bag := Check(tree)
	require.True(t, bag.HasErrors(), "expected an error for a parser with no start state")
}

func TestDeclOnlyParserNeedsNoStartState(t *testing.T) {
	tree := mustParse(t, "parser MyParser(inout bit<8> x);\n")

	bag := Check(tree)
	require.False(t, bag.HasErrors(), "unexpected errors for a decl-only parser: %+v", bag.Entries())
}

func TestUndefinedLvalueRootIsError(t *testing.T) {
	tree := mustParse(t, `
parser MyParser(inout bit<8> x) {
    state start {
        y = 1;
        transition accept;
    }
}
`)

	bag := Check(tree)
	require.True(t, bag.HasErrors())

	found := false

	for _, d := range bag.Entries() {
		if strings.Contains(d.Message, "'y' is undefined") {
			found = true
		}
	}

	require.True(t, found, "expected a \"'y' is undefined\" diagnostic, got %+v", bag.Entries())
}

func TestHeaderMemberLvalueResolves(t *testing.T) {
	tree := mustParse(t, `
header ethernet_t {
    bit<48> dst_addr;
    bit<16> ether_type;
}

parser MyParser(inout ethernet_t hdr) {
    state start {
        hdr.ether_type = 0;
        transition accept;
    }
}
`)

	bag := Check(tree)
	require.False(t, bag.HasErrors(), "unexpected errors resolving a valid header member: %+v", bag.Entries())
}

func TestUnknownHeaderMemberIsError(t *testing.T) {
	tree := mustParse(t, `
header ethernet_t {
    bit<48> dst_addr;
}

parser MyParser(inout ethernet_t hdr) {
    state start {
        hdr.bogus_field = 0;
        transition accept;
    }
}
`)

	bag := Check(tree)
	require.True(t, bag.HasErrors(), "expected an error referencing an undeclared header member")
}

func TestLocalVariableVisibleOnlyAfterDeclaration(t *testing.T) {
	tree := mustParse(t, `
parser MyParser(inout bit<8> x) {
    state start {
        y = 1;
        bit<8> y = 0;
        transition accept;
    }
}
`)

	bag := Check(tree)
	require.True(t, bag.HasErrors(), "expected the earlier use of y to be undefined, before its declaration")
}

func TestPrimitiveTypeHasNoMembers(t *testing.T) {
	tree := mustParse(t, `
parser MyParser(inout bit<8> x) {
    state start {
        x.field = 1;
        transition accept;
    }
}
`)

	bag := Check(tree)
	require.True(t, bag.HasErrors(), "expected an error indexing a member off a primitive bit<8> value")
}
