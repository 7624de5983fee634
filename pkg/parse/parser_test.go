package parse

import (
	"strings"
	"testing"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
)

func parseSource(t *testing.T, src string) *ast.AST {
	t.Helper()

	lines := strings.Split(src, "\n")

	tree, err := Parse("test.p4", lines, false)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	return tree
}

func TestParseMinimalConstDecl(t *testing.T) {
	tree := parseSource(t, "const bit<8> X = 47;\n")

	if len(tree.Constants) != 1 {
		t.Fatalf("expected 1 constant, got %d", len(tree.Constants))
	}

	c := tree.Constants[0]
	if c.Name != "X" {
		t.Fatalf("expected name X, got %q", c.Name)
	}

	bitType, ok := c.Typ.(*ast.BitType)
	if !ok || bitType.Width != 8 {
		t.Fatalf("expected bit<8>, got %v", c.Typ)
	}

	lit, ok := c.Init.(*ast.IntegerLit)
	if !ok || lit.Value.Int64() != 47 {
		t.Fatalf("expected integer literal 47, got %v", c.Init)
	}
}

func TestParseHeaderAndStructDecls(t *testing.T) {
	tree := parseSource(t, `
header ethernet_t {
    bit<48> dst_addr;
    bit<48> src_addr;
    bit<16> ether_type;
}

struct headers_t {
    ethernet_t ethernet;
}
`)

	if len(tree.Headers) != 1 || len(tree.Headers[0].Members) != 3 {
		t.Fatalf("unexpected headers: %+v", tree.Headers)
	}

	if tree.Headers[0].Members[0].Name != "dst_addr" {
		t.Fatalf("expected first member dst_addr, got %q", tree.Headers[0].Members[0].Name)
	}

	if len(tree.Structs) != 1 || tree.Structs[0].Members[0].Typ.String() != "ethernet_t" {
		t.Fatalf("unexpected structs: %+v", tree.Structs)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	p := New("test.p4", []string{"1 + 2 * 3;"}, false)

	expr, err := p.parseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("expected top-level '+', got %v", expr)
	}

	rhs, ok := bin.Rhs.(*ast.Binary)
	if !ok || rhs.Op != ast.OpMul {
		t.Fatalf("expected '*' grouped tighter on the right, got %v", bin.Rhs)
	}
}

func TestParseMaskedKeysetFoldsIntoBinaryExpr(t *testing.T) {
	p := New("test.p4", []string{"hdr.flags &&& 0x0F;"}, false)

	keyset, isDefault, err := p.parseKeyset()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if isDefault || len(keyset) != 1 {
		t.Fatalf("expected a single non-wildcard keyset element, got %v (default=%v)", keyset, isDefault)
	}

	bin, ok := keyset[0].(*ast.Binary)
	if !ok || bin.Op != ast.OpMask {
		t.Fatalf("expected a mask binary expression, got %v", keyset[0])
	}
}

func TestParseTransitionIsRejectedOutsideStateBody(t *testing.T) {
	p := New("test.p4", []string{"{ transition accept; }"}, false)

	if _, err := p.parseBlock(); err == nil {
		t.Fatalf("expected parseBlock to reject a transition statement")
	}
}

func TestParseStateBodyAllowsTrailingTransition(t *testing.T) {
	p := New("test.p4", []string{"{ bit<8> x = 1; transition accept; }"}, false)

	body, err := p.parseStateBody()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(body.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(body.Statements))
	}

	transition, ok := body.Statements[1].(*ast.Transition)
	if !ok {
		t.Fatalf("expected the last statement to be a transition, got %T", body.Statements[1])
	}

	ref, ok := transition.Target.(*ast.StateRef)
	if !ok || ref.Name != "accept" {
		t.Fatalf("expected a StateRef to 'accept', got %v", transition.Target)
	}
}

func TestParseSelectWithWildcardCase(t *testing.T) {
	p := New("test.p4", []string{"{ transition select(hdr.version) { 8w4: parse_ipv4; _: reject; } }"}, false)

	body, err := p.parseStateBody()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	transition := body.Statements[0].(*ast.Transition)

	sel, ok := transition.Target.(*ast.Select)
	if !ok || len(sel.Cases) != 2 {
		t.Fatalf("expected a select with 2 cases, got %v", transition.Target)
	}

	if !sel.Cases[1].Default || len(sel.Cases[1].Keyset) != 0 {
		t.Fatalf("expected the second case to be a bare wildcard, got %+v", sel.Cases[1])
	}
}

func TestParseIfElseIfElseChain(t *testing.T) {
	p := New("test.p4", []string{
		"if (a == b) { x = 1; } else if (a == c) { x = 2; } else { x = 3; }",
	}, false)

	stmt, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ifStmt, ok := stmt.(*ast.If)
	if !ok {
		t.Fatalf("expected an If statement, got %T", stmt)
	}

	if len(ifStmt.ElseIfs) != 1 {
		t.Fatalf("expected 1 else-if arm, got %d", len(ifStmt.ElseIfs))
	}

	if ifStmt.Else == nil {
		t.Fatalf("expected a trailing else block")
	}
}

func TestParseControlWithTableAndApply(t *testing.T) {
	tree := parseSource(t, `
control ingress(inout headers_t hdr) {
    action drop() {
        hdr.ethernet.ether_type = 0;
    }

    table forward {
        key = {
            hdr.ethernet.dst_addr: exact;
        }
        actions = { drop; }
        default_action = drop;
        size = 1024;
    }

    apply {
        forward.apply();
    }
}
`)

	if len(tree.Controls) != 1 {
		t.Fatalf("expected 1 control, got %d", len(tree.Controls))
	}

	ctrl := tree.Controls[0]
	if len(ctrl.Actions) != 1 || ctrl.Actions[0].Name != "drop" {
		t.Fatalf("unexpected actions: %+v", ctrl.Actions)
	}

	if len(ctrl.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(ctrl.Tables))
	}

	table := ctrl.Tables[0]
	if len(table.Keys) != 1 || table.Keys[0].MatchKind != ast.MatchExact {
		t.Fatalf("unexpected table keys: %+v", table.Keys)
	}

	if table.DefaultAction != "drop" || table.Size != 1024 {
		t.Fatalf("unexpected default_action/size: %q %d", table.DefaultAction, table.Size)
	}

	if ctrl.ApplyBlock == nil || len(ctrl.ApplyBlock.Statements) != 1 {
		t.Fatalf("expected 1 statement in apply block, got %+v", ctrl.ApplyBlock)
	}
}

func TestParseDeclOnlyParser(t *testing.T) {
	tree := parseSource(t, "parser MyParser<H>(inout H hdr);\n")

	if len(tree.Parsers) != 1 || !tree.Parsers[0].DeclOnly {
		t.Fatalf("expected a single decl-only parser, got %+v", tree.Parsers)
	}
}

func TestParsePackageInstanceAtMostOnce(t *testing.T) {
	lines := strings.Split("MyPackage(ingress()) main;\nMyPackage(ingress()) other;\n", "\n")

	if _, err := Parse("test.p4", lines, false); err == nil {
		t.Fatalf("expected an error for a second package instantiation")
	}
}
