package preprocess

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefineSubstitution(t *testing.T) {
	src := "#define WIDTH 8\nheader h_t { bit<WIDTH> f; }\n"

	res, err := Run(src, "t.p4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Lines) != 1 {
		t.Fatalf("expected include/define lines to be consumed, got %v", res.Lines)
	}

	if res.Lines[0] != "header h_t { bit<8> f; }" {
		t.Fatalf("macro not substituted: %q", res.Lines[0])
	}
}

func TestDefineMultilineContinuation(t *testing.T) {
	src := "#define BODY a + \\\nb\nconst int X = BODY;\n"

	res, err := Run(src, "t.p4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Lines[0] != "const int X = a + \nb;" {
		t.Fatalf("unexpected multi-line macro body substitution: %q", res.Lines[0])
	}
}

func TestIncludeRecursive(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "inc.p4"), []byte("const int Y = 1;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	main := filepath.Join(dir, "main.p4")
	src := "#include \"inc.p4\"\nconst int X = 2;\n"

	res, err := Run(src, main)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Lines) != 2 || res.Lines[0] != "const int Y = 1;" || res.Lines[1] != "const int X = 2;" {
		t.Fatalf("unexpected line array: %v", res.Lines)
	}

	if len(res.Elements.Includes) != 1 || res.Elements.Includes[0] != "inc.p4" {
		t.Fatalf("unexpected includes: %v", res.Elements.Includes)
	}
}

func TestIncludeTwiceAppearsTwice(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "inc.p4"), []byte("const int Y = 1;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	main := filepath.Join(dir, "main.p4")
	src := "#include \"inc.p4\"\n#include \"inc.p4\"\n"

	res, err := Run(src, main)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Lines) != 2 {
		t.Fatalf("expected duplicated include content (no include guards), got %v", res.Lines)
	}
}

func TestUnterminatedIncludeIsFatal(t *testing.T) {
	_, err := Run("#include <no_close\n", "t.p4")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestTrailingGarbageAfterIncludeIsFatal(t *testing.T) {
	_, err := Run("#include <a.p4> garbage\n", "t.p4")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestWholeWordSubstitutionDoesNotCorruptLongerIdentifiers(t *testing.T) {
	src := "#define X 1\nconst int XY = 2;\n"

	res, err := Run(src, "t.p4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Lines[0] != "const int XY = 2;" {
		t.Fatalf("macro substitution corrupted a longer identifier: %q", res.Lines[0])
	}
}
