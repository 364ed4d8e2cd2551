package errors

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"strconv"
	"strings"
	"testing"
)

// TestErrorCodesAreUnique parses the current package's source files,
// finds all vars initialized with an Error{...} composite literal,
// pulls out the Code field, and fails if there are duplicates.
func TestErrorCodesAreUnique(t *testing.T) {
	// Reflection can't list all package-level vars,
	// so the only way is to scan the package's AST.

	fset := token.NewFileSet()

	pkgs, err := parser.ParseDir(fset, ".", func(info fs.FileInfo) bool {
		name := info.Name()
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	}, 0)
	if err != nil {
		t.Fatalf("parse dir: %v", err)
	}

	pkg, ok := pkgs["errors"]
	if !ok {
		t.Fatalf("package 'errors' not found")
	}

	type occ struct {
		varName string
		pos     token.Position
	}
	byCode := map[int][]occ{}

	for _, f := range pkg.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			gd, ok := n.(*ast.GenDecl)
			if !ok || gd.Tok != token.VAR {
				return true
			}
			for _, spec := range gd.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for i, name := range vs.Names {
					if i >= len(vs.Values) {
						continue
					}
					cl, ok := vs.Values[i].(*ast.CompositeLit)
					if !ok {
						continue
					}
					ident, ok := cl.Type.(*ast.Ident)
					if !ok || ident.Name != "Error" {
						continue
					}
					for _, elt := range cl.Elts {
						kv, ok := elt.(*ast.KeyValueExpr)
						if !ok {
							continue
						}
						key, ok := kv.Key.(*ast.Ident)
						if !ok || key.Name != "Code" {
							continue
						}
						lit, ok := kv.Value.(*ast.BasicLit)
						if !ok || lit.Kind != token.INT {
							continue
						}
						code, err := strconv.Atoi(lit.Value)
						if err != nil {
							t.Fatalf("parse code of %s: %v", name.Name, err)
						}
						byCode[code] = append(byCode[code], occ{
							varName: name.Name,
							pos:     fset.Position(lit.Pos()),
						})
					}
				}
			}
			return true
		})
	}

	if len(byCode) == 0 {
		t.Fatal("no Error composite literals found")
	}

	for code, occs := range byCode {
		if len(occs) > 1 {
			names := make([]string, 0, len(occs))
			for _, o := range occs {
				names = append(names, o.varName+" ("+o.pos.String()+")")
			}
			t.Errorf("error code %d used more than once: %s", code, strings.Join(names, ", "))
		}
	}
}
