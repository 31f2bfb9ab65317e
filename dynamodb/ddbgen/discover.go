package ddbgen

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strings"

	"github.com/acksell/ddbtable/dynamodb/schema"
	"golang.org/x/tools/go/packages"
)

// tabledefPath is matched as a suffix so forks and vendored copies work.
const tabledefPath = "dynamodb/tabledef"

// DiscoverResult holds the table types found in a package.
type DiscoverResult struct {
	// PackageName is the Go package name
	PackageName string
	// PackagePath is the import path
	PackagePath string
	// Dir is the scanned directory
	Dir string
	// File holds one descriptor per struct with a tabledef.Table marker, in
	// source order.
	File schema.File
}

// Discover loads the Go package in dir and describes every struct type that
// carries a tabledef.Table marker field. Field types are resolved with
// go/types, so named types and embedded structs from other packages are
// handled the same way tabledef.DescribeStruct handles them at runtime.
func Discover(dir string) (*DiscoverResult, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedSyntax |
			packages.NeedImports,
		Dir: dir,
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("loading package: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found in %s", dir)
	}

	pkg := pkgs[0]
	if len(pkg.GoFiles) == 0 {
		return nil, fmt.Errorf("no Go files found in %s", dir)
	}
	if len(pkg.Errors) > 0 {
		var errs []string
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
		return nil, fmt.Errorf("package errors: %s", strings.Join(errs, "; "))
	}

	result := &DiscoverResult{
		PackageName: pkg.Name,
		PackagePath: pkg.PkgPath,
		Dir:         dir,
	}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.TypeParams != nil {
					continue
				}
				named, st := structOf(pkg.TypesInfo.Defs[ts.Name])
				if st == nil || !hasTableMarker(st) {
					continue
				}
				t := schema.Type{Name: ts.Name.Name}
				describe(&t, st, map[*types.Named]bool{named: true})
				result.File.Types = append(result.File.Types, t)
			}
		}
	}
	return result, nil
}

// structOf returns the named struct type declared by obj, or nil when obj is
// not a struct type declaration.
func structOf(obj types.Object) (*types.Named, *types.Struct) {
	tn, ok := obj.(*types.TypeName)
	if !ok || tn.IsAlias() {
		return nil, nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, nil
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, nil
	}
	return named, st
}

func hasTableMarker(st *types.Struct) bool {
	for i := 0; i < st.NumFields(); i++ {
		if isTableMarker(st.Field(i).Type()) {
			return true
		}
	}
	return false
}

// describe appends the fields of st to t. Embedded structs without a
// dynamodbav name are flattened; one that is already being flattened on the
// current path is skipped.
func describe(t *schema.Type, st *types.Struct, seen map[*types.Named]bool) {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		if isTableMarker(f.Type()) {
			t.Table = &schema.TableMarker{Name: strings.TrimSpace(tag.Get("ddb"))}
			continue
		}

		nameTag := tag.Get("dynamodbav")
		if nameTag == "-" {
			continue
		}
		name, _, _ := strings.Cut(nameTag, ",")

		if f.Embedded() && name == "" {
			if named, inner := embeddedStruct(f.Type()); inner != nil {
				if !seen[named] {
					seen[named] = true
					describe(t, inner, seen)
					delete(seen, named)
				}
				continue
			}
		}
		if !f.Exported() {
			continue
		}
		if name == "" {
			name = f.Name()
		}
		t.Fields = append(t.Fields, schema.Field{
			Name: name,
			Type: schemaType(f.Type()),
			Tag:  tag.Get("ddb"),
		})
	}
}

func embeddedStruct(t types.Type) (*types.Named, *types.Struct) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, nil
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, nil
	}
	return named, st
}

// isTableMarker reports whether t is tabledef.Table.
func isTableMarker(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Name() == "Table" && obj.Pkg() != nil && strings.HasSuffix(obj.Pkg().Path(), tabledefPath)
}

// schemaType names t the way schema descriptor files do. Named types are
// replaced by their underlying basic or byte sequence type, so
// time.Duration becomes int64; anything else keeps its qualified name.
func schemaType(t types.Type) string {
	if ptr, ok := t.(*types.Pointer); ok {
		return "*" + schemaType(ptr.Elem())
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		return u.Name()
	case *types.Slice:
		if isByte(u.Elem()) {
			return "[]byte"
		}
	case *types.Array:
		if isByte(u.Elem()) {
			return fmt.Sprintf("[%d]byte", u.Len())
		}
	}
	return types.TypeString(t, (*types.Package).Name)
}

func isByte(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Byte
}
