package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	modulePath   = "library"
	contextsRoot = "contexts"
)

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists the module-relative packages a layer may import. Third-party
// imports are rejected unless thirdParty is set.
type layerRule struct {
	allowed    []string
	extra      []string
	thirdParty bool
}

var layerRules = map[string]layerRule{
	"domain": {
		allowed: []string{"domain"},
	},
	"ports": {
		allowed: []string{"domain", "ports"},
		extra:   []string{modulePath + "/contracts"},
	},
	"application": {
		allowed: []string{"application", "domain", "ports"},
		extra:   []string{modulePath + "/contracts"},
	},
	"transport": {
		allowed: []string{"transport"},
	},
	"adapters": {
		allowed:    []string{"application", "domain", "ports", "transport"},
		extra:      []string{modulePath + "/contracts"},
		thirdParty: true,
	},
}

// Packages that only the bounded context itself may wire.
var moduleInternals = []string{
	"domain/services",
	"application/commands",
	"adapters/memory",
}

func main() {
	violations := collectViolations(".")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		normalized := filepath.ToSlash(filepath.Clean(path))
		imports, err := parseImports(path)
		if err != nil {
			return appendViolation(&violations, normalized, 1, "", "file must parse")
		}

		parts := strings.Split(normalized, "/")
		if len(parts) >= 4 && parts[0] == contextsRoot {
			modulePrefix := strings.Join([]string{modulePath, contextsRoot, parts[1], parts[2]}, "/")
			violations = append(violations, validateContextFile(normalized, parts[3], modulePrefix, imports)...)
			return nil
		}
		violations = append(violations, validateOutsideFile(normalized, imports)...)
		return nil
	})

	return violations
}

type importRef struct {
	path string
	line int
}

func parseImports(path string) ([]importRef, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}
	refs := make([]importRef, 0, len(file.Imports))
	for _, imp := range file.Imports {
		refs = append(refs, importRef{
			path: strings.Trim(imp.Path.Value, "\""),
			line: fset.Position(imp.Pos()).Line,
		})
	}
	return refs, nil
}

func validateContextFile(file string, layer string, modulePrefix string, imports []importRef) []violation {
	var violations []violation
	rule, layered := layerRules[layer]

	for _, imp := range imports {
		if hasPrefix(imp.path, modulePath+"/"+contextsRoot) && !hasPrefix(imp.path, modulePrefix) {
			appendViolation(&violations, file, imp.line, imp.path, "cross-module imports are forbidden")
			continue
		}
		if !layered {
			continue
		}
		if hasPrefix(imp.path, modulePath+"/internal") {
			appendViolation(&violations, file, imp.line, imp.path, layer+" must not import runtime infrastructure")
			continue
		}
		if layer == "adapters" && isSiblingAdapter(file, imp.path, modulePrefix) {
			appendViolation(&violations, file, imp.line, imp.path, "adapters must not import each other")
			continue
		}
		if isStdlib(imp.path) {
			continue
		}
		if !hasPrefix(imp.path, modulePath) {
			if !rule.thirdParty {
				appendViolation(&violations, file, imp.line, imp.path, layer+" must not import third-party packages")
			}
			continue
		}

		allowed := append([]string{}, rule.extra...)
		for _, pkg := range rule.allowed {
			allowed = append(allowed, modulePrefix+"/"+pkg)
		}
		if !isAllowed(imp.path, allowed) {
			appendViolation(&violations, file, imp.line, imp.path, layer+" import is outside explicit allowlist")
		}
	}

	return violations
}

// validateOutsideFile guards cmd/ and internal/: they reach a bounded context
// through its module root, adapters, transport and query types only.
func validateOutsideFile(file string, imports []importRef) []violation {
	var violations []violation
	for _, imp := range imports {
		if !hasPrefix(imp.path, modulePath+"/"+contextsRoot) {
			continue
		}
		parts := strings.SplitN(imp.path, "/", 5)
		if len(parts) < 5 {
			continue
		}
		for _, internal := range moduleInternals {
			if hasPrefix(parts[4], internal) {
				appendViolation(&violations, file, imp.line, imp.path, "only the bounded context may wire "+internal)
			}
		}
	}
	return violations
}

func isSiblingAdapter(file string, importPath string, modulePrefix string) bool {
	adapters := modulePrefix + "/adapters/"
	if !strings.HasPrefix(importPath, adapters) {
		return false
	}
	parts := strings.Split(file, "/")
	if len(parts) < 5 {
		return false
	}
	own := strings.SplitN(strings.TrimPrefix(importPath, adapters), "/", 2)[0]
	return own != parts[4]
}

func appendViolation(violations *[]violation, file string, line int, importPath string, rule string) error {
	*violations = append(*violations, violation{File: file, Line: line, Import: importPath, Rule: rule})
	return nil
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
