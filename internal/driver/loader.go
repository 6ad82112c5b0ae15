package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/outline"
	"github.com/orizon-lang/modcheck/internal/parser"
	"github.com/orizon-lang/modcheck/internal/position"
	"github.com/orizon-lang/modcheck/internal/source"
)

// unit is one source file of a fixture with the outline of its own items.
type unit struct {
	path    string
	src     []byte
	outline []outline.Entry
}

// loader parses a fixture and the files of its out-of-line modules.
type loader struct {
	fsys  source.FileSystem
	units []unit
}

// load parses the root file, then every `mod name;` below it. The first
// syntax error or missing module file stops loading.
func (l *loader) load(filename string, src []byte) (*parser.File, *diagnostic.Diagnostic) {
	file, err := parser.ParseFile(filename, string(src))
	if err != nil {
		return nil, syntaxDiagnostic(err)
	}
	l.units = append(l.units, unit{path: filename, src: src, outline: outline.FromFile(file)})

	if d := l.loadModules(file.Items, moduleDir(filename)); d != nil {
		return nil, d
	}

	return file, nil
}

func (l *loader) loadModules(items []parser.Item, dir string) *diagnostic.Diagnostic {
	for _, item := range items {
		mod, ok := item.(*parser.ModDecl)
		if !ok {
			continue
		}
		name := mod.Name.Name
		childDir := source.Join(dir, name)

		if mod.Inline {
			if d := l.loadModules(mod.Items, childDir); d != nil {
				return d
			}
			continue
		}

		path, data, d := l.findModuleFile(mod, dir)
		if d != nil {
			return d
		}

		sub, err := parser.ParseFile(path, string(data))
		if err != nil {
			return syntaxDiagnostic(err)
		}
		mod.Items = sub.Items
		mod.File = path
		l.units = append(l.units, unit{path: path, src: data, outline: outline.FromFile(sub)})

		if d := l.loadModules(sub.Items, childDir); d != nil {
			return d
		}
	}

	return nil
}

// findModuleFile looks for name.rs, then name/mod.rs, next to the declaring
// file.
func (l *loader) findModuleFile(mod *parser.ModDecl, dir string) (string, []byte, *diagnostic.Diagnostic) {
	name := mod.Name.Name
	possibleNames := []string{
		source.Join(dir, name+".rs"),
		source.Join(dir, name, "mod.rs"),
	}

	for _, path := range possibleNames {
		data, err := l.fsys.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, diagnostic.New(diagnostic.KindReadError).
				Messagef("cannot read module `%s`: %v", name, err).
				Span(mod.Span).
				Build()
		}
	}

	return "", nil, diagnostic.New(diagnostic.KindMissingModuleFile).
		Messagef("file not found for module `%s` (searched: %s)", name, strings.Join(possibleNames, ", ")).
		Span(mod.Span).
		Build()
}

// moduleDir is the directory holding the child module files of a root file.
func moduleDir(filename string) string {
	clean := source.Clean(filename)
	if i := strings.LastIndexByte(clean, '/'); i >= 0 {
		return clean[:i]
	}
	return "."
}

func syntaxDiagnostic(err error) *diagnostic.Diagnostic {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return diagnostic.New(diagnostic.KindSyntaxError).
			Messagef("expected %s, found %s", syntaxErr.Expected, syntaxErr.Found).
			Span(syntaxErr.Span).
			Build()
	}

	return diagnostic.New(diagnostic.KindSyntaxError).Message(err.Error()).Build()
}

func readError(filename string, err error) *diagnostic.Diagnostic {
	pos := position.Position{Filename: filename}
	return diagnostic.New(diagnostic.KindReadError).
		Message(fmt.Sprintf("cannot read fixture: %v", err)).
		Span(position.Span{Start: pos, End: pos}).
		Build()
}
