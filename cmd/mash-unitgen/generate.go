package main

import (
	"errors"
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/mash-protocol/mash-units/pkg/format"
	"github.com/mash-protocol/mash-units/pkg/symtab"
	"github.com/mash-protocol/mash-units/pkg/unit"
)

// ErrDuplicateIdent is returned when two rule symbols map to the same Go
// identifier (for example "pa" and "Pa").
var ErrDuplicateIdent = errors.New("duplicate identifier")

// GenerateOptions control the generated file.
type GenerateOptions struct {
	Package string
	Prefix  string
	Sources []string
	Rules   []symtab.Rule
}

type fileData struct {
	Package string
	Sources []string
	Vars    []varData
}

type varData struct {
	Ident      string
	Symbol     string
	Definition string
	Factor     string
	Exponents  []expData
}

type expData struct {
	Dimension string
	Exp       int
}

var fileTmpl = template.Must(template.New("file").Parse(`// Code generated by mash-unitgen. DO NOT EDIT.
{{- range .Sources}}
// Source: {{.}}
{{- end}}

package {{.Package}}

import "github.com/mash-protocol/mash-units/pkg/unit"

var (
{{- range .Vars}}
	// {{.Ident}} is {{.Definition}}.
	{{.Ident}} = unit.Make({{.Factor}}, map[unit.Dimension]int{ {{- range $i, $e := .Exponents}}{{if $i}}, {{end}}unit.{{$e.Dimension}}: {{$e.Exp}}{{end -}} })
{{- end}}
)

// Symbols maps each rule symbol to its vector.
var Symbols = map[string]unit.Vector{
{{- range .Vars}}
	{{printf "%q" .Symbol}}: {{.Ident}},
{{- end}}
}
`))

// Generate renders a Go source file declaring one unit.Vector variable per
// rule. The result is not yet gofmt'ed.
func Generate(opts GenerateOptions) (string, error) {
	if !token.IsIdentifier(opts.Package) {
		return "", fmt.Errorf("invalid package name %q", opts.Package)
	}

	data := fileData{Package: opts.Package, Sources: opts.Sources}
	seen := map[string]string{"Symbols": "(symbol map)"}
	for _, r := range opts.Rules {
		ident := goIdent(opts.Prefix, r.Symbol)
		if !token.IsIdentifier(ident) || token.IsKeyword(ident) {
			return "", fmt.Errorf("symbol %q: invalid identifier %q", r.Symbol, ident)
		}
		if other, ok := seen[ident]; ok {
			return "", fmt.Errorf("%w %s for %q and %q", ErrDuplicateIdent, ident, other, r.Symbol)
		}
		seen[ident] = r.Symbol

		v := varData{
			Ident:      ident,
			Symbol:     r.Symbol,
			Definition: r.Symbol + " = " + format.Render(r.Unit, format.Plain, nil),
			Factor:     strconv.FormatFloat(r.Unit.Factor, 'g', -1, 64),
		}
		for _, d := range unit.Dimensions() {
			if e := r.Unit.Exp(d); e != 0 {
				v.Exponents = append(v.Exponents, expData{Dimension: dimensionIdent(d), Exp: e})
			}
		}
		data.Vars = append(data.Vars, v)
	}

	var b strings.Builder
	if err := fileTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	return b.String(), nil
}

// goIdent makes an exported identifier: "kWh" becomes "KWh", or "UnitKWh"
// with prefix "Unit".
func goIdent(prefix, symbol string) string {
	if symbol == "" {
		return prefix
	}
	r := []rune(symbol)
	r[0] = unicode.ToUpper(r[0])
	return prefix + string(r)
}

// dimensionIdent returns the name of the unit package constant for d.
func dimensionIdent(d unit.Dimension) string {
	name := d.Name()
	return strings.ToUpper(name[:1]) + name[1:]
}
