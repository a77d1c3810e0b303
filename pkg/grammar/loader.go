/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: loader.go
Description: YAML grammar definitions. Grammars are declared as symbols with typed rules
referencing builtin operators, integer constants or parameters. A small catalogue of
grammars, including the DeepCoder list DSL, is embedded in the binary.
*/

package grammar

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
)

//go:embed grammars/*.yaml
var builtinGrammars embed.FS

// Definition is the root structure of a grammar file
type Definition struct {
	Name    string             `yaml:"name"`
	Start   string             `yaml:"start"`
	Symbols []SymbolDefinition `yaml:"symbols"`
}

// SymbolDefinition declares one symbol and its rules
type SymbolDefinition struct {
	Name  string           `yaml:"name"`
	Type  string           `yaml:"type"`
	Rules []RuleDefinition `yaml:"rules"`
}

// RuleDefinition is one production. Exactly one of Op, Const and Param is set.
type RuleDefinition struct {
	Op     string   `yaml:"op,omitempty"`
	Const  *int     `yaml:"const,omitempty"`
	Param  *int     `yaml:"param,omitempty"`
	Params []string `yaml:"params,omitempty"`
}

// Parse decodes and builds a grammar from YAML
func Parse(data []byte) (*Grammar, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to decode grammar: %w", err)
	}
	return Build(&def)
}

// LoadFile reads a grammar definition from disk
func LoadFile(filename string) (*Grammar, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar %s: %w", filename, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", filename, err)
	}
	return g, nil
}

// Build constructs a grammar from a decoded definition.
// Symbols are declared first so rules may reference symbols defined later.
func Build(def *Definition) (*Grammar, error) {
	g := New()
	for _, sd := range def.Symbols {
		typ, ok := value.ParseType(sd.Type)
		if !ok || typ == value.TypeNone {
			return nil, fmt.Errorf("symbol %s: invalid type %q", sd.Name, sd.Type)
		}
		if sd.Name == "" {
			return nil, fmt.Errorf("symbol with empty name")
		}
		if nt, exists := g.Symbol(sd.Name); exists {
			return nil, fmt.Errorf("symbol %s declared twice (as %s)", sd.Name, nt.Type)
		}
		g.AddSymbol(sd.Name, typ)
	}
	for _, sd := range def.Symbols {
		nt := g.MustSymbol(sd.Name)
		for i, rd := range sd.Rules {
			sem, err := rd.semantics(nt.Type)
			if err != nil {
				return nil, fmt.Errorf("symbol %s rule %d: %w", sd.Name, i, err)
			}
			if _, err := g.tryInsertRule(sd.Name, sem, rd.Params, false); err != nil {
				return nil, fmt.Errorf("symbol %s rule %d: %w", sd.Name, i, err)
			}
		}
	}
	if def.Start == "" {
		return nil, fmt.Errorf("grammar %s has no start symbol", def.Name)
	}
	if _, ok := g.Symbol(def.Start); !ok {
		return nil, fmt.Errorf("unknown start symbol %s", def.Start)
	}
	g.SetStart(def.Start)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (rd RuleDefinition) semantics(symbolType value.Type) (semantics.Semantics, error) {
	set := 0
	if rd.Op != "" {
		set++
	}
	if rd.Const != nil {
		set++
	}
	if rd.Param != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of op, const and param must be set")
	}
	switch {
	case rd.Const != nil:
		return semantics.NewConstant(value.Int(*rd.Const)), nil
	case rd.Param != nil:
		if *rd.Param < 0 {
			return nil, fmt.Errorf("negative parameter index %d", *rd.Param)
		}
		return semantics.NewParam(*rd.Param, symbolType), nil
	}
	return semantics.Lookup(rd.Op)
}

// Load returns a fresh copy of an embedded grammar
func Load(name string) (*Grammar, error) {
	data, err := builtinGrammars.ReadFile(path.Join("grammars", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown builtin grammar %q (available: %s)", name, strings.Join(Available(), ", "))
	}
	return Parse(data)
}

// MustLoad is Load that panics on error
func MustLoad(name string) *Grammar {
	g, err := Load(name)
	if err != nil {
		panic(err)
	}
	return g
}

// Available lists the embedded grammar names
func Available() []string {
	entries, err := builtinGrammars.ReadDir("grammars")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// DeepCoder returns a fresh copy of the DeepCoder list DSL without parameters
func DeepCoder() *Grammar {
	return MustLoad("deepcoder")
}
