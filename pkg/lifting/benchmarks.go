/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: benchmarks.go
Description: Catalogue of divide-and-conquer lifting benchmarks. Each benchmark names a
target function over integer lists, the example space it is sampled from and the extra
operators it needs.
*/

package lifting

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
)

// ErrUnknownBenchmark is returned for names missing from the catalogue
var ErrUnknownBenchmark = errors.New("unknown benchmark")

// TargetFunc computes the target value of a list
type TargetFunc func(list []int, cfg *config.Config) int

// Benchmark describes one lifting problem
type Benchmark struct {
	Name        string
	Description string
	Kind        Kind
	Target      TargetFunc
	Space       func(c *config.ExampleSpaceConfig) // Adjusts the example space, may be nil
	Extras      func() []interfaces.ExtraSemantics // Extra operators, may be nil
}

// TargetProgram returns the target as a program over Param0
func (b Benchmark) TargetProgram() *program.Program {
	fn := b.Target
	sem := semantics.NewAnonymous(b.Name, []value.Type{value.TypeList}, value.TypeInt,
		func(args []value.Value, env *semantics.Env) value.Value {
			return value.Int(fn(args[0].AsList(), env.Config))
		})
	return program.New(sem, program.New(semantics.NewParam(0, value.TypeList)))
}

// ExampleSpace returns the example space of the benchmark derived from cfg
func (b Benchmark) ExampleSpace(cfg *config.Config) config.ExampleSpaceConfig {
	c := cfg.Examples
	c.MinLength = max(c.MinLength, 1)
	if b.Space != nil {
		b.Space(&c)
	}
	return c
}

// NewTask samples the example space and builds the task. An empty kind selects
// the benchmark default.
func (b Benchmark) NewTask(cfg *config.Config, kind Kind) (*Task, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if kind == "" {
		kind = b.Kind
	}
	examples, err := Sample(kind, b.ExampleSpace(cfg))
	if err != nil {
		return nil, fmt.Errorf("benchmark %s: %w", b.Name, err)
	}
	var extras []interfaces.ExtraSemantics
	if b.Extras != nil {
		extras = b.Extras()
	}
	return NewTask(b.Name, kind, b.TargetProgram(), examples, extras, cfg), nil
}

var catalogue = map[string]Benchmark{}

func register(b Benchmark) {
	if b.Kind == "" {
		b.Kind = KindTree
	}
	if _, exists := catalogue[b.Name]; exists {
		panic("lifting: benchmark registered twice: " + b.Name)
	}
	catalogue[b.Name] = b
}

// Lookup returns the benchmark with the given name
func Lookup(name string) (Benchmark, error) {
	b, ok := catalogue[name]
	if !ok {
		return Benchmark{}, fmt.Errorf("%w: %q", ErrUnknownBenchmark, name)
	}
	return b, nil
}

// Names returns the benchmark names in sorted order
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func binaryRange(c *config.ExampleSpaceConfig) {
	c.IntMin, c.IntMax = 0, 1
}

func extra(name string, in []value.Type, fn semantics.Function) interfaces.ExtraSemantics {
	return interfaces.ExtraSemantics{Semantics: semantics.NewAnonymous(name, in, value.TypeInt, fn)}
}

func builtin(name string) interfaces.ExtraSemantics {
	return interfaces.ExtraSemantics{Semantics: semantics.MustLookup(name)}
}

func init() {
	register(Benchmark{
		Name:        "sum",
		Description: "sum of the elements",
		Target: func(l []int, _ *config.Config) int {
			s := 0
			for _, v := range l {
				s += v
			}
			return s
		},
	})
	register(Benchmark{
		Name:        "min",
		Description: "minimum element",
		Target: func(l []int, cfg *config.Config) int {
			m := cfg.DefaultValue
			for _, v := range l {
				m = min(m, v)
			}
			return m
		},
	})
	register(Benchmark{
		Name:        "max",
		Description: "maximum element",
		Target: func(l []int, cfg *config.Config) int {
			m := -cfg.DefaultValue
			for _, v := range l {
				m = max(m, v)
			}
			return m
		},
	})
	register(Benchmark{
		Name:        "average",
		Description: "integer average",
		Target: func(l []int, _ *config.Config) int {
			if len(l) == 0 {
				return 0
			}
			s := 0
			for _, v := range l {
				s += v
			}
			return s / len(l)
		},
		Space: func(c *config.ExampleSpaceConfig) { c.IntMin, c.IntMax = 0, 20 },
		Extras: func() []interfaces.ExtraSemantics {
			div := extra("div", []value.Type{value.TypeInt, value.TypeInt}, func(a []value.Value, env *semantics.Env) value.Value {
				if a[1].AsInt() == 0 {
					return value.Int(env.Config.IntMax)
				}
				return value.Int(a[0].AsInt() / a[1].AsInt())
			})
			return []interfaces.ExtraSemantics{div, builtin("+")}
		},
	})
	register(Benchmark{
		Name:        "length",
		Description: "number of elements",
		Target:      func(l []int, _ *config.Config) int { return len(l) },
	})
	register(Benchmark{
		Name:        "2nd-min",
		Description: "second smallest element",
		Target: func(l []int, cfg *config.Config) int {
			first, second := cfg.DefaultValue, cfg.DefaultValue
			for _, v := range l {
				if v < first {
					first, second = v, first
				} else {
					second = min(second, v)
				}
			}
			return second
		},
	})
	register(Benchmark{
		Name:        "mps",
		Description: "maximum prefix sum",
		Target: func(l []int, _ *config.Config) int {
			sum, best := 0, 0
			for _, v := range l {
				sum += v
				best = max(best, sum)
			}
			return best
		},
	})
	register(Benchmark{
		Name:        "mts",
		Description: "maximum tail sum",
		Target: func(l []int, _ *config.Config) int {
			mts := 0
			for _, v := range l {
				mts = max(0, mts+v)
			}
			return mts
		},
	})
	register(Benchmark{
		Name:        "mss",
		Description: "maximum segment sum",
		Target: func(l []int, _ *config.Config) int {
			mss, mts := 0, 0
			for _, v := range l {
				mts = max(mts+v, 0)
				mss = max(mss, mts)
			}
			return mss
		},
	})
	register(Benchmark{
		Name:        "mps_p",
		Description: "position of the maximum prefix sum",
		Target: func(l []int, _ *config.Config) int {
			sum, best, pos := 0, 0, 0
			for i, v := range l {
				sum += v
				if sum > best {
					pos = i
				}
				best = max(best, sum)
			}
			return pos
		},
	})
	register(Benchmark{
		Name:        "mts_p",
		Description: "start position of the maximum tail sum",
		Target: func(l []int, _ *config.Config) int {
			pos, mts := -1, 0
			for i, v := range l {
				if mts+v < 0 {
					pos = i
				}
				mts = max(0, mts+v)
			}
			return pos
		},
	})
	register(Benchmark{
		Name:        "is_sorted",
		Description: "1 if strictly increasing",
		Target: func(l []int, cfg *config.Config) int {
			result, prev := 1, -cfg.DefaultValue
			for _, v := range l {
				if prev >= v {
					result = 0
				}
				prev = v
			}
			return result
		},
	})
	register(Benchmark{
		Name:        "atoi",
		Description: "decimal value of a digit list",
		Target: func(l []int, cfg *config.Config) int {
			result := 0
			for _, v := range l {
				result = cfg.Clamp(int64(result)*10 + int64(v))
			}
			return result
		},
		Space: func(c *config.ExampleSpaceConfig) {
			c.IntMin, c.IntMax = 0, 9
			c.MaxLength = 4
			c.MinLength = min(c.MinLength, c.MaxLength)
		},
		Extras: func() []interfaces.ExtraSemantics {
			pow10 := extra("pow10", []value.Type{value.TypeInt}, func(a []value.Value, env *semantics.Env) value.Value {
				n := a[0].AsInt()
				if n >= 5 {
					return value.Int(env.Config.IntMax)
				}
				res := 1
				for i := 0; i < n; i++ {
					res *= 10
				}
				return value.Int(res)
			})
			return []interfaces.ExtraSemantics{pow10, builtin("*")}
		},
	})
	register(Benchmark{
		Name:        "dropwhile",
		Description: "index of the first non-zero element",
		Target: func(l []int, _ *config.Config) int {
			for i, v := range l {
				if v != 0 {
					return i
				}
			}
			return 0
		},
		Space: binaryRange,
	})
	register(Benchmark{
		Name:        "balanced",
		Description: "1 if no prefix sum is negative",
		Target: func(l []int, _ *config.Config) int {
			cnt := 0
			for _, v := range l {
				cnt += v
				if cnt < 0 {
					return 0
				}
			}
			return 1
		},
		Space: func(c *config.ExampleSpaceConfig) { c.IntMin, c.IntMax = -1, 1 },
	})
	register(Benchmark{
		Name:        "0*1*",
		Description: "1 if no one follows a zero",
		Target: func(l []int, _ *config.Config) int {
			an, bn := true, true
			for _, v := range l {
				an = v != 0 && an
				bn = (v == 0 || an) && bn
			}
			return boolInt(bn)
		},
		Space: binaryRange,
	})
	register(Benchmark{
		Name:        "cnt_1s",
		Description: "number of maximal runs of ones",
		Target: func(l []int, _ *config.Config) int {
			cnt, prev := 0, 0
			for _, v := range l {
				if v != 0 && prev == 0 {
					cnt++
				}
				prev = v
			}
			return cnt
		},
		Space: binaryRange,
	})
	register(Benchmark{
		Name:        "line_sight",
		Description: "1 if the last element is visible over all previous ones",
		Target: func(l []int, _ *config.Config) int {
			ma, visible := 0, 1
			for _, v := range l {
				visible = boolInt(ma <= v)
				ma = max(ma, v)
			}
			return visible
		},
	})
	register(Benchmark{
		Name:        "max_len_1s",
		Description: "length of the longest run of ones",
		Target: func(l []int, _ *config.Config) int {
			best, run := 0, 0
			for _, v := range l {
				if v == 0 {
					best = max(best, run)
					run = 0
				} else {
					run++
				}
			}
			return max(best, run)
		},
		Space: binaryRange,
	})
	register(Benchmark{
		Name:        "0after1",
		Description: "1 if a zero follows a one",
		Target: func(l []int, _ *config.Config) int {
			seen1, res := false, false
			for _, v := range l {
				if seen1 && v == 0 {
					res = true
				}
				seen1 = seen1 || v != 0
			}
			return boolInt(res)
		},
		Space: binaryRange,
	})
	register(Benchmark{
		Name:        "count1(0+)",
		Description: "occurrences of 1(0+) followed by a one",
		Target: func(l []int, _ *config.Config) int {
			s0, s1 := false, false
			result := 0
			for _, v := range l {
				if s1 && v != 0 {
					result++
				}
				s1 = v == 0 && (s0 || s1)
				s0 = v == 1
			}
			return result
		},
		Space: binaryRange,
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
