/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: space.go
Description: Deterministic example spaces for lifting tasks. Examples are sampled from a
seeded generator so a run is reproducible for a fixed configuration.
*/

package lifting

import (
	"fmt"
	"math/rand"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/value"
)

// Kind selects how an example is split and recombined
type Kind string

const (
	// KindTree examples are two lists l, r combined as l++r
	KindTree Kind = "tree"
	// KindList examples are an element c and a list x combined as c:x
	KindList Kind = "list"
)

// ParseKind validates a kind name
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindTree, KindList:
		return Kind(name), nil
	}
	return "", fmt.Errorf("unknown task kind %q", name)
}

// Variables returns the types of the components of an example of kind k
func (k Kind) Variables() []value.Type {
	if k == KindList {
		return []value.Type{value.TypeInt, value.TypeList}
	}
	return []value.Type{value.TypeList, value.TypeList}
}

type sampler struct {
	rng *rand.Rand
	cfg config.ExampleSpaceConfig
}

func (s *sampler) int() int {
	return s.cfg.IntMin + s.rng.Intn(s.cfg.IntMax-s.cfg.IntMin+1)
}

func (s *sampler) list() value.Value {
	n := s.cfg.MinLength + s.rng.Intn(s.cfg.MaxLength-s.cfg.MinLength+1)
	elems := make([]int, n)
	for i := range elems {
		elems[i] = s.int()
	}
	return value.List(elems)
}

// Sample draws cfg.Count examples of kind k
func Sample(k Kind, cfg config.ExampleSpaceConfig) ([]interfaces.Example, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid example space: %w", err)
	}
	s := &sampler{rng: rand.New(rand.NewSource(cfg.Seed)), cfg: cfg}
	types := k.Variables()
	examples := make([]interfaces.Example, cfg.Count)
	for i := range examples {
		ex := make(interfaces.Example, len(types))
		for j, t := range types {
			if t == value.TypeInt {
				ex[j] = value.Int(s.int())
			} else {
				ex[j] = s.list()
			}
		}
		examples[i] = ex
	}
	return examples, nil
}
