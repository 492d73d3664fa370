// Package sigfile reads and writes YAML signature files: external type
// knowledge (a class hierarchy, per-type method returns, free-function
// signatures) layered onto a checker before a compilation unit runs.
package sigfile

import (
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/garnet-lang/garnet/frontend/check"
	"github.com/garnet-lang/garnet/frontend/types"
	"github.com/garnet-lang/garnet/internal/log"
	"github.com/garnet-lang/garnet/util"
)

var logger = log.DefaultLogger.With("section", "sigfile")

// File is the parsed signature file.
type File struct {
	// Hierarchy maps a subtype base name to its declared supertype.
	Hierarchy map[string]string `yaml:"hierarchy,omitempty"`
	// Methods maps a receiver base name to method names to the textual
	// return type; "self" means "same type as the receiver".
	Methods map[string]map[string]string `yaml:"methods,omitempty"`
	// Functions maps a free-function name to its signature.
	Functions map[string]Function `yaml:"functions,omitempty"`
}

// Function is a free-function signature: textual parameter types and return
// type, in the same syntax annotations use.
type Function struct {
	Params []string `yaml:"params,omitempty"`
	Return string   `yaml:"return,omitempty"`
}

// Load parses a signature file. Type expressions are validated eagerly so a
// malformed file fails at load time, not mid-check.
func Load(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decoding signature file")
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadPath is Load over a file on disk.
func LoadPath(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening signature file %s", path)
	}
	defer r.Close()
	return Load(r)
}

func (f *File) validate() error {
	for base, methods := range f.Methods {
		for method, ret := range methods {
			if _, err := parseReturn(ret); err != nil {
				return errors.Wrapf(err, "method %s.%s", base, method)
			}
		}
	}
	for name, fn := range f.Functions {
		for _, p := range fn.Params {
			if _, err := types.ParseType(p); err != nil {
				return errors.Wrapf(err, "function %s", name)
			}
		}
		if fn.Return != "" {
			if _, err := types.ParseType(fn.Return); err != nil {
				return errors.Wrapf(err, "function %s", name)
			}
		}
	}
	return nil
}

// ApplyTo registers everything in the file onto a checker: hierarchy pairs,
// method returns, and function signatures.
func (f *File) ApplyTo(c *check.Checker) error {
	for sub, super := range f.Hierarchy {
		c.Hierarchy().Register(sub, super)
	}
	for base, methods := range f.Methods {
		for method, ret := range methods {
			t, err := parseReturn(ret)
			if err != nil {
				return errors.Wrapf(err, "method %s.%s", base, method)
			}
			c.Methods().Register(base, method, t)
		}
	}
	for name, fn := range f.Functions {
		params := make([]types.Type, len(fn.Params))
		for i, p := range fn.Params {
			t, err := types.ParseType(p)
			if err != nil {
				return errors.Wrapf(err, "function %s", name)
			}
			params[i] = t
		}
		ret := types.Type(types.UntypedType)
		if fn.Return != "" {
			t, err := types.ParseType(fn.Return)
			if err != nil {
				return errors.Wrapf(err, "function %s", name)
			}
			ret = t
		}
		c.RegisterFunction(name, check.Signature{Params: params, Return: ret})
	}
	logger.Debug("applied signature file")
	return nil
}

// parseReturn treats the "self" sentinel specially: it never parses as a
// class name.
func parseReturn(name string) (types.Type, error) {
	if name == "self" {
		return types.SelfType, nil
	}
	return types.ParseType(name)
}

// Export snapshots a checker's tables, built-ins included, as a signature
// file.
func Export(c *check.Checker) *File {
	f := &File{
		Hierarchy: map[string]string{},
		Methods:   map[string]map[string]string{},
		Functions: map[string]Function{},
	}
	for _, pair := range c.Hierarchy().Pairs() {
		// only the first-registered supertype is the declared parent
		if _, ok := f.Hierarchy[pair.Fst]; !ok {
			f.Hierarchy[pair.Fst] = pair.Snd
		}
	}
	c.Methods().Entries(func(base, method string, ret types.Type) {
		methods := f.Methods[base]
		if methods == nil {
			methods = map[string]string{}
			f.Methods[base] = methods
		}
		methods[method] = ret.String()
	})
	c.Functions(func(name string, sig check.Signature) {
		f.Functions[name] = Function{
			Params: util.MapSlice(sig.Params, types.Type.String),
			Return: sig.Return.String(),
		}
	})
	return f
}

// Encode writes the file as YAML with stable two-space indentation.
func (f *File) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(err, "encoding signature file")
	}
	return errors.Wrap(enc.Close(), "encoding signature file")
}

// MethodBases returns the receiver base names in sorted order, mostly so
// exports and tests are deterministic to diff.
func (f *File) MethodBases() []string {
	bases := make([]string, 0, len(f.Methods))
	for base := range f.Methods {
		bases = append(bases, base)
	}
	sort.Strings(bases)
	return bases
}
