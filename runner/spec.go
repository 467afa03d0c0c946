package runner

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nandy2uy/Nova-language/cas"
	"github.com/nandy2uy/Nova-language/parse"
)

// Spec describes one run of a Nova program and what it should produce.
type Spec struct {
	Run    RunDetails  `toml:"run"`
	Expect Expectation `toml:"expect"`

	// Path is the file the spec was loaded from, if any.
	Path string `toml:"-"`
}

type RunDetails struct {
	File     string `toml:"file,omitempty"`
	MaxSteps int    `toml:"max_steps,omitempty"`
	MaxDepth int    `toml:"max_depth,omitempty"`
}

type Expectation struct {
	// Output lists the exact lines PRINT should write. It is only checked
	// when present in the spec; an empty list expects no output.
	Output []string `toml:"output,omitempty"`
	// Fault is a substring the fault message must contain. Empty expects a
	// clean halt.
	Fault string `toml:"fault,omitempty"`

	checkOutput bool
}

// CheckOutput reports whether the spec constrains the printed output.
func (e Expectation) CheckOutput() bool {
	return e.checkOutput
}

// Name is how the spec is referred to in reports.
func (s *Spec) Name() string {
	if s.Path != "" {
		return s.Path
	}
	return s.Run.File
}

func parseSpec(f io.Reader) (*Spec, error) {
	var out Spec
	md, err := toml.NewDecoder(f).Decode(&out)
	if err != nil {
		return nil, err
	}
	out.Expect.checkOutput = md.IsDefined("expect", "output")
	return &out, nil
}

// LoadSpecFromFile reads a TOML spec. The program file defaults to the spec's
// name with a .nova extension and is resolved relative to the spec.
func LoadSpecFromFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := parseSpec(f)
	if err != nil {
		return nil, err
	}
	if s.Run.File == "" {
		base := filepath.Base(path)
		s.Run.File = strings.TrimSuffix(base, filepath.Ext(base)) + parse.NovaExt
	}
	s.Run.File = filepath.Clean(filepath.Join(filepath.Dir(path), s.Run.File))
	s.Path = path
	return s, nil
}

// SpecForSource is a spec that runs a source file without expectations.
func SpecForSource(path string) *Spec {
	return &Spec{Run: RunDetails{File: path}}
}

// LoadSpecs loads every path given. Directories contribute each .toml file
// beneath them, in lexical order.
func LoadSpecs(paths ...string) ([]*Spec, error) {
	var out []*Spec
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			s, err := LoadSpecFromFile(p)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".toml" {
				return nil
			}
			s, err := LoadSpecFromFile(path)
			if err != nil {
				return err
			}
			out = append(out, s)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// BuildExecutor compiles the spec's program, going through cache when it is
// not nil.
func (s *Spec) BuildExecutor(cache *cas.ProgramCache) (*Executor, error) {
	p, err := CompileFile(s.Run.File, cache)
	if err != nil {
		return nil, err
	}
	return &Executor{
		Program: p,
		Spec:    s,
	}, nil
}
