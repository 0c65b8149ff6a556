package cfg

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/CBx0-dev/YAJE/internal/target"
)

// hclFile is the declarative configuration form. Block order is
// preserved, so define blocks enumerate macros deterministically.
type hclFile struct {
	Sources          []hclSource `hcl:"source,block"`
	IncludeDirs      []string    `hcl:"include_dirs,optional"`
	LibraryLookup    []string    `hcl:"library_lookup,optional"`
	Defines          []hclDefine `hcl:"define,block"`
	LinkLibraries    []string    `hcl:"link_libraries,optional"`
	LoadingFunctions []string    `hcl:"loading_functions,optional"`
	CFlags           []string    `hcl:"cflags,optional"`
	LFlags           []string    `hcl:"lflags,optional"`
	When             []hclWhen   `hcl:"when,block"`
}

type hclSource struct {
	Dir       string `hcl:"dir,label"`
	Recursive bool   `hcl:"recursive,optional"`
}

type hclDefine struct {
	Name  string     `hcl:"name,label"`
	Value *cty.Value `hcl:"value,optional"`
}

// hclWhen is a conditional section; its body applies only when the
// condition expression evaluates to true against the target variables.
type hclWhen struct {
	Condition        bool        `hcl:"condition"`
	Sources          []hclSource `hcl:"source,block"`
	IncludeDirs      []string    `hcl:"include_dirs,optional"`
	LibraryLookup    []string    `hcl:"library_lookup,optional"`
	Defines          []hclDefine `hcl:"define,block"`
	LinkLibraries    []string    `hcl:"link_libraries,optional"`
	LoadingFunctions []string    `hcl:"loading_functions,optional"`
	CFlags           []string    `hcl:"cflags,optional"`
	LFlags           []string    `hcl:"lflags,optional"`
}

func evalContext(t target.Triple) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"arch":       cty.StringVal(t.Arch),
			"vendor":     cty.StringVal(t.Vendor),
			"platform":   cty.StringVal(t.Platform),
			"abi":        cty.StringVal(t.Abi),
			"is_windows": cty.BoolVal(t.Platform == target.Windows),
			"is_linux":   cty.BoolVal(t.Platform == target.Linux),
			"is_darwin":  cty.BoolVal(t.Platform == target.Darwin),
			"is_x64":     cty.BoolVal(t.Arch == "x86_64"),
			"is_aarch64": cty.BoolVal(t.Arch == "aarch64"),
		},
	}
}

func evalHCL(path string, ctx Context) (*Result, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %s", path, diags.Error())
	}

	var root hclFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(ctx.Target), &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %s", path, diags.Error())
	}

	b, err := NewBuilder(ctx)
	if err != nil {
		return nil, err
	}

	apply := func(sources []hclSource, includeDirs, libraryLookup []string, defines []hclDefine, link, loading, cflags, lflags []string) error {
		for _, s := range sources {
			b.AddSource(s.Dir, s.Recursive)
		}
		for _, d := range includeDirs {
			b.AddIncludeDir(d)
		}
		for _, d := range libraryLookup {
			b.AddLibraryLookup(d)
		}
		for _, d := range defines {
			value, err := defineValue(d)
			if err != nil {
				return err
			}
			b.DefineMacro(d.Name, value)
		}
		for _, l := range link {
			b.LinkLibrary(l)
		}
		if len(loading) > 0 {
			b.SetLoadingFunctions(loading...)
		}
		if len(cflags) > 0 {
			b.SetCFlags(cflags...)
		}
		if len(lflags) > 0 {
			b.SetLFlags(lflags...)
		}
		return nil
	}

	if err := apply(root.Sources, root.IncludeDirs, root.LibraryLookup, root.Defines,
		root.LinkLibraries, root.LoadingFunctions, root.CFlags, root.LFlags); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for _, w := range root.When {
		if !w.Condition {
			continue
		}
		if err := apply(w.Sources, w.IncludeDirs, w.LibraryLookup, w.Defines,
			w.LinkLibraries, w.LoadingFunctions, w.CFlags, w.LFlags); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	res, err := b.Complete()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return res, nil
}

// defineValue maps an HCL attribute to a macro value; a define block with
// no value is a name-only macro.
func defineValue(d hclDefine) (any, error) {
	if d.Value == nil {
		return true, nil
	}

	v := *d.Value
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case cty.Bool:
		return v.True(), nil
	default:
		return nil, fmt.Errorf("macro %s: unsupported value type %s", d.Name, v.Type().FriendlyName())
	}
}
