package build

import (
	"context"

	"github.com/CBx0-dev/YAJE/internal/cfg"
	"github.com/CBx0-dev/YAJE/internal/toolchain"
)

// link joins the per-module archives (discovery order), the bundle
// object and the entry object into the final executable.
func (d *Driver) link(ctx context.Context, out OutputInformation, inputs []string, natives []*cfg.Result) (string, error) {
	flags := toolchain.BaseLFlags()

	for _, n := range natives {
		for _, dir := range n.LibraryLookup {
			flags = append(flags, "-L", dir)
		}
		flags = append(flags, n.LFlags...)
	}
	for _, n := range natives {
		for _, lib := range n.LinkLibraries {
			flags = append(flags, "-l"+lib)
		}
	}

	executable := out.Executable(d.target)
	if err := d.tc.Link(ctx, inputs, flags, executable); err != nil {
		return "", err
	}

	return executable, nil
}
