package toolchain

import (
	"github.com/CBx0-dev/YAJE/internal/cfg"
	"github.com/CBx0-dev/YAJE/internal/target"
)

// BaseCFlags is the fixed compile-flag tail for a target.
func BaseCFlags(t target.Triple) []string {
	return []string{
		"-std=gnu11",
		"-Wall",
		"-Wextra",
		"-Wformat=2",
		"-Wno-unused-parameter",
		"-Wno-sign-compare",
		"-Wno-unused-variable",
		"-Wno-unused-function",
		"-fwrapv",
		"-funsigned-char",
		"-g",
		"-target", t.String(),
		"-c",
	}
}

// BaseLFlags is the fixed link-flag head.
func BaseLFlags() []string {
	return []string{"-g"}
}

// Args assembles the compiler argument vector for module m against its
// native dependency set deps: include dirs and macros for every
// dependency then the module itself, library lookups for the module
// only, then the base flags.
func Args(m *cfg.Result, deps []*cfg.Result, base []string) ([]string, error) {
	var args []string

	for _, d := range append(append([]*cfg.Result(nil), deps...), m) {
		for _, dir := range d.IncludeDirs {
			args = append(args, "-I", dir)
		}
		for _, macro := range d.DefineMacros {
			define, err := macro.Define()
			if err != nil {
				return nil, err
			}
			args = append(args, "-D", define)
		}
	}

	for _, dir := range m.LibraryLookup {
		args = append(args, "-L", dir)
	}

	args = append(args, m.CFlags...)
	args = append(args, base...)

	return args, nil
}
