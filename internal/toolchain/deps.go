package toolchain

import (
	"context"
	"path/filepath"
	"strings"
)

// scanFlags are the argument pairs forwarded to the dependency-only
// compiler invocation.
var scanFlags = map[string]bool{"-I": true, "-D": true, "-target": true}

// HeaderDeps asks the compiler for the headers a source transitively
// includes (-MM). A failing scan yields no dependencies; the caller
// treats that as "no known headers", keeping the source eligible for
// recompilation until a scan succeeds.
func (tc *Toolchain) HeaderDeps(ctx context.Context, args []string, source string) []string {
	scanArgs := []string{"-MM"}
	for i := 0; i+1 < len(args); i++ {
		if scanFlags[args[i]] {
			scanArgs = append(scanArgs, args[i], args[i+1])
			i++
		}
	}
	scanArgs = append(scanArgs, source)

	stdout, _, err := tc.runner.Run(ctx, tc.Clang, scanArgs, nil)
	if err != nil {
		return nil
	}

	return parseMakeRule(string(stdout), filepath.Dir(source))
}

// parseMakeRule flattens the make-style rule clang emits: continuation
// lines are joined, the "<obj>:" prefix dropped, and each remaining
// token resolved relative to the source directory.
func parseMakeRule(out, sourceDir string) []string {
	joined := strings.ReplaceAll(out, "\\\r\n", " ")
	joined = strings.ReplaceAll(joined, "\\\n", " ")

	colon := strings.Index(joined, ":")
	if colon < 0 {
		return nil
	}

	var deps []string
	for _, token := range strings.Fields(joined[colon+1:]) {
		if !filepath.IsAbs(token) {
			token = filepath.Join(sourceDir, token)
		}
		deps = append(deps, token)
	}

	return deps
}
