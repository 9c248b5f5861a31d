package migrate

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/driftfile/driftfile/codec"
	"github.com/driftfile/driftfile/ir"
)

// Expr builds a migration from an expr-lang expression. The expression sees
// the payload as `data` (plain maps, slices, and scalars) plus `version`
// (the file's version string, or "" when untracked) and `target`, and must
// evaluate to the replacement payload. The change flag is derived by
// comparing the result against the input.
//
//	migrate.Expr(`{"volume": data.master ?? 1.0, "muted": data.muted ?? false}`)
func Expr(src string) Func {
	prog, compileErr := expr.Compile(src)
	return func(fileVersion *Version, target Version, payload *ir.Node) (*ir.Node, bool, error) {
		if compileErr != nil {
			return nil, false, fmt.Errorf("compile migration: %w", compileErr)
		}
		fv := ""
		if fileVersion != nil {
			fv = fileVersion.String()
		}
		env := map[string]any{
			"data":    codec.ToGo(payload),
			"version": fv,
			"target":  target.String(),
		}
		out, err := expr.Run(prog, env)
		if err != nil {
			return nil, false, fmt.Errorf("run migration: %w", err)
		}
		next, err := codec.FromGo(out)
		if err != nil {
			return nil, false, fmt.Errorf("migration result: %w", err)
		}
		if ir.Equal(payload, next) {
			return payload, false, nil
		}
		return next, true, nil
	}
}
