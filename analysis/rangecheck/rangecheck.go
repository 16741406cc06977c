// Package rangecheck defines an analyzer that finds comparisons of integers that are always true or always false,
// given the values that the compared expression can have.
package rangecheck

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"math"

	"honnef.co/go/rangeinfer/analysis/code"
	"honnef.co/go/rangeinfer/go/types/typeutil"
	"honnef.co/go/rangeinfer/go/vrp"
	"honnef.co/go/rangeinfer/report"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/astutil"
)

const Doc = `Find comparisons of integers that are always true or always false

The values an integer expression can have are derived from its type and,
for expressions of the form x&k, x|k and x%k with constant k, from the
operation. Comparing such an expression with a constant that it can never
equal, or that all of its values compare alike with, usually indicates a bug,
such as checking whether an unsigned integer is negative.

Type parameters are treated as the union of the integer types in their
constraint's type set.

Diagnostics inside a node annotated with '//rangecheck:ignore' are
suppressed.`

var Analyzer = &analysis.Analyzer{
	Name:     "rangecheck",
	Doc:      Doc,
	Run:      run,
	Requires: code.RequiredAnalyzers,
}

var l = vrp.LongLattice

// operand is the set of values an integer expression can have.
type operand struct {
	value    vrp.Long
	domain   vrp.Long
	unsigned bool
}

func run(pass *analysis.Pass) (interface{}, error) {
	fn := func(node ast.Node) {
		expr := node.(*ast.BinaryExpr)
		if !code.IsComparison(expr.Op) {
			return
		}
		x, y, op := expr.X, expr.Y, expr.Op
		k, ok := code.IntegerConstant(pass.TypesInfo, y)
		if !ok {
			k, ok = code.IntegerConstant(pass.TypesInfo, x)
			if !ok {
				return
			}
			x, op = y, code.FlipComparison(op)
		}
		if _, isConst := code.IntegerConstant(pass.TypesInfo, x); isConst {
			return
		}

		xv, ok := valueOf(pass.TypesInfo, x)
		if !ok {
			return
		}
		kv, ok := constValue(k, xv.unsigned)
		if !ok {
			return
		}
		always, ok := decide(xv, op, kv)
		if !ok {
			return
		}
		var related []analysis.RelatedInformation
		if tp, ok := pass.TypesInfo.TypeOf(x).(*types.TypeParam); ok {
			related = append(related, analysis.RelatedInformation{
				Pos:     tp.Obj().Pos(),
				Message: fmt.Sprintf("%s is constrained by %s", tp.Obj().Name(), tp.Constraint()),
			})
		}
		report.Report(pass, report.Options{
			Node:            expr,
			FilterGenerated: true,
			Message:         fmt.Sprintf("comparison is always %t: %s is in %v", always, report.Render(pass.Fset, x), format(xv)),
			Related:         related,
		})
	}
	code.Preorder(pass, fn, (*ast.BinaryExpr)(nil))
	return nil, nil
}

// decide returns the outcome of 'x op k' if it is the same for all values of x.
func decide(x operand, op token.Token, k int64) (always bool, ok bool) {
	if op == token.NEQ {
		always, ok = decide(x, code.NegateComparison(op), k)
		return !always, ok
	}
	sat, nonEmpty := satisfying(op, k, x.unsigned)
	if !nonEmpty {
		return false, true
	}
	if _, overlap := l.Join(x.value, sat); !overlap {
		return false, true
	}
	if x.value.IsSubsetOf(sat) {
		return true, true
	}
	return false, false
}

// satisfying returns the set of integers v for which 'v op k' holds, in signed or unsigned order. It returns false if
// the set is empty.
func satisfying(op token.Token, k int64, unsigned bool) (vrp.Long, bool) {
	if unsigned {
		uk := uint64(k)
		switch op {
		case token.EQL:
			return l.Const(k), true
		case token.LSS:
			if uk == 0 {
				return vrp.Long{}, false
			}
			return l.URange(0, uk-1)
		case token.LEQ:
			return l.URange(0, uk)
		case token.GTR:
			if uk == math.MaxUint64 {
				return vrp.Long{}, false
			}
			return l.URange(uk+1, math.MaxUint64)
		case token.GEQ:
			return l.URange(uk, math.MaxUint64)
		}
	} else {
		switch op {
		case token.EQL:
			return l.Const(k), true
		case token.LSS:
			if k == math.MinInt64 {
				return vrp.Long{}, false
			}
			return l.Range(math.MinInt64, k-1)
		case token.LEQ:
			return l.Range(math.MinInt64, k)
		case token.GTR:
			if k == math.MaxInt64 {
				return vrp.Long{}, false
			}
			return l.Range(k+1, math.MaxInt64)
		case token.GEQ:
			return l.Range(k, math.MaxInt64)
		}
	}
	panic("unexpected operator " + op.String())
}

// constValue returns the 64-bit pattern of the integer constant k, which must be representable as a uint64 or int64
// depending on unsigned.
func constValue(k constant.Value, unsigned bool) (int64, bool) {
	typ := types.Typ[types.Int64]
	if unsigned {
		typ = types.Typ[types.Uint64]
	}
	v, ok := vrp.FromConst(k, typ)
	if !ok {
		return 0, false
	}
	c, _ := v.Constant()
	return c, true
}

// valueOf returns the values that expr can have. It returns false if expr isn't of integer type or if its type is a
// type parameter whose type set mixes signed and unsigned integers.
func valueOf(info *types.Info, expr ast.Expr) (operand, bool) {
	expr = astutil.Unparen(expr)
	terms := typeutil.IntegerTerms(info.TypeOf(expr))
	var out operand
	switch {
	case typeutil.All(terms, vrp.IsUnsigned):
		out.unsigned = true
	case typeutil.All(terms, isSigned):
	default:
		return operand{}, false
	}
	for i, term := range terms {
		v, ok := vrp.ForBasic(term)
		if !ok {
			return operand{}, false
		}
		if i == 0 {
			out.domain = v
		} else {
			out.domain = l.Meet(out.domain, v)
		}
	}
	out.value = out.domain

	// A conversion preserves the bit pattern of its operand if the operand's values are members of the target type.
	if call, ok := expr.(*ast.CallExpr); ok && len(call.Args) == 1 {
		if tv, ok := info.Types[call.Fun]; ok && tv.IsType() {
			if arg, ok := valueOf(info, call.Args[0]); ok && arg.value.IsSubsetOf(out.domain) {
				out.value = arg.value
			}
		}
		return out, true
	}

	bin, ok := expr.(*ast.BinaryExpr)
	if !ok {
		return out, true
	}
	var refined vrp.Long
	switch bin.Op {
	case token.AND, token.OR:
		kc, ok := code.IntegerConstant(info, bin.Y)
		if !ok {
			kc, ok = code.IntegerConstant(info, bin.X)
			if !ok {
				return out, true
			}
		}
		kv, ok := constValue(kc, out.unsigned)
		if !ok {
			return out, true
		}
		p := l.Domain().Prototype()
		if bin.Op == token.AND {
			p.Bits.Zeros = ^uint64(kv)
		} else {
			p.Bits.Ones = uint64(kv)
		}
		refined, ok = l.Make(p, 0)
		if !ok {
			return out, true
		}
	case token.REM:
		kc, ok := code.IntegerConstant(info, bin.Y)
		if !ok {
			return out, true
		}
		kv, ok := constValue(kc, out.unsigned)
		if !ok || kv == 0 {
			return out, true
		}
		if out.unsigned {
			refined, _ = l.URange(0, uint64(kv)-1)
		} else {
			if kv == math.MinInt64 {
				return out, true
			}
			if kv < 0 {
				kv = -kv
			}
			// The remainder has the sign of the dividend.
			lo, hi := -(kv - 1), kv-1
			if x, ok := valueOf(info, bin.X); ok {
				if x.value.Lo() >= 0 {
					lo = 0
				}
				if x.value.Hi() <= 0 {
					hi = 0
				}
			}
			refined, _ = l.Range(lo, hi)
		}
	default:
		return out, true
	}
	if v, ok := l.Join(out.domain, refined); ok {
		out.value = v
	}
	return out, true
}

func isSigned(typ *types.Basic) bool {
	return !vrp.IsUnsigned(typ)
}

// format describes the values of x in the order of its type.
func format(x operand) string {
	v := x.value
	if x.unsigned {
		if c, ok := v.Constant(); ok {
			return constant.MakeUint64(uint64(c)).String()
		}
		return v.URange().String()
	}
	return v.SRange().String()
}
