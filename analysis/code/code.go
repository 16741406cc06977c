// Package code answers structural and type questions about Go code.
package code

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
)

// IntegerConstant returns the value of expr if it is an integer constant, typed or not.
func IntegerConstant(info *types.Info, expr ast.Expr) (constant.Value, bool) {
	tv, ok := info.Types[astutil.Unparen(expr)]
	if !ok || tv.Value == nil {
		return nil, false
	}
	k := constant.ToInt(tv.Value)
	if k.Kind() != constant.Int {
		return nil, false
	}
	return k, true
}

// IsComparison reports whether op is one of the ordering or equality operators.
func IsComparison(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	default:
		return false
	}
}

// FlipComparison returns the operator op' such that 'x op y' is equivalent to 'y op' x'.
func FlipComparison(op token.Token) token.Token {
	switch op {
	case token.LSS:
		return token.GTR
	case token.LEQ:
		return token.GEQ
	case token.GTR:
		return token.LSS
	case token.GEQ:
		return token.LEQ
	default:
		return op
	}
}

// NegateComparison returns the operator that is true precisely when op is false.
func NegateComparison(op token.Token) token.Token {
	switch op {
	case token.EQL:
		return token.NEQ
	case token.NEQ:
		return token.EQL
	case token.LSS:
		return token.GEQ
	case token.LEQ:
		return token.GTR
	case token.GTR:
		return token.LEQ
	case token.GEQ:
		return token.LSS
	default:
		panic("not a comparison: " + op.String())
	}
}
