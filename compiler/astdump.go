package compiler

import (
	"fmt"
	"io"
	"strings"

	"github.com/robertkrimen/otto/ast"
)

// DumpAST writes an indented textual dump of program to w, one line per
// node with its depth and a short type-specific summary — the
// cmd/yavashark `ast` subcommand's output. Adapted from the teacher's
// now-removed printer.go, which walked the same otto ast.Visitor
// interface (ast.Walk/Enter/Exit, also used by the teacher's strict-mode
// checker in modeledjs.go) to print a tree; this version is built fresh
// against the node vocabulary this package's compiler already lowers,
// rather than ported line-for-line.
func DumpAST(program *ast.Program, w io.Writer) error {
	d := &astDumper{w: w}
	ast.Walk(d, program)
	return d.err
}

type astDumper struct {
	w     io.Writer
	depth int
	err   error
}

func (d *astDumper) Enter(node ast.Node) ast.Visitor {
	if d.err != nil || node == nil {
		return nil
	}
	line := fmt.Sprintf("%s%s\n", strings.Repeat("  ", d.depth), describeNode(node))
	if _, err := io.WriteString(d.w, line); err != nil {
		d.err = err
		return nil
	}
	d.depth++
	return d
}

func (d *astDumper) Exit(ast.Node) {
	d.depth--
}

// describeNode renders a one-line summary for the node kinds this
// package's compiler understands; anything else falls back to its Go
// type name so an unsupported construct is still visible in a dump used
// to debug why compilation rejected it.
func describeNode(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Program:
		return "Program"
	case *ast.Identifier:
		return "Identifier " + n.Name
	case *ast.StringLiteral:
		return fmt.Sprintf("StringLiteral %q", n.Value)
	case *ast.NumberLiteral:
		return fmt.Sprintf("NumberLiteral %v", n.Value)
	case *ast.BooleanLiteral:
		return fmt.Sprintf("BooleanLiteral %v", n.Value)
	case *ast.NullLiteral:
		return "NullLiteral"
	case *ast.BinaryExpression:
		return "BinaryExpression " + n.Operator.String()
	case *ast.UnaryExpression:
		return "UnaryExpression " + n.Operator.String()
	case *ast.AssignExpression:
		return "AssignExpression " + n.Operator.String()
	case *ast.CallExpression:
		return "CallExpression"
	case *ast.NewExpression:
		return "NewExpression"
	case *ast.DotExpression:
		return "DotExpression ." + n.Identifier.Name
	case *ast.BracketExpression:
		return "BracketExpression"
	case *ast.ConditionalExpression:
		return "ConditionalExpression"
	case *ast.FunctionLiteral:
		name := "<anonymous>"
		if n.Name != nil {
			name = n.Name.Name
		}
		return "FunctionLiteral " + name
	case *ast.FunctionStatement:
		return "FunctionStatement"
	case *ast.VariableStatement:
		return "VariableStatement"
	case *ast.VariableExpression:
		return "VariableExpression " + n.Name
	case *ast.ReturnStatement:
		return "ReturnStatement"
	case *ast.IfStatement:
		return "IfStatement"
	case *ast.ForStatement:
		return "ForStatement"
	case *ast.ForInStatement:
		return "ForInStatement"
	case *ast.WhileStatement:
		return "WhileStatement"
	case *ast.DoWhileStatement:
		return "DoWhileStatement"
	case *ast.BlockStatement:
		return "BlockStatement"
	case *ast.TryStatement:
		return "TryStatement"
	case *ast.ThrowStatement:
		return "ThrowStatement"
	case *ast.BranchStatement:
		if n.Continue {
			return "BranchStatement continue"
		}
		return "BranchStatement break"
	case *ast.ExpressionStatement:
		return "ExpressionStatement"
	case *ast.EmptyStatement:
		return "EmptyStatement"
	case *ast.ObjectLiteral:
		return fmt.Sprintf("ObjectLiteral (%d props)", len(n.Value))
	case *ast.ArrayLiteral:
		return fmt.Sprintf("ArrayLiteral (%d items)", len(n.Value))
	case *ast.ThisExpression:
		return "ThisExpression"
	case *ast.SequenceExpression:
		return "SequenceExpression"
	default:
		return fmt.Sprintf("%T", node)
	}
}
