package compiler

import (
	"fmt"

	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/token"

	"github.com/yavashark/yavashark/bytecode"
	"github.com/yavashark/yavashark/scope"
)

// compileExprDiscard compiles an expression purely for its side effects,
// matching ExpressionStatement's "evaluate and drop the result"
// semantics (grounded on the teacher's `_, err = vm.evalExpr(...)`).
func (c *funcCompiler) compileExprDiscard(e ast.Expression) error {
	_, err := c.compileExpr(e)
	return err
}

// compileExpr lowers expr so its value ends up in the accumulator,
// returning true if the node produced a value at all (every supported
// case does; an unsupported node kind returns false together with a
// non-nil error). Node kinds match the teacher's evalExpr switch field-for-field
// (sebastiano-barrera-modeled.js/modeledjs.go).
func (c *funcCompiler) compileExpr(expr ast.Expression) (bool, error) {
	switch e := expr.(type) {
	case *ast.BooleanLiteral:
		c.emit(bytecode.Instr{Op: bytecode.OpLda, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandImmediateBool(e.Value)})
		return true, nil

	case *ast.NullLiteral:
		c.emit(bytecode.Instr{Op: bytecode.OpLda, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandImmediateNull()})
		return true, nil

	case *ast.NumberLiteral:
		n, err := numberLiteralValue(e.Value)
		if err != nil {
			return false, err
		}
		idx := c.internConst(bytecode.ConstOfNumber(n))
		c.emit(bytecode.Instr{Op: bytecode.OpLda, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandConstant(idx)})
		return true, nil

	case *ast.StringLiteral:
		idx := c.internConst(bytecode.ConstOfString(e.Value))
		c.emit(bytecode.Instr{Op: bytecode.OpLda, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandConstant(idx)})
		return true, nil

	case *ast.Identifier:
		c.emit(bytecode.Instr{Op: bytecode.OpLoadEnv, Dst: bytecode.OperandAccumulator(), Name: c.internVar(e.Name)})
		return true, nil

	case *ast.ThisExpression:
		c.emit(bytecode.Instr{Op: bytecode.OpLoadThis, Dst: bytecode.OperandAccumulator()})
		return true, nil

	case *ast.EmptyExpression:
		c.emit(bytecode.Instr{Op: bytecode.OpLda, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandImmediateUndefined()})
		return true, nil

	case *ast.VariableExpression:
		if e.Initializer != nil {
			if _, err := c.compileExpr(e.Initializer); err != nil {
				return false, err
			}
		} else {
			c.emit(bytecode.Instr{Op: bytecode.OpLda, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandImmediateUndefined()})
		}
		c.emitDeclareAcc(e.Name)
		return true, nil

	case *ast.AssignExpression:
		return true, c.compileAssign(e)

	case *ast.FunctionLiteral:
		reg := c.allocReg()
		if err := c.compileFunctionLiteral(e, bytecode.OperandRegister(reg)); err != nil {
			return false, err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpRegToAcc, Src: bytecode.OperandRegister(reg)})
		c.freeReg()
		return true, nil

	case *ast.ObjectLiteral:
		return true, c.compileObjectLiteral(e)

	case *ast.ArrayLiteral:
		return true, c.compileArrayLiteral(e)

	case *ast.BinaryExpression:
		return true, c.compileBinaryExpr(e)

	case *ast.UnaryExpression:
		return true, c.compileUnary(e)

	case *ast.DotExpression:
		return true, c.compileDot(e)

	case *ast.BracketExpression:
		return true, c.compileBracket(e)

	case *ast.ConditionalExpression:
		return true, c.compileConditional(e)

	case *ast.CallExpression:
		return true, c.compileCall(e)

	case *ast.NewExpression:
		return true, c.compileNew(e)

	case *ast.SequenceExpression:
		for _, item := range e.Sequence {
			if _, err := c.compileExpr(item); err != nil {
				return false, err
			}
		}
		return true, nil

	default:
		return false, fmt.Errorf("compiler: unsupported expression node: %T", expr)
	}
}

func (c *funcCompiler) emitDeclareAcc(name string) {
	c.emitDeclare(scope.DeclVar, name, bytecode.OperandAccumulator())
}

// numberLiteralValue normalizes otto's NumberLiteral.Value, which holds
// either a float64 or (for integer literals too large/precise for one)
// an int64, matching the teacher's NumberLiteral handling.
func numberLiteralValue(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("compiler: invalid number literal value %#v", v)
	}
}

// compileBinaryOperand compiles expr and leaves its value in a freshly
// allocated register rather than the accumulator, for staging an operand
// (a binary operator's right-hand side, or a computed member key) while
// the accumulator holds another value.
func (c *funcCompiler) compileBinaryOperand(expr ast.Expression) (bytecode.Reg, error) {
	if _, err := c.compileExpr(expr); err != nil {
		return 0, err
	}
	reg := c.allocReg()
	c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(reg)})
	return reg, nil
}

// compileBinaryExpr lowers a BinaryExpression. Right operand first, then
// staged to a scratch register, then left operand into the accumulator,
// then the *Acc-form opcode with Src=register — matching execBinary's
// "a = Acc (left), b = load(Src) (right)" decode (vm/dispatch.go) without
// ever needing the *RegReg surface. LOGICAL_AND/LOGICAL_OR short-circuit
// instead: the right side is only compiled (and only reached) when the
// left doesn't already decide the result.
func (c *funcCompiler) compileBinaryExpr(e *ast.BinaryExpression) error {
	if e.Operator == token.LOGICAL_AND || e.Operator == token.LOGICAL_OR {
		if _, err := c.compileExpr(e.Left); err != nil {
			return err
		}
		op := bytecode.OpLAnd
		if e.Operator == token.LOGICAL_OR {
			op = bytecode.OpLOr
		}
		jmp := c.emit(bytecode.Instr{Op: op})
		if _, err := c.compileExpr(e.Right); err != nil {
			return err
		}
		c.patchAddr(jmp, c.pc())
		return nil
	}

	opAcc, ok := binaryAccOp(e.Operator)
	if !ok {
		return fmt.Errorf("compiler: unsupported binary operator: %s", e.Operator.String())
	}

	reg, err := c.compileBinaryOperand(e.Right)
	if err != nil {
		return err
	}
	if _, err := c.compileExpr(e.Left); err != nil {
		return err
	}
	c.emit(bytecode.Instr{Op: opAcc, Src: bytecode.OperandRegister(reg)})
	c.freeReg()
	return nil
}

// binaryAccOp maps an otto binary operator token to the *Acc-surface
// opcode that computes `acc <op> src -> acc` (bytecode/instr.go's
// "three surface forms" note). Nullish-coalescing and exponentiation
// have no otto token (ES5 has neither `??` nor `**`) so OpNullishCoalescing/
// OpExp* stay unreachable from this frontend.
func binaryAccOp(op token.Token) (bytecode.Op, bool) {
	switch op {
	case token.PLUS:
		return bytecode.OpAddAcc, true
	case token.MINUS:
		return bytecode.OpSubAcc, true
	case token.MULTIPLY:
		return bytecode.OpMulAcc, true
	case token.SLASH:
		return bytecode.OpDivAcc, true
	case token.REMAINDER:
		return bytecode.OpModAcc, true
	case token.AND:
		return bytecode.OpBitAndAcc, true
	case token.OR:
		return bytecode.OpBitOrAcc, true
	case token.EXCLUSIVE_OR:
		return bytecode.OpBitXorAcc, true
	case token.SHIFT_LEFT:
		return bytecode.OpShlAcc, true
	case token.SHIFT_RIGHT:
		return bytecode.OpSarAcc, true
	case token.UNSIGNED_SHIFT_RIGHT:
		return bytecode.OpShrAcc, true
	case token.EQUAL:
		return bytecode.OpEq, true
	case token.NOT_EQUAL:
		return bytecode.OpNotEq, true
	case token.STRICT_EQUAL:
		return bytecode.OpStrictEq, true
	case token.STRICT_NOT_EQUAL:
		return bytecode.OpStrictNotEq, true
	case token.LESS:
		return bytecode.OpLt, true
	case token.LESS_OR_EQUAL:
		return bytecode.OpLtEq, true
	case token.GREATER:
		return bytecode.OpGt, true
	case token.GREATER_OR_EQUAL:
		return bytecode.OpGtEq, true
	case token.INSTANCEOF:
		return bytecode.OpInstanceOf, true
	case token.IN:
		return bytecode.OpIn, true
	default:
		return 0, false
	}
}

// compileUnary lowers UnaryExpression. delete/typeof/!/unary +/-/void
// match the teacher's operator set exactly
// (sebastiano-barrera-modeled.js/modeledjs.go); `++`/`--` arrive as
// UnaryExpression too (otto, unlike the teacher, models inc/dec as unary
// with Operator INCREMENT/DECREMENT and a Postfix flag) and lower to
// OpInc/OpDec plus a store-back, pre- or post-value kept as needed.
func (c *funcCompiler) compileUnary(e *ast.UnaryExpression) error {
	switch e.Operator {
	case token.TYPEOF:
		if _, err := c.compileExpr(e.Operand); err != nil {
			return err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpTypeOf})
		return nil

	case token.NOT:
		if _, err := c.compileExpr(e.Operand); err != nil {
			return err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpLNot})
		return nil

	case token.VOID:
		if _, err := c.compileExpr(e.Operand); err != nil {
			return err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpLda, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandImmediateUndefined()})
		return nil

	case token.PLUS:
		return c.compileExprDiscard(wrapNoOpPlus(e.Operand, c))

	case token.MINUS:
		if _, err := c.compileExpr(e.Operand); err != nil {
			return err
		}
		zero := c.internConst(bytecode.ConstOfNumber(0))
		reg := c.allocReg()
		c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(reg)})
		c.emit(bytecode.Instr{Op: bytecode.OpLda, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandConstant(zero)})
		c.emit(bytecode.Instr{Op: bytecode.OpSubAcc, Src: bytecode.OperandRegister(reg)})
		c.freeReg()
		return nil

	case token.DELETE:
		return c.compileDelete(e.Operand)

	case token.INCREMENT, token.DECREMENT:
		return c.compileIncDec(e)

	default:
		return fmt.Errorf("compiler: unsupported unary operator: %s", e.Operator.String())
	}
}

// wrapNoOpPlus implements unary `+x` (numeric coercion) as `x - 0`:
// subtraction always coerces both operands to number, so the result is
// ToNumber(x) (addition would concatenate when x is a string).
func wrapNoOpPlus(operand ast.Expression, c *funcCompiler) ast.Expression {
	return &ast.BinaryExpression{
		Operator: token.MINUS,
		Left:     operand,
		Right:    &ast.NumberLiteral{Value: float64(0)},
	}
}

// compileIncDec lowers `++x`/`x++`/`--x`/`x--`. The updated value is
// always stored back to the operand's binding; the accumulator is left
// holding the pre- or post-update value depending on Postfix.
func (c *funcCompiler) compileIncDec(e *ast.UnaryExpression) error {
	if _, err := c.compileExpr(e.Operand); err != nil {
		return err
	}
	var preReg bytecode.Reg
	if e.Postfix {
		preReg = c.allocReg()
		c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(preReg)})
	}
	op := bytecode.OpInc
	if e.Operator == token.DECREMENT {
		op = bytecode.OpDec
	}
	c.emit(bytecode.Instr{Op: op})
	if err := c.assignTo(e.Operand, bytecode.OperandAccumulator()); err != nil {
		return err
	}
	if e.Postfix {
		c.emit(bytecode.Instr{Op: bytecode.OpRegToAcc, Src: bytecode.OperandRegister(preReg)})
		c.freeReg()
	}
	return nil
}

// compileDelete lowers `delete obj.key` only; any other operand form
// (`delete obj[key]`, or a bare identifier such as `delete x`) is
// rejected.
func (c *funcCompiler) compileDelete(operand ast.Expression) error {
	switch target := operand.(type) {
	case *ast.DotExpression:
		if _, err := c.compileExpr(target.Left); err != nil {
			return err
		}
		objReg := c.allocReg()
		c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(objReg)})
		keyIdx := c.internConst(bytecode.ConstOfString(target.Identifier.Name))
		c.emit(bytecode.Instr{Op: bytecode.OpStoreMember, Obj: bytecode.OperandRegister(objReg), Key: bytecode.OperandConstant(keyIdx), Src: bytecode.OperandImmediateUndefined()})
		c.freeReg()
		c.emit(bytecode.Instr{Op: bytecode.OpLda, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandImmediateBool(true)})
		return nil
	default:
		return fmt.Errorf("compiler: unsupported delete target: %T", operand)
	}
}

func (c *funcCompiler) compileDot(e *ast.DotExpression) error {
	if _, err := c.compileExpr(e.Left); err != nil {
		return err
	}
	objReg := c.allocReg()
	c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(objReg)})
	keyIdx := c.internConst(bytecode.ConstOfString(e.Identifier.Name))
	c.emit(bytecode.Instr{Op: bytecode.OpLoadMember, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandRegister(objReg), Key: bytecode.OperandConstant(keyIdx)})
	c.freeReg()
	return nil
}

func (c *funcCompiler) compileBracket(e *ast.BracketExpression) error {
	keyReg, err := c.compileBinaryOperand(e.Member)
	if err != nil {
		return err
	}
	if _, err := c.compileExpr(e.Left); err != nil {
		return err
	}
	objReg := c.allocReg()
	c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(objReg)})
	c.emit(bytecode.Instr{Op: bytecode.OpLoadMember, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandRegister(objReg), Key: bytecode.OperandRegister(keyReg)})
	c.freeReg()
	c.freeReg()
	return nil
}

func (c *funcCompiler) compileConditional(e *ast.ConditionalExpression) error {
	if _, err := c.compileExpr(e.Test); err != nil {
		return err
	}
	jmpElse := c.emit(bytecode.Instr{Op: bytecode.OpJmpIfNot})
	if _, err := c.compileExpr(e.Consequent); err != nil {
		return err
	}
	jmpEnd := c.emit(bytecode.Instr{Op: bytecode.OpJmp})
	c.patchAddr(jmpElse, c.pc())
	if _, err := c.compileExpr(e.Alternate); err != nil {
		return err
	}
	c.patchAddr(jmpEnd, c.pc())
	return nil
}

// compileCall lowers a CallExpression. A `obj.method(...)`/`obj[key](...)`
// callee compiles through OpCallMember so `this` binds to obj without a
// separate OpLoadMember (matching the teacher's method-call special case
// in evalExpr's *ast.CallExpression branch); any other callee form goes
// through plain OpCall with `this` left undefined.
func (c *funcCompiler) compileCall(e *ast.CallExpression) error {
	switch callee := e.Callee.(type) {
	case *ast.DotExpression:
		if _, err := c.compileExpr(callee.Left); err != nil {
			return err
		}
		objReg := c.allocReg()
		c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(objReg)})
		keyIdx := c.internConst(bytecode.ConstOfString(callee.Identifier.Name))
		n, err := c.pushArgs(e.ArgumentList)
		if err != nil {
			return err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpCallMember, Dst: bytecode.OperandAccumulator(), Obj: bytecode.OperandRegister(objReg), Key: bytecode.OperandConstant(keyIdx), N: n})
		c.freeReg()
		return nil

	case *ast.BracketExpression:
		if _, err := c.compileExpr(callee.Left); err != nil {
			return err
		}
		objReg := c.allocReg()
		c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(objReg)})
		keyReg, err := c.compileBinaryOperand(callee.Member)
		if err != nil {
			return err
		}
		n, err := c.pushArgs(e.ArgumentList)
		if err != nil {
			return err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpCallMember, Dst: bytecode.OperandAccumulator(), Obj: bytecode.OperandRegister(objReg), Key: bytecode.OperandRegister(keyReg), N: n})
		c.freeReg()
		c.freeReg()
		return nil

	default:
		if _, err := c.compileExpr(e.Callee); err != nil {
			return err
		}
		calleeReg := c.allocReg()
		c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(calleeReg)})
		n, err := c.pushArgs(e.ArgumentList)
		if err != nil {
			return err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpCall, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandRegister(calleeReg), N: n})
		c.freeReg()
		return nil
	}
}

func (c *funcCompiler) compileNew(e *ast.NewExpression) error {
	if _, err := c.compileExpr(e.Callee); err != nil {
		return err
	}
	calleeReg := c.allocReg()
	c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(calleeReg)})
	n, err := c.pushArgs(e.ArgumentList)
	if err != nil {
		return err
	}
	c.emit(bytecode.Instr{Op: bytecode.OpNew, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandRegister(calleeReg), N: n})
	c.freeReg()
	return nil
}

// pushArgs evaluates each argument in order and pushes it onto the
// operand stack, matching OpCall/OpCallMember/OpNew's "consumes Instr.N
// arguments from the top of the stack" contract (bytecode/instr.go).
func (c *funcCompiler) pushArgs(args []ast.Expression) (int32, error) {
	for _, arg := range args {
		if _, err := c.compileExpr(arg); err != nil {
			return 0, err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpPush, Src: bytecode.OperandAccumulator()})
	}
	return int32(len(args)), nil
}

// compileObjectLiteral lowers `{...}` via `new Object()` plus one
// OpStoreMember per "init"-kind property — there's no dedicated
// object-literal opcode, so an object literal is exactly what
// constructing through the global Object constructor and populating it
// produces (grounded on the teacher's own "NewJSObject(&ProtoObject)
// then SetProperty per prop" shape). Accessor ("get"/"set") properties
// are rejected: the teacher's own object-literal case doesn't implement
// them either (its "get" arm is an empty no-op).
func (c *funcCompiler) compileObjectLiteral(e *ast.ObjectLiteral) error {
	ctorReg, err := c.loadGlobalConstructor("Object")
	if err != nil {
		return err
	}
	c.emit(bytecode.Instr{Op: bytecode.OpNew, Dst: bytecode.OperandAccumulator(), Src: bytecode.OperandRegister(ctorReg), N: 0})
	c.freeReg()

	objReg := c.allocReg()
	c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(objReg)})

	for _, prop := range e.Value {
		if prop.Kind != "init" {
			return fmt.Errorf("compiler: object literal getter/setter properties are not supported")
		}
		if _, err := c.compileExpr(prop.Value); err != nil {
			return err
		}
		keyIdx := c.internConst(bytecode.ConstOfString(prop.Key))
		c.emit(bytecode.Instr{Op: bytecode.OpStoreMember, Obj: bytecode.OperandRegister(objReg), Key: bytecode.OperandConstant(keyIdx), Src: bytecode.OperandAccumulator()})
	}

	c.emit(bytecode.Instr{Op: bytecode.OpRegToAcc, Src: bytecode.OperandRegister(objReg)})
	c.freeReg()
	return nil
}

// compileArrayLiteral lowers `[...]` via `Array.of(...)`: pushing every
// element expression as an argument builds an array of exactly those
// elements (unlike `new Array(n)`, a single numeric element is not taken
// as a length), the same way the teacher builds an array literal by
// appending each evaluated item directly into arrayPart.
func (c *funcCompiler) compileArrayLiteral(e *ast.ArrayLiteral) error {
	ctorReg, err := c.loadGlobalConstructor("Array")
	if err != nil {
		return err
	}
	keyIdx := c.internConst(bytecode.ConstOfString("of"))
	n, err := c.pushArgs(e.Value)
	if err != nil {
		return err
	}
	c.emit(bytecode.Instr{Op: bytecode.OpCallMember, Dst: bytecode.OperandAccumulator(), Obj: bytecode.OperandRegister(ctorReg), Key: bytecode.OperandConstant(keyIdx), N: n})
	c.freeReg()
	return nil
}

func (c *funcCompiler) loadGlobalConstructor(name string) (bytecode.Reg, error) {
	c.emit(bytecode.Instr{Op: bytecode.OpLoadEnv, Dst: bytecode.OperandAccumulator(), Name: c.internVar(name)})
	reg := c.allocReg()
	c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(reg)})
	return reg, nil
}

// compileAssign lowers AssignExpression: `=` simply stores the
// right-hand side; a compound operator (`+=`, `&=`, ...) reads the
// current value of Left first, the same two-step the teacher's
// doAssignment/evalExpr *ast.AssignExpression split performs, generalized
// here to every operator the binaryAccOp table recognizes instead
// of only PLUS.
func (c *funcCompiler) compileAssign(e *ast.AssignExpression) error {
	if e.Operator == token.ASSIGN {
		if _, err := c.compileExpr(e.Right); err != nil {
			return err
		}
		return c.assignTo(e.Left, bytecode.OperandAccumulator())
	}

	opAcc, ok := binaryAccOp(e.Operator)
	if !ok {
		return fmt.Errorf("compiler: unsupported compound assignment operator: %s", e.Operator.String())
	}
	rightReg, err := c.compileBinaryOperand(e.Right)
	if err != nil {
		return err
	}
	if _, err := c.compileExpr(e.Left); err != nil {
		return err
	}
	c.emit(bytecode.Instr{Op: opAcc, Src: bytecode.OperandRegister(rightReg)})
	c.freeReg()
	return c.assignTo(e.Left, bytecode.OperandAccumulator())
}

// assignTo stores src into target, matching doAssignment's three target
// shapes (sebastiano-barrera-modeled.js/modeledjs.go): a bare identifier,
// `obj.key`, or `obj[key]`.
func (c *funcCompiler) assignTo(target ast.Expression, src bytecode.Operand) error {
	switch t := target.(type) {
	case *ast.Identifier:
		c.emit(bytecode.Instr{Op: bytecode.OpStoreEnv, Name: c.internVar(t.Name), Src: src})
		return nil

	case *ast.DotExpression:
		value, stashed := c.stashIfAcc(src)
		if _, err := c.compileExpr(t.Left); err != nil {
			return err
		}
		objReg := c.allocReg()
		c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(objReg)})
		keyIdx := c.internConst(bytecode.ConstOfString(t.Identifier.Name))
		c.emit(bytecode.Instr{Op: bytecode.OpStoreMember, Obj: bytecode.OperandRegister(objReg), Key: bytecode.OperandConstant(keyIdx), Src: value})
		c.freeReg()
		if stashed {
			c.freeReg()
		}
		return nil

	case *ast.BracketExpression:
		value, stashed := c.stashIfAcc(src)
		keyReg, err := c.compileBinaryOperand(t.Member)
		if err != nil {
			return err
		}
		if _, err := c.compileExpr(t.Left); err != nil {
			return err
		}
		objReg := c.allocReg()
		c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(objReg)})
		c.emit(bytecode.Instr{Op: bytecode.OpStoreMember, Obj: bytecode.OperandRegister(objReg), Key: bytecode.OperandRegister(keyReg), Src: value})
		c.freeReg()
		c.freeReg()
		if stashed {
			c.freeReg()
		}
		return nil

	default:
		return fmt.Errorf("compiler: invalid assignment target: %T", target)
	}
}

// stashIfAcc protects a value sitting in the accumulator from being
// clobbered by the object/key sub-expressions assignTo must evaluate
// afterward, by copying it into a scratch register; the returned operand
// is what the eventual OpStoreMember should read the value from. Values
// already living in a register or constant need no protection and are
// returned unchanged.
func (c *funcCompiler) stashIfAcc(src bytecode.Operand) (bytecode.Operand, bool) {
	if src.Kind != bytecode.OperandAcc {
		return src, false
	}
	reg := c.allocReg()
	c.emit(bytecode.Instr{Op: bytecode.OpAccToReg, Dst: bytecode.OperandRegister(reg)})
	return bytecode.OperandRegister(reg), true
}
