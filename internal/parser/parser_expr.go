package parser

import (
	"strconv"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/lexer"
)

// parseStatement parses one of If | For | ForIn | While | Assign |
// Expression, the body of a Body block or a single-line function body.
func (p *Parser) parseStatement() *ast.Statement {
	start := p.cur

	switch p.cur.Type {
	case lexer.IF:
		ifNode := p.parseIf(false)
		if ifNode.Else != nil {
			// With an else branch, `if` is an expression (OperandIf).
			operand := &ast.Operand{Kind: ast.OperandIf, If: ifNode, Ident: ifNode.Ident}
			unary := &ast.UnaryExpr{Primary: &ast.PrimaryExpr{Operand: operand, Ident: ifNode.Ident}, Ident: ifNode.Ident}
			expr := &ast.Expression{Left: unary, Ident: ifNode.Ident}
			return &ast.Statement{Kind: ast.StmtExpression, Expression: expr, Ident: p.identity(start)}
		}
		return &ast.Statement{Kind: ast.StmtIf, If: ifNode, Ident: p.identity(start)}
	case lexer.FOR:
		if p.peek.Type == lexer.IDENT {
			return p.parseForOrForIn(start)
		}
	case lexer.WHILE:
		w := p.parseWhile()
		return &ast.Statement{Kind: ast.StmtWhile, While: w, Ident: p.identity(start)}
	}

	if p.cur.Type == lexer.IDENT && p.isAssignAhead() {
		a := p.parseAssign()
		return &ast.Statement{Kind: ast.StmtAssign, Assign: a, Ident: p.identity(start)}
	}

	expr := p.parseExpression(0)
	return &ast.Statement{Kind: ast.StmtExpression, Expression: expr, Ident: p.identity(start)}
}

// isAssignAhead looks past an optional `: Type` annotation to see
// whether this identifier is bound here (`name [: Type] = value`) as
// opposed to merely being the start of an expression statement.
func (p *Parser) isAssignAhead() bool {
	if p.peek.Type == lexer.ASSIGN {
		return true
	}
	return p.peek.Type == lexer.COLON
}

func (p *Parser) parseAssign() *ast.Assign {
	start := p.cur
	nameTok, _ := p.expect(lexer.IDENT)
	name := &ast.Identifier{Name: nameTok.Literal, Ident: p.identity(nameTok)}

	var typ ast.Type
	if p.cur.Type == lexer.COLON {
		p.advance()
		typ = p.parseType()
	}

	p.expect(lexer.ASSIGN)
	value := p.parseExpression(0)

	return &ast.Assign{Name: name, Type: typ, Value: value, Ident: p.identity(start)}
}

func (p *Parser) parseForOrForIn(start lexer.Token) *ast.Statement {
	p.advance() // consume 'for'
	nameTok, _ := p.expect(lexer.IDENT)

	if p.cur.Type == lexer.IN {
		p.advance()
		p.noStructLiteral = true
		iterable := p.parseExpression(0)
		p.noStructLiteral = false
		body := p.parseBlockBody()
		forIn := &ast.ForIn{
			Name:     &ast.Identifier{Name: nameTok.Literal, Ident: p.identity(nameTok)},
			Iterable: iterable,
			Body:     body,
			Ident:    p.identity(start),
		}
		return &ast.Statement{Kind: ast.StmtForIn, ForIn: forIn, Ident: forIn.Ident}
	}

	// C-style `for init; cond; step { body }`; nameTok already consumed
	// as the init assignment's target.
	p.expect(lexer.ASSIGN)
	initVal := p.parseExpression(0)
	init := &ast.Statement{
		Kind: ast.StmtAssign,
		Assign: &ast.Assign{
			Name:  &ast.Identifier{Name: nameTok.Literal, Ident: p.identity(nameTok)},
			Value: initVal,
			Ident: p.identity(nameTok),
		},
		Ident: p.identity(nameTok),
	}
	p.expect(lexer.SEMICOLON)
	p.noStructLiteral = true
	cond := p.parseExpression(0)
	p.noStructLiteral = false
	p.expect(lexer.SEMICOLON)
	step := p.parseStatement()
	body := p.parseBlockBody()

	forNode := &ast.For{Init: init, Cond: cond, Step: step, Body: body, Ident: p.identity(start)}
	return &ast.Statement{Kind: ast.StmtFor, For: forNode, Ident: forNode.Ident}
}

func (p *Parser) parseWhile() *ast.While {
	start := p.cur
	p.advance() // consume 'while'
	p.noStructLiteral = true
	cond := p.parseExpression(0)
	p.noStructLiteral = false
	body := p.parseBlockBody()
	return &ast.While{Cond: cond, Body: body, Ident: p.identity(start)}
}

// parseBlockBody parses a brace-delimited block `{ stmt... }`.
func (p *Parser) parseBlockBody() *ast.Body {
	start := p.cur
	p.expect(lexer.LBRACE)
	p.skipBraceNoise()

	var stmts []*ast.Statement
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipBraceNoise()
	}
	p.expect(lexer.RBRACE)

	return &ast.Body{Statements: stmts, Ident: p.identity(start)}
}

// parseIf parses `if pred then body [else ...]`. requireElse enforces
// the expression-context rule: an else-less `if` is only legal as a
// bare statement.
func (p *Parser) parseIf(requireElse bool) *ast.If {
	start := p.cur
	p.advance() // consume 'if'

	pred := p.parseExpression(0)
	p.expect(lexer.THEN)
	then := p.parseBody()

	var elseBranch *ast.Else
	if p.cur.Type == lexer.ELSE {
		elseStart := p.cur
		p.advance()
		if p.cur.Type == lexer.IF {
			nested := p.parseIf(requireElse)
			elseBranch = &ast.Else{If: nested, Ident: p.identity(elseStart)}
		} else {
			body := p.parseBody()
			elseBranch = &ast.Else{Body: body, Ident: p.identity(elseStart)}
		}
	} else if requireElse {
		p.errorf(p.cur, "else")
	}

	return &ast.If{Predicate: pred, Then: then, Else: elseBranch, Ident: p.identity(start)}
}

// parseExpression implements precedence climbing over ctx.Operators,
// re-boxing compound sub-expressions into UnaryExpr via a parenthesized
// Operand so the Left/Right shape of ast.Expression can still nest.
func (p *Parser) parseExpression(minPrec int) *ast.Expression {
	left := p.parseUnary()
	return p.parseExpressionCont(left, minPrec)
}

func (p *Parser) parseExpressionCont(left *ast.UnaryExpr, minPrec int) *ast.Expression {
	start := left.Ident
	for {
		op, prec, ok := p.peekOperator()
		if !ok || prec < minPrec {
			break
		}
		p.advance() // consume operator

		rightUnary := p.parseUnary()
		rightExpr := p.parseExpressionCont(rightUnary, prec+1)

		combined := &ast.Expression{Left: left, Op: op, Right: rightExpr, Ident: start}
		left = p.wrapExpressionAsUnary(combined)
	}
	return &ast.Expression{Left: left, Ident: start}
}

// peekOperator reports whether cur is a known binary operator token,
// returning its literal and declared precedence.
func (p *Parser) peekOperator() (string, int, bool) {
	switch p.cur.Type {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT,
		lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
		lexer.AND, lexer.OR:
		lit := p.cur.Literal
		if prec, ok := p.ctx.Operators[lit]; ok {
			return lit, prec, true
		}
	}
	return "", 0, false
}

// wrapExpressionAsUnary boxes a compound Expression so it can serve as
// the Left operand of a further continuation.
func (p *Parser) wrapExpressionAsUnary(e *ast.Expression) *ast.UnaryExpr {
	operand := &ast.Operand{Kind: ast.OperandExpression, Expression: e, Ident: e.Ident}
	primary := &ast.PrimaryExpr{Operand: operand, Ident: e.Ident}
	return &ast.UnaryExpr{Primary: primary, Ident: e.Ident}
}

func (p *Parser) parseUnary() *ast.UnaryExpr {
	start := p.cur
	if p.cur.Type == lexer.MINUS || p.cur.Type == lexer.NOT {
		op := p.cur.Literal
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op, Operand: operand, Ident: p.identity(start)}
	}

	primary := p.parsePrimary()
	return &ast.UnaryExpr{Primary: primary, Ident: p.identity(start)}
}

func (p *Parser) parsePrimary() *ast.PrimaryExpr {
	start := p.cur
	operand := p.parseOperand()

	var secondaries []*ast.SecondaryExpr
	for {
		switch p.cur.Type {
		case lexer.DOT:
			secStart := p.cur
			p.advance()
			nameTok, ok := p.expect(lexer.IDENT)
			if !ok {
				break
			}
			secondaries = append(secondaries, &ast.SecondaryExpr{
				Kind: ast.SecondarySelector, Selector: nameTok.Literal, Ident: p.identity(secStart),
			})
			continue
		case lexer.LPAREN:
			secStart := p.cur
			p.advance()
			var args []*ast.Expression
			for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
				args = append(args, p.parseExpression(0))
				if p.cur.Type == lexer.COMMA {
					p.advance()
				}
			}
			p.expect(lexer.RPAREN)
			secondaries = append(secondaries, &ast.SecondaryExpr{
				Kind: ast.SecondaryArguments, Args: args, Ident: p.identity(secStart),
			})
			continue
		case lexer.LBRACKET:
			secStart := p.cur
			p.advance()
			idx := p.parseExpression(0)
			p.expect(lexer.RBRACKET)
			secondaries = append(secondaries, &ast.SecondaryExpr{
				Kind: ast.SecondaryIndex, Index: idx, Ident: p.identity(secStart),
			})
			continue
		}
		break
	}

	// Operands written right after a bare identifier (`f a b`) are its
	// call arguments, one operand each: `add 2 3 - 5` is `(add 2 3) - 5`.
	argStarts := map[lexer.TokenType]bool{lexer.IDENT: true, lexer.INT: true, lexer.FLOAT: true,
		lexer.STRING: true, lexer.CHAR: true, lexer.TRUE: true, lexer.FALSE: true, lexer.LPAREN: true}
	argStart := p.cur
	var args []*ast.Expression
	for operand.Kind == ast.OperandIdentifier && len(secondaries) == 0 && argStarts[p.cur.Type] {
		arg := p.parseOperand()
		unary := &ast.UnaryExpr{Primary: &ast.PrimaryExpr{Operand: arg, Ident: arg.Ident}, Ident: arg.Ident}
		args = append(args, &ast.Expression{Left: unary, Ident: arg.Ident})
	}
	if len(args) > 0 {
		secondaries = append(secondaries, &ast.SecondaryExpr{Kind: ast.SecondaryArguments, Args: args, Ident: p.identity(argStart)})
	}

	return &ast.PrimaryExpr{Operand: operand, Secondaries: secondaries, Ident: p.identity(start)}
}

func (p *Parser) parseOperand() *ast.Operand {
	start := p.cur

	switch p.cur.Type {
	case lexer.INT:
		p.advance()
		v, _ := strconv.ParseInt(start.Literal, 10, 64)
		lit := &ast.Literal{Kind: ast.IntLit, Value: v, Ident: p.identity(start)}
		return &ast.Operand{Kind: ast.OperandLiteral, Literal: lit, Ident: lit.Ident}
	case lexer.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(start.Literal, 64)
		lit := &ast.Literal{Kind: ast.FloatLit, Value: v, Ident: p.identity(start)}
		return &ast.Operand{Kind: ast.OperandLiteral, Literal: lit, Ident: lit.Ident}
	case lexer.STRING:
		p.advance()
		lit := &ast.Literal{Kind: ast.StringLit, Value: start.Literal, Ident: p.identity(start)}
		return &ast.Operand{Kind: ast.OperandLiteral, Literal: lit, Ident: lit.Ident}
	case lexer.CHAR:
		p.advance()
		r := []rune(start.Literal)[0]
		lit := &ast.Literal{Kind: ast.CharLit, Value: r, Ident: p.identity(start)}
		return &ast.Operand{Kind: ast.OperandLiteral, Literal: lit, Ident: lit.Ident}
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		lit := &ast.Literal{Kind: ast.BoolLit, Value: start.Type == lexer.TRUE, Ident: p.identity(start)}
		return &ast.Operand{Kind: ast.OperandLiteral, Literal: lit, Ident: lit.Ident}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression(0)
		p.expect(lexer.RPAREN)
		return &ast.Operand{Kind: ast.OperandExpression, Expression: expr, Ident: p.identity(start)}
	case lexer.IF:
		ifNode := p.parseIf(true)
		return &ast.Operand{Kind: ast.OperandIf, If: ifNode, Ident: p.identity(start)}
	case lexer.IDENT:
		if p.peek.Type == lexer.LBRACE && !p.noStructLiteral {
			return p.parseStructInitOperand()
		}
		p.advance()
		ident := &ast.Identifier{Name: start.Literal, Ident: p.identity(start)}
		return &ast.Operand{Kind: ast.OperandIdentifier, Identifier: ident, Ident: p.identity(start)}
	}

	p.errorf(p.cur, "expression")
	p.advance()
	return &ast.Operand{Kind: ast.OperandLiteral, Literal: &ast.Literal{Kind: ast.IntLit, Value: int64(0)}, Ident: p.identity(start)}
}

func (p *Parser) parseStructInitOperand() *ast.Operand {
	start := p.cur
	nameTok, _ := p.expect(lexer.IDENT)
	name := &ast.Identifier{Name: nameTok.Literal, Ident: p.identity(nameTok)}

	p.expect(lexer.LBRACE)
	p.skipBraceNoise()

	fields := map[string]*ast.Expression{}
	var order []string
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		fieldTok, ok := p.expect(lexer.IDENT)
		if !ok {
			break
		}
		p.expect(lexer.ASSIGN)
		value := p.parseExpression(0)
		if _, exists := fields[fieldTok.Literal]; !exists {
			order = append(order, fieldTok.Literal)
		}
		fields[fieldTok.Literal] = value
		if p.cur.Type == lexer.COMMA {
			p.advance()
		}
		p.skipBraceNoise()
	}
	p.expect(lexer.RBRACE)

	init := &ast.StructInit{Name: name, Fields: fields, Order: order, Ident: p.identity(start)}
	return &ast.Operand{Kind: ast.OperandStructInit, StructInit: init, Ident: init.Ident}
}
