package parser

import (
	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/lexer"
)

// parseModDecl parses `mod name`, resolving the child module's source
// text through ctx.Resolver and recursively parsing it into a SubMod.
func (p *Parser) parseModDecl(path ast.IdentifierPath) *ast.TopLevel {
	start := p.cur
	p.advance() // consume 'mod'

	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	name := &ast.Identifier{Name: nameTok.Literal, Ident: p.identity(nameTok)}

	childPath := path.Child(name.Name)

	var subMod *ast.Mod
	if p.ctx.Resolver != nil {
		childFile, content, err := p.ctx.Resolver.ResolveModule(p.file, name.Name)
		if err != nil {
			p.ctx.Diags.Push(diag.FileNotFound(name.Ident.Span, name.Name))
		} else {
			normalized := string(lexer.Normalize([]byte(content)))
			childLexer := lexer.New(normalized, childFile)
			childParser := New(childLexer, p.ctx, childFile, normalized)
			subMod = childParser.parseMod(childPath)
		}
	}

	return &ast.TopLevel{
		Kind:    ast.TopMod,
		ModName: name,
		SubMod:  subMod,
		Ident:   p.identity(start),
	}
}

// parseUseDecl parses `use a::b::(c, d)` or `use a::b::(*)`.
func (p *Parser) parseUseDecl() *ast.TopLevel {
	start := p.cur
	p.advance() // consume 'use'

	path, ok := p.parseDottedPath()
	if !ok {
		return nil
	}

	use := &ast.UseDecl{Path: path}

	if p.cur.Type == lexer.LPAREN {
		p.advance()
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			if p.cur.Type == lexer.STAR {
				use.Wildcard = true
				p.advance()
			} else {
				tok, ok := p.expect(lexer.IDENT)
				if !ok {
					break
				}
				use.Symbols = append(use.Symbols, tok.Literal)
			}
			if p.cur.Type == lexer.COMMA {
				p.advance()
			}
		}
		p.expect(lexer.RPAREN)
	}

	use.Ident = p.identity(start)
	return &ast.TopLevel{Kind: ast.TopUse, Use: use, Ident: use.Ident}
}

// parseDottedPath parses `a::b::c`, stopping before a trailing `::(`
// symbol list.
func (p *Parser) parseDottedPath() (ast.IdentifierPath, bool) {
	tok, ok := p.expect(lexer.IDENT)
	if !ok {
		return ast.IdentifierPath{}, false
	}
	path := ast.IdentifierPath{Parts: []string{tok.Literal}}

	for p.cur.Type == lexer.DCOLON && p.peek.Type == lexer.IDENT {
		p.advance()
		tok, _ := p.expect(lexer.IDENT)
		path.Parts = append(path.Parts, tok.Literal)
	}

	if p.cur.Type == lexer.DCOLON {
		p.advance()
	}

	return path, true
}

func (p *Parser) parseInfixDecl() *ast.TopLevel {
	start := p.cur
	p.advance() // consume 'infix'

	nameTok := p.cur
	p.advance() // operator literal (lexed as its own token type)
	name := nameTok.Literal

	precTok, ok := p.expect(lexer.INT)
	if !ok {
		return nil
	}
	prec := uint8(parseIntLiteral(precTok.Literal))

	id := p.identity(start)
	p.ctx.DeclareInfix(id.Span, name, prec)

	return &ast.TopLevel{
		Kind:      ast.TopInfix,
		InfixName: &ast.Identifier{Name: name, Ident: p.identity(nameTok)},
		InfixPrec: prec,
		Ident:     id,
	}
}

func (p *Parser) parseStructDecl() *ast.TopLevel {
	start := p.cur
	p.advance() // consume 'struct'

	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	name := &ast.Identifier{Name: nameTok.Literal, Ident: p.identity(nameTok)}

	var fields []*ast.StructField
	p.expect(lexer.LBRACE)
	p.skipBraceNoise()
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		fieldStart := p.cur
		fieldName, ok := p.expect(lexer.IDENT)
		if !ok {
			break
		}
		p.expect(lexer.COLON)
		fieldType := p.parseType()
		fields = append(fields, &ast.StructField{
			Name:  &ast.Identifier{Name: fieldName.Literal, Ident: p.identity(fieldName)},
			Type:  fieldType,
			Ident: p.identity(fieldStart),
		})
		if p.cur.Type == lexer.COMMA {
			p.advance()
		}
		p.skipBraceNoise()
	}
	p.expect(lexer.RBRACE)

	decl := &ast.StructDecl{Name: name, Defs: fields, Ident: p.identity(start)}
	return &ast.TopLevel{Kind: ast.TopStruct, Struct: decl, Ident: decl.Ident}
}

func (p *Parser) parseTraitDecl() *ast.TopLevel {
	start := p.cur
	p.advance() // consume 'trait'

	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	name := &ast.Identifier{Name: nameTok.Literal, Ident: p.identity(nameTok)}

	var typeArg *ast.Identifier
	if p.cur.Type == lexer.LPAREN {
		p.advance()
		argTok, ok := p.expect(lexer.IDENT)
		if ok {
			typeArg = &ast.Identifier{Name: argTok.Literal, Ident: p.identity(argTok)}
		}
		p.expect(lexer.RPAREN)
	}

	var defs []*ast.Prototype
	var defaults []*ast.FunctionDecl

	p.expect(lexer.LBRACE)
	p.skipBraceNoise()
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if top := p.parseFunctionOrPrototype(); top != nil {
			switch top.Kind {
			case ast.TopPrototype:
				defs = append(defs, top.Prototype)
			case ast.TopFunction:
				defaults = append(defaults, top.Function)
			}
		}
		p.skipBraceNoise()
	}
	p.expect(lexer.RBRACE)

	decl := &ast.TraitDecl{Name: name, TypeArgument: typeArg, Defs: defs, DefaultImpl: defaults, Ident: p.identity(start)}
	return &ast.TopLevel{Kind: ast.TopTrait, Trait: decl, Ident: decl.Ident}
}

func (p *Parser) parseImplDecl() *ast.TopLevel {
	start := p.cur
	p.advance() // consume 'impl'

	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	name := &ast.Identifier{Name: nameTok.Literal, Ident: p.identity(nameTok)}

	var types []ast.Type
	if p.cur.Type == lexer.FOR {
		p.advance()
		types = append(types, p.parseType())
		for p.cur.Type == lexer.COMMA {
			p.advance()
			types = append(types, p.parseType())
		}
	}

	var defs []*ast.FunctionDecl
	p.expect(lexer.LBRACE)
	p.skipBraceNoise()
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if top := p.parseFunctionOrPrototype(); top != nil && top.Kind == ast.TopFunction {
			defs = append(defs, top.Function)
		}
		p.skipBraceNoise()
	}
	p.expect(lexer.RBRACE)

	decl := &ast.ImplDecl{Name: name, Types: types, Defs: defs, Ident: p.identity(start)}
	return &ast.TopLevel{Kind: ast.TopImpl, Impl: decl, Ident: decl.Ident}
}

// parseFunctionOrPrototype parses `name args... = body`, `name args... :
// sig = body`, or a bodyless `name : sig` Prototype.
func (p *Parser) parseFunctionOrPrototype() *ast.TopLevel {
	start := p.cur
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		p.advance()
		return nil
	}
	name := &ast.Identifier{Name: nameTok.Literal, Ident: p.identity(nameTok)}

	var args []*ast.ArgumentDecl
	for p.cur.Type == lexer.IDENT {
		argTok := p.cur
		p.advance()
		args = append(args, &ast.ArgumentDecl{
			Name:  &ast.Identifier{Name: argTok.Literal, Ident: p.identity(argTok)},
			Ident: p.identity(argTok),
		})
	}

	var sig *ast.TypeSignature
	if p.cur.Type == lexer.COLON {
		p.advance()
		sig = p.parseTypeSignature()
	}

	if p.cur.Type != lexer.ASSIGN {
		proto := &ast.Prototype{Name: name, Signature: sig, Ident: p.identity(start)}
		return &ast.TopLevel{Kind: ast.TopPrototype, Prototype: proto, Ident: proto.Ident}
	}

	p.advance() // consume '='
	body := p.parseBody()

	fn := &ast.FunctionDecl{Name: name, Arguments: args, Body: body, Signature: sig, Ident: p.identity(start)}
	return &ast.TopLevel{Kind: ast.TopFunction, Function: fn, Ident: fn.Ident}
}

func (p *Parser) parseTypeSignature() *ast.TypeSignature {
	start := p.cur
	var args []ast.Type

	p.expect(lexer.LPAREN)
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		args = append(args, p.parseType())
		if p.cur.Type == lexer.COMMA {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	p.expect(lexer.ARROW)
	ret := p.parseType()

	return &ast.TypeSignature{Arguments: args, Ret: ret, Ident: p.identity(start)}
}

// parseType parses a surface type: a primitive/struct/trait name, or an
// array literal `[Elem; N]`.
func (p *Parser) parseType() ast.Type {
	start := p.cur

	if p.cur.Type == lexer.LBRACKET {
		p.advance()
		elem := p.parseType()
		p.expect(lexer.SEMICOLON)
		sizeTok, _ := p.expect(lexer.INT)
		p.expect(lexer.RBRACKET)
		return ast.NewArray(elem, int(parseIntLiteral(sizeTok.Literal)))
	}

	tok, ok := p.expect(lexer.IDENT)
	if !ok {
		return ast.NewPrimitive(ast.Void)
	}
	return resolveNamedType(tok.Literal, p.identity(start))
}

var primitiveTypeNames = map[string]ast.PrimitiveKind{
	"Void": ast.Void, "Bool": ast.Bool,
	"Int8": ast.Int8, "Int16": ast.Int16, "Int32": ast.Int32, "Int64": ast.Int64, "Int": ast.Int,
	"Float64": ast.Float64, "String": ast.String, "Char": ast.Char,
}

func resolveNamedType(name string, id ast.Identity) ast.Type {
	if kind, ok := primitiveTypeNames[name]; ok {
		t := ast.NewPrimitive(kind)
		return t
	}
	// Unknown name: could be a struct or a trait bound. The resolver
	// disambiguates once declarations are known; record it as a struct
	// type placeholder (zero fields) that gets swapped for the real
	// declared StructType during resolution.
	return ast.NewStructType(name)
}

// parseBody parses either an indented block (after NEWLINE INDENT ...
// DEDENT) or a single inline statement on the same line.
func (p *Parser) parseBody() *ast.Body {
	start := p.cur

	if p.cur.Type != lexer.NEWLINE {
		stmt := p.parseStatement()
		var stmts []*ast.Statement
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		return &ast.Body{Statements: stmts, Ident: p.identity(start)}
	}

	p.advance() // consume NEWLINE
	p.skipNewlines()

	if p.cur.Type != lexer.INDENT {
		return &ast.Body{Ident: p.identity(start)}
	}
	p.advance() // consume INDENT

	var stmts []*ast.Statement
	for p.cur.Type != lexer.DEDENT && p.cur.Type != lexer.EOF {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipNewlines()
	}
	if p.cur.Type == lexer.DEDENT {
		p.advance()
	}

	return &ast.Body{Statements: stmts, Ident: p.identity(start)}
}
