package parser

import (
	"strconv"

	"github.com/Champii/Rock-sub001/internal/ast"
	"github.com/Champii/Rock-sub001/internal/diag"
	"github.com/Champii/Rock-sub001/internal/lexer"
)

// Parser consumes one token stream and produces one Mod (plus any
// `mod` children, parsed recursively through the same ParsingCtx).
type Parser struct {
	ctx  *ParsingCtx
	file string

	nextFn    func() lexer.Token
	cur, peek lexer.Token

	// noStructLiteral suppresses `Name { ... }` struct-init parsing
	// while parsing a condition that is itself followed by a brace
	// block (while conditions and for headers), so `while x { ... }` doesn't
	// swallow the loop body as struct fields.
	noStructLiteral bool
}

// New creates a Parser over src, already lexed by l, for diagnostics
// and module resolution attributed to file.
func New(l *lexer.Lexer, ctx *ParsingCtx, file, content string) *Parser {
	ctx.Files[file] = content
	p := &Parser{ctx: ctx, file: file}
	p.lex(l)
	return p
}

// lex wires the token source and primes the two-token lookahead.
func (p *Parser) lex(l *lexer.Lexer) {
	p.nextFn = l.NextToken
	p.advance()
	p.advance()
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.nextFn()
}

func (p *Parser) pos(t lexer.Token) ast.Pos {
	return ast.Pos{File: p.file, Offset: t.Offset, Line: t.Line, Column: t.Column}
}

func (p *Parser) identity(start lexer.Token) ast.Identity {
	return ast.Identity{
		NodeID: p.ctx.Alloc.NextNodeId(),
		Span:   ast.Span{Start: p.pos(start), End: p.pos(p.cur)},
	}
}

// closeIdentity finalizes an Identity's span once the end token is
// known, reusing the NodeId already allocated at the start of the
// production.
func closeIdentity(id ast.Identity, end ast.Pos) ast.Identity {
	id.Span.End = end
	return id
}

func (p *Parser) errorf(tok lexer.Token, expected string) {
	span := ast.Span{Start: p.pos(tok), End: p.pos(tok)}
	p.ctx.Diags.Push(diag.SyntaxError(span, expected, tok.Literal))
}

// expect consumes cur if it matches tt, else records a SyntaxError and
// leaves cur in place so the caller can attempt recovery.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, bool) {
	if p.cur.Type != tt {
		p.errorf(p.cur, tt.String())
		return p.cur, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

// skipNewlines consumes any run of blank-line NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.cur.Type == lexer.NEWLINE {
		p.advance()
	}
}

// skipBraceNoise consumes NEWLINE/INDENT/DEDENT tokens inside a `{ ... }`
// block. The lexer's indentation tracking is global (it does not know
// about braces), so a multi-line brace body still produces synthetic
// INDENT/DEDENT around its indented lines; brace-delimited grammar
// productions treat all three as insignificant whitespace.
func (p *Parser) skipBraceNoise() {
	for p.cur.Type == lexer.NEWLINE || p.cur.Type == lexer.INDENT || p.cur.Type == lexer.DEDENT {
		p.advance()
	}
}

// ParseRoot parses the entry file into a Root, following `mod`
// declarations to sibling files through ctx.Resolver.
func ParseRoot(l *lexer.Lexer, ctx *ParsingCtx, file, content string) *ast.Root {
	p := New(l, ctx, file, content)
	start := p.cur
	mod := p.parseMod(ast.NewRootPath())
	id := p.identity(start)
	return &ast.Root{Mod: mod, Ident: id}
}

// parseMod parses the top-level declaration sequence of one file.
func (p *Parser) parseMod(path ast.IdentifierPath) *ast.Mod {
	start := p.cur
	var tops []*ast.TopLevel

	p.skipNewlines()
	for p.cur.Type != lexer.EOF {
		top := p.parseTopLevel(path)
		if top != nil {
			tops = append(tops, top)
		}
		p.skipNewlines()
	}

	return &ast.Mod{Path: path, TopLevels: tops, Ident: p.identity(start)}
}

func (p *Parser) parseTopLevel(path ast.IdentifierPath) *ast.TopLevel {
	switch p.cur.Type {
	case lexer.MOD:
		return p.parseModDecl(path)
	case lexer.USE:
		return p.parseUseDecl()
	case lexer.TRAIT:
		return p.parseTraitDecl()
	case lexer.IMPL:
		return p.parseImplDecl()
	case lexer.STRUCT:
		return p.parseStructDecl()
	case lexer.INFIX:
		return p.parseInfixDecl()
	case lexer.IDENT:
		return p.parseFunctionOrPrototype()
	default:
		p.errorf(p.cur, "top-level declaration")
		p.advance()
		return nil
	}
}

func parseIntLiteral(lit string) int64 {
	v, _ := strconv.ParseInt(lit, 10, 64)
	return v
}
