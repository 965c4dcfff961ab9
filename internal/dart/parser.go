package dart

// The parser recovers the structure the context analyzer cares about:
// imports, class-like declarations with their supertype names, methods and
// constructors with modifiers and parameter lists, top-level functions, and
// variable declarations. Bodies and initializers are consumed as balanced
// token regions; qualified-name references are collected in a single pass
// over the token stream afterwards and attached to the smallest enclosing
// declaration.

type parser struct {
	unit    *Unit
	toks    []Token
	i       int
	prevEnd int
	err     *ParseError
}

// Parse lexes and parses one source file.
func Parse(path string, src []byte) (*Unit, error) {
	unit := &Unit{Path: path, Source: src}
	unit.end = len(src)
	unit.buildLineIndex()

	toks, lexErr := lex(src)
	if lexErr != nil {
		return nil, unit.errorAt(lexErr.offset, lexErr.msg)
	}

	p := &parser{unit: unit, toks: toks}

	if err := p.checkBalance(); err != nil {
		return nil, err
	}

	p.parseUnit()

	if p.err != nil {
		return nil, p.err
	}

	p.collectReferences()
	p.assignReferenceParents()

	return unit, nil
}

func (u *Unit) errorAt(offset int, msg string) *ParseError {
	line, column := u.Position(offset)

	return &ParseError{Path: u.Path, Offset: offset, Line: line, Column: column, Msg: msg}
}

// checkBalance verifies that (), {}, and [] pair up across the whole token
// stream. Strings and comments are already atomic at this point, so any
// mismatch is a genuine syntax defect.
func (p *parser) checkBalance() *ParseError {
	var stack []Token

	for _, t := range p.toks {
		if t.Kind != TokenPunct {
			continue
		}

		switch t.Text {
		case "(", "{", "[":
			stack = append(stack, t)
		case ")", "}", "]":
			if len(stack) == 0 {
				return p.unit.errorAt(t.Start, "unmatched "+t.Text)
			}

			open := stack[len(stack)-1]
			if closerFor(open.Text) != t.Text {
				return p.unit.errorAt(t.Start, "mismatched "+t.Text)
			}

			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return p.unit.errorAt(open.Start, "unclosed "+open.Text)
	}

	return nil
}

func closerFor(open string) string {
	switch open {
	case "(":
		return ")"
	case "{":
		return "}"
	}

	return "]"
}

func (p *parser) cur() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.i]
}

func (p *parser) peek(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.i+n]
}

func (p *parser) next() Token {
	t := p.cur()
	if t.Kind != TokenEOF {
		p.prevEnd = t.End
		p.i++
	}

	return t
}

func (p *parser) atEOF() bool { return p.cur().Kind == TokenEOF }

func (p *parser) curIs(text string) bool { return p.cur().Text == text }

func (p *parser) curIsIdent(text string) bool {
	t := p.cur()
	return t.Kind == TokenIdent && t.Text == text
}

func (p *parser) parseUnit() {
	for !p.atEOF() {
		before := p.i

		switch {
		case p.curIsIdent("import") || p.curIsIdent("export") || p.curIsIdent("part"):
			p.parseDirective()
		case p.curIsIdent("library"):
			p.skipToSemicolon()
		case p.curIsIdent("typedef"):
			p.skipToSemicolon()
		case p.curIs("@"):
			p.skipAnnotation()
		case p.classDeclAhead():
			p.parseClassLike()
		default:
			p.parseMember(nil)
		}

		if p.i == before {
			p.next()
		}
	}
}

func (p *parser) parseDirective() {
	start := p.cur().Start
	keyword := p.next().Text
	uri := ""

	for !p.curIs(";") && !p.atEOF() {
		t := p.next()
		if t.Kind == TokenString && uri == "" {
			uri = unquote(t.Text)
		}
	}

	p.next() // ;

	if keyword == "import" {
		p.unit.Imports = append(p.unit.Imports, &ImportDirective{
			base: base{pos: start, end: p.prevEnd, parent: p.unit},
			URI:  uri,
		})
	}
}

func (p *parser) skipToSemicolon() {
	for !p.curIs(";") && !p.atEOF() {
		p.next()
	}

	p.next()
}

func (p *parser) skipAnnotation() {
	p.next() // @

	if p.cur().Kind == TokenIdent {
		p.next()
		for p.curIs(".") && p.peek(1).Kind == TokenIdent {
			p.next()
			p.next()
		}
	}

	if p.curIs("<") {
		p.skipGenerics()
	}

	if p.curIs("(") {
		p.skipBalanced("(", ")")
	}
}

func isClassPrefixModifier(text string) bool {
	switch text {
	case "abstract", "sealed", "base", "interface", "final":
		return true
	}

	return false
}

func isClassKeyword(text string) bool {
	switch text {
	case "class", "mixin", "enum", "extension":
		return true
	}

	return false
}

func (p *parser) classDeclAhead() bool {
	j := p.i
	for j < len(p.toks) && p.toks[j].Kind == TokenIdent && isClassPrefixModifier(p.toks[j].Text) {
		j++
	}

	return j < len(p.toks) && p.toks[j].Kind == TokenIdent && isClassKeyword(p.toks[j].Text)
}

func isClauseKeyword(text string) bool {
	switch text {
	case "extends", "with", "implements", "on":
		return true
	}

	return false
}

func (p *parser) parseClassLike() {
	start := p.cur().Start

	for p.cur().Kind == TokenIdent && isClassPrefixModifier(p.cur().Text) {
		p.next()
	}

	p.next() // class | mixin | enum | extension
	if p.curIsIdent("class") {
		p.next() // mixin class
	}

	cls := &ClassDecl{base: base{pos: start, parent: p.unit}}

	if p.cur().Kind == TokenIdent && !isClauseKeyword(p.cur().Text) {
		cls.Name = p.next().Text
	}

	if p.curIs("<") {
		p.skipGenerics()
	}

	for !p.curIs("{") && !p.curIs(";") && !p.atEOF() {
		if p.cur().Kind == TokenIdent && isClauseKeyword(p.cur().Text) {
			p.next()
			p.parseTypeList(cls)

			continue
		}

		p.next()
	}

	if p.curIs("{") {
		p.parseClassBody(cls)
	} else {
		p.next() // ;
	}

	cls.end = p.prevEnd
	p.unit.Classes = append(p.unit.Classes, cls)
	p.unit.decls = append(p.unit.decls, cls)
}

func (p *parser) parseTypeList(cls *ClassDecl) {
	for p.cur().Kind == TokenIdent {
		cls.Supertypes = append(cls.Supertypes, p.readTypeName())

		if !p.curIs(",") {
			return
		}

		p.next()
	}
}

func (p *parser) readTypeName() string {
	name := p.next().Text

	for p.curIs(".") && p.peek(1).Kind == TokenIdent {
		p.next()
		name += "." + p.next().Text
	}

	if p.curIs("<") {
		p.skipGenerics()
	}

	return name
}

func (p *parser) parseClassBody(cls *ClassDecl) {
	p.next() // {

	for !p.curIs("}") && !p.atEOF() {
		before := p.i

		switch {
		case p.curIs(";"):
			p.next()
		case p.curIs("@"):
			p.skipAnnotation()
		default:
			p.parseMember(cls)
		}

		if p.i == before {
			p.next()
		}
	}

	p.next() // }
}

func isMemberModifier(text string) bool {
	switch text {
	case "static", "const", "final", "late", "external", "factory", "covariant", "var":
		return true
	}

	return false
}

// parseMember parses one class member when cls is non-nil, or one top-level
// function/variable when cls is nil.
func (p *parser) parseMember(cls *ClassDecl) {
	start := p.cur().Start
	isStatic := false
	isConst := false

	for p.cur().Kind == TokenIdent && isMemberModifier(p.cur().Text) {
		switch p.cur().Text {
		case "static":
			isStatic = true
		case "const":
			isConst = true
		}

		p.next()
	}

	if cls != nil && p.constructorAhead(cls) {
		p.parseConstructor(cls, start, isConst)
		return
	}

	stop, idents := p.scanSignature()

	switch stop {
	case "(":
		p.finishCallable(cls, start, isStatic, lastOf(idents))
	case "{", "=>":
		if len(idents) > 0 {
			p.finishGetter(cls, start, isStatic, lastOf(idents))
			return
		}

		if p.curIs("{") {
			p.skipBalanced("{", "}")
		} else {
			p.next()
		}
	case "=":
		p.finishVariable(cls, start, lastOf(idents), true)
	case ";", ",":
		p.next()
		if len(idents) > 0 {
			p.recordVariable(cls, start, lastOf(idents))
		}
	case "}", "":
		// Class body end or EOF; leave the token for the caller.
	}
}

func (p *parser) constructorAhead(cls *ClassDecl) bool {
	if p.cur().Kind != TokenIdent || p.cur().Text != cls.Name {
		return false
	}

	if p.peek(1).Text == "(" {
		return true
	}

	return p.peek(1).Text == "." && p.peek(2).Kind == TokenIdent && p.peek(3).Text == "("
}

func (p *parser) parseConstructor(cls *ClassDecl, start int, isConst bool) {
	name := p.next().Text
	if p.curIs(".") {
		p.next()
		name += "." + p.next().Text
	}

	decl := &MethodDecl{
		base:          base{pos: start, parent: cls},
		Name:          name,
		Class:         cls,
		IsConst:       isConst,
		IsConstructor: true,
	}
	decl.Params = p.parseParams()

	// Initializer list or factory redirect, up to the body.
	for !p.curIs("{") && !p.curIs("=>") && !p.curIs(";") && !p.atEOF() {
		switch {
		case p.curIs("("):
			p.skipBalanced("(", ")")
		case p.curIs("["):
			p.skipBalanced("[", "]")
		default:
			p.next()
		}
	}

	decl.Body = p.parseBody()
	decl.end = p.prevEnd

	cls.Methods = append(cls.Methods, decl)
	p.unit.decls = append(p.unit.decls, decl)
}

// scanSignature consumes tokens until the first top-level signature
// terminator and returns it alongside the identifiers seen on the way.
func (p *parser) scanSignature() (string, []string) {
	var idents []string

	angle := 0

	for {
		t := p.cur()

		if t.Kind == TokenEOF {
			return "", idents
		}

		if t.Kind == TokenIdent {
			idents = append(idents, t.Text)
			p.next()

			continue
		}

		if t.Kind == TokenPunct {
			switch t.Text {
			case "<":
				angle++
			case ">":
				if angle > 0 {
					angle--
				}
			case "(", "=", ";", ",", "{", "}", "=>":
				if angle == 0 {
					return t.Text, idents
				}
			}
		}

		p.next()
	}
}

func lastOf(idents []string) string {
	if len(idents) == 0 {
		return ""
	}

	// Operator overloads keep the keyword as their name.
	for _, id := range idents {
		if id == "operator" {
			return "operator"
		}
	}

	return idents[len(idents)-1]
}

func (p *parser) finishCallable(cls *ClassDecl, start int, isStatic bool, name string) {
	params := p.parseParams()

	for p.curIsIdent("async") || p.curIsIdent("sync") {
		p.next()
		if p.curIs("*") {
			p.next()
		}
	}

	body := p.parseBody()

	if cls != nil {
		decl := &MethodDecl{
			base:     base{pos: start, end: p.prevEnd, parent: cls},
			Name:     name,
			Class:    cls,
			IsStatic: isStatic,
			Params:   params,
			Body:     body,
		}
		cls.Methods = append(cls.Methods, decl)
		p.unit.decls = append(p.unit.decls, decl)

		return
	}

	decl := &FuncDecl{
		base:   base{pos: start, end: p.prevEnd, parent: p.unit},
		Name:   name,
		Params: params,
		Body:   body,
	}
	p.unit.Functions = append(p.unit.Functions, decl)
	p.unit.decls = append(p.unit.decls, decl)
}

func (p *parser) finishGetter(cls *ClassDecl, start int, isStatic bool, name string) {
	body := p.parseBody()

	if cls != nil {
		decl := &MethodDecl{
			base:     base{pos: start, end: p.prevEnd, parent: cls},
			Name:     name,
			Class:    cls,
			IsStatic: isStatic,
			Body:     body,
		}
		cls.Methods = append(cls.Methods, decl)
		p.unit.decls = append(p.unit.decls, decl)

		return
	}

	decl := &FuncDecl{
		base: base{pos: start, end: p.prevEnd, parent: p.unit},
		Name: name,
		Body: body,
	}
	p.unit.Functions = append(p.unit.Functions, decl)
	p.unit.decls = append(p.unit.decls, decl)
}

func (p *parser) finishVariable(cls *ClassDecl, start int, name string, hasInitializer bool) {
	if hasInitializer {
		p.next() // =
		p.skipInitializer()
	}

	if p.curIs(";") {
		p.next()
	}

	p.recordVariable(cls, start, name)
}

func (p *parser) recordVariable(cls *ClassDecl, start int, name string) {
	parent := Node(p.unit)
	if cls != nil {
		parent = cls
	}

	decl := &VarDecl{
		base:  base{pos: start, end: p.prevEnd, parent: parent},
		Name:  name,
		Class: cls,
	}

	if cls != nil {
		cls.Fields = append(cls.Fields, decl)
	} else {
		p.unit.Variables = append(p.unit.Variables, decl)
	}

	p.unit.decls = append(p.unit.decls, decl)
}

// skipInitializer consumes an initializer expression up to, but not
// including, its terminating semicolon.
func (p *parser) skipInitializer() {
	depth := 0

	for !p.atEOF() {
		t := p.cur()

		if t.Kind == TokenPunct {
			switch t.Text {
			case "(", "[", "{":
				depth++
			case ")", "]":
				depth--
			case "}":
				if depth == 0 {
					return // missing semicolon; leave the brace alone
				}

				depth--
			case ";":
				if depth == 0 {
					return
				}
			}
		}

		p.next()
	}
}

// parseParams consumes a parenthesized parameter list. Optional and named
// groups are unwrapped; collection literals in default values stay intact.
func (p *parser) parseParams() []Param {
	if !p.curIs("(") {
		return nil
	}

	p.next()

	var params []Param

	var seg []Token

	parenDepth := 1
	angle := 0
	literal := 0
	groupOpen := false

	flush := func() {
		if len(seg) > 0 {
			params = append(params, buildParam(seg))
			seg = nil
		}
	}

	for !p.atEOF() {
		t := p.cur()

		if t.Kind == TokenPunct {
			switch t.Text {
			case "(":
				parenDepth++
			case ")":
				parenDepth--
				if parenDepth == 0 {
					p.next()
					flush()

					return params
				}
			case "<":
				angle++
			case ">":
				if angle > 0 {
					angle--
				}
			case "[", "{":
				if parenDepth == 1 && literal == 0 && !groupOpen {
					groupOpen = true
					p.next()

					continue
				}

				literal++
			case "]", "}":
				if literal > 0 {
					literal--
					break
				}

				if parenDepth == 1 && groupOpen {
					groupOpen = false
					p.next()

					continue
				}
			case ",":
				if parenDepth == 1 && literal == 0 && angle == 0 {
					flush()
					p.next()

					continue
				}
			}
		}

		seg = append(seg, t)
		p.next()
	}

	flush()

	return params
}

func isParamModifier(text string) bool {
	switch text {
	case "required", "covariant", "final", "var":
		return true
	}

	return false
}

// buildParam reduces one parameter segment to its type head and name.
func buildParam(seg []Token) Param {
	for len(seg) > 0 && seg[0].Kind == TokenIdent && isParamModifier(seg[0].Text) {
		seg = seg[1:]
	}

	// Field and super formals carry no type of their own.
	if len(seg) >= 3 && seg[0].Kind == TokenIdent &&
		(seg[0].Text == "this" || seg[0].Text == "super") && seg[1].Text == "." {
		return Param{Name: seg[2].Text}
	}

	// Strip a default value.
	for i, t := range seg {
		if t.Kind == TokenPunct && t.Text == "=" {
			seg = seg[:i]
			break
		}
	}

	var idents []string

	for _, t := range seg {
		if t.Kind == TokenIdent {
			idents = append(idents, t.Text)
		}
	}

	switch len(idents) {
	case 0:
		return Param{}
	case 1:
		return Param{Name: idents[0]}
	default:
		return Param{Type: idents[0], Name: idents[len(idents)-1]}
	}
}

func (p *parser) parseBody() BodyKind {
	switch {
	case p.curIs(";"):
		p.next()
		return BodyNone
	case p.curIs("=>"):
		p.next()
		p.skipInitializer()

		if p.curIs(";") {
			p.next()
		}

		return BodyExpression
	case p.curIs("{"):
		inner := p.skipBalanced("{", "}")
		if inner == 0 {
			return BodyEmpty
		}

		return BodyBlock
	default:
		return BodyNone
	}
}

// skipBalanced consumes a balanced region starting at the current opening
// token and returns the number of tokens it contained.
func (p *parser) skipBalanced(open, close string) int {
	if !p.curIs(open) {
		return 0
	}

	p.next()

	depth := 1
	count := 0

	for !p.atEOF() {
		t := p.cur()

		if t.Kind == TokenPunct {
			switch t.Text {
			case open:
				depth++
			case close:
				depth--
				if depth == 0 {
					p.next()
					return count
				}
			}
		}

		count++
		p.next()
	}

	return count
}

// skipGenerics consumes a <...> region in a type context. It bails out
// without consuming anything when the region does not look like type
// arguments, so a stray less-than comparison cannot derail the parse.
func (p *parser) skipGenerics() {
	j := p.i
	depth := 0

	for steps := 0; j < len(p.toks) && steps < 200; steps++ {
		t := p.toks[j]

		if t.Kind == TokenPunct {
			switch t.Text {
			case "<":
				depth++
			case ">":
				depth--
				if depth == 0 {
					p.i = j
					p.next()

					return
				}
			case ";", "{", "}":
				return
			}
		}

		if t.Kind == TokenEOF {
			return
		}

		j++
	}
}

// collectReferences finds every Qualifier.Member occurrence in the token
// stream. Member accesses deeper in a chain (a.b.c) only yield the leading
// pair, and cascade or null-aware selectors never start a reference.
func (p *parser) collectReferences() {
	toks := p.toks

	for i := 0; i+2 < len(toks); i++ {
		if toks[i].Kind != TokenIdent {
			continue
		}

		if toks[i+1].Kind != TokenPunct || toks[i+1].Text != "." {
			continue
		}

		if toks[i+2].Kind != TokenIdent {
			continue
		}

		if i > 0 && toks[i-1].Kind == TokenPunct {
			switch toks[i-1].Text {
			case ".", "..", "?.":
				continue
			}
		}

		p.unit.refs = append(p.unit.refs, &Reference{
			base:      base{pos: toks[i].Start, end: toks[i+2].End, parent: p.unit},
			Qualifier: toks[i].Text,
			Member:    toks[i+2].Text,
		})
	}
}

// assignReferenceParents attaches each reference to the smallest declaration
// whose byte range contains it, falling back to the unit for top-level
// occurrences.
func (p *parser) assignReferenceParents() {
	for _, ref := range p.unit.refs {
		best := Node(p.unit)
		bestSpan := p.unit.End() - p.unit.Pos()

		for _, decl := range p.unit.decls {
			if decl.Pos() <= ref.pos && ref.end <= decl.End() {
				span := decl.End() - decl.Pos()
				if span < bestSpan {
					best = decl
					bestSpan = span
				}
			}
		}

		ref.parent = best
	}
}

func unquote(text string) string {
	if len(text) > 0 && text[0] == 'r' {
		text = text[1:]
	}

	for _, quotes := range []string{`'''`, `"""`, `'`, `"`} {
		if len(text) >= 2*len(quotes) &&
			text[:len(quotes)] == quotes && text[len(text)-len(quotes):] == quotes {
			return text[len(quotes) : len(text)-len(quotes)]
		}
	}

	return text
}
