package componenttree

// Definition is a top-level component definition found by Discover: a
// function declaration or an arrow function bound via const/let/var, whose
// name begins with an upper-case letter.
type Definition struct {
	Name string

	// BodyStart/BodyEnd bound the definition's body in the original source.
	// For a block body (IsBlock), they span the outer "{" ... "}" inclusive.
	// For an expression body, they span just the expression itself.
	BodyStart int
	BodyEnd   int
	IsBlock   bool
}

// Discover scans src for every top-level component definition. Nested
// definitions (a component declared inside another function) are not
// top-level and are not discovered independently; when branches are
// extracted they are skipped over as part of their enclosing definition's
// body, and their own return statements do not become its branches.
func Discover(src []byte) []Definition {
	var defs []Definition
	s := newScanner(src)
	depth := 0

	for !s.eof() {
		if s.skipLiteralOrComment() {
			continue
		}
		c := s.cur()

		if depth == 0 && isIdentStart(c) {
			start := s.pos
			word := s.readIdent()
			switch word {
			case "function":
				if d, ok := s.tryFunctionDecl(start); ok {
					defs = append(defs, d)
					continue
				}
			case "const", "let", "var":
				if d, ok := s.tryArrowConst(start); ok {
					defs = append(defs, d)
					continue
				}
			}
			s.pos = start + len(word)
			continue
		}

		switch c {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
		s.pos++
	}
	return defs
}

// tryFunctionDecl attempts to parse "function Name(...) { ... }" starting at
// start, where s.pos==start and the "function" keyword has already been
// tentatively identified by the caller. Returns ok==false, leaving s.pos
// unspecified, if the text at start isn't a capitalized function
// declaration — the caller resets s.pos on failure.
func (s *scanner) tryFunctionDecl(start int) (Definition, bool) {
	s.pos = start
	s.readIdent() // "function"
	s.skipWS()

	if !isIdentStart(s.cur()) {
		return Definition{}, false
	}
	name := s.readIdent()
	if !isUpper(name[0]) {
		return Definition{}, false
	}

	s.skipWS()
	if s.cur() != '(' {
		return Definition{}, false
	}
	paramsEnd := s.matchBalanced('(', ')')
	if paramsEnd == -1 {
		return Definition{}, false
	}
	s.pos = paramsEnd
	s.skipWS()

	if s.cur() != '{' {
		return Definition{}, false
	}
	bodyStart := s.pos
	bodyEnd := s.matchBalanced('{', '}')
	if bodyEnd == -1 {
		return Definition{}, false
	}
	s.pos = bodyEnd

	return Definition{Name: name, BodyStart: bodyStart, BodyEnd: bodyEnd, IsBlock: true}, true
}

// tryArrowConst attempts to parse "const Name = (...) => { ... }" or
// "const Name = (...) => expr" (and the let/var forms), starting at start.
func (s *scanner) tryArrowConst(start int) (Definition, bool) {
	s.pos = start
	s.readIdent() // "const" / "let" / "var"
	s.skipWS()

	if !isIdentStart(s.cur()) {
		return Definition{}, false
	}
	name := s.readIdent()
	if !isUpper(name[0]) {
		return Definition{}, false
	}

	s.skipWS()
	if s.cur() != '=' || s.byteAt(s.pos+1) == '=' {
		return Definition{}, false
	}
	s.pos++
	s.skipWS()

	switch {
	case s.cur() == '(':
		paramsEnd := s.matchBalanced('(', ')')
		if paramsEnd == -1 {
			return Definition{}, false
		}
		s.pos = paramsEnd
	case isIdentStart(s.cur()):
		s.readIdent() // a single bare parameter, e.g. "props => ..."
	default:
		return Definition{}, false
	}

	s.skipWS()
	if !(s.cur() == '=' && s.byteAt(s.pos+1) == '>') {
		return Definition{}, false
	}
	s.pos += 2
	s.skipWS()

	switch s.cur() {
	case '{':
		bodyStart := s.pos
		bodyEnd := s.matchBalanced('{', '}')
		if bodyEnd == -1 {
			return Definition{}, false
		}
		s.pos = bodyEnd
		return Definition{Name: name, BodyStart: bodyStart, BodyEnd: bodyEnd, IsBlock: true}, true
	case '(':
		end := s.matchBalanced('(', ')')
		if end == -1 {
			return Definition{}, false
		}
		bodyStart, bodyEnd := trimSpan(s.src, s.pos+1, end-1)
		s.pos = end
		return Definition{Name: name, BodyStart: bodyStart, BodyEnd: bodyEnd, IsBlock: false}, true
	default:
		bodyStart := s.pos
		bodyEnd := s.scanExpressionStatementEnd()
		return Definition{Name: name, BodyStart: bodyStart, BodyEnd: bodyEnd, IsBlock: false}, true
	}
}

// scanExpressionStatementEnd advances past a bare (unparenthesized)
// expression, stopping at the first top-level ';' or an unmatched closing
// bracket (the statement's natural end), whichever comes first.
func (s *scanner) scanExpressionStatementEnd() int {
	depth := 0
	for !s.eof() {
		if s.skipLiteralOrComment() {
			continue
		}
		switch s.cur() {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			if depth == 0 {
				return s.pos
			}
			depth--
		case ';':
			if depth == 0 {
				end := s.pos
				s.pos++
				return end
			}
		}
		s.pos++
	}
	return s.pos
}
