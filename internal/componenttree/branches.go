package componenttree

// span is a half-open byte range [Start, End) within the original source.
type span struct {
	Start int
	End   int
}

// Branches extracts every tree-literal branch reachable from def's body:
// direct returns (including those nested inside if/else and other control
// flow, as long as they aren't inside a further nested function), each arm
// of a ternary, and the implicit result of an expression-bodied arrow
// function. Only the component's own top-level return expressions are
// considered — a ternary nested deeper inside an already-returned JSX
// tree's children (conditional rendering of a sub-element) is not split
// further, matching the spec's "arms of ternaries" scope at the return
// level, not arbitrary nesting inside children.
//
// Both arms of a ternary are emitted as separate branches, per the
// ternary-both-branches decision recorded in DESIGN.md: a conditional
// render is checked exhaustively without evaluating the condition.
func Branches(src []byte, def Definition) []span {
	var roots []span
	if def.IsBlock {
		for _, rs := range collectReturnExprs(src, def.BodyStart+1, def.BodyEnd-1) {
			roots = append(roots, rs)
		}
	} else {
		roots = append(roots, span{def.BodyStart, def.BodyEnd})
	}

	var out []span
	for _, r := range roots {
		out = append(out, extractJSXBranches(src, r.Start, r.End)...)
	}
	return out
}

// collectReturnExprs finds every "return EXPR" inside src[start:end) that
// isn't nested inside a further function/arrow body declared within that
// range (a callback passed to .map, for instance, has its own returns that
// describe its own items, not the component's overall output).
func collectReturnExprs(src []byte, start, end int) []span {
	var out []span
	s := &scanner{src: src, pos: start}
	var nestedFuncDepth []int
	braceDepth := 0

	for s.pos < end {
		if s.skipLiteralOrComment() {
			continue
		}
		c := s.cur()

		if isIdentStart(c) {
			wordStart := s.pos
			word := s.readIdent()
			switch word {
			case "function":
				s.skipWS()
				s.readIdent() // optional name of a nested named function
				s.skipWS()
				if s.cur() == '(' {
					if e := s.matchBalanced('(', ')'); e != -1 {
						s.pos = e
					}
				}
				s.skipWS()
				if s.cur() == '{' {
					nestedFuncDepth = append(nestedFuncDepth, braceDepth)
				}
				continue
			case "return":
				if len(nestedFuncDepth) == 0 {
					s.skipWS()
					exprStart := s.pos
					exprEnd := s.scanExpressionStatementEnd()
					out = append(out, span{exprStart, exprEnd})
					continue
				}
			}
			s.pos = wordStart + len(word)
			continue
		}

		if c == '=' && s.byteAt(s.pos+1) == '>' {
			s.pos += 2
			s.skipWS()
			if s.cur() == '{' {
				nestedFuncDepth = append(nestedFuncDepth, braceDepth)
			}
			continue
		}

		switch c {
		case '{':
			braceDepth++
		case '}':
			if n := len(nestedFuncDepth); n > 0 && nestedFuncDepth[n-1] == braceDepth-1 {
				nestedFuncDepth = nestedFuncDepth[:n-1]
			}
			braceDepth--
		}
		s.pos++
	}
	return out
}

// extractJSXBranches recursively splits the expression at src[start:end)
// into its tree-literal leaves: unwrapping enclosing parens, splitting a
// top-level ternary into both arms, and keeping only leaves that are
// themselves a JSX literal (begin with '<').
func extractJSXBranches(src []byte, start, end int) []span {
	start, end = trimSpan(src, start, end)
	if start >= end {
		return nil
	}

	for src[start] == '(' {
		ps := &scanner{src: src, pos: start}
		closeAt := ps.matchBalanced('(', ')')
		if closeAt != end {
			break
		}
		start, end = trimSpan(src, start+1, end-1)
		if start >= end {
			return nil
		}
	}

	if qPos, cPos, ok := findTopLevelTernary(src, start, end); ok {
		var out []span
		out = append(out, extractJSXBranches(src, qPos+1, cPos)...)
		out = append(out, extractJSXBranches(src, cPos+1, end)...)
		return out
	}

	if src[start] == '<' {
		return []span{{start, end}}
	}
	return nil
}

// findTopLevelTernary locates the "?" and its matching ":" of the
// outermost ternary in src[start:end), skipping "?." optional-chaining and
// "??" nullish-coalescing operators, and accounting for nested ternaries in
// the consequent arm via a depth counter.
func findTopLevelTernary(src []byte, start, end int) (qPos, cPos int, ok bool) {
	s := &scanner{src: src, pos: start}
	depth := 0
	ternDepth := 0
	qPos = -1

	for s.pos < end {
		if s.skipLiteralOrComment() {
			continue
		}
		switch s.cur() {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case '?':
			if depth == 0 {
				next := s.byteAt(s.pos + 1)
				if next == '.' || next == '?' {
					s.pos += 2
					continue
				}
				if qPos == -1 {
					qPos = s.pos
				} else {
					ternDepth++
				}
			}
		case ':':
			if depth == 0 && qPos != -1 {
				if ternDepth == 0 {
					return qPos, s.pos, true
				}
				ternDepth--
			}
		}
		s.pos++
	}
	return 0, 0, false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// trimSpan trims leading/trailing whitespace from src[start:end).
func trimSpan(src []byte, start, end int) (int, int) {
	for start < end && isSpace(src[start]) {
		start++
	}
	for end > start && isSpace(src[end-1]) {
		end--
	}
	return start, end
}
