package decl

import "strings"

// ParseTypeRef splits a written type such as "Collections.Generic.IList<T>?"
// into the parts the oracle resolves. Arrays, tuples and pointers yield
// false: they are never interfaces.
func ParseTypeRef(text string) (BaseType, bool) {
	t := strings.TrimSpace(text)
	// T? on a reference type is an annotation only
	t = strings.TrimSpace(strings.TrimSuffix(t, "?"))
	if t == "" || strings.HasPrefix(t, "(") || strings.HasSuffix(t, "]") || strings.ContainsRune(t, '*') {
		return BaseType{}, false
	}

	head, arity := t, 0
	if open := strings.IndexByte(t, '<'); open >= 0 {
		if !strings.HasSuffix(t, ">") {
			return BaseType{}, false
		}
		head = strings.TrimSpace(t[:open])
		arity = topLevelArgs(t[open+1 : len(t)-1])
	}

	ref := BaseType{Text: text, Name: head, Arity: arity}
	if i := strings.LastIndexByte(head, '.'); i >= 0 {
		ref.Qualifier, ref.Name = head[:i], head[i+1:]
	} else if i := strings.LastIndex(head, "::"); i >= 0 {
		ref.Qualifier, ref.Name = head[:i], head[i+2:]
	}
	if ref.Name == "" {
		return BaseType{}, false
	}
	return ref, true
}

// topLevelArgs counts the comma-separated arguments of a generic list,
// ignoring commas nested in <>, () or [].
func topLevelArgs(args string) int {
	if strings.TrimSpace(args) == "" {
		// unbound form List<>
		return 1
	}
	n, depth := 1, 0
	for _, r := range args {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				n++
			}
		}
	}
	return n
}
