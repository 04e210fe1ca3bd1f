package token

// Kind represents the category of a source token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	RealLit
	StringLit
	CharLit

	// Keywords that shape declarations.
	KwNamespace
	KwUsing
	KwClass
	KwStruct
	KwRecord
	KwInterface
	KwEnum
	KwDelegate
	KwWhere
	KwNew
	KwStatic
	KwTrue
	KwFalse
	KwNull

	// Modifiers.
	KwPublic
	KwPrivate
	KwProtected
	KwInternal
	KwFile
	KwPartial
	KwSealed
	KwAbstract
	KwReadonly
	KwUnsafe
	KwRef
	KwVirtual
	KwOverride
	KwExtern
	KwAsync
	KwRequired

	// Punctuation.
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	Lt
	Gt
	Comma
	Semicolon
	Colon
	ColonColon
	Dot
	Assign
	FatArrow
	Question
	Star
	Amp
	Hash
	Op // any other operator character sequence
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	IntLit:      "IntLit",
	RealLit:     "RealLit",
	StringLit:   "StringLit",
	CharLit:     "CharLit",
	KwNamespace: "namespace",
	KwUsing:     "using",
	KwClass:     "class",
	KwStruct:    "struct",
	KwRecord:    "record",
	KwInterface: "interface",
	KwEnum:      "enum",
	KwDelegate:  "delegate",
	KwWhere:     "where",
	KwNew:       "new",
	KwStatic:    "static",
	KwTrue:      "true",
	KwFalse:     "false",
	KwNull:      "null",
	KwPublic:    "public",
	KwPrivate:   "private",
	KwProtected: "protected",
	KwInternal:  "internal",
	KwFile:      "file",
	KwPartial:   "partial",
	KwSealed:    "sealed",
	KwAbstract:  "abstract",
	KwReadonly:  "readonly",
	KwUnsafe:    "unsafe",
	KwRef:       "ref",
	KwVirtual:   "virtual",
	KwOverride:  "override",
	KwExtern:    "extern",
	KwAsync:     "async",
	KwRequired:  "required",
	LBrace:      "{",
	RBrace:      "}",
	LParen:      "(",
	RParen:      ")",
	LBracket:    "[",
	RBracket:    "]",
	Lt:          "<",
	Gt:          ">",
	Comma:       ",",
	Semicolon:   ";",
	Colon:       ":",
	ColonColon:  "::",
	Dot:         ".",
	Assign:      "=",
	FatArrow:    "=>",
	Question:    "?",
	Star:        "*",
	Amp:         "&",
	Hash:        "#",
	Op:          "Op",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsModifier reports whether k may appear in a declaration modifier list.
func (k Kind) IsModifier() bool {
	return (k >= KwPublic && k <= KwRequired) || k == KwStatic || k == KwNew
}

// IsAccessModifier reports whether k is an accessibility keyword.
func (k Kind) IsAccessModifier() bool {
	switch k {
	case KwPublic, KwPrivate, KwProtected, KwInternal, KwFile:
		return true
	}
	return false
}

// IsTypeKeyword reports whether k starts a type declaration.
func (k Kind) IsTypeKeyword() bool {
	switch k {
	case KwClass, KwStruct, KwRecord, KwInterface, KwEnum:
		return true
	}
	return false
}
