package diag

import (
	"fmt"
	"slices"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Правила для самого union-типа
	UnionMissingPartial        Code = 1001
	UnionParentMissingPartial  Code = 1002
	UnionCannotBeSealed        Code = 1003
	UnionCannotHaveBaseType    Code = 1004
	UnionNonPrivateConstructor Code = 1005
	UnionOnlyOnePart           Code = 1006

	// Правила для вложенных вариантов
	MemberMissingPartial  Code = 2001
	MemberCannotBeGeneric Code = 2002
	MemberCannotHaveBase  Code = 2003
	MemberMustBeRecord    Code = 2004
	MemberMustBePublic    Code = 2005

	// Лексические
	LexInfo                     Code = 5000
	LexUnknownChar              Code = 5001
	LexUnterminatedString       Code = 5002
	LexUnterminatedBlockComment Code = 5003
	LexUnterminatedChar         Code = 5004

	// Парсерные
	SynInfo               Code = 5100
	SynUnexpectedToken    Code = 5101
	SynExpectIdentifier   Code = 5102
	SynUnclosedDelimiter  Code = 5103
	SynExpectSemicolon    Code = 5104
	SynUnexpectedTopLevel Code = 5105
	SynExpectTypeBody     Code = 5106

	// Ввод-вывод
	IOLoadFileError  Code = 6001
	IOWriteOutput    Code = 6002
	IOGenerateFailed Code = 6003
)

// Category groups codes for renderers and filters.
type Category string

const (
	CategoryUnion  Category = "Union"
	CategorySyntax Category = "Syntax"
	CategoryIO     Category = "IO"
)

// Descriptor is the fixed metadata of a code.
type Descriptor struct {
	Title    string
	Format   string // fmt verbs, one %s per argument
	Category Category
	Severity Severity
	Fixable  bool
}

var descriptors = map[Code]Descriptor{
	UnknownCode: {Title: "Unknown error", Format: "%s", Category: CategoryIO, Severity: SevError},

	UnionMissingPartial: {
		Title:    "Union target must be partial",
		Format:   "Type '%s' marked for source generation is missing partial keyword",
		Category: CategoryUnion, Severity: SevError, Fixable: true,
	},
	UnionParentMissingPartial: {
		Title:    "Union parents must be partial",
		Format:   "Type '%s' must be partial, as it contains type '%s'",
		Category: CategoryUnion, Severity: SevError, Fixable: true,
	},
	UnionCannotBeSealed: {
		Title:    "Union type cannot be sealed",
		Format:   "Union Type '%s' cannot be sealed",
		Category: CategoryUnion, Severity: SevError, Fixable: true,
	},
	UnionCannotHaveBaseType: {
		Title:    "Union target cannot have base type",
		Format:   "Record type '%s' marked for generation cannot have non-interface base type or it will be ignored",
		Category: CategoryUnion, Severity: SevError,
	},
	UnionNonPrivateConstructor: {
		Title:    "Union parent cannot have non-private constructor",
		Format:   "'%s' type can only have private constructors",
		Category: CategoryUnion, Severity: SevError,
	},
	UnionOnlyOnePart: {
		Title:    "Union type can only have one non-generated part",
		Format:   "'%s' is a union and can only have one non-generated part",
		Category: CategoryUnion, Severity: SevError,
	},
	MemberMissingPartial: {
		Title:    "Union member must be partial",
		Format:   "Type '%s' must be partial to be considered part of the union",
		Category: CategoryUnion, Severity: SevError,
	},
	MemberCannotBeGeneric: {
		Title:    "Union member cannot be generic",
		Format:   "'%s' has generic parameters. Union members cannot be generic.",
		Category: CategoryUnion, Severity: SevError,
	},
	MemberCannotHaveBase: {
		Title:    "Union member cannot have base type",
		Format:   "Union members cannot have base type, '%s' has a non-interface base type",
		Category: CategoryUnion, Severity: SevError,
	},
	MemberMustBeRecord: {
		Title:    "Union type member must be a record and partial",
		Format:   "'%s' Is not a partial record and will not be considered as part of the union",
		Category: CategoryUnion, Severity: SevInfo,
	},
	MemberMustBePublic: {
		Title:    "Union type member must be public",
		Format:   "'%s' contains a non-public access modifier keyword, union members must be public",
		Category: CategoryUnion, Severity: SevError,
	},

	LexInfo:                     {Title: "Lexical information", Format: "%s", Category: CategorySyntax, Severity: SevInfo},
	LexUnknownChar:              {Title: "Unknown character", Format: "unknown character %s", Category: CategorySyntax, Severity: SevError},
	LexUnterminatedString:       {Title: "Unterminated string literal", Format: "unterminated string literal", Category: CategorySyntax, Severity: SevError},
	LexUnterminatedBlockComment: {Title: "Unterminated block comment", Format: "unterminated block comment", Category: CategorySyntax, Severity: SevError},
	LexUnterminatedChar:         {Title: "Unterminated character literal", Format: "unterminated character literal", Category: CategorySyntax, Severity: SevError},

	SynInfo:               {Title: "Syntax information", Format: "%s", Category: CategorySyntax, Severity: SevInfo},
	SynUnexpectedToken:    {Title: "Unexpected token", Format: "%s", Category: CategorySyntax, Severity: SevError},
	SynExpectIdentifier:   {Title: "Expected identifier", Format: "%s", Category: CategorySyntax, Severity: SevError},
	SynUnclosedDelimiter:  {Title: "Unclosed delimiter", Format: "%s", Category: CategorySyntax, Severity: SevError},
	SynExpectSemicolon:    {Title: "Expected semicolon", Format: "%s", Category: CategorySyntax, Severity: SevError},
	SynUnexpectedTopLevel: {Title: "Unexpected top-level construct", Format: "%s", Category: CategorySyntax, Severity: SevError},
	SynExpectTypeBody:     {Title: "Expected type body", Format: "%s", Category: CategorySyntax, Severity: SevError},

	IOLoadFileError:  {Title: "Failed to load file", Format: "%s", Category: CategoryIO, Severity: SevError},
	IOWriteOutput:    {Title: "Failed to write output", Format: "%s", Category: CategoryIO, Severity: SevError},
	IOGenerateFailed: {Title: "Generation failed", Format: "%s", Category: CategoryIO, Severity: SevError},
}

// Describe returns the descriptor of c. Unknown codes map to UnknownCode.
func (c Code) Describe() Descriptor {
	if d, ok := descriptors[c]; ok {
		return d
	}
	return descriptors[UnknownCode]
}

// ID renders the stable identifier: UL1001, LEX5001, SYN5101, IO6001.
func (c Code) ID() string {
	switch {
	case c >= 1000 && c < 3000:
		return fmt.Sprintf("UL%04d", uint16(c))
	case c >= 5000 && c < 5100:
		return fmt.Sprintf("LEX%04d", uint16(c))
	case c >= 5100 && c < 5200:
		return fmt.Sprintf("SYN%04d", uint16(c))
	case c >= 6000 && c < 7000:
		return fmt.Sprintf("IO%04d", uint16(c))
	}
	return "E0000"
}

func (c Code) Title() string { return c.Describe().Title }

func (c Code) String() string { return "[" + c.ID() + "]: " + c.Title() }

// Message formats the code's message template with args.
func (c Code) Message(args ...any) string {
	return fmt.Sprintf(c.Describe().Format, args...)
}

// Codes lists every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(descriptors))
	for c := range descriptors {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
