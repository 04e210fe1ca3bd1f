package token

var keywords = map[string]Kind{
	"namespace": KwNamespace,
	"using":     KwUsing,
	"class":     KwClass,
	"struct":    KwStruct,
	"record":    KwRecord,
	"interface": KwInterface,
	"enum":      KwEnum,
	"delegate":  KwDelegate,
	"where":     KwWhere,
	"new":       KwNew,
	"static":    KwStatic,
	"true":      KwTrue,
	"false":     KwFalse,
	"null":      KwNull,
	"public":    KwPublic,
	"private":   KwPrivate,
	"protected": KwProtected,
	"internal":  KwInternal,
	"file":      KwFile,
	"partial":   KwPartial,
	"sealed":    KwSealed,
	"abstract":  KwAbstract,
	"readonly":  KwReadonly,
	"unsafe":    KwUnsafe,
	"ref":       KwRef,
	"virtual":   KwVirtual,
	"override":  KwOverride,
	"extern":    KwExtern,
	"async":     KwAsync,
	"required":  KwRequired,
}

// LookupKeyword returns the keyword kind for ident. Keywords are case-sensitive.
// "record", "partial", "file", "where", "async" and "required" are contextual
// in the host language; the parser turns them back into identifiers where a
// name is expected.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsContextual reports whether k is only a keyword in declaration positions.
func IsContextual(k Kind) bool {
	switch k {
	case KwRecord, KwPartial, KwFile, KwWhere, KwAsync, KwRequired:
		return true
	}
	return false
}
