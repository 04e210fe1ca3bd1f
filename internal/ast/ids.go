package ast

type (
	NamespaceID uint32
	TypeDeclID  uint32
)

const (
	NoNamespaceID NamespaceID = 0
	NoTypeDeclID  TypeDeclID  = 0
)

func (id NamespaceID) IsValid() bool { return id != NoNamespaceID }
func (id TypeDeclID) IsValid() bool  { return id != NoTypeDeclID }
