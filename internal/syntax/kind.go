package syntax

// Kind classifies a syntax tree node.
type Kind uint8

const (
	KindError Kind = iota
	KindFile
	KindImportDecl
	KindPath
	KindFnDecl
	KindName
	KindNameRef
	KindParamList
	KindParam
	KindTypeRef
	KindBlock
	KindLetStmt
	KindReturnStmt
	KindExprStmt
	KindBinaryExpr
	KindUnaryExpr
	KindParenExpr
	KindCallExpr
	KindArgList
	KindLiteral
)

var kindNames = map[Kind]string{
	KindError:      "Error",
	KindFile:       "File",
	KindImportDecl: "ImportDecl",
	KindPath:       "Path",
	KindFnDecl:     "FnDecl",
	KindName:       "Name",
	KindNameRef:    "NameRef",
	KindParamList:  "ParamList",
	KindParam:      "Param",
	KindTypeRef:    "TypeRef",
	KindBlock:      "Block",
	KindLetStmt:    "LetStmt",
	KindReturnStmt: "ReturnStmt",
	KindExprStmt:   "ExprStmt",
	KindBinaryExpr: "BinaryExpr",
	KindUnaryExpr:  "UnaryExpr",
	KindParenExpr:  "ParenExpr",
	KindCallExpr:   "CallExpr",
	KindArgList:    "ArgList",
	KindLiteral:    "Literal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsExpr reports whether the kind is an expression node.
func (k Kind) IsExpr() bool {
	switch k {
	case KindBinaryExpr, KindUnaryExpr, KindParenExpr, KindCallExpr, KindNameRef, KindLiteral, KindPath:
		return true
	default:
		return false
	}
}

// IsStmt reports whether the kind is a statement node.
func (k Kind) IsStmt() bool {
	switch k {
	case KindLetStmt, KindReturnStmt, KindExprStmt:
		return true
	default:
		return false
	}
}
