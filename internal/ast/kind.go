package ast

// Kind classifies nodes. The set is closed: the walker keeps one handler per
// kind and refuses to compile when a kind is added without one.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindToplevel is the module root; it owns the toplevel scope.
	KindToplevel
	// KindFunction is a named function, method or anonymous lambda; owns a scope.
	KindFunction
	// KindClass owns a scope; its name binds in the enclosing scope.
	KindClass
	// KindComprehension owns a scope and binds its iteration variable(s).
	KindComprehension
	KindImport
	KindImportedVar
	KindAssign
	KindVarDef
	KindSymbolRef
	KindDecorator
	KindFuncArg
	KindForIn
	KindEmptyStatement
	KindIf
	KindSwitch
	KindTry
	KindCatch // catch and except clauses
	KindArray
	KindBlock
	// KindNode is any construct without scope semantics; only its children matter.
	KindNode

	kindCount
)

// KindCount is the number of node kinds, KindInvalid included.
const KindCount = int(kindCount)

func (k Kind) String() string {
	switch k {
	case KindToplevel:
		return "Toplevel"
	case KindFunction:
		return "Function"
	case KindClass:
		return "Class"
	case KindComprehension:
		return "Comprehension"
	case KindImport:
		return "Import"
	case KindImportedVar:
		return "ImportedVar"
	case KindAssign:
		return "Assign"
	case KindVarDef:
		return "VarDef"
	case KindSymbolRef:
		return "SymbolRef"
	case KindDecorator:
		return "Decorator"
	case KindFuncArg:
		return "FuncArg"
	case KindForIn:
		return "ForIn"
	case KindEmptyStatement:
		return "EmptyStatement"
	case KindIf:
		return "If"
	case KindSwitch:
		return "Switch"
	case KindTry:
		return "Try"
	case KindCatch:
		return "Catch"
	case KindArray:
		return "Array"
	case KindBlock:
		return "Block"
	case KindNode:
		return "Node"
	default:
		return "Invalid"
	}
}

// kindNames maps the type labels emitted by the external parser. Several
// labels collapse onto one kind (every callable is a KindFunction).
var kindNames = map[string]Kind{
	"Toplevel":          KindToplevel,
	"Function":          KindFunction,
	"Lambda":            KindFunction,
	"Defun":             KindFunction,
	"Method":            KindFunction,
	"Class":             KindClass,
	"Comprehension":     KindComprehension,
	"ListComprehension": KindComprehension,
	"DictComprehension": KindComprehension,
	"SetComprehension":  KindComprehension,
	"Import":            KindImport,
	"ImportedVar":       KindImportedVar,
	"Assign":            KindAssign,
	"VarDef":            KindVarDef,
	"SymbolRef":         KindSymbolRef,
	"Decorator":         KindDecorator,
	"FuncArg":           KindFuncArg,
	"SymbolFunarg":      KindFuncArg,
	"ForIn":             KindForIn,
	"EmptyStatement":    KindEmptyStatement,
	"If":                KindIf,
	"Switch":            KindSwitch,
	"Try":               KindTry,
	"Catch":             KindCatch,
	"Except":            KindCatch,
	"Array":             KindArray,
	"Block":             KindBlock,
	"BlockStatement":    KindBlock,
}

// ParseKind maps a parser type label to a Kind. Unknown labels are generic
// nodes, not errors: their children are still walked.
func ParseKind(label string) Kind {
	if k, ok := kindNames[label]; ok {
		return k
	}
	return KindNode
}

// OwnsScope reports whether entering a node of this kind opens a new scope.
func (k Kind) OwnsScope() bool {
	switch k {
	case KindToplevel, KindFunction, KindClass, KindComprehension:
		return true
	}
	return false
}

// IsBranch reports whether the kind is a conditional or exception-handling
// construct.
func (k Kind) IsBranch() bool {
	switch k {
	case KindIf, KindSwitch, KindTry, KindCatch:
		return true
	}
	return false
}
