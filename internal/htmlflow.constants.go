package internal

// Formatting constants
const (
	IndentUnit = "\t"
	Newline    = "\n"
	DocType    = "<!DOCTYPE html>"
)

// NodeKind identifies continuation node variants.
type NodeKind uint8

// Node kind constants
const (
	NodeKindStatic NodeKind = iota
	NodeKindDynamic
	NodeKindAsync
)

// Node kind string names for debugging
const (
	NodeKindNameStatic  = "STATIC"
	NodeKindNameDynamic = "DYNAMIC"
	NodeKindNameAsync   = "ASYNC"
	NodeKindNameUnknown = "UNKNOWN"
)

// String returns the debug name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeKindStatic:
		return NodeKindNameStatic
	case NodeKindDynamic:
		return NodeKindNameDynamic
	case NodeKindAsync:
		return NodeKindNameAsync
	default:
		return NodeKindNameUnknown
	}
}

// Markup error messages
const (
	ErrMsgAttrAfterContent  = "attribute written after element content"
	ErrMsgNoOpenElement     = "no open element to close"
	ErrMsgVoidContent       = "void element cannot have content"
	ErrMsgEmptyTagName      = "tag name cannot be empty"
	ErrMsgEmptyAttrName     = "attribute name cannot be empty"
	ErrMsgCommentTerminator = "comment cannot contain the comment terminator"
)

// Chain error messages
const (
	ErrMsgChainFinished = "continuation chain already finished"
	ErrMsgStaticStep    = "static node cannot carry a step"
)
