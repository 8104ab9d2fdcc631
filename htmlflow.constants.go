package htmlflow

import "github.com/itsatony/go-htmlflow/internal"

// Markup constants
const (
	// DocType is written by Page.Html before the html element.
	DocType = internal.DocType

	// DefaultViewName names views created without WithName.
	DefaultViewName = "view"
)

// Render mode labels used in logs and metrics
const (
	ModeSync  = "sync"
	ModeAsync = "async"
)

// Render outcome labels used in metrics
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyView      = "view"
	MetaKeyNode      = "node"
	MetaKeyTag       = "tag"
	MetaKeyOperation = "operation"
	MetaKeyModelType = "model_type"
	MetaKeyReason    = "reason"
	MetaKeyPath      = "path"
)

// Operation names used in error metadata
const (
	OpConstruct   = "construct"
	OpRender      = "render"
	OpWrite       = "write"
	OpThreadSafe  = "thread_safe"
	OpRegister    = "register"
	OpLoadConfig  = "load_config"
	OpNewHandler  = "new_handler"
	OpRenderAsync = "render_async"
)

// Log messages
const (
	LogMsgDiscoveryStart   = "starting discovery"
	LogMsgDiscoveryEnd     = "discovery complete"
	LogMsgDiscoveryFailed  = "discovery failed"
	LogMsgViewCreated      = "view created"
	LogMsgViewCloned       = "view cloned"
	LogMsgVisitorCreated   = "render visitor created"
	LogMsgVisitorDiscarded = "render visitor discarded"
	LogMsgRenderStart      = "starting render"
	LogMsgRenderEnd        = "render complete"
	LogMsgRenderFailed     = "render failed"
	LogMsgRenderCanceled   = "render canceled"
	LogMsgAsyncStepFailed  = "async step failed"
	LogMsgViewRegistered   = "view registered"
	LogMsgViewUnregistered = "view unregistered"
	LogMsgCacheHit         = "render cache hit"
	LogMsgHandlerFailed    = "page handler failed"
)

// Log field names
const (
	LogFieldView       = "view"
	LogFieldMode       = "mode"
	LogFieldNodes      = "nodes"
	LogFieldStatic     = "static"
	LogFieldDynamic    = "dynamic"
	LogFieldAsync      = "async"
	LogFieldIndented   = "indented"
	LogFieldThreadSafe = "thread_safe"
	LogFieldNode       = "node"
	LogFieldBytes      = "bytes"
	LogFieldPath       = "path"
)

// Tracing constants
const (
	TracerName       = "github.com/itsatony/go-htmlflow"
	SpanNameDiscover = "htmlflow.discover"
	SpanNameRender   = "htmlflow.render"
	AttrKeyView      = "htmlflow.view"
	AttrKeyMode      = "htmlflow.mode"
	AttrKeyNodes     = "htmlflow.nodes"
)
