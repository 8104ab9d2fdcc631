package main

import "time"

// Command names
const (
	CmdNameRender  = "render"
	CmdNameServe   = "serve"
	CmdNameList    = "list"
	CmdNameVersion = "version"
)

// Flag names - long form
const (
	FlagModel   = "model"
	FlagOutput  = "output"
	FlagConfig  = "config"
	FlagCompact = "compact"
	FlagAddr    = "addr"
	FlagShort   = "short"
)

// Flag names - short form
const (
	FlagModelShort  = "m"
	FlagOutputShort = "o"
	FlagConfigShort = "c"
	FlagShortShort  = "s"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultAddr   = ":8080"
)

// Exit codes
const (
	ExitCodeSuccess     = 0
	ExitCodeError       = 1
	ExitCodeUsageError  = 2
	ExitCodeConfigError = 3
	ExitCodeInputError  = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgCommandFailed     = "command failed"
	ErrMsgUnknownView       = "unknown view"
	ErrMsgReadModelFailed   = "failed to read model"
	ErrMsgDecodeModelFailed = "failed to decode model"
	ErrMsgLoadConfigFailed  = "failed to load configuration"
	ErrMsgBuildViewsFailed  = "failed to build views"
	ErrMsgRenderFailed      = "render failed"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgServeFailed       = "server failed"
)

// CLI metadata
const (
	CLIName        = "htmlflow"
	CLIDescription = "Render and serve preprocessed HTML views"
	CLILong        = `htmlflow renders the built-in sample views from a YAML or JSON model
and serves them over HTTP. Every view is discovered once at startup and
replayed for each render.`
)

// Sample view names
const (
	SampleTrack    = "track"
	SamplePlaylist = "playlist"
	SampleLinks    = "links"
	SampleFeed     = "feed"
	SampleIndex    = "index"
)

// HTTP routes and parameters
const (
	RouteIndex      = "/"
	RouteMetrics    = "/metrics"
	RouteViewPrefix = "/views/"
	QueryParamModel = "model"
	ReadTimeout     = 10 * time.Second
	ShutdownTimeout = 5 * time.Second
)

// Log messages
const (
	LogMsgServing      = "serving views"
	LogMsgShuttingDown = "shutting down"
	LogFieldAddr       = "addr"
	LogFieldViews      = "views"
)

// Format string constants
const (
	FmtErrorWithCause = "%s: %v\n"
	FmtListEntry      = "%-10s %s\n"
	FmtVersion        = "%s version %s\nGo: %s\n"
)
