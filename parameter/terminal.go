package parameter

import "time"

// Frame Loop
const (
	// FrameRate is the default refresh rate of the terminal frame loop
	FrameRate = 60
	// MaxFrameRate bounds configured refresh rates
	MaxFrameRate = 240
)

// Cell Metrics
const (
	// CellWidth and CellHeight are the logical px one terminal cell covers
	// 1:2 matches the typical monospace glyph box so circles stay round
	CellWidth  = 4.0
	CellHeight = 8.0

	// TerminalPixelRatio is the default device pixel ratio of the terminal raster
	TerminalPixelRatio = 1.0
)

// Color Fitting
const (
	// TrueColorThreshold is the Screen.Colors() count from which RGB is sent as is
	TrueColorThreshold = 1 << 24
	// PaletteCacheSize bounds memoized palette matches before the cache is dropped
	PaletteCacheSize = 4096
)

// Cursor Follower
const (
	// CursorEase is the fraction of remaining distance covered per frame
	CursorEase        = 0.18
	CursorRadius      = 5.0
	CursorHoverRadius = 8.0
	CursorOpacity     = 0.35
)

// Config Reload
const (
	// ConfigReloadDebounce collapses bursts of editor writes into a single reload
	ConfigReloadDebounce = 250 * time.Millisecond
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "starfield.log"
	// MaxLogSize triggers rotation of the existing log file at startup
	MaxLogSize = 10 * 1024 * 1024
)
