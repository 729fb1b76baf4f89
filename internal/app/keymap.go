package app

// Key binding constants used in handleKey.
const (
	KeyQuit        = "q"
	KeyQuitUpper   = "Q"
	KeyCtrlC       = "ctrl+c"
	KeyOpen        = "o"
	KeyCycleModel  = "m"
	KeyChunk       = "c"
	KeyToggle      = "t"
	KeySave        = "s"
	KeyDeleteCache = "x"
	KeyEnter       = "enter"
	KeyEsc         = "esc"
	KeyConfirm     = "y"
	KeyCancel      = "n"
)
