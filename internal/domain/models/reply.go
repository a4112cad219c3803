package models

type Format int

const (
	FormatPlain Format = iota
	FormatHTML
)

type KeyboardSpec int

const (
	KeyboardNone KeyboardSpec = iota
	KeyboardMainMenu
	KeyboardBackToMenu
)

func (k KeyboardSpec) String() string {
	switch k {
	case KeyboardMainMenu:
		return "main_menu"
	case KeyboardBackToMenu:
		return "back_to_menu"
	default:
		return "none"
	}
}

type Reply struct {
	ChatID   int64
	Body     string
	Format   Format
	Keyboard KeyboardSpec
}
