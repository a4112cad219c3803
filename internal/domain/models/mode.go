package models

// Mode определяет, как бот интерпретирует следующий текст пользователя.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCountingChars
	ModeSummingNumbers
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeCountingChars:
		return "counting_chars"
	case ModeSummingNumbers:
		return "summing_numbers"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, bool) {
	switch s {
	case "idle":
		return ModeIdle, true
	case "counting_chars":
		return ModeCountingChars, true
	case "summing_numbers":
		return ModeSummingNumbers, true
	default:
		return ModeIdle, false
	}
}
