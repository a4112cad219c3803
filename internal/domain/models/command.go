package models

type Command string

const (
	CommandStart Command = "/start"
	CommandMenu  Command = "/menu"
)

func ParseCommand(text string) (Command, bool) {
	switch Command(text) {
	case CommandStart, CommandMenu:
		return Command(text), true
	default:
		return "", false
	}
}

type CallbackAction string

const (
	CallbackCountChars CallbackAction = "count_chars"
	CallbackSumNumbers CallbackAction = "sum_numbers"
	CallbackMainMenu   CallbackAction = "main_menu"
	CallbackHelp       CallbackAction = "help"
	CallbackUnknown    CallbackAction = "unknown"
)

func ParseCallbackAction(data string) (CallbackAction, bool) {
	switch CallbackAction(data) {
	case CallbackCountChars, CallbackSumNumbers, CallbackMainMenu, CallbackHelp:
		return CallbackAction(data), true
	default:
		return CallbackUnknown, false
	}
}
