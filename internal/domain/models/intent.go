package models

type IntentKind int

const (
	IntentCommand IntentKind = iota
	IntentCallback
	IntentText
	IntentUnsupported
)

func (k IntentKind) String() string {
	switch k {
	case IntentCommand:
		return "command"
	case IntentCallback:
		return "callback"
	case IntentText:
		return "text"
	case IntentUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

type Intent struct {
	Kind        IntentKind
	Command     Command
	Action      CallbackAction
	RawData     string
	Text        string
	ContentType string
}

// Label возвращает короткое имя намерения для метрик и журнала.
func (i Intent) Label() string {
	switch i.Kind {
	case IntentCommand:
		return string(i.Command)
	case IntentCallback:
		return "callback:" + string(i.Action)
	default:
		return i.Kind.String()
	}
}
