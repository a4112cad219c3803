package models

type EventKind int

const (
	EventText EventKind = iota
	EventCallback
	EventOther
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventCallback:
		return "callback"
	case EventOther:
		return "other"
	default:
		return "unknown"
	}
}

// Event описывает входящее обновление, независимое от представления транспорта.
type Event struct {
	UpdateID    int64
	Kind        EventKind
	ChatID      int64
	UserID      int64
	Text        string
	CallbackID  string
	Data        string
	ContentType string
}
