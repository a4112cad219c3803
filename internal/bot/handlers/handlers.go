package handlers

// Result описывает результат обработки текста в режиме. NoOp означает, что отвечать не нужно.
type Result struct {
	Text string
	NoOp bool
}

// ModeHandler обрабатывает текст пользователя в конкретном режиме.
type ModeHandler func(text string) (Result, error)

func noOp() Result {
	return Result{NoOp: true}
}
