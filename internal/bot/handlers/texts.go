package handlers

const (
	mainMenuText = "<b>Главное меню</b>\n\nВыберите, что нужно сделать:"

	idleGuidanceText = "Я пока не знаю, что делать с этим текстом.\n" +
		"Выберите режим в меню ниже, а затем отправьте сообщение.\n\n" + mainMenuText

	helpText = "<b>Помощь</b>\n\n" +
		"/start, /menu — открыть главное меню\n\n" +
		"<b>Подсчёт символов</b> — отправьте любой текст, и я скажу, сколько в нём символов.\n" +
		"<b>Сумма чисел</b> — отправьте числа через пробел, например <code>2 3 15</code>, и я их сложу.\n\n" +
		"Вернуться в меню можно кнопкой «Главное меню» или командой /menu."

	countCharsPrompt = "Режим подсчёта символов.\nОтправьте текст, и я посчитаю количество символов в нём."

	sumNumbersPrompt = "Режим сложения чисел.\nОтправьте числа через пробел, например: <code>2 3 15</code>"

	unsupportedContentText = "Данный тип сообщений не поддерживается. Пожалуйста отправьте текст."

	processingErrorText = "Произошла ошибка при обработке вашего сообщения. Пожалуйста, попробуйте позже."
)

func MainMenu() string {
	return mainMenuText
}

func IdleGuidance() string {
	return idleGuidanceText
}

func Help() string {
	return helpText
}

func CountCharsPrompt() string {
	return countCharsPrompt
}

func SumNumbersPrompt() string {
	return sumNumbersPrompt
}

func UnsupportedContent() string {
	return unsupportedContentText
}

func ProcessingError() string {
	return processingErrorText
}
