package intake

// Button identifiers carried in callback actions.
const (
	ActionBegin     = "begin"
	ActionPolicyAck = "policy_ack"
	ActionRulesAck  = "rules_ack"
	ActionChange    = "change"
	ActionSubmit    = "submit"
)

// Button is an inline control offered with a reply.
type Button struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Reply is what the engine answers an inbound event with.
type Reply struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons,omitempty"`
}

// User-facing texts. The product speaks Russian.
const (
	textGreeting       = "Привет! Я — загрузчик фотографий. Нажмите «Начать», чтобы продолжить."
	textPressStart     = "Отправьте команду /start, чтобы начать."
	textAskPassword    = "Для начала работы отправьте пароль в сообщении."
	textWrongPassword  = "Неверный пароль. Попробуйте снова."
	textPolicy         = "Ознакомьтесь с политикой обработки персональных данных и подтвердите согласие."
	textRules          = "Ознакомьтесь с правилами публикации и подтвердите."
	textUseButtons     = "Пожалуйста, воспользуйтесь кнопками под сообщением."
	textAskName        = "Теперь напишите ФИО."
	textAskPhoto       = "Теперь отправьте ваше фото."
	textNameFirst      = "Сначала напишите ФИО."
	textPhotoFirst     = "Сначала отправьте фото."
	textPasswordFirst  = "Сначала введите пароль для доступа."
	textDocNotPhoto    = "Прикрепите фото как изображение, а не как файл."
	textOnePhotoOnly   = "Отправьте, пожалуйста, одно фото, не альбом."
	textPhotoTooLarge  = "Фото слишком большое. Максимальный размер — 2 МБ."
	textPhotoFailed    = "Ошибка обработки фото. Попробуйте снова."
	textConfirmPrefix  = "Проверьте данные. ФИО: "
	textConfirmSuffix  = ". Опубликовать фото?"
	textSubmitted      = "Фото успешно загружено! Для новой загрузки воспользуйтесь командой /start."
	textEnqueueFailed  = "Не удалось отправить данные на публикацию. Попробуйте ещё раз."
	textGenericRestart = "Произошла ошибка. Начните заново с команды /start."
)

func greetingReply() Reply {
	return Reply{
		Text:    textGreeting,
		Buttons: []Button{{ID: ActionBegin, Label: "Начать"}},
	}
}

func policyReply() Reply {
	return Reply{
		Text:    textPolicy,
		Buttons: []Button{{ID: ActionPolicyAck, Label: "Согласен"}},
	}
}

func rulesReply() Reply {
	return Reply{
		Text:    textRules,
		Buttons: []Button{{ID: ActionRulesAck, Label: "Принимаю"}},
	}
}

func confirmReply(displayName string) Reply {
	return Reply{
		Text: textConfirmPrefix + displayName + textConfirmSuffix,
		Buttons: []Button{
			{ID: ActionChange, Label: "Изменить"},
			{ID: ActionSubmit, Label: "Отправить"},
		},
	}
}
