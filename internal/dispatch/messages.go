package dispatch

import "strings"

// Тема письма пользователю. Фиксированная строка.
const mailSubject = "Попытки подбора пароля"

// Шаблон уведомления в операторский чат: константная строка-метка,
// второй строкой — IP источника без обфускации.
const chatAlertPrefix = "Во временный блок брут\n"

// Ответы отправителю оповещения.
const (
	replyWhitelisted  = "IP %s находится в белом списке. Отправка сообщения не требуется."
	replyInvalidEmail = "Невалидный email: %s"
	statusChatSent    = "Оповещение отправлено в рабочий чат."
	statusChatFailed  = "Не удалось оповестить рабочий чат: %v."
	statusMailSent    = "Сообщение отправлено на %s."
	statusMailFailed  = "Не удалось отправить сообщение на %s. Ошибка: %v"
)

// mailBodyTemplate — шаблон тела письма пользователю. IP подставляется
// в обфусцированном виде, чтобы почтовые и чат-клиенты не превращали
// его в ссылку.
const mailBodyTemplate = `Добрый день, под вашей учетной записью (логин, указанный при входе: {{.Username}}) превышено число неудачных попыток подключения с IP {{.IP}} к VPN шлюзу {{.Gateway}}, поэтому данный IP был заблокирован. Для разблокировки смените пароль в личном кабинете и оставьте заявку в support.mosreg.ru.`

// mailTemplateData содержит данные для шаблона письма.
type mailTemplateData struct {
	Username string
	IP       string
	Gateway  string
}

// DefangIP заменяет последнюю точку адреса на "[.]":
// "10.0.0.5" превращается в "10.0.0[.]5".
func DefangIP(ip string) string {
	i := strings.LastIndexByte(ip, '.')
	if i < 0 {
		return ip
	}
	return ip[:i] + "[.]" + ip[i+1:]
}
