package services

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/mkosheleva/gym-automation/internal/models"
)

// emailData данные, доступные шаблонам писем.
type emailData struct {
	Name     string
	DueDate  string
	DaysLeft int
	LastSeen string
	Age      int // 0, если дата рождения не указана или год фиктивный
}

// Темы писем по видам. Виды без шаблона тела (напоминания) тоже перечислены:
// их тема попадает в журнал как запасная при ошибке рендеринга.
var subjects = map[string]string{
	models.EmailSubscription:    "Напоминание о продлении абонемента",
	models.EmailInactivity:      "Мы скучаем по вам!",
	models.EmailBirthday:        "С днём рождения!",
	models.EmailMotivational:    "Ждём вас на тренировке!",
	models.EmailWorkoutReminder: "Напоминание о тренировке",
	models.EmailSessionReminder: "Напоминание о записи на тренировку",
}

var bodies = map[string]*texttemplate.Template{
	models.EmailSubscription: texttemplate.Must(texttemplate.New(models.EmailSubscription).Parse(
		`Здравствуйте, {{.Name}}!

Ваш абонемент действует до {{.DueDate}}{{if gt .DaysLeft 0}} — осталось {{.DaysLeft}} дн{{end}}.

Пожалуйста, продлите его заранее, чтобы не прерывать тренировки.`)),
	models.EmailInactivity: texttemplate.Must(texttemplate.New(models.EmailInactivity).Parse(
		`Здравствуйте, {{.Name}}!

Мы не видели вас в клубе с {{.LastSeen}}. Возвращайтесь — тренеры и зал ждут вас.

Если вам нужна помощь с программой тренировок, напишите нам в ответ на это письмо.`)),
	models.EmailBirthday: texttemplate.Must(texttemplate.New(models.EmailBirthday).Parse(
		`{{.Name}}, поздравляем вас с днём рождения!{{if .Age}} Вам исполняется {{.Age}}!{{end}}

Желаем здоровья, сил и новых спортивных результатов. Загляните к нам сегодня — в честь праздника вас ждёт гостевая тренировка для друга.`)),
	models.EmailMotivational: texttemplate.Must(texttemplate.New(models.EmailMotivational).Parse(
		`Здравствуйте, {{.Name}}!

Регулярность важнее интенсивности: даже короткая тренировка на этой неделе приблизит вас к цели.

Ждём вас в зале!`)),
}

var htmlBodies = map[string]*htmltemplate.Template{
	models.EmailSubscription: htmltemplate.Must(htmltemplate.New(models.EmailSubscription).Parse(
		`<p>Здравствуйте, {{.Name}}!</p>
<p>Ваш абонемент действует до <strong>{{.DueDate}}</strong>{{if gt .DaysLeft 0}} — осталось {{.DaysLeft}} дн{{end}}.</p>
<p>Пожалуйста, продлите его заранее, чтобы не прерывать тренировки.</p>`)),
	models.EmailInactivity: htmltemplate.Must(htmltemplate.New(models.EmailInactivity).Parse(
		`<p>Здравствуйте, {{.Name}}!</p>
<p>Мы не видели вас в клубе с <strong>{{.LastSeen}}</strong>. Возвращайтесь — тренеры и зал ждут вас.</p>
<p>Если вам нужна помощь с программой тренировок, напишите нам в ответ на это письмо.</p>`)),
	models.EmailBirthday: htmltemplate.Must(htmltemplate.New(models.EmailBirthday).Parse(
		`<p><strong>{{.Name}}, поздравляем вас с днём рождения!</strong>{{if .Age}} Вам исполняется {{.Age}}!{{end}}</p>
<p>Желаем здоровья, сил и новых спортивных результатов. Загляните к нам сегодня — в честь праздника вас ждёт гостевая тренировка для друга.</p>`)),
	models.EmailMotivational: htmltemplate.Must(htmltemplate.New(models.EmailMotivational).Parse(
		`<p>Здравствуйте, {{.Name}}!</p>
<p>Регулярность важнее интенсивности: даже короткая тренировка на этой неделе приблизит вас к цели.</p>
<p>Ждём вас в зале!</p>`)),
}

// buildEmail собирает тему и оба варианта тела письма для клиента:
// обычный текст и HTML.
func buildEmail(emailType string, m *models.Member, now time.Time) (subject, textBody, htmlBody string, err error) {
	tmpl, ok := bodies[emailType]
	if !ok {
		return "", "", "", fmt.Errorf("no template for email type %q", emailType)
	}

	data := emailData{
		Name:     m.FirstName(),
		DueDate:  m.SubscriptionDueDate.Format("02.01.2006"),
		DaysLeft: m.DaysUntilDue(now),
	}
	if m.LastCheckinDate != nil {
		data.LastSeen = m.LastCheckinDate.Format("02.01.2006")
	}
	if age, ok := m.Age(now); ok {
		data.Age = age
	}

	var text strings.Builder
	if err := tmpl.Execute(&text, data); err != nil {
		return "", "", "", fmt.Errorf("execute template %q: %w", emailType, err)
	}
	var html strings.Builder
	if err := htmlBodies[emailType].Execute(&html, data); err != nil {
		return "", "", "", fmt.Errorf("execute html template %q: %w", emailType, err)
	}
	return subjects[emailType], text.String(), html.String(), nil
}
