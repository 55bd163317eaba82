// maisagenda/internal/botmsg/parser.go

// Пакет botmsg разбирает входящие сообщения Telegram-бота: извлекает сумму,
// тип и дату транзакции из свободного текста и решает, нужно ли уточнять
// карту или счёт через кнопки.
package botmsg

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"maisagenda/models"
)

var (
	// Первая "денежная" подстрока: целое или с одной-двумя цифрами после
	// точки или запятой.
	amountRe = regexp.MustCompile(`\d+(?:[.,]\d{1,2})?`)
	// Переопределение дня месяца: "dia 10"
	dayRe = regexp.MustCompile(`dia (\d{1,2})`)
)

// typeRule - одно правило выбора типа транзакции по ключевому слову.
// Правила проверяются по порядку, срабатывает первое совпадение.
type typeRule struct {
	keywords []string
	txType   string
}

// typeRules - порядок важен: карта перед переводом, перевод перед доходом.
var typeRules = []typeRule{
	{keywords: []string{"cartao", "cartão", "credito"}, txType: models.TxTypeCard},
	{keywords: []string{"transferencia", "transferir"}, txType: models.TxTypeTransfer},
	{keywords: []string{"pix", "recebi", "venda"}, txType: models.TxTypeIncome},
}

var pendingKeywords = []string{"pendente", "agendar", "depois"}

// ParsedMessage - результат разбора одного текстового сообщения.
type ParsedMessage struct {
	Amount      decimal.Decimal
	Description string
	Type        string
	Status      string
	Date        time.Time
}

// ParseMessage извлекает из текста сумму, описание, тип, статус и дату.
// Возвращает false, если в тексте нет суммы - такое сообщение молча
// игнорируется.
func ParseMessage(text string, now time.Time) (*ParsedMessage, bool) {
	loc := amountRe.FindStringIndex(text)
	if loc == nil {
		return nil, false
	}

	raw := strings.ReplaceAll(text[loc[0]:loc[1]], ",", ".")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, false
	}

	// Описание - текст без найденной суммы, с нормализованными пробелами
	description := strings.Join(strings.Fields(text[:loc[0]]+text[loc[1]:]), " ")

	lower := strings.ToLower(text)

	status := models.TxStatusPaid
	for _, kw := range pendingKeywords {
		if strings.Contains(lower, kw) {
			status = models.TxStatusPending
			break
		}
	}

	txType := models.TxTypeExpense
	for _, rule := range typeRules {
		if matchesAny(lower, rule.keywords) {
			txType = rule.txType
			break
		}
	}

	date := now
	if m := dayRe.FindStringSubmatch(lower); m != nil {
		day := 0
		for _, r := range m[1] {
			day = day*10 + int(r-'0')
		}
		// time.Date нормализует несуществующие дни (31 февраля и т.п.) -
		// переносим поведение исходной арифметики дат как есть
		date = time.Date(now.Year(), now.Month(), day,
			now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
	}

	return &ParsedMessage{
		Amount:      amount,
		Description: description,
		Type:        txType,
		Status:      status,
		Date:        date,
	}, true
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DecisionKind - вариант решения по разобранному сообщению.
type DecisionKind int

const (
	// DecideInsert - данных достаточно, транзакция записывается сразу.
	DecideInsert DecisionKind = iota
	// DecidePromptCards - нужно уточнить карту кнопками.
	DecidePromptCards
	// DecidePromptAccounts - нужно уточнить счёт кнопками.
	DecidePromptAccounts
)

// Entry - готовая к записи транзакция.
type Entry struct {
	Title    string
	Amount   decimal.Decimal
	Type     string
	Category string
	Date     time.Time
	Status   string
}

// Decision - решение по сообщению: прямая запись либо запрос уточнения.
type Decision struct {
	Kind    DecisionKind
	Entry   *Entry
	Options []Button
}

// Decide выбирает между немедленной записью и уточняющим вопросом.
// Кнопки появляются только когда настроено больше одного варианта:
// для карт при типе card, для счетов при типах transfer и income.
func Decide(msg *ParsedMessage, profile *models.Profile) Decision {
	amount := msg.Amount.String()

	if msg.Type == models.TxTypeCard && len(profile.UserCards) > 1 {
		options := make([]Button, 0, len(profile.UserCards))
		for _, card := range profile.UserCards {
			payload := CallbackPayload{
				Action:      models.TxTypeCard,
				Amount:      amount,
				Type:        models.TxTypeCard,
				Status:      msg.Status,
				Date:        msg.Date,
				Description: msg.Description,
				Item:        card.Name,
			}
			options = append(options, Button{Label: card.Name, Data: payload.Encode()})
		}
		return Decision{Kind: DecidePromptCards, Options: options}
	}

	if (msg.Type == models.TxTypeTransfer || msg.Type == models.TxTypeIncome) && len(profile.UserAccounts) > 1 {
		options := make([]Button, 0, len(profile.UserAccounts))
		for _, account := range profile.UserAccounts {
			payload := CallbackPayload{
				Action:      msg.Type,
				Amount:      amount,
				Type:        msg.Type,
				Status:      msg.Status,
				Date:        msg.Date,
				Description: msg.Description,
				Item:        account.Name,
			}
			options = append(options, Button{Label: account.Name, Data: payload.Encode()})
		}
		return Decision{Kind: DecidePromptAccounts, Options: options}
	}

	item := resolveItemName(msg.Type, profile)
	return Decision{
		Kind: DecideInsert,
		Entry: &Entry{
			Title:    BuildTitle(msg.Type, msg.Description, item),
			Amount:   msg.Amount,
			Type:     msg.Type,
			Category: CategoryFor(msg.Type),
			Date:     msg.Date,
			Status:   msg.Status,
		},
	}
}

// resolveItemName возвращает имя карты/счёта, когда вариант ровно один.
// Для типа card без настроенных карт подставляется "Crédito".
func resolveItemName(txType string, profile *models.Profile) string {
	switch txType {
	case models.TxTypeCard:
		if len(profile.UserCards) == 1 {
			return profile.UserCards[0].Name
		}
		return "Crédito"
	case models.TxTypeTransfer, models.TxTypeIncome:
		if len(profile.UserAccounts) == 1 {
			return profile.UserAccounts[0].Name
		}
	}
	return ""
}

// BuildTitle собирает итоговое название: карта - в круглых скобках,
// остальные типы - в квадратных; без имени скобки опускаются.
func BuildTitle(action, description, item string) string {
	if item == "" {
		return description
	}
	if action == models.TxTypeCard {
		return description + " (" + item + ")"
	}
	return description + " [" + item + "]"
}

// CategoryFor возвращает категорию транзакции по её типу/действию.
func CategoryFor(action string) string {
	switch action {
	case models.TxTypeCard:
		return "Cartão"
	case models.TxTypeIncome:
		return "Receitas"
	default:
		return "Geral"
	}
}
