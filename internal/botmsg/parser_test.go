package botmsg

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"maisagenda/models"
)

var parserNow = time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

func profileWith(cards, accounts []string) *models.Profile {
	p := &models.Profile{UserID: 42, TelegramChatID: 1000}
	for _, name := range cards {
		p.UserCards = append(p.UserCards, models.NamedItem{Name: name})
	}
	for _, name := range accounts {
		p.UserAccounts = append(p.UserAccounts, models.NamedItem{Name: name})
	}
	return p
}

func TestParseSimpleExpense(t *testing.T) {
	parsed, ok := ParseMessage("Almoço 35", parserNow)
	require.True(t, ok)
	require.True(t, parsed.Amount.Equal(decimal.NewFromInt(35)))
	require.Equal(t, "Almoço", parsed.Description)
	require.Equal(t, models.TxTypeExpense, parsed.Type)
	require.Equal(t, models.TxStatusPaid, parsed.Status)
	require.Equal(t, parserNow, parsed.Date)
}

func TestParseAmountWithCommaSeparator(t *testing.T) {
	parsed, ok := ParseMessage("Pão 3,50", parserNow)
	require.True(t, ok)
	require.True(t, parsed.Amount.Equal(decimal.RequireFromString("3.5")))
	require.Equal(t, "Pão", parsed.Description)
}

func TestParseAmountWithDotSeparator(t *testing.T) {
	parsed, ok := ParseMessage("Café 4.25 cartao", parserNow)
	require.True(t, ok)
	require.True(t, parsed.Amount.Equal(decimal.RequireFromString("4.25")))
	require.Equal(t, models.TxTypeCard, parsed.Type)
}

func TestParseWithoutAmountIsIgnored(t *testing.T) {
	_, ok := ParseMessage("bom dia", parserNow)
	require.False(t, ok)
}

func TestParsePendingKeywords(t *testing.T) {
	for _, keyword := range []string{"pendente", "agendar", "depois"} {
		parsed, ok := ParseMessage("Internet 120 "+keyword, parserNow)
		require.True(t, ok, keyword)
		require.Equal(t, models.TxStatusPending, parsed.Status, keyword)
	}
}

func TestParseTypeKeywords(t *testing.T) {
	cases := []struct {
		text     string
		expected string
	}{
		{"Uber 20 cartao", models.TxTypeCard},
		{"Mercado 80 cartão", models.TxTypeCard},
		{"Compra 50 credito", models.TxTypeCard},
		{"Aluguel 900 transferencia", models.TxTypeTransfer},
		{"Enviar 200 transferir", models.TxTypeTransfer},
		{"Cliente 150 pix", models.TxTypeIncome},
		{"Salário 5000 recebi", models.TxTypeIncome},
		{"Bazar 75 venda", models.TxTypeIncome},
		{"Padaria 12", models.TxTypeExpense},
	}
	for _, tc := range cases {
		parsed, ok := ParseMessage(tc.text, parserNow)
		require.True(t, ok, tc.text)
		require.Equal(t, tc.expected, parsed.Type, tc.text)
	}
}

func TestTypeKeywordPrecedence(t *testing.T) {
	// Карта побеждает перевод и доход, перевод побеждает доход
	parsed, ok := ParseMessage("Pagamento 100 cartao pix", parserNow)
	require.True(t, ok)
	require.Equal(t, models.TxTypeCard, parsed.Type)

	parsed, ok = ParseMessage("Pagamento 100 transferencia pix", parserNow)
	require.True(t, ok)
	require.Equal(t, models.TxTypeTransfer, parsed.Type)
}

func TestParseDayOverride(t *testing.T) {
	parsed, ok := ParseMessage("Salário 5000 recebi dia 10", parserNow)
	require.True(t, ok)
	require.Equal(t, models.TxTypeIncome, parsed.Type)
	require.Equal(t, models.TxStatusPaid, parsed.Status)
	require.Equal(t, 10, parsed.Date.Day())
	require.Equal(t, parserNow.Month(), parsed.Date.Month())
	require.Equal(t, parserNow.Year(), parsed.Date.Year())
}

func TestParseDayOverrideNormalizesInvalidDay(t *testing.T) {
	// В феврале 2024 года 29 дней, "dia 31" нормализуется арифметикой дат
	february := time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC)
	parsed, ok := ParseMessage("Conta 100 dia 31", february)
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), parsed.Date)
}

func TestDecidePromptWhenMultipleCards(t *testing.T) {
	parsed, ok := ParseMessage("Uber 20 cartao", parserNow)
	require.True(t, ok)

	decision := Decide(parsed, profileWith([]string{"Nubank", "Inter"}, nil))
	require.Equal(t, DecidePromptCards, decision.Kind)
	require.Nil(t, decision.Entry)
	require.Len(t, decision.Options, 2)
	require.Equal(t, "Nubank", decision.Options[0].Label)
	require.Equal(t, "Inter", decision.Options[1].Label)

	for _, opt := range decision.Options {
		require.Equal(t, 6, strings.Count(opt.Data, "|"))
		payload, err := DecodePayload(opt.Data)
		require.NoError(t, err)
		require.Equal(t, models.TxTypeCard, payload.Action)
		require.Equal(t, "20", payload.Amount)
		require.Equal(t, models.TxTypeCard, payload.Type)
		require.Equal(t, "Uber cartao", payload.Description)
	}
}

func TestDecidePromptWhenMultipleAccounts(t *testing.T) {
	parsed, ok := ParseMessage("Cliente 150 pix", parserNow)
	require.True(t, ok)

	decision := Decide(parsed, profileWith(nil, []string{"Itaú", "Caixa"}))
	require.Equal(t, DecidePromptAccounts, decision.Kind)
	require.Len(t, decision.Options, 2)

	payload, err := DecodePayload(decision.Options[0].Data)
	require.NoError(t, err)
	require.Equal(t, models.TxTypeIncome, payload.Action)
	require.Equal(t, models.TxTypeIncome, payload.Type)
	require.Equal(t, "Itaú", payload.Item)
}

func TestDecideSingleCardInsertsDirectly(t *testing.T) {
	parsed, ok := ParseMessage("Uber 20 cartao", parserNow)
	require.True(t, ok)

	decision := Decide(parsed, profileWith([]string{"Nubank"}, nil))
	require.Equal(t, DecideInsert, decision.Kind)
	require.NotNil(t, decision.Entry)
	require.Equal(t, "Uber cartao (Nubank)", decision.Entry.Title)
	require.Equal(t, "Cartão", decision.Entry.Category)
	require.Equal(t, models.TxTypeCard, decision.Entry.Type)
}

func TestDecideCardWithoutConfiguredCardsUsesDefaultName(t *testing.T) {
	parsed, ok := ParseMessage("Uber 20 cartao", parserNow)
	require.True(t, ok)

	decision := Decide(parsed, profileWith(nil, nil))
	require.Equal(t, DecideInsert, decision.Kind)
	require.Equal(t, "Uber cartao (Crédito)", decision.Entry.Title)
}

func TestDecideIncomeSingleAccountUsesBrackets(t *testing.T) {
	parsed, ok := ParseMessage("Cliente 150 pix", parserNow)
	require.True(t, ok)

	decision := Decide(parsed, profileWith(nil, []string{"Itaú"}))
	require.Equal(t, DecideInsert, decision.Kind)
	require.Equal(t, "Cliente pix [Itaú]", decision.Entry.Title)
	require.Equal(t, "Receitas", decision.Entry.Category)
}

func TestDecideExpenseHasNoItemName(t *testing.T) {
	parsed, ok := ParseMessage("Almoço 35", parserNow)
	require.True(t, ok)

	decision := Decide(parsed, profileWith([]string{"Nubank", "Inter"}, []string{"Itaú"}))
	require.Equal(t, DecideInsert, decision.Kind)
	require.Equal(t, "Almoço", decision.Entry.Title)
	require.Equal(t, "Geral", decision.Entry.Category)
}

func TestBuildTitle(t *testing.T) {
	require.Equal(t, "Uber (Nubank)", BuildTitle(models.TxTypeCard, "Uber", "Nubank"))
	require.Equal(t, "Salário [Itaú]", BuildTitle(models.TxTypeIncome, "Salário", "Itaú"))
	require.Equal(t, "Almoço", BuildTitle(models.TxTypeExpense, "Almoço", ""))
}

func TestCategoryFor(t *testing.T) {
	require.Equal(t, "Cartão", CategoryFor(models.TxTypeCard))
	require.Equal(t, "Receitas", CategoryFor(models.TxTypeIncome))
	require.Equal(t, "Geral", CategoryFor(models.TxTypeTransfer))
	require.Equal(t, "Geral", CategoryFor(models.TxTypeExpense))
}
