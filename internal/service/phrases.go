package service

import (
	"strconv"
	"strings"

	"home_bills/internal/models"
	"home_bills/internal/money"
)

// Reply texts.
const (
	replyGreeting        = "Привет! Что там по счетчикам за воду и электричество?"
	replyAllFilled       = "Все показания за этот месяц уже заполнены. Чтобы узнать сумму, скажи «сколько вышло»."
	replyRefreshed       = "Обновила данные."
	replyBadReading      = "Не поняла показания счетчика"
	replyHotOrCold       = "Не поняла, это горячая или холодная вода?"
	replyBadTariff       = "Не поняла, это по какому тарифу? Есть тарифы: 1, 2 и 3"
	replyNoReadings      = "У меня пока нет показаний. Продиктуй их, пожалуйста."
	replyNoPrevious      = "Не хватает показаний за прошлый месяц, не с чем сравнивать."
	replyNotUnderstood   = "Не поняла"
	ReplyInternalFailure = "Что-то пошло не так, попробуй ещё раз чуть позже."
)

// Category phrases in the genitive, as they follow "показания".
const (
	phraseElectricity = "по электричеству"
	phraseKitchen     = "воды на кухне"
	phraseBath        = "воды в ванной"
)

type waterMeter struct {
	field  models.Field
	phrase string
}

var waterMeters = []waterMeter{
	{models.KitchenHot, "горячей воды на кухне"},
	{models.KitchenCold, "холодной воды на кухне"},
	{models.BathHot, "горячей воды в ванной"},
	{models.BathCold, "холодной воды в ванной"},
}

// joinRu joins parts as "a, b и c".
func joinRu(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " и " + parts[len(parts)-1]
	}
}

func fieldSet(fields []models.Field) map[models.Field]bool {
	set := make(map[models.Field]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// missingPhrase names the missing readings. Electricity collapses to a single phrase
// when all tariffs are missing; water is listed per meter.
func missingPhrase(missing []models.Field) string {
	set := fieldSet(missing)
	var parts []string

	var tariffs []string
	for t := 1; t <= 3; t++ {
		if set[models.ElectricityFields[t]] {
			tariffs = append(tariffs, strconv.Itoa(t))
		}
	}
	switch len(tariffs) {
	case 0:
	case 3:
		parts = append(parts, phraseElectricity)
	case 1:
		parts = append(parts, "по тарифу электричества "+tariffs[0])
	default:
		parts = append(parts, "по тарифам электричества "+joinRu(tariffs))
	}

	for _, m := range waterMeters {
		if set[m.field] {
			parts = append(parts, m.phrase)
		}
	}
	return joinRu(parts)
}

// missingCategories names the groups with at least one unset reading.
func missingCategories(missing []models.Field) string {
	set := fieldSet(missing)
	var parts []string
	if set[models.ElT1] || set[models.ElT2] || set[models.ElT3] {
		parts = append(parts, phraseElectricity)
	}
	if set[models.KitchenCold] || set[models.KitchenHot] {
		parts = append(parts, phraseKitchen)
	}
	if set[models.BathCold] || set[models.BathHot] {
		parts = append(parts, phraseBath)
	}
	return joinRu(parts)
}

// MissingDataText renders why the bill cannot be computed.
func MissingDataText(err *models.MissingDataError) string {
	if err.Previous {
		return replyNoPrevious
	}
	if len(err.Fields) == len(models.RawFields) {
		return replyNoReadings
	}
	return "Не хватает показаний " + missingPhrase(err.Fields) + "."
}

// BillText renders the bill as a spoken reply.
func BillText(b models.Bill) string {
	var sb strings.Builder
	sb.WriteString("В этом месяце коммуналка вышла на ")
	sb.WriteString(money.Format(b.Total))
	sb.WriteString(".")

	if c := b.Comparison; c != nil {
		diff := money.FromFloat(c.Difference)
		switch {
		case diff.Rubles == 0 && diff.Kopecks == 0:
			sb.WriteString(" Столько же, сколько в прошлом месяце.")
		case c.Difference > 0:
			sb.WriteString(" Это на " + diff.Abs().String() + " больше, чем в прошлом месяце.")
		default:
			sb.WriteString(" Это на " + diff.Abs().String() + " меньше, чем в прошлом месяце.")
		}
	}
	return sb.String()
}

// formatReading prints 12.5 as "12,5" and 40 as "40".
func formatReading(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}
