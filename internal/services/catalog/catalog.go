package catalog

import (
	"errors"
)

// PageSize is how many suggestions the chat shows at once (a 2x2 grid).
const PageSize = 4

var ErrUnknownCategory = errors.New("unknown category")

type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Suggestions []string `json:"-"`
}

type SuggestionPage struct {
	CategoryID  string   `json:"category_id"`
	Page        int      `json:"page"`
	TotalPages  int      `json:"total_pages"`
	Suggestions []string `json:"suggestions"`
}

var categories = []Category{
	{
		ID:          "New Clients",
		Name:        "Новые клиенты",
		Description: "Информация для новых пользователей",
		Suggestions: []string{
			"Как открыть банковский счет?",
			"Какие документы нужны для регистрации?",
			"Как получить банковскую карту?",
			"Какие есть тарифы для новых клиентов?",
			"Как настроить мобильное приложение?",
			"Какие бонусы для новых клиентов?",
			"Как получить консультацию?",
			"Какие услуги доступны онлайн?",
		},
	},
	{
		ID:          "Technical Support",
		Name:        "Техническая поддержка",
		Description: "Решение технических вопросов",
		Suggestions: []string{
			"Не работает мобильное приложение",
			"Забыл пароль от интернет-банка",
			"Не приходят SMS-уведомления",
			"Проблемы с интернет-банкингом",
			"Как восстановить доступ к карте?",
			"Технические проблемы с терминалом",
			"Не работает онлайн-платеж",
			"Проблемы с мобильным банкингом",
		},
	},
	{
		ID:          "Products Maps",
		Name:        "Продукты - Карты",
		Description: "Банковские карты и платежи",
		Suggestions: []string{
			"Какие виды карт доступны?",
			"Как оформить кредитную карту?",
			"Какие лимиты по картам?",
			"Как заблокировать карту?",
			"Какие комиссии по картам?",
			"Как получить кэшбэк?",
			"Проблемы с картой",
			"Как заменить карту?",
		},
	},
	{
		ID:          "Products Credits",
		Name:        "Продукты - Кредиты",
		Description: "Кредитные продукты и услуги",
		Suggestions: []string{
			"Какие кредиты доступны?",
			"Как оформить потребительский кредит?",
			"Какие условия ипотеки?",
			"Как рассчитать кредит?",
			"Какие документы для кредита?",
			"Как досрочно погасить кредит?",
			"Рефинансирование кредита",
			"Кредитная история",
		},
	},
	{
		ID:          "Products Deposits",
		Name:        "Продукты - Вклады",
		Description: "Депозитные продукты и сбережения",
		Suggestions: []string{
			"Какие вклады доступны?",
			"Как открыть депозит?",
			"Какие проценты по вкладам?",
			"Как пополнить вклад?",
			"Досрочное закрытие вклада",
			"Пролонгация вклада",
			"Налогообложение вкладов",
			"Страхование вкладов",
		},
	},
	{
		ID:          "Private Clients",
		Name:        "Частные клиенты",
		Description: "Персональные банковские услуги",
		Suggestions: []string{
			"Персональный менеджер",
			"VIP-обслуживание",
			"Инвестиционные продукты",
			"Страхование жизни",
			"Пенсионные программы",
			"Налоговое планирование",
			"Консультации по финансам",
			"Эксклюзивные услуги",
		},
	},
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func Lookup(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Suggestions returns one page of suggested questions. Out of range pages are
// clamped to the first or last page.
func Suggestions(id string, page int) (SuggestionPage, error) {
	c, ok := Lookup(id)
	if !ok {
		return SuggestionPage{}, ErrUnknownCategory
	}

	total := (len(c.Suggestions) + PageSize - 1) / PageSize
	if page >= total {
		page = total - 1
	}
	if page < 0 {
		page = 0
	}

	start := page * PageSize
	end := start + PageSize
	if end > len(c.Suggestions) {
		end = len(c.Suggestions)
	}

	items := make([]string, 0, PageSize)
	if start < end {
		items = append(items, c.Suggestions[start:end]...)
	}

	return SuggestionPage{
		CategoryID:  c.ID,
		Page:        page,
		TotalPages:  total,
		Suggestions: items,
	}, nil
}
