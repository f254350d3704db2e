// Package admin defines the typed read models and table layouts served to the admin UI.
package admin

type Column struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Searchable bool   `json:"searchable,omitempty"`
	Wrap       bool   `json:"wrap,omitempty"` // pre-wrap long text
	Link       bool   `json:"link,omitempty"` // value is a URL
}

type TableConfig struct {
	Name        string   `json:"name"`
	Plural      string   `json:"plural"`
	Icon        string   `json:"icon"`
	Endpoint    string   `json:"endpoint"`
	Columns     []Column `json:"columns"`
	FormFields  []string `json:"form_fields,omitempty"`
	DefaultSort string   `json:"default_sort,omitempty"`
	SortDesc    bool     `json:"sort_desc,omitempty"`
	CanCreate   bool     `json:"can_create"`
	CanEdit     bool     `json:"can_edit"`
	CanDelete   bool     `json:"can_delete"`
}

var Tables = []TableConfig{
	{
		Name:     "Пользователь",
		Plural:   "Пользователи",
		Icon:     "fa-solid fa-user",
		Endpoint: "/admin/users",
		Columns: []Column{
			{Key: "tg_id", Label: "Telegram ID"},
			{Key: "username", Label: "Имя"},
			{Key: "created_at", Label: "Создан"},
			{Key: "history_link", Label: "История сообщений", Link: true},
		},
	},
	{
		Name:     "Сообщение",
		Plural:   "История переписки",
		Icon:     "fa-solid fa-comments",
		Endpoint: "/admin/messages",
		Columns: []Column{
			{Key: "id", Label: "ID"},
			{Key: "user_id", Label: "Пользователь", Searchable: true},
			{Key: "created_at", Label: "Время"},
			{Key: "assistant_slug", Label: "Ассистент", Searchable: true},
			{Key: "role", Label: "Роль"},
			{Key: "content", Label: "Текст", Searchable: true, Wrap: true},
			{Key: "image_url", Label: "Фото", Link: true},
		},
		DefaultSort: "id",
		SortDesc:    true,
		CanDelete:   true,
	},
	{
		Name:     "Ассистент",
		Plural:   "Ассистенты",
		Icon:     "fa-solid fa-robot",
		Endpoint: "/admin/assistants",
		Columns: []Column{
			{Key: "slug", Label: "Slug"},
			{Key: "name", Label: "Название"},
		},
		FormFields: []string{"slug", "name", "description", "icon_emoji", "welcome_message", "openrouter_preset"},
		CanCreate:  true,
		CanEdit:    true,
	},
	{
		Name:     "Товар",
		Plural:   "Товары",
		Icon:     "fa-solid fa-bag-shopping",
		Endpoint: "/admin/products",
		Columns: []Column{
			{Key: "name", Label: "Название"},
			{Key: "keywords", Label: "Ключевые слова"},
			{Key: "target_assistants", Label: "Ассистенты"},
			{Key: "impressions", Label: "Показы"},
			{Key: "clicks", Label: "Клики"},
			{Key: "ctr", Label: "CTR (%)"},
		},
		FormFields: []string{"name", "keywords", "ad_text", "link", "is_active", "target_assistants"},
		CanCreate:  true,
		CanEdit:    true,
	},
}
