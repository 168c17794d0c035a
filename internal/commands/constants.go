package commands

import "strings"

// Command identifies a single user action. Free text and keyboard payloads
// both normalize into this type before dispatch.
type Command string

const (
	Unknown         Command = ""
	Start           Command = "start"
	Help            Command = "help"
	SetSearchParams Command = "set_search_params"
	FindPerson      Command = "find_person"
	AddFavorite     Command = "add_favorite"
	RemoveFavorite  Command = "remove_favorite"
	AddBlacklist    Command = "add_blacklist"
	ListFavorites   Command = "list_favorites"
	NextPerson      Command = "next_person"
	Back            Command = "back"
	Cancel          Command = "cancel"
	SelectCity      Command = "select_city"
	LikePhoto       Command = "like_photo"
)

// Keyboard button labels
const (
	BtnFind      = "Найти человека"
	BtnNext      = "Следующий"
	BtnBack      = "Назад"
	BtnFavorite  = "Добавить в избранное"
	BtnBlacklist = "Добавить в чёрный список"
	BtnFavorites = "Список избранных"
	BtnHelp      = "Помощь"
	BtnCancel    = "Отмена"
)

// textCommands maps normalized message text to commands.
var textCommands = map[string]Command{
	"привет":                   Start,
	"начать":                   Start,
	"/start":                   Start,
	"помощь":                   Help,
	"найти человека":           FindPerson,
	"параметры поиска":         SetSearchParams,
	"следующий":                NextPerson,
	"назад":                    Back,
	"добавить в избранное":     AddFavorite,
	"убрать из избранного":     RemoveFavorite,
	"добавить в чёрный список": AddBlacklist,
	"список избранных":         ListFavorites,
	"отмена":                   Cancel,
}

// FromText maps free message text to a command. Unrecognized text yields
// Unknown so the caller can feed it into an active wizard step instead.
func FromText(text string) Command {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if cmd, ok := textCommands[normalized]; ok {
		return cmd
	}
	return Unknown
}
