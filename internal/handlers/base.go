package handlers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"vk-match-bot/internal/commands"
	"vk-match-bot/internal/models"
	"vk-match-bot/pkg/vkclient"
)

// Sender delivers outbound messages to a user
type Sender interface {
	SendMessage(ctx context.Context, userID int64, text string, keyboard *vkclient.Keyboard, attachment string) error
}

// Directory is the VK surface the dialog needs beyond the paged search
type Directory interface {
	GetProfile(ctx context.Context, vkID int64) (models.Candidate, error)
	GetPhotos(ctx context.Context, vkID int64) ([]models.PhotoRef, error)
	LikePhoto(ctx context.Context, ownerID, photoID int64) (bool, error)
	GetCities(ctx context.Context, query string) ([]models.City, error)
}

// Searcher runs a complete rate-limited candidate search
type Searcher interface {
	Search(ctx context.Context, params models.SearchParams, desired int) ([]models.Candidate, error)
}

// CandidateStore is the persistence surface the dialog needs
type CandidateStore interface {
	UserExists(ctx context.Context, vkID int64) (bool, error)
	CandidateExists(ctx context.Context, vkID int64) (bool, error)
	EnsureUser(ctx context.Context, c models.Candidate) error
	EnsureCandidate(ctx context.Context, c models.Candidate) error
	IsFavorite(ctx context.Context, userID, candidateID int64) (bool, error)
	IsBlocked(ctx context.Context, userID, candidateID int64) (bool, error)
	AddFavorite(ctx context.Context, userID, candidateID int64) error
	RemoveFavorite(ctx context.Context, userID, candidateID int64) error
	AddToBlackList(ctx context.Context, userID, candidateID int64) error
	ListFavorites(ctx context.Context, userID int64) ([]models.FavoriteEntry, error)
	ListBlocked(ctx context.Context, userID int64) (map[int64]bool, error)
}

// User-visible message texts
const (
	msgGreeting = "Привет! Я бот для знакомств. 🚀\nНажми «Найти человека», чтобы начать."
	msgHelp = "Доступные команды:\n" +
		"1. Найти человека — поиск новых людей\n" +
		"2. Следующий — следующий человек\n" +
		"3. Назад — предыдущий человек\n" +
		"4. Добавить в избранное — сохранить человека\n" +
		"5. Убрать из избранного — удалить человека из избранных\n" +
		"6. Добавить в чёрный список — больше не показывать\n" +
		"7. Список избранных — посмотреть избранных\n" +
		"Используйте кнопки ниже!"
	msgUnknown      = "Я не понимаю команду. Используйте кнопки или напишите «помощь»!"
	msgGenericError = "Произошла ошибка, попробуйте позже."
	msgSearchFirst  = "Сначала выполните поиск — нажмите «Найти человека»."
	msgCancelled    = "Действие отменено."

	msgAskAgeFrom = "Введите минимальный возраст (от 18 до 100):"
	msgBadAgeFrom = "Нужно целое число от 18 до 100. Введите минимальный возраст ещё раз:"
	msgAskAgeTo   = "Введите максимальный возраст (от %d до 100):"
	msgBadAgeTo   = "Нужно целое число от %d (минимальный возраст) до 100. Введите максимальный возраст ещё раз:"
	msgAskSex     = "Кого ищем? Введите 1 — женский пол, 2 — мужской:"
	msgBadSex     = "Нужно ввести 1 (женский) или 2 (мужской):"
	msgAskCity    = "В каком городе искать? Введите название:"
	msgNoCity     = "Город не найден. Введите название ещё раз:"
	msgChooseCity = "Нашлось несколько городов, выберите нужный:"
	msgStaleCity  = "Этот выбор уже неактуален."

	msgNoResults       = "Никого не нашли по этим параметрам. Попробуйте изменить их."
	msgAlreadyFavorite = "Этот человек уже в избранном."
	msgFavoriteAdded   = "✅ Человек добавлен в избранное!"
	msgNotFavorite     = "Этого человека нет в избранном."
	msgFavoriteRemoved = "Человек удалён из избранного."
	msgAlreadyBlocked  = "Этот человек уже в чёрном списке."
	msgBlockAdded      = "🚫 Человек добавлен в чёрный список и больше не появится в поиске."
	msgNoFavorites     = "У вас пока нет избранных."
	msgLikeDone        = "❤ Лайк поставлен!"
	msgLikeFailed      = "Не получилось поставить лайк."
	msgLikeWrongPhoto  = "Эта кнопка относится к другому человеку. Лайкните фото из текущей анкеты."
)

// BaseHandler provides message sending and keyboard building shared by the
// dialog handlers
type BaseHandler struct {
	sender Sender
	logger *logrus.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(sender Sender, logger *logrus.Logger) BaseHandler {
	return BaseHandler{sender: sender, logger: logger}
}

// sendText sends a plain message with the main keyboard attached
func (h *BaseHandler) sendText(ctx context.Context, userID int64, text string) error {
	return h.send(ctx, userID, text, h.mainKeyboard(), "")
}

// send sends a message with explicit markup and attachment
func (h *BaseHandler) send(ctx context.Context, userID int64, text string, keyboard *vkclient.Keyboard, attachment string) error {
	err := h.sender.SendMessage(ctx, userID, text, keyboard, attachment)
	if err != nil {
		h.logger.Errorf("Failed to send message to %d: %v", userID, err)
	}
	return err
}

// mainKeyboard builds the persistent command keyboard
func (h *BaseHandler) mainKeyboard() *vkclient.Keyboard {
	kb := vkclient.NewKeyboard(false)
	kb.AddRow(
		vkclient.TextButton(commands.BtnFind, vkclient.ColorPositive, payloadFor(commands.FindPerson)),
		vkclient.TextButton(commands.BtnNext, vkclient.ColorPrimary, payloadFor(commands.NextPerson)),
	)
	kb.AddRow(
		vkclient.TextButton(commands.BtnFavorite, vkclient.ColorSecondary, payloadFor(commands.AddFavorite)),
		vkclient.TextButton(commands.BtnBlacklist, vkclient.ColorNegative, payloadFor(commands.AddBlacklist)),
	)
	kb.AddRow(
		vkclient.TextButton(commands.BtnFavorites, vkclient.ColorSecondary, payloadFor(commands.ListFavorites)),
		vkclient.TextButton(commands.BtnHelp, vkclient.ColorSecondary, payloadFor(commands.Help)),
	)
	return kb
}

// cancelKeyboard builds the keyboard shown during wizard steps
func (h *BaseHandler) cancelKeyboard() *vkclient.Keyboard {
	kb := vkclient.NewKeyboard(false)
	kb.AddRow(vkclient.TextButton(commands.BtnCancel, vkclient.ColorNegative, payloadFor(commands.Cancel)))
	return kb
}

// cityKeyboard builds the one-time city disambiguation keyboard
func (h *BaseHandler) cityKeyboard(cities []models.City) *vkclient.Keyboard {
	kb := vkclient.NewKeyboard(true)
	for _, city := range cities {
		kb.AddRow(vkclient.TextButton(city.Title, vkclient.ColorPrimary, map[string]interface{}{
			"command": string(commands.SelectCity),
			"city_id": city.ID,
		}))
	}
	kb.AddRow(vkclient.TextButton(commands.BtnCancel, vkclient.ColorNegative, payloadFor(commands.Cancel)))
	return kb
}

// browseKeyboard builds the keyboard shown with a candidate's profile:
// like buttons bound to the shown photos on top of the main commands
func (h *BaseHandler) browseKeyboard(c models.Candidate, photos []models.PhotoRef) *vkclient.Keyboard {
	kb := h.mainKeyboard()
	if len(photos) == 0 {
		return kb
	}

	likes := make([]vkclient.Button, 0, len(photos))
	for i, photo := range photos {
		likes = append(likes, vkclient.TextButton(
			fmt.Sprintf("❤ Фото %d", i+1),
			vkclient.ColorPositive,
			map[string]interface{}{
				"command":  string(commands.LikePhoto),
				"owner_id": photo.OwnerID,
				"photo_id": photo.ID,
			},
		))
	}

	kb.Buttons = append([][]vkclient.Button{likes}, kb.Buttons...)
	return kb
}

// payloadFor builds the minimal structured payload for a command button
func payloadFor(cmd commands.Command) map[string]interface{} {
	return map[string]interface{}{"command": string(cmd)}
}
