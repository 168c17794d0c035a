package commands

import "testing"

func TestFromText(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"Привет", Start},
		{"начать", Start},
		{"/start", Start},
		{"ПОМОЩЬ", Help},
		{"Найти человека", FindPerson},
		{"Параметры поиска", SetSearchParams},
		{"Следующий", NextPerson},
		{"Назад", Back},
		{"Добавить в избранное", AddFavorite},
		{"Убрать из избранного", RemoveFavorite},
		{"Добавить в чёрный список", AddBlacklist},
		{"Список избранных", ListFavorites},
		{"  Отмена  ", Cancel},
		{"25", Unknown},
		{"что-то другое", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := FromText(tt.input); got != tt.want {
			t.Fatalf("FromText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestButtonLabelsMapToCommands(t *testing.T) {
	labels := map[string]Command{
		BtnFind:      FindPerson,
		BtnNext:      NextPerson,
		BtnBack:      Back,
		BtnFavorite:  AddFavorite,
		BtnBlacklist: AddBlacklist,
		BtnFavorites: ListFavorites,
		BtnHelp:      Help,
		BtnCancel:    Cancel,
	}
	for label, want := range labels {
		if got := FromText(label); got != want {
			t.Fatalf("button %q maps to %q, want %q", label, got, want)
		}
	}
}
