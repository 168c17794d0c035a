package services

import (
	"strings"
	"testing"

	"vk-match-bot/internal/config"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "full redirect url",
			url:  "https://oauth.vk.com/blank.html#access_token=abc123&expires_in=86400&user_id=42",
			want: "abc123",
		},
		{
			name: "token is the last parameter",
			url:  "https://oauth.vk.com/blank.html#access_token=abc123",
			want: "abc123",
		},
		{
			name: "no fragment",
			url:  "https://oauth.vk.com/blank.html",
			want: "",
		},
		{
			name: "empty input",
			url:  "",
			want: "",
		},
		{
			name: "empty token",
			url:  "https://oauth.vk.com/blank.html#access_token=&user_id=42",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractToken(tt.url); got != tt.want {
				t.Fatalf("ExtractToken(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestAuthURL(t *testing.T) {
	b := NewBootstrap(config.VKConfig{ClientID: "12345", APIVersion: "5.199"}, NewQRService(testLogger()), testLogger())

	url := b.AuthURL()
	for _, part := range []string{
		"client_id=12345",
		"response_type=token",
		"redirect_uri=" + oauthRedirectURI,
		"scope=" + oauthScope,
		"v=5.199",
	} {
		if !strings.Contains(url, part) {
			t.Fatalf("auth URL missing %q: %s", part, url)
		}
	}
}

func TestEnsureTokenPrefersConfigured(t *testing.T) {
	b := NewBootstrap(config.VKConfig{UserToken: "configured"}, NewQRService(testLogger()), testLogger())

	token, err := b.EnsureToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "configured" {
		t.Fatalf("expected configured token, got %q", token)
	}
}

func TestEnsureTokenRequiresClientID(t *testing.T) {
	b := NewBootstrap(config.VKConfig{}, NewQRService(testLogger()), testLogger())

	if _, err := b.EnsureToken(); err == nil {
		t.Fatalf("expected an error without token and client id")
	}
}
