package config

import "testing"

func TestGetStringFallback(t *testing.T) {
	if got := GetString("CONFIG_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("CONFIG_TEST_SET", "value")
	if got := GetString("CONFIG_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestGetIntFallbackOnGarbage(t *testing.T) {
	t.Setenv("CONFIG_TEST_INT", "not-a-number")
	if got := GetInt("CONFIG_TEST_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	t.Setenv("CONFIG_TEST_INT", "42")
	if got := GetInt("CONFIG_TEST_INT", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("CONFIG_TEST_BOOL", "true")
	if !GetBool("CONFIG_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("CONFIG_TEST_BOOL", "maybe")
	if GetBool("CONFIG_TEST_BOOL", false) {
		t.Fatal("expected fallback false for garbage input")
	}
}

func TestLoadConfigsUseDefaultPorts(t *testing.T) {
	users := LoadUsersConfig()
	if users.Addr != ":4001" {
		t.Fatalf("unexpected users addr %q", users.Addr)
	}
	if users.ServiceName != "users-api" {
		t.Fatalf("unexpected users service name %q", users.ServiceName)
	}

	products := LoadProductsConfig()
	if products.Addr != ":4002" {
		t.Fatalf("unexpected products addr %q", products.Addr)
	}
	if products.UsersAPIURL == "" {
		t.Fatal("products config must carry a users api url")
	}
}
