package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeYAML(t, "server:\n  addr: \"\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", c.Server.Addr)
	}
	if c.Session.CookieName != "session-id" {
		t.Fatalf("cookie name = %q", c.Session.CookieName)
	}
	if got := c.SessionTTL(); got != 168*time.Hour {
		t.Fatalf("session ttl = %v", got)
	}
	if got := c.StateTTL(); got != 10*time.Minute {
		t.Fatalf("state ttl = %v", got)
	}
	if c.Cache.Kind != "memory" {
		t.Fatalf("cache kind = %q", c.Cache.Kind)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_ENABLED", "true")
	t.Setenv("GOOGLE_CLIENT_ID", "cid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "sec")
	t.Setenv("OAUTH_REDIRECT_URL_BASE", "https://app.test/api/oauth")
	t.Setenv("SESSION_TTL", "24h")

	c, err := Load(writeYAML(t, "app:\n  app_env: dev\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.OAuth.Google.Enabled || c.OAuth.Google.ClientID != "cid" {
		t.Fatalf("google override no aplicado: %+v", c.OAuth.Google)
	}
	if c.SessionTTL() != 24*time.Hour {
		t.Fatalf("session ttl = %v", c.SessionTTL())
	}
}

func TestValidateRejectsBrokenConfig(t *testing.T) {
	cases := map[string]string{
		"ttl inválido":      "session:\n  ttl: nope\n",
		"cache desconocido": "cache:\n  kind: memcached\n",
		"redis sin addr":    "cache:\n  kind: redis\n",
		"provider sin creds": "oauth:\n  redirect_url_base: https://x/api/oauth\n  github:\n    enabled: true\n",
	}
	for name, body := range cases {
		if _, err := Load(writeYAML(t, body)); err == nil {
			t.Errorf("%s: esperaba error", name)
		}
	}
}
