package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCookieConfig(t *testing.T) {
	t.Parallel()

	cfg := CookieConfig{Name: "wellpath_session", TTL: time.Hour, Secure: true}

	rec := httptest.NewRecorder()
	cfg.Set(rec, "01HSESSION")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies", len(cookies))
	}
	c := cookies[0]
	if c.Value != "01HSESSION" || !c.HttpOnly || !c.Secure || c.MaxAge != 3600 || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("unexpected cookie: %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cfg.Read(req) != "" {
		t.Error("request without cookie should read empty")
	}
	req.AddCookie(c)
	if cfg.Read(req) != "01HSESSION" {
		t.Errorf("Read = %q", cfg.Read(req))
	}

	rec = httptest.NewRecorder()
	cfg.Expire(rec)
	if c := rec.Result().Cookies()[0]; c.MaxAge >= 0 || c.Value != "" {
		t.Errorf("expired cookie: %+v", c)
	}
}
