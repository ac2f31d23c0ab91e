package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Abel Birhanu":         "AB",
		"abel":                 "A",
		"  Selam  Tesfaye Ali": "ST",
		"Éva Ödön":             "ÉÖ",
		"":                     "",
	}
	for in, want := range tests {
		if got := Initials(in); got != want {
			t.Errorf("Initials(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDevUser(t *testing.T) {
	p, ok := ParseDevUser("Abel Birhanu|AB|/avatar.png")
	if !ok || p != (model.Profile{Name: "Abel Birhanu", Initials: "AB", Avatar: "/avatar.png"}) {
		t.Errorf("full = %+v, %v", p, ok)
	}
	p, ok = ParseDevUser("Selam Tesfaye")
	if !ok || p.Initials != "ST" || p.Avatar != "" {
		t.Errorf("name only = %+v, %v", p, ok)
	}
	if _, ok := ParseDevUser(" |AB"); ok {
		t.Error("accepted a blank name")
	}
}

func TestMiddleware(t *testing.T) {
	var signedIn []model.Profile
	var seen model.Profile
	h := Middleware(NewHeaderProvider(""), func(p model.Profile) { signedIn = append(signedIn, p) })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = FromContext(r.Context())
		}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/my-jobs", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != SignInPath {
		t.Fatalf("anonymous: %d %q", w.Code, w.Header().Get("Location"))
	}
	if len(signedIn) != 0 {
		t.Error("sign-in hook ran for an anonymous request")
	}

	r := httptest.NewRequest(http.MethodGet, "/my-jobs", nil)
	r.Header.Set(HeaderUser, "Abel Birhanu")
	r.Header.Set(HeaderAvatar, "/abel.png")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("signed in: %d", w.Code)
	}
	want := model.Profile{Name: "Abel Birhanu", Initials: "AB", Avatar: "/abel.png"}
	if seen != want || len(signedIn) != 1 || signedIn[0] != want {
		t.Errorf("seen = %+v, hook = %+v", seen, signedIn)
	}
}

func TestDevUserFallback(t *testing.T) {
	p := NewHeaderProvider("Dev User")
	got, ok := p.Identify(httptest.NewRequest(http.MethodGet, "/", nil))
	if !ok || got.Name != "Dev User" || got.Initials != "DU" {
		t.Errorf("Identify = %+v, %v", got, ok)
	}
}
