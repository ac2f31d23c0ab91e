// Package auth resolves the signed-in user. Sign-in itself happens upstream,
// in an authenticating proxy; this package only reads its result.
package auth

import (
	"context"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bryan-buckman/jobdesk/internal/model"
)

// Headers set by the authenticating proxy.
const (
	HeaderUser     = "X-Forwarded-User"
	HeaderInitials = "X-Forwarded-Initials"
	HeaderAvatar   = "X-Forwarded-Avatar"
)

// SignInPath is where unauthenticated requests are sent.
const SignInPath = "/sign-in"

// Provider reports who made a request.
type Provider interface {
	Identify(r *http.Request) (model.Profile, bool)
}

// HeaderProvider trusts the proxy headers and falls back to a fixed
// development identity when one is configured.
type HeaderProvider struct {
	dev *model.Profile
}

// NewHeaderProvider builds a provider. devUser has the form
// "Name|Initials|Avatar"; an empty string disables the fallback.
func NewHeaderProvider(devUser string) *HeaderProvider {
	p := &HeaderProvider{}
	if prof, ok := ParseDevUser(devUser); ok {
		p.dev = &prof
	}
	return p
}

// Identify implements Provider.
func (p *HeaderProvider) Identify(r *http.Request) (model.Profile, bool) {
	name := strings.TrimSpace(r.Header.Get(HeaderUser))
	if name == "" {
		if p.dev != nil {
			return *p.dev, true
		}
		return model.Profile{}, false
	}
	prof := model.Profile{
		Name:     name,
		Initials: strings.TrimSpace(r.Header.Get(HeaderInitials)),
		Avatar:   strings.TrimSpace(r.Header.Get(HeaderAvatar)),
	}
	if prof.Initials == "" {
		prof.Initials = Initials(name)
	}
	return prof, true
}

// ParseDevUser parses "Name|Initials|Avatar". Initials and avatar are
// optional.
func ParseDevUser(s string) (model.Profile, bool) {
	parts := strings.SplitN(s, "|", 3)
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return model.Profile{}, false
	}
	prof := model.Profile{Name: name}
	if len(parts) > 1 {
		prof.Initials = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		prof.Avatar = strings.TrimSpace(parts[2])
	}
	if prof.Initials == "" {
		prof.Initials = Initials(name)
	}
	return prof, true
}

// Initials takes the first letter of up to two words of name.
func Initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

type ctxKey struct{}

// FromContext returns the identity stored by Middleware.
func FromContext(ctx context.Context) (model.Profile, bool) {
	p, ok := ctx.Value(ctxKey{}).(model.Profile)
	return p, ok
}

// Middleware redirects anonymous requests to SignInPath and stores the
// identity of the others in the request context. onSignIn, when set, runs
// for every identified request.
func Middleware(p Provider, onSignIn func(model.Profile)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prof, ok := p.Identify(r)
			if !ok {
				http.Redirect(w, r, SignInPath, http.StatusFound)
				return
			}
			if onSignIn != nil {
				onSignIn(prof)
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, prof)))
		})
	}
}
