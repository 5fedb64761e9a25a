package auth

import "context"

// Session is the authenticated caller. The authentication middleware is its
// only writer; services take it as an explicit argument.
type Session struct {
	UserID string
	Role   Role
}

func (s Session) Valid() bool { return s.UserID != "" && s.Role.Valid() }

func (s Session) Can(c Capability) bool { return s.Valid() && s.Role.Can(c) }

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by WithSession, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s.Valid()
}
