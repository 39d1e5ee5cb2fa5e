package dashboard

// Session is the client's login state. The zero value is logged out.
type Session struct {
	Token    string
	Username string
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Logout returns the logged-out session.
func Logout(Session) Session {
	return Session{}
}
