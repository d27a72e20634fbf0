package blueprint

// RantifyLoggerOptions carries request scoped values attached to sentry events.
type RantifyLoggerOptions struct {
	RequestID string
	SessionID string
	Component string
	Error     error
	AddTrace  bool
}

// Keys used for values stored in fiber locals.
const (
	LocalSessionID = "sessionID"
	LocalRequestID = "requestID"
	LocalAuthToken = "authToken"
)

const SessionCookieName = "rantify_session"
