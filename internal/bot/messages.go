package bot

const (
	WelcomeMsg = "👋 Welcome to UniCa Sport Bot!\n\n" +
		"Use /subscribe to receive notifications about new UniCa's sport events.\n" +
		"Need help? Type /help to see all available commands."
	SubMsg            = "You've been subscribed to UniCa Sport event notifications."
	UnsubMsg          = "You've been unsubscribed from notifications."
	IAmSubMsg         = "You are currently subscribed."
	IAmNotSubMsg      = "You are not subscribed."
	NoEventsMsg       = "No known events yet."
	UnknownCommandMsg = "Unknown command. Type /help to see all available commands."
)
