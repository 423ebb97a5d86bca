package handlers

// User-facing texts for the built-in handlers.
const (
	WelcomeText = "👋 Hello! I'm alive and ready! Send me a message and I'll reply."

	HelpText = "I'm a chat bot. Commands:\n" +
		"/start — greeting\n" +
		"/help — this message\n" +
		"/clear — forget our conversation so far\n\n" +
		"Anything else you send is answered by the model."

	ClearedText = "🧹 Conversation history cleared."

	GreetingText = "Hey! How can I help you today?"

	JokeText = "Why do programmers prefer dark mode? Because light attracts bugs."
)
