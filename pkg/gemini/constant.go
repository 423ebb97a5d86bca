package gemini

const (
	// DefaultBaseURL is the default Gemini Generative Language API endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the default model to use
	DefaultModel = "gemini-1.5-flash"
)
