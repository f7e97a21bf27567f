package cli

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile      string
	Provider     string
	Model        string
	PromptFile   string
	StoreBackend string
	StorePath    string
	StoreDSN     string
	LogLevel     string
	LogFormat    string

	// Command flags
	NoCache     bool
	JSON        bool
	Concurrency int
	Addr        string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Provider:     "openai",
		PromptFile:   "chat_gpt_prompt.json",
		StoreBackend: "file",
		StorePath:    "translations.json",
		LogLevel:     "info",
		LogFormat:    "text",
		Concurrency:  4,
		Addr:         ":8080",
	}
}
