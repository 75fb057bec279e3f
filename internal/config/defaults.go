package config

const (
	defaultInboxDir = "~/.local/share/docverify/inbox"
	defaultWorkDir  = "~/.local/share/docverify/work"
	defaultDataDir  = "~/.local/share/docverify/data"
	defaultLogDir   = "~/.local/share/docverify/logs"

	defaultHomeCountryCode          = "+91"
	defaultMinPhoneDigits           = 10
	defaultFuzzyMatchThreshold      = 0.85
	defaultAddressConfidencePenalty = 0.9
	defaultMinWorkingAge            = 18

	defaultTesseractBinary  = "tesseract"
	defaultTesseractTimeout = 60
	defaultLLMBaseURL       = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel         = "google/gemini-3-flash-preview"
	defaultLLMTimeout       = 60

	defaultQueuePollInterval   = 5
	defaultPersonWorkers       = 4
	defaultDocumentConcurrency = 3

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InboxDir: defaultInboxDir,
			WorkDir:  defaultWorkDir,
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
		},
		Normalize: Normalize{
			HomeCountryCode:          defaultHomeCountryCode,
			MinPhoneDigits:           defaultMinPhoneDigits,
			FuzzyMatchThreshold:      defaultFuzzyMatchThreshold,
			AddressConfidencePenalty: defaultAddressConfidencePenalty,
			MinWorkingAge:            defaultMinWorkingAge,
		},
		Extraction: Extraction{
			Providers: []string{"textfile", "tesseract"},
			Tesseract: Tesseract{
				Binary:         defaultTesseractBinary,
				TimeoutSeconds: defaultTesseractTimeout,
			},
			LLM: LLM{
				BaseURL:        defaultLLMBaseURL,
				Model:          defaultLLMModel,
				TimeoutSeconds: defaultLLMTimeout,
			},
		},
		Workflow: Workflow{
			QueuePollInterval:   defaultQueuePollInterval,
			PersonWorkers:       defaultPersonWorkers,
			DocumentConcurrency: defaultDocumentConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
