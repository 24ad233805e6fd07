package config

const (
	defaultDataDir             = "~/swr-data"
	defaultLogDir              = "~/.local/share/swr/logs"
	defaultWhisperBinary       = "faster-whisper"
	defaultWhisperModel        = "medium"
	defaultWhisperLanguage     = "zh"
	defaultWhisperComputeType  = "int8"
	defaultNotebookLMBinary    = "nlm"
	defaultNotebookPrefix      = "股市週報"
	defaultReportLanguage      = "zh-TW"
	defaultSMTPHost            = "smtp.gmail.com"
	defaultSMTPPort            = 587
	defaultRetentionAudio      = 3
	defaultRetentionTranscript = 0
	defaultRetentionReports    = 0
	defaultLookbackDays        = 7
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Whisper: Whisper{
			Binary:      defaultWhisperBinary,
			Model:       defaultWhisperModel,
			Language:    defaultWhisperLanguage,
			ComputeType: defaultWhisperComputeType,
		},
		NotebookLM: NotebookLM{
			Binary:         defaultNotebookLMBinary,
			NotebookPrefix: defaultNotebookPrefix,
			ReportLanguage: defaultReportLanguage,
		},
		Email: Email{
			SMTPHost: defaultSMTPHost,
			SMTPPort: defaultSMTPPort,
		},
		Retention: Retention{
			AudioMonths:       defaultRetentionAudio,
			TranscriptsMonths: defaultRetentionTranscript,
			ReportsMonths:     defaultRetentionReports,
		},
		Pipeline: Pipeline{
			LookbackDays: defaultLookbackDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
