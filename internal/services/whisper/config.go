package whisper

const (
	// DefaultBinary is the faster-whisper CLI executable name.
	DefaultBinary = "faster-whisper"
	// DefaultModel balances accuracy against CPU transcription time.
	DefaultModel = "medium"
	// DefaultComputeType keeps memory pressure low on CPU-only hosts.
	DefaultComputeType = "int8"
	// BeamSize matches the engine default used for podcast speech.
	BeamSize = "5"
)
