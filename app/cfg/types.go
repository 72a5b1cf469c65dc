package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	FeedsDir          string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	ErrorBackoff      int

	// Enrichment service configuration
	OllamaURL   string
	OllamaModel string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
