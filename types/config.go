package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	FormAction      string `yaml:"formAction"`      // upload form action, files go to <formAction>/ajax
	UID             string `yaml:"uid"`             // session/user identifier sent as the "uid" field
	Port            int    `yaml:"port"`            // agent API port
	SniffContent    bool   `yaml:"sniffContent"`    // detect MIME type from file content instead of extension
	NotifySocket    string `yaml:"notifySocket"`    // unix socket of an external progress UI, empty for default
	NotifyWebsocket bool   `yaml:"notifyWebsocket"` // expose /api/self/v1/notify-ws
	TaskRetention   int    `yaml:"taskRetention"`   // minutes a finished task stays visible in the agent API
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log           string
	UseConfigPath string
	UseFormAction string
	UseUID        string
	UsePort       int
	UseNotifyPath string
	SkipNotify    bool
	Serve         bool // run the local agent API instead of a one-shot upload
	DryRun        bool // only print the file preview
	Probe         bool // ping the upload host before uploading
	Recursive     bool // descend into sub folders of folder arguments
	UseSniff      bool
	Paths         []string
}
