package tool

import (
	"flag"
	"os"

	"github.com/moyoez/progress-uploader/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	// flag.CommandLine exits on parse errors.
	cfg, _ := ParseFlags(flag.CommandLine, os.Args[1:])
	return cfg
}

// ParseFlags registers the program flags on fs and parses args. Remaining
// arguments are the files and folders to upload.
func ParseFlags(fs *flag.FlagSet, args []string) (types.Config, error) {
	var cfg types.Config
	fs.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	fs.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	fs.StringVar(&cfg.UseFormAction, "useFormAction", "", "override upload form action URL (files are posted to <action>/ajax)")
	fs.StringVar(&cfg.UseUID, "useUID", "", "override the form uid sent with every file")
	fs.IntVar(&cfg.UsePort, "usePort", 0, "override agent API port")
	fs.StringVar(&cfg.UseNotifyPath, "useNotifyPath", "", "override unix socket path for progress notifications")
	fs.BoolVar(&cfg.SkipNotify, "skipNotify", false, "do not send progress notifications to the unix socket")
	fs.BoolVar(&cfg.Serve, "serve", false, "run the local agent API instead of uploading the given files")
	fs.BoolVar(&cfg.DryRun, "dryRun", false, "list the selected files without uploading them")
	fs.BoolVar(&cfg.Probe, "probe", false, "ping the upload server host before uploading")
	fs.BoolVar(&cfg.Recursive, "recursive", false, "descend into sub folders of folder arguments")
	fs.BoolVar(&cfg.UseSniff, "useSniff", false, "detect file types from content instead of the extension")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.Paths = fs.Args()
	return cfg, nil
}
