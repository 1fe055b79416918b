package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moyoez/progress-uploader/api"
	"github.com/moyoez/progress-uploader/api/models"
	"github.com/moyoez/progress-uploader/notify"
	"github.com/moyoez/progress-uploader/tool"
	"github.com/moyoez/progress-uploader/transfer"
	"github.com/moyoez/progress-uploader/types"
)

func main() {
	flags := tool.SetFlags()

	// initialize logger
	tool.InitLogger()
	tool.SetLogMode(flags.Log)

	appCfg, err := tool.LoadConfig(flags.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyFlags(&appCfg, flags)

	if flags.SkipNotify {
		notify.SetUseNotify(false)
	}
	notify.SetNotifyWSEnabled(appCfg.NotifyWebsocket)

	if flags.Serve {
		runAgent(appCfg)
		return
	}
	os.Exit(runUpload(flags, appCfg))
}

// newCoordinator opens an upload session against the configured form.
func newCoordinator(cfg types.AppConfig, presenter types.ProgressPresenter) (*transfer.Coordinator, error) {
	endpoint, err := tool.BuildAjaxUploadURL(cfg.FormAction)
	if err != nil {
		return nil, err
	}
	return transfer.NewCoordinator(transfer.Options{
		Endpoint:  endpoint,
		UID:       cfg.UID,
		Transport: transfer.NewHTTPTransport(tool.GetHttpClient()),
		Presenter: presenter,
	})
}

func runAgent(appCfg types.AppConfig) {
	socket := notify.NewSocketPresenter(appCfg.NotifySocket)
	defer socket.Close()

	registry := models.NewTaskRegistry(tool.TaskRetentionDuration(appCfg))
	presenters := notify.Multi{notify.NewLogPresenter(tool.DefaultLogger), registry, socket}
	if appCfg.NotifyWebsocket {
		hub := models.NewHub()
		models.SetNotifyHub(hub)
		presenters = append(presenters, hub)
	}

	// formAction may be patched in later, so a failed first session is not fatal
	err := models.SetupSession(func() (*transfer.Coordinator, error) {
		return newCoordinator(tool.GetCurrentConfig(), presenters)
	}, registry)
	if err != nil {
		tool.DefaultLogger.Warnf("[Session] No upload session yet: %v", err)
	}

	server := api.NewServer(appCfg.Port)
	go func() {
		if err := server.Start(); err != nil {
			tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	tool.DefaultLogger.Info("Shutting down agent")
	if c := models.CurrentCoordinator(); c != nil {
		c.CancelAll()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		tool.DefaultLogger.Errorf("Agent shutdown: %v", err)
	}
}

func runUpload(flags types.Config, appCfg types.AppConfig) int {
	if len(flags.Paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: progress-uploader [flags] <file-or-folder>...")
		return 2
	}
	paths, err := tool.CollectFiles(flags.Paths, flags.Recursive)
	if err != nil {
		tool.DefaultLogger.Errorf("%v", err)
		return 1
	}
	files := make([]types.FileDescriptor, 0, len(paths))
	for _, p := range paths {
		file, err := tool.DescribeFile(p, appCfg.SniffContent)
		if err != nil {
			tool.DefaultLogger.Errorf("%v", err)
			return 1
		}
		files = append(files, file)
	}

	if flags.DryRun {
		for _, file := range files {
			fmt.Println(tool.PreviewLine(file))
		}
		return 0
	}

	if flags.Probe {
		host, err := tool.UploadHost(appCfg.FormAction)
		if err != nil {
			tool.DefaultLogger.Errorf("%v", err)
			return 1
		}
		result, err := tool.ProbeHost(host)
		if err != nil || !result.Reachable {
			tool.DefaultLogger.Warnf("[Probe] %s does not answer pings, uploading anyway", host)
		}
	}

	socket := notify.NewSocketPresenter(appCfg.NotifySocket)
	coordinator, err := newCoordinator(appCfg, notify.Multi{notify.NewLogPresenter(tool.DefaultLogger), socket})
	if err != nil {
		tool.DefaultLogger.Errorf("Cannot start upload: %v", err)
		socket.Close()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if n := coordinator.CancelAll(); n > 0 {
			tool.DefaultLogger.Warnf("Interrupted, cancelled %d upload(s)", n)
		}
	}()

	batch := coordinator.Submit(ctx, files)
	events, _ := batch.Wait(context.Background())
	stop()
	socket.Close()

	summary := transfer.Summary(events)
	tool.DefaultLogger.Infof("[Upload] Batch %s: %d done, %d skipped, %d errored, %d aborted",
		batch.ID, summary[types.TaskDone], summary[types.TaskSkipped], summary[types.TaskErrored], summary[types.TaskAborted])
	if summary[types.TaskErrored] > 0 || summary[types.TaskAborted] > 0 {
		return 1
	}
	return 0
}
