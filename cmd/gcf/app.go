package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gcf/internal/config"
	"gcf/internal/decompile"
	"gcf/internal/errors"
	"gcf/internal/finder"
	"gcf/internal/gradle"
	"gcf/internal/source"
)

// app bundles the effective configuration and the engines built from it.
type app struct {
	root     string
	cfg      *config.Config
	provider gradle.Provider
	// providerName is reported in response provenance.
	providerName string
}

// newApp loads the configuration for projectRoot. An empty root uses the
// working directory.
func newApp(projectRoot string) (*app, error) {
	if projectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.New(errors.InternalError, "cannot determine working directory", err)
		}
		projectRoot = wd
	}
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, errors.NewInvalidArgumentsError("projectRoot", err.Error())
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "loading configuration", err)
	}
	if err := applyLoggingConfig(cfg.Logging.Format, cfg.Logging.Level); err != nil {
		return nil, err
	}

	a := &app{root: root, cfg: cfg}
	a.provider, a.providerName = a.newProvider()
	logger.Debug("Configuration loaded", "root", root, "provider", a.providerName)
	return a, nil
}

// newProvider prefers --model-file, then gradle.snapshotFile, then Gradle
// itself. A relative --model-file is taken from the working directory and a
// relative gradle.snapshotFile from the configuration root, so the snapshot
// does not move with each request's project root.
func (a *app) newProvider() (gradle.Provider, string) {
	if modelFile != "" {
		path, err := filepath.Abs(modelFile)
		if err != nil {
			path = modelFile
		}
		return &gradle.FileProvider{Path: path}, "snapshot"
	}
	if snapshot := a.cfg.Gradle.SnapshotFile; snapshot != "" {
		if !filepath.IsAbs(snapshot) {
			snapshot = filepath.Join(a.root, snapshot)
		}
		return &gradle.FileProvider{Path: snapshot}, "snapshot"
	}
	return &gradle.CLIProvider{
		Command: a.cfg.Gradle.Command,
		Args:    a.cfg.Gradle.Args,
		Offline: a.cfg.Gradle.Offline,
		Timeout: a.cfg.GradleTimeout(),
		Logger:  logger,
	}, "gradle"
}

func (a *app) finder() *finder.Engine {
	return finder.New(a.provider, finder.OptionsFromConfig(a.cfg), logger)
}

func (a *app) retriever() *source.Retriever {
	return source.NewRetriever(&decompile.CLI{
		Command: a.cfg.Decompiler.Java,
		CFRJar:  a.cfg.Decompiler.CfrJar,
		Args:    a.cfg.Decompiler.Args,
		Timeout: a.cfg.DecompilerTimeout(),
		Logger:  logger,
	}, logger)
}

// newContext is cancelled on SIGINT or SIGTERM.
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
