package main

import (
	"flag"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/iov-one/testament/app"
	"github.com/iov-one/testament/store/iavl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

type startFlags struct {
	bind    string
	debug   bool
	metrics string
}

func parseFlags(args []string) (startFlags, error) {
	var f startFlags
	fl := flag.NewFlagSet("start", flag.ExitOnError)
	fl.StringVar(&f.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	fl.BoolVar(&f.debug, flagDebug, false, "call stack returned on error")
	fl.StringVar(&f.metrics, flagMetrics, "", "address the prometheus metrics are served on, disabled if empty")
	err := fl.Parse(args)
	return f, err
}

// GenerateApp builds the application storing its state under home. An
// empty home keeps the state in memory.
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	var db *iavl.CommitStore
	if home == "" {
		db = iavl.NewMemCommitStore()
	} else {
		db = iavl.NewCommitStore(filepath.Join(home, "testament.db"), "testament")
	}
	application, _ := app.New(app.Config{
		Debug:      debug,
		Logger:     logger,
		Registerer: reg,
	}, db)
	return application, nil
}

// StartCmd runs the abci server until the process is stopped.
func StartCmd(logger log.Logger, home string, args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	application, err := GenerateApp(home, logger, f.debug, reg)
	if err != nil {
		return err
	}

	if f.metrics != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(f.metrics, mux); err != nil {
				logger.Error("Metrics server stopped", "err", err)
			}
		}()
		logger.Info("Serving metrics", "bind", f.metrics)
	}

	logger.Info("Starting ABCI app", "bind", f.bind)

	svr, err := server.NewServer(f.bind, "socket", application)
	if err != nil {
		return fmt.Errorf("Error creating listener: %v\n", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return err
	}

	// Wait forever
	cmn.TrapSignal(logger, func() {
		// Cleanup
		svr.Stop()
	})
	return nil
}
