package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/gologme/log"
	gsyslog "github.com/hashicorp/go-syslog"
	"github.com/kardianos/minwinsvc"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HackLinux/freelan-all/src/adminsocket"
	"github.com/HackLinux/freelan-all/src/config"
	"github.com/HackLinux/freelan-all/src/port"
	"github.com/HackLinux/freelan-all/src/router"
)

func setLogLevel(loglevel string, logger *log.Logger) {
	levels := [...]string{"error", "warn", "info", "debug", "trace"}
	loglevel = strings.ToLower(loglevel)

	contains := func() bool {
		for _, l := range levels {
			if l == loglevel {
				return true
			}
		}
		return false
	}

	if !contains() {
		logger.Infoln("Loglevel parse failed. Set default level(info)")
		loglevel = "info"
	}

	for _, l := range levels {
		logger.EnableLevel(l)
		if l == loglevel {
			break
		}
	}
}

type nodeArgs struct {
	genconf     bool
	useconf     bool
	useconffile string
	autoconf    bool
	confjson    bool
	logto       string
	loglevel    string
}

func getArgs() nodeArgs {
	genconf := flag.Bool("genconf", false, "print a new config to stdout")
	useconf := flag.Bool("useconf", false, "read HJSON/JSON config from stdin")
	useconffile := flag.String("useconffile", "", "read HJSON/JSON config from the specified file path, and watch it for changes")
	autoconf := flag.Bool("autoconf", false, "run with an empty, auto-generated configuration and no static ports")
	confjson := flag.Bool("json", false, "print configuration from -genconf as JSON instead of HJSON")
	logto := flag.String("logto", "stdout", "file path to log to, \"syslog\" or \"stdout\"")
	loglevel := flag.String("loglevel", "info", "loglevel to enable")

	flag.Parse()
	return nodeArgs{
		genconf:     *genconf,
		useconf:     *useconf,
		useconffile: *useconffile,
		autoconf:    *autoconf,
		confjson:    *confjson,
		logto:       *logto,
		loglevel:    *loglevel,
	}
}

func buildLogger(logto string) *log.Logger {
	var logger *log.Logger
	switch logto {
	case "stdout":
		logger = log.New(os.Stdout, "", log.Flags())
	case "syslog":
		if syslogger, err := gsyslog.NewLogger(gsyslog.LOG_NOTICE, "DAEMON", "freelan-all"); err == nil {
			logger = log.New(syslogger, "", log.Flags())
		}
	default:
		if logfd, err := os.OpenFile(logto, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			logger = log.New(logfd, "", log.Flags())
		}
	}
	if logger == nil {
		logger = log.New(os.Stdout, "", log.Flags())
		logger.Warnln("Logging defaulting to stdout")
	}
	return logger
}

func run(args nodeArgs, ctx context.Context) {
	logger := buildLogger(args.logto)
	setLogLevel(args.loglevel, logger)

	if args.genconf {
		cfg := config.GenerateConfig()
		bs, err := config.Marshal(cfg, args.confjson)
		if err != nil {
			panic(err)
		}
		fmt.Println(string(bs))
		return
	}

	var cfg *config.NodeConfig
	var err error
	switch {
	case args.autoconf:
		cfg = config.GenerateConfig()
	case args.useconffile != "" || args.useconf:
		cfg, err = config.ReadConfig(args.useconffile)
		if err != nil {
			panic("Configuration file load error: " + err.Error())
		}
	default:
		fmt.Println("Usage:")
		flag.PrintDefaults()
		return
	}

	metrics := router.NewMetrics(nil)
	r := router.New(
		router.WithLogger(logger),
		router.WithMetrics(metrics),
		router.WithConfiguration(cfg.RouterConfig()),
	)

	state := &config.NodeState{}
	state.Replace(*cfg)

	ports, err := cfg.BuildPorts(func(name string) func([]byte, port.WriteHandler) {
		return func(data []byte, handler port.WriteHandler) {
			logger.Debugf("freelan-all: port %s would transmit %d bytes (no transport wired)", name, len(data))
			handler(nil)
		}
	})
	if err != nil {
		panic(err)
	}
	for name, p := range ports {
		idx := r.RegisterPort(nil, p)
		logger.Infof("freelan-all: registered port %q as index %d", name, idx)
	}

	admin := adminsocket.New(r, logger, cfg.AdminListen)
	if err := admin.Start(); err != nil {
		logger.Errorln("freelan-all: admin socket failed to start:", err)
	}
	defer admin.Stop()

	if cfg.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsListen, mux); err != nil {
				logger.Errorln("freelan-all: metrics listener stopped:", err)
			}
		}()
		logger.Infof("freelan-all: metrics listening on %s", cfg.MetricsListen)
	}

	stopWatch := make(chan struct{})
	if args.useconffile != "" {
		go func() {
			if err := config.Watch(args.useconffile, r, state, logger, stopWatch); err != nil {
				logger.Errorln("freelan-all: config watch stopped:", err)
			}
		}()
	}

	logger.Infoln("freelan-all: node started with", len(ports), "configured ports")

	<-ctx.Done()

	close(stopWatch)
	logger.Infoln("freelan-all: shutting down")
}

func main() {
	args := getArgs()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	minwinsvc.SetOnExit(cancel)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		run(args, ctx)
	}()
	wg.Wait()
}
