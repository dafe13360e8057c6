// Package main is busmon, a diagnostic harness for the event core. It
// wires a few representative subscribers and a request handler, drives
// both publish paths, and prints a JSON snapshot of the bus on demand or
// on shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mj-kang-iotiz/eventmgr/internal/config"
	"github.com/mj-kang-iotiz/eventmgr/internal/event"
	"github.com/mj-kang-iotiz/eventmgr/internal/event/request"
	"github.com/mj-kang-iotiz/eventmgr/internal/event/topic"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		interval   time.Duration
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "busmon.json", "path to configuration file")
	flag.DurationVar(&interval, "interval", time.Second, "simulated publish interval")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()

	log, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error("config load failed", zap.String("path", configPath), zap.Error(err))
		return 1
	}

	mgr := event.NewManager(
		event.WithQueueDepth(cfg.EventQueueDepth),
		event.WithTopicCapacity(cfg.TopicCapacity),
		event.WithLockTimeout(cfg.LockTimeout),
		event.WithLogger(log),
	)
	if err := mgr.Start(); err != nil {
		log.Error("event manager start failed", zap.Error(err))
		return 1
	}

	brk := request.NewBroker(
		request.WithQueueDepth(cfg.RequestQueueDepth),
		request.WithDefaultTimeout(cfg.RequestTimeout),
		request.WithLockTimeout(cfg.LockTimeout),
		request.WithLogger(log),
	)
	if err := brk.Start(); err != nil {
		log.Error("request broker start failed", zap.Error(err))
		return 1
	}

	if err := wireSubscribers(mgr, log); err != nil {
		log.Error("subscriber wiring failed", zap.Error(err))
		return 1
	}
	if err := wireHandlers(brk, log); err != nil {
		log.Error("request handler wiring failed", zap.Error(err))
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("busmon running",
		zap.Int("event_queue_depth", cfg.EventQueueDepth),
		zap.Int("request_queue_depth", cfg.RequestQueueDepth),
		zap.Duration("interval", interval))

	seq := 0
	for {
		select {
		case <-ticker.C:
			tick(mgr, brk, log, seq)
			seq++
		case sig := <-signals:
			log.Info("shutting down", zap.String("signal", sig.String()))
			dump(mgr, log)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := brk.Stop(ctx); err != nil {
				log.Warn("broker stop", zap.Error(err))
			}
			if err := mgr.Stop(ctx); err != nil {
				log.Warn("manager stop", zap.Error(err))
				return 1
			}
			return 0
		}
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// wireSubscribers registers the simulated consumers. The position logger
// runs after the fix monitor on the same topic; priorities keep that
// order regardless of registration order.
func wireSubscribers(mgr *event.Manager, log *zap.Logger) error {
	var posLogger, fixMonitor, errMonitor event.Subscriber

	err := mgr.Subscribe(&posLogger, topic.GPSPositionUpdated, event.HandlerFunc(
		func(ctx context.Context, ev event.Event) error {
			log.Debug("position update",
				zap.String("sender", ev.Sender), zap.Int("len", len(ev.Data)))
			return nil
		}), 10, "pos-logger")
	if err != nil {
		return err
	}

	err = mgr.Subscribe(&fixMonitor, topic.GPSPositionUpdated, event.HandlerFunc(
		func(ctx context.Context, ev event.Event) error {
			log.Debug("fix monitor", zap.String("sender", ev.Sender))
			return nil
		}), 0, "fix-monitor")
	if err != nil {
		return err
	}

	return mgr.Subscribe(&errMonitor, topic.SystemError, event.HandlerFunc(
		func(ctx context.Context, ev event.Event) error {
			log.Warn("system error event", zap.ByteString("detail", ev.Data))
			return nil
		}), 0, "err-monitor")
}

// wireHandlers registers the request-side simulated services.
func wireHandlers(brk *request.Broker, log *zap.Logger) error {
	return brk.RegisterHandler(topic.BLECmdReceived, request.HandlerFunc(
		func(ctx context.Context, req *request.Request) error {
			log.Debug("ble command", zap.Uint64("id", req.ID()), zap.ByteString("cmd", req.Data()))
			req.SendResponse([]byte("OK"))
			return nil
		}))
}

// tick drives one round of simulated traffic through both publish paths
// and the request layer.
func tick(mgr *event.Manager, brk *request.Broker, log *zap.Logger, seq int) {
	ctx := context.Background()

	payload := []byte(fmt.Sprintf("fix:%d", seq))
	n := mgr.Publish(ctx, topic.GPSPositionUpdated, payload, "gnss-sim")
	if n == 0 {
		log.Warn("sync publish delivered nothing")
	}

	if err := mgr.PublishFromISR(topic.GPSPositionUpdated, payload, "uart-isr"); err != nil {
		log.Warn("async publish failed", zap.Error(err))
	}

	resp := make([]byte, 8)
	rn, err := brk.Send(ctx, topic.BLECmdReceived, []byte("status"), resp, 0)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
	} else {
		log.Debug("request ok", zap.ByteString("resp", resp[:rn]))
	}

	// Every tenth tick, exercise the error topic and print a snapshot.
	if seq%10 == 9 {
		mgr.Publish(ctx, topic.SystemError, []byte("simulated fault"), "busmon")
		dump(mgr, log)
	}
}

func dump(mgr *event.Manager, log *zap.Logger) {
	snapshot, err := mgr.DumpJSON()
	if err != nil {
		log.Warn("snapshot failed", zap.Error(err))
		return
	}
	fmt.Println(snapshot)
}
