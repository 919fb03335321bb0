// Command rnode shows live readings from an r-node temperature sensor and
// mirrors them to MQTT, a status web page and an optional terminal chart.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/partheniadis/r-node-nRF/internal/display"
	"github.com/partheniadis/r-node-nRF/internal/gpio"
	"github.com/partheniadis/r-node-nRF/internal/lifecycle"
	"github.com/partheniadis/r-node-nRF/internal/loop"
	"github.com/partheniadis/r-node-nRF/internal/mqtt"
	"github.com/partheniadis/r-node-nRF/internal/refresh"
	"github.com/partheniadis/r-node-nRF/internal/samples"
	"github.com/partheniadis/r-node-nRF/internal/source"
	"github.com/partheniadis/r-node-nRF/internal/status"
	"github.com/partheniadis/r-node-nRF/internal/tui"
	"github.com/partheniadis/r-node-nRF/internal/web"
)

// statusInterval is how often the MQTT connection state is copied to the
// status tracker.
const statusInterval = 5 * time.Second

// shutdownTimeout bounds how long the HTTP server drains on exit.
const shutdownTimeout = 5 * time.Second

type config struct {
	broker      string
	clientID    string
	sensorTopic string
	serialPort  string
	baud        int
	httpAddr    string
	refresh     time.Duration
	heartbeat   time.Duration
	statePath   string
	resetPin    int
	tui         bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.broker, "broker", "tcp://localhost:1883", "MQTT broker address (empty to disable)")
	flag.StringVar(&cfg.clientID, "client-id", "rnode", "MQTT client ID")
	flag.StringVar(&cfg.sensorTopic, "sensor-topic", mqtt.TopicSensorEvents, "MQTT topic carrying sensor bridge events")
	flag.StringVar(&cfg.serialPort, "serial", "", "Serial port of the sensor bridge (empty to disable)")
	flag.IntVar(&cfg.baud, "baud", source.DefaultBaudRate, "Serial baud rate")
	flag.StringVar(&cfg.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	flag.DurationVar(&cfg.refresh, "refresh", refresh.DefaultInterval, "Chart refresh interval")
	flag.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&cfg.statePath, "state", defaultStatePath(), "Session snapshot file (empty to disable)")
	flag.IntVar(&cfg.resetPin, "reset-pin", 0, fmt.Sprintf("BCM pin of the reset button, e.g. %d (0 to disable)", gpio.PinReset))
	flag.BoolVar(&cfg.tui, "tui", false, "Show the live terminal display")
	debug := flag.Bool("debug", false, "Enable debug logging")
	logFile := flag.String("log-file", "", "Log file (default stderr, or rnode.log with -tui)")
	listPorts := flag.Bool("list-ports", false, "List serial ports and exit")

	flag.Parse()

	if *listPorts {
		ports, err := source.ListPorts()
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	if cfg.tui && *logFile == "" {
		*logFile = "rnode.log"
	}
	logger, err := newLogger(*debug, *logFile)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("fatal", zap.Error(err))
	}
}

func newLogger(debug bool, path string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	if path != "" {
		zcfg.OutputPaths = []string{path}
		zcfg.ErrorOutputPaths = []string{path}
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func defaultStatePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "rnode", "session.json")
}

func run(cfg config, logger *zap.Logger) error {
	lp := loop.New(0)
	defer lp.Close()
	post := func(f func()) { lp.Post(f) }

	buf := samples.NewBuffer()
	tracker := status.NewTracker(time.Now(), status.Config{
		RefreshMs:   cfg.refresh.Milliseconds(),
		Broker:      cfg.broker,
		SensorTopic: cfg.sensorTopic,
		SerialPort:  cfg.serialPort,
		BaudRate:    cfg.baud,
		HTTPPort:    cfg.httpAddr,
		StatePath:   cfg.statePath,
		ResetPin:    cfg.resetPin,
	}, buf)

	d := &daemon{tracker: tracker, logger: logger, now: time.Now}
	sinks := []display.Sink{tracker}

	// Initialize MQTT
	var realPub *mqtt.RealPublisher
	if cfg.broker != "" {
		p, err := mqtt.NewRealPublisher(mqtt.Options{
			Broker:      cfg.broker,
			ClientID:    cfg.clientID,
			SensorTopic: cfg.sensorTopic,
		}, logger)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		realPub = p
		d.publisher = p
		d.mqttStatus = p
		sinks = append(sinks, mqtt.NewSink(p, buf, time.Now, logger))
	}

	ctrl := display.New(display.Tee(sinks...), buf, display.Config{
		Interval: cfg.refresh,
		Post:     post,
	}, logger)
	d.ctrl = ctrl
	callbacks := source.OnLoop(post, ctrl)
	reset := func() { post(ctrl.ResetToDefault) }

	if cfg.statePath != "" {
		d.store = lifecycle.NewFileStore(cfg.statePath)
		b, err := d.store.Take()
		switch {
		case errors.Is(err, lifecycle.ErrNoSnapshot):
		case err != nil:
			logger.Warn("[main] cannot restore session", zap.Error(err))
		default:
			ctrl.Restore(b)
		}
	}

	d.refreshMQTT()
	d.publishSystem("STARTUP", "", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if realPub != nil {
		realPub.Subscribe(callbacks)
	}

	if cfg.serialPort != "" {
		src, err := source.OpenSerial(cfg.serialPort, cfg.baud, callbacks, logger)
		if err != nil {
			return fmt.Errorf("init serial: %w", err)
		}
		go func() {
			if err := src.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("[main] serial source stopped", zap.Error(err))
			}
		}()
	}

	if cfg.resetPin > 0 {
		btn, err := gpio.NewRealButton(cfg.resetPin, gpio.DefaultDebounce, reset)
		if err != nil {
			return fmt.Errorf("init reset button: %w", err)
		}
		defer btn.Close()
	}

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker, buf, reset, logger)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("[main] http server error", zap.Error(err))
			}
		}()
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer scancel()
			if err := srv.Shutdown(sctx); err != nil {
				logger.Warn("[main] http shutdown", zap.Error(err))
			}
		}()
		logger.Info("[main] http status server listening", zap.String("addr", cfg.httpAddr))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if cfg.tui {
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := tui.Run(ctx, tui.New(tracker, buf, cfg.refresh, reset)); err != nil {
				logger.Error("[main] terminal display failed", zap.Error(err))
			}
			select {
			case sigCh <- quitSignal{}:
			default:
			}
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	logger.Info("[main] started",
		zap.String("broker", cfg.broker),
		zap.String("serial", cfg.serialPort),
		zap.Duration("refresh", cfg.refresh),
	)

	statusTicker := time.NewTicker(statusInterval)
	defer statusTicker.Stop()

	var heartbeat <-chan time.Time
	if cfg.heartbeat > 0 {
		hb := time.NewTicker(cfg.heartbeat)
		defer hb.Stop()
		heartbeat = hb.C
	}

	return d.serve(lp, statusTicker.C, heartbeat, sigCh)
}

// serve runs the main loop and closes lp when it returns, releasing any
// goroutine blocked in Post before the deferred teardown waits on it.
func (d *daemon) serve(lp *loop.Loop, tick, heartbeat <-chan time.Time, sig <-chan os.Signal) error {
	defer lp.Close()
	return d.runLoop(lp.Queue(), tick, heartbeat, sig)
}

// quitSignal is sent when the user leaves the terminal display.
type quitSignal struct{}

func (quitSignal) String() string { return "quit" }
func (quitSignal) Signal()        {}

// daemon holds what the main loop needs besides the posted work. publisher,
// mqttStatus and store are nil when the feature is disabled.
type daemon struct {
	ctrl       *display.Controller
	tracker    *status.Tracker
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	store      *lifecycle.FileStore
	logger     *zap.Logger
	now        func() time.Time
}

// runLoop owns the controller: it runs posted work until a signal arrives,
// then saves the session and publishes SHUTDOWN.
func (d *daemon) runLoop(queue <-chan func(), tick, heartbeat <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case f := <-queue:
			f()

		case <-tick:
			d.refreshMQTT()

		case <-heartbeat:
			st := d.ctrl.State()
			d.logger.Info("[main] heartbeat",
				zap.Bool("in_progress", st.InProgress),
				zap.Int("counter", st.Counter),
			)
			d.publishSystem("HEARTBEAT", "", false)

		case s := <-sig:
			reason := signalName(s)
			d.logger.Info("[main] shutting down", zap.String("signal", reason))

			bundle := d.ctrl.Save()
			d.ctrl.Destroy()
			if d.store != nil {
				if err := d.store.Save(bundle); err != nil {
					d.logger.Error("[main] failed to save session", zap.Error(err))
				} else {
					d.logger.Info("[main] session saved", zap.String("path", d.store.Path()))
				}
			}

			d.publishSystem("SHUTDOWN", reason, true)
			return nil
		}
	}
}

func (d *daemon) refreshMQTT() {
	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}
}

// publishSystem sends a lifecycle event carrying the full status snapshot.
func (d *daemon) publishSystem(event, reason string, retained bool) {
	if d.publisher == nil {
		return
	}
	d.refreshMQTT()
	snap := d.tracker.Snapshot()
	err := d.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  d.now(),
		Event:      event,
		Reason:     reason,
		Retained:   retained,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	})
	if err != nil {
		d.logger.Warn("[main] failed to publish system event", zap.String("event", event), zap.Error(err))
		return
	}
	d.logger.Info("[main] published system event", zap.String("event", event))
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return strings.ToUpper(s.String())
}
