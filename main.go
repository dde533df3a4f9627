package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gr-butler/cornfield/control"
	"github.com/gr-butler/cornfield/env"
	"github.com/gr-butler/cornfield/telemetry"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/sirupsen/logrus"
)

const version = "GRB-Cornfield-1.0.0"

type controller struct {
	loop    *control.Loop
	station string
}

func main() {
	logger.Infof("Starting irrigation controller [%v]", version)

	args := env.Args{
		Test:     flag.Bool("test", false, "test mode, simulated field instead of hardware"),
		Verbose:  flag.Bool("verbose", false, "log every cycle"),
		Metrics:  flag.Bool("metrics", false, "serve prometheus metrics on /metrics"),
		HTTPAddr: flag.String("http", ":80", "status web service address"),
		Serial:   flag.String("serial", "", "diagnostic serial port, stdout if empty"),
		Humidity: flag.String("hygrometer", env.HygrometerDHT22, "humidity sensor, dht22 or bme280"),
	}
	flag.Parse()

	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if *args.Test {
		logger.Info("TEST MODE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()

	logger.Infof("%v: Initialize hardware...", time.Now().Format(time.RFC822))
	hw, err := openHardware(args, clock)
	if err != nil {
		logger.Errorf("Failed to initialise hardware!! [%v]", err)
		logger.Exit(1)
	}
	defer hw.Close()

	reporter := control.NewReporter(hw.display, hw.channel)
	loop := control.NewLoop(hw.sampler, control.NewActuator(hw.relay), reporter, clock)
	loop.AddObserver(promObserver{})

	station := "field-1"
	if s, ok := os.LookupEnv("MQTT_STATION"); ok && s != "" {
		station = s
	}
	if broker, ok := os.LookupEnv("MQTT_BROKER"); ok && broker != "" {
		pub, err := telemetry.NewPublisher(ctx, broker, station)
		if err != nil {
			logger.Warnf("MQTT telemetry disabled [%v]", err)
		} else {
			defer pub.Close()
			loop.AddObserver(pub)
		}
	}
	if key, ok := os.LookupEnv("THINGSPEAK_API_KEY"); ok && key != "" {
		logger.Info("ThingSpeak upload enabled")
		uploader := telemetry.NewUploader(telemetry.ThingSpeakURL, key, clock, env.ThingSpeakMinInterval)
		defer uploader.Close()
		loop.AddObserver(uploader)
	}

	c := &controller{loop: loop, station: station}
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.handler)
	if *args.Metrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	srv := &http.Server{Addr: *args.HTTPAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("Starting webservice on %v...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Webservice stopped [%v]", err)
		}
	}()

	reporter.Banner(env.Banner, env.DisplayBanner)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("Control loop failed [%v]", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("Exiting...")
}
