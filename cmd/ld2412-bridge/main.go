package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"

	"github.com/moneytom/LD2412-Tools/pkg/bridge"
	fx "github.com/moneytom/LD2412-Tools/pkg/framework"
	"github.com/moneytom/LD2412-Tools/pkg/telemetry"
	"github.com/moneytom/LD2412-Tools/pkg/telemetry/mqtt"
)

var (
	mqttURL    string
	listenAddr string
	deviceID   string
)

func init() {
	if val := os.Getenv("LD2412_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL,
		"MQTT broker URL for stats publishing, empty to disable.")
	flag.StringVar(&listenAddr, "listen", listenAddr,
		"Listen address of the websocket stats feed, empty to disable.")
	flag.StringVar(&deviceID, "device-id", deviceID,
		"Device ID in stats records, defaults to the machine ID.")
	bridge.SetupFlags()
}

func main() {
	flag.Parse()

	conf := bridge.NewConfig()
	if conf.HostDevice == "" || conf.SensorRxDevice == "" || conf.SensorTxDevice == "" {
		flag.Usage()
		os.Exit(1)
	}
	b, err := conf.NewBridge()
	if err != nil {
		log.Fatalln(err)
	}
	if deviceID == "" {
		deviceID = telemetry.DeviceID()
	}
	b.Reporter.Device = deviceID

	loop := fx.NewLoop().Add(b)
	if mqttURL != "" {
		pub, err := mqtt.NewPublisher(mqttURL, deviceID)
		if err != nil {
			log.Fatalln(err)
		}
		b.Reporter.AddHandlers(pub)
		loop.AddRunnable(pub)
	}
	if listenAddr != "" {
		feed := telemetry.NewFeed(listenAddr)
		b.Reporter.AddHandlers(feed)
		loop.AddRunnable(feed)
	}

	if err := b.Start(); err != nil {
		log.Fatalln(err)
	}
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("bridge", loop))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
