package main

import (
	"context"
	"flag"
	"log"
	"os"

	fx "github.com/moneytom/LD2412-Tools/pkg/framework"
	"github.com/moneytom/LD2412-Tools/pkg/telemetry"
	"github.com/moneytom/LD2412-Tools/pkg/telemetry/mqtt"
)

var (
	mqttURL    = "mqtt://localhost:1883/ld2412/"
	outputJSON bool
)

func init() {
	if val := os.Getenv("LD2412_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print raw report records.")
}

type monitor struct {
	queue *mqtt.Queue
}

func (m monitor) Run(ctx context.Context) error {
	sub := m.queue.Sub("+"+mqtt.StatsTopic, printReport)
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

func printReport(topic string, payload []byte) {
	if outputJSON {
		log.Printf("%s: %s", topic, string(payload))
		return
	}
	rep, err := telemetry.DecodeReport(payload)
	if err != nil {
		log.Printf("%s: bad report: %v", topic, err)
		return
	}
	log.Printf("%s: bytes=%d host_bytes=%d total=%d windows=%d hint=%v",
		topic, rep.Bytes, rep.HostBytes, rep.TotalBytes, rep.Windows, rep.Hint)
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.OnConnect = func(*mqtt.Queue) { log.Println("watching", mqttURL) }
	q.OnLost = func(_ *mqtt.Queue, err error) { log.Println("connection lost:", err) }
	token := q.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("stats-watch", monitor{queue: q}))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
