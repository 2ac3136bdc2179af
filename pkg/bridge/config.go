package bridge

import (
	"flag"
	"time"

	"github.com/moneytom/LD2412-Tools/pkg/serial"
)

// Config defines the configurations of the bridge.
type Config struct {
	HostDevice     string
	SensorRxDevice string
	SensorTxDevice string
	BaudRate       int
	ReportInterval time.Duration
	LegacyBanner   bool
}

var defaultConfig = Config{
	BaudRate:       serial.DefaultBaudRate,
	ReportInterval: DefaultReportInterval,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.HostDevice, "host", defaultConfig.HostDevice,
		"Serial device connected to the host computer.")
	flag.StringVar(&defaultConfig.SensorRxDevice, "sensor-rx", defaultConfig.SensorRxDevice,
		"Serial device receiving from the LD2412 TX pin.")
	flag.StringVar(&defaultConfig.SensorTxDevice, "sensor-tx", defaultConfig.SensorTxDevice,
		"Serial device transmitting to the LD2412 RX pin.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate,
		"Baud rate of all three channels.")
	flag.DurationVar(&defaultConfig.ReportInterval, "report-interval", defaultConfig.ReportInterval,
		"Interval between byte-count reports.")
	flag.BoolVar(&defaultConfig.LegacyBanner, "legacy-banner", defaultConfig.LegacyBanner,
		"Write banner and reports into the host data stream like the original firmware.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewBridge opens the three serial devices and creates the bridge.
func (c *Config) NewBridge() (*Bridge, error) {
	host, err := serial.Open(c.HostDevice, c.BaudRate)
	if err != nil {
		return nil, err
	}
	sensorRx, err := serial.Open(c.SensorRxDevice, c.BaudRate)
	if err != nil {
		host.Close()
		return nil, err
	}
	sensorTx, err := serial.Open(c.SensorTxDevice, c.BaudRate)
	if err != nil {
		host.Close()
		sensorRx.Close()
		return nil, err
	}
	b := New(host, sensorRx, sensorTx)
	b.Wiring = Wiring{
		HostDevice:     c.HostDevice,
		SensorRxDevice: c.SensorRxDevice,
		SensorTxDevice: c.SensorTxDevice,
		BaudRate:       c.BaudRate,
	}
	b.LegacyBanner = c.LegacyBanner
	b.Reporter.Interval = c.ReportInterval
	return b, nil
}
