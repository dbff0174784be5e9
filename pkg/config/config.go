// Package config resolves the handful of process-level settings named in
// spec §6: three listen addresses and a switch for the change-log poller,
// plus the MQTT namespace spec §9 open question (3) promotes to
// configuration rather than a hard-coded "default". There is no separate
// change-log database path: when enabled, the poller reads the same
// database the process connects to via the DB_* environment variables.
package config

import (
	"flag"
	"os"
)

// Config holds every flag/env input the Supervisor needs before it can wire
// up the Reflector, Scheduler, trigger sources, and Session Manager.
type Config struct {
	WebAddr      string // HTTP webhook/debug listener, default 0.0.0.0:8000
	ExecutorAddr string // executor-facing gRPC listener, default 0.0.0.0:8001
	MQTTBroker   string // MQTT broker address, default tcp://127.0.0.1:1883

	ChangeLogEnabled bool   // whether the change-log poller is enabled
	EnvFile          string // optional .env path, loaded via godotenv

	MQTTDeviceNamespace string // default "default" (spec §9 open question 3)
}

// ParseFlags builds a Config from the command line, falling back to the
// documented defaults from spec §6.
func ParseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("ruleengine", flag.ContinueOnError)

	webAddr := fs.String("web-addr", getEnv("WEB_ADDR", "0.0.0.0:8000"), "HTTP listen address")
	executorAddr := fs.String("executor-addr", getEnv("EXECUTOR_ADDR", "0.0.0.0:8001"), "executor gRPC listen address")
	mqttBroker := fs.String("mqtt-broker", getEnv("MQTT_BROKER", "tcp://127.0.0.1:1883"), "MQTT broker address")
	changeLog := fs.Bool("change-log", getEnv("CHANGE_LOG_ENABLED", "") != "", "enable the SQL change-log poller")
	envFile := fs.String("env-file", getEnv("ENV_FILE", ".env"), "path to an optional .env file")
	mqttNamespace := fs.String("mqtt-namespace", getEnv("MQTT_DEVICE_NAMESPACE", "default"), "namespace assigned to devices triggered via MQTT")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return Config{
		WebAddr:             *webAddr,
		ExecutorAddr:        *executorAddr,
		MQTTBroker:          *mqttBroker,
		ChangeLogEnabled:    *changeLog,
		EnvFile:             *envFile,
		MQTTDeviceNamespace: *mqttNamespace,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
