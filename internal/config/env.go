package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envBool, envInt and envDur return d when k is unset. A value that is set
// but does not parse is fatal, like must().
func envBool(k string, d bool) bool {
	v, err := lookupBool(k, d)
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func envInt(k string, d int) int {
	v, err := lookupInt(k, d)
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func envDur(k string, d time.Duration) time.Duration {
	v, err := lookupDur(k, d)
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func lookupBool(k string, d bool) (bool, error) {
	v := os.Getenv(k)
	switch v {
	case "":
		return d, nil
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true, nil
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false, nil
	}
	return d, fmt.Errorf("invalid bool for %s: %q", k, v)
}

func lookupInt(k string, d int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return d, fmt.Errorf("invalid int for %s: %q", k, v)
	}
	return n, nil
}

func lookupDur(k string, d time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return d, fmt.Errorf("invalid duration for %s: %q", k, v)
	}
	return dur, nil
}
