package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type Rooms struct {
	// TTL is how long a room may stay idle before the sweeper removes it.
	// Zero disables the sweeper entirely.
	TTL           time.Duration
	SweepInterval time.Duration
}

type Config struct {
	HTTP  HTTPServer
	Rooms Rooms
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:  *newHTTP(),
		Rooms: *newRooms(),
	}

	log.Printf("%s config : %+v", logtag, cfg)
	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newRooms() *Rooms {
	return &Rooms{
		TTL:           getduration("ROOM_TTL", "0"),
		SweepInterval: getduration("SWEEP_INTERVAL", "1m"),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getduration(key, defaultValue string) time.Duration {
	val := getenv(key, defaultValue)
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Fatalf("%s %s is not a duration : %v", logtag, key, err)
	}
	return d
}
