package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	"github.com/matt-g-everett/keyframer/api"
	"github.com/matt-g-everett/keyframer/stream"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Controller *stream.Controller
	Streamer   *stream.Streamer
	Api        *api.Api
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	if err := a.Streamer.Subscribe(); err != nil {
		log.Printf("Subscribe failed: %v", err)
	}
}

func (a *app) readConfig(configPath string) {
	f, err := os.Open(configPath)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	a.Config, err = stream.LoadConfig(f)
	if err != nil {
		panic(err)
	}

	if u := os.Getenv("KEYFRAMER_MQTT_USERNAME"); u != "" {
		a.Config.Mqtt.Username = u
	}
	if p := os.Getenv("KEYFRAMER_MQTT_PASSWORD"); p != "" {
		a.Config.Mqtt.Password = p
	}
}

func (a *app) connect() {
	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("keyframer").
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)
	a.Streamer = stream.NewStreamer(a.Config, a.Client, a.Controller)
	a.Controller.AddSink(a.Streamer)

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}
}

func (a *app) run(ctx context.Context) {
	go func() {
		log.Fatal(a.Api.Serve(a.Config.Http.Addr))
	}()

	if err := a.Controller.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
	if a.Client != nil {
		a.Client.Disconnect(250)
	}
	log.Println("Stopped")
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Read the config
	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Playback: %+v, tracks: %d", a.Config.Playback, len(a.Config.Tracks))

	timeline, err := a.Config.Timeline()
	if err != nil {
		log.Fatalf("Invalid timeline: %v", err)
	}
	log.Printf("Timeline %v over %v", timeline.Properties(), timeline.Duration())

	a.Controller = stream.NewController(timeline, a.Config.Playback)
	a.Api = api.NewApi(a.Controller)
	a.Controller.AddSink(a.Api)

	if a.Config.Mqtt.URL != "" {
		a.connect()
	} else {
		log.Println("No MQTT broker configured, serving HTTP only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.run(ctx)
}
