package stream

import (
	"log"
	"strings"

	"github.com/eclipse/paho.mqtt.golang"
)

// Streamer publishes frames over MQTT and feeds trigger messages back into a
// Controller.
type Streamer struct {
	client       mqtt.Client
	topic        string
	triggerTopic string
	controller   *Controller
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, client mqtt.Client, controller *Controller) *Streamer {
	s := new(Streamer)
	s.client = client
	s.topic = config.Mqtt.Topics.Stream
	s.triggerTopic = config.Mqtt.Topics.Trigger
	s.controller = controller
	return s
}

// SendFrame sends a frame as binary over MQTT.
func (s *Streamer) SendFrame(f *Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic, 0, false, b)
	token.Wait()
	return token.Error()
}

func (s *Streamer) handleTrigger(client mqtt.Client, msg mqtt.Message) {
	token := strings.TrimSpace(string(msg.Payload()))
	log.Printf("Received trigger on %s: %q", msg.Topic(), token)
	s.controller.Trigger(token)
}

// Subscribe listens for trigger tokens.
func (s *Streamer) Subscribe() error {
	token := s.client.Subscribe(s.triggerTopic, 1, s.handleTrigger)
	token.Wait()
	return token.Error()
}
