package rabbitmq

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_URL(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantVhost string
	}{
		{
			name:      "default vhost",
			config:    Config{Host: "localhost", Port: 5672, User: "guest", Password: "guest"},
			wantVhost: "/",
		},
		{
			name:      "named vhost",
			config:    Config{Host: "mq.internal", Port: 5673, User: "accessflow", Password: "s3cret", VHost: "accessflow"},
			wantVhost: "accessflow",
		},
		{
			name:      "password needing escaping",
			config:    Config{Host: "localhost", Port: 5672, User: "svc", Password: "p@ss:w/rd", VHost: "/"},
			wantVhost: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := amqp.ParseURI(tt.config.URL())
			require.NoError(t, err)

			assert.Equal(t, "amqp", uri.Scheme)
			assert.Equal(t, tt.config.Host, uri.Host)
			assert.Equal(t, tt.config.Port, uri.Port)
			assert.Equal(t, tt.config.User, uri.Username)
			assert.Equal(t, tt.config.Password, uri.Password)
			assert.Equal(t, tt.wantVhost, uri.Vhost)
		})
	}
}

func TestConfig_PublishBackoff(t *testing.T) {
	cfg := &Config{PublishRetryDelay: 200 * time.Millisecond, PublishBackoffMult: 2}
	assert.Equal(t, 200*time.Millisecond, cfg.publishBackoff(0))
	assert.Equal(t, 400*time.Millisecond, cfg.publishBackoff(1))
	assert.Equal(t, 800*time.Millisecond, cfg.publishBackoff(2))

	defaults := &Config{}
	assert.Equal(t, 100*time.Millisecond, defaults.publishBackoff(0))
	assert.Equal(t, 200*time.Millisecond, defaults.publishBackoff(1))
}

func TestClient_NotConnected(t *testing.T) {
	c := &Client{config: &Config{QueueName: "accessflow_status_updates"}}
	assert.False(t, c.IsConnected())

	_, err := c.Consume("worker")
	assert.ErrorIs(t, err, ErrNotConnected)
}
