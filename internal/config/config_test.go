package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("ACCESSFLOW_TEST_DB_PASSWORD", "s3cret")

	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "accessflow", cfg.Database.Database)
				assert.Equal(t, "s3cret", cfg.Database.Password)
				assert.True(t, cfg.Database.MigrateOnStart)
				assert.Equal(t, "accessflow_events", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "accessflow_status_updates", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, 10, cfg.RabbitMQ.Consumer.PrefetchCount)
				assert.Equal(t, "accessflow-api", cfg.App.Name)
				assert.Equal(t, "reject", cfg.Webhook.AmbiguousMatch)
				assert.Equal(t, 2*time.Minute, cfg.Prefs.HeartbeatThrottle)
				assert.Equal(t, 30*time.Second, cfg.Worker.MessageTimeout)
			}
		})
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load("testdata/memory.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Europe/London", cfg.App.Timezone)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "first", cfg.Webhook.AmbiguousMatch)
	assert.Equal(t, "topic", cfg.RabbitMQ.Exchange.Type)
	assert.Equal(t, time.Minute, cfg.Prefs.HeartbeatThrottle)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

	require.NoError(t, cfg.ValidateAPIConfig())
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Name: "accessflow-api", Timezone: "Europe/London"},
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			Database: "accessflow",
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:  true,
			Host:     "localhost",
			Port:     5672,
			Exchange: ExchangeConfig{Name: "accessflow_events"},
			Queue:    QueueConfig{Name: "accessflow_status_updates"},
		},
		Auth:    AuthConfig{JWTSecret: "secret"},
		Webhook: WebhookConfig{AmbiguousMatch: "first"},
		Worker: WorkerConfig{
			Concurrency:     2,
			MessageTimeout:  10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Prefs: PrefsConfig{HeartbeatThrottle: time.Minute},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "unknown timezone",
			mutate:    func(c *Config) { c.App.Timezone = "Mars/Olympus" },
			errString: "invalid app timezone",
		},
		{
			name:      "unsupported driver",
			mutate:    func(c *Config) { c.Database.Driver = "mysql" },
			errString: "unsupported database driver",
		},
		{
			name:      "empty database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			errString: "database host is required",
		},
		{
			name:      "invalid database port",
			mutate:    func(c *Config) { c.Database.Port = 0 },
			errString: "invalid database port",
		},
		{
			name:      "empty database name",
			mutate:    func(c *Config) { c.Database.Database = "" },
			errString: "database name is required",
		},
		{
			name: "memory driver ignores database settings",
			mutate: func(c *Config) {
				c.Database = DatabaseConfig{Driver: DriverMemory}
			},
		},
		{
			name:      "empty rabbitmq host",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			errString: "rabbitmq host is required",
		},
		{
			name:      "empty exchange name",
			mutate:    func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			errString: "rabbitmq exchange name is required",
		},
		{
			name: "disabled rabbitmq is not checked",
			mutate: func(c *Config) {
				c.RabbitMQ = RabbitMQConfig{Enabled: false}
			},
		},
		{
			name:      "unknown ambiguity policy",
			mutate:    func(c *Config) { c.Webhook.AmbiguousMatch = "newest" },
			errString: "invalid webhook ambiguous_match",
		},
		{
			name:      "negative heartbeat throttle",
			mutate:    func(c *Config) { c.Prefs.HeartbeatThrottle = -time.Second },
			errString: "heartbeat_throttle cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			errString: "invalid server port",
		},
		{
			name:      "missing jwt secret",
			mutate:    func(c *Config) { c.Auth.JWTSecret = "" },
			errString: "auth jwt_secret is required",
		},
		{
			name:      "shared checks still apply",
			mutate:    func(c *Config) { c.Database.Host = "" },
			errString: "database host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()
			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateWorkerConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "server port is not needed",
			mutate:    func(c *Config) { c.Server.Port = 0; c.Auth.JWTSecret = "" },
			errString: "",
		},
		{
			name:      "rabbitmq disabled",
			mutate:    func(c *Config) { c.RabbitMQ.Enabled = false },
			errString: "rabbitmq must be enabled",
		},
		{
			name:      "empty queue name",
			mutate:    func(c *Config) { c.RabbitMQ.Queue.Name = "" },
			errString: "rabbitmq queue name is required",
		},
		{
			name:      "zero concurrency",
			mutate:    func(c *Config) { c.Worker.Concurrency = 0 },
			errString: "worker concurrency must be greater than 0",
		},
		{
			name:      "zero message timeout",
			mutate:    func(c *Config) { c.Worker.MessageTimeout = 0 },
			errString: "worker message_timeout must be greater than 0",
		},
		{
			name:      "zero shutdown timeout",
			mutate:    func(c *Config) { c.Worker.ShutdownTimeout = 0 },
			errString: "worker shutdown_timeout must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()
			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		require.NoError(t, cfg.ValidateAPIConfig())
		require.NoError(t, cfg.ValidateWorkerConfig())
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing database", func(t *testing.T) {
		cfg, err := Load("testdata/missing_database.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database name is required")
	})
}

func TestPortConstants(t *testing.T) {
	assert.Equal(t, 1, MinPort)
	assert.Equal(t, 65535, MaxPort)
}
