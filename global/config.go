package global

import (
	"os"
	"strings"
	"time"

	"NagarSeva/logger"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// AppConfig is the process-wide configuration, filled from the environment
// at boot. Field names map to env keys via mapstructure tags.
type AppConfig struct {
	Port string `mapstructure:"PORT"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DB"`

	// session backend: "memory" (default) or "redis"
	SessionBackend string `mapstructure:"SESSION_BACKEND"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`

	// urgency classification service (Flask/spaCy)
	ClassifierURL        string        `mapstructure:"FLASK_URL"`
	ClassifierTimeout    time.Duration `mapstructure:"-"`
	ClassifierTimeoutRaw string        `mapstructure:"CLASSIFIER_TIMEOUT"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
}

var Config = AppConfig{
	Port:              "4000",
	MongoDatabase:     "nagarseva",
	SessionBackend:    "memory",
	RedisAddr:         "127.0.0.1:6379",
	ClassifierTimeout: 5 * time.Second,
}

// Load reads .env (if present) and the process environment into Config.
func Load() error {
	if err := godotenv.Load(); err != nil {
		logger.Infof("no .env file, using process environment")
	}

	env := map[string]string{}
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			env[parts[0]] = parts[1]
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &Config,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(env); err != nil {
		return err
	}

	if Config.ClassifierTimeoutRaw != "" {
		d, err := time.ParseDuration(Config.ClassifierTimeoutRaw)
		if err != nil {
			logger.Warnf("bad CLASSIFIER_TIMEOUT %q, keeping %s", Config.ClassifierTimeoutRaw, Config.ClassifierTimeout)
		} else {
			Config.ClassifierTimeout = d
		}
	}
	return nil
}

func JWTSecret() []byte {
	return []byte(Config.JWTSecret)
}
