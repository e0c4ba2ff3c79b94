package config

type Convert struct {
	// MaxPayloadSize is the largest accepted upload, in bytes.
	MaxPayloadSize int64 `env:"MAX_PAYLOAD_SIZE,expand" envDefault:"52428800"`
}
