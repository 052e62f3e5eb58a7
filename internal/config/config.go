package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Cache   CacheConfig
	Redis   RedisConfig
	Search  SearchConfig
	Extract ExtractConfig
	Player  PlayerConfig
	Worker  WorkerConfig
	Debug   DebugConfig
}

type CacheConfig struct {
	// Backend selects the cache storage backend: "filesystem" or "redis".
	Backend string        `envconfig:"TUNESTREAM_CACHE_BACKEND" default:"filesystem"`
	Dir     string        `envconfig:"TUNESTREAM_CACHE_DIR" default:"./yt_cache"`
	TTL     time.Duration `envconfig:"TUNESTREAM_CACHE_TTL" default:"1h"`
}

type RedisConfig struct {
	Host     string `envconfig:"TUNESTREAM_REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"TUNESTREAM_REDIS_PORT" default:"6379"`
	Password string `envconfig:"TUNESTREAM_REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"TUNESTREAM_REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type SearchConfig struct {
	BaseURL    string        `envconfig:"TUNESTREAM_SEARCH_BASE_URL" default:"https://www.youtube.com"`
	MaxResults int           `envconfig:"TUNESTREAM_SEARCH_MAX_RESULTS" default:"3"`
	Timeout    time.Duration `envconfig:"TUNESTREAM_SEARCH_TIMEOUT" default:"10s"`
}

type ExtractConfig struct {
	// YtdlpPath is the path to the yt-dlp binary.
	// If empty, "yt-dlp" will be used (assumes it's in PATH).
	YtdlpPath     string        `envconfig:"TUNESTREAM_YTDLP_PATH" default:"yt-dlp"`
	SocketTimeout time.Duration `envconfig:"TUNESTREAM_YTDLP_SOCKET_TIMEOUT" default:"10s"`
	Retries       int           `envconfig:"TUNESTREAM_YTDLP_RETRIES" default:"3"`
}

type PlayerConfig struct {
	// MpvPath is the path to the mpv binary.
	MpvPath string `envconfig:"TUNESTREAM_MPV_PATH" default:"mpv"`
	// SocketPath is the unix socket for mpv's JSON IPC.
	// If empty, a per-process path under the temp directory is used.
	SocketPath string `envconfig:"TUNESTREAM_MPV_SOCKET" default:""`
	Volume     int    `envconfig:"TUNESTREAM_VOLUME" default:"60"`
	// CacheSecs is mpv's own stream readahead cache, in seconds.
	CacheSecs            int    `envconfig:"TUNESTREAM_MPV_CACHE_SECS" default:"300"`
	DemuxerMaxBytes      string `envconfig:"TUNESTREAM_MPV_DEMUXER_MAX_BYTES" default:"10M"`
	DemuxerReadaheadSecs int    `envconfig:"TUNESTREAM_MPV_DEMUXER_READAHEAD_SECS" default:"30"`

	StartupTimeout time.Duration `envconfig:"TUNESTREAM_MPV_STARTUP_TIMEOUT" default:"5s"`
}

type WorkerConfig struct {
	PoolSize        int           `envconfig:"TUNESTREAM_WORKER_POOL_SIZE" default:"3"`
	ShutdownTimeout time.Duration `envconfig:"TUNESTREAM_WORKER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DebugConfig struct {
	// Addr enables the debug HTTP listener (/healthz, /metrics) when set,
	// e.g. "localhost:6060". Empty disables it.
	Addr            string        `envconfig:"TUNESTREAM_DEBUG_ADDR" default:""`
	ShutdownTimeout time.Duration `envconfig:"TUNESTREAM_DEBUG_SHUTDOWN_TIMEOUT" default:"5s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
