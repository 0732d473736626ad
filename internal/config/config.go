package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/colormap"
)

// Config holds all application configuration.
type Config struct {
	Raster  RasterConfig  `mapstructure:"raster"`
	View    ViewConfig    `mapstructure:"view"`
	Render  RenderConfig  `mapstructure:"render"`
	Display DisplayConfig `mapstructure:"display"`
	Server  ServerConfig  `mapstructure:"server"`
	Worker  WorkerConfig  `mapstructure:"worker"`
	Log     LogConfig     `mapstructure:"log"`
}

type RasterConfig struct {
	Width   int `mapstructure:"width"`
	Height  int `mapstructure:"height"`
	MaxIter int `mapstructure:"max_iter"`
}

func (r RasterConfig) Params() mandel.RasterParams {
	return mandel.RasterParams{Width: r.Width, Height: r.Height, MaxIter: r.MaxIter}
}

// ViewConfig is the starting view. A non-empty Preset wins over the explicit bounds.
type ViewConfig struct {
	Preset  string  `mapstructure:"preset"`
	Xmin    float64 `mapstructure:"xmin"`
	Xmax    float64 `mapstructure:"xmax"`
	Ymin    float64 `mapstructure:"ymin"`
	Ymax    float64 `mapstructure:"ymax"`
	MinSpan float64 `mapstructure:"min_span"`
}

func (v ViewConfig) Region() (mandel.Region, error) {
	if v.Preset != "" {
		r, ok := mandel.RegionByName(v.Preset)
		if !ok {
			return mandel.Region{}, fmt.Errorf("view.preset %q unknown (known: %s)", v.Preset, strings.Join(mandel.RegionNames(), ", "))
		}
		return r, nil
	}
	r := mandel.Region{Xmin: v.Xmin, Xmax: v.Xmax, Ymin: v.Ymin, Ymax: v.Ymax}
	return r, r.Validate()
}

type RenderConfig struct {
	Workers  int `mapstructure:"workers"`
	TileSize int `mapstructure:"tile_size"`
}

type DisplayConfig struct {
	Palette       string `mapstructure:"palette"`
	MinDragPixels int    `mapstructure:"min_drag_pixels"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	QueueSize         int           `mapstructure:"queue_size"`
	OriginPatterns    []string      `mapstructure:"origin_patterns"`

	// WorkerAddr is where remote tile renderers connect. Empty disables them.
	WorkerAddr string `mapstructure:"worker_addr"`
}

type WorkerConfig struct {
	// Server is the address a worker dials, the viewer's server.worker_addr.
	Server string `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Flags registers the command line overrides understood by Load.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file")
	fs.Int("width", mandel.DefaultRasterParams.Width, "raster width in pixels")
	fs.Int("height", mandel.DefaultRasterParams.Height, "raster height in pixels")
	fs.Int("max-iter", mandel.DefaultRasterParams.MaxIter, "iteration budget per pixel")
	fs.String("preset", "", "start at a named region ("+strings.Join(mandel.RegionNames(), ", ")+")")
	fs.String("palette", "viridis", "color palette ("+strings.Join(colormap.Names(), ", ")+")")
	fs.Int("workers", 0, "render goroutines, 0 for GOMAXPROCS")
	fs.String("log-level", "info", "debug, info, warn or error")
}

// ServerFlags registers the overrides only the viewer server understands.
func ServerFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":8080", "listen address")
	fs.String("worker-addr", "", "listen address for remote render workers, empty to disable")
}

// WorkerFlags registers the overrides only the render worker understands.
func WorkerFlags(fs *pflag.FlagSet) {
	fs.String("server", "localhost:8081", "viewer server to render tiles for")
}

var flagKeys = map[string]string{
	"addr":        "server.addr",
	"worker-addr": "server.worker_addr",
	"server":      "worker.server",
	"width":       "raster.width",
	"height":      "raster.height",
	"max-iter":    "raster.max_iter",
	"preset":      "view.preset",
	"palette":     "display.palette",
	"workers":     "render.workers",
	"log-level":   "log.level",
}

// Load reads configuration from defaults, an optional file, environment
// variables and flags, in increasing order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("raster.width", mandel.DefaultRasterParams.Width)
	v.SetDefault("raster.height", mandel.DefaultRasterParams.Height)
	v.SetDefault("raster.max_iter", mandel.DefaultRasterParams.MaxIter)
	v.SetDefault("view.preset", "")
	v.SetDefault("view.xmin", mandel.DefaultRegion.Xmin)
	v.SetDefault("view.xmax", mandel.DefaultRegion.Xmax)
	v.SetDefault("view.ymin", mandel.DefaultRegion.Ymin)
	v.SetDefault("view.ymax", mandel.DefaultRegion.Ymax)
	v.SetDefault("view.min_span", mandel.DefaultMinSpan)
	v.SetDefault("render.workers", 0)
	v.SetDefault("render.tile_size", 64)
	v.SetDefault("display.palette", "viridis")
	v.SetDefault("display.min_drag_pixels", 5)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.queue_size", 4)
	v.SetDefault("server.origin_patterns", []string{})
	v.SetDefault("server.worker_addr", "")
	v.SetDefault("worker.server", "localhost:8081")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")

	// Config file (optional)
	configFile := ""
	if fs != nil {
		configFile, _ = fs.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", configFile, err)
		}
	} else {
		v.SetConfigName("mandelzoom")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // OK if missing
	}

	// Environment variables: MANDELZOOM_RASTER_WIDTH → raster.width
	v.SetEnvPrefix("MANDELZOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %q: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration values are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if err := c.Raster.Params().Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := c.View.Region(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.View.MinSpan < 0 {
		errs = append(errs, fmt.Sprintf("view.min_span must not be negative, got %g", c.View.MinSpan))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Sprintf("render.workers must not be negative, got %d", c.Render.Workers))
	}
	if c.Render.TileSize <= 0 {
		errs = append(errs, fmt.Sprintf("render.tile_size must be positive, got %d", c.Render.TileSize))
	}
	if _, err := colormap.ByName(c.Display.Palette); err != nil {
		errs = append(errs, "display.palette: "+err.Error())
	}
	if c.Display.MinDragPixels < 0 {
		errs = append(errs, fmt.Sprintf("display.min_drag_pixels must not be negative, got %d", c.Display.MinDragPixels))
	}
	if c.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		errs = append(errs, "server.read_header_timeout must be positive")
	}
	if c.Worker.Server == "" {
		errs = append(errs, "worker.server is required")
	}
	if c.Server.QueueSize <= 0 {
		errs = append(errs, fmt.Sprintf("server.queue_size must be positive, got %d", c.Server.QueueSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
