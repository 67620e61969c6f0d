package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of all environment variables read here.
const EnvPrefix = "imgopt"

// Version is overridden at build time via -ldflags -X.
var Version = "dev"

// CIDRList holds networks allowed to call the management API.
type CIDRList []*net.IPNet

// Decode implements envconfig.Decoder, accepting comma separated CIDRs.
func (c *CIDRList) Decode(value string) error {
	return c.fromStrings(strings.Split(value, ","))
}

// UnmarshalYAML accepts a sequence of CIDR strings.
func (c *CIDRList) UnmarshalYAML(node *yaml.Node) error {
	var arr []string
	if err := node.Decode(&arr); err != nil {
		return err
	}
	return c.fromStrings(arr)
}

func (c *CIDRList) fromStrings(arr []string) error {
	out := make(CIDRList, 0, len(arr))
	for _, s := range arr {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		_, ipn, err := net.ParseCIDR(s)
		if err != nil {
			return err
		}
		out = append(out, ipn)
	}
	*c = out
	return nil
}

// Settings of the process, read from IMGOPT_* environment variables,
// optionally overlaid by a YAML file via LoadFile.
type Settings struct {
	Name  string `envconfig:"NAME" default:"imgopt" yaml:"name"`
	InDev bool   `envconfig:"IN_DEV" yaml:"in_dev"`

	MaxWidth  uint `envconfig:"MAX_WIDTH" yaml:"max_width"`
	MaxHeight uint `envconfig:"MAX_HEIGHT" yaml:"max_height"`

	Formats     []string `envconfig:"FORMATS" default:"webp,avif" yaml:"formats"`
	WebpQuality uint8    `envconfig:"WEBP_QUALITY" default:"80" yaml:"webp_quality"`
	AvifQuality uint8    `envconfig:"AVIF_QUALITY" default:"80" yaml:"avif_quality"`
	AvifSpeed   int      `envconfig:"AVIF_SPEED" default:"6" yaml:"avif_speed"`

	WatchDelay time.Duration `envconfig:"WATCH_DELAY" default:"500ms" yaml:"watch_delay"`

	WebListen   string        `envconfig:"WEB_LISTEN" default:":8970" yaml:"web_listen"`
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"10s" yaml:"read_timeout"`
	WhiteList   CIDRList      `envconfig:"WHITE_LIST" yaml:"white_list"`

	SentryDSN string `envconfig:"SENTRY_DSN" yaml:"sentry_dsn"`
}

// Current holds the live settings.
var Current *Settings

func init() {
	s, err := Load()
	if err != nil {
		log.Printf("config load fail: %s", err)
		s = new(Settings)
	}
	Current = s
}

// Load reads Settings from the environment.
func Load() (*Settings, error) {
	s := new(Settings)
	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile overlays Current with values from a YAML file.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, Current); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return Current.Validate()
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	if s.WebpQuality < 1 || s.WebpQuality > 100 {
		return fmt.Errorf("webp_quality %d out of range 1-100", s.WebpQuality)
	}
	if s.AvifQuality < 1 || s.AvifQuality > 100 {
		return fmt.Errorf("avif_quality %d out of range 1-100", s.AvifQuality)
	}
	if s.AvifSpeed < 0 || s.AvifSpeed > 8 {
		return fmt.Errorf("avif_speed %d out of range 0-8", s.AvifSpeed)
	}
	for _, f := range s.Formats {
		switch strings.ToLower(f) {
		case "webp", "avif":
		default:
			return fmt.Errorf("unknown format %q", f)
		}
	}
	if s.WatchDelay <= 0 {
		return fmt.Errorf("watch_delay must be positive")
	}
	return nil
}

// InDevelop reports whether the process runs in development mode.
func InDevelop() bool {
	return Current != nil && Current.InDev
}
