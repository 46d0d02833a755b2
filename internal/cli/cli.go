// Package cli wires the image-mi-mcp subcommands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/lab47/cleo"
	"github.com/mitchellh/cli"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ironsheep/image-mi-mcp/internal/config"
	"github.com/ironsheep/image-mi-mcp/internal/imaging"
	"github.com/ironsheep/image-mi-mcp/internal/server"
)

// Build information, set by main from ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type CLI struct {
	log hclog.Logger
	out io.Writer

	lc *cli.CLI
}

type Global struct {
	Config string `short:"c" long:"config" description:"path to an HCL configuration file"`
	Debug  bool   `short:"D" long:"debug" description:"enable debug logging"`
}

type Measure struct {
	Channel  string `long:"channel" description:"channel to measure (gray, red, green, blue, alpha, lightness, gradient, binary)"`
	BitDepth int    `long:"bit-depth" description:"quantization bit depth (default from configuration)"`
}

// NewCLI builds the command set. With no arguments the server is started, which
// is how MCP clients launch the binary.
func NewCLI(log hclog.Logger, args []string) (*CLI, error) {
	c := &CLI{
		log: log,
		out: os.Stdout,
		lc:  cli.NewCLI("image-mi-mcp", Version),
	}

	if len(args) == 0 {
		args = []string{"serve"}
	}
	c.lc.Args = args
	c.lc.HelpWriter = os.Stderr
	c.lc.ErrorWriter = os.Stderr

	err := c.setupCommands()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *CLI) Run() (int, error) {
	return c.lc.Run()
}

func (c *CLI) setupCommands() error {
	c.lc.Commands = map[string]cli.CommandFactory{
		"serve": func() (cli.Command, error) {
			return cleo.Infer("serve", "run the MCP server on stdin/stdout", c.serve), nil
		},
		"mi": func() (cli.Command, error) {
			return cleo.Infer("mi", "compute the mutual information between two images", c.mutualInformation), nil
		},
		"entropy": func() (cli.Command, error) {
			return cleo.Infer("entropy", "compute the entropy of an image channel", c.entropy), nil
		},
		"version": func() (cli.Command, error) {
			return cleo.Infer("version", "print version information", c.version), nil
		},
	}

	return nil
}

// loadConfig resolves the configuration and applies its log level.
func (c *CLI) loadConfig(g Global) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	if lvl := cfg.Level(); lvl != hclog.NoLevel {
		c.log.SetLevel(lvl)
	}
	if g.Debug {
		c.log.SetLevel(hclog.Debug)
	}

	c.log.Debug("configuration loaded",
		"cache_size", cfg.CacheSize,
		"bit_depth", cfg.DefaultBitDepth,
		"channel", cfg.DefaultChannel,
		"workers", cfg.Workers,
	)
	return cfg, nil
}

func (c *CLI) serve(ctx context.Context, opts struct {
	Global
	MetricsAddr string `long:"metrics" description:"address to expose metrics on (overrides metrics_addr)"`
}) error {
	cfg, err := c.loadConfig(opts.Global)
	if err != nil {
		c.log.Error("error loading configuration", "error", err)
		return err
	}

	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		go func() {
			c.log.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				c.log.Error("metrics listener stopped", "error", err)
			}
		}()
	}

	server.Version = Version

	c.log.Info("starting MCP server", "version", Version, "commit", GitCommit)

	srv := server.NewWithConfig(cfg, c.log.Named("server"))
	return srv.Run()
}

// measureSettings applies configured defaults to the channel and bit depth flags.
func measureSettings(cfg *config.Config, m Measure) (imaging.Channel, int, error) {
	ch := cfg.Channel()
	if m.Channel != "" {
		parsed, err := imaging.ParseChannel(m.Channel)
		if err != nil {
			return "", 0, err
		}
		ch = parsed
	}

	depth := cfg.DefaultBitDepth
	if m.BitDepth != 0 {
		depth = m.BitDepth
	}
	return ch, depth, nil
}

func (c *CLI) mutualInformation(ctx context.Context, opts struct {
	Global
	Measure
	A string `short:"a" long:"image-a" description:"first image" required:"true"`
	B string `short:"b" long:"image-b" description:"second image" required:"true"`
}) error {
	cfg, err := c.loadConfig(opts.Global)
	if err != nil {
		return err
	}
	ch, depth, err := measureSettings(cfg, opts.Measure)
	if err != nil {
		return err
	}

	cache := imaging.NewImageCacheSize(cfg.CacheSize)

	a, err := cache.Load(opts.A)
	if err != nil {
		return err
	}
	b, err := cache.Load(opts.B)
	if err != nil {
		return err
	}

	res, err := imaging.CompareImages(a, b, nil, nil, imaging.CompareOptions{
		Channel:  ch,
		BitDepth: depth,
		Workers:  cfg.Workers,
	})
	if err != nil {
		return errors.Wrapf(err, "comparing %s and %s", opts.A, opts.B)
	}

	return c.printJSON(res)
}

func (c *CLI) entropy(ctx context.Context, opts struct {
	Global
	Measure
	Path string `short:"p" long:"path" description:"image to measure" required:"true"`
}) error {
	cfg, err := c.loadConfig(opts.Global)
	if err != nil {
		return err
	}
	ch, depth, err := measureSettings(cfg, opts.Measure)
	if err != nil {
		return err
	}

	img, err := imaging.NewImageCacheSize(cfg.CacheSize).Load(opts.Path)
	if err != nil {
		return err
	}

	s, err := imaging.ToSamples(img, ch, nil)
	if err != nil {
		return err
	}

	res, err := imaging.ChannelEntropy(s, depth, cfg.Workers)
	if err != nil {
		return errors.Wrapf(err, "measuring %s", opts.Path)
	}

	return c.printJSON(res)
}

func (c *CLI) version(ctx context.Context, opts struct{}) error {
	fmt.Fprintf(c.out, "image-mi-mcp %s\n", Version)
	fmt.Fprintf(c.out, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(c.out, "  Git commit: %s\n", GitCommit)
	return nil
}

func (c *CLI) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
