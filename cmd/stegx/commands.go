package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hengadev/errsx"
	"gopkg.in/yaml.v3"

	"github.com/hengadev/stegx"
	"github.com/hengadev/stegx/internal/imageio"
	"github.com/hengadev/stegx/internal/monitoring"
	"github.com/hengadev/stegx/providers/secrets/hashicorp"
)

// DefaultConfigPath is read when -config is not given and the file exists.
const DefaultConfigPath = "stegx.yaml"

var errUsage = errors.New("usage")

const (
	vaultAttempts   = 3
	vaultRetryDelay = 250 * time.Millisecond
)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// commonFlags are shared by every command that builds a codec.
type commonFlags struct {
	configPath  string
	placement   string
	scramble    bool
	verbose     bool
	logFormat   string
	password    string
	passwordEnv string
	vaultSecret string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Path to YAML configuration file (default stegx.yaml if present)")
	fs.StringVar(&c.placement, "placement", "", "Bit placement: sequential or permuted")
	fs.BoolVar(&c.scramble, "scramble", false, "Scramble 10x10 pixel blocks")
	fs.BoolVar(&c.verbose, "v", false, "Verbose output")
	fs.StringVar(&c.logFormat, "log-format", "", "Log format: text or json")
	fs.StringVar(&c.password, "password", "", "Password (prefer -password-env or -vault-secret)")
	fs.StringVar(&c.passwordEnv, "password-env", stegx.EnvPassword, "Environment variable holding the password")
	fs.StringVar(&c.vaultSecret, "vault-secret", "", "Read the password from Vault KV v2 secret stegx/<name>")
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// setFlags returns the names of flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// buildCodec layers config file, environment and flags, in that order.
func (a *app) buildCodec(fs *flag.FlagSet, c *commonFlags) (*stegx.Codec, *slog.Logger, error) {
	path := c.configPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			path = DefaultConfigPath
		}
	}

	cfg, fileCfg, err := stegx.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	set := setFlags(fs)
	if set["placement"] {
		p, err := stegx.ParsePlacement(c.placement)
		if err != nil {
			return nil, nil, err
		}
		cfg.Placement = p
	}
	if set["scramble"] {
		cfg.Scramble = c.scramble
	}

	logger, err := a.newLogger(fileCfg, c)
	if err != nil {
		return nil, nil, err
	}
	cfg.Logger = logger
	cfg.ObservabilityHook = stegx.NewLoggingObservabilityHook(logger)

	codec, err := stegx.NewCodecFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return codec, logger, nil
}

func (a *app) newLogger(fileCfg stegx.FileConfig, c *commonFlags) (*slog.Logger, error) {
	level, err := monitoring.ParseLogLevel(fileCfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stegx.ErrInvalidConfiguration, err)
	}
	if c.verbose {
		level = slog.LevelDebug
	}

	formatName := fileCfg.LogFormat
	if c.logFormat != "" {
		formatName = c.logFormat
	}
	format, err := monitoring.ParseLogFormat(formatName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stegx.ErrInvalidConfiguration, err)
	}

	return monitoring.NewLogger(monitoring.LoggerConfig{
		Level:     level,
		Format:    format,
		Output:    a.stderr,
		Component: "cli",
	}), nil
}

// passwordSource picks Vault, then a literal flag, then the environment.
func (a *app) passwordSource(ctx context.Context, c *commonFlags, logger *slog.Logger) (stegx.PasswordSource, error) {
	switch {
	case c.vaultSecret != "":
		source, err := hashicorp.NewKVPasswordSource(ctx, c.vaultSecret)
		if err != nil {
			return nil, err
		}
		return stegx.NewRetryingPasswordSource(source, vaultAttempts, vaultRetryDelay,
			func(attempt int, delay time.Duration, err error) {
				logger.Warn("vault unavailable, retrying", "attempt", attempt, "delay", delay, "error", err)
			}), nil
	case c.password != "":
		return stegx.StaticPasswordSource(c.password), nil
	default:
		return stegx.EnvPasswordSource{Name: c.passwordEnv}, nil
	}
}

func requireFlags(values map[string]string) error {
	errs := errsx.Map{}
	for name, value := range values {
		if value == "" {
			errs.Set(name, fmt.Sprintf("-%s is required", name))
		}
	}
	if !errs.IsEmpty() {
		return fmt.Errorf("%w: %w", stegx.ErrInvalidConfiguration, errs.AsError())
	}
	return nil
}

func (a *app) readMessage(text, textFile string) (string, error) {
	switch {
	case text != "" && textFile != "":
		return "", fmt.Errorf("%w: use either -text or -text-file", stegx.ErrInvalidConfiguration)
	case textFile == "-":
		b, err := io.ReadAll(a.stdin)
		return string(b), err
	case textFile != "":
		b, err := os.ReadFile(textFile)
		return string(b), err
	default:
		return text, nil
	}
}

func (a *app) encodeCommand(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	in := fs.String("in", "", "Cover image (png, bmp or jpeg)")
	out := fs.String("out", "", "Output image (.png or .bmp)")
	text := fs.String("text", "", "Message to hide")
	textFile := fs.String("text-file", "", "Read the message from a file, or - for stdin")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := requireFlags(map[string]string{"in": *in, "out": *out}); err != nil {
		return err
	}
	if _, err := imageio.FormatFromPath(*out); err != nil {
		return err
	}

	ctx := context.Background()
	codec, logger, err := a.buildCodec(fs, &common)
	if err != nil {
		return err
	}
	message, err := a.readMessage(*text, *textFile)
	if err != nil {
		return err
	}
	source, err := a.passwordSource(ctx, &common, logger)
	if err != nil {
		return err
	}

	img, err := imageio.ReadFile(*in)
	if err != nil {
		return err
	}
	encoded, err := codec.EncodeWithSource(ctx, img, message, source)
	if err != nil {
		if stegx.IsCapacityError(err) {
			return fmt.Errorf("%w (image holds at most %d bytes)", err, codec.MaxMessageBytes(img.Width, img.Height))
		}
		return err
	}
	if err := imageio.WriteFile(*out, encoded); err != nil {
		return err
	}

	logger.Info("message hidden", "in", *in, "out", *out, "message_bytes", len(message))
	return nil
}

func (a *app) decodeCommand(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	in := fs.String("in", "", "Image carrying a message")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := requireFlags(map[string]string{"in": *in}); err != nil {
		return err
	}

	ctx := context.Background()
	codec, logger, err := a.buildCodec(fs, &common)
	if err != nil {
		return err
	}
	source, err := a.passwordSource(ctx, &common, logger)
	if err != nil {
		return err
	}

	img, err := imageio.ReadFile(*in)
	if err != nil {
		return err
	}
	message, err := codec.DecodeWithSource(ctx, img, source)
	if err != nil {
		var decodeErr *stegx.DecodeError
		if errors.As(err, &decodeErr) {
			logger.Debug("decode failed", "kind", decodeErr.Kind)
			return stegx.ErrDecodeFailed
		}
		return err
	}

	fmt.Fprintln(a.stdout, message)
	return nil
}

func (a *app) capacityCommand(args []string) error {
	fs := flag.NewFlagSet("capacity", flag.ContinueOnError)
	in := fs.String("in", "", "Image to measure")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := requireFlags(map[string]string{"in": *in}); err != nil {
		return err
	}

	img, err := imageio.ReadFile(*in)
	if err != nil {
		return err
	}
	codec, err := stegx.NewCodec()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "dimensions:   %dx%d\n", img.Width, img.Height)
	fmt.Fprintf(a.stdout, "bit slots:    %d\n", codec.Capacity(img.Width, img.Height))
	fmt.Fprintf(a.stdout, "max message:  %d bytes\n", codec.MaxMessageBytes(img.Width, img.Height))
	return nil
}

func (a *app) scrambleCommand(args []string, reverse bool) error {
	name := "scramble"
	if reverse {
		name = "unscramble"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	in := fs.String("in", "", "Input image")
	out := fs.String("out", "", "Output image (.png or .bmp)")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := requireFlags(map[string]string{"in": *in, "out": *out}); err != nil {
		return err
	}

	ctx := context.Background()
	codec, logger, err := a.buildCodec(fs, &common)
	if err != nil {
		return err
	}
	source, err := a.passwordSource(ctx, &common, logger)
	if err != nil {
		return err
	}
	password, err := stegx.ResolvePassword(ctx, source)
	if err != nil {
		return err
	}

	img, err := imageio.ReadFile(*in)
	if err != nil {
		return err
	}
	if reverse {
		img, err = codec.Unscramble(ctx, img, password)
	} else {
		img, err = codec.Scramble(ctx, img, password)
	}
	if err != nil {
		return err
	}
	return imageio.WriteFile(*out, img)
}

func (a *app) initCommand(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := fs.String("config", DefaultConfigPath, "Where to write the configuration file")
	force := fs.Bool("force", false, "Overwrite existing configuration file")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	if !*force {
		if _, err := os.Stat(*path); err == nil {
			return fmt.Errorf("configuration file %s already exists, use -force to overwrite", *path)
		}
	}

	defaults := stegx.DefaultConfig()
	data, err := yaml.Marshal(stegx.FileConfig{
		Placement:     defaults.Placement.String(),
		Scramble:      defaults.Scramble,
		KDFIterations: defaults.KDFIterations,
		LogLevel:      "info",
		LogFormat:     "text",
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(*path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(a.stdout, "Configuration file created at %s\n", *path)
	return nil
}

func (a *app) versionCommand() {
	fmt.Fprintln(a.stdout, stegx.VersionInfo())
}
