package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/lixenwraith/tbox/bell"
	"github.com/lixenwraith/tbox/config"
	"github.com/lixenwraith/tbox/terminal"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "tbox-demo",
		Short:         "Echo terminal input events",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runDemo(cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input-mode", "", "input mode: current, esc, alt, esc_mouse, alt_mouse")
	flags.Bool("buffer-stderr", false, "hold stderr output until exit")
	flags.Bool("raw", false, "show untranslated key records")
	flags.Bool("bell", false, "ring on Ctrl-G and undecodable keys")
	flags.Bool("debug", false, "write logs/tbox-demo.log")
	flags.Duration("peek-timeout", 0, "poll with this timeout instead of blocking")
	flags.String("tty", "", "terminal device to open instead of /dev/tty")
	flags.String("surface", "", "rendering backend: tcell or ansi")

	if err := bindFlags(v, cmd); err != nil {
		// Every flag is defined just above
		panic(err)
	}
	return cmd
}

// flagKeys maps each kebab-case flag onto its snake_case config key
var flagKeys = map[string]string{
	"input-mode":    "input_mode",
	"buffer-stderr": "buffer_stderr",
	"raw":           "raw",
	"bell":          "bell",
	"debug":         "debug",
	"peek-timeout":  "peek_timeout",
	"tty":           "tty",
	"surface":       "surface",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

func runDemo(cfg config.DemoConfig) (err error) {
	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	if cfg.TTY == "" && !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal; use --tty to pick a device")
	}

	var b *bell.Bell
	if cfg.Bell {
		b = bell.New(bell.DefaultConfig())
		if berr := b.Init(); berr != nil {
			log.Printf("bell disabled: %v", berr)
		}
		defer b.Close()
	}

	sess, err := terminal.Open(newSurface(cfg), opts)
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing terminal: %w", cerr)
		}
	}()

	// Restore the terminal before reporting a crash so the trace is visible
	defer func() {
		if r := recover(); r != nil {
			if terminal.Running() {
				sess.Close()
			}
			fmt.Fprintf(os.Stderr, "\ntbox-demo crashed: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	log.Printf("session open: surface=%s mode=%s buffer_stderr=%v raw=%v", cfg.Surface, opts.InputMode, opts.BufferStderr, cfg.Raw)

	var r ringer
	if b != nil {
		r = b
	}
	return newApp(sess, r, cfg.Raw, cfg.PeekTimeout, opts.InputMode).run()
}

// newSurface builds the configured backend, pointed at cfg.TTY when set
func newSurface(cfg config.DemoConfig) terminal.Surface {
	if cfg.Surface == config.SurfaceANSI {
		var opts []terminal.AnsiOption
		if cfg.TTY != "" {
			opts = append(opts, terminal.WithAnsiTTY(cfg.TTY))
		}
		return terminal.NewAnsiSurface(opts...)
	}

	var opts []terminal.TcellOption
	if cfg.TTY != "" {
		opts = append(opts, terminal.WithTTY(cfg.TTY))
	}
	return terminal.NewTcellSurface(opts...)
}
