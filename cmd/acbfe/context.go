package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"acbfe/internal/comic"
	"acbfe/internal/config"
	"acbfe/internal/logging"
)

type commandContext struct {
	configFlag *string
	inputFlag  *string
	outputFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, inputFlag, outputFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		inputFlag:  inputFlag,
		outputFlag: outputFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) input() (string, error) {
	if c.inputFlag == nil || strings.TrimSpace(*c.inputFlag) == "" {
		return "", errors.New("no comic given; pass --input <file>")
	}
	return config.ExpandPath(strings.TrimSpace(*c.inputFlag))
}

// output returns --output, or where the input is saved back to when it is empty.
func (c *commandContext) output(input string) (string, error) {
	if c.outputFlag != nil && strings.TrimSpace(*c.outputFlag) != "" {
		return config.ExpandPath(strings.TrimSpace(*c.outputFlag))
	}
	return defaultOutput(input), nil
}

// defaultOutput keeps .acbf and .cbz files in place; other archives are
// rewritten as CBZ next to the original.
func defaultOutput(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	if ext == ".acbf" || ext == ".cbz" {
		return input
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".cbz"
}

// openSession opens --input and registers its cleanup with the command context.
func (c *commandContext) openSession(ctx context.Context, cmd *cobra.Command) (*comic.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	path, err := c.input()
	if err != nil {
		return nil, err
	}
	bar := newProgress(cmd.ErrOrStderr(), "extracting")
	s, err := comic.Open(ctx, path, comic.Options{Config: cfg, Logger: c.log(), Progress: bar.update})
	bar.finish()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// withSession runs fn on the opened input. When edit is true and fn
// modified the document, the book is saved to --output.
func (c *commandContext) withSession(cmd *cobra.Command, edit bool, fn func(*comic.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := c.openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(s); err != nil {
		return err
	}
	if !edit || !s.Modified() {
		return nil
	}
	return c.save(cmd, s)
}

func (c *commandContext) save(cmd *cobra.Command, s *comic.Session) error {
	out, err := c.output(s.SourcePath)
	if err != nil {
		return err
	}
	bar := newProgress(cmd.ErrOrStderr(), "packing")
	report, err := s.SaveTo(cmd.Context(), out, bar.update)
	bar.finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", report.Output)
	return nil
}

// progress draws a progress bar on terminals and stays silent elsewhere.
type progress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
	mu  sync.Mutex
	msg string
}

func newProgress(w io.Writer, description string) *progress {
	return &progress{w: w, msg: description}
}

func (p *progress) update(done, total int) {
	if p == nil || !isTerminal(p.w) || total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(p.msg),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(done)
}

func (p *progress) finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func parsePage(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid page number %q", arg)
	}
	return n, nil
}

func itoa(v int) string { return strconv.Itoa(v) }

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
