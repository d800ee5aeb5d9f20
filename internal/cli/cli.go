// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mcdonaldj/reltag/internal/config"
	"github.com/mcdonaldj/reltag/internal/tagger"
)

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load(repoPath string) (*config.Config, error)
	Save(cfg *config.Config, repoPath string) error
	ConfigPath(repoPath string) string
	DefaultConfig() *config.Config
}

// TagService provides release tagging operations for the CLI.
type TagService interface {
	EnsureTag(ctx context.Context, cfg *config.Config, repoPath string) (tagger.Outcome, error)
	Check(cfg *config.Config, repoPath string) (tagger.Status, error)
	Tags(cfg *config.Config, repoPath string) ([]tagger.TagInfo, error)
	VerifyRemote(ctx context.Context, cfg *config.Config, repoPath string) (tagger.RemoteStatus, error)
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// Injectable dependencies (nil means use defaults)
	ConfigSvc ConfigService
	TagSvc    TagService

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		gray:    color.New(color.FgHiBlack).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	exitCode := 0
	return &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		Args:    args,
		Exit:    func(code int) { exitCode = code; _ = exitCode },
		green:   noColor,
		yellow:  noColor,
		cyan:    noColor,
		gray:    noColor,
		red:     noColor,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load(repoPath string) (*config.Config, error) {
	return config.Load(repoPath)
}
func (d *defaultConfigService) Save(cfg *config.Config, repoPath string) error {
	return cfg.Save(repoPath)
}
func (d *defaultConfigService) ConfigPath(repoPath string) string { return config.ConfigPath(repoPath) }
func (d *defaultConfigService) DefaultConfig() *config.Config     { return config.DefaultConfig() }

// defaultTagService builds a tagger service for the configured git client.
type defaultTagService struct{}

func (d *defaultTagService) EnsureTag(ctx context.Context, cfg *config.Config, repoPath string) (tagger.Outcome, error) {
	svc, err := tagger.NewServiceFor(cfg)
	if err != nil {
		return tagger.Outcome{}, err
	}
	return svc.EnsureTag(ctx, cfg, repoPath)
}
func (d *defaultTagService) Check(cfg *config.Config, repoPath string) (tagger.Status, error) {
	svc, err := tagger.NewServiceFor(cfg)
	if err != nil {
		return tagger.Status{}, err
	}
	return svc.Check(cfg, repoPath)
}
func (d *defaultTagService) Tags(cfg *config.Config, repoPath string) ([]tagger.TagInfo, error) {
	svc, err := tagger.NewServiceFor(cfg)
	if err != nil {
		return nil, err
	}
	return svc.Tags(cfg, repoPath)
}
func (d *defaultTagService) VerifyRemote(ctx context.Context, cfg *config.Config, repoPath string) (tagger.RemoteStatus, error) {
	svc, err := tagger.NewServiceFor(cfg)
	if err != nil {
		return tagger.RemoteStatus{}, err
	}
	return svc.VerifyRemote(ctx, cfg, repoPath)
}

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) tagSvc() TagService {
	if c.TagSvc != nil {
		return c.TagSvc
	}
	return &defaultTagService{}
}

// repoArg returns the positional repository argument, defaulting to the
// current directory.
func (c *CLI) repoArg() string {
	for _, arg := range c.Args[2:] {
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	return "."
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	if len(c.Args) < 2 {
		// No command - would launch TUI, but we skip that for CLI testing
		fmt.Fprintln(c.Out, "No command specified. Use 'reltag help' for usage.")
		return
	}

	switch c.Args[1] {
	case "run":
		c.RunTag()
	case "check":
		c.RunCheck()
	case "status":
		c.ShowStatus()
	case "tags":
		c.ListTags()
	case "verify":
		c.RunVerify()
	case "init":
		c.InitConfig()
	case "version", "-v", "--version":
		fmt.Fprintf(c.Out, "reltag v%s\n", c.Version)
	case "help", "-h", "--help":
		c.PrintUsage()
	default:
		fmt.Fprintf(c.Err, "Unknown command: %s\n", c.Args[1])
		c.PrintUsage()
		c.Exit(1)
	}
}

// PrintUsage prints the help message.
func (c *CLI) PrintUsage() {
	fmt.Fprintln(c.Out, `reltag - Release Tagging Tool

Usage:
  reltag                                   Launch interactive TUI
  reltag ui [path]                         Launch interactive TUI
  reltag run [path] [--no-push] [--annotated] [--prefix=PREFIX]
                                           Tag the manifest version and push tags
  reltag check [path]                      Report whether the release tag exists
  reltag status [path]                     Show manifest, version, and tag state
  reltag tags [path]                       List local tags
  reltag verify [path]                     Check the release tag against GitHub
  reltag init [path]                       Create a default config file
  reltag version, -v                       Show version
  reltag help, -h                          Show this help

Config: .reltag.yaml in the repository root`)
}

// InitConfig creates the default config file.
func (c *CLI) InitConfig() {
	svc := c.configSvc()
	repoPath := c.repoArg()

	cfg := svc.DefaultConfig()
	if err := svc.Save(cfg, repoPath); err != nil {
		fmt.Fprintf(c.Err, "Error saving config: %v\n", err)
		c.Exit(1)
		return
	}
	fmt.Fprintf(c.Out, "Created config at %s\n", svc.ConfigPath(repoPath))
}

// RunTag extracts the version, creates the release tag, and pushes tags.
func (c *CLI) RunTag() {
	cfgSvc := c.configSvc()
	tagSvc := c.tagSvc()
	repoPath := c.repoArg()

	cfg, err := cfgSvc.Load(repoPath)
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return
	}

	// Parse flags
	for _, arg := range c.Args[2:] {
		switch {
		case arg == "--no-push":
			cfg.Push = false
		case arg == "--annotated":
			cfg.Annotated = true
		case strings.HasPrefix(arg, "--prefix="):
			cfg.TagPrefix = strings.TrimPrefix(arg, "--prefix=")
		}
	}

	fmt.Fprintf(c.Out, "%s Tagging %s...\n", c.cyan("=>"), repoPath)

	out, err := tagSvc.EnsureTag(context.Background(), cfg, repoPath)
	if err != nil {
		var pushErr *tagger.PushError
		if errors.As(err, &pushErr) {
			// The tag exists locally; only the publish failed
			fmt.Fprintf(c.Out, "  %s %s %s\n", c.green("*"), out.TagName, c.gray("(created, not pushed)"))
			fmt.Fprintf(c.Err, "Push failed: %v\n", err)
		} else {
			fmt.Fprintf(c.Err, "Error: %v\n", err)
		}
		c.Exit(1)
		return
	}

	if !out.Created {
		fmt.Fprintf(c.Out, "  %s %s %s\n", c.gray("-"), c.gray(out.TagName), c.gray("(already tagged)"))
		return
	}

	fmt.Fprintf(c.Out, "  %s %s %s\n", c.green("*"), out.TagName, c.yellow("version "+out.Version))
	if out.Pushed {
		fmt.Fprintf(c.Out, "  %s Pushed tags to %s\n", c.green("*"), cfg.Remote)
	}
}

// RunCheck reports whether the release tag for the manifest version exists.
func (c *CLI) RunCheck() {
	cfgSvc := c.configSvc()
	tagSvc := c.tagSvc()
	repoPath := c.repoArg()

	cfg, err := cfgSvc.Load(repoPath)
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return
	}

	st, err := tagSvc.Check(cfg, repoPath)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	if st.Exists {
		fmt.Fprintf(c.Out, "%s %s already tagged\n", c.gray("-"), st.TagName)
	} else {
		fmt.Fprintf(c.Out, "%s %s not tagged yet\n", c.green("*"), st.TagName)
	}
}

// ShowStatus shows the repository release status.
func (c *CLI) ShowStatus() {
	cfgSvc := c.configSvc()
	tagSvc := c.tagSvc()
	repoPath := c.repoArg()

	cfg, err := cfgSvc.Load(repoPath)
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return
	}

	st, err := tagSvc.Check(cfg, repoPath)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	head := st.Head
	if len(head) > 7 {
		head = head[:7]
	}
	if head == "" {
		head = c.gray("-")
	}

	fmt.Fprintln(c.Out, "reltag status:")
	fmt.Fprintf(c.Out, "  Repo:     %s\n", st.RepoPath)
	fmt.Fprintf(c.Out, "  Manifest: %s\n", st.ManifestPath)
	fmt.Fprintf(c.Out, "  Version:  %s\n", st.Version)
	fmt.Fprintf(c.Out, "  Head:     %s\n", head)
	fmt.Fprintf(c.Out, "  Config:   %s\n", cfgSvc.ConfigPath(repoPath))

	if st.Exists {
		fmt.Fprintf(c.Out, "  Tag:      %s %s\n", st.TagName, c.green("(tagged)"))
	} else {
		fmt.Fprintf(c.Out, "  Tag:      %s %s\n", st.TagName, c.gray("(not tagged)"))
	}
}

// ListTags lists all local tags, marking release tags.
func (c *CLI) ListTags() {
	cfgSvc := c.configSvc()
	tagSvc := c.tagSvc()
	repoPath := c.repoArg()

	cfg, err := cfgSvc.Load(repoPath)
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return
	}

	tags, err := tagSvc.Tags(cfg, repoPath)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	if len(tags) == 0 {
		fmt.Fprintf(c.Out, "No tags found in %s\n", repoPath)
		return
	}

	fmt.Fprintf(c.Out, "Tags in %s:\n\n", c.cyan(repoPath))
	releases := 0
	for _, tag := range tags {
		if tag.IsRelease {
			fmt.Fprintf(c.Out, "  %s %s\n", c.green("*"), tag.Name)
			releases++
		} else {
			fmt.Fprintf(c.Out, "  %s %s\n", c.gray("-"), c.gray(tag.Name))
		}
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "%s releases, %d tags total\n", c.green(fmt.Sprintf("%d", releases)), len(tags))
}

// RunVerify checks the release tag against the GitHub remote.
func (c *CLI) RunVerify() {
	cfgSvc := c.configSvc()
	tagSvc := c.tagSvc()
	repoPath := c.repoArg()

	cfg, err := cfgSvc.Load(repoPath)
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return
	}

	rs, err := tagSvc.VerifyRemote(context.Background(), cfg, repoPath)
	if err != nil {
		fmt.Fprintf(c.Err, "Verification failed: %v\n", err)
		c.Exit(1)
		return
	}

	if rs.Exists {
		fmt.Fprintf(c.Out, "%s %s published on %s/%s\n", c.green("*"), rs.TagName, rs.Owner, rs.Repo)
	} else {
		fmt.Fprintf(c.Out, "%s %s not found on %s/%s\n", c.red("x"), rs.TagName, rs.Owner, rs.Repo)
	}
	if rs.LatestRelease != "" {
		fmt.Fprintf(c.Out, "  Latest release: %s\n", c.yellow(rs.LatestRelease))
	}

	if !rs.Exists {
		c.Exit(1)
	}
}
