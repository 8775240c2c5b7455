package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/leom731/pbxpatch/pkg/config"
	"github.com/leom731/pbxpatch/pkg/pbx"
	"github.com/urfave/cli/v3"
)

func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Register source files with the project manifest",
		ArgsUsage: "[files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "pbxpatch.toml", Usage: "config file path"},
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "project.pbxproj path (overrides config)"},
			&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "root group name (overrides config)"},
			&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "report what would be registered without writing"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Action: runAdd,
	}
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if cmd.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := loadAddConfig(cmd)
	if err != nil {
		return err
	}

	files := cmd.Args().Slice()
	if len(files) == 0 {
		files = cfg.Add.Files
	}
	if len(files) == 0 {
		return errors.New("no files to register (pass them as arguments or set add.files in the config)")
	}

	opts := pbx.Options{Group: cfg.Project.Group}
	logger.Debug("patching project",
		"path", cfg.Project.Path,
		"group", cfg.Project.Group,
		"files", len(files))

	start := time.Now()

	var result *pbx.Result
	if cmd.Bool("dry-run") {
		result, err = dryRun(cfg.Project.Path, files, opts)
	} else {
		result, err = pbx.Patch(cfg.Project.Path, files, opts)
	}
	if err != nil {
		return err
	}

	for _, e := range result.Entries {
		if e.AlreadyListed {
			logger.Warn("file already mentioned in project; entries will be duplicated", "file", e.Name)
		}
	}
	if !result.BuildFilesUpdated {
		logger.Warn("PBXBuildFile end marker not found; build file entries skipped")
	}
	if !result.GroupUpdated {
		logger.Debug("root group not found; group membership skipped", "group", cfg.Project.Group)
	}
	if !result.SourcesUpdated {
		logger.Debug("Sources build phase not found; build phase membership skipped")
	}
	logger.Debug("done", "duration", time.Since(start).Truncate(time.Millisecond))

	newReporter(os.Stdout).Print(result, cmd.Bool("dry-run"))

	return nil
}

// dryRun applies the patch in memory and discards the mutated text.
func dryRun(path string, files []string, opts pbx.Options) (*pbx.Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", pbx.ErrProjectNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	_, result, err := pbx.PatchText(string(data), files, opts)
	return result, err
}

// loadAddConfig merges the config file with the command's flag overrides. A
// missing config file is only an error when --config was given explicitly.
func loadAddConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	configPath := cmd.String("config")
	loaded, err := config.Load(configPath)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, fs.ErrNotExist) && !cmd.IsSet("config"):
		// no config file; the flags carry the run
	default:
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}

	if p := cmd.String("project"); p != "" {
		cfg.Project.Path = p
	}
	if g := cmd.String("group"); g != "" {
		cfg.Project.Group = g
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
