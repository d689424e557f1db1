package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/momentum/internal/api"
	"github.com/mtlprog/momentum/internal/config"
	"github.com/mtlprog/momentum/internal/database"
	"github.com/mtlprog/momentum/internal/filter"
	"github.com/mtlprog/momentum/internal/logger"
	"github.com/mtlprog/momentum/internal/render"
	"github.com/mtlprog/momentum/internal/repository"
	"github.com/mtlprog/momentum/internal/service"
)

const configKey = "config"

func main() {
	app := &cli.App{
		Name:  "momentum",
		Usage: "Task board client for the momentum API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath(),
				Usage:   "Path to the YAML config file",
				EnvVars: []string{"MOMENTUM_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the remote task API",
				EnvVars: []string{"MOMENTUM_API_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token for the remote task API",
				EnvVars: []string{"MOMENTUM_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "state-url",
				Usage:   "Local state: sqlite file path or postgres:// URL",
				EnvVars: []string{"MOMENTUM_STATE_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print JSON instead of formatted text",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger.Setup(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			c.App.Metadata = map[string]interface{}{configKey: cfg}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "board",
				Usage:  "Show tasks grouped by status, filtered by the applied filters",
				Action: runBoard,
			},
			{
				Name:  "filter",
				Usage: "Inspect and edit board filters",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show applied and staged filters",
						Action: runFilterShow,
					},
					{
						Name:      "toggle",
						Usage:     "Stage or unstage a filter",
						ArgsUsage: "<department|employee|priority> <key>",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:    "apply",
								Aliases: []string{"a"},
								Usage:   "Apply the staged filters right away",
							},
						},
						Action: runFilterToggle,
					},
					{
						Name:   "apply",
						Usage:  "Apply the staged filters",
						Action: runFilterApply,
					},
					{
						Name:      "remove",
						Usage:     "Remove one applied filter",
						ArgsUsage: "<department|employee|priority> <key>",
						Action:    runFilterRemove,
					},
					{
						Name:   "clear",
						Usage:  "Remove all filters",
						Action: runFilterClear,
					},
				},
			},
			{
				Name:  "task",
				Usage: "Create and inspect tasks",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Fill in the task form and submit it; unsent values are kept as a draft",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Task title"},
							&cli.StringFlag{Name: "description", Usage: "Task description"},
							&cli.StringFlag{Name: "deadline", Usage: "Deadline as DD.MM.YYYY"},
							&cli.IntFlag{Name: "status", Usage: "Status id"},
							&cli.IntFlag{Name: "priority", Usage: "Priority id"},
							&cli.IntFlag{Name: "department", Usage: "Department id"},
							&cli.IntFlag{Name: "employee", Usage: "Employee id"},
							&cli.BoolFlag{Name: "dry-run", Usage: "Save the draft and show the form without submitting"},
						},
						Action: runTaskCreate,
					},
					{
						Name:   "draft",
						Usage:  "Show the saved task form draft",
						Action: runTaskDraft,
					},
					{
						Name:      "show",
						Usage:     "Show a task with its comments",
						ArgsUsage: "<task-id>",
						Action:    runTaskShow,
					},
					{
						Name:      "status",
						Usage:     "Move a task to another status",
						ArgsUsage: "<task-id> <status-id>",
						Action:    runTaskStatus,
					},
					{
						Name:      "comment",
						Usage:     "Comment on a task",
						ArgsUsage: "<task-id> <text>",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "parent", Aliases: []string{"p"}, Usage: "Reply to this top-level comment id"},
						},
						Action: runTaskComment,
					},
				},
			},
			{
				Name:  "employee",
				Usage: "Manage employees",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Create an employee",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Usage: "First name"},
							&cli.StringFlag{Name: "surname", Usage: "Surname"},
							&cli.IntFlag{Name: "department", Usage: "Department id"},
							&cli.PathFlag{Name: "avatar", Usage: "Avatar image file"},
						},
						Action: runEmployeeCreate,
					},
				},
			},
			{
				Name:  "serve",
				Usage: "Start the local HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "access-token",
						Usage:   "Bearer token required by /api/v1 (empty disables auth)",
						EnvVars: []string{"MOMENTUM_ACCESS_TOKEN"},
					},
				},
				Action: runServe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag and environment overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	overrides := map[string]*string{
		"api-url":    &cfg.APIURL,
		"token":      &cfg.Token,
		"state-url":  &cfg.StateURL,
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
	}
	for flag, dst := range overrides {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func configFrom(c *cli.Context) config.Config {
	if cfg, ok := c.App.Metadata[configKey].(config.Config); ok {
		return cfg
	}
	return config.Default()
}

// env holds what every command needs: the remote API, local state and output.
type env struct {
	cfg   config.Config
	db    *database.DB
	api   *api.Client
	state *repository.StateRepository
	out   render.Formatter
}

func openEnv(c *cli.Context) (*env, error) {
	cfg := configFrom(c)

	if !strings.HasPrefix(cfg.StateURL, "postgres://") && !strings.HasPrefix(cfg.StateURL, "postgresql://") {
		if err := config.EnsureDir(strings.TrimPrefix(cfg.StateURL, "sqlite://")); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := database.Setup(c.Context, cfg.StateURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	return &env{
		cfg:   cfg,
		db:    db,
		api:   api.New(cfg.APIURL, cfg.Token, time.Duration(cfg.RequestTimeout)*time.Second),
		state: repository.NewStateRepository(db),
		out:   render.New(c.Bool("json")),
	}, nil
}

func (e *env) Close() {
	e.db.Close()
}

func (e *env) boardService(ctx context.Context) *service.BoardService {
	return service.NewBoardService(e.api, filter.New(ctx, e.state))
}

func (e *env) print(c *cli.Context, s string) {
	fmt.Fprint(c.App.Writer, s)
}
