package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starward/othala/internal"
	"github.com/starward/othala/internal/kb"
	"github.com/starward/othala/internal/mcpserver"
	"github.com/starward/othala/internal/recordservice"
	"github.com/starward/othala/internal/schema"
	"github.com/starward/othala/internal/store"
	pkgconfig "github.com/starward/othala/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if root := cmd.String("root"); root != "" {
		cfg.KB.Root = root
	}
	return cfg, nil
}

// resolveRoot locates the knowledge base for non-server commands.
func resolveRoot(cmd *cli.Command) (string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return internal.ResolveRoot(cfg)
}

func newService() *recordservice.Service {
	return recordservice.NewService(schema.New())
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func initAction(_ context.Context, cmd *cli.Command) error {
	dir := cmd.Args().Get(0)
	if dir == "" {
		dir = "."
	}
	if err := kb.Init(dir); err != nil {
		return err
	}
	fmt.Printf("initialized knowledge base in %s\n", dir)
	return nil
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}
	items, err := newService().ListRecords(ctx, root, recordservice.ListFilter{
		Tag:    cmd.String("tag"),
		Status: cmd.String("status"),
		Kind:   cmd.String("type"),
	})
	if err != nil {
		return err
	}
	for _, it := range items {
		fmt.Printf("%-30s %-8s %s\n", it.ID, it.Kind, it.Topic)
	}
	return nil
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().Get(0)
	if id == "" {
		return fmt.Errorf("usage: show <id>")
	}
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}
	raw, err := store.ReadRaw(id, root)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("record %s not found", id)
	}
	fmt.Print(string(raw))
	return nil
}

func searchAction(ctx context.Context, cmd *cli.Command) error {
	query := cmd.Args().Get(0)
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}
	results, err := newService().Search(ctx, root, query)
	if err != nil {
		return err
	}
	for _, res := range results {
		fmt.Printf("%3d  %-30s %s\n     %s\n", res.Score, res.ID, res.Topic, res.Snippet)
	}
	return nil
}

func linkAddAction(ctx context.Context, cmd *cli.Command) error {
	from, to, rel := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
	if from == "" || to == "" || rel == "" {
		return fmt.Errorf("usage: link add <from> <to> <relationship>")
	}
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}
	added, err := newService().AddLink(ctx, root, from, to, rel, cmd.String("notes"))
	if err != nil {
		return err
	}
	if !added {
		fmt.Println("link already exists, skipped")
		return nil
	}
	fmt.Printf("linked %s -[%s]-> %s\n", from, rel, to)
	return nil
}

func linkRemoveAction(ctx context.Context, cmd *cli.Command) error {
	from, to := cmd.Args().Get(0), cmd.Args().Get(1)
	if from == "" || to == "" {
		return fmt.Errorf("usage: link remove <from> <to>")
	}
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}
	removed, err := newService().RemoveLink(ctx, root, from, to, cmd.String("relationship"))
	if err != nil {
		return err
	}
	fmt.Printf("removed %d link(s)\n", removed)
	return nil
}

func backlinksAction(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().Get(0)
	if id == "" {
		return fmt.Errorf("usage: backlinks <id>")
	}
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}
	bl, err := newService().Backlinks(ctx, root, id)
	if err != nil {
		return err
	}
	return printJSON(bl)
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}
	results, err := newService().ValidateAll(ctx, root)
	if err != nil {
		return err
	}
	invalid := 0
	for id, res := range results {
		if res.Valid {
			continue
		}
		invalid++
		fmt.Printf("%s:\n", id)
		for _, v := range res.Errors {
			fmt.Printf("  %s: %s\n", v.Path, v.Message)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d records invalid", invalid, len(results))
	}
	fmt.Printf("all %d records valid\n", len(results))
	return nil
}

func repairAction(ctx context.Context, cmd *cli.Command) error {
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}
	report, err := newService().Reconcile(ctx, root)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func mcpAction(_ context.Context, cmd *cli.Command) error {
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}
	return mcpserver.New(newService(), root).ServeStdio()
}

func main() {
	rootFlag := &cli.StringFlag{
		Name:    "root",
		Aliases: []string{"r"},
		Usage:   "Knowledge-base root (discovered from the working directory when unset)",
		Sources: cli.EnvVars("OTHALA_ROOT"),
	}

	cmd := &cli.Command{
		Name:  "othala",
		Usage: "File-backed personal knowledge base with typed record links, schema validation, and deterministic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			rootFlag,
		},
		Commands: []*cli.Command{
			{Name: "serve", Usage: "Run the HTTP API server", Action: serveAction},
			{Name: "init", Usage: "Provision a knowledge base (idempotent; repairs schemas)", ArgsUsage: "[dir]", Action: initAction},
			{
				Name: "list", Usage: "List records", Action: listAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "Filter by kind (entry|summary)"},
					&cli.StringFlag{Name: "status", Usage: "Filter by status"},
					&cli.StringFlag{Name: "tag", Usage: "Filter by tag"},
				},
			},
			{Name: "show", Usage: "Print a record's YAML", ArgsUsage: "<id>", Action: showAction},
			{Name: "search", Usage: "Search records", ArgsUsage: "<query>", Action: searchAction},
			{
				Name: "link", Usage: "Manage typed links between records",
				Commands: []*cli.Command{
					{
						Name: "add", Usage: "Add a link", ArgsUsage: "<from> <to> <relationship>", Action: linkAddAction,
						Flags: []cli.Flag{&cli.StringFlag{Name: "notes", Usage: "Optional note on the link"}},
					},
					{
						Name: "remove", Usage: "Remove links to a target", ArgsUsage: "<from> <to>", Action: linkRemoveAction,
						Flags: []cli.Flag{&cli.StringFlag{Name: "relationship", Usage: "Only remove this relationship"}},
					},
				},
			},
			{Name: "backlinks", Usage: "Show derived backlinks for a record", ArgsUsage: "<id>", Action: backlinksAction},
			{Name: "validate", Usage: "Validate every record against its schema", Action: validateAction},
			{Name: "repair", Usage: "Reconcile the manifest with the filesystem", Action: repairAction},
			{Name: "mcp", Usage: "Serve MCP tools on stdio", Action: mcpAction},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
