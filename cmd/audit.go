package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattjaikaran/matt-stack/internal/audit"
	"github.com/mattjaikaran/matt-stack/internal/auditor"
	"github.com/mattjaikaran/matt-stack/internal/logging"
	"github.com/mattjaikaran/matt-stack/internal/model"
	"github.com/mattjaikaran/matt-stack/internal/report"
)

var (
	auditTypes  string
	liveProbe   bool
	baseURL     string
	noTodo      bool
	jsonOutput  bool
	autoFix     bool
	htmlReport  bool
	minSeverity string
	debugMode   bool
)

var auditCmd = &cobra.Command{
	Use:   "audit [path]",
	Short: "Audit a project for type drift, code quality, endpoint and dependency issues",
	Long: `Statically analyzes a scaffolded project: Pydantic/TS/Zod type sync,
code quality, route health, test coverage, dependency hygiene and known
vulnerabilities. Compiled auditor plugins in <project>/matt-stack-plugins
are picked up automatically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditTypes, "types", "", "comma-separated audit categories to run (default: all)")
	auditCmd.Flags().BoolVar(&liveProbe, "live", false, "GET-probe discovered endpoints against --base-url")
	auditCmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8000", "base URL for --live probing")
	auditCmd.Flags().BoolVar(&noTodo, "no-todo", false, "skip writing findings to tasks/todo.md")
	auditCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the report as JSON")
	auditCmd.Flags().BoolVar(&autoFix, "fix", false, "remove debug statements in place")
	auditCmd.Flags().BoolVar(&htmlReport, "html", false, "write an HTML dashboard to the project root")
	auditCmd.Flags().StringVar(&minSeverity, "min-severity", "info", "lowest severity to report (info|warning|error)")
	auditCmd.Flags().BoolVar(&debugMode, "debug", false, "verbose logging")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	logging.InitLogger(debugMode)
	defer logging.Logger.Sync()

	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	projectPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	applyProjectConfig(cmd, projectPath)

	var categories []model.Category
	if auditTypes != "" {
		for _, raw := range strings.Split(auditTypes, ",") {
			cat, err := model.ParseCategory(raw)
			if err != nil {
				return fmt.Errorf("%w (valid: %s)", err, joinCategories())
			}
			categories = append(categories, cat)
		}
	}

	minSev, err := model.ParseSeverity(minSeverity)
	if err != nil {
		return err
	}

	cfg := auditor.Config{
		ProjectPath: projectPath,
		Categories:  categories,
		Live:        liveProbe,
		WriteTodo:   !noTodo,
		JSONOutput:  jsonOutput,
		Fix:         autoFix,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		MinSeverity: minSev,
	}

	if !cfg.JSONOutput {
		color.Cyan("\nAuditing: %s\n", projectPath)
	}

	rep, fixCount, err := audit.Run(cfg)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return report.WriteJSON(os.Stdout, rep)
	}

	report.WriteConsole(os.Stdout, rep)

	if autoFix && fixCount > 0 {
		color.Green("Removed %d debug statements", fixCount)
	}

	if htmlReport {
		htmlPath, err := report.WriteHTML(rep, projectPath)
		if err != nil {
			return err
		}
		color.Green("Wrote HTML report to %s", htmlPath)
	}

	if cfg.WriteTodo {
		todoPath, err := report.WriteTodo(rep, projectPath)
		if err != nil {
			return err
		}
		if todoPath != "" {
			color.Green("Wrote findings to %s", todoPath)
		} else if len(rep.Findings) > 0 {
			fmt.Println("No actionable findings to write to todo.md")
		}
	}

	switch {
	case rep.ErrorCount() > 0:
		color.Red("%d errors need attention", rep.ErrorCount())
	case rep.WarningCount() > 0:
		color.Yellow("%d warnings to review", rep.WarningCount())
	default:
		color.Green("Project looks clean!")
	}
	return nil
}

// applyProjectConfig overlays .matt-stack.yaml settings onto flags the user
// did not set explicitly. Flags always win.
func applyProjectConfig(cmd *cobra.Command, projectPath string) {
	v := viper.New()
	v.SetConfigName(".matt-stack")
	v.SetConfigType("yaml")
	v.AddConfigPath(projectPath)
	if err := v.ReadInConfig(); err != nil {
		return
	}
	logging.Logger.Debugw("loaded project config", "file", v.ConfigFileUsed())

	if !cmd.Flags().Changed("base-url") && v.IsSet("audit.base_url") {
		baseURL = v.GetString("audit.base_url")
	}
	if !cmd.Flags().Changed("min-severity") && v.IsSet("audit.min_severity") {
		minSeverity = v.GetString("audit.min_severity")
	}
	if !cmd.Flags().Changed("types") && v.IsSet("audit.types") {
		auditTypes = strings.Join(v.GetStringSlice("audit.types"), ",")
	}
	if !cmd.Flags().Changed("live") && v.IsSet("audit.live") {
		liveProbe = v.GetBool("audit.live")
	}
}

func joinCategories() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
