package ctl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// Config carries the persistent CLI settings.
type Config struct {
	Addr   string
	LogLvl string
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// BuildRootCmd constructs the Cobra command tree wired to a daemon client.
func BuildRootCmd() *cobra.Command {
	cfg := &Config{
		Addr:   envStr("SAMJD_ADDR", "http://localhost:8080"),
		LogLvl: envStr("SAMJCTL_LOG_LEVEL", "info"),
	}
	var client *Client

	root := &cobra.Command{
		Use:           "samjctl",
		Short:         "Client for a running samjd segmentation daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	root.PersistentFlags().String("addr", cfg.Addr, "samjd address (defaults SAMJD_ADDR or http://localhost:8080)")
	root.PersistentFlags().String("log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults SAMJCTL_LOG_LEVEL or info)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if f := cmd.InheritedFlags().Lookup("addr"); f != nil && f.Value.String() != "" {
			cfg.Addr = f.Value.String()
		}
		if f := cmd.InheritedFlags().Lookup("log-level"); f != nil && f.Value.String() != "" {
			cfg.LogLvl = f.Value.String()
		}
		SetLogLevel(cfg.LogLvl)
		client = NewClient(cfg.Addr)
	}

	modelsCmd := &cobra.Command{Use: "models", Short: "List model families and install state", RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Models(context.Background())
		if err != nil {
			return err
		}
		return printJSON(resp)
	}}
	root.AddCommand(modelsCmd)

	statusCmd := &cobra.Command{Use: "status", Short: "Show daemon status", RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Status(context.Background())
		if err != nil {
			return err
		}
		return printJSON(resp)
	}}
	root.AddCommand(statusCmd)

	var openModel string
	openCmd := &cobra.Command{Use: "open <image-path>", Short: "Open a segmentation session for one image", Example: "  samjctl open ./cells.png --model efficientsam", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		info("[samjctl] Opening session for %s", args[0])
		resp, err := client.Open(context.Background(), openModel, args[0])
		if err != nil {
			return err
		}
		return printJSON(resp)
	}}
	openCmd.Flags().StringVar(&openModel, "model", "", "Model family id (empty uses the daemon default)")
	root.AddCommand(openCmd)

	var negPoints []string
	pointsCmd := &cobra.Command{Use: "points <session-id> <x,y> [x,y ...]", Short: "Segment from point prompts", Example: "  samjctl points 6f1c 120,80 130,85 --neg 40,40", Args: cobra.MinimumNArgs(2), RunE: func(cmd *cobra.Command, args []string) error {
		pts, err := parsePoints(args[1:])
		if err != nil {
			return err
		}
		negs, err := parsePoints(negPoints)
		if err != nil {
			return err
		}
		resp, err := client.Points(context.Background(), args[0], types.PointsRequest{Points: pts, NegPoints: negs})
		if err != nil {
			return err
		}
		debug("[samjctl] %d polygon(s)", len(resp.Polygons))
		return printJSON(resp)
	}}
	pointsCmd.Flags().StringArrayVar(&negPoints, "neg", nil, "Negative point x,y (repeatable)")
	root.AddCommand(pointsCmd)

	boxCmd := &cobra.Command{Use: "box <session-id> <x0,y0,x1,y1>", Short: "Segment from a bounding box", Example: "  samjctl box 6f1c 10,10,200,160", Args: cobra.ExactArgs(2), RunE: func(cmd *cobra.Command, args []string) error {
		min, max, err := parseBox(args[1])
		if err != nil {
			return err
		}
		resp, err := client.Box(context.Background(), args[0], types.BoxRequest{Min: min, Max: max})
		if err != nil {
			return err
		}
		return printJSON(resp)
	}}
	root.AddCommand(boxCmd)

	maskCmd := &cobra.Command{Use: "mask <session-id> <raster.json>", Short: "Segment from a mask raster (JSON file with width/height/pix)", Args: cobra.ExactArgs(2), RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		var raster types.Raster
		if err := json.Unmarshal(data, &raster); err != nil {
			return fmt.Errorf("parse raster %s: %w", args[1], err)
		}
		resp, err := client.Mask(context.Background(), args[0], types.MaskRequest{Mask: raster})
		if err != nil {
			return err
		}
		return printJSON(resp)
	}}
	root.AddCommand(maskCmd)

	closeCmd := &cobra.Command{Use: "close <session-id>", Short: "Close a session and stop its backend worker", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.Close(context.Background(), args[0]); err != nil {
			return err
		}
		info("[samjctl] Session %s closed", args[0])
		return nil
	}}
	root.AddCommand(closeCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}
