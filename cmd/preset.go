package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ByLCY/cylscale/config"
	"github.com/ByLCY/cylscale/presets"
	"github.com/ByLCY/cylscale/settings"
)

var (
	presetDB     string
	presetOutput string
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage named settings stored in the preset database",
	Long: `Save, list, show, load and delete named settings.

Examples:
  cylscale preset save "M1A 1 MOA" -s m1a.json -r records.xlsx
  cylscale preset list
  cylscale preset show <id> -o m1a.json
  cylscale preset delete <id>`,
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current settings under a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := input.loadDocument()
		if err != nil {
			return err
		}
		return withStore(func(ctx context.Context, s *presets.Store) error {
			p, err := s.Create(ctx, args[0], doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已保存预设 %s (%s)\n", p.Name, p.ID)
			return nil
		})
	},
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *presets.Store) error {
			list, err := s.List(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCLICKS\tUPDATED")
			for _, p := range list {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Settings.NumClicks, p.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		})
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Write a preset's settings as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *presets.Store) error {
			p, err := s.Get(ctx, args[0])
			if err != nil {
				return err
			}
			data, err := settings.Encode(p.Settings)
			if err != nil {
				return err
			}
			return writeOutput(cmd, presetOutput, append(data, '\n'))
		})
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *presets.Store) error {
			if err := s.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已删除预设 %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.PersistentFlags().StringVar(&presetDB, "db", "", "preset database path (CYLSCALE_DB_PATH when empty)")

	input.register(presetSaveCmd.Flags())
	presetShowCmd.Flags().StringVarP(&presetOutput, "output", "o", "-", "output path (- for stdout)")

	presetCmd.AddCommand(presetSaveCmd, presetListCmd, presetShowCmd, presetDeleteCmd)
}

func withStore(fn func(ctx context.Context, s *presets.Store) error) error {
	path := presetDB
	if path == "" {
		path = config.Load().DBPath
	}
	ctx := context.Background()
	s, err := presets.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("打开预设库 %s 失败: %w", path, err)
	}
	defer s.Close()
	logger.Debug("preset store opened", "path", path)
	return fn(ctx, s)
}
