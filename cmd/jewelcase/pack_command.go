package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"jewelcase/internal/deps"
	"jewelcase/internal/packer"
	"jewelcase/internal/runlock"
	"jewelcase/internal/services/sevenzip"
)

func newPackCommand(cctx *commandContext) *cobra.Command {
	var dryRun bool
	var overwrite bool
	var level int
	var threads int

	cmd := &cobra.Command{
		Use:   "pack [dir]",
		Short: "Archive each game's files into a per-title 7z",
		Long: `Group the cue/bin pairs in a directory by game title, clustering
multi-disc sets, and build one solid 7z archive per title next to the
originals. Existing archives are skipped unless overwriting is enabled.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cctx.newRunEnv(cmd)
			if err != nil {
				return err
			}
			root, err := resolveWorkDir(args)
			if err != nil {
				return err
			}
			if err := checkWorkDir(env.cfg, root); err != nil {
				return err
			}

			if cmd.Flags().Changed("overwrite") {
				env.cfg.Pack.Overwrite = overwrite
			}
			if cmd.Flags().Changed("level") {
				env.cfg.Pack.Level = level
			}
			if cmd.Flags().Changed("threads") {
				env.cfg.Pack.Threads = threads
			}

			out := cmd.OutOrStdout()
			if dryRun {
				pk := packer.New(env.cfg, env.logger, nil)
				archives, err := pk.Plan(env.ctx, root)
				if err != nil {
					return err
				}
				renderPackPlan(out, archives)
				return nil
			}

			binary, err := deps.ResolveSevenZip(env.cfg.SevenZipCandidates())
			if err != nil {
				return fmt.Errorf("pack requires 7-Zip: %w", err)
			}
			archiver, err := sevenzip.NewCLI(binary,
				sevenzip.WithCompressionLevel(env.cfg.Pack.Level),
				sevenzip.WithThreads(env.cfg.Pack.EffectiveThreads()))
			if err != nil {
				return err
			}

			lock := runlock.New(root)
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer lock.Release()

			pk := packer.New(env.cfg, env.logger, archiver)
			archives, err := pk.Plan(env.ctx, root)
			if err != nil {
				return err
			}
			summary, err := pk.Apply(env.ctx, archives)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Packed %d archive(s), skipped %d, failed %d\n",
				summary.Packed, summary.Skipped, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf("%d archive(s) failed", summary.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show planned archives without building them")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing archives")
	cmd.Flags().IntVar(&level, "level", 9, "7z compression level (0-9)")
	cmd.Flags().IntVar(&threads, "threads", 0, "7z thread count (0 selects twice the CPU count)")
	return cmd
}

func renderPackPlan(out io.Writer, archives []packer.Archive) {
	if len(archives) == 0 {
		fmt.Fprintln(out, "Nothing to pack.")
		return
	}
	rows := make([][]string, 0, len(archives))
	for _, archive := range archives {
		action := "create"
		switch {
		case archive.Skip:
			action = archive.Reason
		case archive.Replace:
			action = "replace"
		}
		rows = append(rows, []string{
			archive.Name,
			strconv.Itoa(len(archive.Files)),
			action,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Archive", "Files", "Action"}, rows))
}
