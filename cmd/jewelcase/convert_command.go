package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jewelcase/internal/converter"
	"jewelcase/internal/deps"
	"jewelcase/internal/logging"
	"jewelcase/internal/preflight"
	"jewelcase/internal/runlock"
	"jewelcase/internal/services/chdman"
	"jewelcase/internal/services/sevenzip"
)

func newConvertCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [dir]",
		Short: "Rewrite games as single-track BIN/CUE pairs",
		Long: `Extract 7z archives found in the directory (or use loose cue sheets
when there are none), then round-trip each disc through chdman so it
comes out as exactly one cue and one track file under the output
directory.`,
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

			statuses := preflight.CheckSystemDeps(env.cfg)
			if err := preflight.RequireBinaries(statuses, "chdman"); err != nil {
				return err
			}
			chd := chdman.NewCLI(chdman.WithBinary(env.cfg.ChdmanBinary()))

			// Conversion can run without 7-Zip as long as no archives
			// turn up; affected archives fail individually.
			var archiver sevenzip.Client
			if binary, err := deps.ResolveSevenZip(env.cfg.SevenZipCandidates()); err != nil {
				env.logger.Warn("7-Zip not found; archives cannot be extracted", logging.Error(err))
			} else if cli, err := sevenzip.NewCLI(binary); err == nil {
				archiver = cli
			}

			lock := runlock.New(root)
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer lock.Release()

			cv := converter.New(env.cfg, env.logger, chd, archiver)
			summary, err := cv.Run(env.ctx, root)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d disc(s), skipped %d, failed %d\n",
				summary.Converted, summary.Skipped, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf("%d disc(s) failed to convert", summary.Failed)
			}
			return nil
		},
	}
	return cmd
}
