package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"jewelcase/internal/runlock"
	"jewelcase/internal/tagger"
)

func newTagCommand(cctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "tag [dir]",
		Short: "Rename BIN/CUE pairs to carry their disc codes",
		Long: `Scan a directory of BIN/CUE dumps, resolve each disc's product code
from the filename or the track data, and rename the pair so the code
appears in the name. Cue sheets are rewritten to reference the renamed
track file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(cctx, cmd, args, dryRun, false, false)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show planned renames without touching files")
	return cmd
}

func newTagISOCommand(cctx *commandContext) *cobra.Command {
	var dryRun bool
	var probe bool

	cmd := &cobra.Command{
		Use:   "tag-iso [dir]",
		Short: "Rename ISO images to carry their disc codes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(cctx, cmd, args, dryRun, true, probe)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show planned renames without touching files")
	cmd.Flags().BoolVar(&probe, "probe", false, "Read codes from the ISO filesystem when name and content yield nothing")
	return cmd
}

func runTag(cctx *commandContext, cmd *cobra.Command, args []string, dryRun, iso, probe bool) error {
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

	var opts []tagger.Option
	if cache := openCodeCache(env); cache != nil {
		defer cache.Close()
		opts = append(opts, tagger.WithCache(cache))
	}
	if probe {
		opts = append(opts, tagger.WithProbe(newProbeFunc(env.logger)))
	}
	tg := tagger.New(env.cfg, env.logger, opts...)

	// Mutating runs hold the work-root lock across plan and apply so the
	// collision checks stay valid.
	if !dryRun {
		lock := runlock.New(root)
		if err := lock.Acquire(); err != nil {
			return err
		}
		defer lock.Release()
	}

	var actions []tagger.Action
	if iso {
		actions, err = tg.PlanISO(env.ctx, root)
	} else {
		actions, err = tg.PlanBinCue(env.ctx, root)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		renderTagPlan(out, actions)
		return nil
	}

	summary, err := tg.Apply(env.ctx, actions)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tagged %d image(s), skipped %d, failed %d\n", summary.Applied, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d image(s) failed", summary.Failed)
	}
	return nil
}

func renderTagPlan(out io.Writer, actions []tagger.Action) {
	if len(actions) == 0 {
		fmt.Fprintln(out, "Nothing to do.")
		return
	}
	rows := make([][]string, 0, len(actions))
	for _, action := range actions {
		var result string
		switch action.Decision {
		case tagger.DecisionRename:
			result = filepath.Base(action.Target)
		case tagger.DecisionUnchanged:
			result = "already tagged"
		default:
			result = action.Reason
		}
		rows = append(rows, []string{
			filepath.Base(action.Source),
			action.Code.String(),
			string(action.Decision),
			result,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Image", "Code", "Action", "Result"}, rows))
}
