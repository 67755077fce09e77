package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"jewelcase/internal/preflight"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			printSection(out, "Configuration", colorize)
			printStatusLine(out, "Log directory", stateInfo, cfg.Paths.LogDir, colorize)
			printStatusLine(out, "Cache directory", stateInfo, cfg.Paths.CacheDir, colorize)
			cache := "disabled"
			if cfg.CodeCache.Enabled {
				cache = cfg.CodeCache.Path
			}
			printStatusLine(out, "Code cache", stateInfo, cache, colorize)
			fmt.Fprintln(out)

			printSection(out, "External tools", colorize)
			for _, status := range preflight.CheckSystemDeps(cfg) {
				state := stateOK
				detail := status.Resolved
				if !status.Available {
					state = stateError
					detail = status.Detail
				}
				printStatusLine(out, status.Name, state, detail, colorize)
			}
			return nil
		},
	}
}

type lineState int

const (
	stateInfo lineState = iota
	stateOK
	stateError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiBlue   = "\x1b[34m"
	labelWidth = 18
)

func printSection(out io.Writer, title string, colorize bool) {
	line := fmt.Sprintf("== %s ==", title)
	if colorize {
		line = ansiBlue + line + ansiReset
	}
	fmt.Fprintln(out, line)
}

func printStatusLine(out io.Writer, label string, state lineState, detail string, colorize bool) {
	tag := "INFO"
	color := ""
	switch state {
	case stateOK:
		tag, color = "OK", ansiGreen
	case stateError:
		tag, color = "ERROR", ansiRed
	}
	text := fmt.Sprintf("  %-*s [%s] %s", labelWidth, label+":", tag, strings.TrimSpace(detail))
	if colorize && color != "" {
		text = color + text + ansiReset
	}
	fmt.Fprintln(out, text)
}

func shouldColorize(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
