package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jewelcase/internal/config"
	"jewelcase/internal/disccode"
	"jewelcase/internal/isoprobe"
	"jewelcase/internal/rename"
	"jewelcase/internal/textutil"
)

func newIdentifyCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify <file>",
		Short: "Report every identification signal for one disc image",
		Long: `Inspect a single image file without modifying it: the filename, a
content scan of the track data, and (for ISOs) the ISO9660 volume label
and SYSTEM.CNF boot entry. Useful for checking why tagging picked or
missed a code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cctx.newRunEnv(cmd)
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory; identify takes a single image file", args[0])
			}

			ext := filepath.Ext(path)
			stem := strings.TrimSuffix(filepath.Base(path), ext)
			family := disccode.General
			if strings.EqualFold(ext, ".bin") {
				family = disccode.PS1
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s\n", filepath.Base(path))
			fmt.Fprintf(out, "Size: %d bytes\n", info.Size())

			var resolved disccode.Code
			var rows [][]string

			if code, ok := family.FromName(stem); ok {
				resolved = code
				rows = append(rows, []string{"Filename", code.String(), "code token in name"})
			} else {
				rows = append(rows, []string{"Filename", "-", "no code token in name"})
			}

			scanOpts := disccode.ScanOptions{
				ChunkBytes: env.cfg.Scan.ChunkBytes,
				MaxBytes:   env.cfg.Scan.MaxBytes,
			}
			switch code, found, err := family.ScanFile(path, scanOpts); {
			case err != nil:
				rows = append(rows, []string{"Content scan", "-", fmt.Sprintf("scan failed: %v", err)})
			case found:
				if resolved == "" {
					resolved = code
				}
				rows = append(rows, []string{"Content scan", code.String(), "raw token in track data"})
			default:
				rows = append(rows, []string{"Content scan", "-", "no raw token found"})
			}

			title := ""
			if strings.EqualFold(ext, ".iso") {
				switch probed, err := isoprobe.Probe(path); {
				case err != nil:
					rows = append(rows, []string{"ISO probe", "-", fmt.Sprintf("probe failed: %v", err)})
				default:
					detail := "no boot entry"
					if probed.BootPath != "" {
						detail = probed.BootPath
					}
					codeText := "-"
					if probed.Code != "" {
						codeText = probed.Code.String()
						if resolved == "" {
							resolved = probed.Code
						}
					}
					rows = append(rows, []string{"ISO probe", codeText, detail})
					if probed.Label != "" {
						title = textutil.DisplayTitle(probed.Label)
					}
				}
			}

			fmt.Fprintln(out, renderTable([]string{"Signal", "Code", "Detail"}, rows))

			if title == "" {
				title = displayStem(stem, family)
			}
			fmt.Fprintf(out, "Suggested title: %s\n", title)
			if resolved == "" {
				fmt.Fprintln(out, "No disc code found.")
				return nil
			}
			fmt.Fprintf(out, "Resolved code: %s\n", resolved)
			fmt.Fprintf(out, "Canonical name: %s%s\n", rename.Compose(stem, resolved, family), ext)
			return nil
		},
	}
	return cmd
}

// displayStem renders the stem as a title with any code token removed.
func displayStem(stem string, family disccode.Family) string {
	if start, end, ok := family.FindStringIndex(stem); ok {
		stem = stem[:start] + stem[end:]
	}
	return textutil.DisplayTitle(stem)
}
