package macros

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sndtools/snd/pkg/config"
	"github.com/sndtools/snd/pkg/helpers"
	"github.com/sndtools/snd/pkg/macro"
	"github.com/sndtools/snd/pkg/macrostore"
	"github.com/spf13/cobra"
)

func NewCmdList() *cobra.Command {
	var (
		storePath    string
		outputFormat string
		folder       string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List macros in the macro store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := macrostore.Open(resolveStorePath(storePath))
			if err != nil {
				return err
			}

			macros := filterFolder(store.Macros(), folder)
			out := cmd.OutOrStdout()

			switch outputFormat {
			case "csv":
				return macrosWriteCSV(out, macros)
			case "json":
				return macrosWriteJSON(out, macros)
			case "text":
				return macrosWriteText(out, macros)
			case "":
				if out != os.Stdout || !helpers.IsTerminal() {
					return macrosWriteText(out, macros)
				}
				_, err = tea.NewProgram(newMacrosModel(macros), tea.WithAltScreen()).Run()
				return err
			}

			return errors.Errorf("unknown format: %s. Requires text, csv or json", outputFormat)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&storePath, "store", "", "Macro store file")
	flags.StringVar(&outputFormat, "output", "", "Non-interactive output format (text, json, csv)")
	flags.StringVar(&folder, "folder", "", "Only list macros in this folder and its subfolders")

	return cmd
}

func resolveStorePath(path string) string {
	if strings.TrimSpace(path) != "" {
		return path
	}
	return config.MacroStorePath()
}

func filterFolder(macros []macro.Macro, folder string) []macro.Macro {
	folder = strings.TrimSuffix(folder, "/")
	if folder == "" {
		return macros
	}

	filtered := []macro.Macro{}
	for _, m := range macros {
		if m.FolderPath == folder || strings.HasPrefix(m.FolderPath, folder+"/") {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func macrosWriteText(w io.Writer, macros []macro.Macro) error {
	if len(macros) == 0 {
		_, err := fmt.Fprintln(w, "No macros found.")
		return err
	}
	for _, m := range macros {
		if _, err := fmt.Fprintf(w, "%s (%s) in %s\n", m.Name, m.Type, m.FolderPath); err != nil {
			return err
		}
	}
	return nil
}

func macrosWriteCSV(w io.Writer, macros []macro.Macro) error {
	cw := csv.NewWriter(w)
	if len(macros) > 0 {
		if err := cw.Write([]string{"ID", "Name", "Type", "Folder", "Crafting Loop", "Loop Count"}); err != nil {
			return err
		}
	}

	for _, m := range macros {
		row := []string{
			m.ID,
			m.Name,
			m.Type.String(),
			m.FolderPath,
			strconv.FormatBool(m.Metadata.CraftingLoop),
			strconv.Itoa(m.Metadata.CraftLoopCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func macrosWriteJSON(w io.Writer, macros []macro.Macro) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(macros)
}
