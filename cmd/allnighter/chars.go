package allnighter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"unicode/utf16"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/runenames"

	"github.com/allnighter/allnighter/internal/charset"
	"github.com/allnighter/allnighter/internal/report"
)

type charInfo struct {
	Char      string `json:"char"`
	CodePoint string `json:"code_point"`
	Name      string `json:"name"`
	Units     int    `json:"utf16_units"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "chars",
		Short: "List the characters AllNighter reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := charTable(charset.Default())
			if flagJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			return printChars(cmd.OutOrStdout(), infos)
		},
	}
	rootCmd.AddCommand(cmd)
}

func charTable(c *charset.Classifier) []charInfo {
	chars := c.Chars()
	out := make([]charInfo, 0, len(chars))
	for _, r := range chars {
		out = append(out, charInfo{
			Char:      string(r),
			CodePoint: report.CodePoint(string(r)),
			Name:      runenames.Name(r),
			Units:     utf16.RuneLen(r),
		})
	}
	return out
}

func printChars(w io.Writer, infos []charInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header("Char", "Code Point", "Name", "UTF-16 Units")
	for _, ci := range infos {
		if err := table.Append([]string{ci.Char, ci.CodePoint, ci.Name, strconv.Itoa(ci.Units)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d characters\n", len(infos))
	return err
}
