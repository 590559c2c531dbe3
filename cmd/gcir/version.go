package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gcir/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show gcir build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Current()
		switch strings.ToLower(versionFormat) {
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), info)
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), info)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func renderVersionPretty(out io.Writer, info version.Info) {
	fmt.Fprintf(out, "gcir %s\n", version.Colored(info.Version))
	if info.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}
}

func renderVersionJSON(out io.Writer, info version.Info) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{
		Tool:      "gcir",
		Version:   info.Version,
		GitCommit: info.GitCommit,
		BuildDate: info.BuildDate,
	})
}
