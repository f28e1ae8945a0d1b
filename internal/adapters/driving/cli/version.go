package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := buildVersion()
		if jsonFlag {
			return printJSON(cmd, info)
		}
		cmd.Printf("privashield version %s\n", info.Version)
		if info.Commit != "" {
			cmd.Println(mutedStyle.Render("commit " + info.Commit))
		}
		cmd.Println(mutedStyle.Render(info.Go + " " + info.Platform))
		return nil
	},
}

// buildVersion reads the VCS revision stamped by the Go toolchain, if any.
func buildVersion() versionInfo {
	info := versionInfo{
		Version:  version,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				info.Commit = s.Value[:12]
			}
		}
	}
	return info
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
