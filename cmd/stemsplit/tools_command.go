package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stemsplit/internal/deps"
	"stemsplit/internal/services"
)

func newToolsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Show availability of the external separation tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.For(cfg))

			if jsonOutput {
				type toolStatus struct {
					Name      string `json:"name"`
					Command   string `json:"command"`
					Available bool   `json:"available"`
					Optional  bool   `json:"optional"`
					Detail    string `json:"detail,omitempty"`
				}
				payload := make([]toolStatus, 0, len(statuses))
				for _, st := range statuses {
					payload = append(payload, toolStatus{
						Name:      st.Name,
						Command:   st.Command,
						Available: st.Available,
						Optional:  st.Optional,
						Detail:    st.Detail,
					})
				}
				return writeJSON(cmd, payload)
			}

			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, st := range statuses {
				state := "missing"
				if st.Available {
					state = "ok"
				} else if !st.Optional {
					missingRequired = true
				}
				rows = append(rows, []string{st.Name, st.Command, state, yesNo(st.Optional), st.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "Status", "Optional", "Detail"},
				rows,
			))
			if missingRequired {
				return services.Wrap(services.ErrExternalTool, "", "",
					"one or more required tools are missing", nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}
