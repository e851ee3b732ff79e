package main

import (
	"fmt"
	"strings"

	"agentchat/pkg/agent"
	"agentchat/pkg/version"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Details("agentchat"))
		},
	}
}

func backendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the agent backends this build supports",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, b := range agent.ListBackends() {
				line := fmt.Sprintf("  %-10s %s", b.Name, b.Description)
				if b.RequiresKey {
					line += " (requires api_key)"
				}
				fmt.Fprintln(out, strings.TrimRight(line, " "))
			}
		},
	}
}
