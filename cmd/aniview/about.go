package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show the configured GitHub profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer application.Close()

		svc := application.About
		return run(cmd, svc.Profile().Observe, func() { svc.LoadAboutMe(cmd.Context()) }, printProfile)
	},
}

func init() {
	aboutCmd.Flags().String("user", "", "GitHub login (overrides github_user)")
	viper.BindPFlag("github_user", aboutCmd.Flags().Lookup("user"))

	rootCmd.AddCommand(aboutCmd)
}
