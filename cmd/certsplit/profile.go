package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veetech/certsplit/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print or save the pattern profile",
	Long: `Profile prints the built-in pattern calibration as YAML: anchor rules
for certificate start pages, field extraction patterns, OCR corrections,
date formats, and the certificate type table.

Use --write to save it as a starting point for a tuned profile, then pass
the tuned file to process with --profile.`,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().String("write", "", "write the profile to this path instead of stdout")

	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	dest, _ := cmd.Flags().GetString("write")
	p := profile.Default()

	if dest != "" {
		if err := p.Write(dest); err != nil {
			return err
		}
		fmt.Println("Wrote profile to", dest)
		return nil
	}

	out, err := p.Marshal()
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
