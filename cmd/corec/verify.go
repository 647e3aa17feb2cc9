package main

import (
	"github.com/spf13/cobra"
)

// newVerifyCommand exposes internal/tir.Verify as a standalone
// subcommand, run against the typed IR an emit-raw-ir/emit-canonical-ir
// action would have produced. It shares runFrontendAction's pipeline
// entry point and so surfaces the same CLI001 until IR lowering is
// wired up; once a function is lowered successfully, this command is
// where tir.Verify/tir.MustVerify's fatal dump-and-abort path (§7's
// "structural invariant violation") is reached from the CLI.
func newVerifyCommand(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <module-path>",
		Short: "Run the typed-IR structural verifier over a lowered module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runFrontendAction(flags, "ir-lowering", args[0])
			if err != nil {
				return err
			}
			cmd.Println(green("✓"), "every function verified")
			return nil
		},
	}
	return cmd
}
