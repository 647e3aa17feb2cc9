package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ailang-project/corec/internal/config"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// cliFlags holds the search-path options §6 names as persisted
// configuration, bound as persistent flags on the root command so
// every action subcommand sees the same resolved SearchPaths.
type cliFlags struct {
	configFile   string
	sdkPath      string
	importPaths  []string
	frameworkDir []string
	runtimeRes   string
	runtimeLib   string
	moduleImport []string
}

func (f *cliFlags) resolve() (*config.SearchPaths, error) {
	base := config.Default()
	if f.configFile != "" {
		fromFile, err := config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
		base = config.Merge(base, fromFile)
	}
	override := &config.SearchPaths{
		SDKPath:         f.sdkPath,
		Import:          f.importPaths,
		Framework:       f.frameworkDir,
		RuntimeResource: f.runtimeRes,
		RuntimeLibrary:  f.runtimeLib,
		ModuleImport:    f.moduleImport,
	}
	return config.Merge(base, override), nil
}

func newRootCommand() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:           "corec",
		Short:         "Driver for the typed-IR compiler core",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "path to a corec.yaml search-path file")
	root.PersistentFlags().StringVar(&flags.sdkPath, "sdk", "", "SDK root path")
	root.PersistentFlags().StringSliceVar(&flags.importPaths, "import-path", nil, "import search path (repeatable)")
	root.PersistentFlags().StringSliceVar(&flags.frameworkDir, "framework-path", nil, "framework search path (repeatable)")
	root.PersistentFlags().StringVar(&flags.runtimeRes, "runtime-resource-path", "", "runtime resource path")
	root.PersistentFlags().StringVar(&flags.runtimeLib, "runtime-library-path", "", "runtime library path")
	root.PersistentFlags().StringSliceVar(&flags.moduleImport, "module-import-path", nil, "precompiled module-interface search path (repeatable)")

	for _, cmd := range frontendActionCommands(flags) {
		root.AddCommand(cmd)
	}
	root.AddCommand(newVerifyCommand(flags))
	root.AddCommand(newInteractiveExecuteCommand(flags))
	root.AddCommand(newInteractiveReplCommand(flags))
	root.AddCommand(newVersionCommand())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Printf("%s %s\n", bold("corec"), Version)
			if Commit != "unknown" {
				cmd.Printf("commit:  %s\n", Commit)
			}
			if BuildTime != "unknown" {
				cmd.Printf("built:   %s\n", BuildTime)
			}
			return nil
		},
	}
}
