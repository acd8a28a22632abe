package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sap-gg/ftctl/internal/release"
)

// commonFlags are shared by release and release-stage.
type commonFlags struct {
	version        string
	path           string
	bump           []string
	dryRun         bool
	preserveFormat bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.version, "version", "v", "",
		"The version to release. Written verbatim into every artifact.")
	cmd.Flags().StringVarP(&f.path, "path", "p", "",
		"The chart directory holding Chart.yaml and the values file.")
	cmd.Flags().StringArrayVar(&f.bump, "bump", nil,
		"An extra version file to update, as <file>:<field>. Can be repeated.")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false,
		"Show the changes without writing them.")
	cmd.Flags().BoolVar(&f.preserveFormat, "preserve-format", false,
		"Keep comments and layout of YAML files where possible.")
}

// request builds the release request. Bump targets are parsed here, everything else is
// validated by the orchestrator.
func (f *commonFlags) request() (release.Request, error) {
	req := release.Request{
		Version:  f.version,
		ChartDir: f.path,
	}
	for _, b := range f.bump {
		target, err := release.ParseExtraTarget(b)
		if err != nil {
			return req, err
		}
		req.Extra = append(req.Extra, target)
	}
	return req, nil
}

// runRelease runs req with the loaded configuration and prints the outcome.
func runRelease(ctx context.Context, variant release.Variant, req release.Request, flags *commonFlags) (*release.Outcome, string, error) {
	dir, err := resolveBaseDir()
	if err != nil {
		return nil, "", err
	}

	orchestrator, err := release.New(release.Options{
		BaseDir: dir,
		Names: release.Defaults{
			ChartFile:    appConfig.Release.ChartFile,
			ValuesFile:   appConfig.Release.ValuesFile,
			PipelineFile: appConfig.Release.PipelineFile,
		},
		PreserveFormat: flags.preserveFormat || appConfig.Release.PreserveFormat,
		DryRun:         flags.dryRun,
	})
	if err != nil {
		return nil, "", err
	}

	out, err := orchestrator.Run(ctx, variant, req)
	printOutcome(os.Stdout, out)
	if err != nil {
		printParseError(os.Stderr, err)
		return out, dir, fmt.Errorf("%s: %w", variant, err)
	}
	return out, dir, nil
}
