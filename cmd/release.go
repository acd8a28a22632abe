package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sap-gg/ftctl/internal/locate"
	"github.com/sap-gg/ftctl/internal/release"
	"github.com/sap-gg/ftctl/internal/vcs"
)

var releaseFlags = struct {
	commonFlags
	file   string
	drone  string
	tag    bool
	push   bool
	remote string
}{}

// releaseCmd represents the release command
var releaseCmd = &cobra.Command{
	Use:     "release",
	Short:   "Writes a version into the pipeline descriptor, Chart.yaml and the values file.",
	Long:    releaseLongDescription,
	Example: releaseExample,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := releaseFlags.request()
		if err != nil {
			return err
		}
		req.ValuesFile = releaseFlags.file
		req.PipelineDir = releaseFlags.drone

		out, dir, err := runRelease(cmd.Context(), release.VariantRelease, req, &releaseFlags.commonFlags)
		if err != nil {
			return err
		}

		if !releaseFlags.tag && !releaseFlags.push {
			return nil
		}
		if out.DryRun {
			log.Info().Msg("dry-run mode enabled, not tagging")
			return nil
		}

		locator, err := locate.New(dir)
		if err != nil {
			return err
		}
		repoDir := locator.Resolve(req.ChartDir, "")

		if _, err := vcs.Tag(repoDir, out.Version); err != nil {
			return fmt.Errorf("tag release: %w", err)
		}
		if !releaseFlags.push {
			return nil
		}

		remote := releaseFlags.remote
		if remote == "" {
			remote = appConfig.Git.Remote
		}
		if err := vcs.Push(cmd.Context(), repoDir, remote, out.Version, appConfig.Git.Token); err != nil {
			return fmt.Errorf("push release tag: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)

	releaseFlags.register(releaseCmd)

	releaseCmd.Flags().StringVarP(&releaseFlags.file, "file", "f", "",
		"The values file inside the chart directory. (default values.yaml)")
	releaseCmd.Flags().StringVarP(&releaseFlags.drone, "drone", "d", "",
		"The directory holding the .drone.yaml pipeline descriptor.")

	releaseCmd.Flags().BoolVar(&releaseFlags.tag, "tag", false,
		"Create a git tag named after the version at HEAD after a successful release.")
	releaseCmd.Flags().BoolVar(&releaseFlags.push, "push", false,
		"Push the version tag to the remote. Implies --tag.")
	releaseCmd.Flags().StringVar(&releaseFlags.remote, "remote", "",
		"The remote to push the tag to. (default from git.remote, origin)")
}

var (
	releaseLongDescription = `The release command writes a version into every artifact of a deployable unit:

  1. the '- echo -n "<version>" > .tags' line of the Drone pipeline descriptor,
  2. the 'appVersion' field of Chart.yaml,
  3. the 'image.tag' field of the values file,
  4. any extra version file given with --bump.

The version is written verbatim. Files are updated in this order and the run stops
at the first artifact that cannot be read, parsed or written. A pipeline descriptor
without a tag line, or one that cannot be written, is reported as a warning.

YAML files are decoded and encoded again, which keeps every value and the key order
but drops comments. Use --preserve-format to edit the field in place instead.
`

	releaseExample = `
# Release 1.4.0 of the chart in ./deploy/chart with the pipeline at the repository root
ftctl release -v 1.4.0 -p deploy/chart -d .

# Use a different values file and preview the changes
ftctl release -v 1.4.0 -p deploy/chart -f values-prod.yaml -d . --dry-run

# Also bump package.json and tag the release
ftctl release -v 1.4.0 -p deploy/chart -d . --bump package.json:version --tag

# Tag and push the tag to origin
FTCTL_GIT_TOKEN=... ftctl release -v 1.4.0 -p deploy/chart -d . --push`
)
