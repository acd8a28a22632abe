package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sap-gg/ftctl/internal/release"
)

var releaseStageFlags commonFlags

// releaseStageCmd represents the release-stage command.
// Unlike releaseCmd it leaves the pipeline descriptor alone and tolerates a missing version.
var releaseStageCmd = &cobra.Command{
	Use:     "release-stage",
	Short:   "Writes a version into Chart.yaml and values.yaml of a stage chart.",
	Long:    releaseStageLongDescription,
	Example: releaseStageExample,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := releaseStageFlags.request()
		if err != nil {
			return err
		}
		_, _, err = runRelease(cmd.Context(), release.VariantStage, req, &releaseStageFlags)
		return err
	},
}

func init() {
	rootCmd.AddCommand(releaseStageCmd)

	releaseStageFlags.register(releaseStageCmd)
}

var (
	releaseStageLongDescription = `The release-stage command writes a version into the 'appVersion' field of
Chart.yaml and the 'image.tag' field of the values file of a stage chart.

The values file name comes from the release.values_file config key (values.yaml by
default). A missing version is reported as a warning and an empty version is written.
`

	releaseStageExample = `
# Stage 1.4.0-rc.1 in the staging chart
ftctl release-stage -v 1.4.0-rc.1 -p deploy/staging

# Preview the change without writing
ftctl release-stage -v 1.4.0-rc.1 -p deploy/staging --dry-run`
)
