package internal

const (
	ChartFileName    = "Chart.yaml"
	ValuesFileName   = "values.yaml"
	PipelineFileName = ".drone.yaml"

	ConfigFileName = ".ftctl"
)

const (
	ManifestVersionField = "appVersion"
	ValuesVersionField   = "image.tag"
)

const DefaultRemote = "origin"
