package domain

// Pipeline is a server-side processing endpoint that accepts a selection
// from exactly one container.
type Pipeline struct {
	Name              string
	Path              string
	RequiredContainer ContainerName
}

var (
	PipelineExtractText = Pipeline{Name: "extract", Path: "processUploads", RequiredContainer: ContainerBronze}
	PipelineCallAOAI    = Pipeline{Name: "aoai", Path: "callAoai", RequiredContainer: ContainerSilver}
)

var DefaultPipelines = []Pipeline{PipelineExtractText, PipelineCallAOAI}

type ProcessingRequest struct {
	Blobs         []SelectedBlob `json:"blobs"`
	SelectedDates PeriodDates    `json:"selectedDates"`
}

const ProcessingCompletedWithErrors = "completed_with_errors"

type ProcessingResult struct {
	ProcessedFiles []string `json:"processedFiles,omitempty"`
	Errors         []string `json:"errors,omitempty"`
	OutputFile     string   `json:"outputFile,omitempty"`
	Status         string   `json:"status,omitempty"`
}

// Partial reports a 2xx answer in which some files failed.
func (r ProcessingResult) Partial() bool {
	return len(r.Errors) > 0 || r.Status == ProcessingCompletedWithErrors
}
