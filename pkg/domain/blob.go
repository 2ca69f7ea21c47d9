package domain

type ContainerName string

const (
	ContainerBronze ContainerName = "bronze"
	ContainerSilver ContainerName = "silver"
	ContainerGold   ContainerName = "gold"
)

var DefaultContainers = []ContainerName{ContainerSilver, ContainerGold}

var DefaultContainerLabels = map[ContainerName]string{
	ContainerSilver: "Input",
	ContainerGold:   "Output",
}

type BlobItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type SelectedBlob struct {
	Name      string        `json:"name"`
	URL       string        `json:"url"`
	Container ContainerName `json:"container"`
}

func NewSelectedBlob(container ContainerName, blob BlobItem) SelectedBlob {
	return SelectedBlob{Name: blob.Name, URL: blob.URL, Container: container}
}

// Is reports whether s refers to blob name in container. Selection identity
// is the (name, container) pair; the URL is not part of it.
func (s SelectedBlob) Is(container ContainerName, name string) bool {
	return s.Container == container && s.Name == name
}

// BlobListing is the list endpoint payload keyed by container.
type BlobListing map[ContainerName][]BlobItem

type UploadFile struct {
	Name    string
	Content []byte
}

type UploadResult struct {
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
}
