package registry

// ActivityRegistry describes every BPMN service task the workers implement.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string   `json:"id"`
	DisplayName          string   `json:"displayName"`
	Description          string   `json:"description"`
	Category             string   `json:"category"`
	Version              string   `json:"version"`
	TaskType             string   `json:"taskType"`
	ImplementationStatus string   `json:"implementationStatus"`
	InputVariables       []string `json:"inputVariables"`
	OutputVariables      []string `json:"outputVariables"`
	ErrorCodes           []string `json:"errorCodes"`
	Timeout              string   `json:"timeout"`
	Retries              int      `json:"retries"`
	Tags                 []string `json:"tags"`
}

const (
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)
