package domain

// LoadStatus is the state of an asynchronous catalog load.
type LoadStatus string

const (
	LoadRunning LoadStatus = "RUNNING"
	LoadDone    LoadStatus = "DONE"
	LoadWarning LoadStatus = "WARNING"
	LoadError   LoadStatus = "ERROR"
)

// Terminal reports whether polling can stop.
func (s LoadStatus) Terminal() bool {
	return s == LoadDone || s == LoadWarning || s == LoadError
}

// Succeeded reports whether the load persisted its records.
func (s LoadStatus) Succeeded() bool {
	return s == LoadDone || s == LoadWarning
}

// Catalog job names.
const (
	JobMenus          = "OffenceMenusIntegrationLoad"
	JobOffences       = "OffenceRevisionIntegrationLoad"
	JobReleasePackage = "ReleasePackageIntegrationLoad"
	JobSourceFiles    = "SourceFileIntegrationLoad"
)

// Catalog entity names.
const (
	EntityMenu              = "OTEMenu"
	EntityMenuOptions       = "OTEMenuOptions"
	EntityOffenceRevision   = "OffenceRevision"
	EntityReleasePackage    = "ReleasePackage"
	EntitySourceFile        = "SourceFile"
	EntitySourceFileMessage = "SourceFileMessage"
)

// PersistOptions controls how the catalog persists a load.
type PersistOptions struct {
	DefaultPublisherID string                      `json:"defaultPublisherId"`
	OptionsPerEntity   map[string]EntityLoadOption `json:"optionsPerEntity"`
	MissingIDBehavior  string                      `json:"missingIdBehavior"`
	PersistMode        string                      `json:"persistMode"`
}

// EntityLoadOption lists enrichers run for an entity.
type EntityLoadOption struct {
	Enrichers []string `json:"enrichers"`
}

// LoadRequest is a CREATE_LOAD_AND_SUBMIT request body.
type LoadRequest struct {
	Action          string                      `json:"action"`
	ProgramName     string                      `json:"programName"`
	LoadDescription string                      `json:"loadDescription"`
	JobName         string                      `json:"jobName"`
	PersistOptions  PersistOptions              `json:"persistOptions"`
	PersistRecords  map[string][]map[string]any `json:"persistRecords"`
}

// NewLoadRequest builds a request with the standard PNLD persist options.
// enrichers may be nil; when set they apply to enrichedEntity.
func NewLoadRequest(description, job, enrichedEntity string, enrichers []string) LoadRequest {
	perEntity := map[string]EntityLoadOption{}
	if len(enrichers) > 0 {
		perEntity[enrichedEntity] = EntityLoadOption{Enrichers: enrichers}
	}
	return LoadRequest{
		Action:          "CREATE_LOAD_AND_SUBMIT",
		ProgramName:     "UPDATE_DATA_REST_API",
		LoadDescription: description,
		JobName:         job,
		PersistOptions: PersistOptions{
			DefaultPublisherID: "PNLD",
			OptionsPerEntity:   perEntity,
			MissingIDBehavior:  "GENERATE",
			PersistMode:        "IF_NO_ERROR_OR_MATCH",
		},
		PersistRecords: make(map[string][]map[string]any),
	}
}

// LoadHandle identifies a submitted load.
type LoadHandle struct {
	LoadID  string
	BatchID string
}
