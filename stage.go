package erldoc

// Stage is a step of the per-module pipeline.
type Stage string

// Pipeline stages in execution order. StageDone and StageFailed are terminal.
const (
	StagePending     Stage = "pending"
	StageFetching    Stage = "fetching"
	StageExtracting  Stage = "extracting"
	StageNormalizing Stage = "normalizing"
	StageWriting     Stage = "writing"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Failure describes why a module did not reach StageDone.
type Failure struct {
	Module  string `json:"module"`
	Stage   Stage  `json:"stage"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewFailure converts err into a failure record for module at stage.
func NewFailure(module string, stage Stage, err error) *Failure {
	msg := ErrorMessage(err)
	if ErrorCode(err) == EINTERNAL && err != nil {
		msg = err.Error()
	}
	return &Failure{
		Module:  module,
		Stage:   stage,
		Kind:    ErrorCode(err),
		Message: msg,
	}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Module + ": " + string(f.Stage) + ": " + f.Kind + ": " + f.Message
}
