package core

// UICallback is how the pipeline talks to the user. The logger records
// what happened; the callback shows it.
//
//go:generate mockgen -source=ui.go -destination=ui_mock_test.go -package=core
type UICallback interface {
	ShowError(title, message string)
	ShowSuccess(message string)
	ShowWarning(title, message string)
	// ShowStage announces a pipeline state transition.
	ShowStage(stage, message string)
	AskConfirmation(title, message string) bool
	StyleTitle(title string) string
	StartProgress(total int, label string) ProgressTracker

	GetOutputMode() OutputMode
	IsAutoApprove() bool
	FormatJSON(output JSONOutput) error
}

// ProgressTracker advances a progress display, one step per stage.
type ProgressTracker interface {
	Increment(message string)
	SetTotal(total int)
	Complete()
	Fail(err error)
}

// SilentUICallback is a no-op implementation (for testing/CI)
type SilentUICallback struct{}

func (s *SilentUICallback) ShowError(title, message string)           {}
func (s *SilentUICallback) ShowSuccess(message string)                {}
func (s *SilentUICallback) ShowWarning(title, message string)         {}
func (s *SilentUICallback) ShowStage(stage, message string)           {}
func (s *SilentUICallback) AskConfirmation(title, msg string) bool    { return false }
func (s *SilentUICallback) StyleTitle(title string) string            { return title }
func (s *SilentUICallback) StartProgress(int, string) ProgressTracker { return noopProgress{} }
func (s *SilentUICallback) GetOutputMode() OutputMode                 { return OutputNormal }
func (s *SilentUICallback) IsAutoApprove() bool                       { return false }
func (s *SilentUICallback) FormatJSON(output JSONOutput) error        { return nil }

type noopProgress struct{}

func (noopProgress) Increment(string) {}
func (noopProgress) SetTotal(int)     {}
func (noopProgress) Complete()        {}
func (noopProgress) Fail(error)       {}
