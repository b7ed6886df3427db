package web

// Patch operations understood by the page script.
const (
	OpHTML    = "html"
	OpText    = "text"
	OpShow    = "show"
	OpHide    = "hide"
	OpEnable  = "enable"
	OpDisable = "disable"
	OpValue   = "value"
)

// Element ids on the console page.
const (
	TargetForm          = "feedbackForm"
	TargetInput         = "feedbackInput"
	TargetTrigger       = "analyzeBtn"
	TargetTriggerText   = "btnText"
	TargetTriggerLoader = "btnLoader"
	TargetError         = "errorMessage"
	TargetResult        = "analysisResult"
	TargetHistory       = "historyTable"
)

// Patch is one view mutation streamed to the browser. HTML carries trusted rendered
// fragments only; Text and Value are assigned as plain text by the page script.
type Patch struct {
	Op     string `json:"op"`
	Target string `json:"target"`
	HTML   string `json:"html,omitempty"`
	Text   string `json:"text,omitempty"`
	Value  string `json:"value,omitempty"`
}
