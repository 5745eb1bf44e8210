package mcp

// StartRecordingInput is the input for the start_recording tool.
type StartRecordingInput struct {
	WindowPattern string `json:"window_pattern,omitempty" jsonschema:"Regex matched case-insensitively against window titles and owning apps. Empty: auto-detect a browser window, falling back to full-screen capture."`
	OutputName    string `json:"output_name,omitempty" jsonschema:"Recording filename without directory (default: recording_<timestamp>.mp4)"`
	Screen        int    `json:"screen,omitempty" jsonschema:"1-based screen index to capture when no window pattern is given (default: the screen under the detected window, or screen 1)"`
	FPS           int    `json:"fps,omitempty" jsonschema:"Capture framerate (default: 30)"`
}

// StartRecordingOutput is the output for the start_recording tool.
type StartRecordingOutput struct {
	OutputPath string `json:"output_path"`
	MediaURL   string `json:"media_url,omitempty"`
	Window     string `json:"window,omitempty"`
	Screen     int    `json:"screen"`
	Message    string `json:"message"`
}

// StopRecordingInput is the input for the stop_recording tool.
type StopRecordingInput struct{}

// StopRecordingOutput is the output for the stop_recording tool.
type StopRecordingOutput struct {
	OutputPath string  `json:"output_path"`
	MediaURL   string  `json:"media_url,omitempty"`
	Duration   float64 `json:"duration_seconds"`
	SizeMB     float64 `json:"size_mb"`
}

// RecordingStatusInput is the input for the recording_status tool.
type RecordingStatusInput struct{}

// RecordingStatusOutput is the output for the recording_status tool.
type RecordingStatusOutput struct {
	State      string  `json:"state"`
	OutputPath string  `json:"output_path,omitempty"`
	Duration   float64 `json:"duration_seconds,omitempty"`
	SizeMB     float64 `json:"size_mb,omitempty"`
	Healthy    bool    `json:"healthy"`
	Detail     string  `json:"detail,omitempty"`
}

// ListScreensInput is the input for the list_screens tool.
type ListScreensInput struct{}

// ScreenInfo describes one attached display.
type ScreenInfo struct {
	Index  int `json:"index"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Scale  int `json:"scale"`
}

// ListScreensOutput is the output for the list_screens tool.
type ListScreensOutput struct {
	Screens []ScreenInfo `json:"screens"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"Optional regex to filter windows by title or app"`
}

// WindowInfo describes one capturable window.
type WindowInfo struct {
	Title  string `json:"title"`
	App    string `json:"app,omitempty"`
	PID    int    `json:"pid,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}
