package output

import (
	"io"
	"os"
)

// Printer renders command results.
type Printer interface {
	Print(v any) error
}

// AssetOutput describes an artwork file written by the art command.
type AssetOutput struct {
	GUID     string `json:"guid"`
	ServerID string `json:"serverId"`
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	MIME     string `json:"mime"`
	Size     int64  `json:"size"`
}

func writerOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
