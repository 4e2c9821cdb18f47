package history

import (
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pomfort/ascmhl/internal/generation"
)

// NewCreatorInfo builds the CreatorInfo recorded against every HashList a
// single Session.Commit call produces. All sidecars touched by the same
// commit share one ProcessID, grounded on the teacher's practice of tagging
// everything that happens within one synchronization cycle with a shared
// session identifier (pkg/synchronization/session.go's UUID-based session
// IDs); here it ties together generations written to several nested
// histories by the same seal run.
func NewCreatorInfo(toolName, toolVersion string) generation.CreatorInfo {
	hostName, err := os.Hostname()
	if err != nil {
		hostName = "unknown"
	}
	return generation.CreatorInfo{
		CreationDate: time.Now(),
		HostName:     hostName,
		ToolName:     toolName,
		ToolVersion:  toolVersion,
		ProcessID:    uuid.NewString(),
	}
}
