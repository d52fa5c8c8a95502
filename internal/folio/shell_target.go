package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

type shellTarget struct {
	command string
}

// NewShellTarget returns a target that pipes a JSON manifest of every mounted
// snapshot to command. It returns nil for an empty command.
func NewShellTarget(command string) MountTarget {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return nil
	}
	return &shellTarget{command: cmd}
}

func (s *shellTarget) ApplyMount(ctx context.Context, event MountEvent) error {
	doc := struct {
		Source string        `json:"source"`
		Files  []MountedFile `json:"files"`
	}{
		Source: event.Source,
		Files:  event.Manifest(),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", s.command)
	cmd.Stdin = bytes.NewReader(payload)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("shell target failed: %w: %s", err, string(output))
	}

	return nil
}
