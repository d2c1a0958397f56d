//go:build !linux

package runtime

import "os/exec"

// setPlatformSpecificAttrs is a no-op: Pdeathsig only exists on Linux.
// The JVM is still terminated through exec.CommandContext when the context ends.
func setPlatformSpecificAttrs(cmd *exec.Cmd) {}
