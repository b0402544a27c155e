// Package browser opens URLs in the user's default browser.
package browser

import (
	"errors"
	"os/exec"
)

// Opener launches a URL, injectable so tests can capture instead of spawning.
type Opener func(url string) error

// Open starts the platform default browser, best effort for macOS, Linux and Windows.
func Open(url string) error {
	cmds := [][]string{{"open", url}, {"xdg-open", url}, {"powershell", "Start-Process", url}}
	for _, c := range cmds {
		if _, err := exec.LookPath(c[0]); err == nil {
			return exec.Command(c[0], c[1:]...).Start()
		}
	}
	return errors.New("no suitable browser opener found")
}
