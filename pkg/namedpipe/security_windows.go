//go:build windows

package namedpipe

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// currentUserSDDL returns a protected DACL granting full access to the
// user the process runs as and nobody else.
func currentUserSDDL() (string, error) {
	user, err := windows.GetCurrentProcessToken().GetTokenUser()
	if err != nil {
		return "", fmt.Errorf("failed to read process token user: %w", err)
	}
	return fmt.Sprintf("D:P(A;;GA;;;%s)", user.User.Sid.String()), nil
}
