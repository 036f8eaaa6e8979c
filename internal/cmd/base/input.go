package base

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// ReadBody returns the body text from -body or -body-file. A body file of
// "-" reads standard input.
func ReadBody(fs afero.Fs, stdin io.Reader, body, bodyFile string) (string, error) {
	switch {
	case body != "" && bodyFile != "":
		return "", errors.New("use either -body or -body-file, not both")
	case body != "":
		return body, nil
	case bodyFile == "-":
		if stdin == nil {
			stdin = os.Stdin
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("error reading standard input: %w", err)
		}
		return string(b), nil
	case bodyFile != "":
		b, err := afero.ReadFile(fs, bodyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", bodyFile, err)
		}
		return string(b), nil
	}
	return "", errors.New("provide -body or -body-file (use '-' for stdin)")
}
