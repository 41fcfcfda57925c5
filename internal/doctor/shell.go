package doctor

import (
	"fmt"

	"github.com/google/shlex"
)

// shellSplit tokenizes a command string the way a POSIX shell would,
// honoring quotes, so `sh -c 'exit 100'` splits into three args rather than
// breaking on the embedded space.
func shellSplit(cmdline string) ([]string, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("invalid shell syntax: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return args, nil
}
