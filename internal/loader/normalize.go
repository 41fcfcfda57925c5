package loader

import (
	"os"
	"path/filepath"
	"strings"
)

// NormalizeCommand resolves "."-prefixed tokens relative to fileDir and
// substitutes "{{ working_dir }}" with workingDir, token by token, the way
// the original config loader normalizes command strings before storing
// them on an action/fix/known-error spec.
func NormalizeCommand(command, fileDir, workingDir string) string {
	tokens := strings.Fields(command)
	for i, tok := range tokens {
		tok = strings.ReplaceAll(tok, "{{ working_dir }}", workingDir)
		tok = strings.ReplaceAll(tok, "{{working_dir}}", workingDir)
		if strings.HasPrefix(tok, ".") && fileDir != "" {
			tok = filepath.Join(fileDir, tok)
		}
		tokens[i] = tok
	}
	return strings.Join(tokens, " ")
}

// NormalizeCommands applies NormalizeCommand to every entry in place and
// returns the resulting slice.
func NormalizeCommands(commands []string, fileDir, workingDir string) []string {
	out := make([]string, len(commands))
	for i, c := range commands {
		out[i] = NormalizeCommand(c, fileDir, workingDir)
	}
	return out
}

// binSearchPath builds the colon-joined search path stamped onto a
// resource's bin-path annotation: the file's own directory, any ancestor
// "bin" directory that exists, the directory of the running scope binary
// (SCOPE_BIN_DIR), then the process PATH, in that order.
func binSearchPath(fileDir string) string {
	var paths []string
	if fileDir != "" {
		paths = append(paths, fileDir)
	}

	for dir := fileDir; dir != ""; {
		candidate := filepath.Join(dir, "bin")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			paths = append(paths, candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Dir(exe))
	}
	if p := os.Getenv("PATH"); p != "" {
		paths = append(paths, p)
	}

	return strings.Join(paths, ":")
}
