package xconsole

import "io"

// fdWriter 带文件描述符的输出目标，如 *os.File
type fdWriter interface {
	Fd() uintptr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isTerminalFd(int(f.Fd()))
}
