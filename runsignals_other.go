//go:build !linux
// +build !linux

package earthview

import (
	"os"
)

func signals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
