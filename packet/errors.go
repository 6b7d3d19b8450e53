package packet

import "fmt"

func errShortBuffer(what string) error {
	return fmt.Errorf("packet: short buffer for %s", what)
}
