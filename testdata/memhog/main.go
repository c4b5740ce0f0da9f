// Command memhog allocates and touches 200 MiB, for driving the
// peak-memory breach scenario in the watchdog's end-to-end test suite.
package main

import "time"

func main() {
	const size = 200 * 1024 * 1024
	buf := make([]byte, size)
	for i := 0; i < len(buf); i += 4096 {
		buf[i] = 1
	}
	time.Sleep(10 * time.Second)
}
