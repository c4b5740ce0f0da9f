// Command chmodder calls chmod on itself, for driving the seccomp
// security-breach scenario in the watchdog's end-to-end test suite: chmod
// is on the hardening pipeline's deny-list.
package main

import "os"

func main() {
	if err := os.Chmod(os.Args[0], 0o755); err != nil {
		os.Exit(1)
	}
}
